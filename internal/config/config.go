package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type CacheBackend string

const (
	CacheBackendMemory CacheBackend = "memory" // Process-local, lost on restart
	CacheBackendSQLite CacheBackend = "sqlite" // Table in the main database (default)
	CacheBackendRedis  CacheBackend = "redis"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Cache
		Redis
		Fetch
		Tasks
		Logging
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Cache struct {
		Backend       CacheBackend
		Namespace     string
		DefaultTTL    time.Duration
		MaxBytes      int64  // 0 disables the quota
		SweepSchedule string // Cron format: "*/30 * * * *" = every 30 minutes
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Fetch struct {
		Timeout     time.Duration
		Retries     int
		BaseDelay   time.Duration
		UserAgent   string
		Concurrency int // Parallel downloads for the CLI batch fetch
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration

		AuditRetentionDays   int
		AuditCleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Logging struct {
		Level      string
		File       string
		MaxSizeMB  int
		MaxBackups int
	}
)

// NewConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// take precedence over it.
func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Cache defaults
	v.SetDefault("cache_backend", string(CacheBackendSQLite))
	v.SetDefault("cache_namespace", DefaultCacheNamespace)
	v.SetDefault("cache_default_ttl", "24h")
	v.SetDefault("cache_max_bytes", 0)
	v.SetDefault("cache_sweep_schedule", "*/30 * * * *")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	// Fetch defaults
	v.SetDefault("fetch_timeout", "30s")
	v.SetDefault("fetch_retries", 3)
	v.SetDefault("fetch_base_delay", "1s")
	v.SetDefault("fetch_user_agent", DefaultUserAgent)
	v.SetDefault("fetch_concurrency", 4)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 50)
	v.SetDefault("log_max_backups", 3)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Cache: Cache{
			Backend:       CacheBackend(v.GetString("CACHE_BACKEND")),
			Namespace:     v.GetString("CACHE_NAMESPACE"),
			DefaultTTL:    v.GetDuration("CACHE_DEFAULT_TTL"),
			MaxBytes:      v.GetInt64("CACHE_MAX_BYTES"),
			SweepSchedule: v.GetString("CACHE_SWEEP_SCHEDULE"),
		},
		Redis: Redis{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Fetch: Fetch{
			Timeout:     v.GetDuration("FETCH_TIMEOUT"),
			Retries:     v.GetInt("FETCH_RETRIES"),
			BaseDelay:   v.GetDuration("FETCH_BASE_DELAY"),
			UserAgent:   v.GetString("FETCH_USER_AGENT"),
			Concurrency: v.GetInt("FETCH_CONCURRENCY"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),

			AuditRetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			AuditCleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Logging: Logging{
			Level:      v.GetString("LOG_LEVEL"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		},
	}
}
