package entrypoint

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/audit"
	"github.com/mrlokans/novelreader/internal/cachestore"
	"github.com/mrlokans/novelreader/internal/config"
	"github.com/mrlokans/novelreader/internal/database"
	auditrepo "github.com/mrlokans/novelreader/internal/database/audit"
	"github.com/mrlokans/novelreader/internal/database/novels"
	"github.com/mrlokans/novelreader/internal/fetcher"
	"github.com/mrlokans/novelreader/internal/library"
	"github.com/mrlokans/novelreader/internal/logging"
	"github.com/mrlokans/novelreader/internal/metrics"
	"github.com/mrlokans/novelreader/internal/readerstate"
	"github.com/mrlokans/novelreader/internal/services"
)

// App holds the components shared by the server and the CLI commands.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	DB      *database.Database
	Cache   *cachestore.Store
	State   *readerstate.Store
	Fetcher *fetcher.Client
	Library *library.Library
	Reader  *services.ReaderService
	Audit   *audit.Service

	redis *redis.Client
}

// NewLogger builds the process logger from config and installs it globally.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.NewWithOptions(logging.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	logging.SetGlobal(logger)
	return logger, nil
}

// NewApp opens the database and the configured cache substrate and wires the
// library on top of them.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.DB = db

	sub, err := app.newSubstrate()
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Cache = cachestore.New(sub,
		cachestore.WithNamespace(cfg.Cache.Namespace),
		cachestore.WithDefaultTTL(cfg.Cache.DefaultTTL),
		cachestore.WithLogger(logger.Named("cache")),
		cachestore.WithMetrics(app.Metrics))
	app.State = readerstate.New(app.Cache, readerstate.WithLogger(logger.Named("state")))

	app.Fetcher = fetcher.NewClient(
		fetcher.WithUserAgent(cfg.Fetch.UserAgent),
		fetcher.WithBaseDelay(cfg.Fetch.BaseDelay),
		fetcher.WithDefaults(cfg.Fetch.Timeout, cfg.Fetch.Retries),
		fetcher.WithLogger(logger.Named("fetcher")),
		fetcher.WithMetrics(app.Metrics))

	app.Audit = audit.NewService(auditrepo.NewRepository(db.DB), logger.Named("audit"))
	app.Library = library.New(novels.NewRepository(db.DB), app.Fetcher, app.State,
		library.WithAuditor(app.Audit),
		library.WithLogger(logger.Named("library")))
	app.Reader = services.NewReaderService(app.Library, app.State, app.State)

	return app, nil
}

func (a *App) newSubstrate() (cachestore.Substrate, error) {
	cfg := a.Config
	switch cfg.Cache.Backend {
	case config.CacheBackendMemory:
		return cachestore.NewMemorySubstrate(cfg.Cache.MaxBytes), nil

	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		a.redis = client
		return cachestore.NewRedisSubstrate(client), nil

	case config.CacheBackendSQLite, "":
		sub, err := cachestore.NewSQLiteSubstrate(a.DB.DB, cfg.Cache.MaxBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache table: %w", err)
		}
		return sub, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// Close waits for pending audit writes and releases the database and any
// Redis connection.
func (a *App) Close() error {
	if a.Audit != nil {
		a.Audit.Wait()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("error closing redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
