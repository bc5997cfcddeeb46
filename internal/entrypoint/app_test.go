package entrypoint

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/config"
	"github.com/mrlokans/novelreader/internal/entities"
)

func testConfig(t *testing.T, backend config.CacheBackend) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.Database{Path: filepath.Join(t.TempDir(), "app.db")},
		Cache: config.Cache{
			Backend:    backend,
			Namespace:  config.DefaultCacheNamespace,
			DefaultTTL: time.Hour,
		},
		Fetch: config.Fetch{
			Timeout:   time.Second,
			Retries:   1,
			BaseDelay: time.Millisecond,
			UserAgent: config.DefaultUserAgent,
		},
	}
}

func TestNewApp_Backends(t *testing.T) {
	for _, backend := range []config.CacheBackend{config.CacheBackendMemory, config.CacheBackendSQLite, ""} {
		t.Run(string(backend), func(t *testing.T) {
			app, err := NewApp(testConfig(t, backend), zap.NewNop())
			require.NoError(t, err)
			defer app.Close()

			require.NoError(t, app.DB.Ping())
			assert.Equal(t, config.DefaultCacheNamespace, app.Cache.Namespace())

			app.State.SaveProgress(entities.ReadingProgress{NovelID: 1, Progress: 10})
			_, ok := app.State.Progress(1)
			assert.True(t, ok)
			assert.Equal(t, 1, app.Cache.Stats().ItemCount)
		})
	}
}

func TestNewApp_UnknownBackend(t *testing.T) {
	_, err := NewApp(testConfig(t, "memcached"), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memcached")
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	cfg := testConfig(t, config.CacheBackendRedis)
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := NewApp(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestNewLogger(t *testing.T) {
	cfg := &config.Config{Logging: config.Logging{Level: "debug"}}

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}
