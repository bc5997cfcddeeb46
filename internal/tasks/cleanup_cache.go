package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/logging"
)

const CleanupCacheQueue = "cleanup_cache"

// CacheSweeper is satisfied by *cachestore.Store.
type CacheSweeper interface {
	CleanupExpired() int
}

// CleanupCacheTask removes expired and unreadable cache entries.
type CleanupCacheTask struct{}

func (t CleanupCacheTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        CleanupCacheQueue,
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func CleanupCacheProcessor(sweeper CacheSweeper, logger *zap.Logger) backlite.QueueProcessor[CleanupCacheTask] {
	if logger == nil {
		logger = logging.Global()
	}
	return func(ctx context.Context, task CleanupCacheTask) error {
		if sweeper == nil {
			return errors.New("cache sweeper not configured")
		}
		removed := sweeper.CleanupExpired()
		logger.Info("cache sweep finished", zap.Int("removed", removed))
		return nil
	}
}

func NewCleanupCacheQueue(sweeper CacheSweeper, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupCacheProcessor(sweeper, logger))
}
