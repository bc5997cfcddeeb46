package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/fetcher"
	"github.com/mrlokans/novelreader/internal/logging"
)

const FetchURLQueue = "fetch_url"

// URLCacher is satisfied by *library.Library.
type URLCacher interface {
	CacheFromURL(ctx context.Context, rawURL string, opts fetcher.Options) (*entities.CachedNovel, string, error)
}

// FetchURLTask downloads a URL into the library in the background.
type FetchURLTask struct {
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	Retries        int    `json:"retries,omitempty"`
}

// Config keeps a single attempt: the fetcher already retries internally.
func (t FetchURLTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        FetchURLQueue,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func (t FetchURLTask) options() fetcher.Options {
	return fetcher.Options{
		Timeout: time.Duration(t.TimeoutSeconds) * time.Second,
		Retries: t.Retries,
	}
}

func FetchURLProcessor(cacher URLCacher, logger *zap.Logger) backlite.QueueProcessor[FetchURLTask] {
	if logger == nil {
		logger = logging.Global()
	}
	return func(ctx context.Context, task FetchURLTask) error {
		if cacher == nil {
			return errors.New("url cacher not configured")
		}
		if task.URL == "" {
			return errors.New("fetch_url task without a url")
		}

		novel, _, err := cacher.CacheFromURL(ctx, task.URL, task.options())
		if err != nil {
			return err
		}

		logger.Info("background fetch finished",
			zap.String("url", task.URL),
			zap.Uint("novel_id", novel.ID),
			zap.String("title", novel.Title))
		return nil
	}
}

func NewFetchURLQueue(cacher URLCacher, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(FetchURLProcessor(cacher, logger))
}
