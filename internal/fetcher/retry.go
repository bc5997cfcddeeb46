package fetcher

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/metadata"
	"github.com/mrlokans/novelreader/internal/textcodec"
	"github.com/mrlokans/novelreader/internal/utils"
)

// Options tune a single fetch. Zero values fall back to the client defaults.
type Options struct {
	Timeout  time.Duration
	Retries  int
	Progress ProgressSink
}

// linearBackOff waits attempt × base: 1s, 2s, 3s, ...
type linearBackOff struct {
	base    time.Duration
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return time.Duration(b.attempt) * b.base
}

func (b *linearBackOff) Reset() {
	b.attempt = 0
}

// FetchFromURL validates, downloads, decodes and extracts metadata, retrying
// the whole sequence up to opts.Retries times.
func (c *Client) FetchFromURL(ctx context.Context, rawURL string, opts Options) (*entities.FetchResult, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = c.defaultTimeout
	}
	if opts.Retries <= 0 {
		opts.Retries = c.defaultRetries
	}

	log := c.logger.With(zap.String("url", rawURL))

	var (
		result   *entities.FetchResult
		attempts int
	)
	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempts++

		res, err := c.attempt(ctx, rawURL, opts)
		if err != nil {
			c.metrics.FetchAttempt("failure")
			log.Warn("fetch attempt failed",
				zap.Int("attempt", attempts),
				zap.Int("retries", opts.Retries),
				zap.Error(err))
			if errors.Is(err, ErrFileTooLarge) {
				return backoff.Permanent(err)
			}
			return err
		}

		c.metrics.FetchAttempt("success")
		result = res
		return nil
	}

	var b backoff.BackOff = &linearBackOff{base: c.baseDelay}
	b = backoff.WithMaxRetries(b, uint64(opts.Retries-1))
	b = backoff.WithContext(b, ctx)

	notify := func(err error, wait time.Duration) {
		log.Debug("retrying fetch", zap.Duration("wait", wait))
	}

	if err := backoff.RetryNotifyWithTimer(operation, b, notify, c.timer); err != nil {
		return nil, &FetchError{URL: rawURL, Attempts: attempts, Err: err}
	}

	log.Info("fetched novel",
		zap.String("title", result.Title),
		zap.String("size", result.FileSize))

	return result, nil
}

func (c *Client) attempt(ctx context.Context, rawURL string, opts Options) (*entities.FetchResult, error) {
	outcome := c.validator.Check(ctx, rawURL, opts.Timeout)
	if !outcome.Valid {
		return nil, outcome.Failure
	}

	raw, err := c.Download(ctx, rawURL, opts.Timeout, opts.Progress)
	if err != nil {
		return nil, err
	}

	text := textcodec.Decode(raw)
	info := metadata.Extract(text, rawURL)

	return &entities.FetchResult{
		Content:  text,
		Title:    info.Title,
		Author:   info.Author,
		FileSize: utils.FormatFileSize(int64(len(raw))),
	}, nil
}
