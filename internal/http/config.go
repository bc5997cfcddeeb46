package http

import (
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/metrics"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
// Optional dependencies may be left nil; their routes then answer 503.
type RouterConfig struct {
	// Core dependencies
	Library NovelLibrary
	Probe   SourceProbe
	Reader  NovelReader
	State   ReaderState

	// Maintenance
	Cache    CacheMaintainer
	Database Pinger
	Audit    AuditLog

	// Task queue client (optional)
	TaskClient TaskQueue

	// Fetch defaults applied when a request leaves them unset
	FetchTimeout time.Duration
	FetchRetries int

	Metrics *metrics.Metrics
	Logger  *zap.Logger

	// Application info
	Version string
}

func (cfg RouterConfig) logger() *zap.Logger {
	if cfg.Logger == nil {
		return zap.NewNop()
	}
	return cfg.Logger
}
