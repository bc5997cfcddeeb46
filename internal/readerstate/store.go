// Package readerstate keeps per-user reading state in the cache store:
// reading progress, search history, display preferences and novel text.
//
// Every operation reads the whole record, changes it and writes it back.
// There is no locking across operations, so concurrent writers to the same
// record race and the last write wins.
package readerstate

import (
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/cachestore"
	"github.com/mrlokans/novelreader/internal/logging"
)

type Store struct {
	cache  *cachestore.Store
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func New(cache *cachestore.Store, opts ...Option) *Store {
	s := &Store{cache: cache, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Global()
	}
	return s
}
