// Package cachestore is a namespaced key/value store with per-entry expiry
// on top of a pluggable substrate (memory, SQLite or Redis).
package cachestore

import (
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/logging"
	"github.com/mrlokans/novelreader/internal/metrics"
)

const (
	DefaultNamespace = "novel_reader_"
	DefaultTTL       = 24 * time.Hour
)

type Stats struct {
	TotalSize    int64 `json:"totalSize"`
	ItemCount    int   `json:"itemCount"`
	ExpiredCount int   `json:"expiredCount"`
}

// Store wraps every value in an entities.CacheEntry envelope. Reads never
// fail: corrupt and expired entries are deleted and reported as absent.
// Writes never return errors; failures are logged.
type Store struct {
	sub        Substrate
	namespace  string
	defaultTTL time.Duration
	now        func() time.Time
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

type Option func(*Store)

func WithNamespace(ns string) Option {
	return func(s *Store) { s.namespace = ns }
}

func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(sub Substrate, opts ...Option) *Store {
	s := &Store{
		sub:        sub,
		namespace:  DefaultNamespace,
		defaultTTL: DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Global()
	}
	return s
}

func (s *Store) Namespace() string {
	return s.namespace
}

func (s *Store) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Set stores value under key for ttl. A ttl of zero or less deletes the key.
// When the substrate rejects the write, expired entries are swept and the
// write is tried once more.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		s.Remove(key)
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("cache encode failed", zap.String("key", key), zap.Error(err))
		s.metrics.CacheOperation("set", "error")
		return
	}

	now := s.now()
	raw, err := json.Marshal(entities.CacheEntry{
		Data:      data,
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		s.logger.Error("cache encode failed", zap.String("key", key), zap.Error(err))
		s.metrics.CacheOperation("set", "error")
		return
	}

	full := s.namespace + key
	if err := s.sub.SetItem(full, string(raw)); err != nil {
		s.logger.Warn("cache write failed, sweeping expired entries",
			zap.String("key", key), zap.Error(err))
		s.CleanupExpired()

		if err := s.sub.SetItem(full, string(raw)); err != nil {
			s.logger.Error("cache write failed after sweep",
				zap.String("key", key), zap.Int("bytes", len(raw)), zap.Error(err))
			s.metrics.CacheOperation("set", "error")
			return
		}
	}
	s.metrics.CacheOperation("set", "ok")
}

// Get decodes the value under key into dst and reports whether it was
// present and fresh.
func (s *Store) Get(key string, dst any) bool {
	full := s.namespace + key

	entry, ok := s.load(full)
	if !ok {
		s.metrics.CacheOperation("get", "miss")
		return false
	}
	if entry.Expired(s.now()) {
		s.removeFull(full)
		s.metrics.CacheOperation("get", "expired")
		return false
	}
	if err := json.Unmarshal(entry.Data, dst); err != nil {
		s.logger.Warn("cache value corrupt, removing", zap.String("key", key), zap.Error(err))
		s.removeFull(full)
		s.metrics.CacheOperation("get", "corrupt")
		return false
	}

	s.metrics.CacheOperation("get", "hit")
	return true
}

// Lookup is Get with the value returned directly.
func Lookup[T any](s *Store, key string) (T, bool) {
	var v T
	if !s.Get(key, &v) {
		var zero T
		return zero, false
	}
	return v, true
}

func (s *Store) Remove(key string) {
	s.removeFull(s.namespace + key)
	s.metrics.CacheOperation("remove", "ok")
}

// Clear removes every key in the namespace and returns how many were removed.
func (s *Store) Clear() int {
	keys, err := s.sub.Keys(s.namespace)
	if err != nil {
		s.logger.Error("cache clear failed", zap.Error(err))
		return 0
	}
	for _, k := range keys {
		s.removeFull(k)
	}
	s.metrics.CacheOperation("clear", "ok")
	return len(keys)
}

// CleanupExpired removes expired and undecodable entries and returns how
// many were removed.
func (s *Store) CleanupExpired() int {
	keys, err := s.sub.Keys(s.namespace)
	if err != nil {
		s.logger.Error("cache sweep failed", zap.Error(err))
		return 0
	}

	now := s.now()
	removed := 0
	for _, k := range keys {
		raw, ok, err := s.sub.GetItem(k)
		if err != nil || !ok {
			continue
		}
		var entry entities.CacheEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.Expired(now) {
			s.removeFull(k)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("swept cache", zap.Int("removed", removed))
	}
	s.metrics.CacheOperation("sweep", "ok")
	return removed
}

// Stats summarizes the namespace without modifying it. Undecodable entries
// are skipped.
func (s *Store) Stats() Stats {
	var st Stats

	keys, err := s.sub.Keys(s.namespace)
	if err != nil {
		s.logger.Error("cache stats failed", zap.Error(err))
		return st
	}

	now := s.now()
	for _, k := range keys {
		raw, ok, err := s.sub.GetItem(k)
		if err != nil || !ok {
			continue
		}
		var entry entities.CacheEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		st.ItemCount++
		st.TotalSize += int64(len(raw))
		if entry.Expired(now) {
			st.ExpiredCount++
		}
	}
	return st
}

// Keys lists the keys in the namespace with the prefix stripped.
func (s *Store) Keys() []string {
	keys, err := s.sub.Keys(s.namespace)
	if err != nil {
		s.logger.Error("cache key listing failed", zap.Error(err))
		return nil
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, s.namespace))
	}
	return out
}

func (s *Store) load(full string) (entities.CacheEntry, bool) {
	var entry entities.CacheEntry

	raw, ok, err := s.sub.GetItem(full)
	if err != nil {
		s.logger.Warn("cache read failed, treating as miss", zap.String("key", full), zap.Error(err))
		return entry, false
	}
	if !ok {
		return entry, false
	}
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		s.logger.Warn("cache entry corrupt, removing", zap.String("key", full), zap.Error(err))
		s.removeFull(full)
		return entry, false
	}
	return entry, true
}

func (s *Store) removeFull(full string) {
	if err := s.sub.RemoveItem(full); err != nil {
		s.logger.Warn("cache remove failed", zap.String("key", full), zap.Error(err))
	}
}
