package readerstate

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/cachestore"
)

const (
	contentKeyPrefix = "novel_content_"
	contentTTL       = 24 * time.Hour
	MaxContentBytes  = 5 * 1024 * 1024
)

func contentKey(novelID uint) string {
	return contentKeyPrefix + strconv.FormatUint(uint64(novelID), 10)
}

// CacheContent stores the text of a novel. Text over 5 MiB is not cached
// and false is returned.
func (s *Store) CacheContent(novelID uint, content string) bool {
	if len(content) > MaxContentBytes {
		s.logger.Warn("content too large to cache",
			zap.Uint("novel_id", novelID),
			zap.Int("bytes", len(content)))
		return false
	}
	s.cache.Set(contentKey(novelID), content, contentTTL)
	return true
}

func (s *Store) Content(novelID uint) (string, bool) {
	return cachestore.Lookup[string](s.cache, contentKey(novelID))
}

func (s *Store) RemoveContent(novelID uint) {
	s.cache.Remove(contentKey(novelID))
}
