package readerstate

import (
	"time"

	"github.com/mrlokans/novelreader/internal/cachestore"
	"github.com/mrlokans/novelreader/internal/entities"
)

const (
	historyKey          = "search_history"
	historyTTL          = 30 * 24 * time.Hour
	maxHistoryEntries   = 50
	DefaultHistoryLimit = 20
)

// SaveSearch records a search. A repeated (keyword, target) pair is updated
// where it stands; a new pair goes to the front. The list is capped at 50.
func (s *Store) SaveSearch(keyword string, target entities.SearchTarget, resultCount int) {
	list := s.loadHistory()
	now := s.now()

	found := false
	for i := range list {
		if list[i].Keyword == keyword && list[i].Target == target {
			list[i].Timestamp = now
			list[i].ResultCount = resultCount
			found = true
			break
		}
	}
	if !found {
		entry := entities.SearchHistoryEntry{
			Keyword:     keyword,
			Target:      target,
			Timestamp:   now,
			ResultCount: resultCount,
		}
		list = append([]entities.SearchHistoryEntry{entry}, list...)
	}

	if len(list) > maxHistoryEntries {
		list = list[:maxHistoryEntries]
	}

	s.cache.Set(historyKey, list, historyTTL)
}

// SearchHistory returns up to limit entries; limit <= 0 means 20.
func (s *Store) SearchHistory(limit int) []entities.SearchHistoryEntry {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	list := s.loadHistory()
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

func (s *Store) ClearSearchHistory() {
	s.cache.Remove(historyKey)
}

func (s *Store) loadHistory() []entities.SearchHistoryEntry {
	list, _ := cachestore.Lookup[[]entities.SearchHistoryEntry](s.cache, historyKey)
	if list == nil {
		list = []entities.SearchHistoryEntry{}
	}
	return list
}
