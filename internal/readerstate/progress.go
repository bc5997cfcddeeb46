package readerstate

import (
	"sort"
	"time"

	"github.com/mrlokans/novelreader/internal/cachestore"
	"github.com/mrlokans/novelreader/internal/entities"
)

const (
	progressKey        = "reading_progress"
	progressTTL        = 7 * 24 * time.Hour
	maxProgressEntries = 100
)

// SaveProgress upserts the entry for p.NovelID, stamped with the current
// time. Past 100 entries the oldest are dropped.
func (s *Store) SaveProgress(p entities.ReadingProgress) {
	p.Timestamp = s.now()

	list := s.loadProgress()

	replaced := false
	for i := range list {
		if list[i].NovelID == p.NovelID {
			list[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, p)
	}

	if len(list) > maxProgressEntries {
		sortByRecency(list)
		list = list[:maxProgressEntries]
	}

	s.cache.Set(progressKey, list, progressTTL)
}

func (s *Store) Progress(novelID uint) (entities.ReadingProgress, bool) {
	for _, p := range s.loadProgress() {
		if p.NovelID == novelID {
			return p, true
		}
	}
	return entities.ReadingProgress{}, false
}

// AllProgress returns every entry, most recently read first.
func (s *Store) AllProgress() []entities.ReadingProgress {
	list := s.loadProgress()
	sortByRecency(list)
	return list
}

func (s *Store) RemoveProgress(novelID uint) {
	list := s.loadProgress()
	kept := list[:0]
	for _, p := range list {
		if p.NovelID != novelID {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(list) {
		return
	}
	s.cache.Set(progressKey, kept, progressTTL)
}

func (s *Store) loadProgress() []entities.ReadingProgress {
	list, _ := cachestore.Lookup[[]entities.ReadingProgress](s.cache, progressKey)
	if list == nil {
		list = []entities.ReadingProgress{}
	}
	return list
}

func sortByRecency(list []entities.ReadingProgress) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp.After(list[j].Timestamp)
	})
}
