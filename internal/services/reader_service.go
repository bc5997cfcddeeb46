package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/novelreader/internal/entities"
)

const SearchPageSize = 20

var ErrInvalidTarget = errors.New("target must be title, author, content or both")

// SearchPage is one page of catalog results.
type SearchPage struct {
	Total    int                     `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
	Records  []entities.SearchResult `json:"records"`
}

// ReaderService answers reader-facing queries against a catalog, keeping
// the search history and the content cache up to date.
type ReaderService struct {
	catalog  CatalogProvider
	contents ContentCache
	history  SearchRecorder
	loads    singleflight.Group
}

func NewReaderService(catalog CatalogProvider, contents ContentCache, history SearchRecorder) *ReaderService {
	return &ReaderService{catalog: catalog, contents: contents, history: history}
}

// Search runs a catalog search and records it in the history. An empty
// keyword lists the whole catalog, with word counts as the count, and is
// not recorded. page starts at 1.
func (s *ReaderService) Search(keyword string, target entities.SearchTarget, page int) (*SearchPage, error) {
	if target == "" {
		target = entities.SearchTargetBoth
	}
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, target)
	}
	if page < 1 {
		page = 1
	}

	var results []entities.SearchResult
	if keyword == "" {
		all, err := s.catalog.GetAll()
		if err != nil {
			return nil, fmt.Errorf("failed to list novels: %w", err)
		}
		results = make([]entities.SearchResult, 0, len(all))
		for _, n := range all {
			results = append(results, entities.SearchResult{Novel: n, Count: n.WordCount})
		}
	} else {
		found, err := s.catalog.Search(keyword, target)
		if err != nil {
			return nil, fmt.Errorf("search failed: %w", err)
		}
		results = found
		s.history.SaveSearch(keyword, target, len(results))
	}

	return paginate(results, page), nil
}

func paginate(results []entities.SearchResult, page int) *SearchPage {
	out := &SearchPage{
		Total:    len(results),
		Page:     page,
		PageSize: SearchPageSize,
		Records:  []entities.SearchResult{},
	}
	if page < 1 || page-1 >= (len(results)+SearchPageSize-1)/SearchPageSize {
		return out
	}
	start := (page - 1) * SearchPageSize
	end := start + SearchPageSize
	if end > len(results) {
		end = len(results)
	}
	out.Records = results[start:end]
	return out
}

func (s *ReaderService) Novel(id uint) (*entities.CachedNovel, error) {
	return s.catalog.GetByID(id)
}

// Content returns the text of a novel from the content cache, loading it
// from the catalog on a miss. Concurrent misses for the same id share one
// load.
func (s *ReaderService) Content(ctx context.Context, id uint) (string, error) {
	if content, ok := s.contents.Content(id); ok {
		return content, nil
	}

	ch := s.loads.DoChan(strconv.FormatUint(uint64(id), 10), func() (any, error) {
		content, err := s.catalog.LoadContent(id)
		if err != nil {
			return "", err
		}
		s.contents.CacheContent(id, content)
		return content, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}
