package services

import (
	"errors"

	"github.com/mrlokans/novelreader/internal/entities"
)

// ErrNovelNotFound is returned by CatalogProvider implementations for an
// unknown id.
var ErrNovelNotFound = errors.New("novel not found")

// CatalogProvider gives read access to a novel catalog.
type CatalogProvider interface {
	GetByID(id uint) (*entities.CachedNovel, error)
	GetAll() ([]entities.CachedNovel, error)
	Search(keyword string, target entities.SearchTarget) ([]entities.SearchResult, error)
	LoadContent(id uint) (string, error)
}

// ContentCache holds decoded novel text keyed by novel id.
type ContentCache interface {
	CacheContent(novelID uint, content string) bool
	Content(novelID uint) (string, bool)
	RemoveContent(novelID uint)
}

// SearchRecorder keeps the search history.
type SearchRecorder interface {
	SaveSearch(keyword string, target entities.SearchTarget, resultCount int)
}
