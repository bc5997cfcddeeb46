package http

import (
	"context"
	"io"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/novelreader/internal/cachestore"
	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/fetcher"
	"github.com/mrlokans/novelreader/internal/readerstate"
	"github.com/mrlokans/novelreader/internal/services"
)

// Each controller declares the narrow slice of behaviour it needs. The
// concrete types are wired in entrypoint.

// NovelLibrary is satisfied by *library.Library.
type NovelLibrary interface {
	CacheFromURL(ctx context.Context, rawURL string, opts fetcher.Options) (*entities.CachedNovel, string, error)
	CacheUpload(filename string, size int64, r io.Reader) (*entities.CachedNovel, string, error)
	CacheFromCustomJSON(ctx context.Context, rawURL string, cfg fetcher.CustomJSONConfig, opts fetcher.Options) (*entities.CachedNovel, string, error)
	UpdateURLNovel(ctx context.Context, id uint, opts fetcher.Options) (string, bool, error)
	GetAll() ([]entities.CachedNovel, error)
	Delete(id uint) error
}

// SourceProbe is satisfied by *fetcher.Client.
type SourceProbe interface {
	CheckURL(ctx context.Context, rawURL string, timeout time.Duration) entities.ValidationOutcome
	PreviewCustomJSON(ctx context.Context, rawURL string, cfg fetcher.CustomJSONConfig) (*fetcher.CustomJSONPreview, error)
}

// NovelReader is satisfied by *services.ReaderService.
type NovelReader interface {
	Search(keyword string, target entities.SearchTarget, page int) (*services.SearchPage, error)
	Novel(id uint) (*entities.CachedNovel, error)
	Content(ctx context.Context, id uint) (string, error)
}

// ReaderState is satisfied by *readerstate.Store.
type ReaderState interface {
	SaveProgress(p entities.ReadingProgress)
	Progress(novelID uint) (entities.ReadingProgress, bool)
	AllProgress() []entities.ReadingProgress
	RemoveProgress(novelID uint)

	SearchHistory(limit int) []entities.SearchHistoryEntry
	ClearSearchHistory()

	Preferences() entities.UserPreferences
	UpdatePreferences(patch readerstate.PreferencesPatch) (entities.UserPreferences, error)
}

// CacheMaintainer is satisfied by *cachestore.Store.
type CacheMaintainer interface {
	Stats() cachestore.Stats
	CleanupExpired() int
	Clear() int
}

// TaskQueue is satisfied by *tasks.Client.
type TaskQueue interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
	Ping(ctx context.Context) error
}

// AuditLog is satisfied by *audit.Service.
type AuditLog interface {
	GetEvents(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsForNovel(novelID uint) ([]entities.AuditEvent, error)
	LogCache(action string, removed int)
}

// Pinger is satisfied by *database.Database.
type Pinger interface {
	Ping() error
}
