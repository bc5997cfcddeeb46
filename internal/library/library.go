// Package library persists novels ingested from URLs, uploads and custom
// JSON endpoints, and serves them as a catalog.
package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/novelreader/internal/database/novels"
	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/fetcher"
	"github.com/mrlokans/novelreader/internal/logging"
	"github.com/mrlokans/novelreader/internal/metadata"
	"github.com/mrlokans/novelreader/internal/services"
)

var (
	ErrNotURLNovel       = errors.New("novel was not fetched from a URL")
	ErrSourceUnavailable = errors.New("source URL is no longer valid")
)

// Fetcher is satisfied by *fetcher.Client.
type Fetcher interface {
	FetchFromURL(ctx context.Context, rawURL string, opts fetcher.Options) (*entities.FetchResult, error)
	FetchFromUpload(filename string, size int64, r io.Reader) (*entities.FetchResult, error)
	IngestCustomJSON(ctx context.Context, rawURL string, cfg fetcher.CustomJSONConfig, opts fetcher.Options) (*entities.FetchResult, error)
	CheckURL(ctx context.Context, rawURL string, timeout time.Duration) entities.ValidationOutcome
}

// Auditor is satisfied by *audit.Service.
type Auditor interface {
	LogIngest(sourceType entities.SourceType, source string, novel *entities.CachedNovel, byteSize int64, err error)
	LogRefresh(novelID uint, source string, updated bool, err error)
	LogDelete(novelID uint, title string)
}

type Library struct {
	repo     *novels.Repository
	fetcher  Fetcher
	contents services.ContentCache
	auditor  Auditor
	logger   *zap.Logger
}

type Option func(*Library)

func WithAuditor(a Auditor) Option {
	return func(l *Library) { l.auditor = a }
}

func WithLogger(lg *zap.Logger) Option {
	return func(l *Library) { l.logger = lg }
}

func New(repo *novels.Repository, f Fetcher, contents services.ContentCache, opts ...Option) *Library {
	l := &Library{repo: repo, fetcher: f, contents: contents}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logging.Global()
	}
	return l
}

// CacheFromURL fetches rawURL and stores it under 在线资源/<author>.
func (l *Library) CacheFromURL(ctx context.Context, rawURL string, opts fetcher.Options) (*entities.CachedNovel, string, error) {
	res, err := l.fetcher.FetchFromURL(ctx, rawURL, opts)
	if err != nil {
		l.logIngest(entities.SourceTypeURL, rawURL, nil, err)
		return nil, "", err
	}

	novel := newNovel(res, entities.SourceTypeURL)
	novel.FilePath = rawURL
	novel.SourceURL = rawURL
	novel.PathParts = []string{entities.PathOnlineResources, authorOrUnknown(res.Author)}

	return l.store(novel, res.Content, rawURL)
}

// CacheUpload decodes an uploaded file and stores it under 本地上传/<author>.
func (l *Library) CacheUpload(filename string, size int64, r io.Reader) (*entities.CachedNovel, string, error) {
	res, err := l.fetcher.FetchFromUpload(filename, size, r)
	if err != nil {
		l.logIngest(entities.SourceTypeUpload, filename, nil, err)
		return nil, "", err
	}

	novel := newNovel(res, entities.SourceTypeUpload)
	novel.FilePath = filename
	novel.PathParts = []string{entities.PathLocalUploads, authorOrUnknown(res.Author)}

	return l.store(novel, res.Content, filename)
}

// CacheFromCustomJSON ingests a JSON endpoint and stores it under its title.
func (l *Library) CacheFromCustomJSON(ctx context.Context, rawURL string, cfg fetcher.CustomJSONConfig, opts fetcher.Options) (*entities.CachedNovel, string, error) {
	res, err := l.fetcher.IngestCustomJSON(ctx, rawURL, cfg, opts)
	if err != nil {
		l.logIngest(entities.SourceTypeCustomJSON, rawURL, nil, err)
		return nil, "", err
	}

	novel := newNovel(res, entities.SourceTypeCustomJSON)
	novel.FilePath = rawURL
	novel.SourceURL = rawURL
	novel.PathParts = []string{res.Title}

	return l.store(novel, res.Content, rawURL)
}

// UpdateURLNovel re-fetches a URL novel. The stored copy is replaced only
// when the file size or word count changed.
func (l *Library) UpdateURLNovel(ctx context.Context, id uint, opts fetcher.Options) (string, bool, error) {
	novel, err := l.GetByID(id)
	if err != nil {
		return "", false, err
	}
	if novel.SourceType != entities.SourceTypeURL || novel.SourceURL == "" {
		return "", false, fmt.Errorf("%w: %d", ErrNotURLNovel, id)
	}

	content, updated, err := l.refresh(ctx, novel, opts)
	if l.auditor != nil {
		l.auditor.LogRefresh(id, novel.SourceURL, updated, err)
	}
	if err != nil {
		return "", false, fmt.Errorf("update failed: %w", err)
	}
	return content, updated, nil
}

func (l *Library) refresh(ctx context.Context, novel *entities.CachedNovel, opts fetcher.Options) (string, bool, error) {
	outcome := l.fetcher.CheckURL(ctx, novel.SourceURL, fetcher.DefaultCheckTimeout)
	if !outcome.Valid {
		if outcome.Failure == nil {
			return "", false, ErrSourceUnavailable
		}
		return "", false, fmt.Errorf("%w: %w", ErrSourceUnavailable, outcome.Failure)
	}

	res, err := l.fetcher.FetchFromURL(ctx, novel.SourceURL, opts)
	if err != nil {
		return "", false, err
	}

	wordCount := utf8.RuneCountInString(res.Content)
	if novel.FileSize == res.FileSize && novel.WordCount == wordCount {
		return res.Content, false, nil
	}

	novel.Title = res.Title
	novel.Author = res.Author
	novel.FileSize = res.FileSize
	novel.WordCount = wordCount
	novel.CacheSize = int64(len(res.Content))
	novel.Checksum = Checksum(res.Content)

	if err := l.repo.Update(novel, res.Content); err != nil {
		return "", false, fmt.Errorf("failed to save novel: %w", err)
	}
	l.contents.CacheContent(novel.ID, res.Content)

	return res.Content, true, nil
}

func (l *Library) GetByID(id uint) (*entities.CachedNovel, error) {
	novel, err := l.repo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", services.ErrNovelNotFound, id)
	}
	return novel, err
}

func (l *Library) GetAll() ([]entities.CachedNovel, error) {
	return l.repo.GetAll()
}

// LoadContent returns the stored text of a novel.
func (l *Library) LoadContent(id uint) (string, error) {
	content, err := l.repo.Content(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: %d", services.ErrNovelNotFound, id)
	}
	return content, err
}

func (l *Library) Count() (int64, error) {
	return l.repo.Count()
}

// Delete removes the novel, its text and its cached copy.
func (l *Library) Delete(id uint) error {
	novel, err := l.GetByID(id)
	if err != nil {
		return err
	}
	if err := l.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete novel: %w", err)
	}
	l.contents.RemoveContent(id)
	if l.auditor != nil {
		l.auditor.LogDelete(id, novel.Title)
	}
	return nil
}

func (l *Library) store(novel *entities.CachedNovel, content, source string) (*entities.CachedNovel, string, error) {
	if err := l.repo.Create(novel, content); err != nil {
		err = fmt.Errorf("failed to save novel: %w", err)
		l.logIngest(novel.SourceType, source, nil, err)
		return nil, "", err
	}

	if !l.contents.CacheContent(novel.ID, content) {
		l.logger.Info("novel stored without a cached copy", zap.Uint("novel_id", novel.ID))
	}
	l.logIngest(novel.SourceType, source, novel, nil)

	l.logger.Info("novel cached",
		zap.Uint("novel_id", novel.ID),
		zap.String("title", novel.Title),
		zap.String("source_type", string(novel.SourceType)),
		zap.Int("word_count", novel.WordCount))

	return novel, content, nil
}

func (l *Library) logIngest(sourceType entities.SourceType, source string, novel *entities.CachedNovel, err error) {
	if l.auditor == nil {
		return
	}
	var size int64
	if novel != nil {
		size = novel.CacheSize
	}
	l.auditor.LogIngest(sourceType, source, novel, size, err)
}

func newNovel(res *entities.FetchResult, sourceType entities.SourceType) *entities.CachedNovel {
	return &entities.CachedNovel{
		Title:      res.Title,
		Author:     res.Author,
		SourceType: sourceType,
		FileSize:   res.FileSize,
		WordCount:  utf8.RuneCountInString(res.Content),
		CacheSize:  int64(len(res.Content)),
		Checksum:   Checksum(res.Content),
	}
}

// Checksum is the hex xxhash64 of the text. It doubles as the HTTP ETag.
func Checksum(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

func authorOrUnknown(author string) string {
	if author == "" {
		return metadata.UnknownAuthor
	}
	return author
}
