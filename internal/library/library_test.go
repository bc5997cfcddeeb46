package library

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/novelreader/internal/cachestore"
	"github.com/mrlokans/novelreader/internal/database/novels"
	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/fetcher"
	"github.com/mrlokans/novelreader/internal/readerstate"
	"github.com/mrlokans/novelreader/internal/services"
)

type fakeFetcher struct {
	result  *entities.FetchResult
	err     error
	outcome entities.ValidationOutcome
	calls   int
}

func (f *fakeFetcher) FetchFromURL(ctx context.Context, rawURL string, opts fetcher.Options) (*entities.FetchResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	res := *f.result
	return &res, nil
}

func (f *fakeFetcher) FetchFromUpload(filename string, size int64, r io.Reader) (*entities.FetchResult, error) {
	return f.FetchFromURL(context.Background(), filename, fetcher.Options{})
}

func (f *fakeFetcher) IngestCustomJSON(ctx context.Context, rawURL string, cfg fetcher.CustomJSONConfig, opts fetcher.Options) (*entities.FetchResult, error) {
	return f.FetchFromURL(ctx, rawURL, opts)
}

func (f *fakeFetcher) CheckURL(ctx context.Context, rawURL string, timeout time.Duration) entities.ValidationOutcome {
	return f.outcome
}

type recordedEvent struct {
	kind    string
	source  string
	novelID uint
	updated bool
	err     error
}

type fakeAuditor struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (a *fakeAuditor) LogIngest(sourceType entities.SourceType, source string, novel *entities.CachedNovel, byteSize int64, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ev := recordedEvent{kind: "ingest:" + string(sourceType), source: source, err: err}
	if novel != nil {
		ev.novelID = novel.ID
	}
	a.events = append(a.events, ev)
}

func (a *fakeAuditor) LogRefresh(novelID uint, source string, updated bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, recordedEvent{kind: "refresh", source: source, novelID: novelID, updated: updated, err: err})
}

func (a *fakeAuditor) LogDelete(novelID uint, title string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, recordedEvent{kind: "delete", novelID: novelID})
}

type fixture struct {
	lib     *Library
	fetch   *fakeFetcher
	state   *readerstate.Store
	auditor *fakeAuditor
}

func newRepo(t *testing.T) *novels.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "library.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.CachedNovel{}, &entities.NovelContent{}))
	return novels.NewRepository(db)
}

func newState() *readerstate.Store {
	cache := cachestore.New(cachestore.NewMemorySubstrate(0), cachestore.WithLogger(zap.NewNop()))
	return readerstate.New(cache, readerstate.WithLogger(zap.NewNop()))
}

func newFixture(t *testing.T, f Fetcher) *fixture {
	t.Helper()
	fx := &fixture{state: newState(), auditor: &fakeAuditor{}}
	if ff, ok := f.(*fakeFetcher); ok {
		fx.fetch = ff
	}
	fx.lib = New(newRepo(t), f, fx.state, WithAuditor(fx.auditor), WithLogger(zap.NewNop()))
	return fx
}

func result(title, author, content, size string) *entities.FetchResult {
	return &entities.FetchResult{Title: title, Author: author, Content: content, FileSize: size}
}

func TestCacheFromURL(t *testing.T) {
	ff := &fakeFetcher{result: result("斗破苍穹", "天蚕土豆", "第一章 陨落的天才", "27 B")}
	fx := newFixture(t, ff)

	novel, content, err := fx.lib.CacheFromURL(context.Background(), "http://example.com/a.txt", fetcher.Options{})
	require.NoError(t, err)

	assert.NotZero(t, novel.ID)
	assert.Equal(t, entities.SourceTypeURL, novel.SourceType)
	assert.Equal(t, "http://example.com/a.txt", novel.FilePath)
	assert.Equal(t, "http://example.com/a.txt", novel.SourceURL)
	assert.Equal(t, []string{entities.PathOnlineResources, "天蚕土豆"}, novel.PathParts)
	assert.Equal(t, 9, novel.WordCount)
	assert.Equal(t, int64(len(content)), novel.CacheSize)
	assert.Equal(t, Checksum(content), novel.Checksum)
	assert.Len(t, novel.Checksum, 16)

	cached, ok := fx.state.Content(novel.ID)
	require.True(t, ok)
	assert.Equal(t, content, cached)

	stored, err := fx.lib.LoadContent(novel.ID)
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	require.Len(t, fx.auditor.events, 1)
	assert.Equal(t, "ingest:url", fx.auditor.events[0].kind)
	assert.Equal(t, novel.ID, fx.auditor.events[0].novelID)
}

func TestCacheFromURL_FailureIsAudited(t *testing.T) {
	boom := errors.New("boom")
	fx := newFixture(t, &fakeFetcher{err: boom})

	_, _, err := fx.lib.CacheFromURL(context.Background(), "http://example.com/a.txt", fetcher.Options{})
	require.ErrorIs(t, err, boom)

	all, err := fx.lib.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)

	require.Len(t, fx.auditor.events, 1)
	assert.ErrorIs(t, fx.auditor.events[0].err, boom)
}

func TestCacheUpload(t *testing.T) {
	fx := newFixture(t, &fakeFetcher{result: result("story", "", "hello", "5 B")})

	novel, _, err := fx.lib.CacheUpload("story.txt", 5, strings.NewReader("hello"))
	require.NoError(t, err)

	assert.Equal(t, entities.SourceTypeUpload, novel.SourceType)
	assert.Equal(t, "story.txt", novel.FilePath)
	assert.Empty(t, novel.SourceURL)
	assert.Equal(t, []string{entities.PathLocalUploads, "未知作者"}, novel.PathParts)
}

func TestCacheFromCustomJSON(t *testing.T) {
	fx := newFixture(t, &fakeFetcher{result: result("API Novel", "Writer", "text", "4 B")})

	novel, _, err := fx.lib.CacheFromCustomJSON(context.Background(), "http://api.test/novel", fetcher.CustomJSONConfig{}, fetcher.Options{})
	require.NoError(t, err)

	assert.Equal(t, entities.SourceTypeCustomJSON, novel.SourceType)
	assert.Equal(t, []string{"API Novel"}, novel.PathParts)
	assert.Equal(t, "ingest:custom_json", fx.auditor.events[0].kind)
}

func TestCacheContent_TooLargeStillStored(t *testing.T) {
	big := strings.Repeat("a", readerstate.MaxContentBytes+1)
	fx := newFixture(t, &fakeFetcher{result: result("Big", "A", big, "5 MB")})

	novel, _, err := fx.lib.CacheFromURL(context.Background(), "http://example.com/big.txt", fetcher.Options{})
	require.NoError(t, err)

	_, ok := fx.state.Content(novel.ID)
	assert.False(t, ok)

	stored, err := fx.lib.LoadContent(novel.ID)
	require.NoError(t, err)
	assert.Len(t, stored, len(big))
}

func TestUpdateURLNovel(t *testing.T) {
	ff := &fakeFetcher{
		result:  result("A", "B", "one", "3 B"),
		outcome: entities.ValidationOutcome{Valid: true},
	}
	fx := newFixture(t, ff)
	ctx := context.Background()

	novel, _, err := fx.lib.CacheFromURL(ctx, "http://example.com/a.txt", fetcher.Options{})
	require.NoError(t, err)

	t.Run("unchanged size and count", func(t *testing.T) {
		ff.result = result("A", "B", "two", "3 B")
		content, updated, err := fx.lib.UpdateURLNovel(ctx, novel.ID, fetcher.Options{})
		require.NoError(t, err)
		assert.False(t, updated)
		assert.Equal(t, "two", content)

		stored, err := fx.lib.LoadContent(novel.ID)
		require.NoError(t, err)
		assert.Equal(t, "one", stored)
	})

	t.Run("changed word count", func(t *testing.T) {
		ff.result = result("A2", "B", "three", "5 B")
		content, updated, err := fx.lib.UpdateURLNovel(ctx, novel.ID, fetcher.Options{})
		require.NoError(t, err)
		assert.True(t, updated)
		assert.Equal(t, "three", content)

		got, err := fx.lib.GetByID(novel.ID)
		require.NoError(t, err)
		assert.Equal(t, "A2", got.Title)
		assert.Equal(t, 5, got.WordCount)
		assert.Equal(t, []string{entities.PathOnlineResources, "B"}, got.PathParts)

		cached, ok := fx.state.Content(novel.ID)
		require.True(t, ok)
		assert.Equal(t, "three", cached)
	})

	t.Run("source gone", func(t *testing.T) {
		ff.outcome = entities.ValidationOutcome{Failure: &entities.ValidationFailure{Kind: entities.FailureServer, Message: "HTTP error: 404"}}
		_, _, err := fx.lib.UpdateURLNovel(ctx, novel.ID, fetcher.Options{})
		require.ErrorIs(t, err, ErrSourceUnavailable)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, _, err := fx.lib.UpdateURLNovel(ctx, 999, fetcher.Options{})
		require.ErrorIs(t, err, services.ErrNovelNotFound)
	})
}

func TestUpdateURLNovel_RejectsUploads(t *testing.T) {
	fx := newFixture(t, &fakeFetcher{result: result("A", "B", "text", "4 B")})

	novel, _, err := fx.lib.CacheUpload("a.txt", 4, strings.NewReader("text"))
	require.NoError(t, err)

	_, _, err = fx.lib.UpdateURLNovel(context.Background(), novel.ID, fetcher.Options{})
	require.ErrorIs(t, err, ErrNotURLNovel)
}

func TestSearch(t *testing.T) {
	ff := &fakeFetcher{}
	fx := newFixture(t, ff)
	ctx := context.Background()

	ff.result = result("Dragon Dragon", "Alice", "a dragon sleeps", "1 B")
	first, _, err := fx.lib.CacheFromURL(ctx, "http://x/1", fetcher.Options{})
	require.NoError(t, err)

	ff.result = result("Sea", "Dragonborn", "no match here", "1 B")
	second, _, err := fx.lib.CacheFromURL(ctx, "http://x/2", fetcher.Options{})
	require.NoError(t, err)

	t.Run("title counts occurrences", func(t *testing.T) {
		res, err := fx.lib.Search("dragon", entities.SearchTargetTitle)
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, first.ID, res[0].Novel.ID)
		assert.Equal(t, 2, res[0].Count)
	})

	t.Run("both ranks by count", func(t *testing.T) {
		res, err := fx.lib.Search("DRAGON", entities.SearchTargetBoth)
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, first.ID, res[0].Novel.ID)
		assert.Equal(t, second.ID, res[1].Novel.ID)
		assert.Equal(t, 1, res[1].Count)
	})

	t.Run("content", func(t *testing.T) {
		res, err := fx.lib.Search("sleeps", entities.SearchTargetContent)
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, first.ID, res[0].Novel.ID)
	})

	t.Run("empty keyword", func(t *testing.T) {
		res, err := fx.lib.Search("", entities.SearchTargetBoth)
		require.NoError(t, err)
		assert.Empty(t, res)
	})
}

func TestDelete(t *testing.T) {
	fx := newFixture(t, &fakeFetcher{result: result("A", "B", "text", "4 B")})

	novel, _, err := fx.lib.CacheFromURL(context.Background(), "http://x/1", fetcher.Options{})
	require.NoError(t, err)

	require.NoError(t, fx.lib.Delete(novel.ID))

	_, err = fx.lib.GetByID(novel.ID)
	require.ErrorIs(t, err, services.ErrNovelNotFound)
	_, ok := fx.state.Content(novel.ID)
	assert.False(t, ok)

	require.ErrorIs(t, fx.lib.Delete(novel.ID), services.ErrNovelNotFound)
	assert.Equal(t, "delete", fx.auditor.events[len(fx.auditor.events)-1].kind)
}

func TestCacheFromURL_RealClient(t *testing.T) {
	body := "《凡人修仙传》\n作者：忘语\n第一章 山边小村"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	client := fetcher.NewClient(fetcher.WithHTTPClient(srv.Client()), fetcher.WithLogger(zap.NewNop()))
	fx := newFixture(t, client)

	novel, content, err := fx.lib.CacheFromURL(context.Background(), srv.URL+"/book.txt", fetcher.Options{Retries: 1})
	require.NoError(t, err)
	assert.Equal(t, body, content)
	assert.Equal(t, "凡人修仙传", novel.Title)
	assert.Equal(t, "忘语", novel.Author)
}
