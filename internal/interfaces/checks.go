package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/novelreader/internal/audit"
	"github.com/mrlokans/novelreader/internal/cachestore"
	"github.com/mrlokans/novelreader/internal/database"
	"github.com/mrlokans/novelreader/internal/fetcher"
	"github.com/mrlokans/novelreader/internal/http"
	"github.com/mrlokans/novelreader/internal/library"
	"github.com/mrlokans/novelreader/internal/readerstate"
	"github.com/mrlokans/novelreader/internal/scheduler"
	"github.com/mrlokans/novelreader/internal/services"
	"github.com/mrlokans/novelreader/internal/tasks"
)

// =============================================================================
// Cache Substrates
// =============================================================================

var _ cachestore.Substrate = (*cachestore.MemorySubstrate)(nil)
var _ cachestore.Substrate = (*cachestore.SQLiteSubstrate)(nil)
var _ cachestore.Substrate = (*cachestore.RedisSubstrate)(nil)

// =============================================================================
// Library and Reader
// =============================================================================

var _ services.CatalogProvider = (*library.Library)(nil)
var _ services.ContentCache = (*readerstate.Store)(nil)
var _ services.SearchRecorder = (*readerstate.Store)(nil)
var _ library.Fetcher = (*fetcher.Client)(nil)
var _ library.Auditor = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.URLCacher = (*library.Library)(nil)
var _ tasks.CacheSweeper = (*cachestore.Store)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)

// =============================================================================
// HTTP Controllers
// =============================================================================

var _ http.NovelLibrary = (*library.Library)(nil)
var _ http.SourceProbe = (*fetcher.Client)(nil)
var _ http.NovelReader = (*services.ReaderService)(nil)
var _ http.ReaderState = (*readerstate.Store)(nil)
var _ http.CacheMaintainer = (*cachestore.Store)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
var _ http.AuditLog = (*audit.Service)(nil)
var _ http.Pinger = (*database.Database)(nil)
