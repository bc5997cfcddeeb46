// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Storage
//
//   - cachestore.Substrate: Raw key/value backend under the cache store
//     (memory, SQLite table, Redis) (internal/cachestore/substrate.go)
//   - services.ContentCache: Cached novel text (internal/services/interfaces.go)
//   - services.SearchRecorder: Search history writes (internal/services/interfaces.go)
//
// ## Library
//
//   - services.CatalogProvider: Novel lookup, listing and keyword search
//     (internal/services/interfaces.go)
//   - library.Fetcher: URL, upload and JSON API ingestion (internal/library/library.go)
//   - library.Auditor: Audit trail for ingest, refresh and delete (internal/library/library.go)
//
// ## Background Work
//
//   - tasks.URLCacher, tasks.CacheSweeper, tasks.AuditEventCleaner: Task
//     processor dependencies (internal/tasks/)
//   - scheduler.Enqueuer: Hands scheduled work to the task queue
//     (internal/scheduler/cache_sweep.go)
//
// ## HTTP
//
// Each controller depends on a narrow interface declared in
// internal/http/stores.go.
//
// # Adding a New Cache Backend
//
//  1. Implement Substrate in internal/cachestore/
//
//     type MemcachedSubstrate struct {
//     client *memcache.Client
//     }
//
//     func (m *MemcachedSubstrate) GetItem(key string) (string, bool, error)
//     func (m *MemcachedSubstrate) SetItem(key, value string) error
//     func (m *MemcachedSubstrate) RemoveItem(key string) error
//     func (m *MemcachedSubstrate) Keys(prefix string) ([]string, error)
//
//  2. Add a CacheBackend constant in internal/config/config.go
//
//  3. Select it in App.newSubstrate (internal/entrypoint/app.go)
//
// Expiry, namespacing and the quota live in cachestore.Store, so a substrate
// only moves strings.
//
// # Adding a New Background Task
//
//  1. Define the task and its queue config in internal/tasks/
//
//     type ReindexTask struct{}
//
//     func (t ReindexTask) Config() backlite.QueueConfig
//
//  2. Write a processor and a NewReindexQueue constructor
//
//  3. Register the queue in entrypoint.Run
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
