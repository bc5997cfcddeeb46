package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./novelreader.db"

	// DefaultCacheNamespace prefixes every key written to the cache substrate
	DefaultCacheNamespace = "novel_reader_"

	DefaultUserAgent = "novelreader/1.0"
)
