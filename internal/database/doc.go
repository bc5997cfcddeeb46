// Package database opens the SQLite database and migrates the schema.
//
// Domain queries live in sub-packages, each exposing a Repository built on
// the shared *gorm.DB:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── novels/          # Ingested novels and their text
//	└── audit/           # Ingestion audit trail
//
// The cache_items table belongs to the cachestore SQLite substrate, which
// migrates it again on construction so it can also run against a bare
// connection.
//
//	db, err := database.NewDatabase("./novelreader.db")
//	novelsRepo := novels.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
package database
