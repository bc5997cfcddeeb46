package entities

import "time"

// CacheItem is a raw key/value row backing the SQLite cache substrate.
type CacheItem struct {
	Key       string    `gorm:"column:cache_key;primaryKey;size:512"`
	Value     string    `gorm:"type:text"`
	Size      int64     // len(Key) + len(Value), used for the quota
	UpdatedAt time.Time `gorm:"index"`
}

func (CacheItem) TableName() string {
	return "cache_items"
}
