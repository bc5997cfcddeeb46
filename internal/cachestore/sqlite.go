package cachestore

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/novelreader/internal/entities"
)

// SQLiteSubstrate stores items in the cache_items table of the main
// database so cached state survives restarts.
type SQLiteSubstrate struct {
	db       *gorm.DB
	maxBytes int64
}

func NewSQLiteSubstrate(db *gorm.DB, maxBytes int64) (*SQLiteSubstrate, error) {
	if err := db.AutoMigrate(&entities.CacheItem{}); err != nil {
		return nil, fmt.Errorf("migrate cache_items: %w", err)
	}
	return &SQLiteSubstrate{db: db, maxBytes: maxBytes}, nil
}

func (s *SQLiteSubstrate) GetItem(key string) (string, bool, error) {
	var item entities.CacheItem
	err := s.db.Where("cache_key = ?", key).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return item.Value, true, nil
}

func (s *SQLiteSubstrate) SetItem(key, value string) error {
	size := int64(len(key) + len(value))

	if s.maxBytes > 0 {
		var used int64
		err := s.db.Model(&entities.CacheItem{}).
			Where("cache_key <> ?", key).
			Select("COALESCE(SUM(size), 0)").
			Scan(&used).Error
		if err != nil {
			return err
		}
		if used+size > s.maxBytes {
			return ErrQuotaExceeded
		}
	}

	var item entities.CacheItem
	return s.db.Where(entities.CacheItem{Key: key}).
		Assign(entities.CacheItem{Value: value, Size: size}).
		FirstOrCreate(&item).Error
}

func (s *SQLiteSubstrate) RemoveItem(key string) error {
	return s.db.Where("cache_key = ?", key).Delete(&entities.CacheItem{}).Error
}

func (s *SQLiteSubstrate) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.Model(&entities.CacheItem{}).
		Where(`cache_key LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%").
		Order("cache_key").
		Pluck("cache_key", &keys).Error
	return keys, err
}

// escapeLike escapes LIKE wildcards; the default namespace contains '_'.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
