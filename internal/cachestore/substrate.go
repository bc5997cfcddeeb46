package cachestore

import "errors"

// ErrQuotaExceeded is returned by substrates when a write would exceed
// their byte budget.
var ErrQuotaExceeded = errors.New("cache quota exceeded")

// Substrate is raw string key/value storage. Keys are full, namespaced keys.
type Substrate interface {
	// GetItem returns ok=false with a nil error for a missing key.
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	// Keys lists every key starting with prefix.
	Keys(prefix string) ([]string, error)
}
