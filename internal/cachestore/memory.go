package cachestore

import (
	"sort"
	"strings"
	"sync"
)

// MemorySubstrate keeps items in a map. A positive maxBytes bounds the sum of
// key and value lengths.
type MemorySubstrate struct {
	mu       sync.RWMutex
	items    map[string]string
	maxBytes int64
	used     int64
}

func NewMemorySubstrate(maxBytes int64) *MemorySubstrate {
	return &MemorySubstrate{
		items:    make(map[string]string),
		maxBytes: maxBytes,
	}
}

func (m *MemorySubstrate) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemorySubstrate) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delta := int64(len(key) + len(value))
	if old, ok := m.items[key]; ok {
		delta -= int64(len(key) + len(old))
	}
	if m.maxBytes > 0 && m.used+delta > m.maxBytes {
		return ErrQuotaExceeded
	}

	m.items[key] = value
	m.used += delta
	return nil
}

func (m *MemorySubstrate) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.items[key]; ok {
		m.used -= int64(len(key) + len(old))
		delete(m.items, key)
	}
	return nil
}

func (m *MemorySubstrate) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Used returns the bytes currently accounted against the quota.
func (m *MemorySubstrate) Used() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}
