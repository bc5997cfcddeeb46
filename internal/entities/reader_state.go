package entities

import (
	"encoding/json"
	"time"
)

// CacheEntry is the envelope stored for every cache key.
type CacheEntry struct {
	Data      json.RawMessage `json:"data"`
	StoredAt  time.Time       `json:"stored_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Expired reports whether the entry is no longer valid at now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

type ReadingProgress struct {
	NovelID        uint      `json:"novelId"`
	Title          string    `json:"title"`
	Progress       float64   `json:"progress" binding:"gte=0,lte=100"`
	Page           int       `json:"page" binding:"gte=0"`
	ScrollPosition float64   `json:"scrollPosition" binding:"gte=0"`
	Timestamp      time.Time `json:"timestamp"`
}

type SearchHistoryEntry struct {
	Keyword     string       `json:"keyword"`
	Target      SearchTarget `json:"target"`
	Timestamp   time.Time    `json:"timestamp"`
	ResultCount int          `json:"resultCount"`
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeAuto
}

type UserPreferences struct {
	FontSize    int     `json:"fontSize"`
	LineHeight  float64 `json:"lineHeight"`
	Theme       Theme   `json:"theme"`
	AutoScroll  bool    `json:"autoScroll"`
	ScrollSpeed int     `json:"scrollSpeed"`
}

// DefaultPreferences is the floor every preferences read is merged onto.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		FontSize:    18,
		LineHeight:  1.8,
		Theme:       ThemeAuto,
		AutoScroll:  false,
		ScrollSpeed: 50,
	}
}
