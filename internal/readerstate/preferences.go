package readerstate

import (
	"errors"
	"fmt"

	"github.com/mrlokans/novelreader/internal/entities"
)

const preferencesKey = "user_preferences"

var ErrInvalidTheme = errors.New("theme must be light, dark or auto")

// PreferencesPatch carries only the fields to change.
type PreferencesPatch struct {
	FontSize    *int            `json:"fontSize,omitempty"`
	LineHeight  *float64        `json:"lineHeight,omitempty"`
	Theme       *entities.Theme `json:"theme,omitempty"`
	AutoScroll  *bool           `json:"autoScroll,omitempty"`
	ScrollSpeed *int            `json:"scrollSpeed,omitempty"`
}

// Preferences returns the stored preferences laid over the defaults.
func (s *Store) Preferences() entities.UserPreferences {
	prefs := entities.DefaultPreferences()
	if !s.cache.Get(preferencesKey, &prefs) {
		return entities.DefaultPreferences()
	}
	return prefs
}

// UpdatePreferences merges patch into the current preferences and stores
// the result.
func (s *Store) UpdatePreferences(patch PreferencesPatch) (entities.UserPreferences, error) {
	if patch.Theme != nil && !patch.Theme.Valid() {
		return entities.UserPreferences{}, fmt.Errorf("%w: %q", ErrInvalidTheme, *patch.Theme)
	}

	prefs := s.Preferences()
	if patch.FontSize != nil {
		prefs.FontSize = *patch.FontSize
	}
	if patch.LineHeight != nil {
		prefs.LineHeight = *patch.LineHeight
	}
	if patch.Theme != nil {
		prefs.Theme = *patch.Theme
	}
	if patch.AutoScroll != nil {
		prefs.AutoScroll = *patch.AutoScroll
	}
	if patch.ScrollSpeed != nil {
		prefs.ScrollSpeed = *patch.ScrollSpeed
	}

	s.cache.Set(preferencesKey, prefs, s.cache.DefaultTTL())
	return prefs, nil
}
