// Package prefs persists the user's dashboard preferences as a small JSON
// file.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Defaults applied when the file is missing or unreadable.
var defaults = Preferences{
	Theme:       ThemeLight,
	DefaultCity: "New Brunswick",
}

// Preferences holds the persisted user settings.
type Preferences struct {
	Theme       string `json:"theme"`
	DefaultCity string `json:"default_city"`
}

// Manager loads and saves preferences. Safe for concurrent use.
type Manager struct {
	mu   sync.RWMutex
	path string
	cur  Preferences
}

// NewManager reads path, falling back to defaults when the file is missing
// or corrupt. A corrupt file is never an error: the user just gets defaults.
func NewManager(path string) (*Manager, error) {
	m := &Manager{path: path, cur: defaults}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}

	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return m, nil
	}
	if p.Theme != ThemeLight && p.Theme != ThemeDark {
		p.Theme = defaults.Theme
	}
	if p.DefaultCity == "" {
		p.DefaultCity = defaults.DefaultCity
	}
	m.cur = p
	return m, nil
}

// Get returns the current preferences.
func (m *Manager) Get() Preferences {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

// Set validates, persists and applies new preferences. The file is written
// to a temp file first and renamed into place so a crash cannot leave a
// half-written preferences file.
func (m *Manager) Set(p Preferences) error {
	if p.Theme != ThemeLight && p.Theme != ThemeDark {
		return fmt.Errorf("invalid theme %q: must be %q or %q", p.Theme, ThemeLight, ThemeDark)
	}
	if p.DefaultCity == "" {
		return errors.New("default city must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create preferences directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replace preferences file: %w", err)
	}

	m.cur = p
	return nil
}
