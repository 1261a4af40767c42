package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsWhenFileMissing(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "prefs.json"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	p := m.Get()
	if p.Theme != ThemeLight || p.DefaultCity != "New Brunswick" {
		t.Errorf("defaults = %+v", p)
	}
}

func TestDefaultsWhenFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if m.Get().Theme != ThemeLight {
		t.Errorf("corrupt file should yield defaults, got %+v", m.Get())
	}
}

func TestSetPersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	want := Preferences{Theme: ThemeDark, DefaultCity: "Tampa"}
	if err := m.Set(want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if m.Get() != want {
		t.Errorf("Get() = %+v, want %+v", m.Get(), want)
	}

	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager reload: %v", err)
	}
	if reloaded.Get() != want {
		t.Errorf("reloaded = %+v, want %+v", reloaded.Get(), want)
	}
}

func TestSetValidation(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "prefs.json"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	if err := m.Set(Preferences{Theme: "neon", DefaultCity: "Tampa"}); err == nil {
		t.Error("invalid theme should be rejected")
	}
	if err := m.Set(Preferences{Theme: ThemeDark, DefaultCity: ""}); err == nil {
		t.Error("empty default city should be rejected")
	}
}

func TestUnknownThemeInFileNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte(`{"theme":"neon","default_city":"Tampa"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	p := m.Get()
	if p.Theme != ThemeLight || p.DefaultCity != "Tampa" {
		t.Errorf("got %+v, want normalized theme with kept city", p)
	}
}
