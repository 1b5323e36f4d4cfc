package settings

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestMemoryScopesAreIndependent(t *testing.T) {
	s := NewMemory()

	if err := s.Set(ScopeSheet, KeyCollection, "products"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ScopeLegacy, KeyCollection, "oldProducts"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if v, ok := s.Get(ScopeSheet, KeyCollection); !ok || v != "products" {
		t.Errorf("sheet scope = %q, %v", v, ok)
	}
	if v, ok := s.Get(ScopeLegacy, KeyCollection); !ok || v != "oldProducts" {
		t.Errorf("legacy scope = %q, %v", v, ok)
	}
	if _, ok := s.Get(ScopeSheet, KeyEndpoint); ok {
		t.Error("unset key reported as present")
	}
}

func TestSecretIsNeverPersisted(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemory(),
	}
	f, err := OpenFile(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	stores["file"] = f

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			err := s.Set(ScopeSheet, KeySecret, "hunter2")
			if !errors.Is(err, ErrSecretNotPersistable) {
				t.Fatalf("Set(secret) error = %v, want ErrSecretNotPersistable", err)
			}
			if _, ok := s.Get(ScopeSheet, KeySecret); ok {
				t.Error("secret was stored despite rejection")
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s1, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if err := s1.Set(ScopeSheet, KeyEndpoint, "https://example.test/write"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s1.Set(ScopeLegacy, KeyCollection, "legacyCol"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A fresh open sees the persisted values.
	s2, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, ok := s2.Get(ScopeSheet, KeyEndpoint); !ok || v != "https://example.test/write" {
		t.Errorf("endpoint = %q, %v", v, ok)
	}
	if v, ok := s2.Get(ScopeLegacy, KeyCollection); !ok || v != "legacyCol" {
		t.Errorf("legacy collection = %q, %v", v, ok)
	}
}

func TestOpenFileMissingIsEmpty(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "nope", "settings.json"))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, ok := s.Get(ScopeSheet, KeyEndpoint); ok {
		t.Error("missing file should start empty")
	}
}
