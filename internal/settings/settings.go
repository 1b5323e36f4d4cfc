// Package settings persists non-secret configuration between sessions.
//
// Two scopes exist: sheet-local settings (per grid) and a legacy global
// scope kept for older installations. Values are plain strings; the
// resolver in internal/config layers them over defaults. The shared
// secret is never stored here — Set refuses the secret key so no code
// path can persist it by accident.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Scope selects which settings layer a key belongs to.
type Scope string

const (
	// ScopeSheet holds per-sheet settings, the highest persisted layer.
	ScopeSheet Scope = "sheet"
	// ScopeLegacy holds process-wide settings from older installations.
	ScopeLegacy Scope = "legacy"
)

// Well-known setting keys.
const (
	KeyEndpoint   = "endpoint"
	KeyCollection = "collection"
	KeyIDField    = "idField"
	KeyIncludeID  = "includeIdField"

	// KeySecret is recognized only so it can be rejected.
	KeySecret = "secret"
)

// ErrSecretNotPersistable is returned when a caller tries to store the
// shared secret in any persisted scope.
var ErrSecretNotPersistable = errors.New("the secret is session-scoped and cannot be persisted")

// Store is a string key-value store with two scopes.
type Store interface {
	// Get returns the value for key in scope, and whether it was set.
	Get(scope Scope, key string) (string, bool)
	// Set stores key=value in scope. Storing KeySecret fails.
	Set(scope Scope, key, value string) error
}

// Memory is an in-process Store, used in tests and as a default when no
// settings file is configured.
type Memory struct {
	mu   sync.RWMutex
	data map[Scope]map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[Scope]map[string]string)}
}

func (m *Memory) Get(scope Scope, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[scope][key]
	return v, ok
}

func (m *Memory) Set(scope Scope, key, value string) error {
	if key == KeySecret {
		return ErrSecretNotPersistable
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[scope] == nil {
		m.data[scope] = make(map[string]string)
	}
	m.data[scope][key] = value
	return nil
}

// File is a Store backed by a single JSON file. Reads and writes go
// through an in-memory copy guarded by a mutex; concurrent processes can
// still race on the file itself, which is tolerated — settings changes
// are rare and human-driven.
type File struct {
	path string
	mu   sync.Mutex
	data map[Scope]map[string]string
}

// OpenFile loads a settings file, creating an empty store if the file
// does not exist yet.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, data: make(map[Scope]map[string]string)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(raw, &f.data); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return f, nil
}

func (f *File) Get(scope Scope, key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[scope][key]
	return v, ok
}

func (f *File) Set(scope Scope, key, value string) error {
	if key == KeySecret {
		return ErrSecretNotPersistable
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data[scope] == nil {
		f.data[scope] = make(map[string]string)
	}
	f.data[scope][key] = value
	return f.flush()
}

// flush writes the store to disk via a temp-file rename. Caller holds mu.
func (f *File) flush() error {
	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
