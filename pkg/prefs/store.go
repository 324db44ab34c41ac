// Package prefs persists dashboard preferences (pins, sort order, view mode,
// display toggles) as string key/value pairs.
//
// A Store may be unavailable, for example when the database cannot be
// opened. Preferences then serves defaults and drops writes silently, so the
// dashboard keeps working with session-only state.
package prefs

import (
	"maps"
	"sync"
)

// Store is the key/value persistence mechanism behind Preferences.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Available() bool
}

// Lister is implemented by stores that can enumerate their contents.
type Lister interface {
	All() (map[string]string, error)
}

// MemoryStore keeps preferences for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Available() bool { return true }

func (m *MemoryStore) All() (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values), nil
}

// Unavailable is a store that holds nothing and accepts nothing.
type Unavailable struct{}

func (Unavailable) Get(string) (string, bool) { return "", false }
func (Unavailable) Set(string, string) error  { return nil }
func (Unavailable) Available() bool           { return false }
