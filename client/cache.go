package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Well-known cache keys.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
	KeyLocation     = "location"
)

// KeyValue is a small key/value store with JSON-serialized values. A missing
// key is not an error: Get reports false and leaves dest untouched.
type KeyValue interface {
	Get(key string, dest interface{}) bool
	Has(key string) bool
	Set(entries map[string]interface{}) error
	Remove(key string)
	Clear()
}

// MemoryStore keeps entries for the lifetime of the process. It backs the
// session-scoped namespace holding credentials.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]json.RawMessage
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]json.RawMessage)}
}

func (m *MemoryStore) Get(key string, dest interface{}) bool {
	m.mu.RLock()
	raw, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

func (m *MemoryStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[key]
	return ok
}

// Set serializes each entry independently. Last write wins per key.
func (m *MemoryStore) Set(entries map[string]interface{}) error {
	encoded := make(map[string]json.RawMessage, len(entries))
	for key, value := range entries {
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		encoded[key] = raw
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, raw := range encoded {
		m.entries[key] = raw
	}
	return nil
}

func (m *MemoryStore) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]json.RawMessage)
}

// FileStore persists entries to a JSON file so they outlive the process. It
// backs the long-lived namespace holding the last resolved location.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the file at path. The file is
// created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Get(key string, dest interface{}) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.load()
	raw, ok := entries[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

func (f *FileStore) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.load()[key]
	return ok
}

func (f *FileStore) Set(entries map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.load()
	for key, value := range entries {
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		stored[key] = raw
	}
	return f.save(stored)
}

func (f *FileStore) Remove(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.load()
	if _, ok := entries[key]; !ok {
		return
	}
	delete(entries, key)
	_ = f.save(entries)
}

func (f *FileStore) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = os.Remove(f.path)
}

func (f *FileStore) load() map[string]json.RawMessage {
	entries := make(map[string]json.RawMessage)
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return entries
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return make(map[string]json.RawMessage)
	}
	return entries
}

func (f *FileStore) save(entries map[string]json.RawMessage) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0o600)
}
