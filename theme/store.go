package theme

import (
	"errors"
	"sync"
)

// DefaultStorageKey is the key the preference is persisted under.
const DefaultStorageKey = "theme"

// ErrNotStored is returned by a Storage when the key has never been written.
var ErrNotStored = errors.New("key not stored")

// Storage is the persisted key/value space the preference lives in
// (browser localStorage, a per-user database row, memory in tests).
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Store reads and writes the preference. Every failure is swallowed:
// losing the preference falls back to the default, it never breaks the UI.
type Store struct {
	storage Storage
	key     string
}

// NewStore wraps storage. An empty key means DefaultStorageKey.
func NewStore(storage Storage, key string) *Store {
	if key == "" {
		key = DefaultStorageKey
	}
	return &Store{storage: storage, key: key}
}

// Key returns the storage key in use.
func (s *Store) Key() string {
	return s.key
}

// Load returns the persisted mode. ok is false when the value is absent,
// unreadable or not one of light/dark/system.
func (s *Store) Load() (mode Mode, ok bool) {
	if s == nil || s.storage == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			Logger.Warn("Theme storage panicked on read", "key", s.key, "panic", r)
			mode, ok = "", false
		}
	}()
	raw, err := s.storage.Get(s.key)
	if err != nil {
		if !errors.Is(err, ErrNotStored) {
			Logger.Warn("Unable to read stored theme", "key", s.key, "error", err)
		}
		return "", false
	}
	// exact match only; the pre-paint script in the page head reads the same value
	mode = Mode(raw)
	if !mode.Valid() {
		Logger.Debug("Ignoring stored theme value", "key", s.key, "value", raw)
		return "", false
	}
	return mode, true
}

// Save persists mode, best effort.
func (s *Store) Save(mode Mode) {
	if s == nil || s.storage == nil || !mode.Valid() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			Logger.Warn("Theme storage panicked on write", "key", s.key, "panic", r)
		}
	}()
	if err := s.storage.Set(s.key, mode.String()); err != nil {
		Logger.Warn("Unable to persist theme", "key", s.key, "mode", mode, "error", err)
	}
}

// MemoryStorage is a Storage kept in process memory.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
	// FailWrites makes every Set return an error, to simulate a full or blocked store.
	FailWrites bool
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get implements Storage.
func (m *MemoryStorage) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotStored
	}
	return v, nil
}

// Set implements Storage.
func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return errors.New("storage unavailable")
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}
