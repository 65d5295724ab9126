package cart

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// StorageKey is the fixed name carts are serialized under. Per-session
// carts namespace it with the session id (see Manager).
const StorageKey = "cart-storage"

// Storage is the durable local storage the cart persists itself to on
// every mutation. Read reports ok=false for an absent key; malformed
// stored data is the cart's problem, not the storage's.
type Storage interface {
	Read(key string) (value string, ok bool, err error)
	Write(key, value string) error
}

// MemoryStorage keeps cart payloads in a map. Used by tests and as a
// fallback when no durable backend is configured.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (m *MemoryStorage) Read(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStorage) Write(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// FileStorage writes one file per key under a directory, so carts survive
// process restarts without any external service.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (f *FileStorage) Read(key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func (f *FileStorage) Write(key, value string) error {
	return os.WriteFile(f.path(key), []byte(value), 0o644)
}

func (f *FileStorage) path(key string) string {
	// session ids land in the key, keep the filename flat
	safe := strings.NewReplacer("/", "_", ":", "_").Replace(key)
	return filepath.Join(f.dir, safe+".json")
}
