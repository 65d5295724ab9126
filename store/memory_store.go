package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process Store used by tests and as a zero-setup
// fallback backend. Transact takes a copy of the data up front and restores
// it when fn fails, giving the same all-or-nothing behavior as the gorm
// backend.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]map[string]json.RawMessage
	notifier *notifier
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]map[string]json.RawMessage),
		notifier: newNotifier(),
	}
}

func (s *MemoryStore) Get(_ context.Context, collection string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(collection), nil
}

func (s *MemoryStore) Push(_ context.Context, collection string, value interface{}) (string, error) {
	body, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	key := NewKey()
	s.mu.Lock()
	s.writeLocked(collection, key, body)
	snap := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.notifier.publish(collection, snap)
	return key, nil
}

func (s *MemoryStore) Set(_ context.Context, path string, value interface{}) error {
	collection, key, err := SplitPath(path)
	if err != nil {
		return err
	}
	body, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.writeLocked(collection, key, body)
	snap := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.notifier.publish(collection, snap)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, path string, fields map[string]interface{}) error {
	collection, key, err := SplitPath(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	merged := make(map[string]interface{})
	if raw, ok := s.data[collection][key]; ok {
		if err := json.Unmarshal(raw, &merged); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	body, err := json.Marshal(merged)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.writeLocked(collection, key, body)
	snap := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.notifier.publish(collection, snap)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, path string) error {
	collection, key, err := SplitPath(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.data[collection], key)
	snap := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.notifier.publish(collection, snap)
	return nil
}

func (s *MemoryStore) Subscribe(collection string, fn ChangeHandler) func() {
	return s.notifier.subscribe(collection, fn)
}

func (s *MemoryStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	backup := make(map[string]map[string]json.RawMessage, len(s.data))
	for collection, records := range s.data {
		copied := make(map[string]json.RawMessage, len(records))
		for k, v := range records {
			copied[k] = v
		}
		backup[collection] = copied
	}
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = backup
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *MemoryStore) writeLocked(collection, key string, body json.RawMessage) {
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]json.RawMessage)
	}
	s.data[collection][key] = body
}

func (s *MemoryStore) snapshotLocked(collection string) Snapshot {
	snap := make(Snapshot, len(s.data[collection]))
	for k, v := range s.data[collection] {
		snap[k] = v
	}
	return snap
}
