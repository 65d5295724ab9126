package cart

import (
	"fmt"
	"sync"
)

// Manager hands out one Cart per session, all backed by the same storage.
// Session carts are stored under "cart-storage:<session>", so a cart
// survives reloads of the same session but is never shared across
// sessions.
type Manager struct {
	mu      sync.Mutex
	storage Storage
	carts   map[string]*Cart
}

func NewManager(storage Storage) *Manager {
	return &Manager{
		storage: storage,
		carts:   make(map[string]*Cart),
	}
}

// Cart returns the session's cart, loading it from storage on first use.
func (m *Manager) Cart(sessionID string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.carts[sessionID]; ok {
		return c
	}
	c := NewWithKey(m.storage, fmt.Sprintf("%s:%s", StorageKey, sessionID))
	m.carts[sessionID] = c
	return c
}
