package store

import (
	"sync"
)

// notifier fans collection snapshots out to subscribers. Both backends
// publish through one of these after every committed write.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]ChangeHandler // collection -> id -> handler
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[string]map[int]ChangeHandler)}
}

func (n *notifier) subscribe(collection string, fn ChangeHandler) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs[collection] == nil {
		n.subs[collection] = make(map[int]ChangeHandler)
	}
	id := n.next
	n.next++
	n.subs[collection][id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs[collection], id)
	}
}

func (n *notifier) publish(collection string, snap Snapshot) {
	n.mu.Lock()
	handlers := make([]ChangeHandler, 0, len(n.subs[collection]))
	for _, fn := range n.subs[collection] {
		handlers = append(handlers, fn)
	}
	n.mu.Unlock()

	for _, fn := range handlers {
		fn(collection, snap)
	}
}
