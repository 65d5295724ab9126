package cart

import (
	"encoding/json"
	"sync"

	"github.com/spicehut/food-order-app/models"
	"github.com/spicehut/food-order-app/utils"
)

// AddResult reports what Add did, so callers can tell the user "added"
// apart from "increased quantity".
type AddResult int

const (
	AddedNew AddResult = iota
	IncreasedQuantity
)

// Cart is the ordered line-item collection for one session. Every mutation
// persists the full collection to storage before returning; loading back a
// payload that fails to parse starts an empty cart instead of failing.
type Cart struct {
	mu      sync.Mutex
	storage Storage
	key     string
	items   []models.LineItem
}

// New loads (or starts) the cart stored under StorageKey.
func New(storage Storage) *Cart {
	return NewWithKey(storage, StorageKey)
}

// NewWithKey loads (or starts) the cart stored under the given key.
func NewWithKey(storage Storage, key string) *Cart {
	c := &Cart{storage: storage, key: key}
	c.load()
	return c
}

// Add puts product in the cart. An existing line for the same product id
// gets its quantity bumped by one instead of a duplicate line.
func (c *Cart) Add(product models.Product) AddResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == product.ID {
			c.items[i].Quantity++
			c.save()
			return IncreasedQuantity
		}
	}

	c.items = append(c.items, models.LineItem{
		ID:        product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  1,
	})
	c.save()
	return AddedNew
}

// UpdateQuantity sets the line's quantity; anything below 1 removes the
// line entirely.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	if quantity < 1 {
		c.Remove(id)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = quantity
			c.save()
			return
		}
	}
}

// Remove deletes the line with that id; a no-op when absent.
func (c *Cart) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.save()
			return
		}
	}
}

// Clear empties the collection. Called once, after a checkout fully
// succeeds.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.save()
}

// Items returns a snapshot copy of the line items.
func (c *Cart) Items() []models.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Subtotal sums price * quantity over all lines.
func (c *Cart) Subtotal() float64 {
	return Subtotal(c.Items())
}

func (c *Cart) load() {
	raw, ok, err := c.storage.Read(c.key)
	if err != nil {
		utils.ErrorLogger.Printf("cart: reading %q: %v", c.key, err)
		return
	}
	if !ok || raw == "" {
		return
	}

	var items []models.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// corrupt payload: start over rather than surface an error
		utils.ErrorLogger.Printf("cart: discarding malformed payload under %q: %v", c.key, err)
		return
	}
	c.items = items
}

// save persists the collection; callers hold c.mu. Storage failures are
// logged, not returned: the in-memory cart stays authoritative for the
// session either way.
func (c *Cart) save() {
	data, err := json.Marshal(c.items)
	if err != nil {
		utils.ErrorLogger.Printf("cart: marshaling %q: %v", c.key, err)
		return
	}
	if err := c.storage.Write(c.key, string(data)); err != nil {
		utils.ErrorLogger.Printf("cart: writing %q: %v", c.key, err)
	}
}
