package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrInvalidPath = errors.New("invalid document path")
)

// Snapshot is a one-shot read of a collection: record key -> raw JSON body.
type Snapshot map[string]json.RawMessage

// Decode unmarshals one record of the snapshot into v.
func (s Snapshot) Decode(key string, v interface{}) error {
	raw, ok := s[key]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, v)
}

// ChangeHandler receives the full collection snapshot after every write to
// that collection.
type ChangeHandler func(collection string, snap Snapshot)

// Store is the document store consumed by the checkout core: named
// collections of JSON records with store-generated keys and realtime
// subscription. Collections used here: offers, products, orders, payments
// and users/{uid}/addresses.
type Store interface {
	// Get reads a whole collection. A missing collection is an empty
	// snapshot, not an error.
	Get(ctx context.Context, collection string) (Snapshot, error)

	// Push inserts value under a fresh store-generated key and returns it.
	Push(ctx context.Context, collection string, value interface{}) (string, error)

	// Set writes value at an exact path (collection/key), replacing any
	// existing record.
	Set(ctx context.Context, path string, value interface{}) error

	// Update merges the given fields into the record at path, creating it
	// when absent.
	Update(ctx context.Context, path string, fields map[string]interface{}) error

	// Delete removes the record at path. Deleting an absent record is a
	// no-op.
	Delete(ctx context.Context, path string) error

	// Subscribe registers fn for every subsequent change to the collection
	// and returns an unsubscribe func.
	Subscribe(collection string, fn ChangeHandler) (unsubscribe func())

	// Transact runs fn against a transactional view of the store. An error
	// from fn rolls every write inside it back.
	Transact(ctx context.Context, fn func(tx Store) error) error
}

// NewKey returns a fresh record key, usable with Set to write a record
// whose body embeds its own id.
func NewKey() string {
	return uuid.NewString()
}

// SplitPath breaks "users/abc/addresses/xyz" into its collection
// ("users/abc/addresses") and record key ("xyz").
func SplitPath(path string) (collection, key string, err error) {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 || idx == len(path)-1 {
		return "", "", ErrInvalidPath
	}
	return path[:idx], path[idx+1:], nil
}
