/*
persistence.go - Key-value mirror of the item list

PURPOSE:
  Persistence keeps the durable copy of the item list under a single key of a
  KVStore. It is the only state that survives a restart; the Ledger re-seeds
  itself from Load() on startup.

FORMAT:
  One key (default "items") holding a JSON array:
    [{"id":0,"name":"John","calories":250}, ...]
  No versioning. A missing key is an empty list, not an error.

READ-MODIFY-WRITE:
  Append, Replace and Remove each load the whole list, change it and save it
  back. There is no partial update and no transactional guarantee; the
  Controller serializes callers.

CORRUPT DATA:
  Load() reports a DeserializationError. The mirrored writes treat a corrupt
  value as empty and overwrite it, so the store heals on the next mutation.

IMPLEMENTATIONS OF KVStore:
  - store/sqlite/sqlite.go: SQLite file
  - tracker/store/memory.go: In-memory for testing
*/
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultKey is the store key the item list lives under.
const DefaultKey = "items"

// =============================================================================
// KV STORE - Interface for the backing key-value storage
// =============================================================================

// KVStore is a minimal string-keyed byte store.
type KVStore interface {
	// Get returns the value for key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Persistence serializes the item list into a KVStore.
type Persistence struct {
	Store KVStore
	Key   string
}

// NewPersistence creates a Persistence over store. An empty key means DefaultKey.
func NewPersistence(store KVStore, key string) *Persistence {
	if key == "" {
		key = DefaultKey
	}
	return &Persistence{Store: store, Key: key}
}

// Load returns the stored items, or an empty slice if nothing is stored.
func (p *Persistence) Load(ctx context.Context) ([]Item, error) {
	raw, ok, err := p.Store.Get(ctx, p.Key)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", p.Key, err)
	}
	if !ok {
		return []Item{}, nil
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &DeserializationError{Key: p.Key, Err: err}
	}
	if items == nil {
		// "null" decodes to a nil slice.
		items = []Item{}
	}
	return items, nil
}

// Save overwrites the stored list with items.
func (p *Persistence) Save(ctx context.Context, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}
	if err := p.Store.Set(ctx, p.Key, raw); err != nil {
		return fmt.Errorf("writing %q: %w", p.Key, err)
	}
	return nil
}

// Append adds item to the end of the stored list.
func (p *Persistence) Append(ctx context.Context, item Item) error {
	items, err := p.loadForWrite(ctx)
	if err != nil {
		return err
	}
	return p.Save(ctx, append(items, item))
}

// Replace swaps the stored item that shares item's id. No match, no change
// to the list contents.
func (p *Persistence) Replace(ctx context.Context, item Item) error {
	items, err := p.loadForWrite(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
		}
	}
	return p.Save(ctx, items)
}

// Remove drops the stored item with the given id.
func (p *Persistence) Remove(ctx context.Context, id ItemID) error {
	items, err := p.loadForWrite(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return p.Save(ctx, kept)
}

// Clear deletes the stored collection entirely.
func (p *Persistence) Clear(ctx context.Context) error {
	if err := p.Store.Delete(ctx, p.Key); err != nil {
		return fmt.Errorf("deleting %q: %w", p.Key, err)
	}
	return nil
}

// loadForWrite is Load with corrupt data treated as an empty list.
func (p *Persistence) loadForWrite(ctx context.Context) ([]Item, error) {
	items, err := p.Load(ctx)
	if errors.Is(err, ErrDeserialization) {
		return []Item{}, nil
	}
	return items, err
}
