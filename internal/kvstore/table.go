package kvstore

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/dom/weather-gate/internal/domain"
)

// Table is the in-memory snapshot of a Store. Reads are served from the last
// durably saved mapping; every mutation runs copy-modify-save-swap under an
// exclusive lock, so concurrent writers never lose an update and a failed
// save leaves the snapshot untouched.
type Table[V any] struct {
	store   Store[V]
	mu      sync.RWMutex
	records map[string]V
}

// NewTable loads the full mapping from store. A load failure is returned
// unchanged so callers can refuse to start on corrupt data.
func NewTable[V any](ctx context.Context, store Store[V]) (*Table[V], error) {
	records, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = make(map[string]V)
	}

	return &Table[V]{store: store, records: records}, nil
}

func (t *Table[V]) Get(key string) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.records[key]
	return v, ok
}

func (t *Table[V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.records)
}

// Update applies fn to a copy of the mapping and persists the result.
// Nothing is committed if fn or the save fails.
func (t *Table[V]) Update(ctx context.Context, fn func(records map[string]V) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := maps.Clone(t.records)
	if err := fn(next); err != nil {
		return err
	}

	if err := t.store.Save(ctx, next); err != nil {
		return err
	}

	t.records = next
	return nil
}

func (t *Table[V]) Insert(ctx context.Context, key string, value V) error {
	return t.Update(ctx, func(records map[string]V) error {
		if _, ok := records[key]; ok {
			return fmt.Errorf("%w: %s", domain.ErrKeyExists, key)
		}
		records[key] = value
		return nil
	})
}

func (t *Table[V]) Delete(ctx context.Context, key string) error {
	return t.Update(ctx, func(records map[string]V) error {
		if _, ok := records[key]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrKeyMissing, key)
		}
		delete(records, key)
		return nil
	})
}
