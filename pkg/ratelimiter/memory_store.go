package ratelimiter

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore implements Store using process-local storage. Expired state is
// pruned lazily by the limiter; there is no background sweeper.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
	}
}

// Update runs fn under the store lock.
func (ms *MemoryStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	rec := Record{}
	if existing, ok := ms.records[key]; ok {
		rec.Attempts = slices.Clone(existing.Attempts)
		rec.BlockedUntil = existing.BlockedUntil
	}

	save, err := fn(&rec)
	if err != nil || !save {
		return err
	}

	if rec.IsEmpty() {
		delete(ms.records, key)
		return nil
	}

	ms.records[key] = &rec
	return nil
}

func (ms *MemoryStore) Delete(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.records, key)
	return nil
}

// Len returns the number of identifiers currently tracked.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.records)
}
