package memory

import (
	"context"
	"sync"

	"github.com/hupe1980/brandmesh/core"
)

// InMemoryStore is a volatile MemoryStore keeping all entries in a process
// local index guarded by an RWMutex. It backs the non-tenant default scope
// and is the store of choice for tests and ephemeral demos; tenants get the
// durable FileStore.
type InMemoryStore struct {
	mu sync.RWMutex
	ix *index
}

// NewInMemoryStore constructs an empty volatile store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{ix: newIndex()}
}

// Init is a no-op for the volatile store; repeated calls keep existing entries.
func (s *InMemoryStore) Init(_ context.Context) error { return nil }

// Set upserts an entry; last write wins.
func (s *InMemoryStore) Set(_ context.Context, key string, value any, agent string, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ix.set(key, value, agent, tags)
	return nil
}

// Get returns the current value or (nil, false, nil) for a missing key.
func (s *InMemoryStore) Get(_ context.Context, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.ix.get(key)
	if !ok {
		return nil, false, nil
	}
	return e.Value, true, nil
}

// Search returns entries matching the key prefix or exact tag in insertion order.
func (s *InMemoryStore) Search(_ context.Context, term string) ([]core.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ix.search(term), nil
}

// ByAgent returns entries last written by the named agent in insertion order.
func (s *InMemoryStore) ByAgent(_ context.Context, agent string) ([]core.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ix.byAgent(agent), nil
}

// Delete removes an entry, reporting whether it existed.
func (s *InMemoryStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ix.delete(key), nil
}

// TaggedKeys reports the keys currently associated with a tag. Exposed for
// tests asserting reverse-index consistency.
func (s *InMemoryStore) TaggedKeys(tag string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ix.taggedKeys(tag)
}
