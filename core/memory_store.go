package core

import (
	"context"
	"time"
)

// MemoryEntry is one attributed, tagged record in a tenant's store. Value
// must be JSON-serializable. Agent records the last writer; a Set with an
// existing key overwrites Value/Agent/Tags/UpdatedAt wholesale — the store
// never merges values implicitly.
type MemoryEntry struct {
	Key       string    `json:"key"`
	Value     any       `json:"value"`
	Agent     string    `json:"agent"`
	Tags      []string  `json:"tags,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemoryStore defines durable, queryable key-value storage scoped to one
// tenant (or a default scope), with writer attribution and tag-based
// retrieval. Implementations live in the memory package; depend on this
// interface and pick a backend at wiring time.
//
// Concurrency: stores are single-process; concurrent Set calls on the same
// key are last-write-wins. Callers needing merge semantics read, merge
// client-side, then Set the whole entry.
//
// Values returned by Get, Search and ByAgent may share underlying maps and
// slices with the store. Treat them as read-only: build a new value when
// merging and hand it to Set; mutating a returned value in place corrupts
// the store's copy without persisting anything.
type MemoryStore interface {
	// Init acquires the backing storage location. Idempotent: calling it on
	// an initialized store re-reads existing entries without duplicating or
	// corrupting them. Failure is fatal to the owning tenant's provisioning.
	Init(ctx context.Context) error

	// Set upserts an entry, refreshing UpdatedAt and keeping the tag reverse
	// index consistent. A subsequent Get in the same process observes the
	// write.
	Set(ctx context.Context, key string, value any, agent string, tags []string) error

	// Get returns the current value. A missing key is (nil, false, nil),
	// never an error.
	Get(ctx context.Context, key string) (any, bool, error)

	// Search returns entries whose key starts with term or whose tags
	// contain term exactly, in stable first-insertion order.
	Search(ctx context.Context, term string) ([]MemoryEntry, error)

	// ByAgent returns entries last written by the named agent, in stable
	// first-insertion order.
	ByAgent(ctx context.Context, agent string) ([]MemoryEntry, error)

	// Delete removes an entry and its tag associations, reporting whether
	// the key existed.
	Delete(ctx context.Context, key string) (bool, error)
}
