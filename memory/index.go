package memory

import (
	"strings"
	"time"

	"github.com/hupe1980/brandmesh/core"
)

// index is the shared in-memory representation behind both store
// implementations: entries keyed by name, a first-insertion order list for
// deterministic iteration, and a tag reverse index kept consistent on every
// write and delete. Not goroutine-safe; owners guard it with their own mutex.
type index struct {
	entries map[string]core.MemoryEntry
	order   []string                   // keys in first-insertion order
	tags    map[string]map[string]bool // tag -> set of keys
}

func newIndex() *index {
	return &index{
		entries: make(map[string]core.MemoryEntry),
		order:   []string{},
		tags:    make(map[string]map[string]bool),
	}
}

// set upserts an entry. Overwrites keep the key's original position in the
// insertion order; stale tag associations are removed before the new ones are
// added.
func (ix *index) set(key string, value any, agent string, tagList []string) {
	prev, exists := ix.entries[key]
	if exists {
		ix.dropTags(key, prev.Tags)
	} else {
		ix.order = append(ix.order, key)
	}

	tags := make([]string, len(tagList))
	copy(tags, tagList)

	ix.entries[key] = core.MemoryEntry{
		Key:       key,
		Value:     value,
		Agent:     agent,
		Tags:      tags,
		UpdatedAt: time.Now().UTC(),
	}
	for _, tag := range tags {
		if ix.tags[tag] == nil {
			ix.tags[tag] = make(map[string]bool)
		}
		ix.tags[tag][key] = true
	}
}

// load inserts an already-materialized entry, preserving its UpdatedAt.
// Used when rehydrating from persisted state.
func (ix *index) load(e core.MemoryEntry) {
	if prev, exists := ix.entries[e.Key]; exists {
		ix.dropTags(e.Key, prev.Tags)
	} else {
		ix.order = append(ix.order, e.Key)
	}
	ix.entries[e.Key] = e
	for _, tag := range e.Tags {
		if ix.tags[tag] == nil {
			ix.tags[tag] = make(map[string]bool)
		}
		ix.tags[tag][e.Key] = true
	}
}

func (ix *index) get(key string) (core.MemoryEntry, bool) {
	e, ok := ix.entries[key]
	return e, ok
}

// search returns entries whose key starts with term or whose tags contain
// term exactly, in first-insertion order.
func (ix *index) search(term string) []core.MemoryEntry {
	tagged := ix.tags[term]
	var out []core.MemoryEntry
	for _, key := range ix.order {
		if strings.HasPrefix(key, term) || tagged[key] {
			out = append(out, ix.entries[key])
		}
	}
	return out
}

func (ix *index) byAgent(agent string) []core.MemoryEntry {
	var out []core.MemoryEntry
	for _, key := range ix.order {
		if e := ix.entries[key]; e.Agent == agent {
			out = append(out, e)
		}
	}
	return out
}

// delete removes an entry and its tag associations, reporting existence.
func (ix *index) delete(key string) bool {
	e, ok := ix.entries[key]
	if !ok {
		return false
	}
	ix.dropTags(key, e.Tags)
	delete(ix.entries, key)
	for i, k := range ix.order {
		if k == key {
			ix.order = append(ix.order[:i], ix.order[i+1:]...)
			break
		}
	}
	return true
}

// snapshot returns all entries in insertion order.
func (ix *index) snapshot() []core.MemoryEntry {
	out := make([]core.MemoryEntry, 0, len(ix.order))
	for _, key := range ix.order {
		out = append(out, ix.entries[key])
	}
	return out
}

// taggedKeys reports the keys currently associated with a tag.
func (ix *index) taggedKeys(tag string) []string {
	set := ix.tags[tag]
	var keys []string
	for _, key := range ix.order {
		if set[key] {
			keys = append(keys, key)
		}
	}
	return keys
}

func (ix *index) dropTags(key string, tags []string) {
	for _, tag := range tags {
		if set := ix.tags[tag]; set != nil {
			delete(set, key)
			if len(set) == 0 {
				delete(ix.tags, tag)
			}
		}
	}
}
