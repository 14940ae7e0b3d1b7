package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hupe1980/brandmesh/core"
	"github.com/hupe1980/brandmesh/logging"
)

const entriesFile = "entries.json"

// Options configure a FileStore.
type Options struct {
	Logger logging.Logger
}

// FileStore is the durable MemoryStore backing one tenant. All entries live
// in a single JSON file under the store's root directory; the file is
// rewritten in full on every mutation via a temp-file rename so readers never
// observe a torn write. The full index is held in memory, so a Get after Set
// in the same process always observes the write.
type FileStore struct {
	root   string
	logger logging.Logger

	mu          sync.RWMutex
	ix          *index
	initialized bool
}

// NewFileStore creates a store rooted at dir. Call Init before use.
func NewFileStore(dir string, optFns ...func(o *Options)) *FileStore {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &FileStore{root: dir, logger: opts.Logger, ix: newIndex()}
}

// Root returns the backing directory.
func (s *FileStore) Root() string { return s.root }

// Init creates the backing directory and loads any persisted entries.
// Idempotent: a second call re-reads the same file into a fresh index and
// never duplicates entries. Failure here is fatal to the owning tenant's
// provisioning and must be surfaced, not swallowed.
func (s *FileStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", core.ErrStorage, s.root, err)
	}

	data, err := os.ReadFile(filepath.Join(s.root, entriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			s.ix = newIndex()
			s.initialized = true
			return nil
		}
		return fmt.Errorf("%w: read entries: %v", core.ErrStorage, err)
	}

	var entries []core.MemoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("%w: decode entries: %v", core.ErrStorage, err)
	}

	ix := newIndex()
	for _, e := range entries {
		ix.load(e)
	}
	s.ix = ix
	s.initialized = true
	return nil
}

// Set upserts an entry and persists the store synchronously.
func (s *FileStore) Set(_ context.Context, key string, value any, agent string, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return core.ErrNotInitialized
	}
	s.ix.set(key, value, agent, tags)
	err := s.persistLocked()
	logging.LogStoreWrite(s.logger, key, agent, tags, err)
	return err
}

// Get returns the current value or (nil, false, nil) for a missing key.
func (s *FileStore) Get(_ context.Context, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, false, core.ErrNotInitialized
	}
	e, ok := s.ix.get(key)
	if !ok {
		return nil, false, nil
	}
	return e.Value, true, nil
}

// Search returns entries matching the key prefix or exact tag in insertion order.
func (s *FileStore) Search(_ context.Context, term string) ([]core.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, core.ErrNotInitialized
	}
	return s.ix.search(term), nil
}

// ByAgent returns entries last written by the named agent in insertion order.
func (s *FileStore) ByAgent(_ context.Context, agent string) ([]core.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, core.ErrNotInitialized
	}
	return s.ix.byAgent(agent), nil
}

// Delete removes an entry and persists, reporting whether the key existed.
func (s *FileStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return false, core.ErrNotInitialized
	}
	e, ok := s.ix.get(key)
	if !ok || !s.ix.delete(key) {
		return false, nil
	}
	err := s.persistLocked()
	logging.LogStoreWrite(s.logger, key, e.Agent, nil, err)
	return true, err
}

// TaggedKeys reports the keys currently associated with a tag. Exposed for
// tests asserting reverse-index consistency.
func (s *FileStore) TaggedKeys(tag string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ix.taggedKeys(tag)
}

// persistLocked rewrites entries.json atomically. Caller holds the write lock.
func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(s.ix.snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode entries: %v", core.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: write entries: %v", core.ErrStorage, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write entries: %v", core.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: write entries: %v", core.ErrStorage, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.root, entriesFile)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: write entries: %v", core.ErrStorage, err)
	}
	return nil
}
