package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/hupe1980/brandmesh/core"
	"github.com/hupe1980/brandmesh/executor"
	"github.com/hupe1980/brandmesh/logging"
	"github.com/hupe1980/brandmesh/memory"
)

const manifestFile = "tenants.json"

// ErrNameRequired is returned by Create when the tenant name is empty.
var ErrNameRequired = errors.New("tenant name is required")

// Options configure a Registry.
type Options struct {
	Logger logging.Logger
}

// WithLogger sets the registry logger.
func WithLogger(l logging.Logger) func(*Options) {
	return func(o *Options) { o.Logger = l }
}

// Registry exclusively owns the authoritative tenant collection plus each
// tenant's memory store and executor. It is an explicitly owned value passed
// by reference to whatever constructs agents and dispatchers; there is no
// ambient singleton.
//
// Layout under dataRoot:
//
//	tenants.json             manifest, rewritten in full on every mutation
//	<tenantID>/memory/       durable memory store backing
//	<tenantID>/output/       published content
type Registry struct {
	dataRoot string
	logger   logging.Logger

	mu        sync.RWMutex
	tenants   map[string]*Config
	stores    map[string]core.MemoryStore
	executors map[string]*executor.Executor
}

// NewRegistry creates a registry rooted at dataRoot. Call Init before use.
func NewRegistry(dataRoot string, optFns ...func(*Options)) *Registry {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		dataRoot:  dataRoot,
		logger:    opts.Logger,
		tenants:   make(map[string]*Config),
		stores:    make(map[string]core.MemoryStore),
		executors: make(map[string]*executor.Executor),
	}
}

// Init loads the persisted manifest and re-provisions every tenant's store
// and executor. A missing or unreadable manifest means "no tenants yet" and
// is not fatal; a store that fails to initialize is.
func (r *Registry) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dataRoot, 0o755); err != nil {
		return fmt.Errorf("create data root %s: %w", r.dataRoot, err)
	}

	data, err := os.ReadFile(filepath.Join(r.dataRoot, manifestFile))
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("tenant manifest unreadable, starting empty", "error", err)
		}
		return nil
	}

	var records []*Config
	if err := json.Unmarshal(data, &records); err != nil {
		r.logger.Warn("tenant manifest corrupt, starting empty", "error", err)
		return nil
	}

	for _, rec := range records {
		if err := r.provisionLocked(ctx, rec); err != nil {
			return fmt.Errorf("provision tenant %s: %w", rec.ID, err)
		}
		r.tenants[rec.ID] = rec
	}

	r.logger.Info("tenant registry initialized", "tenants", len(records))
	return nil
}

// Create registers a new tenant. Every unset field receives its documented
// default, resources are provisioned eagerly, the manifest is persisted, and
// the tenant's store is seeded with its brand fields under well-known keys so
// agents needing only shared scalars skip the full record.
func (r *Registry) Create(ctx context.Context, cfg Config) (*Config, error) {
	if cfg.Name == "" {
		return nil, ErrNameRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := nowUTC()
	rec := cfg.Clone()
	rec.ID = core.NewID()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.Slug == "" {
		rec.Slug = Slugify(rec.Name)
	}
	rec.Slug = r.disambiguateSlugLocked(rec.Slug, rec.ID)
	rec.applyDefaults()

	if err := r.provisionLocked(ctx, rec); err != nil {
		return nil, fmt.Errorf("provision tenant %s: %w", rec.ID, err)
	}

	// Seed before registering so a failure leaves no trace in the registry
	// or the manifest; on-disk leftovers under the tenant dir are harmless.
	if err := r.seedBrandLocked(ctx, rec); err != nil {
		r.discardLocked(rec.ID)
		return nil, err
	}

	r.tenants[rec.ID] = rec
	if err := r.persistLocked(); err != nil {
		r.discardLocked(rec.ID)
		return nil, err
	}

	r.logger.Info("tenant created", "tenant_id", rec.ID, "slug", rec.Slug)
	return rec.Clone(), nil
}

// discardLocked removes all in-memory traces of a tenant after a failed
// creation step.
func (r *Registry) discardLocked(id string) {
	delete(r.tenants, id)
	delete(r.stores, id)
	delete(r.executors, id)
}

// Update merges a partial update into an existing tenant. Scalars replace,
// brand and settings deep-merge, and a non-nil Platforms map replaces the
// credentials wholesale and re-provisions the executor. The memory store
// instance is deliberately left untouched so agents holding the registry's
// reference never diverge from persisted state. Returns ok=false for an
// unknown id.
func (r *Registry) Update(ctx context.Context, id string, u Update) (*Config, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.tenants[id]
	if !ok {
		return nil, false, nil
	}

	if u.Name != nil {
		rec.Name = *u.Name
	}
	if u.Slug != nil {
		rec.Slug = r.disambiguateSlugLocked(Slugify(*u.Slug), rec.ID)
	}
	mergeBrand(&rec.Brand, u.Brand)
	mergeSettings(&rec.Settings, u.Settings)

	if u.Platforms != nil {
		rec.Platforms = clonePlatforms(u.Platforms)
		exec, err := executor.New(rec.ID, r.outputDir(rec.ID), rec.Platforms, func(o *executor.Options) {
			o.Logger = r.logger
		})
		if err != nil {
			return nil, true, fmt.Errorf("re-provision executor for %s: %w", id, err)
		}
		r.executors[rec.ID] = exec
		r.logger.Info("tenant executor re-provisioned", "tenant_id", id)
	}

	rec.UpdatedAt = nowUTC()
	if err := r.persistLocked(); err != nil {
		return nil, true, err
	}
	return rec.Clone(), true, nil
}

// Delete unregisters a tenant and discards its cached store and executor
// handles, reporting whether a record existed. The backing memory and output
// directories on disk are retained.
func (r *Registry) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tenants[id]; !ok {
		return false, nil
	}
	delete(r.tenants, id)
	delete(r.stores, id)
	delete(r.executors, id)

	if err := r.persistLocked(); err != nil {
		return true, err
	}
	r.logger.Info("tenant deleted", "tenant_id", id)
	return true, nil
}

// Get returns a copy of the tenant record.
func (r *Registry) Get(id string) (*Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.tenants[id]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// GetBySlug scans the current tenants for a slug match.
func (r *Registry) GetBySlug(slug string) (*Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.tenants {
		if rec.Slug == slug {
			return rec.Clone(), true
		}
	}
	return nil, false
}

// List returns copies of all tenant records in creation order.
func (r *Registry) List() []*Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked()
}

// Memory returns the tenant's memory store reference.
func (r *Registry) Memory(id string) (core.MemoryStore, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stores[id]
	return s, ok
}

// Executor returns the tenant's credential-scoped executor reference.
func (r *Registry) Executor(id string) (*executor.Executor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.executors[id]
	return e, ok
}

// OutputDir returns the tenant's output directory path.
func (r *Registry) OutputDir(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.tenants[id]; !ok {
		return "", false
	}
	return r.outputDir(id), true
}

func (r *Registry) listLocked() []*Config {
	out := make([]*Config, 0, len(r.tenants))
	for _, rec := range r.tenants {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// disambiguateSlugLocked keeps slugs unique-preferred: a slug already held by
// another tenant gets an id fragment appended.
func (r *Registry) disambiguateSlugLocked(slug, id string) string {
	for _, rec := range r.tenants {
		if rec.Slug == slug && rec.ID != id {
			return slug + "-" + id[:8]
		}
	}
	return slug
}

// provisionLocked opens the tenant's store and executor. The store re-opens
// its backing location, so re-provisioning never loses persisted entries.
func (r *Registry) provisionLocked(ctx context.Context, rec *Config) error {
	store := memory.NewFileStore(filepath.Join(r.dataRoot, rec.ID, "memory"), func(o *memory.Options) {
		o.Logger = r.logger
	})
	if err := store.Init(ctx); err != nil {
		return err
	}

	exec, err := executor.New(rec.ID, r.outputDir(rec.ID), rec.Platforms, func(o *executor.Options) {
		o.Logger = r.logger
	})
	if err != nil {
		return err
	}

	r.stores[rec.ID] = store
	r.executors[rec.ID] = exec
	return nil
}

// seedBrandLocked writes the brand fields under well-known keys, attributed
// to the brand manager.
func (r *Registry) seedBrandLocked(ctx context.Context, rec *Config) error {
	store := r.stores[rec.ID]
	seeds := []struct {
		key   string
		value any
	}{
		{"brand_voice", rec.Brand.Voice},
		{"brand_tone", rec.Brand.Tone},
		{"brand_audience", rec.Brand.Audience},
		{"brand:" + rec.Slug, rec.Brand},
	}
	for _, s := range seeds {
		if err := store.Set(ctx, s.key, s.value, core.BrandManagerName, []string{"brand"}); err != nil {
			return fmt.Errorf("seed %s for tenant %s: %w", s.key, rec.ID, err)
		}
	}
	return nil
}

// persistLocked rewrites the manifest in full, atomically.
func (r *Registry) persistLocked() error {
	data, err := json.MarshalIndent(r.listLocked(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode tenant manifest: %w", err)
	}

	tmp, err := os.CreateTemp(r.dataRoot, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write tenant manifest: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write tenant manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write tenant manifest: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(r.dataRoot, manifestFile)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write tenant manifest: %w", err)
	}
	return nil
}

func (r *Registry) outputDir(id string) string {
	return filepath.Join(r.dataRoot, id, "output")
}
