package tenant_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/brandmesh/executor"
	"github.com/hupe1980/brandmesh/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) (*tenant.Registry, string) {
	t.Helper()
	dataRoot := t.TempDir()
	reg := tenant.NewRegistry(dataRoot)
	require.NoError(t, reg.Init(context.Background()))
	return reg, dataRoot
}

func TestCreate_AppliesDefaults(t *testing.T) {
	reg, _ := newRegistry(t)

	rec, err := reg.Create(context.Background(), tenant.Config{Name: "Acme"})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "acme", rec.Slug)
	assert.Equal(t, tenant.DefaultVoice, rec.Brand.Voice)
	assert.Equal(t, tenant.DefaultTone, rec.Brand.Tone)
	assert.Equal(t, tenant.DefaultAudience, rec.Brand.Audience)
	assert.Equal(t, tenant.DefaultIndustry, rec.Brand.Industry)
	assert.Equal(t, tenant.DefaultType, rec.Settings.DefaultType)
	assert.Equal(t, []string{"local-file"}, rec.Settings.Platforms)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestCreate_RequiresName(t *testing.T) {
	reg, _ := newRegistry(t)

	_, err := reg.Create(context.Background(), tenant.Config{})
	assert.ErrorIs(t, err, tenant.ErrNameRequired)
}

func TestCreate_DisambiguatesDuplicateSlug(t *testing.T) {
	reg, _ := newRegistry(t)

	first, err := reg.Create(context.Background(), tenant.Config{Name: "Acme"})
	require.NoError(t, err)
	second, err := reg.Create(context.Background(), tenant.Config{Name: "Acme"})
	require.NoError(t, err)

	assert.Equal(t, "acme", first.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, "acme-")
}

func TestCreate_ProvisionsResources(t *testing.T) {
	reg, dataRoot := newRegistry(t)

	rec, err := reg.Create(context.Background(), tenant.Config{Name: "Acme"})
	require.NoError(t, err)

	store, ok := reg.Memory(rec.ID)
	require.True(t, ok)
	require.NotNil(t, store)

	exec, ok := reg.Executor(rec.ID)
	require.True(t, ok)
	assert.Equal(t, rec.ID, exec.TenantID())

	outputDir, ok := reg.OutputDir(rec.ID)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dataRoot, rec.ID, "output"), outputDir)
	info, err := os.Stat(outputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreate_SeedsBrandKeys(t *testing.T) {
	reg, _ := newRegistry(t)
	ctx := context.Background()

	rec, err := reg.Create(ctx, tenant.Config{
		Name:  "Acme",
		Brand: tenant.Brand{Voice: "bold"},
	})
	require.NoError(t, err)

	store, ok := reg.Memory(rec.ID)
	require.True(t, ok)

	voice, found, err := store.Get(ctx, "brand_voice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "bold", voice)

	entries, err := store.Search(ctx, "brand")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, "brand-manager", e.Agent)
	}
}

func TestCreate_ManifestWriteFailureLeavesNoTenant(t *testing.T) {
	dataRoot := t.TempDir()
	ctx := context.Background()

	// a directory squatting on the manifest path makes the atomic rename fail
	require.NoError(t, os.Mkdir(filepath.Join(dataRoot, "tenants.json"), 0o755))

	reg := tenant.NewRegistry(dataRoot)
	require.NoError(t, reg.Init(ctx))

	_, err := reg.Create(ctx, tenant.Config{Name: "Acme"})
	require.Error(t, err)

	assert.Empty(t, reg.List())
	_, ok := reg.GetBySlug("acme")
	assert.False(t, ok)
	for _, rec := range reg.List() {
		t.Fatalf("phantom tenant registered: %v", rec.ID)
	}

	// the slug is free again, so a retry against a healthy manifest gets it
	require.NoError(t, os.Remove(filepath.Join(dataRoot, "tenants.json")))
	rec, err := reg.Create(ctx, tenant.Config{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "acme", rec.Slug)

	_, ok = reg.Memory(rec.ID)
	assert.True(t, ok)
}

func TestGet_ReturnsCopy(t *testing.T) {
	reg, _ := newRegistry(t)

	rec, err := reg.Create(context.Background(), tenant.Config{
		Name:  "Acme",
		Brand: tenant.Brand{Keywords: []string{"quality"}},
	})
	require.NoError(t, err)

	got, ok := reg.Get(rec.ID)
	require.True(t, ok)
	got.Brand.Keywords[0] = "mutated"
	got.Name = "Mutated"

	again, ok := reg.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, "Acme", again.Name)
	assert.Equal(t, []string{"quality"}, again.Brand.Keywords)
}

func TestGetBySlug(t *testing.T) {
	reg, _ := newRegistry(t)

	rec, err := reg.Create(context.Background(), tenant.Config{Name: "Acme Corp"})
	require.NoError(t, err)

	got, ok := reg.GetBySlug("acme-corp")
	require.True(t, ok)
	assert.Equal(t, rec.ID, got.ID)

	_, ok = reg.GetBySlug("nope")
	assert.False(t, ok)
}

func TestUpdate_MergeSemantics(t *testing.T) {
	reg, _ := newRegistry(t)
	ctx := context.Background()

	rec, err := reg.Create(ctx, tenant.Config{
		Name:  "Acme",
		Brand: tenant.Brand{Keywords: []string{"quality"}},
	})
	require.NoError(t, err)

	voice := "bold and direct"
	updated, ok, err := reg.Update(ctx, rec.ID, tenant.Update{
		Brand: &tenant.BrandUpdate{
			Voice:    &voice,
			Keywords: []string{"quality", "innovation"},
		},
	})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "bold and direct", updated.Brand.Voice)
	assert.Equal(t, tenant.DefaultTone, updated.Brand.Tone)
	assert.Equal(t, []string{"quality", "innovation"}, updated.Brand.Keywords)
	assert.True(t, updated.UpdatedAt.After(rec.UpdatedAt) || updated.UpdatedAt.Equal(rec.UpdatedAt))
}

func TestUpdate_SlugStaysUnique(t *testing.T) {
	reg, _ := newRegistry(t)
	ctx := context.Background()

	_, err := reg.Create(ctx, tenant.Config{Name: "Acme"})
	require.NoError(t, err)
	beta, err := reg.Create(ctx, tenant.Config{Name: "Beta"})
	require.NoError(t, err)

	slug := "Acme"
	updated, ok, err := reg.Update(ctx, beta.ID, tenant.Update{Slug: &slug})
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, "acme", updated.Slug)
	assert.Contains(t, updated.Slug, "acme-")

	// re-asserting a tenant's own slug is not a collision
	own := "beta"
	_, _, err = reg.Update(ctx, beta.ID, tenant.Update{Slug: &own})
	require.NoError(t, err)
	got, ok := reg.GetBySlug("beta")
	require.True(t, ok)
	assert.Equal(t, beta.ID, got.ID)
}

func TestUpdate_UnknownTenant(t *testing.T) {
	reg, _ := newRegistry(t)

	_, ok, err := reg.Update(context.Background(), "missing", tenant.Update{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdate_PlatformsReprovisionsExecutor(t *testing.T) {
	reg, _ := newRegistry(t)
	ctx := context.Background()

	rec, err := reg.Create(ctx, tenant.Config{Name: "Acme"})
	require.NoError(t, err)

	before, ok := reg.Executor(rec.ID)
	require.True(t, ok)
	_, ok = before.Credentials("twitter")
	assert.False(t, ok)

	storeBefore, _ := reg.Memory(rec.ID)

	_, ok, err = reg.Update(ctx, rec.ID, tenant.Update{
		Platforms: map[string]map[string]string{
			"twitter": {"api_key": "k1"},
		},
	})
	require.NoError(t, err)
	require.True(t, ok)

	after, ok := reg.Executor(rec.ID)
	require.True(t, ok)
	assert.NotSame(t, before, after)
	creds, ok := after.Credentials("twitter")
	require.True(t, ok)
	assert.Equal(t, "k1", creds["api_key"])
	assert.Equal(t, []string{executor.PlatformLocalFile, "twitter"}, after.Platforms())

	// the memory store reference survives a platform update
	storeAfter, _ := reg.Memory(rec.ID)
	assert.Same(t, storeBefore, storeAfter)
}

func TestDelete(t *testing.T) {
	reg, _ := newRegistry(t)
	ctx := context.Background()

	rec, err := reg.Create(ctx, tenant.Config{Name: "Acme"})
	require.NoError(t, err)

	ok, err := reg.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, found := reg.Get(rec.ID)
	assert.False(t, found)
	_, found = reg.Memory(rec.ID)
	assert.False(t, found)
	_, found = reg.Executor(rec.ID)
	assert.False(t, found)

	ok, err = reg.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInit_RestoresPersistedTenants(t *testing.T) {
	dataRoot := t.TempDir()
	ctx := context.Background()

	reg := tenant.NewRegistry(dataRoot)
	require.NoError(t, reg.Init(ctx))
	rec, err := reg.Create(ctx, tenant.Config{Name: "Acme"})
	require.NoError(t, err)

	store, _ := reg.Memory(rec.ID)
	require.NoError(t, store.Set(ctx, "note", "remember this", "brand-manager", nil))

	// a fresh registry over the same data root sees tenant and memory alike
	reopened := tenant.NewRegistry(dataRoot)
	require.NoError(t, reopened.Init(ctx))

	got, ok := reopened.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "acme", got.Slug)

	reStore, ok := reopened.Memory(rec.ID)
	require.True(t, ok)
	val, found, err := reStore.Get(ctx, "note")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "remember this", val)
}

func TestInit_CorruptManifestStartsEmpty(t *testing.T) {
	dataRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataRoot, "tenants.json"), []byte("{not json"), 0o644))

	reg := tenant.NewRegistry(dataRoot)
	require.NoError(t, reg.Init(context.Background()))
	assert.Empty(t, reg.List())
}

func TestList_CreationOrder(t *testing.T) {
	reg, _ := newRegistry(t)
	ctx := context.Background()

	a, err := reg.Create(ctx, tenant.Config{Name: "Alpha"})
	require.NoError(t, err)
	b, err := reg.Create(ctx, tenant.Config{Name: "Beta"})
	require.NoError(t, err)

	list := reg.List()
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	assert.Contains(t, ids, a.ID)
	assert.Contains(t, ids, b.ID)
}

func TestBrandGuidelines(t *testing.T) {
	reg, _ := newRegistry(t)
	ctx := context.Background()

	rec, err := reg.Create(ctx, tenant.Config{
		Name: "Acme",
		Brand: tenant.Brand{
			Voice:      "bold",
			Keywords:   []string{"quality", "craft"},
			AvoidWords: []string{"cheap"},
		},
	})
	require.NoError(t, err)

	store, _ := reg.Memory(rec.ID)
	require.NoError(t, store.Set(ctx, "learning:1", "Short posts perform best", "brand-manager", []string{"learning"}))

	doc := reg.BrandGuidelines(ctx, rec.ID)
	assert.Contains(t, doc, "Brand Guidelines for Acme")
	assert.Contains(t, doc, "Voice: bold")
	assert.Contains(t, doc, "quality, craft")
	assert.Contains(t, doc, "Words to avoid: cheap")
	assert.Contains(t, doc, "Short posts perform best")
}

func TestBrandGuidelines_UnknownTenant(t *testing.T) {
	reg, _ := newRegistry(t)
	assert.Empty(t, reg.BrandGuidelines(context.Background(), "missing"))
}

func TestSlugify(t *testing.T) {
	for in, want := range map[string]string{
		"Acme Corp":         "acme-corp",
		"  Spaced  Out  ":   "spaced-out",
		"Already-Slugged":   "already-slugged",
		"Symbols & Co. #1!": "symbols-co-1",
	} {
		if got := tenant.Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
