package memory

import (
	"context"
	"testing"

	"github.com/hupe1980/brandmesh/core"
)

// Interface compliance (compile-time assertions)
var (
	_ core.MemoryStore = (*InMemoryStore)(nil)
	_ core.MemoryStore = (*FileStore)(nil)
)

func TestInMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing key should be (nil,false,nil), got ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "brand_voice", "casual", "brand-manager", []string{"brand"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	v, ok, err := s.Get(ctx, "brand_voice")
	if err != nil || !ok || v.(string) != "casual" {
		t.Fatalf("get after set: v=%v ok=%v err=%v", v, ok, err)
	}
}

func TestInMemoryStore_OverwriteDropsStaleTags(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	if err := s.Set(ctx, "k", "v1", "a1", []string{"alpha", "beta"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "k", "v2", "a2", []string{"beta", "gamma"}); err != nil {
		t.Fatal(err)
	}

	v, _, _ := s.Get(ctx, "k")
	if v.(string) != "v2" {
		t.Fatalf("last write must win, got %v", v)
	}
	if keys := s.TaggedKeys("alpha"); len(keys) != 0 {
		t.Errorf("stale tag alpha still indexed: %v", keys)
	}
	for _, tag := range []string{"beta", "gamma"} {
		if keys := s.TaggedKeys(tag); len(keys) != 1 || keys[0] != "k" {
			t.Errorf("tag %s should resolve to [k], got %v", tag, keys)
		}
	}

	// overwrite must also update attribution
	byOld, _ := s.ByAgent(ctx, "a1")
	byNew, _ := s.ByAgent(ctx, "a2")
	if len(byOld) != 0 || len(byNew) != 1 {
		t.Errorf("attribution not updated: old=%d new=%d", len(byOld), len(byNew))
	}
}

func TestInMemoryStore_SearchPrefixAndTag(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(s.Set(ctx, "metrics:post1", map[string]any{"likes": 10}, "analytics", []string{"metrics", "twitter"}))
	must(s.Set(ctx, "brand_voice", "bold", "brand-manager", []string{"brand"}))
	must(s.Set(ctx, "metrics:post2", map[string]any{"likes": 4}, "analytics", []string{"metrics"}))

	res, err := s.Search(ctx, "metrics:")
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 || res[0].Key != "metrics:post1" || res[1].Key != "metrics:post2" {
		t.Fatalf("prefix search wrong or unstable: %+v", res)
	}

	byTag, _ := s.Search(ctx, "twitter")
	if len(byTag) != 1 || byTag[0].Key != "metrics:post1" {
		t.Fatalf("tag search wrong: %+v", byTag)
	}
}

func TestInMemoryStore_SearchSingleEntryScenario(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	if err := s.Set(ctx, "metrics:post1", map[string]any{"impressions": 120}, "analytics", []string{"metrics", "twitter"}); err != nil {
		t.Fatal(err)
	}
	res, _ := s.Search(ctx, "metrics:")
	if len(res) != 1 || res[0].Key != "metrics:post1" {
		t.Fatalf("expected exactly metrics:post1, got %+v", res)
	}
	if res[0].Agent != "analytics" {
		t.Errorf("attribution lost: %q", res[0].Agent)
	}
}

func TestInMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	if err := s.Set(ctx, "k", 1, "a", []string{"t"}); err != nil {
		t.Fatal(err)
	}
	existed, err := s.Delete(ctx, "k")
	if err != nil || !existed {
		t.Fatalf("delete existing: existed=%v err=%v", existed, err)
	}
	if keys := s.TaggedKeys("t"); len(keys) != 0 {
		t.Errorf("tag index not cleaned: %v", keys)
	}
	existed, err = s.Delete(ctx, "k")
	if err != nil || existed {
		t.Fatalf("delete missing should be (false,nil), got existed=%v err=%v", existed, err)
	}
}
