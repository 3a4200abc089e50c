package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"hexturmite/internal/hexrule"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = CloseIfSupported(store)
	})

	c, err := hexrule.CompileString(ctx, "{{{1,4,0},{0,2,0}}}", hexrule.Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	first, err := store.Save(ctx, NewEntry(c, "ant"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.ID == "" || first.Alphabet != 14 || first.Rules != 14 {
		t.Fatalf("unexpected saved entry: %+v", first)
	}

	again, err := store.Save(ctx, NewEntry(c, ""))
	if err != nil {
		t.Fatalf("resave: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("resave changed id %s -> %s", first.ID, again.ID)
	}
	if again.Note != "ant" {
		t.Fatalf("resave with empty note dropped note: %q", again.Note)
	}

	got, ok, err := store.Get(ctx, first.ID)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Name != c.Name || got.Spec != c.Spec.String() || !got.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("get returned %+v, want %+v", got, first)
	}

	byDigest, ok, err := store.GetByDigest(ctx, c.Digest)
	if err != nil || !ok || byDigest.ID != first.ID {
		t.Fatalf("get by digest: %+v ok=%v err=%v", byDigest, ok, err)
	}
	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing id: ok=%v err=%v", ok, err)
	}

	n, err := Seed(ctx, store, hexrule.Options{})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(Known()) {
		t.Fatalf("seeded %d, want %d", n, len(Known()))
	}
	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != len(Known()) {
		t.Fatalf("listed %d entries, want %d (Langton seeded twice?)", len(list), len(Known()))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Fatalf("list not sorted by name at %d", i)
		}
	}
	lookup, _, _ := store.GetByDigest(ctx, c.Digest)
	if lookup.ID != first.ID {
		t.Fatal("seeding must keep the existing id for Langton's ant")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, NewSQLiteStore(filepath.Join(t.TempDir(), "catalog.db")))
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")

	store := NewSQLiteStore(path)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	c, err := hexrule.CompileString(ctx, "{{{1,16,0},{0,8,0}}}", hexrule.Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	saved, err := store.Save(ctx, NewEntry(c, "glider"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := NewSQLiteStore(path)
	if err := reopened.Init(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, ok, err := reopened.Get(ctx, saved.ID)
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if got.Note != "glider" || got.Digest != c.Digest {
		t.Fatalf("reopened entry = %+v", got)
	}
}

func TestUninitializedStores(t *testing.T) {
	ctx := context.Background()
	if _, err := NewMemoryStore().List(ctx); err == nil {
		t.Fatal("memory store must require Init")
	}
	if _, err := NewSQLiteStore("x.db").List(ctx); err == nil {
		t.Fatal("sqlite store must require Init")
	}
	if err := NewSQLiteStore("").Init(ctx); err == nil {
		t.Fatal("sqlite store must require a path")
	}
	if _, err := NewStore("postgres", ""); err == nil {
		t.Fatal("unknown backend must fail")
	}
}

func TestKnownRulesCompile(t *testing.T) {
	for _, k := range Known() {
		if _, err := hexrule.CompileString(context.Background(), k.Spec, hexrule.Options{}); err != nil {
			t.Fatalf("%s: %v", k.Spec, err)
		}
	}
}
