package memestore

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "memes"))
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func seed(t *testing.T, store *Store, slug string, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := store.Save(slug, name, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListFiltersExtensions(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, "happy", "a.jpg", "b.PNG", "c.gif", "d.webp", "e.jpeg", "notes.txt", "f.bin")

	names, err := store.List("happy")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 5 {
		t.Errorf("List = %v, want 5 image files", names)
	}
	for _, name := range names {
		if name == "notes.txt" || name == "f.bin" {
			t.Errorf("non-image %q listed", name)
		}
	}
}

func TestListMissingCategory(t *testing.T) {
	store := newTestStore(t)
	names, err := store.List("nonexistent")
	if err != nil {
		t.Fatalf("missing category should not error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List = %v, want empty", names)
	}
}

func TestPickRandom(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, "happy", "a.jpg", "b.jpg", "c.jpg")

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		path, err := store.PickRandom("happy")
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Dir(path) != store.CategoryDir("happy") {
			t.Fatalf("picked path outside category: %s", path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("picked file missing: %v", err)
		}
		seen[filepath.Base(path)] = true
	}
	if len(seen) < 2 {
		t.Errorf("50 picks over 3 files hit only %d distinct files", len(seen))
	}
}

func TestPickRandomEmpty(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.PickRandom("happy"); err == nil {
		t.Error("expected error for empty category")
	}
}

func TestSaveCreatesCategoryDir(t *testing.T) {
	store := newTestStore(t)
	path, err := store.Save("fresh", "1_1.png", []byte{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 3 {
		t.Errorf("wrote %d bytes, want 3", len(data))
	}
}

// stubResolver feeds the audit a fixed name table.
type stubResolver struct {
	entries map[string]string
	order   []string
}

func (s *stubResolver) Names() []string { return s.order }
func (s *stubResolver) Resolve(name string) (string, bool) {
	slug, ok := s.entries[name]
	return slug, ok
}

func TestAudit(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, "happy", "a.jpg")
	// "生气" maps to a category with no directory; audit must not fail on it.
	resolver := &stubResolver{
		entries: map[string]string{"开心": "happy", "生气": "angry"},
		order:   []string{"开心", "生气"},
	}

	store.Audit(resolver)

	// Audit is observational: the library is untouched.
	names, err := store.List("happy")
	if err != nil || len(names) != 1 {
		t.Errorf("library changed by audit: %v (%v)", names, err)
	}
	if _, err := os.Stat(store.CategoryDir("angry")); !os.IsNotExist(err) {
		t.Error("audit created a missing category directory")
	}
}

func TestOverridePath(t *testing.T) {
	store := newTestStore(t)
	if filepath.Base(store.OverridePath()) != OverrideFilename {
		t.Errorf("OverridePath = %q", store.OverridePath())
	}
	if filepath.Dir(store.OverridePath()) != store.Root() {
		t.Errorf("override file not in root")
	}
}
