package sqlite

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitnudge/internal/storage"
	"github.com/julianstephens/habitnudge/internal/storage/storagetest"
)

var _ storage.Provider = (*Store)(nil)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "nested", "habitnudge.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_Provider(t *testing.T) {
	storagetest.Run(t, newTestStore(t))
}

func TestStore_LoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if err == nil {
		t.Fatal("Load() on missing database succeeded")
	}
	if !strings.Contains(err.Error(), "init") {
		t.Errorf("Load() error = %v, want hint to run init", err)
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitnudge.db")

	first := NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := first.AddHabit(storagetest.Habit("h1", "walk")); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second := NewStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer second.Close()

	h, err := second.GetHabit("h1")
	if err != nil || h.Name != "walk" {
		t.Errorf("GetHabit() after reopen = %+v, %v", h, err)
	}

	// Re-running migrations on an up-to-date database is a no-op
	applied, err := second.Migrate(nil)
	if err != nil || applied != 0 {
		t.Errorf("Migrate() = %d, %v, want 0, nil", applied, err)
	}
}

func TestStore_GetConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitnudge.db")
	if got := NewStore(path).GetConfigPath(); got != path {
		t.Errorf("GetConfigPath() = %q, want %q", got, path)
	}
}

func TestStore_CloseThenReopen(t *testing.T) {
	store := newTestStore(t)
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("Load() after Close() error = %v", err)
	}
	if _, err := store.GetAllHabits(true); err != nil {
		t.Errorf("GetAllHabits() after reopen error = %v", err)
	}
}

func TestStore_SchemaVersion(t *testing.T) {
	current, latest, err := newTestStore(t).SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if current != latest || latest < 1 {
		t.Errorf("SchemaVersion() = %d, %d, want equal and >= 1", current, latest)
	}
}
