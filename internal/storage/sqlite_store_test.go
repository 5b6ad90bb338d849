package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitlit/internal/models"
)

func setupTestSQLiteStore(t *testing.T) (*SQLiteStore, func()) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init test store: %v", err)
	}
	return store, func() { store.Close() }
}

func TestTableExists(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	for _, table := range []string{"habits", "HABIT_LOGS", "achievements", "schema_version"} {
		exists, err := store.tableExists(table)
		if err != nil {
			t.Fatalf("tableExists(%s) returned unexpected error: %v", table, err)
		}
		if !exists {
			t.Errorf("tableExists(%s) = false, want true", table)
		}
	}

	exists, err := store.tableExists("tasks")
	if err != nil {
		t.Fatalf("tableExists returned unexpected error: %v", err)
	}
	if exists {
		t.Error("tableExists(tasks) = true, want false")
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	store := NewSQLiteStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	h := testHabit("h1", "Meditate")
	h.Description = models.StringPtr("10 minutes")
	if err := store.AddHabit(ctx, h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	store.Close()

	reopened := NewSQLiteStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetHabit(ctx, "h1")
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if models.Deref(got.Description) != "10 minutes" || got.EndDate != nil {
		t.Errorf("nullable columns not round-tripped: %+v", got)
	}
	if !got.CreatedAt.Equal(h.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, h.CreatedAt)
	}

	current, latest, err := reopened.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if current != latest {
		t.Errorf("expected schema at latest version, got %d of %d", current, latest)
	}
}

func TestSQLiteStoreLoadUninitialized(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "absent.db"))
	err := store.Load()
	if err == nil || !strings.Contains(err.Error(), "habitlit init") {
		t.Errorf("expected an init hint, got %v", err)
	}
}

func TestSQLiteStoreDuplicateHabitID(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.AddHabit(ctx, testHabit("h1", "Run")); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	if err := store.AddHabit(ctx, testHabit("h1", "Run again")); err == nil {
		t.Error("expected an error for a duplicate habit id")
	}
}
