package tracker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/halcyonlegal/casefile/internal/storage"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func createTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return store
}
