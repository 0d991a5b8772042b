package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Thonzy/Inventory-App/internal/database"
)

// newTestDB opens a migrated sqlite database in a per-test temp dir.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}
