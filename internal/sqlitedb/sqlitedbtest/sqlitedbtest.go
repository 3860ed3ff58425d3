// Package sqlitedbtest opens throwaway, fully migrated databases for tests.
package sqlitedbtest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/robalobadob/hang10/assets"
	"github.com/robalobadob/hang10/internal/sqlitedb"
)

// Open returns a migrated SQLite database in t's temp dir, closed on cleanup.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlitedb.Migrate(db, assets.Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
