package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/chorusproject/chorus/internal/db"
)

// NewGraphDB opens an in-memory SQLite graph database and runs its goose
// migrations.
func NewGraphDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return newMemoryDB(t, "graph", db.GraphStore)
}

// NewCatalogDB opens an in-memory SQLite catalog database and runs its
// goose migrations.
func NewCatalogDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return newMemoryDB(t, "catalog", db.CatalogStore)
}

func newMemoryDB(t *testing.T, suffix string, store db.Store) *sqlx.DB {
	t.Helper()

	// A file URI with shared cache so all pool connections see the same
	// in-memory database. The test name keeps databases isolated across
	// tests; busy_timeout absorbs lock contention from concurrent
	// transactions in the toggle tests.
	dsn := "file:" + t.Name() + "_" + suffix + "?mode=memory&cache=shared&_busy_timeout=5000"
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.Migrate(conn, "sqlite3", store); err != nil {
		t.Fatalf("migrate %s store: %v", suffix, err)
	}

	return conn
}
