// Package testutil provides shared helpers for integration tests.
// Helpers skip the calling test when TEST_DATABASE_URL is not set, so unit
// tests run without a database and integration tests are opt-in.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pkordes/stop-insights/internal/database"
)

// NewPool returns a pgx pool connected to TEST_DATABASE_URL.
// The pool is closed when the test and its subtests finish.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := database.OpenPool(context.Background(), requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB returns a database/sql handle connected to TEST_DATABASE_URL,
// for driving goose directly. Closed when the test finishes.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.OpenSQL(context.Background(), requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// MustMigrate applies all migrations to dsn and panics on failure.
// Use it from TestMain, where no *testing.T is available.
func MustMigrate(dsn string) {
	if _, err := database.MigrateDSN(context.Background(), dsn); err != nil {
		panic("testutil.MustMigrate: " + err.Error())
	}
}

// requireDSN returns TEST_DATABASE_URL, skipping the test if it is unset.
func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}
	return dsn
}
