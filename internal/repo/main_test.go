package repo_test

import (
	"os"
	"testing"

	"github.com/pkordes/stop-insights/testutil"
)

// TestMain migrates the test database once for the whole package so every
// test can assume the traffic_stops table exists. Without TEST_DATABASE_URL
// the integration tests skip themselves and only unit tests run.
func TestMain(m *testing.M) {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		testutil.MustMigrate(dsn)
	}
	os.Exit(m.Run())
}
