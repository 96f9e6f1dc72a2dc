// Package testing provides helpers for integration tests that need a live
// PostgreSQL server.
package testing

import (
	"context"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/vvka-141/tmpdb/internal/testinfra"
)

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		container, err := testinfra.StartPostgres(context.Background())
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// ServerURL returns the URL of a PostgreSQL server usable for tests,
// stripped of any database path so temporary databases can be created on
// it. Priority: TMPDB_TEST_URL env var > auto-started testcontainer >
// skip test.
func ServerURL(t *testing.T) string {
	t.Helper()

	raw := os.Getenv("TMPDB_TEST_URL")
	if raw == "" {
		conn, err := getOrStartTestContainer()
		if err != nil {
			t.Skipf("TMPDB_TEST_URL not set and Docker unavailable: %v", err)
		}
		raw = conn
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid test server URL %q: %v", raw, err)
	}
	u.Path = ""
	return u.String()
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireServer combines SkipIfShort and ServerURL for convenience.
func RequireServer(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return ServerURL(t)
}
