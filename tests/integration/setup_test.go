package integration

import (
	"testing"

	"github.com/dimitrije/rosterdesk-api/tests/testutil"
)

// Container-backed tests are skipped with -short.
func requireContainers(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// setupTest starts a migrated Postgres container for one test.
func setupTest(t *testing.T) *testutil.TestDB {
	t.Helper()
	requireContainers(t)
	return testutil.SetupTestDB(t)
}
