package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/dbpool"
	"github.com/traceopshq/traceops/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	sharedEnv = &testEnv{
		pool: pool,
		log:  log,
	}

	return sharedEnv
}

// setupTestBase creates a Base against the test database. Tests create
// their own rows with unique IDs and register cleanup for them.
func setupTestBase(t *testing.T) store.Base {
	t.Helper()

	env := getTestEnv(t)

	return store.Base{Pool: env.pool, Log: env.log}
}

// cleanupEntity registers best-effort deletion of a row after the test.
func cleanupEntity(t *testing.T, base store.Base, table, id string) {
	t.Helper()

	t.Cleanup(func() {
		base.Pool.Exec(context.Background(), "DELETE FROM "+table+" WHERE id = $1", id) //nolint:errcheck // best-effort cleanup
	})
}
