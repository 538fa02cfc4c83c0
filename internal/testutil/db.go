// internal/testutil/db.go

// Package testutil holds shared helpers for integration tests. Store
// tests need a real MongoDB; they are skipped unless
// CLUBHUB_TEST_MONGO_URI points at one.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// EnvMongoURI names the environment variable that enables Mongo-backed
// tests.
const EnvMongoURI = "CLUBHUB_TEST_MONGO_URI"

var dbCounter int

// SetupTestDB connects to the test MongoDB and returns a database unique
// to the calling test. The database is dropped when the test finishes.
// Tests are skipped when CLUBHUB_TEST_MONGO_URI is unset, so the suite
// passes without a database available.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv(EnvMongoURI)
	if uri == "" {
		t.Skipf("%s not set; skipping MongoDB-backed test", EnvMongoURI)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect to test MongoDB: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Fatalf("ping test MongoDB: %v", err)
	}

	dbCounter++
	name := fmt.Sprintf("clubhub_test_%d_%d", time.Now().UnixNano(), dbCounter)
	db := client.Database(name)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("drop test database %s: %v", name, err)
		}
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with the default timeout for one test's
// storage calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
