package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/pkordes/travel-graph/backend/migrations"
	"github.com/pkordes/travel-graph/backend/testutil"
)

// TestMain applies all pending migrations to the test database once for the
// whole package, so individual tests can assume the documents table exists.
// Without TEST_DATABASE_URL the tests run and skip themselves.
func TestMain(m *testing.M) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		os.Exit(m.Run())
	}

	db := testutil.MustOpenSQLDB(os.Getenv("TEST_DATABASE_URL"))

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		log.Fatalf("TestMain: create goose provider: %v", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		log.Fatalf("TestMain: run migrations: %v", err)
	}

	code := m.Run()
	db.Close()
	os.Exit(code)
}
