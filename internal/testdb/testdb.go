//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/repeat/internal/platform/migrate"
	"github.com/phrazzld/repeat/internal/platform/postgres"
)

var urlEnvVars = []string{"DATABASE_URL", "REPEAT_TEST_DB_URL"}

var (
	shared     *sql.DB
	sharedErr  error
	sharedOnce sync.Once
)

// DatabaseURL returns the first configured test database URL, or "".
func DatabaseURL() string {
	for _, name := range urlEnvVars {
		if url := os.Getenv(name); url != "" {
			return url
		}
	}
	return ""
}

// Open returns the shared test database, migrated to the latest schema.
// It skips the test when no database is configured.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := DatabaseURL()
	if url == "" {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	sharedOnce.Do(func() {
		shared, sharedErr = sql.Open("pgx", url)
		if sharedErr != nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if sharedErr = shared.PingContext(ctx); sharedErr != nil {
			return
		}
		sharedErr = postgres.Migrate(ctx, shared, migrate.CommandUp)
	})
	if sharedErr != nil {
		t.Fatalf("test database unavailable: %v", sharedErr)
	}
	return shared
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("warning: failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
