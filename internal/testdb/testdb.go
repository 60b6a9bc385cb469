//go:build integration

// Package testdb opens a migrated Postgres database for integration tests
// and isolates each test inside a rolled-back transaction.
package testdb

import (
	"context"
	"database/sql"
	"io/fs"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

// EnvDatabaseURL names the variable holding the test database DSN.
const EnvDatabaseURL = "LEDGER_TEST_DATABASE_URL"

// Open connects to the test database and applies every migration found in
// dir of migrations. The test is skipped when no database is configured.
func Open(t *testing.T, migrations fs.FS, dir string) *sql.DB {
	t.Helper()
	url := os.Getenv(EnvDatabaseURL)
	if url == "" {
		t.Skipf("%s not set", EnvDatabaseURL)
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "test database unreachable")

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, dir))
	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			t.Errorf("rollback: %v", rbErr)
		}
	}()
	fn(t, tx)
}
