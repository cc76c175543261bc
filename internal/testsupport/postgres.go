package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/postgres"
	"github.com/tenured-master-chef-607/Reflash-sub001/migrations"
)

// NewTestPostgres opens a transaction with the schema applied inside it.
// PostgreSQL DDL is transactional, so the rollback on cleanup discards both
// the schema changes and every row the test wrote.
func NewTestPostgres(t *testing.T) *sqlx.Tx {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := postgres.NewClient(ctx, PostgresConfigFromEnv(t))
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	tx, err := client.DB().BeginTxx(context.Background(), nil)
	if err != nil {
		_ = client.Close()
		t.Fatalf("failed to begin test transaction: %v", err)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
		_ = client.Close()
	})

	stmts, err := migrations.Postgres()
	if err != nil {
		t.Fatalf("failed to read postgres migrations: %v", err)
	}
	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("failed to apply postgres migration %d: %v", i+1, err)
		}
	}

	return tx
}
