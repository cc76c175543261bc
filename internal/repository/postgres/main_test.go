package postgres

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/testsupport"
)

// newTestTx returns a transaction with the schema applied. It is rolled back on cleanup.
func newTestTx(t *testing.T) *sqlx.Tx {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	return testsupport.NewTestPostgres(t)
}
