package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/clickhouse"
	"github.com/tenured-master-chef-607/Reflash-sub001/migrations"
)

// NewTestClickHouse connects using settings from the environment and applies the schema.
// Rows written under the given company name are deleted on cleanup.
func NewTestClickHouse(t *testing.T, companyName string) driver.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := clickhouse.NewClient(ctx, ClickHouseConfigFromEnv(t))
	if err != nil {
		t.Fatalf("failed to connect to clickhouse: %v", err)
	}

	stmts, err := migrations.ClickHouse()
	if err != nil {
		t.Fatalf("failed to read clickhouse migrations: %v", err)
	}
	if err := client.Migrate(ctx, stmts); err != nil {
		t.Fatalf("failed to apply clickhouse migrations: %v", err)
	}

	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Conn().Exec(cleanupCtx, "DELETE FROM analysis_runs WHERE company_name = ?", companyName)
		_ = client.Close()
	})

	return client.Conn()
}
