package financial

import (
	"context"
	"time"
)

// Repository reads company statements from the backing store
type Repository interface {
	// LatestBalanceSheet returns the most recent balance sheet dated on or before the given day
	LatestBalanceSheet(ctx context.Context, companyID string, onOrBefore time.Time) (*BalanceSheet, error)

	// Transactions returns transactions in [from, to), oldest first
	Transactions(ctx context.Context, companyID string, from, to time.Time) ([]Transaction, error)

	// CompanyName resolves a display name
	CompanyName(ctx context.Context, companyID string) (string, error)
}

// Writer stores company statements. Used by the seeder and data loaders.
type Writer interface {
	UpsertCompany(ctx context.Context, c Company) error

	// SaveBalanceSheet replaces the statement of bs.CompanyID dated bs.Date
	SaveBalanceSheet(ctx context.Context, bs *BalanceSheet) error

	SaveTransactions(ctx context.Context, companyID string, txs []Transaction) error
}
