package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/financial"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/metrics"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

// Compile-time checks
var (
	_ financial.Repository = (*FinancialRepository)(nil)
	_ financial.Writer     = (*FinancialRepository)(nil)
)

// Balance sheet item sections
const (
	sectionAsset     = "asset"
	sectionLiability = "liability"
	sectionEquity    = "equity"
)

// FinancialRepository implements financial.Repository using sqlx
type FinancialRepository struct {
	db DBTX
}

// NewFinancialRepository creates a new financial statements repository
func NewFinancialRepository(db DBTX) *FinancialRepository {
	return &FinancialRepository{db: db}
}

type balanceSheetRow struct {
	ID int64 `db:"id"`
	financial.BalanceSheet
}

type itemRow struct {
	Section  string          `db:"section"`
	Category string          `db:"category"`
	Amount   decimal.Decimal `db:"amount"`
}

type ratioRow struct {
	Name  string  `db:"name"`
	Value float64 `db:"value"`
}

// LatestBalanceSheet loads the newest balance sheet dated on or before onOrBefore,
// together with its breakdown lines and ratios.
func (r *FinancialRepository) LatestBalanceSheet(ctx context.Context, companyID string, onOrBefore time.Time) (*financial.BalanceSheet, error) {
	start := time.Now()

	var row balanceSheetRow
	query := `
		SELECT id, company_id, to_char(as_of, 'YYYY-MM-DD') AS as_of, currency,
		       total_assets, total_liabilities, total_equity
		FROM balance_sheets
		WHERE company_id = $1 AND as_of <= $2
		ORDER BY as_of DESC
		LIMIT 1`

	err := r.db.GetContext(ctx, &row, query, companyID, onOrBefore)
	metrics.RecordDBQuery("postgres", "latest_balance_sheet", time.Since(start), ignoreNoRows(err))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(errors.ErrNotFound, "balance sheet for company %s", companyID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load balance sheet")
	}

	var items []itemRow
	err = r.db.SelectContext(ctx, &items, `
		SELECT section, category, amount
		FROM balance_sheet_items
		WHERE balance_sheet_id = $1
		ORDER BY section, position, category`, row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load balance sheet items")
	}

	var ratios []ratioRow
	err = r.db.SelectContext(ctx, &ratios, `
		SELECT name, value
		FROM balance_sheet_ratios
		WHERE balance_sheet_id = $1`, row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load balance sheet ratios")
	}

	bs := row.BalanceSheet
	for _, it := range items {
		item := financial.BreakdownItem{Category: it.Category, Amount: it.Amount}
		switch it.Section {
		case sectionAsset:
			bs.AssetBreakdown = append(bs.AssetBreakdown, item)
		case sectionLiability:
			bs.LiabilityBreakdown = append(bs.LiabilityBreakdown, item)
		case sectionEquity:
			bs.EquityBreakdown = append(bs.EquityBreakdown, item)
		}
	}

	bs.Ratios = make(financial.Ratios, len(ratios))
	for _, ratio := range ratios {
		bs.Ratios[ratio.Name] = ratio.Value
	}

	return &bs, nil
}

// Transactions returns the company's transactions in [from, to], oldest first
func (r *FinancialRepository) Transactions(ctx context.Context, companyID string, from, to time.Time) ([]financial.Transaction, error) {
	start := time.Now()

	var txs []financial.Transaction
	query := `
		SELECT id, occurred_at, description, category, type, amount
		FROM transactions
		WHERE company_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY occurred_at ASC, id ASC`

	err := r.db.SelectContext(ctx, &txs, query, companyID, from, to)
	metrics.RecordDBQuery("postgres", "transactions", time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load transactions")
	}

	return txs, nil
}

// CompanyName resolves the display name of a company
func (r *FinancialRepository) CompanyName(ctx context.Context, companyID string) (string, error) {
	var name string
	err := r.db.GetContext(ctx, &name, `SELECT name FROM companies WHERE id = $1`, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.Wrapf(errors.ErrNotFound, "company %s", companyID)
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to load company")
	}
	return name, nil
}

// CountCompanies returns the number of companies in the store
func (r *FinancialRepository) CountCompanies(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT count(*) FROM companies`); err != nil {
		return 0, errors.Wrap(err, "failed to count companies")
	}
	return n, nil
}

// UpsertCompany inserts or renames a company
func (r *FinancialRepository) UpsertCompany(ctx context.Context, c financial.Company) error {
	if c.ID == "" {
		return errors.NewValidationError("id", "is required", c.ID)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, industry) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, industry = EXCLUDED.industry`,
		c.ID, c.Name, c.Industry)
	if err != nil {
		return errors.Wrap(err, "failed to upsert company")
	}
	return nil
}

// SaveBalanceSheet upserts the statement header and replaces its lines and ratios.
// Callers wanting atomicity pass a *sqlx.Tx to NewFinancialRepository.
func (r *FinancialRepository) SaveBalanceSheet(ctx context.Context, bs *financial.BalanceSheet) error {
	if bs == nil {
		return errors.NewValidationError("balanceSheet", "is required", nil)
	}
	if bs.CompanyID == "" || bs.Date == "" {
		return errors.NewValidationError("balanceSheet", "company id and date are required", bs.CompanyID)
	}

	start := time.Now()
	currency := bs.Currency
	if currency == "" {
		currency = "USD"
	}

	var id int64
	err := r.db.GetContext(ctx, &id, `
		INSERT INTO balance_sheets (company_id, as_of, currency, total_assets, total_liabilities, total_equity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, as_of) DO UPDATE SET
			currency = EXCLUDED.currency,
			total_assets = EXCLUDED.total_assets,
			total_liabilities = EXCLUDED.total_liabilities,
			total_equity = EXCLUDED.total_equity
		RETURNING id`,
		bs.CompanyID, bs.Date, currency, bs.TotalAssets, bs.TotalLiabilities, bs.TotalEquity)
	metrics.RecordDBQuery("postgres", "save_balance_sheet", time.Since(start), err)
	if err != nil {
		return errors.Wrap(err, "failed to save balance sheet")
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM balance_sheet_items WHERE balance_sheet_id = $1`, id); err != nil {
		return errors.Wrap(err, "failed to clear balance sheet items")
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM balance_sheet_ratios WHERE balance_sheet_id = $1`, id); err != nil {
		return errors.Wrap(err, "failed to clear balance sheet ratios")
	}

	sections := []struct {
		name  string
		items []financial.BreakdownItem
	}{
		{sectionAsset, bs.AssetBreakdown},
		{sectionLiability, bs.LiabilityBreakdown},
		{sectionEquity, bs.EquityBreakdown},
	}
	for _, section := range sections {
		for pos, item := range section.items {
			_, err := r.db.ExecContext(ctx, `
				INSERT INTO balance_sheet_items (balance_sheet_id, section, category, amount, position)
				VALUES ($1, $2, $3, $4, $5)`,
				id, section.name, item.Category, item.Amount, pos)
			if err != nil {
				return errors.Wrapf(err, "failed to save %s item %q", section.name, item.Category)
			}
		}
	}

	for name, value := range bs.Ratios {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO balance_sheet_ratios (balance_sheet_id, name, value) VALUES ($1, $2, $3)`,
			id, name, value)
		if err != nil {
			return errors.Wrapf(err, "failed to save ratio %s", name)
		}
	}

	return nil
}

// SaveTransactions upserts transactions by id
func (r *FinancialRepository) SaveTransactions(ctx context.Context, companyID string, txs []financial.Transaction) error {
	for _, tx := range txs {
		if tx.ID == "" {
			return errors.NewValidationError("id", "transaction id is required", tx.Description)
		}
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO transactions (id, company_id, occurred_at, description, category, type, amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				occurred_at = EXCLUDED.occurred_at,
				description = EXCLUDED.description,
				category = EXCLUDED.category,
				type = EXCLUDED.type,
				amount = EXCLUDED.amount`,
			tx.ID, companyID, tx.Date, tx.Description, tx.Category, string(tx.Type), tx.Amount)
		if err != nil {
			return errors.Wrapf(err, "failed to save transaction %s", tx.ID)
		}
	}
	return nil
}

func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
