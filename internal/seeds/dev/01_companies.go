package dev

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/financial"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// Company bundles everything seeded for one demo company
type Company struct {
	Info         financial.Company
	BalanceSheet financial.BalanceSheet
	Transactions []financial.Transaction
}

// Companies returns the demo companies. Transaction dates are relative to now so
// the default transaction window always has data.
func Companies(now time.Time) []Company {
	day := func(daysAgo int) time.Time {
		return now.AddDate(0, 0, -daysAgo).Truncate(24 * time.Hour).Add(10 * time.Hour)
	}
	d := decimal.RequireFromString

	return []Company{
		{
			Info: financial.Company{ID: "acme", Name: "ACME Corp", Industry: "Manufacturing"},
			BalanceSheet: financial.BalanceSheet{
				CompanyID:        "acme",
				Date:             day(14).Format("2006-01-02"),
				Currency:         "USD",
				TotalAssets:      d("1250000.00"),
				TotalLiabilities: d("500000.50"),
				TotalEquity:      d("749999.50"),
				AssetBreakdown: []financial.BreakdownItem{
					{Category: "Cash and Equivalents", Amount: d("300000.00")},
					{Category: "Accounts Receivable", Amount: d("450000.00")},
					{Category: "Inventory", Amount: d("500000.00")},
				},
				LiabilityBreakdown: []financial.BreakdownItem{
					{Category: "Accounts Payable", Amount: d("120000.50")},
					{Category: "Long-term Debt", Amount: d("380000.00")},
				},
				EquityBreakdown: []financial.BreakdownItem{
					{Category: "Common Stock", Amount: d("250000.00")},
					{Category: "Retained Earnings", Amount: d("499999.50")},
				},
				Ratios: financial.Ratios{
					"currentRatio": 1.85,
					"quickRatio":   1.10,
					"cashRatio":    0.75,
					"debtToEquity": 0.67,
					"debtToAssets": 0.40,
					"equityRatio":  0.60,
				},
			},
			Transactions: []financial.Transaction{
				{ID: "acme-001", Date: day(60), Description: "Customer payment INV-1042", Category: "sales", Type: financial.TransactionCredit, Amount: d("48000.00")},
				{ID: "acme-002", Date: day(45), Description: "Raw materials", Category: "cogs", Type: financial.TransactionDebit, Amount: d("21500.75")},
				{ID: "acme-003", Date: day(30), Description: "Office rent", Category: "rent", Type: financial.TransactionDebit, Amount: d("6500.00")},
				{ID: "acme-004", Date: day(20), Description: "Customer payment INV-1057", Category: "sales", Type: financial.TransactionCredit, Amount: d("36250.00")},
				{ID: "acme-005", Date: day(7), Description: "Payroll", Category: "payroll", Type: financial.TransactionDebit, Amount: d("41000.00")},
			},
		},
	}
}

// SeedCompanies writes the demo companies (idempotent)
func SeedCompanies(ctx context.Context, w financial.Writer, now time.Time) error {
	log := logger.Get().With("seed", "companies")

	for _, c := range Companies(now) {
		if err := w.UpsertCompany(ctx, c.Info); err != nil {
			return errors.Wrapf(err, "seed company %s", c.Info.ID)
		}

		bs := c.BalanceSheet
		if err := w.SaveBalanceSheet(ctx, &bs); err != nil {
			return errors.Wrapf(err, "seed balance sheet for %s", c.Info.ID)
		}

		if err := w.SaveTransactions(ctx, c.Info.ID, c.Transactions); err != nil {
			return errors.Wrapf(err, "seed transactions for %s", c.Info.ID)
		}

		log.Infow("Seeded company",
			"company_id", c.Info.ID,
			"as_of", bs.Date,
			"transactions", len(c.Transactions),
		)
	}

	return nil
}
