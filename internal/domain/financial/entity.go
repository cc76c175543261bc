package financial

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company is a company with stored statements
type Company struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Industry string `json:"industry" db:"industry"`
}

// BreakdownItem is one line of a balance sheet section
type BreakdownItem struct {
	Category string          `json:"category" db:"category"`
	Amount   decimal.Decimal `json:"amount" db:"amount"`
}

// BalanceSheet is a statement of position at one date
type BalanceSheet struct {
	CompanyID        string          `json:"companyId,omitempty" db:"company_id"`
	Date             string          `json:"date,omitempty" db:"as_of"`
	Currency         string          `json:"currency,omitempty" db:"currency"`
	TotalAssets      decimal.Decimal `json:"totalAssets" db:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities" db:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity" db:"total_equity"`

	AssetBreakdown     []BreakdownItem `json:"assetBreakdown"`
	LiabilityBreakdown []BreakdownItem `json:"liabilityBreakdown"`
	EquityBreakdown    []BreakdownItem `json:"equityBreakdown"`

	Ratios Ratios `json:"ratios"`
}

// TransactionType distinguishes inflows from outflows
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// Transaction is a single ledger movement
type Transaction struct {
	ID          string          `json:"id,omitempty" db:"id"`
	Date        time.Time       `json:"date" db:"occurred_at"`
	Description string          `json:"description" db:"description"`
	Category    string          `json:"category,omitempty" db:"category"`
	Type        TransactionType `json:"type" db:"type"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
}

// AnalysisRequest is the input of the financial agent
type AnalysisRequest struct {
	CompanyName  string        `json:"companyName,omitempty"`
	BalanceSheet *BalanceSheet `json:"balanceSheet"`
	Transactions []Transaction `json:"transactions"`
}

// DataPoints counts the structured fields supplied with the request.
// A present balance sheet counts as one, plus each breakdown line, ratio and transaction.
func (r *AnalysisRequest) DataPoints() int {
	if r == nil {
		return 0
	}

	count := len(r.Transactions)
	if bs := r.BalanceSheet; bs != nil {
		count += 1 + len(bs.AssetBreakdown) + len(bs.LiabilityBreakdown) + len(bs.EquityBreakdown) + len(bs.Ratios)
	}
	return count
}
