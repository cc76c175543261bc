package agents

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/financial"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/templates"
)

// maxListedTransactions caps the transaction lines copied into the prompt
const maxListedTransactions = 10

// FinancialAgent assesses solvency and liquidity from a balance sheet
type FinancialAgent struct {
	BaseAgent
	templates *templates.Registry
}

// Analyze validates the request, renders the balance sheet prompt and generates the report.
func (a *FinancialAgent) Analyze(ctx context.Context, in Input) (string, error) {
	prompt, err := a.BuildPrompt(in.Financial)
	if err != nil {
		return "", errors.WrapKind(errors.ErrFinancialAnalysis, err)
	}

	text, err := a.GenerateAnalysis(ctx, prompt)
	if err != nil {
		return "", errors.WrapKind(errors.ErrFinancialAnalysis, err)
	}

	return text, nil
}

// BuildPrompt renders the financial prompt. Missing ratios fail before any text is produced.
func (a *FinancialAgent) BuildPrompt(req *financial.AnalysisRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	return a.templates.Render(a.config.PromptTemplate, newFinancialPromptData(req))
}

// PromptLine is one "label: value" entry of a prompt list
type PromptLine struct {
	Label string
	Value string
}

type financialPromptData struct {
	CompanyName      string
	AsOf             string
	TotalAssets      string
	TotalLiabilities string
	TotalEquity      string
	Assets           []PromptLine
	Liabilities      []PromptLine
	Equity           []PromptLine
	Ratios           []PromptLine
	Transactions     string
}

func newFinancialPromptData(req *financial.AnalysisRequest) financialPromptData {
	bs := req.BalanceSheet
	companyName := req.CompanyName
	if companyName == "" {
		companyName = "the company"
	}

	return financialPromptData{
		CompanyName:      companyName,
		AsOf:             bs.Date,
		TotalAssets:      templates.FormatCurrency(bs.TotalAssets, bs.Currency),
		TotalLiabilities: templates.FormatCurrency(bs.TotalLiabilities, bs.Currency),
		TotalEquity:      templates.FormatCurrency(bs.TotalEquity, bs.Currency),
		Assets:           FormatBreakdown(bs.AssetBreakdown, bs.Currency),
		Liabilities:      FormatBreakdown(bs.LiabilityBreakdown, bs.Currency),
		Equity:           FormatBreakdown(bs.EquityBreakdown, bs.Currency),
		Ratios:           FormatRatios(bs.Ratios),
		Transactions:     SummarizeTransactions(req.Transactions, bs.Currency),
	}
}

// FormatBreakdown renders breakdown items in input order
func FormatBreakdown(items []financial.BreakdownItem, currency string) []PromptLine {
	lines := make([]PromptLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, PromptLine{
			Label: item.Category,
			Value: templates.FormatCurrency(item.Amount, currency),
		})
	}
	return lines
}

// FormatRatios renders ratios in financial.RatioOrder. Callers validate presence first.
func FormatRatios(ratios financial.Ratios) []PromptLine {
	lines := make([]PromptLine, 0, len(financial.RatioOrder))
	for _, r := range financial.RatioOrder {
		value, ok := ratios[r.Key]
		if !ok {
			continue
		}
		lines = append(lines, PromptLine{Label: r.Label, Value: templates.FormatRatio(value)})
	}
	return lines
}

// SummarizeTransactions totals inflows and outflows and lists the most recent entries.
// Debits are outflows, credits inflows; untyped entries are classified by sign.
func SummarizeTransactions(txs []financial.Transaction, currency string) string {
	if len(txs) == 0 {
		return "Transactions: none supplied for this period."
	}

	inflow, outflow := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		amount := tx.Amount.Abs()
		switch {
		case tx.Type == financial.TransactionDebit:
			outflow = outflow.Add(amount)
		case tx.Type == financial.TransactionCredit:
			inflow = inflow.Add(amount)
		case tx.Amount.IsNegative():
			outflow = outflow.Add(amount)
		default:
			inflow = inflow.Add(amount)
		}
	}

	recent := make([]financial.Transaction, len(txs))
	copy(recent, txs)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > maxListedTransactions {
		recent = recent[:maxListedTransactions]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Transactions (%d):\n", len(txs))
	fmt.Fprintf(&b, "- Total inflows: %s\n", templates.FormatCurrency(inflow, currency))
	fmt.Fprintf(&b, "- Total outflows: %s\n", templates.FormatCurrency(outflow, currency))
	fmt.Fprintf(&b, "- Net flow: %s\n", templates.FormatCurrency(inflow.Sub(outflow), currency))
	b.WriteString("Most recent transactions:")
	for _, tx := range recent {
		date := "undated"
		if !tx.Date.IsZero() {
			date = tx.Date.Format("2006-01-02")
		}
		kind := string(tx.Type)
		if kind == "" {
			kind = "unspecified"
		}
		fmt.Fprintf(&b, "\n- %s | %s | %s | %s", date, tx.Description, kind, templates.FormatCurrency(tx.Amount, currency))
	}

	return b.String()
}
