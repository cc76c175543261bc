package agents

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/ai"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/economic"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/financial"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/news"
)

type fakeClient struct {
	mu       sync.Mutex
	requests []ai.ChatRequest
	respond  func(req ai.ChatRequest) (*ai.ChatResponse, error)
}

func (c *fakeClient) Provider() ai.ProviderName { return ai.ProviderNameOpenAI }

func (c *fakeClient) Chat(_ context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()

	if c.respond == nil {
		return textResponse("generated analysis"), nil
	}
	return c.respond(req)
}

func (c *fakeClient) Requests() []ai.ChatRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ai.ChatRequest(nil), c.requests...)
}

func textResponse(text string) *ai.ChatResponse {
	return &ai.ChatResponse{Choices: []ai.Choice{{Message: ai.Message{Role: ai.RoleAssistant, Content: text}}}}
}

type fakeSource struct {
	def     ai.Client
	model   string
	mu      sync.Mutex
	keys    []string
	keyed   ai.Client
	keyFail error
}

func (s *fakeSource) Default() ai.Client { return s.def }

func (s *fakeSource) ForKey(_ context.Context, apiKey string) (ai.Client, error) {
	s.mu.Lock()
	s.keys = append(s.keys, apiKey)
	s.mu.Unlock()

	if s.keyFail != nil {
		return nil, s.keyFail
	}
	return s.keyed, nil
}

func (s *fakeSource) DefaultModel() string {
	if s.model == "" {
		return "test-model"
	}
	return s.model
}

func newTestFactory(t *testing.T, source ClientSource) *Factory {
	t.Helper()
	f, err := NewFactory(FactoryDeps{Clients: source})
	require.NoError(t, err)
	return f
}

func newTestOrchestrator(t *testing.T, client ai.Client) *Orchestrator {
	t.Helper()
	return NewOrchestrator(newTestFactory(t, &fakeSource{def: client}))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fptr(v float64) *float64 { return &v }

func sampleFinancialRequest() *financial.AnalysisRequest {
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC) }

	return &financial.AnalysisRequest{
		CompanyName: "ACME Corp",
		BalanceSheet: &financial.BalanceSheet{
			Date:             "2024-03-31",
			Currency:         "USD",
			TotalAssets:      dec("1250000"),
			TotalLiabilities: dec("500000.5"),
			TotalEquity:      dec("749999.5"),
			AssetBreakdown: []financial.BreakdownItem{
				{Category: "Cash", Amount: dec("300000")},
				{Category: "Receivables", Amount: dec("450000")},
				{Category: "Inventory", Amount: dec("500000")},
			},
			LiabilityBreakdown: []financial.BreakdownItem{
				{Category: "Accounts Payable", Amount: dec("200000.5")},
				{Category: "Long-term Debt", Amount: dec("300000")},
			},
			Ratios: financial.Ratios{
				financial.RatioEquity:       0.6,
				financial.RatioDebtToAssets: 0.4,
				financial.RatioDebtToEquity: 0.67,
				financial.RatioCash:         0.75,
				financial.RatioQuick:        1.1,
				financial.RatioCurrent:      1.85,
			},
		},
		Transactions: []financial.Transaction{
			{Date: day(1), Description: "Customer payment", Type: financial.TransactionCredit, Amount: dec("12000")},
			{Date: day(5), Description: "Office rent", Type: financial.TransactionDebit, Amount: dec("4000")},
			{Date: day(3), Description: "Supplier invoice", Type: financial.TransactionDebit, Amount: dec("2500.25")},
			{Date: day(7), Description: "Refund", Amount: dec("-250")},
		},
	}
}

func sampleEconomicRequest() *economic.AnalysisRequest {
	return &economic.AnalysisRequest{
		CompanyName: "ACME Corp",
		Industry:    "Manufacturing",
		EconomicContext: economic.Context{
			Period:         "Q1 2024",
			Region:         "United States",
			GDPGrowth:      fptr(2.1),
			Inflation:      fptr(3.4),
			InterestRates:  &economic.InterestRates{Federal: fptr(5.25), Prime: fptr(8.5)},
			IndustryTrends: []string{"Reshoring", "Automation"},
			MarketIndices:  map[string]float64{"S&P 500": 5123.4, "Dow Jones": 38900, "NASDAQ": 16100.75},
		},
	}
}

func sampleNewsRequest() *news.AnalysisRequest {
	return &news.AnalysisRequest{
		CompanyName: "ACME Corp",
		Industry:    "Manufacturing",
		FinancialData: &news.FinancialSnapshot{
			Currency:         "USD",
			TotalAssets:      dec("1250000"),
			TotalLiabilities: dec("500000"),
			NetIncome:        dec("85000"),
		},
		NewsArticles: []news.Article{
			{Title: "January update", Source: "Wire", Date: "2024-01-01", Content: "Quiet month.", Sentiment: &news.Sentiment{Score: fptr(0.0)}},
			{Title: "March expansion", Source: "Daily", Date: "2024-03-01", Content: "New plant opened.", Sentiment: &news.Sentiment{Score: fptr(0.5)}},
			{Title: "February recall", Source: "Times", Date: "2024-02-01", Content: "Product recall announced.", Sentiment: &news.Sentiment{Score: fptr(-0.5)}},
		},
		TargetDate: "2024-03-31",
		Timeframe:  "quarter",
	}
}
