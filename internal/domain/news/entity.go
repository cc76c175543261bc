package news

import (
	"github.com/shopspring/decimal"
)

// SentimentLabel classifies an article's tone
type SentimentLabel string

const (
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentPositive SentimentLabel = "positive"
	SentimentUnknown  SentimentLabel = "unknown"
)

// Valid reports whether the label is one a caller may supply
func (l SentimentLabel) Valid() bool {
	switch l {
	case SentimentNegative, SentimentNeutral, SentimentPositive:
		return true
	default:
		return false
	}
}

// Sentiment thresholds applied to scores in [-1, 1]
const (
	NegativeThreshold = -0.2
	PositiveThreshold = 0.2
)

// Sentiment is the optional tone annotation of an article
type Sentiment struct {
	Score *float64       `json:"score,omitempty"`
	Label SentimentLabel `json:"label,omitempty"`
}

// Article is one news item about the company or its industry
type Article struct {
	Title     string     `json:"title"`
	Source    string     `json:"source"`
	Date      string     `json:"date"`
	Content   string     `json:"content"`
	URL       string     `json:"url,omitempty"`
	Sentiment *Sentiment `json:"sentiment,omitempty"`
	Topics    []string   `json:"topics,omitempty"`
}

// FinancialSnapshot is the slice of company financials the news agent puts in context.
// Absent amounts decode as zero.
type FinancialSnapshot struct {
	Currency         string          `json:"currency,omitempty"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	NetIncome        decimal.Decimal `json:"netIncome"`
}

// AnalysisRequest is the input of the news agent
type AnalysisRequest struct {
	CompanyName   string             `json:"companyName"`
	Industry      string             `json:"industry"`
	FinancialData *FinancialSnapshot `json:"financialData,omitempty"`
	NewsArticles  []Article          `json:"newsArticles"`
	TargetDate    string             `json:"targetDate"`
	Timeframe     string             `json:"timeframe,omitempty"`
}

// DataPoints is the number of supplied articles
func (r *AnalysisRequest) DataPoints() int {
	if r == nil {
		return 0
	}
	return len(r.NewsArticles)
}
