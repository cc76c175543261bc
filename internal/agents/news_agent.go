package agents

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/news"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/templates"
)

// MaxArticleContent is the number of characters of article body kept in the prompt
const MaxArticleContent = 300

const ellipsis = "..."

var articleDateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// NewsAgent weighs recent coverage against the company's financial position
type NewsAgent struct {
	BaseAgent
	templates *templates.Registry
}

// Analyze summarizes the articles, renders the prompt and generates the report.
// Every failure is reported as a news analysis failure.
func (a *NewsAgent) Analyze(ctx context.Context, in Input) (string, error) {
	prompt, err := a.BuildPrompt(in.News)
	if err != nil {
		return "", errors.WrapKind(errors.ErrNewsAnalysis, err)
	}

	text, err := a.GenerateAnalysis(ctx, prompt)
	if err != nil {
		return "", errors.WrapKind(errors.ErrNewsAnalysis, err)
	}

	return text, nil
}

// BuildPrompt renders the news prompt
func (a *NewsAgent) BuildPrompt(req *news.AnalysisRequest) (string, error) {
	if req == nil {
		return "", errors.NewValidationError("newsArticles", "request is required", nil)
	}
	if err := req.Validate(); err != nil {
		return "", err
	}

	return a.templates.Render(a.config.PromptTemplate, newsPromptData{
		CompanyName:      orDefault(req.CompanyName, "the company"),
		Industry:         orDefault(req.Industry, "unspecified"),
		TargetDate:       orDefault(req.TargetDate, "the latest available date"),
		Timeframe:        req.Timeframe,
		FinancialContext: FormatFinancialContext(req.FinancialData),
		ArticleCount:     len(req.NewsArticles),
		Articles:         SummarizeArticles(req.NewsArticles),
	})
}

type newsPromptData struct {
	CompanyName      string
	Industry         string
	TargetDate       string
	Timeframe        string
	FinancialContext string
	ArticleCount     int
	Articles         string
}

// SortArticles returns a copy ordered most recent first. Equal dates keep input
// order and undated or unparseable articles go last.
func SortArticles(articles []news.Article) []news.Article {
	type dated struct {
		article news.Article
		at      time.Time
		ok      bool
	}

	items := make([]dated, len(articles))
	for i, a := range articles {
		at, ok := parseArticleDate(a.Date)
		items[i] = dated{article: a, at: at, ok: ok}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok && items[j].ok {
			return items[i].at.After(items[j].at)
		}
		return items[i].ok && !items[j].ok
	})

	sorted := make([]news.Article, len(items))
	for i, it := range items {
		sorted[i] = it.article
	}
	return sorted
}

func parseArticleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range articleDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TruncateContent cuts content to MaxArticleContent characters and appends an ellipsis.
// Shorter content is returned unchanged.
func TruncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= MaxArticleContent {
		return content
	}
	return string(runes[:MaxArticleContent]) + ellipsis
}

// SummarizeArticles renders the sorted article list with resolved sentiment labels.
func SummarizeArticles(articles []news.Article) string {
	if len(articles) == 0 {
		return "No news articles were supplied."
	}

	sorted := SortArticles(articles)
	counts := make(map[news.SentimentLabel]int, 4)

	var b strings.Builder
	for i, a := range sorted {
		label := a.Sentiment.ResolveLabel()
		counts[label]++

		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s\n", i+1, a.Title)
		fmt.Fprintf(&b, "Source: %s | Date: %s | Sentiment: %s", a.Source, a.Date, label)
		if a.Sentiment != nil && a.Sentiment.Score != nil {
			fmt.Fprintf(&b, " (score %.2f)", *a.Sentiment.Score)
		}
		if len(a.Topics) > 0 {
			fmt.Fprintf(&b, "\nTopics: %s", strings.Join(a.Topics, ", "))
		}
		if a.URL != "" {
			fmt.Fprintf(&b, "\nURL: %s", a.URL)
		}
		fmt.Fprintf(&b, "\nContent: %s", TruncateContent(a.Content))
	}

	fmt.Fprintf(&b, "\n\nSentiment distribution: %d positive, %d neutral, %d negative, %d unknown",
		counts[news.SentimentPositive],
		counts[news.SentimentNeutral],
		counts[news.SentimentNegative],
		counts[news.SentimentUnknown],
	)

	return b.String()
}

// FormatFinancialContext renders total assets, total liabilities and net income.
// A missing snapshot or missing amounts render as zero.
func FormatFinancialContext(data *news.FinancialSnapshot) string {
	var snapshot news.FinancialSnapshot
	if data != nil {
		snapshot = *data
	}

	return fmt.Sprintf("- Total Assets: %s\n- Total Liabilities: %s\n- Net Income: %s",
		templates.FormatCurrency(snapshot.TotalAssets, snapshot.Currency),
		templates.FormatCurrency(snapshot.TotalLiabilities, snapshot.Currency),
		templates.FormatCurrency(snapshot.NetIncome, snapshot.Currency),
	)
}
