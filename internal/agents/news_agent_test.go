package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/ai"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/news"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

func newNewsAgent(t *testing.T, client *fakeClient) *NewsAgent {
	t.Helper()
	ag, err := newTestFactory(t, &fakeSource{def: client}).CreateAgent(analysis.AgentNews)
	require.NoError(t, err)
	return ag.(*NewsAgent)
}

func TestSortArticles(t *testing.T) {
	sorted := SortArticles(sampleNewsRequest().NewsArticles)

	dates := make([]string, len(sorted))
	for i, a := range sorted {
		dates[i] = a.Date
	}
	assert.Equal(t, []string{"2024-03-01", "2024-02-01", "2024-01-01"}, dates)
}

func TestSortArticles_UndatedLastAndStable(t *testing.T) {
	articles := []news.Article{
		{Title: "a", Date: "not a date"},
		{Title: "b", Date: "2024-02-01T10:00:00Z"},
		{Title: "c"},
		{Title: "d", Date: "2024-02-01"},
		{Title: "e", Date: "2024-02-01"},
	}

	sorted := SortArticles(articles)

	titles := make([]string, len(sorted))
	for i, a := range sorted {
		titles[i] = a.Title
	}
	assert.Equal(t, []string{"b", "d", "e", "a", "c"}, titles)
	assert.Equal(t, "a", articles[0].Title, "input is not reordered")
}

func TestTruncateContent(t *testing.T) {
	long := strings.Repeat("x", 350)
	truncated := TruncateContent(long)
	assert.Equal(t, strings.Repeat("x", 300)+"...", truncated)

	short := strings.Repeat("y", 200)
	assert.Equal(t, short, TruncateContent(short))

	exact := strings.Repeat("z", MaxArticleContent)
	assert.Equal(t, exact, TruncateContent(exact))

	runes := strings.Repeat("é", 301)
	assert.Equal(t, strings.Repeat("é", 300)+"...", TruncateContent(runes))
}

func TestSummarizeArticles(t *testing.T) {
	summary := SummarizeArticles(sampleNewsRequest().NewsArticles)

	march := strings.Index(summary, "[1] March expansion")
	feb := strings.Index(summary, "[2] February recall")
	jan := strings.Index(summary, "[3] January update")
	require.True(t, march >= 0 && feb > march && jan > feb, summary)

	assert.Contains(t, summary, "Source: Daily | Date: 2024-03-01 | Sentiment: positive (score 0.50)")
	assert.Contains(t, summary, "Source: Times | Date: 2024-02-01 | Sentiment: negative (score -0.50)")
	assert.Contains(t, summary, "Source: Wire | Date: 2024-01-01 | Sentiment: neutral (score 0.00)")
	assert.Contains(t, summary, "Sentiment distribution: 1 positive, 1 neutral, 1 negative, 0 unknown")

	assert.Equal(t, "No news articles were supplied.", SummarizeArticles(nil))
}

func TestSummarizeArticles_LabelsAndOptionalFields(t *testing.T) {
	summary := SummarizeArticles([]news.Article{
		{Title: "Labelled", Date: "2024-05-02", Sentiment: &news.Sentiment{Label: news.SentimentNegative}, Topics: []string{"earnings", "guidance"}, URL: "https://example.com/a"},
		{Title: "Bad label", Date: "2024-05-01", Sentiment: &news.Sentiment{Label: "bullish", Score: fptr(0.3)}},
		{Title: "No sentiment", Date: "2024-04-30"},
	})

	assert.Contains(t, summary, "Sentiment: negative\nTopics: earnings, guidance\nURL: https://example.com/a")
	assert.Contains(t, summary, "Sentiment: positive (score 0.30)")
	assert.Contains(t, summary, "Sentiment: unknown")
	assert.Contains(t, summary, "Sentiment distribution: 1 positive, 0 neutral, 1 negative, 1 unknown")
}

func TestFormatFinancialContext(t *testing.T) {
	assert.Equal(t,
		"- Total Assets: $1,250,000.00\n- Total Liabilities: $500,000.00\n- Net Income: $85,000.00",
		FormatFinancialContext(sampleNewsRequest().FinancialData))

	assert.Equal(t,
		"- Total Assets: $0.00\n- Total Liabilities: $0.00\n- Net Income: $0.00",
		FormatFinancialContext(nil))
}

func TestNewsAgent_BuildPrompt(t *testing.T) {
	ag := newNewsAgent(t, &fakeClient{})

	prompt, err := ag.BuildPrompt(sampleNewsRequest())
	require.NoError(t, err)

	assert.Contains(t, prompt, "coverage of ACME Corp (Manufacturing industry) as of 2024-03-31 over the quarter timeframe")
	assert.Contains(t, prompt, "News Articles (3):")
	for i := 1; i <= 8; i++ {
		assert.Contains(t, prompt, "\n"+string(rune('0'+i))+". ")
	}
	assert.Contains(t, prompt, "8. Recommendations for stakeholders")

	again, err := ag.BuildPrompt(sampleNewsRequest())
	require.NoError(t, err)
	assert.Equal(t, prompt, again)
}

func TestNewsAgent_UsesCoolerTemperature(t *testing.T) {
	client := &fakeClient{}
	ag := newNewsAgent(t, client)

	_, err := ag.Analyze(context.Background(), Input{News: sampleNewsRequest()})
	require.NoError(t, err)

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, DefaultNewsTemperature, reqs[0].Temperature)
}

func TestNewsAgent_FailuresAreNewsFailures(t *testing.T) {
	client := &fakeClient{respond: func(ai.ChatRequest) (*ai.ChatResponse, error) {
		return nil, errors.New("connection reset")
	}}
	ag := newNewsAgent(t, client)

	_, err := ag.Analyze(context.Background(), Input{News: sampleNewsRequest()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNewsAnalysis))
	assert.Equal(t, "news analysis failed: analysis generation failed: connection reset", err.Error())

	req := sampleNewsRequest()
	req.NewsArticles[0].Sentiment.Score = fptr(1.5)
	_, err = ag.Analyze(context.Background(), Input{News: req})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNewsAnalysis))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}
