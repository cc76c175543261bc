package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/economic"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

func newEconomicAgent(t *testing.T, client *fakeClient) *EconomicAgent {
	t.Helper()
	ag, err := newTestFactory(t, &fakeSource{def: client}).CreateAgent(analysis.AgentEconomic)
	require.NoError(t, err)
	return ag.(*EconomicAgent)
}

func TestEconomicAgent_BuildPrompt(t *testing.T) {
	ag := newEconomicAgent(t, &fakeClient{})

	prompt, err := ag.BuildPrompt(sampleEconomicRequest())
	require.NoError(t, err)

	assert.Contains(t, prompt, "ACME Corp, a company in the Manufacturing industry")
	assert.Contains(t, prompt, "Economic Context (Q1 2024) - United States:")
	assert.Contains(t, prompt, "- GDP Growth: 2.10%")
	assert.Contains(t, prompt, "- Inflation: 3.40%")
	assert.Contains(t, prompt, "- Unemployment: N/A")
	assert.Contains(t, prompt, "- Federal Funds Rate: 5.25%")
	assert.Contains(t, prompt, "- Prime Rate: 8.50%")
	assert.Contains(t, prompt, "Industry Trends:\n- Reshoring\n- Automation\n")
	assert.Contains(t, prompt, "Market Indices:\n- Dow Jones: 38,900.00\n- NASDAQ: 16,100.75\n- S&P 500: 5,123.40\n")
	assert.Contains(t, prompt, "5. Recommended strategic responses")
}

func TestEconomicAgent_EmptyContext(t *testing.T) {
	ag := newEconomicAgent(t, &fakeClient{})

	prompt, err := ag.BuildPrompt(&economic.AnalysisRequest{})
	require.NoError(t, err)

	assert.Contains(t, prompt, "the company, a company in the unspecified industry")
	assert.Contains(t, prompt, "- GDP Growth: N/A")
	assert.Contains(t, prompt, "- Federal Funds Rate: N/A")
	assert.Contains(t, prompt, "- Prime Rate: N/A")
	assert.Contains(t, prompt, "Industry Trends:\n- None reported\n")
	assert.Contains(t, prompt, "Market Indices:\n- None reported\n")
}

func TestEconomicAgent_ZeroIsNotMissing(t *testing.T) {
	ag := newEconomicAgent(t, &fakeClient{})

	req := sampleEconomicRequest()
	req.EconomicContext.Unemployment = fptr(0)

	prompt, err := ag.BuildPrompt(req)
	require.NoError(t, err)
	assert.Contains(t, prompt, "- Unemployment: 0.00%")
}

func TestEconomicAgent_BuildPromptIsDeterministic(t *testing.T) {
	ag := newEconomicAgent(t, &fakeClient{})

	first, err := ag.BuildPrompt(sampleEconomicRequest())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := ag.BuildPrompt(sampleEconomicRequest())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEconomicAgent_AnalyzeWrapsFailures(t *testing.T) {
	ag := newEconomicAgent(t, &fakeClient{})

	_, err := ag.Analyze(context.Background(), Input{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEconomicAnalysis))
}
