package economic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataPoints(t *testing.T) {
	payload := `{
		"companyName": "ACME",
		"industry": "Manufacturing",
		"economicContext": {
			"period": "Q1 2024",
			"gdpGrowth": 2.1,
			"inflation": 3.4,
			"interestRates": {"federal": 5.25},
			"industryTrends": ["reshoring", "automation"],
			"marketIndices": {"S&P 500": 5100.2, "NASDAQ": 16000}
		}
	}`

	var req AnalysisRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	// 2 scalars + 1 rate + 2 trends + 2 indices
	assert.Equal(t, 7, req.DataPoints())
}

func TestDataPoints_ZeroIsDefined(t *testing.T) {
	zero := 0.0
	req := &AnalysisRequest{EconomicContext: Context{Unemployment: &zero}}
	assert.Equal(t, 1, req.DataPoints())
}

func TestDataPoints_Empty(t *testing.T) {
	var nilReq *AnalysisRequest
	assert.Equal(t, 0, nilReq.DataPoints())
	assert.Equal(t, 0, (&AnalysisRequest{}).DataPoints())
	assert.Equal(t, 0, (&AnalysisRequest{EconomicContext: Context{InterestRates: &InterestRates{}}}).DataPoints())
}
