package economic

// InterestRates holds the policy and prime rates in percent
type InterestRates struct {
	Federal *float64 `json:"federal,omitempty"`
	Prime   *float64 `json:"prime,omitempty"`
}

// Context is the macro-economic backdrop of an analysis. Scalars are percentages;
// a nil value means the figure was not supplied.
type Context struct {
	Period         string             `json:"period,omitempty"`
	Region         string             `json:"region,omitempty"`
	GDPGrowth      *float64           `json:"gdpGrowth,omitempty"`
	Inflation      *float64           `json:"inflation,omitempty"`
	Unemployment   *float64           `json:"unemployment,omitempty"`
	InterestRates  *InterestRates     `json:"interestRates,omitempty"`
	IndustryTrends []string           `json:"industryTrends,omitempty"`
	MarketIndices  map[string]float64 `json:"marketIndices,omitempty"`
}

// AnalysisRequest is the input of the economic agent
type AnalysisRequest struct {
	CompanyName     string  `json:"companyName"`
	Industry        string  `json:"industry"`
	EconomicContext Context `json:"economicContext"`
}

// DataPoints counts defined scalars, defined rates, trends and indices
func (r *AnalysisRequest) DataPoints() int {
	if r == nil {
		return 0
	}

	c := r.EconomicContext
	count := len(c.IndustryTrends) + len(c.MarketIndices)
	for _, v := range []*float64{c.GDPGrowth, c.Inflation, c.Unemployment} {
		if v != nil {
			count++
		}
	}
	if c.InterestRates != nil {
		if c.InterestRates.Federal != nil {
			count++
		}
		if c.InterestRates.Prime != nil {
			count++
		}
	}
	return count
}
