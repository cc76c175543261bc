package agents

import (
	"context"
	"sort"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/economic"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/templates"
)

// EconomicAgent relates the macro environment to a company and its industry
type EconomicAgent struct {
	BaseAgent
	templates *templates.Registry
}

// Analyze renders the macro prompt and generates the report.
func (a *EconomicAgent) Analyze(ctx context.Context, in Input) (string, error) {
	prompt, err := a.BuildPrompt(in.Economic)
	if err != nil {
		return "", errors.WrapKind(errors.ErrEconomicAnalysis, err)
	}

	text, err := a.GenerateAnalysis(ctx, prompt)
	if err != nil {
		return "", errors.WrapKind(errors.ErrEconomicAnalysis, err)
	}

	return text, nil
}

// BuildPrompt renders the economic prompt. Absent figures print as "N/A".
func (a *EconomicAgent) BuildPrompt(req *economic.AnalysisRequest) (string, error) {
	if req == nil {
		return "", errors.NewValidationError("economicContext", "is required", nil)
	}

	return a.templates.Render(a.config.PromptTemplate, newEconomicPromptData(req))
}

type economicPromptData struct {
	CompanyName  string
	Industry     string
	Period       string
	Region       string
	GDPGrowth    string
	Inflation    string
	Unemployment string
	FederalRate  string
	PrimeRate    string
	Trends       []string
	Indices      []PromptLine
}

func newEconomicPromptData(req *economic.AnalysisRequest) economicPromptData {
	c := req.EconomicContext

	data := economicPromptData{
		CompanyName:  orDefault(req.CompanyName, "the company"),
		Industry:     orDefault(req.Industry, "unspecified"),
		Period:       c.Period,
		Region:       c.Region,
		GDPGrowth:    templates.FormatPercent(c.GDPGrowth),
		Inflation:    templates.FormatPercent(c.Inflation),
		Unemployment: templates.FormatPercent(c.Unemployment),
		FederalRate:  templates.FormatPercent(nil),
		PrimeRate:    templates.FormatPercent(nil),
		Trends:       c.IndustryTrends,
		Indices:      FormatIndices(c.MarketIndices),
	}
	if c.InterestRates != nil {
		data.FederalRate = templates.FormatPercent(c.InterestRates.Federal)
		data.PrimeRate = templates.FormatPercent(c.InterestRates.Prime)
	}

	return data
}

// FormatIndices renders index levels sorted by name so prompts are reproducible
func FormatIndices(indices map[string]float64) []PromptLine {
	names := make([]string, 0, len(indices))
	for name := range indices {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]PromptLine, 0, len(names))
	for _, name := range names {
		lines = append(lines, PromptLine{Label: name, Value: templates.FormatNumber(indices[name])})
	}
	return lines
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
