package agents

import (
	"context"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/economic"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/financial"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/news"
)

// Agent is one of FinancialAgent, EconomicAgent or NewsAgent. The variant is chosen
// by the factory and each agent reads only its own field of Input.
type Agent interface {
	Type() analysis.AgentType
	Config() AgentConfig
	Analyze(ctx context.Context, in Input) (string, error)
}

// Input is a tagged record with one request per agent variant.
type Input struct {
	Financial *financial.AnalysisRequest
	Economic  *economic.AnalysisRequest
	News      *news.AnalysisRequest
}

// DataPoints counts the data supplied for the given agent; nil requests count zero.
func (in Input) DataPoints(t analysis.AgentType) int {
	switch t {
	case analysis.AgentFinancial:
		return in.Financial.DataPoints()
	case analysis.AgentEconomic:
		return in.Economic.DataPoints()
	case analysis.AgentNews:
		return in.News.DataPoints()
	default:
		return 0
	}
}

// CompanyName returns the company named by the request for the given agent
func (in Input) CompanyName(t analysis.AgentType) string {
	switch {
	case t == analysis.AgentFinancial && in.Financial != nil:
		return in.Financial.CompanyName
	case t == analysis.AgentEconomic && in.Economic != nil:
		return in.Economic.CompanyName
	case t == analysis.AgentNews && in.News != nil:
		return in.News.CompanyName
	default:
		return ""
	}
}
