package analysis

import (
	"context"
	"time"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/agents"
	domain "github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/economic"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/financial"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/news"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// DefaultTransactionWindow is how far back AnalyzeCompany loads transactions.
// The window ends with the as-of day, so transactions booked on that day are included.
const DefaultTransactionWindow = 90 * 24 * time.Hour

const publishTimeout = 5 * time.Second

// Deps gathers the service collaborators. Statements and Publisher are optional.
type Deps struct {
	Orchestrator *agents.Orchestrator
	Statements   financial.Repository
	Publisher    domain.RunPublisher
	Provider     string
}

// Service is the application entry point for analyses. It records every run
// as an event and can assemble financial requests from stored statements.
type Service struct {
	orchestrator *agents.Orchestrator
	statements   financial.Repository
	publisher    domain.RunPublisher
	provider     string
	log          *logger.Logger
}

// NewService creates a new analysis service
func NewService(deps Deps) (*Service, error) {
	if deps.Orchestrator == nil {
		return nil, errors.New("orchestrator is required")
	}

	return &Service{
		orchestrator: deps.Orchestrator,
		statements:   deps.Statements,
		publisher:    deps.Publisher,
		provider:     deps.Provider,
		log:          logger.Get().With("component", "analysis_service"),
	}, nil
}

// CompanyAnalysisRequest selects stored statements for a financial analysis
type CompanyAnalysisRequest struct {
	CompanyID string
	AsOf      time.Time

	// TransactionWindow defaults to DefaultTransactionWindow
	TransactionWindow time.Duration
}

// Financial runs the financial agent on a caller-supplied request
func (s *Service) Financial(ctx context.Context, req *financial.AnalysisRequest) domain.Result {
	result := s.orchestrator.RunFinancialAnalysis(ctx, req)
	s.record(ctx, domain.AgentFinancial, agents.Input{Financial: req}.CompanyName(domain.AgentFinancial), result, false)
	return result
}

// Economic runs the economic agent
func (s *Service) Economic(ctx context.Context, req *economic.AnalysisRequest) domain.Result {
	result := s.orchestrator.RunEconomicAnalysis(ctx, req)
	s.record(ctx, domain.AgentEconomic, agents.Input{Economic: req}.CompanyName(domain.AgentEconomic), result, false)
	return result
}

// News runs the news agent
func (s *Service) News(ctx context.Context, req *news.AnalysisRequest) domain.Result {
	result := s.orchestrator.RunNewsAnalysis(ctx, req)
	s.record(ctx, domain.AgentNews, agents.Input{News: req}.CompanyName(domain.AgentNews), result, false)
	return result
}

// Comprehensive runs all three agents concurrently
func (s *Service) Comprehensive(
	ctx context.Context,
	finReq *financial.AnalysisRequest,
	ecoReq *economic.AnalysisRequest,
	newsReq *news.AnalysisRequest,
) domain.ComprehensiveResult {
	combined := s.orchestrator.RunComprehensiveAnalysis(ctx, finReq, ecoReq, newsReq)

	in := agents.Input{Financial: finReq, Economic: ecoReq, News: newsReq}
	s.record(ctx, domain.AgentFinancial, in.CompanyName(domain.AgentFinancial), combined.Financial, true)
	s.record(ctx, domain.AgentEconomic, in.CompanyName(domain.AgentEconomic), combined.Economic, true)
	s.record(ctx, domain.AgentNews, in.CompanyName(domain.AgentNews), combined.News, true)

	return combined
}

// AnalyzeCompany builds a financial request from stored statements and runs it.
// Data loading failures are returned as errors; analysis failures are in the result.
func (s *Service) AnalyzeCompany(ctx context.Context, req CompanyAnalysisRequest) (domain.Result, error) {
	if s.statements == nil {
		return domain.Result{}, errors.Wrap(errors.ErrUnavailable, "company data store is not configured")
	}
	if req.CompanyID == "" {
		return domain.Result{}, errors.NewValidationError("companyId", "is required", nil)
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	window := req.TransactionWindow
	if window <= 0 {
		window = DefaultTransactionWindow
	}

	name, err := s.statements.CompanyName(ctx, req.CompanyID)
	if err != nil {
		return domain.Result{}, err
	}

	bs, err := s.statements.LatestBalanceSheet(ctx, req.CompanyID, asOf)
	if err != nil {
		return domain.Result{}, err
	}

	until := endOfDay(asOf)
	txs, err := s.statements.Transactions(ctx, req.CompanyID, until.Add(-window), until)
	if err != nil {
		return domain.Result{}, err
	}

	s.log.Infow("Analyzing stored statements",
		"company_id", req.CompanyID,
		"as_of", bs.Date,
		"transactions", len(txs),
	)

	return s.Financial(ctx, &financial.AnalysisRequest{
		CompanyName:  name,
		BalanceSheet: bs,
		Transactions: txs,
	}), nil
}

// record publishes run metadata. Publishing never affects the result returned to the caller.
func (s *Service) record(ctx context.Context, t domain.AgentType, company string, result domain.Result, comprehensive bool) {
	if s.publisher == nil {
		return
	}

	model := ""
	if cfg, ok := s.orchestrator.AgentConfig(t); ok {
		model = cfg.Model
	}

	run := domain.NewRun(company, result, s.provider, model, comprehensive)
	if run.AgentType == "" {
		run.AgentType = t.String()
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.PublishRun(pubCtx, run); err != nil {
		s.log.Warnw("Failed to publish analysis run", "agent", t, "run_id", run.RunID, "error", err)
	}
}

// endOfDay returns the start of the day after t, in t's location
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
