package agents

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/economic"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/financial"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/news"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/metrics"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// Orchestrator runs agents and turns every failure into a result value.
type Orchestrator struct {
	factory *Factory
	log     *logger.Logger
}

// NewOrchestrator creates a new agent orchestrator
func NewOrchestrator(factory *Factory) *Orchestrator {
	return &Orchestrator{
		factory: factory,
		log:     logger.Get().With("component", "orchestrator"),
	}
}

// Run executes the agent of type t. The error return is reserved for contract
// violations (ErrUnknownAgentType); analysis failures are reported in the result.
func (o *Orchestrator) Run(ctx context.Context, t analysis.AgentType, in Input) (analysis.Result, error) {
	start := time.Now()

	ag, err := o.factory.CreateAgent(t)
	if err != nil {
		o.log.Errorw("Refusing to run agent", "agent", t, "error", err)
		return analysis.Result{}, err
	}

	return o.execute(ctx, ag, in, start), nil
}

// AgentConfig returns the configuration agents of type t are created with
func (o *Orchestrator) AgentConfig(t analysis.AgentType) (AgentConfig, bool) {
	return o.factory.Config(t)
}

// RunFinancialAnalysis runs the financial agent
func (o *Orchestrator) RunFinancialAnalysis(ctx context.Context, req *financial.AnalysisRequest) analysis.Result {
	return o.mustRun(ctx, analysis.AgentFinancial, Input{Financial: req})
}

// RunEconomicAnalysis runs the economic agent
func (o *Orchestrator) RunEconomicAnalysis(ctx context.Context, req *economic.AnalysisRequest) analysis.Result {
	return o.mustRun(ctx, analysis.AgentEconomic, Input{Economic: req})
}

// RunNewsAnalysis runs the news agent
func (o *Orchestrator) RunNewsAnalysis(ctx context.Context, req *news.AnalysisRequest) analysis.Result {
	return o.mustRun(ctx, analysis.AgentNews, Input{News: req})
}

type agentResult struct {
	agentType analysis.AgentType
	result    analysis.Result
}

// RunComprehensiveAnalysis runs all three agents concurrently and waits for every one
// of them. A failing agent never cancels or delays the others.
func (o *Orchestrator) RunComprehensiveAnalysis(
	ctx context.Context,
	finReq *financial.AnalysisRequest,
	ecoReq *economic.AnalysisRequest,
	newsReq *news.AnalysisRequest,
) analysis.ComprehensiveResult {
	in := Input{Financial: finReq, Economic: ecoReq, News: newsReq}
	types := analysis.AllAgentTypes()

	o.log.Infof("Starting comprehensive analysis with %d agents", len(types))
	startTime := time.Now()

	var wg sync.WaitGroup
	results := make(chan agentResult, len(types))

	for _, t := range types {
		wg.Add(1)
		go func(t analysis.AgentType) {
			defer wg.Done()
			results <- agentResult{agentType: t, result: o.mustRun(ctx, t, in)}
		}(t)
	}

	wg.Wait()
	close(results)

	var combined analysis.ComprehensiveResult
	succeeded := 0
	for r := range results {
		if r.result.Success {
			succeeded++
		}
		switch r.agentType {
		case analysis.AgentFinancial:
			combined.Financial = r.result
		case analysis.AgentEconomic:
			combined.Economic = r.result
		case analysis.AgentNews:
			combined.News = r.result
		}
	}

	o.log.Infof("Comprehensive analysis complete: %d/%d agents succeeded (duration: %v)",
		succeeded, len(types), time.Since(startTime))

	return combined
}

// mustRun is Run for the built-in types, where an unknown type is a programming error.
func (o *Orchestrator) mustRun(ctx context.Context, t analysis.AgentType, in Input) analysis.Result {
	result, err := o.Run(ctx, t, in)
	if err != nil {
		panic(err)
	}
	return result
}

// execute is the per-agent failure boundary: errors and panics become failed results.
// Cancellation of the caller's context does not abort a started backend call.
func (o *Orchestrator) execute(ctx context.Context, ag Agent, in Input, start time.Time) (result analysis.Result) {
	t := ag.Type()
	ctx = context.WithoutCancel(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			result = o.failure(t, start, errors.Wrapf(errors.ErrInternal, "agent panicked: %v", rec))
		}
	}()

	text, err := ag.Analyze(ctx, in)
	if err != nil {
		return o.failure(t, start, err)
	}

	elapsed := time.Since(start)
	dataPoints := in.DataPoints(t)
	metrics.RecordAgentAnalysis(t.String(), elapsed, dataPoints, nil)

	o.log.Infow("Agent completed",
		"agent", t,
		"model", ag.Config().Model,
		"duration_ms", elapsed.Milliseconds(),
		"data_points", dataPoints,
	)

	return analysis.Result{
		Success:  true,
		Analysis: text,
		Metadata: &analysis.Metadata{
			AgentType:        t,
			ProcessingTimeMs: elapsed.Milliseconds(),
			DataPoints:       &dataPoints,
		},
	}
}

func (o *Orchestrator) failure(t analysis.AgentType, start time.Time, err error) analysis.Result {
	elapsed := time.Since(start)
	metrics.RecordAgentAnalysis(t.String(), elapsed, 0, err)

	o.log.Errorw("Agent failed",
		"agent", t,
		"duration_ms", elapsed.Milliseconds(),
		"error", err,
	)

	msg := err.Error()
	if msg == "" {
		msg = fmt.Sprintf("%s analysis failed", t)
	}

	return analysis.Result{
		Success:  false,
		Analysis: "",
		Error:    msg,
		Metadata: &analysis.Metadata{
			AgentType:        t,
			ProcessingTimeMs: elapsed.Milliseconds(),
		},
	}
}
