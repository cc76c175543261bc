package analysis

import (
	"time"

	"github.com/google/uuid"
)

// AgentType selects a specialized agent. The set is closed.
type AgentType string

const (
	AgentFinancial AgentType = "financial"
	AgentEconomic  AgentType = "economic"
	AgentNews      AgentType = "news"

	// AgentComprehensive is orchestration-only and means all three agents
	AgentComprehensive AgentType = "comprehensive"
)

// String returns the string representation
func (t AgentType) String() string {
	return string(t)
}

// Valid reports whether t names one of the three agents
func (t AgentType) Valid() bool {
	switch t {
	case AgentFinancial, AgentEconomic, AgentNews:
		return true
	default:
		return false
	}
}

// AllAgentTypes returns the agent types in a fixed order
func AllAgentTypes() []AgentType {
	return []AgentType{AgentFinancial, AgentEconomic, AgentNews}
}

// Metadata is observability data attached to every result
type Metadata struct {
	AgentType        AgentType `json:"agentType"`
	ProcessingTimeMs int64     `json:"processingTimeMs"`
	DataPoints       *int      `json:"dataPoints,omitempty"`
}

// Result is the outcome of one agent run. Failures carry Error and an empty Analysis.
type Result struct {
	Success  bool      `json:"success"`
	Analysis string    `json:"analysis"`
	Error    string    `json:"error,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// ComprehensiveResult holds one independently tagged result per agent
type ComprehensiveResult struct {
	Financial Result `json:"financial"`
	Economic  Result `json:"economic"`
	News      Result `json:"news"`
}

// Run is the persisted metadata of one analysis. The analysis text is never stored.
type Run struct {
	RunID            uuid.UUID `json:"runId" ch:"run_id"`
	AgentType        string    `json:"agentType" ch:"agent_type"`
	CompanyName      string    `json:"companyName" ch:"company_name"`
	Success          bool      `json:"success" ch:"success"`
	Error            string    `json:"error" ch:"error"`
	ProcessingTimeMs uint32    `json:"processingTimeMs" ch:"processing_time_ms"`
	DataPoints       uint32    `json:"dataPoints" ch:"data_points"`
	Provider         string    `json:"provider" ch:"provider"`
	Model            string    `json:"model" ch:"model"`
	Comprehensive    bool      `json:"comprehensive" ch:"comprehensive"`
	CreatedAt        time.Time `json:"createdAt" ch:"created_at"`
}

// NewRun converts an orchestration result into a run record
func NewRun(companyName string, r Result, provider, model string, comprehensive bool) *Run {
	run := &Run{
		RunID:         uuid.New(),
		CompanyName:   companyName,
		Success:       r.Success,
		Error:         r.Error,
		Provider:      provider,
		Model:         model,
		Comprehensive: comprehensive,
		CreatedAt:     time.Now().UTC(),
	}
	if md := r.Metadata; md != nil {
		run.AgentType = md.AgentType.String()
		if md.ProcessingTimeMs > 0 {
			run.ProcessingTimeMs = uint32(md.ProcessingTimeMs)
		}
		if md.DataPoints != nil && *md.DataPoints > 0 {
			run.DataPoints = uint32(*md.DataPoints)
		}
	}
	return run
}
