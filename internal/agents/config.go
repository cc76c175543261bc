package agents

import (
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

// Generation defaults
const (
	DefaultTemperature     = 0.7
	DefaultNewsTemperature = 0.4
	DefaultMaxTokens       = 2000

	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// AgentConfig captures runtime settings for an agent instance. It is copied into
// each agent and never modified afterwards.
type AgentConfig struct {
	Type           analysis.AgentType
	Name           string
	PromptTemplate string

	// Model is resolved from the backend defaults when empty.
	Model       string
	Temperature float64
	MaxTokens   int

	// APIKey overrides the process-wide backend credential for this agent only.
	APIKey string
}

// Validate checks the generation parameters are within sane bounds
func (c AgentConfig) Validate() error {
	if c.Temperature < MinTemperature || c.Temperature > MaxTemperature {
		return errors.NewValidationError("temperature", "must be within [0, 2]", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return errors.NewValidationError("maxTokens", "must be positive", c.MaxTokens)
	}
	return nil
}

// DefaultAgentConfigs returns a fresh copy of the built-in agent settings.
// News runs cooler than the others since it should stick to the reported facts.
func DefaultAgentConfigs() map[analysis.AgentType]AgentConfig {
	return map[analysis.AgentType]AgentConfig{
		analysis.AgentFinancial: {
			Type:           analysis.AgentFinancial,
			Name:           "FinancialAnalyst",
			PromptTemplate: "agents/financial",
			Temperature:    DefaultTemperature,
			MaxTokens:      DefaultMaxTokens,
		},
		analysis.AgentEconomic: {
			Type:           analysis.AgentEconomic,
			Name:           "EconomicAnalyst",
			PromptTemplate: "agents/economic",
			Temperature:    DefaultTemperature,
			MaxTokens:      DefaultMaxTokens,
		},
		analysis.AgentNews: {
			Type:           analysis.AgentNews,
			Name:           "NewsAnalyst",
			PromptTemplate: "agents/news",
			Temperature:    DefaultNewsTemperature,
			MaxTokens:      DefaultMaxTokens,
		},
	}
}

// Overrides adjusts the built-in configs from process configuration.
// Empty strings, non-positive token limits and nil temperatures leave the default in place.
// A temperature of zero is a valid override.
type Overrides struct {
	Model           string
	Temperature     *float64
	NewsTemperature *float64
	MaxTokens       int
	APIKeys         map[string]string
}

// Apply returns configs with the overrides applied
func (o Overrides) Apply(configs map[analysis.AgentType]AgentConfig) map[analysis.AgentType]AgentConfig {
	out := make(map[analysis.AgentType]AgentConfig, len(configs))
	for t, cfg := range configs {
		if o.Model != "" {
			cfg.Model = o.Model
		}
		if o.MaxTokens > 0 {
			cfg.MaxTokens = o.MaxTokens
		}
		switch {
		case t == analysis.AgentNews && o.NewsTemperature != nil:
			cfg.Temperature = *o.NewsTemperature
		case t != analysis.AgentNews && o.Temperature != nil:
			cfg.Temperature = *o.Temperature
		}
		if key := o.APIKeys[t.String()]; key != "" {
			cfg.APIKey = key
		}
		out[t] = cfg
	}
	return out
}
