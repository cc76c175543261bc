package agents

import (
	"fmt"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/templates"
)

// FactoryDeps gathers external dependencies needed to instantiate agents.
type FactoryDeps struct {
	Clients   ClientSource
	Templates *templates.Registry

	// Configs replaces DefaultAgentConfigs when set.
	Configs map[analysis.AgentType]AgentConfig
}

// Factory creates a fresh agent per call. It holds no per-request state.
type Factory struct {
	clients   ClientSource
	templates *templates.Registry
	configs   map[analysis.AgentType]AgentConfig
}

// NewFactory builds an agent factory with required dependencies.
func NewFactory(deps FactoryDeps) (*Factory, error) {
	if deps.Clients == nil {
		return nil, fmt.Errorf("client source is required")
	}

	if deps.Templates == nil {
		deps.Templates = templates.Get()
	}

	configs := deps.Configs
	if configs == nil {
		configs = DefaultAgentConfigs()
	}

	resolved := make(map[analysis.AgentType]AgentConfig, len(configs))
	for _, t := range analysis.AllAgentTypes() {
		cfg, ok := configs[t]
		if !ok {
			return nil, fmt.Errorf("config for agent %s is missing", t)
		}
		if cfg.Model == "" {
			cfg.Model = deps.Clients.DefaultModel()
		}
		if err := cfg.Validate(); err != nil {
			return nil, errors.Wrapf(err, "agent %s", t)
		}
		if _, err := deps.Templates.Lookup(cfg.PromptTemplate); err != nil {
			return nil, errors.Wrapf(err, "agent %s", t)
		}
		resolved[t] = cfg
	}

	return &Factory{clients: deps.Clients, templates: deps.Templates, configs: resolved}, nil
}

// CreateAgent returns a new agent for the type. Types outside the closed set
// fail with ErrUnknownAgentType.
func (f *Factory) CreateAgent(t analysis.AgentType) (Agent, error) {
	cfg, ok := f.configs[t]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownAgentType, "%q", t)
	}

	base := newBaseAgent(cfg, f.clients)

	switch t {
	case analysis.AgentFinancial:
		return &FinancialAgent{BaseAgent: base, templates: f.templates}, nil
	case analysis.AgentEconomic:
		return &EconomicAgent{BaseAgent: base, templates: f.templates}, nil
	case analysis.AgentNews:
		return &NewsAgent{BaseAgent: base, templates: f.templates}, nil
	default:
		return nil, errors.Wrapf(errors.ErrUnknownAgentType, "%q", t)
	}
}

// Config returns the resolved configuration for an agent type
func (f *Factory) Config(t analysis.AgentType) (AgentConfig, bool) {
	cfg, ok := f.configs[t]
	return cfg, ok
}
