package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

func TestFactory_CreateAgentDefaults(t *testing.T) {
	f := newTestFactory(t, &fakeSource{def: &fakeClient{}, model: "gpt-4o"})

	tests := []struct {
		agentType   analysis.AgentType
		temperature float64
	}{
		{analysis.AgentFinancial, 0.7},
		{analysis.AgentEconomic, 0.7},
		{analysis.AgentNews, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.agentType.String(), func(t *testing.T) {
			ag, err := f.CreateAgent(tt.agentType)
			require.NoError(t, err)

			assert.Equal(t, tt.agentType, ag.Type())
			assert.Equal(t, "gpt-4o", ag.Config().Model)
			assert.Equal(t, tt.temperature, ag.Config().Temperature)
			assert.Equal(t, DefaultMaxTokens, ag.Config().MaxTokens)
			assert.Empty(t, ag.Config().APIKey)
		})
	}
}

func TestFactory_CreateAgentVariants(t *testing.T) {
	f := newTestFactory(t, &fakeSource{def: &fakeClient{}})

	fin, err := f.CreateAgent(analysis.AgentFinancial)
	require.NoError(t, err)
	assert.IsType(t, &FinancialAgent{}, fin)

	eco, err := f.CreateAgent(analysis.AgentEconomic)
	require.NoError(t, err)
	assert.IsType(t, &EconomicAgent{}, eco)

	nws, err := f.CreateAgent(analysis.AgentNews)
	require.NoError(t, err)
	assert.IsType(t, &NewsAgent{}, nws)

	again, err := f.CreateAgent(analysis.AgentNews)
	require.NoError(t, err)
	assert.NotSame(t, nws, again, "agents are never reused")
}

func TestFactory_UnknownAgentType(t *testing.T) {
	f := newTestFactory(t, &fakeSource{def: &fakeClient{}})

	for _, at := range []analysis.AgentType{"legal", "", analysis.AgentComprehensive} {
		ag, err := f.CreateAgent(at)
		require.Error(t, err, at)
		assert.Nil(t, ag)
		assert.True(t, errors.Is(err, errors.ErrUnknownAgentType))
	}
}

func TestFactory_ConfigOverrides(t *testing.T) {
	temperature, newsTemperature := 0.9, 0.2
	overrides := Overrides{
		Model:           "claude-sonnet",
		Temperature:     &temperature,
		NewsTemperature: &newsTemperature,
		MaxTokens:       1200,
		APIKeys:         map[string]string{"economic": "sk-economic"},
	}

	f, err := NewFactory(FactoryDeps{
		Clients: &fakeSource{def: &fakeClient{}},
		Configs: overrides.Apply(DefaultAgentConfigs()),
	})
	require.NoError(t, err)

	fin, _ := f.Config(analysis.AgentFinancial)
	assert.Equal(t, "claude-sonnet", fin.Model)
	assert.Equal(t, 0.9, fin.Temperature)
	assert.Equal(t, 1200, fin.MaxTokens)
	assert.Empty(t, fin.APIKey)

	nws, _ := f.Config(analysis.AgentNews)
	assert.Equal(t, 0.2, nws.Temperature)

	eco, _ := f.Config(analysis.AgentEconomic)
	assert.Equal(t, "sk-economic", eco.APIKey)
}

func TestOverrides_ZeroTemperatureIsApplied(t *testing.T) {
	zero := 0.0
	configs := Overrides{Temperature: &zero, NewsTemperature: &zero}.Apply(DefaultAgentConfigs())

	assert.Zero(t, configs[analysis.AgentFinancial].Temperature)
	assert.Zero(t, configs[analysis.AgentEconomic].Temperature)
	assert.Zero(t, configs[analysis.AgentNews].Temperature)
}

func TestOverrides_NilTemperatureKeepsDefaults(t *testing.T) {
	configs := Overrides{}.Apply(DefaultAgentConfigs())

	assert.Equal(t, DefaultTemperature, configs[analysis.AgentFinancial].Temperature)
	assert.Equal(t, DefaultNewsTemperature, configs[analysis.AgentNews].Temperature)
	assert.Equal(t, DefaultMaxTokens, configs[analysis.AgentEconomic].MaxTokens)
}

func TestNewFactory_Validation(t *testing.T) {
	_, err := NewFactory(FactoryDeps{})
	assert.Error(t, err)

	configs := DefaultAgentConfigs()
	bad := configs[analysis.AgentNews]
	bad.Temperature = 2.5
	configs[analysis.AgentNews] = bad

	_, err = NewFactory(FactoryDeps{Clients: &fakeSource{def: &fakeClient{}}, Configs: configs})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	configs = DefaultAgentConfigs()
	delete(configs, analysis.AgentEconomic)
	_, err = NewFactory(FactoryDeps{Clients: &fakeSource{def: &fakeClient{}}, Configs: configs})
	assert.Error(t, err)

	configs = DefaultAgentConfigs()
	missing := configs[analysis.AgentFinancial]
	missing.PromptTemplate = "agents/does_not_exist"
	configs[analysis.AgentFinancial] = missing
	_, err = NewFactory(FactoryDeps{Clients: &fakeSource{def: &fakeClient{}}, Configs: configs})
	assert.Error(t, err)
}
