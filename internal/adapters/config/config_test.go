package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, 0.7, cfg.AI.Temperature)
	assert.Equal(t, 2000, cfg.AI.MaxTokens)
	assert.Equal(t, 90*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 0.4, cfg.AI.NewsTemperature)
	assert.Empty(t, cfg.AI.Key())
}

func TestLoad_AgentKeys(t *testing.T) {
	t.Setenv("AI_AGENT_API_KEYS", "news:sk-news,economic:sk-eco")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"news": "sk-news", "economic": "sk-eco"}, cfg.AI.AgentKeys)
}

func TestLoad_ProviderKeySelection(t *testing.T) {
	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("CLAUDE_API_KEY", "sk-ant-test")
	t.Setenv("OPENAI_API_KEY", "sk-openai-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-test", cfg.AI.Key())
}

func TestAIConfig_KeyIgnoresCaseAndAliases(t *testing.T) {
	base := AIConfig{
		OpenAIKey:   "sk-openai",
		ClaudeKey:   "sk-ant",
		DeepSeekKey: "sk-ds",
		GeminiKey:   "sk-gem",
	}

	tests := []struct {
		provider string
		want     string
	}{
		{"Claude", "sk-ant"},
		{"Anthropic", "sk-ant"},
		{" gemini", "sk-gem"},
		{"GOOGLE", "sk-gem"},
		{"DeepSeek", "sk-ds"},
		{"OpenAI", "sk-openai"},
		{"", "sk-openai"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := base
			cfg.Provider = tt.provider
			assert.Equal(t, tt.want, cfg.Key())
		})
	}
}

func TestLoad_MixedCaseProviderKey(t *testing.T) {
	t.Setenv("AI_PROVIDER", "Claude")
	t.Setenv("CLAUDE_API_KEY", "sk-ant-test")
	t.Setenv("OPENAI_API_KEY", "sk-openai-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-test", cfg.AI.Key())
}

func TestLoad_InfrastructureToggles(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Postgres.Enabled())
	assert.Contains(t, cfg.Postgres.DSN(), "host=db.internal port=5432")
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		HTTP: HTTPConfig{Port: 8080},
		AI:   AIConfig{Temperature: 3.5, MaxTokens: 0},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "AI_TEMPERATURE")
	assert.Contains(t, err.Error(), "AI_MAX_TOKENS")

	cfg.AI = AIConfig{Temperature: 0.4, MaxTokens: 500}
	assert.NoError(t, cfg.Validate())
}
