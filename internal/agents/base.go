package agents

import (
	"context"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/ai"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// NoAnalysisFallback is returned when the backend answers without any content.
const NoAnalysisFallback = "No analysis could be generated."

// ClientSource supplies backend clients to agents
type ClientSource interface {
	// Default returns the process-wide client
	Default() ai.Client

	// ForKey returns a client bound to the given credential
	ForKey(ctx context.Context, apiKey string) (ai.Client, error)

	// DefaultModel is used when an agent config leaves Model empty
	DefaultModel() string
}

// BaseAgent holds the shared generation settings and the single capability
// of turning a prompt into analysis text.
type BaseAgent struct {
	config  AgentConfig
	clients ClientSource
	log     *logger.Logger
}

func newBaseAgent(cfg AgentConfig, clients ClientSource) BaseAgent {
	return BaseAgent{
		config:  cfg,
		clients: clients,
		log:     logger.Get().With("component", "agent", "agent", cfg.Type.String()),
	}
}

// Type returns the agent type
func (b *BaseAgent) Type() analysis.AgentType { return b.config.Type }

// Config returns a copy of the agent's configuration
func (b *BaseAgent) Config() AgentConfig { return b.config }

// GenerateAnalysis sends the prompt as a single user message and returns the first choice.
func (b *BaseAgent) GenerateAnalysis(ctx context.Context, prompt string) (string, error) {
	client, err := b.client(ctx)
	if err != nil {
		return "", errors.WrapKind(errors.ErrAnalysisGeneration, err)
	}

	resp, err := client.Chat(ctx, ai.ChatRequest{
		Model:       b.config.Model,
		Messages:    ai.UserPrompt(prompt),
		Temperature: b.config.Temperature,
		MaxTokens:   b.config.MaxTokens,
	})
	if err != nil {
		return "", errors.WrapKind(errors.ErrAnalysisGeneration, err)
	}

	text := resp.FirstText()
	if text == "" {
		b.log.Warnw("Backend returned no content", "model", b.config.Model, "provider", client.Provider())
		return NoAnalysisFallback, nil
	}

	return text, nil
}

func (b *BaseAgent) client(ctx context.Context) (ai.Client, error) {
	if b.config.APIKey != "" {
		return b.clients.ForKey(ctx, b.config.APIKey)
	}
	return b.clients.Default(), nil
}
