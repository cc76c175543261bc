package ai

import (
	"context"
	"time"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/metrics"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// instrumentedClient records latency, token usage and failures for every backend call.
type instrumentedClient struct {
	next Client
	log  *logger.Logger
}

// Instrument wraps a client with metrics and debug logging
func Instrument(next Client) Client {
	return &instrumentedClient{
		next: next,
		log:  logger.Get().With("component", "ai_client", "provider", next.Provider().String()),
	}
}

func (c *instrumentedClient) Provider() ProviderName { return c.next.Provider() }

func (c *instrumentedClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	start := time.Now()
	resp, err := c.next.Chat(ctx, req)
	latency := time.Since(start)

	var usage Usage
	if resp != nil {
		usage = resp.Usage
	}
	metrics.RecordBackendRequest(c.next.Provider().String(), req.Model, latency, usage.PromptTokens, usage.CompletionTokens, err)

	if err != nil {
		c.log.Warnw("Backend request failed",
			"model", req.Model,
			"latency_ms", latency.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	c.log.Debugw("Backend request completed",
		"model", req.Model,
		"latency_ms", latency.Milliseconds(),
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
	)

	return resp, nil
}
