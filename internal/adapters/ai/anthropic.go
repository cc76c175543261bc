package ai

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

// anthropicDefaultMaxTokens is used when the request leaves MaxTokens unset; the Messages API requires it.
const anthropicDefaultMaxTokens = 4096

// anthropicMaxTemperature is the upper bound the Messages API accepts
const anthropicMaxTemperature = 1.0

// AnthropicClient talks to the Claude Messages API
type AnthropicClient struct {
	client anthropic.Client
}

var _ Client = (*AnthropicClient)(nil)

// NewAnthropicClient creates a client bound to opts.APIKey
func NewAnthropicClient(opts ClientOptions) (*AnthropicClient, error) {
	if opts.APIKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "anthropic API key not configured")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}

	return &AnthropicClient{client: anthropic.NewClient(reqOpts...)}, nil
}

func (c *AnthropicClient) Provider() ProviderName { return ProviderNameAnthropic }

// Chat sends a Messages API request. System messages are lifted into the system prompt.
func (c *AnthropicClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(clampAnthropicTemperature(req.Temperature)),
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: msg.Content})
		case RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "anthropic messages")
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	out := &ChatResponse{
		ID:    resp.ID,
		Model: string(resp.Model),
		Usage: Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}
	if text.Len() > 0 {
		out.Choices = []Choice{{
			Message:      Message{Role: RoleAssistant, Content: text.String()},
			FinishReason: anthropicFinishReason(string(resp.StopReason)),
		}}
	}

	return out, nil
}

func anthropicFinishReason(stop string) FinishReason {
	if stop == "max_tokens" {
		return FinishReasonLength
	}
	return FinishReasonStop
}

func clampAnthropicTemperature(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > anthropicMaxTemperature:
		return anthropicMaxTemperature
	default:
		return t
	}
}
