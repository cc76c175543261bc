package ai

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

// OpenAIClient talks to the OpenAI chat completions API, or to any
// OpenAI-compatible endpoint (DeepSeek) when a base URL is set.
type OpenAIClient struct {
	client   openai.Client
	provider ProviderName
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client bound to opts.APIKey
func NewOpenAIClient(opts ClientOptions) (*OpenAIClient, error) {
	return newOpenAICompatible(ProviderNameOpenAI, opts)
}

// NewDeepSeekClient creates a client for the OpenAI-compatible DeepSeek API
func NewDeepSeekClient(opts ClientOptions) (*OpenAIClient, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = deepSeekBaseURL
	}
	return newOpenAICompatible(ProviderNameDeepSeek, opts)
}

func newOpenAICompatible(provider ProviderName, opts ClientOptions) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "%s API key not configured", provider)
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

	return &OpenAIClient{
		client:   openai.NewClient(reqOpts...),
		provider: provider,
	}, nil
}

func (c *OpenAIClient) Provider() ProviderName { return c.provider }

// Chat sends a chat completion request.
func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)),
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.Wrapf(err, "%s chat completion", c.provider)
	}

	out := &ChatResponse{
		ID:      resp.ID,
		Model:   resp.Model,
		Choices: make([]Choice, 0, len(resp.Choices)),
		Usage: Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}
	for _, choice := range resp.Choices {
		out.Choices = append(out.Choices, Choice{
			Index:        int(choice.Index),
			Message:      Message{Role: RoleAssistant, Content: choice.Message.Content},
			FinishReason: FinishReason(choice.FinishReason),
		})
	}

	return out, nil
}
