package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/config"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

type stubClient struct {
	key string
}

func (s *stubClient) Provider() ProviderName { return ProviderNameOpenAI }

func (s *stubClient) Chat(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	return &ChatResponse{Model: req.Model, Choices: []Choice{{Message: Message{Content: "key=" + s.key}}}}, nil
}

func stubRegistry() *ConstructorRegistry {
	r := NewConstructorRegistry()
	r.Register(ProviderNameOpenAI, func(_ context.Context, opts ClientOptions) (Client, error) {
		return &stubClient{key: opts.APIKey}, nil
	})
	return r
}

func TestClientProvider_PlaceholderWithoutKey(t *testing.T) {
	p, err := NewClientProviderWithRegistry(context.Background(), config.AIConfig{Provider: "openai"}, stubRegistry())
	require.NoError(t, err)

	assert.Equal(t, ProviderNamePlaceholder, p.Default().Provider())
	assert.Equal(t, "gpt-4o", p.DefaultModel())

	resp, err := p.Default().Chat(context.Background(), ChatRequest{Model: "gpt-4o", Messages: UserPrompt("x")})
	require.NoError(t, err)
	assert.Equal(t, PlaceholderAnalysis, resp.FirstText())
}

func TestClientProvider_DefaultAndOverride(t *testing.T) {
	cfg := config.AIConfig{Provider: "openai", OpenAIKey: "default-key", Model: "gpt-4o-mini"}

	p, err := NewClientProviderWithRegistry(context.Background(), cfg, stubRegistry())
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.DefaultModel())

	resp, err := p.Default().Chat(context.Background(), ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, "key=default-key", resp.FirstText())

	override, err := p.ForKey(context.Background(), "override-key")
	require.NoError(t, err)
	resp, err = override.Chat(context.Background(), ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, "key=override-key", resp.FirstText())
}

func TestClientProvider_MixedCaseProviderUsesItsKey(t *testing.T) {
	r := NewConstructorRegistry()
	r.Register(ProviderNameAnthropic, func(_ context.Context, opts ClientOptions) (Client, error) {
		return &stubClient{key: opts.APIKey}, nil
	})

	cfg := config.AIConfig{Provider: "Claude", ClaudeKey: "sk-ant-real", OpenAIKey: "sk-openai"}
	p, err := NewClientProviderWithRegistry(context.Background(), cfg, r)
	require.NoError(t, err)

	assert.Equal(t, ProviderNameAnthropic, p.ProviderName())
	assert.NotEqual(t, ProviderNamePlaceholder, p.Default().Provider())

	resp, err := p.Default().Chat(context.Background(), ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, "key=sk-ant-real", resp.FirstText())
}

func TestClientProvider_UnsupportedProvider(t *testing.T) {
	_, err := NewClientProvider(context.Background(), config.AIConfig{Provider: "mistral"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBackendNotConfigured))
}

func TestParseProviderName(t *testing.T) {
	assert.Equal(t, ProviderNameAnthropic, ParseProviderName(" Claude "))
	assert.Equal(t, ProviderNameGoogle, ParseProviderName("gemini"))
	assert.Equal(t, ProviderNameOpenAI, ParseProviderName(""))
	assert.Equal(t, ProviderNameDeepSeek, ParseProviderName("deepseek"))
}

func TestPlaceholderClient_Deterministic(t *testing.T) {
	c := NewPlaceholderClient()
	first, err := c.Chat(context.Background(), ChatRequest{Model: "m"})
	require.NoError(t, err)
	second, err := c.Chat(context.Background(), ChatRequest{Model: "m"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, PlaceholderAnalysis, first.FirstText())
}

func TestChatResponse_FirstTextEmpty(t *testing.T) {
	var nilResp *ChatResponse
	assert.Equal(t, "", nilResp.FirstText())
	assert.Equal(t, "", (&ChatResponse{}).FirstText())
}
