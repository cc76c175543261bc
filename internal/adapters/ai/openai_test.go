package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_Chat(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Solid balance sheet."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16}
		}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(ClientOptions{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	resp, err := client.Chat(context.Background(), ChatRequest{
		Model:       "gpt-4o",
		Messages:    UserPrompt("Analyze ACME"),
		Temperature: 0.4,
		MaxTokens:   1500,
	})
	require.NoError(t, err)

	assert.Equal(t, "Solid balance sheet.", resp.FirstText())
	assert.Equal(t, 16, resp.Usage.TotalTokens)
	assert.Equal(t, FinishReasonStop, resp.Choices[0].FinishReason)

	assert.Equal(t, "gpt-4o", captured["model"])
	assert.EqualValues(t, 1500, captured["max_tokens"])
	assert.EqualValues(t, 0.4, captured["temperature"])

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	first := messages[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "Analyze ACME", first["content"])
}

func TestOpenAIClient_SingleAttemptOnFailure(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "upstream down", "type": "server_error"}}`))
	}))
	defer srv.Close()

	client, err := NewDeepSeekClient(ClientOptions{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	assert.Equal(t, ProviderNameDeepSeek, client.Provider())

	_, err = client.Chat(context.Background(), ChatRequest{Model: "deepseek-chat", Messages: UserPrompt("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deepseek chat completion")
	assert.EqualValues(t, 1, calls.Load())
}

func TestOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(ClientOptions{})
	assert.Error(t, err)
}
