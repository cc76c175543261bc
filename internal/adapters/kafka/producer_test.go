package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type typedEvent struct {
	Type string `json:"type"`
}

func (e typedEvent) EventType() string { return e.Type }

func TestEncodeMessage(t *testing.T) {
	msg, err := encodeMessage("analysis.runs", "news", typedEvent{Type: "analysis.completed"})
	require.NoError(t, err)

	assert.Equal(t, "analysis.runs", msg.Topic)
	assert.Equal(t, []byte("news"), msg.Key)
	assert.JSONEq(t, `{"type":"analysis.completed"}`, string(msg.Value))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, map[string]string{
		headerContentType: "application/json",
		headerEventType:   "analysis.completed",
	}, headers)
}

func TestEncodeMessage_UntypedAndInvalid(t *testing.T) {
	msg, err := encodeMessage("t", "k", map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Len(t, msg.Headers, 1)

	_, err = encodeMessage("t", "k", make(chan int))
	assert.Error(t, err)
}

func TestToMessage_ReadsEventTypeHeader(t *testing.T) {
	raw, err := encodeMessage("analysis.runs", "economic", typedEvent{Type: "analysis.failed"})
	require.NoError(t, err)
	raw.Offset = 42

	msg := toMessage(raw)
	assert.Equal(t, "analysis.failed", msg.EventType)
	assert.Equal(t, int64(42), msg.Offset)
	assert.Equal(t, []byte("economic"), msg.Key)
}
