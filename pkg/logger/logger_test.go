package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

type captured struct {
	err  error
	tags map[string]string
}

type fakeTracker struct {
	captured []captured
}

func (f *fakeTracker) CaptureError(_ context.Context, err error, tags map[string]string) error {
	f.captured = append(f.captured, captured{err: err, tags: tags})
	return nil
}

func (f *fakeTracker) Flush(context.Context) error { return nil }

func TestErrorw_ForwardsToTracker(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tracker := &fakeTracker{}

	log := New(zap.New(core))
	log.errorTracker = tracker

	child := log.With("component", "orchestrator")
	child.Errorw("Agent failed", "agent", "news", "error", errors.ErrNewsAnalysis)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Agent failed", entry.Message)
	assert.Equal(t, "orchestrator", entry.ContextMap()["component"])

	require.Len(t, tracker.captured, 1)
	assert.True(t, errors.Is(tracker.captured[0].err, errors.ErrNewsAnalysis))
	assert.Equal(t, "news", tracker.captured[0].tags["agent"])
}

func TestErrorw_WithoutTracker(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := New(zap.New(core))

	log.Errorw("plain failure", "attempt", 1)
	log.Debugw("dropped below level")

	assert.Equal(t, 1, logs.Len())
}

func TestInit_FallsBackToInfoOnBadLevel(t *testing.T) {
	require.NoError(t, Init("not-a-level", "development"))
	assert.False(t, Get().Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, Get().Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestErrorw_MessageBecomesErrorWhenNoneGiven(t *testing.T) {
	tracker := &fakeTracker{}
	log := New(zap.NewNop())
	log.errorTracker = tracker

	log.Errorw("cache unreachable", "store", "redis", 7, "ignored")

	require.Len(t, tracker.captured, 1)
	assert.EqualError(t, tracker.captured[0].err, "cache unreachable")
	assert.Equal(t, map[string]string{"component": "logger", "store": "redis"}, tracker.captured[0].tags)
}

func TestInit_KeepsTrackerAcrossReinit(t *testing.T) {
	tracker := &fakeTracker{}
	require.NoError(t, Init("info", "development"))
	SetErrorTracker(tracker)
	t.Cleanup(func() { SetErrorTracker(nil) })

	require.NoError(t, Init("warn", "development"))
	Get().Errorf("boom %d", 1)

	require.Len(t, tracker.captured, 1)
	assert.EqualError(t, tracker.captured[0].err, "boom 1")
}
