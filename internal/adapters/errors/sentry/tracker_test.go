package sentry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

func TestTracker_EmptyDSNIsInert(t *testing.T) {
	tracker, err := New(Options{Environment: "test", SampleRate: 5})
	require.NoError(t, err)

	assert.NoError(t, tracker.CaptureError(context.Background(), errors.ErrNewsAnalysis, map[string]string{"agent": "news"}))
	assert.NoError(t, tracker.CaptureError(context.Background(), nil, nil))
}
