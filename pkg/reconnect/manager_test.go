package reconnect

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

func newTestLogger() *logger.Logger {
	zapLog, _ := zap.NewDevelopment()
	return logger.New(zapLog)
}

func TestNewManager_Defaults(t *testing.T) {
	m := NewManager(Config{}, newTestLogger())

	assert.Equal(t, 500*time.Millisecond, m.minBackoff)
	assert.Equal(t, 30*time.Second, m.maxBackoff)
	assert.Equal(t, 2.0, m.backoffMultiplier)
	assert.Equal(t, 10, m.maxRetries)
	assert.Equal(t, time.Minute, m.circuitResetAfter)
	assert.Equal(t, 500*time.Millisecond, m.GetBackoff())
}

func TestManager_BackoffGrowsAndCaps(t *testing.T) {
	m := NewManager(Config{
		MinBackoff:        time.Second,
		MaxBackoff:        5 * time.Second,
		BackoffMultiplier: 2,
		MaxRetries:        -1,
	}, newTestLogger())

	m.RecordFailure()
	assert.Equal(t, 2*time.Second, m.GetBackoff())
	m.RecordFailure()
	assert.Equal(t, 4*time.Second, m.GetBackoff())
	m.RecordFailure()
	assert.Equal(t, 5*time.Second, m.GetBackoff())

	stats := m.GetStats()
	assert.Equal(t, 3, stats.ConsecutiveFailures)
	assert.False(t, stats.CircuitOpen)
	assert.True(t, m.ShouldRetry())
}

func TestManager_CircuitOpensAndResets(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManager(Config{MaxRetries: 2, CircuitResetAfter: time.Minute}, newTestLogger())
	m.now = func() time.Time { return now }

	m.RecordFailure()
	assert.True(t, m.ShouldRetry())
	m.RecordFailure()
	assert.False(t, m.ShouldRetry())
	assert.True(t, m.GetStats().CircuitOpen)

	now = now.Add(time.Minute)
	assert.True(t, m.ShouldRetry())

	m.RecordSuccess()
	stats := m.GetStats()
	assert.False(t, stats.CircuitOpen)
	assert.Zero(t, stats.ConsecutiveFailures)
	assert.Equal(t, 1, stats.TotalRecoveries)
	assert.Equal(t, 500*time.Millisecond, stats.CurrentBackoff)
}

func TestManager_Wait(t *testing.T) {
	m := NewManager(Config{MinBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, MaxRetries: 2}, newTestLogger())

	require.NoError(t, m.Wait(context.Background()))
	assert.ErrorIs(t, m.Wait(context.Background()), ErrCircuitOpen)
}

func TestManager_WaitCancelled(t *testing.T) {
	m := NewManager(Config{MinBackoff: time.Hour, MaxBackoff: time.Hour, MaxRetries: -1}, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Wait(ctx), context.Canceled)
}
