package reconnect

import (
	"context"
	"sync"
	"time"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// ErrCircuitOpen is returned once too many consecutive failures were recorded
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Manager paces retries of a failing connection with exponential backoff and
// opens a circuit after MaxRetries consecutive failures.
// Safe for concurrent use.
type Manager struct {
	minBackoff        time.Duration
	maxBackoff        time.Duration
	backoffMultiplier float64
	maxRetries        int
	circuitResetAfter time.Duration

	mu                  sync.Mutex
	currentBackoff      time.Duration
	consecutiveFailures int
	totalRecoveries     int
	circuitOpen         bool
	circuitOpenedAt     time.Time

	now    func() time.Time
	logger *logger.Logger
}

// Config configures the reconnect manager
type Config struct {
	MinBackoff        time.Duration // Initial backoff (e.g. 500ms)
	MaxBackoff        time.Duration // Max backoff (e.g. 30s)
	BackoffMultiplier float64       // Multiplier for exponential backoff (e.g. 2.0)
	MaxRetries        int           // Consecutive failures before opening the circuit (negative = unlimited)
	CircuitResetAfter time.Duration // How long the circuit stays open (e.g. 1min)
}

// NewManager creates a new reconnect manager with sensible defaults
func NewManager(config Config, log *logger.Logger) *Manager {
	if config.MinBackoff == 0 {
		config.MinBackoff = 500 * time.Millisecond
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = 30 * time.Second
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = 2.0
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 10
	}
	if config.CircuitResetAfter == 0 {
		config.CircuitResetAfter = time.Minute
	}

	return &Manager{
		minBackoff:        config.MinBackoff,
		maxBackoff:        config.MaxBackoff,
		backoffMultiplier: config.BackoffMultiplier,
		maxRetries:        config.MaxRetries,
		circuitResetAfter: config.CircuitResetAfter,
		currentBackoff:    config.MinBackoff,
		now:               time.Now,
		logger:            log,
	}
}

// ShouldRetry reports whether another attempt is allowed. An open circuit
// allows one attempt again after CircuitResetAfter.
func (m *Manager) ShouldRetry() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.circuitOpen {
		return m.now().Sub(m.circuitOpenedAt) >= m.circuitResetAfter
	}
	return true
}

// GetBackoff returns current backoff duration
func (m *Manager) GetBackoff() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentBackoff
}

// RecordFailure records a failed attempt and grows the backoff
func (m *Manager) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.consecutiveFailures++

	next := time.Duration(float64(m.currentBackoff) * m.backoffMultiplier)
	if next > m.maxBackoff {
		next = m.maxBackoff
	}
	m.currentBackoff = next

	if m.maxRetries > 0 && m.consecutiveFailures >= m.maxRetries && !m.circuitOpen {
		m.circuitOpen = true
		m.circuitOpenedAt = m.now()

		m.logger.Errorw("Circuit breaker opened after consecutive failures",
			"consecutive_failures", m.consecutiveFailures,
			"circuit_reset_after", m.circuitResetAfter,
		)
	}
}

// RecordSuccess resets backoff and closes the circuit
func (m *Manager) RecordSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.consecutiveFailures == 0 {
		return
	}

	m.logger.Infow("Connection recovered, resetting backoff",
		"previous_consecutive_failures", m.consecutiveFailures,
	)

	m.currentBackoff = m.minBackoff
	m.consecutiveFailures = 0
	m.totalRecoveries++
	m.circuitOpen = false
	m.circuitOpenedAt = time.Time{}
}

// Stats contains reconnection statistics
type Stats struct {
	ConsecutiveFailures int
	TotalRecoveries     int
	CurrentBackoff      time.Duration
	CircuitOpen         bool
}

// GetStats returns current reconnect manager stats
func (m *Manager) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		ConsecutiveFailures: m.consecutiveFailures,
		TotalRecoveries:     m.totalRecoveries,
		CurrentBackoff:      m.currentBackoff,
		CircuitOpen:         m.circuitOpen,
	}
}

// Wait records a failure and sleeps for the backoff. It returns ErrCircuitOpen
// when no retry is allowed and ctx.Err() when ctx ends first.
func (m *Manager) Wait(ctx context.Context) error {
	m.RecordFailure()

	if !m.ShouldRetry() {
		return ErrCircuitOpen
	}

	backoff := m.GetBackoff()
	timer := time.NewTimer(backoff)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
