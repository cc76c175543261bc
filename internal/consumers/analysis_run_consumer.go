package consumers

import (
	"context"
	"encoding/json"
	"time"

	kafkaadapter "github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/kafka"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/events"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// MessageSource delivers raw messages to a handler until ctx is cancelled
type MessageSource interface {
	Consume(ctx context.Context, handler kafkaadapter.MessageHandler) error
	Close() error
}

// RunStore is a buffered run repository
type RunStore interface {
	analysis.RunRepository
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

// AnalysisRunConsumer reads analysis run events from Kafka and writes them to ClickHouse in batches
type AnalysisRunConsumer struct {
	source MessageSource
	runs   RunStore
	log    *logger.Logger
}

// NewAnalysisRunConsumer creates a new analysis run consumer
func NewAnalysisRunConsumer(source MessageSource, runs RunStore) *AnalysisRunConsumer {
	return &AnalysisRunConsumer{
		source: source,
		runs:   runs,
		log:    logger.Get().With("component", "analysis_run_consumer"),
	}
}

// Start consumes until ctx is cancelled, then flushes buffered runs and closes the reader
func (c *AnalysisRunConsumer) Start(ctx context.Context) error {
	c.log.Info("Starting analysis run consumer...")

	c.runs.Start(ctx)

	defer func() {
		if err := c.source.Close(); err != nil {
			c.log.Errorw("Failed to close analysis run consumer", "error", err)
		}
	}()

	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.runs.Stop(stopCtx); err != nil {
			c.log.Errorw("Failed to stop analysis run batch writer", "error", err)
		}
	}()

	err := c.source.Consume(ctx, c.HandleMessage)
	if ctx.Err() != nil {
		c.log.Info("Analysis run consumer stopped")
		return nil
	}
	return err
}

// HandleMessage decodes one run event and buffers the run. Messages whose
// event-type header names another event are skipped without decoding.
func (c *AnalysisRunConsumer) HandleMessage(ctx context.Context, msg kafkaadapter.Message) error {
	switch msg.EventType {
	case "", events.TypeAnalysisCompleted, events.TypeAnalysisFailed:
	default:
		c.log.Debugw("Skipping unrelated event", "event_type", msg.EventType, "offset", msg.Offset)
		return nil
	}

	var event events.AnalysisRunEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return errors.Wrap(err, "unmarshal analysis run event")
	}
	if event.Run == nil {
		return errors.NewValidationError("run", "missing from event", event.ID)
	}

	if event.Run.CreatedAt.IsZero() {
		event.Run.CreatedAt = event.Timestamp
	}

	return c.runs.Store(ctx, event.Run)
}
