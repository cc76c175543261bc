package events

import (
	"context"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// Producer is the subset of the Kafka producer the publisher needs
type Producer interface {
	Publish(ctx context.Context, topic string, key string, event interface{}) error
}

// Compile-time check
var _ analysis.RunPublisher = (*Publisher)(nil)

// Publisher publishes analysis events to Kafka
type Publisher struct {
	producer Producer
	topic    string
	source   string
	log      *logger.Logger
}

// NewPublisher creates a new event publisher for the runs topic
func NewPublisher(producer Producer, topic, source string) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		source:   source,
		log:      logger.Get().With("component", "event_publisher"),
	}
}

// PublishRun emits one event per run, keyed by agent type so runs of the same
// agent keep their order.
func (p *Publisher) PublishRun(ctx context.Context, run *analysis.Run) error {
	if run == nil {
		return errors.NewValidationError("run", "is required", nil)
	}

	event := NewAnalysisRunEvent(p.source, run)
	if err := p.producer.Publish(ctx, p.topic, run.AgentType, event); err != nil {
		return errors.Wrapf(err, "publish %s", event.Type)
	}

	p.log.Debugw("Published analysis run", "run_id", run.RunID, "type", event.Type)
	return nil
}
