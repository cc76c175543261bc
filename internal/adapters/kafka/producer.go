package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/metrics"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

const (
	headerContentType = "content-type"
	headerEventType   = "event-type"
)

// Typed events carry their type into a message header so consumers can route
// without decoding the payload.
type Typed interface {
	EventType() string
}

// ProducerConfig holds producer configuration
type ProducerConfig struct {
	Brokers      []string
	BatchTimeout time.Duration
	RequireAll   bool
}

// Producer writes JSON events to any topic through one shared writer
type Producer struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewProducer creates a producer. The topic is chosen per message.
func NewProducer(cfg ProducerConfig) *Producer {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 50 * time.Millisecond
	}

	acks := kafka.RequireOne
	if cfg.RequireAll {
		acks = kafka.RequireAll
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.Hash{},
			BatchTimeout:           batchTimeout,
			RequiredAcks:           acks,
			AllowAutoTopicCreation: true,
		},
		log: logger.Get().With("component", "kafka_producer"),
	}
}

// Publish JSON-encodes event and writes it keyed by key. Messages with the
// same key land on the same partition.
func (p *Producer) Publish(ctx context.Context, topic string, key string, event interface{}) error {
	msg, err := encodeMessage(topic, key, event)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, msg)
	metrics.RecordKafkaMessage(topic, "out", err)
	if err != nil {
		p.log.Errorw("Failed to publish", "topic", topic, "key", key, "error", err)
		return errors.Wrapf(err, "write to %s", topic)
	}

	p.log.Debugw("Published", "topic", topic, "key", key)
	return nil
}

// Close flushes pending batches and closes the writer
func (p *Producer) Close() error {
	stats := p.writer.Stats()
	p.log.Infow("Closing producer", "messages", stats.Messages, "errors", stats.Errors)
	return p.writer.Close()
}

func encodeMessage(topic, key string, event interface{}) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, errors.Wrapf(err, "encode event for %s", topic)
	}

	headers := []kafka.Header{{Key: headerContentType, Value: []byte("application/json")}}
	if typed, ok := event.(Typed); ok {
		headers = append(headers, kafka.Header{Key: headerEventType, Value: []byte(typed.EventType())})
	}

	return kafka.Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   data,
		Headers: headers,
	}, nil
}
