package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/metrics"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/reconnect"
)

// Consumer handles Kafka message consumption
type Consumer struct {
	reader  *kafka.Reader
	topic   string
	retries *reconnect.Manager
	log     *logger.Logger
}

// ConsumerConfig holds consumer configuration
type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int
	Retry    reconnect.Config
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(cfg ConsumerConfig) *Consumer {
	if cfg.MinBytes == 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10e6 // 10MB
	}

	log := logger.Get().With("component", "kafka_consumer", "topic", cfg.Topic)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		StartOffset: kafka.FirstOffset,
	})

	log.Infow("Kafka consumer created",
		"brokers", cfg.Brokers,
		"group_id", cfg.GroupID,
	)

	return &Consumer{
		reader:  reader,
		topic:   cfg.Topic,
		retries: reconnect.NewManager(cfg.Retry, log),
		log:     log,
	}
}

// Message is a consumed record with the headers the producer sets already decoded
type Message struct {
	Key       []byte
	Value     []byte
	EventType string
	Offset    int64
}

// MessageHandler processes one message
type MessageHandler func(ctx context.Context, msg Message) error

func toMessage(m kafka.Message) Message {
	out := Message{Key: m.Key, Value: m.Value, Offset: m.Offset}
	for _, h := range m.Headers {
		if h.Key == headerEventType {
			out.EventType = string(h.Value)
		}
	}
	return out
}

// Consume reads messages until ctx is cancelled. Handler errors are logged and
// the message is skipped. Read errors back off and give up once the retry circuit opens.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	c.log.Info("Starting consumer...")

	for {
		msg, err := c.ReadMessageWithShutdownCheck(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.log.Info("Consumer stopped")
				return ctx.Err()
			}
			c.log.Errorw("Failed to read message", "error", err)
			if werr := c.retries.Wait(ctx); werr != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.Wrapf(err, "consumer for %s gave up", c.topic)
			}
			continue
		}
		c.retries.RecordSuccess()

		in := toMessage(msg)
		err = handler(ctx, in)
		metrics.RecordKafkaMessage(c.topic, "in", err)
		if err != nil {
			c.log.Errorw("Failed to handle message",
				"key", string(in.Key),
				"event_type", in.EventType,
				"offset", in.Offset,
				"error", err,
			)
		}
	}
}

// ReadMessageWithShutdownCheck returns ctx.Err() instead of blocking once shutdown was requested.
func (c *Consumer) ReadMessageWithShutdownCheck(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	default:
	}

	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return kafka.Message{}, ctx.Err()
		}
		return kafka.Message{}, err
	}

	return msg, nil
}

// Close closes the consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
