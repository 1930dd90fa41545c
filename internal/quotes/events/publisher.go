package events

import (
	"context"
	"fmt"
	"time"

	"houseboat/pkg/kafka"
	kafka_config "houseboat/pkg/kafka/config"
	kafka_middleware "houseboat/pkg/kafka/middleware"
	"houseboat/pkg/logger"
	"houseboat/pkg/middleware"
	"houseboat/pkg/model"
)

// Publisher announces computed quotes.
type Publisher interface {
	Publish(ctx context.Context, result *model.QuoteResult) error
	Close() error
}

// messagePublisher is the part of kafka.Producer the publisher uses.
type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer messagePublisher
	now      func() time.Time
}

// NewPublisher returns a Kafka backed publisher, or a no-op one when
// publishing is disabled.
func NewPublisher(cfg *kafka_config.Config, log *logger.Logger) (Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		log.Info("Quote event publishing disabled")
		return NoopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(cfg, cfg.QuotesTopic, cfg.QuotesDLQTopic, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create quotes producer: %w", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware())

	log.Info("Quote event publishing enabled", "topic", producer.Topic())
	return newKafkaPublisher(producer), nil
}

func newKafkaPublisher(p messagePublisher) *kafkaPublisher {
	return &kafkaPublisher{producer: p, now: time.Now}
}

func (p *kafkaPublisher) Publish(ctx context.Context, result *model.QuoteResult) error {
	msg, err := NewQuoteComputed(result, p.now()).Message(middleware.RequestID(ctx))
	if err != nil {
		return fmt.Errorf("failed to build quote event: %w", err)
	}
	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *model.QuoteResult) error { return nil }

func (NoopPublisher) Close() error { return nil }
