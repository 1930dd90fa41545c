package kafka_middleware

import (
	"context"
	"time"

	"houseboat/pkg/kafka"
	"houseboat/pkg/metrics"
)

const (
	directionPublish = "publish"
	directionConsume = "consume"
)

// MetricsProducerMiddleware records publish counts and latency.
func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		observe(directionPublish, msg.Topic, start, err)
		return err
	}
}

// MetricsConsumerMiddleware records handled message counts and latency.
func MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		observe(directionConsume, msg.Topic, start, err)
		return err
	}
}

func observe(direction, topic string, start time.Time, err error) {
	status := metrics.StatusOK
	if err != nil {
		status = metrics.StatusError
	}
	metrics.KafkaMessages.WithLabelValues(direction, topic, status).Inc()
	metrics.KafkaDuration.WithLabelValues(direction, topic).Observe(time.Since(start).Seconds())
}
