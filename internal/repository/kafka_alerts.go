package repository

import (
	"context"

	"NavPull/internal/domain/models"
	drepo "NavPull/internal/domain/repository"
	pkgkafka "NavPull/pkg/kafka"
)

// KafkaAlertPublisher emits escalation events to a Kafka topic, keyed by
// fund name for per-fund ordering.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAlertPublisher creates a Kafka-backed alert publisher.
func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) drepo.AlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

// Publish sends one alert event.
func (p *KafkaAlertPublisher) Publish(ctx context.Context, ev *models.AlertEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Fund), ev)
}

// Close closes the underlying producer.
func (p *KafkaAlertPublisher) Close() error {
	return p.producer.Close()
}
