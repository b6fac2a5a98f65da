package repository

import (
	"context"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
	drepo "github.com/chaofengh/stock-price-analyze-Backend/internal/domain/repository"
	pkgkafka "github.com/chaofengh/stock-price-analyze-Backend/pkg/kafka"
)

// KafkaAlerts publishes detected events to a Kafka topic, keyed by
// symbol so per-symbol ordering survives partitioning.
type KafkaAlerts struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAlerts creates the sink.
func NewKafkaAlerts(producer *pkgkafka.Producer, topic string) drepo.AlertSink {
	return &KafkaAlerts{producer: producer, topic: topic}
}

type alertMessage struct {
	Sequence uint64       `json:"sequence"`
	Event    models.Event `json:"event"`
}

func (k *KafkaAlerts) PublishEvents(ctx context.Context, sequence uint64, evs []models.Event) error {
	if len(evs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(evs))
	for i, ev := range evs {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(ev.Symbol),
			Value: alertMessage{Sequence: sequence, Event: ev},
		}
	}
	return k.producer.PublishBatch(ctx, k.topic, msgs)
}

func (k *KafkaAlerts) Close() error {
	if k.producer != nil {
		return k.producer.Close()
	}
	return nil
}
