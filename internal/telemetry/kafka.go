package telemetry

import (
	"context"
	"encoding/json"
	"log/slog"

	"authflow/internal/platform/kafka/producer"
	"authflow/pkg/requestcontext"
)

// Publisher is the subset of producer.Producer the Kafka sink uses.
type Publisher interface {
	ProduceAsync(msg *producer.Message) error
}

// Kafka publishes events as JSON records keyed by attempt id.
type Kafka struct {
	publisher Publisher
	topic     string
	logger    *slog.Logger
}

func NewKafka(publisher Publisher, topic string, logger *slog.Logger) *Kafka {
	if logger == nil {
		logger = slog.Default()
	}
	return &Kafka{publisher: publisher, topic: topic, logger: logger}
}

func (k *Kafka) Record(ctx context.Context, e Event) {
	if e.RequestID == "" {
		e.RequestID = requestcontext.RequestID(ctx)
	}
	value, err := json.Marshal(e)
	if err != nil {
		k.logger.ErrorContext(ctx, "failed to encode telemetry event", "event", e.Name, "error", err)
		return
	}
	msg := &producer.Message{
		Topic:   k.topic,
		Key:     []byte(e.AttemptID),
		Value:   value,
		Headers: map[string]string{"event": e.Name},
	}
	if err := k.publisher.ProduceAsync(msg); err != nil {
		k.logger.WarnContext(ctx, "failed to publish telemetry event", "event", e.Name, "error", err)
	}
}
