package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"resume-builder/internal/shared/telemetry"
)

// DefaultReconcileTopic receives events that need manual reconciliation.
const DefaultReconcileTopic = "billing.reconciliation"

// Flag describes an event that could not be applied automatically.
type Flag struct {
	EventID   string    `json:"eventId"`
	EventType EventType `json:"eventType"`
	Operation Operation `json:"operation,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Reason    string    `json:"reason"`
	FlaggedAt time.Time `json:"flaggedAt"`
}

// Flagger records events for manual reconciliation.
type Flagger interface {
	Flag(ctx context.Context, f Flag) error
}

// LogFlagger writes flags to the structured log.
type LogFlagger struct{}

func (LogFlagger) Flag(_ context.Context, f Flag) error {
	telemetry.Warn("billing.reconcile_flagged", map[string]any{
		"event_id":   f.EventID,
		"event_type": string(f.EventType),
		"operation":  string(f.Operation),
		"user_id":    f.UserID,
		"reason":     f.Reason,
	})
	return nil
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaFlagger publishes flags to a Kafka topic keyed by event id.
type KafkaFlagger struct {
	writer messageWriter
}

// NewKafkaFlagger creates a flagger writing to topic on the given brokers.
func NewKafkaFlagger(brokers []string, topic string) (*KafkaFlagger, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if topic == "" {
		topic = DefaultReconcileTopic
	}
	return &KafkaFlagger{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}}, nil
}

func (k *KafkaFlagger) Flag(ctx context.Context, f Flag) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal reconcile flag: %w", err)
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(f.EventID), Value: payload}); err != nil {
		return fmt.Errorf("publish reconcile flag: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (k *KafkaFlagger) Close() error {
	if k == nil || k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
