package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/config"
	sdk "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the subset of kafka-go's Writer used for forwarding
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...sdk.Message) error
	Close() error
}

// KafkaForwarder subscribes to every domain event on the bus and forwards it
// to a Kafka topic. Messages are keyed by aggregate ID so events of one
// aggregate keep their order within a partition.
type KafkaForwarder struct {
	writer MessageWriter
	logger *zap.Logger
}

// NewKafkaWriter builds a kafka-go Writer from configuration
func NewKafkaWriter(cfg config.KafkaConfig) (*sdk.Writer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	return &sdk.Writer{
		Addr:         sdk.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &sdk.Hash{},
		RequiredAcks: sdk.RequireOne,
		BatchTimeout: cfg.BatchTimeout,
	}, nil
}

// NewKafkaForwarder creates a forwarder writing through w
func NewKafkaForwarder(w MessageWriter, logger *zap.Logger) *KafkaForwarder {
	return &KafkaForwarder{writer: w, logger: logger}
}

// Handle serializes the event into an Envelope and writes it
func (f *KafkaForwarder) Handle(ctx context.Context, event shared.DomainEvent) error {
	value, err := Serialize(event)
	if err != nil {
		return err
	}
	msg := sdk.Message{
		Key:   []byte(event.AggregateID().String()),
		Value: value,
		Headers: []sdk.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
			{Key: "tenant_id", Value: []byte(event.TenantID().String())},
		},
		Time: event.OccurredAt(),
	}
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to forward %s to kafka: %w", event.EventType(), err)
	}
	f.logger.Debug("event forwarded",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
	)
	return nil
}

// EventTypes returns nil so the forwarder receives every event
func (f *KafkaForwarder) EventTypes() []string {
	return nil
}

// Close flushes pending messages and closes the writer
func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}

var _ shared.EventHandler = (*KafkaForwarder)(nil)
