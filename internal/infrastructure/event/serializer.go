package event

import (
	"fmt"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Envelope is the wire form of a domain event leaving the process.
// Payload carries the full event as marshalled from its concrete type.
type Envelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	ActorID       *uuid.UUID      `json:"actor_id,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// Serialize wraps an event in an Envelope and encodes it
func Serialize(event shared.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", event.EventType(), err)
	}
	env := Envelope{
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		TenantID:      event.TenantID(),
		OccurredAt:    event.OccurredAt().UTC(),
		Payload:       payload,
	}
	if actor, ok := event.(shared.ActorEvent); ok {
		env.ActorID = actor.Actor()
	}
	return json.Marshal(env)
}

// Deserialize decodes an Envelope. The payload is left raw for the consumer
// to unmarshal into the type it expects for EventType.
func Deserialize(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	if env.EventType == "" {
		return nil, fmt.Errorf("envelope has no event type")
	}
	return &env, nil
}
