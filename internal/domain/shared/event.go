package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate. Events are routed by
// EventType and always carry the owning organization so handlers never
// cross tenants.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// ActorEvent is implemented by events that know which user caused them
type ActorEvent interface {
	Actor() *uuid.UUID
}

// BaseDomainEvent is embedded by concrete events. The JSON layout is the
// envelope forwarded to Kafka and stored in the analytics event log.
type BaseDomainEvent struct {
	ID            uuid.UUID  `json:"id"`
	Type          string     `json:"type"`
	Timestamp     time.Time  `json:"timestamp"`
	AggID         uuid.UUID  `json:"aggregate_id"`
	AggType       string     `json:"aggregate_type"`
	TenantIDValue uuid.UUID  `json:"tenant_id"`
	ActorID       *uuid.UUID `json:"actor_id,omitempty"`
}

func NewBaseDomainEvent(eventType, aggType string, aggID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:            uuid.New(),
		Type:          eventType,
		Timestamp:     time.Now(),
		AggID:         aggID,
		AggType:       aggType,
		TenantIDValue: tenantID,
	}
}

// NewActorDomainEvent is NewBaseDomainEvent attributed to actorID.
// uuid.Nil leaves the actor unset.
func NewActorDomainEvent(eventType, aggType string, aggID, tenantID, actorID uuid.UUID) BaseDomainEvent {
	e := NewBaseDomainEvent(eventType, aggType, aggID, tenantID)
	if actorID != uuid.Nil {
		e.ActorID = &actorID
	}
	return e
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.Timestamp }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.AggID }
func (e *BaseDomainEvent) AggregateType() string  { return e.AggType }
func (e *BaseDomainEvent) TenantID() uuid.UUID    { return e.TenantIDValue }
func (e *BaseDomainEvent) Actor() *uuid.UUID      { return e.ActorID }
