package analytics

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

// AnalyticsEvent is an append-only record of something that happened to an entity
type AnalyticsEvent struct {
	shared.TenantRecord
	EventType  string
	EntityType string
	EntityID   *uuid.UUID
	UserID     *uuid.UUID
	Properties map[string]any
	IPAddress  string
	UserAgent  string
	OccurredAt time.Time
}

// NewAnalyticsEvent validates and creates an event
func NewAnalyticsEvent(tenantID uuid.UUID, eventType, entityType string, entityID, userID *uuid.UUID, properties map[string]any, occurredAt time.Time) (*AnalyticsEvent, error) {
	eventType = strings.TrimSpace(eventType)
	v := &shared.ValidationError{}
	if eventType == "" {
		v.Add("event_type", "Event type is required")
	} else if len(eventType) > 100 {
		v.Add("event_type", "Event type cannot exceed 100 characters")
	}
	if entityID != nil && strings.TrimSpace(entityType) == "" {
		v.Add("entity_type", "Entity type is required with an entity id")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	if properties == nil {
		properties = map[string]any{}
	}
	return &AnalyticsEvent{
		TenantRecord: shared.NewTenantRecord(tenantID),
		EventType:    eventType,
		EntityType:   strings.TrimSpace(entityType),
		EntityID:     entityID,
		UserID:       userID,
		Properties:   properties,
		OccurredAt:   occurredAt,
	}, nil
}

// WithClient sets the request origin of a client-side event
func (e *AnalyticsEvent) WithClient(ip, userAgent string) *AnalyticsEvent {
	e.IPAddress = ip
	if len(userAgent) > 500 {
		userAgent = userAgent[:500]
	}
	e.UserAgent = userAgent
	return e
}

// FromDomainEvent records a domain event under its own type name
func FromDomainEvent(evt shared.DomainEvent, properties map[string]any) *AnalyticsEvent {
	id := evt.AggregateID()
	e := &AnalyticsEvent{
		TenantRecord: shared.NewTenantRecord(evt.TenantID()),
		EventType:    evt.EventType(),
		EntityType:   evt.AggregateType(),
		EntityID:     &id,
		Properties:   properties,
		OccurredAt:   evt.OccurredAt(),
	}
	if ae, ok := evt.(shared.ActorEvent); ok {
		e.UserID = ae.Actor()
	}
	if e.Properties == nil {
		e.Properties = map[string]any{}
	}
	return e
}

// EventCount is one row of an event summary
type EventCount struct {
	EventType string `json:"event_type"`
	Count     int64  `json:"count"`
}
