package analytics

import (
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeKPI    = "KPI"
	AggregateTypeReport = "Report"
)

// EventTypeKPIAlertRaised is raised when a measurement creates an alert
const EventTypeKPIAlertRaised = "KPIAlertRaised"

// KPIAlertRaisedEvent carries the alert to stream subscribers
type KPIAlertRaisedEvent struct {
	shared.BaseDomainEvent
	AlertID   uuid.UUID       `json:"alert_id"`
	KPICode   string          `json:"kpi_code"`
	KPIName   string          `json:"kpi_name"`
	Severity  AlertSeverity   `json:"severity"`
	Value     decimal.Decimal `json:"value"`
	Threshold decimal.Decimal `json:"threshold"`
	Message   string          `json:"message"`
}

// NewKPIAlertRaisedEvent creates a new KPIAlertRaisedEvent
func NewKPIAlertRaisedEvent(k *KPI, a *KPIAlert) *KPIAlertRaisedEvent {
	return &KPIAlertRaisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeKPIAlertRaised, AggregateTypeKPI, k.ID, k.TenantID),
		AlertID:         a.ID,
		KPICode:         k.Code,
		KPIName:         k.Name,
		Severity:        a.Severity,
		Value:           a.Value,
		Threshold:       a.Threshold,
		Message:         a.Message,
	}
}

// EventType returns the event type name
func (e *KPIAlertRaisedEvent) EventType() string {
	return EventTypeKPIAlertRaised
}
