package analytics

import (
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertSeverity is the level of a threshold breach
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// IsValid checks if the severity is valid
func (s AlertSeverity) IsValid() bool {
	return s == SeverityWarning || s == SeverityCritical
}

// AlertStatus represents the handling state of an alert
type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "active"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
	AlertStatusDismissed    AlertStatus = "dismissed"
)

// IsValid checks if the status is valid
func (s AlertStatus) IsValid() bool {
	switch s {
	case AlertStatusActive, AlertStatusAcknowledged, AlertStatusResolved, AlertStatusDismissed:
		return true
	}
	return false
}

// IsOpen returns true while the alert still needs attention
func (s AlertStatus) IsOpen() bool {
	return s == AlertStatusActive || s == AlertStatusAcknowledged
}

// String returns the string representation
func (s AlertStatus) String() string {
	return string(s)
}

// KPIAlert is raised when a KPI measurement breaches a threshold
type KPIAlert struct {
	shared.TenantAggregateRoot
	KPIID          uuid.UUID
	Severity       AlertSeverity
	Status         AlertStatus
	Value          decimal.Decimal
	Threshold      decimal.Decimal
	Message        string
	TriggeredAt    time.Time
	AcknowledgedBy *uuid.UUID
	AcknowledgedAt *time.Time
	ResolvedBy     *uuid.UUID
	ResolvedAt     *time.Time
	DismissedBy    *uuid.UUID
	DismissedAt    *time.Time
}

func newKPIAlert(k *KPI, severity AlertSeverity, value, threshold decimal.Decimal, at time.Time) *KPIAlert {
	return &KPIAlert{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(k.TenantID),
		KPIID:               k.ID,
		Severity:            severity,
		Status:              AlertStatusActive,
		Value:               value,
		Threshold:           threshold,
		Message:             alertMessage(k, severity, value, threshold),
		TriggeredAt:         at,
	}
}

// Acknowledge marks an active alert as seen
func (a *KPIAlert) Acknowledge(userID uuid.UUID) error {
	if a.Status != AlertStatusActive {
		return shared.InvalidTransition("acknowledge alert", a.Status)
	}
	now := time.Now()
	a.Status = AlertStatusAcknowledged
	a.AcknowledgedBy = &userID
	a.AcknowledgedAt = &now
	a.touch()
	return nil
}

// Resolve closes an open alert once the underlying issue is fixed
func (a *KPIAlert) Resolve(userID uuid.UUID) error {
	if !a.Status.IsOpen() {
		return shared.InvalidTransition("resolve alert", a.Status)
	}
	now := time.Now()
	a.Status = AlertStatusResolved
	a.ResolvedBy = &userID
	a.ResolvedAt = &now
	a.touch()
	return nil
}

// Dismiss closes an open alert without action
func (a *KPIAlert) Dismiss(userID uuid.UUID) error {
	if !a.Status.IsOpen() {
		return shared.InvalidTransition("dismiss alert", a.Status)
	}
	now := time.Now()
	a.Status = AlertStatusDismissed
	a.DismissedBy = &userID
	a.DismissedAt = &now
	a.touch()
	return nil
}

func (a *KPIAlert) touch() {
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}
