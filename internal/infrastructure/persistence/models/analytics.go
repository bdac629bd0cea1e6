package models

import (
	"time"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportModel is the persistence model for saved reports.
type ReportModel struct {
	TenantAggregateModel
	Name        string                 `gorm:"type:varchar(200);not null"`
	Description string                 `gorm:"type:text"`
	ReportType  analytics.ReportType   `gorm:"type:varchar(30);not null;index"`
	Parameters  string                 `gorm:"type:jsonb;default:'{}'"`
	Schedule    analytics.Schedule     `gorm:"type:varchar(20);not null;default:'none'"`
	NextRunAt   *time.Time             `gorm:"index"`
	LastRunAt   *time.Time
	Status      analytics.RecordStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (ReportModel) TableName() string {
	return "reports"
}

// ToDomain converts the persistence model to a domain Report.
func (m *ReportModel) ToDomain() *analytics.Report {
	r := &analytics.Report{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Description:         m.Description,
		ReportType:          m.ReportType,
		Parameters:          map[string]any{},
		Schedule:            m.Schedule,
		NextRunAt:           m.NextRunAt,
		LastRunAt:           m.LastRunAt,
		Status:              m.Status,
	}
	decodeJSON("reports", "parameters", m.Parameters, &r.Parameters)
	return r
}

// ReportModelFromDomain creates a new persistence model from a domain Report.
func ReportModelFromDomain(r *analytics.Report) *ReportModel {
	m := &ReportModel{
		Name:        r.Name,
		Description: r.Description,
		ReportType:  r.ReportType,
		Parameters:  encodeJSON(r.Parameters, "{}"),
		Schedule:    r.Schedule,
		NextRunAt:   r.NextRunAt,
		LastRunAt:   r.LastRunAt,
		Status:      r.Status,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}

// KPIModel is the persistence model for KPI definitions and their current value.
type KPIModel struct {
	TenantAggregateModel
	Name              string                 `gorm:"type:varchar(200);not null"`
	Code              string                 `gorm:"type:varchar(50);not null"`
	Description       string                 `gorm:"type:text"`
	Category          string                 `gorm:"type:varchar(100);index"`
	Unit              string                 `gorm:"type:varchar(30)"`
	Direction         analytics.Direction    `gorm:"type:varchar(20);not null;default:'higher_is_better'"`
	TargetValue       *decimal.Decimal       `gorm:"type:decimal(18,4)"`
	WarningThreshold  *decimal.Decimal       `gorm:"type:decimal(18,4)"`
	CriticalThreshold *decimal.Decimal       `gorm:"type:decimal(18,4)"`
	CurrentValue      *decimal.Decimal       `gorm:"type:decimal(18,4)"`
	PreviousValue     *decimal.Decimal       `gorm:"type:decimal(18,4)"`
	ChangePercentage  *decimal.Decimal       `gorm:"type:decimal(10,2)"`
	DataSource        analytics.DataSource   `gorm:"type:varchar(50)"`
	LastCalculatedAt  *time.Time
	Status            analytics.RecordStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (KPIModel) TableName() string {
	return "kpis"
}

// ToDomain converts the persistence model to a domain KPI.
func (m *KPIModel) ToDomain() *analytics.KPI {
	return &analytics.KPI{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Code:                m.Code,
		Description:         m.Description,
		Category:            m.Category,
		Unit:                m.Unit,
		Direction:           m.Direction,
		TargetValue:         m.TargetValue,
		WarningThreshold:    m.WarningThreshold,
		CriticalThreshold:   m.CriticalThreshold,
		CurrentValue:        m.CurrentValue,
		PreviousValue:       m.PreviousValue,
		ChangePercentage:    m.ChangePercentage,
		DataSource:          m.DataSource,
		LastCalculatedAt:    m.LastCalculatedAt,
		Status:              m.Status,
	}
}

// KPIModelFromDomain creates a new persistence model from a domain KPI.
func KPIModelFromDomain(k *analytics.KPI) *KPIModel {
	m := &KPIModel{
		Name:              k.Name,
		Code:              k.Code,
		Description:       k.Description,
		Category:          k.Category,
		Unit:              k.Unit,
		Direction:         k.Direction,
		TargetValue:       k.TargetValue,
		WarningThreshold:  k.WarningThreshold,
		CriticalThreshold: k.CriticalThreshold,
		CurrentValue:      k.CurrentValue,
		PreviousValue:     k.PreviousValue,
		ChangePercentage:  k.ChangePercentage,
		DataSource:        k.DataSource,
		LastCalculatedAt:  k.LastCalculatedAt,
		Status:            k.Status,
	}
	m.FromDomainTenantAggregateRoot(k.TenantAggregateRoot)
	return m
}

// KPIMeasurementModel is the append-only history of recorded KPI values.
type KPIMeasurementModel struct {
	TenantRecordModel
	KPIID      uuid.UUID       `gorm:"column:kpi_id;type:uuid;not null;index"`
	Value      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MeasuredAt time.Time       `gorm:"not null;index"`
	RecordedBy *uuid.UUID      `gorm:"type:uuid"`
	Notes      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (KPIMeasurementModel) TableName() string {
	return "kpi_measurements"
}

// ToDomain converts the persistence model to a domain KPIMeasurement.
func (m *KPIMeasurementModel) ToDomain() *analytics.KPIMeasurement {
	return &analytics.KPIMeasurement{
		TenantRecord: m.ToTenantRecord(),
		KPIID:        m.KPIID,
		Value:        m.Value,
		MeasuredAt:   m.MeasuredAt,
		RecordedBy:   m.RecordedBy,
		Notes:        m.Notes,
	}
}

// KPIMeasurementModelFromDomain creates a new persistence model from a domain KPIMeasurement.
func KPIMeasurementModelFromDomain(k *analytics.KPIMeasurement) *KPIMeasurementModel {
	m := &KPIMeasurementModel{
		KPIID:      k.KPIID,
		Value:      k.Value,
		MeasuredAt: k.MeasuredAt,
		RecordedBy: k.RecordedBy,
		Notes:      k.Notes,
	}
	m.FromDomainTenantRecord(k.TenantRecord)
	return m
}

// KPIAlertModel is the persistence model for threshold breach alerts.
type KPIAlertModel struct {
	TenantAggregateModel
	KPIID          uuid.UUID               `gorm:"column:kpi_id;type:uuid;not null;index"`
	Severity       analytics.AlertSeverity `gorm:"type:varchar(20);not null;index"`
	Status         analytics.AlertStatus   `gorm:"type:varchar(20);not null;default:'active';index"`
	Value          decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Threshold      decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Message        string                  `gorm:"type:text"`
	TriggeredAt    time.Time               `gorm:"not null"`
	AcknowledgedBy *uuid.UUID              `gorm:"type:uuid"`
	AcknowledgedAt *time.Time
	ResolvedBy     *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt     *time.Time
	DismissedBy    *uuid.UUID `gorm:"type:uuid"`
	DismissedAt    *time.Time
}

// TableName returns the table name for GORM
func (KPIAlertModel) TableName() string {
	return "kpi_alerts"
}

// ToDomain converts the persistence model to a domain KPIAlert.
func (m *KPIAlertModel) ToDomain() *analytics.KPIAlert {
	return &analytics.KPIAlert{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		KPIID:               m.KPIID,
		Severity:            m.Severity,
		Status:              m.Status,
		Value:               m.Value,
		Threshold:           m.Threshold,
		Message:             m.Message,
		TriggeredAt:         m.TriggeredAt,
		AcknowledgedBy:      m.AcknowledgedBy,
		AcknowledgedAt:      m.AcknowledgedAt,
		ResolvedBy:          m.ResolvedBy,
		ResolvedAt:          m.ResolvedAt,
		DismissedBy:         m.DismissedBy,
		DismissedAt:         m.DismissedAt,
	}
}

// KPIAlertModelFromDomain creates a new persistence model from a domain KPIAlert.
func KPIAlertModelFromDomain(a *analytics.KPIAlert) *KPIAlertModel {
	m := &KPIAlertModel{
		KPIID:          a.KPIID,
		Severity:       a.Severity,
		Status:         a.Status,
		Value:          a.Value,
		Threshold:      a.Threshold,
		Message:        a.Message,
		TriggeredAt:    a.TriggeredAt,
		AcknowledgedBy: a.AcknowledgedBy,
		AcknowledgedAt: a.AcknowledgedAt,
		ResolvedBy:     a.ResolvedBy,
		ResolvedAt:     a.ResolvedAt,
		DismissedBy:    a.DismissedBy,
		DismissedAt:    a.DismissedAt,
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	return m
}

// DashboardModel is the persistence model for dashboards. Widgets are stored as a JSON array.
type DashboardModel struct {
	TenantAggregateModel
	Name        string                 `gorm:"type:varchar(200);not null"`
	Description string                 `gorm:"type:text"`
	OwnerID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	IsDefault   bool                   `gorm:"not null;default:false"`
	IsShared    bool                   `gorm:"not null;default:false"`
	Status      analytics.RecordStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Widgets     string                 `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (DashboardModel) TableName() string {
	return "dashboards"
}

// ToDomain converts the persistence model to a domain Dashboard.
func (m *DashboardModel) ToDomain() *analytics.Dashboard {
	d := &analytics.Dashboard{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Description:         m.Description,
		OwnerID:             m.OwnerID,
		IsDefault:           m.IsDefault,
		IsShared:            m.IsShared,
		Status:              m.Status,
		Widgets:             []analytics.Widget{},
	}
	decodeJSON("dashboards", "widgets", m.Widgets, &d.Widgets)
	return d
}

// DashboardModelFromDomain creates a new persistence model from a domain Dashboard.
func DashboardModelFromDomain(d *analytics.Dashboard) *DashboardModel {
	m := &DashboardModel{
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		IsDefault:   d.IsDefault,
		IsShared:    d.IsShared,
		Status:      d.Status,
		Widgets:     encodeJSON(d.Widgets, "[]"),
	}
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	return m
}

// AnalyticsEventModel is the append-only usage and business event log.
type AnalyticsEventModel struct {
	TenantRecordModel
	EventType  string     `gorm:"type:varchar(100);not null;index"`
	EntityType string     `gorm:"type:varchar(50);index"`
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	Properties string     `gorm:"type:jsonb;default:'{}'"`
	IPAddress  string     `gorm:"type:varchar(45)"`
	UserAgent  string     `gorm:"type:varchar(500)"`
	OccurredAt time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AnalyticsEventModel) TableName() string {
	return "analytics_events"
}

// ToDomain converts the persistence model to a domain AnalyticsEvent.
func (m *AnalyticsEventModel) ToDomain() *analytics.AnalyticsEvent {
	e := &analytics.AnalyticsEvent{
		TenantRecord: m.ToTenantRecord(),
		EventType:    m.EventType,
		EntityType:   m.EntityType,
		EntityID:     m.EntityID,
		UserID:       m.UserID,
		Properties:   map[string]any{},
		IPAddress:    m.IPAddress,
		UserAgent:    m.UserAgent,
		OccurredAt:   m.OccurredAt,
	}
	decodeJSON("analytics_events", "properties", m.Properties, &e.Properties)
	return e
}

// AnalyticsEventModelFromDomain creates a new persistence model from a domain AnalyticsEvent.
func AnalyticsEventModelFromDomain(e *analytics.AnalyticsEvent) *AnalyticsEventModel {
	m := &AnalyticsEventModel{
		EventType:  e.EventType,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		UserID:     e.UserID,
		Properties: encodeJSON(e.Properties, "{}"),
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		OccurredAt: e.OccurredAt,
	}
	m.FromDomainTenantRecord(e.TenantRecord)
	return m
}
