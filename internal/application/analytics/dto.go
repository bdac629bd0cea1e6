package analytics

import (
	"time"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

// CreateReportRequest defines a new report
type CreateReportRequest struct {
	Name        string         `json:"name" binding:"required,max=200"`
	Description string         `json:"description"`
	ReportType  string         `json:"report_type" binding:"required"`
	Parameters  map[string]any `json:"parameters"`
	Schedule    string         `json:"schedule" binding:"omitempty,oneof=none daily weekly monthly"`
}

// UpdateReportRequest changes a report definition. The report type is fixed.
type UpdateReportRequest struct {
	Name        string         `json:"name" binding:"required,max=200"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
	Schedule    string         `json:"schedule" binding:"omitempty,oneof=none daily weekly monthly"`
}

// RunReportOptions are the query parameters of a report run
type RunReportOptions struct {
	Refresh bool   `form:"refresh"`
	Export  string `form:"export" binding:"omitempty,oneof=csv"`
}

// ReportListFilter holds the report list query parameters
type ReportListFilter struct {
	shared.PageParams
	ReportType string `form:"report_type"`
	Schedule   string `form:"schedule" binding:"omitempty,oneof=none daily weekly monthly"`
	Status     string `form:"status" binding:"omitempty,oneof=active archived"`
}

// ToFilter converts query parameters to a repository filter
func (f ReportListFilter) ToFilter() shared.Filter {
	filter := f.PageParams.Filter()
	filter.Set("report_type", f.ReportType)
	filter.Set("schedule", f.Schedule)
	filter.Set("status", f.Status)
	return filter
}

// ReportResponse is the wire shape of a report definition
type ReportResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	ReportType  string         `json:"report_type"`
	Parameters  map[string]any `json:"parameters"`
	Schedule    string         `json:"schedule"`
	NextRunAt   *time.Time     `json:"next_run_at"`
	LastRunAt   *time.Time     `json:"last_run_at"`
	Status      string         `json:"status"`
	CreatedBy   *uuid.UUID     `json:"created_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ToReportResponse maps a report to its wire shape
func ToReportResponse(r *analytics.Report) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ReportType:  string(r.ReportType),
		Parameters:  r.Parameters,
		Schedule:    string(r.Schedule),
		NextRunAt:   r.NextRunAt,
		LastRunAt:   r.LastRunAt,
		Status:      string(r.Status),
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ExportResponse points to an exported report file
type ExportResponse struct {
	Format      string    `json:"format"`
	StorageKey  string    `json:"storage_key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ReportRunResponse is the result of running a report
type ReportRunResponse struct {
	Report ReportResponse          `json:"report"`
	Result *analytics.ReportResult `json:"result"`
	Cached bool                    `json:"cached"`
	Export *ExportResponse         `json:"export,omitempty"`
}

// ---------------------------------------------------------------------------
// KPIs
// ---------------------------------------------------------------------------

// KPIRequest carries the editable KPI fields
type KPIRequest struct {
	Name              string           `json:"name" binding:"required,max=200"`
	Description       string           `json:"description"`
	Category          string           `json:"category" binding:"max=100"`
	Unit              string           `json:"unit" binding:"max=50"`
	Direction         string           `json:"direction" binding:"omitempty,oneof=higher_is_better lower_is_better"`
	TargetValue       *decimal.Decimal `json:"target_value"`
	WarningThreshold  *decimal.Decimal `json:"warning_threshold"`
	CriticalThreshold *decimal.Decimal `json:"critical_threshold"`
	DataSource        string           `json:"data_source"`
}

func (r KPIRequest) details() analytics.KPIDetails {
	return analytics.KPIDetails{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Unit:        r.Unit,
		Direction:   analytics.Direction(r.Direction),
		Thresholds: analytics.Thresholds{
			Target:   r.TargetValue,
			Warning:  r.WarningThreshold,
			Critical: r.CriticalThreshold,
		},
		DataSource: analytics.DataSource(r.DataSource),
	}
}

// CreateKPIRequest adds the immutable KPI code
type CreateKPIRequest struct {
	Code string `json:"code" binding:"required,max=50"`
	KPIRequest
}

// RecordMeasurementRequest records an explicit KPI value
type RecordMeasurementRequest struct {
	Value      *decimal.Decimal `json:"value" binding:"required"`
	MeasuredAt *time.Time       `json:"measured_at"`
	Notes      string           `json:"notes" binding:"max=500"`
}

// KPIListFilter holds the KPI list query parameters
type KPIListFilter struct {
	shared.PageParams
	Category        string `form:"category"`
	Status          string `form:"status" binding:"omitempty,oneof=active archived"`
	Code            string `form:"code"`
	BelowTarget     *bool  `form:"below_target"`
	HasActiveAlerts *bool  `form:"has_active_alerts"`
}

// ToFilter converts query parameters to a repository filter
func (f KPIListFilter) ToFilter() shared.Filter {
	filter := f.PageParams.Filter()
	filter.Set("category", f.Category)
	filter.Set("status", f.Status)
	filter.Set("code", f.Code)
	filter.Set("below_target", f.BelowTarget)
	filter.Set("has_active_alerts", f.HasActiveAlerts)
	return filter
}

// KPIResponse is the wire shape of a KPI
type KPIResponse struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Code              string           `json:"code"`
	Description       string           `json:"description,omitempty"`
	Category          string           `json:"category,omitempty"`
	Unit              string           `json:"unit,omitempty"`
	Direction         string           `json:"direction"`
	TargetValue       *decimal.Decimal `json:"target_value"`
	WarningThreshold  *decimal.Decimal `json:"warning_threshold"`
	CriticalThreshold *decimal.Decimal `json:"critical_threshold"`
	CurrentValue      *decimal.Decimal `json:"current_value"`
	PreviousValue     *decimal.Decimal `json:"previous_value"`
	ChangePercentage  *decimal.Decimal `json:"change_percentage"`
	TargetAchievement *decimal.Decimal `json:"target_achievement"`
	IsBelowTarget     bool             `json:"is_below_target"`
	DataSource        string           `json:"data_source,omitempty"`
	LastCalculatedAt  *time.Time       `json:"last_calculated_at"`
	Status            string           `json:"status"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ToKPIResponse maps a KPI to its wire shape
func ToKPIResponse(k *analytics.KPI) KPIResponse {
	return KPIResponse{
		ID:                k.ID,
		Name:              k.Name,
		Code:              k.Code,
		Description:       k.Description,
		Category:          k.Category,
		Unit:              k.Unit,
		Direction:         string(k.Direction),
		TargetValue:       k.TargetValue,
		WarningThreshold:  k.WarningThreshold,
		CriticalThreshold: k.CriticalThreshold,
		CurrentValue:      k.CurrentValue,
		PreviousValue:     k.PreviousValue,
		ChangePercentage:  k.ChangePercentage,
		TargetAchievement: k.TargetAchievement(),
		IsBelowTarget:     k.IsBelowTarget(),
		DataSource:        string(k.DataSource),
		LastCalculatedAt:  k.LastCalculatedAt,
		Status:            string(k.Status),
		CreatedAt:         k.CreatedAt,
		UpdatedAt:         k.UpdatedAt,
	}
}

// MeasurementResponse is the wire shape of a KPI measurement
type MeasurementResponse struct {
	ID         uuid.UUID       `json:"id"`
	KPIID      uuid.UUID       `json:"kpi_id"`
	Value      decimal.Decimal `json:"value"`
	MeasuredAt time.Time       `json:"measured_at"`
	RecordedBy *uuid.UUID      `json:"recorded_by,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}

// ToMeasurementResponse maps a measurement to its wire shape
func ToMeasurementResponse(m *analytics.KPIMeasurement) MeasurementResponse {
	return MeasurementResponse{
		ID:         m.ID,
		KPIID:      m.KPIID,
		Value:      m.Value,
		MeasuredAt: m.MeasuredAt,
		RecordedBy: m.RecordedBy,
		Notes:      m.Notes,
	}
}

// MeasurementResult is the outcome of recording a measurement.
// Alert is set only when the measurement raised a new alert.
type MeasurementResult struct {
	KPI         KPIResponse         `json:"kpi"`
	Measurement MeasurementResponse `json:"measurement"`
	Alert       *AlertResponse      `json:"alert,omitempty"`
}

// ---------------------------------------------------------------------------
// Alerts
// ---------------------------------------------------------------------------

// AlertListFilter holds the alert list query parameters
type AlertListFilter struct {
	shared.PageParams
	KPIID           *uuid.UUID `form:"kpi_id"`
	Severity        string     `form:"severity" binding:"omitempty,oneof=warning critical"`
	Status          string     `form:"status" binding:"omitempty,oneof=active acknowledged resolved dismissed"`
	TriggeredAfter  *time.Time `form:"triggered_after" time_format:"2006-01-02"`
	TriggeredBefore *time.Time `form:"triggered_before" time_format:"2006-01-02"`
}

// ToFilter converts query parameters to a repository filter
func (f AlertListFilter) ToFilter() shared.Filter {
	filter := f.PageParams.Filter()
	if f.OrderBy == "" {
		filter.OrderBy = "triggered_at"
	}
	if f.KPIID != nil {
		filter.Set("kpi_id", *f.KPIID)
	}
	filter.Set("severity", f.Severity)
	filter.Set("status", f.Status)
	filter.Set("triggered_after", f.TriggeredAfter)
	filter.Set("triggered_before", f.TriggeredBefore)
	return filter
}

// AlertResponse is the wire shape of a KPI alert
type AlertResponse struct {
	ID             uuid.UUID       `json:"id"`
	KPIID          uuid.UUID       `json:"kpi_id"`
	Severity       string          `json:"severity"`
	Status         string          `json:"status"`
	Value          decimal.Decimal `json:"value"`
	Threshold      decimal.Decimal `json:"threshold"`
	Message        string          `json:"message"`
	TriggeredAt    time.Time       `json:"triggered_at"`
	AcknowledgedBy *uuid.UUID      `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time      `json:"acknowledged_at,omitempty"`
	ResolvedBy     *uuid.UUID      `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
	DismissedBy    *uuid.UUID      `json:"dismissed_by,omitempty"`
	DismissedAt    *time.Time      `json:"dismissed_at,omitempty"`
}

// ToAlertResponse maps an alert to its wire shape
func ToAlertResponse(a *analytics.KPIAlert) AlertResponse {
	return AlertResponse{
		ID:             a.ID,
		KPIID:          a.KPIID,
		Severity:       string(a.Severity),
		Status:         string(a.Status),
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
}

// ---------------------------------------------------------------------------
// Dashboards
// ---------------------------------------------------------------------------

// DashboardRequest creates or replaces a dashboard
type DashboardRequest struct {
	Name        string             `json:"name" binding:"required,max=200"`
	Description string             `json:"description"`
	IsShared    bool               `json:"is_shared"`
	Widgets     []analytics.Widget `json:"widgets" binding:"max=50"`
}

// DashboardListFilter holds the dashboard list query parameters
type DashboardListFilter struct {
	shared.PageParams
	Status    string `form:"status" binding:"omitempty,oneof=active archived"`
	IsShared  *bool  `form:"is_shared"`
	IsDefault *bool  `form:"is_default"`
}

// ToFilter converts query parameters to a repository filter
func (f DashboardListFilter) ToFilter() shared.Filter {
	filter := f.PageParams.Filter()
	filter.Set("status", f.Status)
	filter.Set("is_shared", f.IsShared)
	filter.Set("is_default", f.IsDefault)
	return filter
}

// DashboardResponse is the wire shape of a dashboard
type DashboardResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	OwnerID     uuid.UUID          `json:"owner_id"`
	IsDefault   bool               `json:"is_default"`
	IsShared    bool               `json:"is_shared"`
	Status      string             `json:"status"`
	Widgets     []analytics.Widget `json:"widgets"`
	WidgetCount int                `json:"widget_count"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ToDashboardResponse maps a dashboard to its wire shape
func ToDashboardResponse(d *analytics.Dashboard) DashboardResponse {
	widgets := d.Widgets
	if widgets == nil {
		widgets = []analytics.Widget{}
	}
	return DashboardResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		IsDefault:   d.IsDefault,
		IsShared:    d.IsShared,
		Status:      string(d.Status),
		Widgets:     widgets,
		WidgetCount: len(widgets),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// WidgetData is the resolved content of one widget
type WidgetData struct {
	WidgetID   uuid.UUID               `json:"widget_id"`
	WidgetType string                  `json:"widget_type"`
	Title      string                  `json:"title"`
	KPI        *KPIResponse            `json:"kpi,omitempty"`
	Report     *analytics.ReportResult `json:"report,omitempty"`
	// Available is false when the KPI is gone or the report has no cached run
	Available bool `json:"available"`
}

// DashboardDataResponse is a dashboard with its widgets resolved
type DashboardDataResponse struct {
	Dashboard DashboardResponse `json:"dashboard"`
	Widgets   []WidgetData      `json:"widgets"`
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

// RecordEventRequest records a client-side event
type RecordEventRequest struct {
	EventType  string         `json:"event_type" binding:"required,max=100"`
	EntityType string         `json:"entity_type" binding:"max=100"`
	EntityID   *uuid.UUID     `json:"entity_id"`
	Properties map[string]any `json:"properties"`
	OccurredAt *time.Time     `json:"occurred_at"`
}

// EventClient is the request origin of a client-side event
type EventClient struct {
	IPAddress string
	UserAgent string
}

// EventListFilter holds the event list query parameters
type EventListFilter struct {
	shared.PageParams
	EventType      string     `form:"event_type"`
	EntityType     string     `form:"entity_type"`
	EntityID       *uuid.UUID `form:"entity_id"`
	UserID         *uuid.UUID `form:"user_id"`
	OccurredAfter  *time.Time `form:"occurred_after" time_format:"2006-01-02"`
	OccurredBefore *time.Time `form:"occurred_before" time_format:"2006-01-02"`
}

// ToFilter converts query parameters to a repository filter
func (f EventListFilter) ToFilter() shared.Filter {
	filter := f.PageParams.Filter()
	if f.OrderBy == "" {
		filter.OrderBy = "occurred_at"
	}
	filter.Set("event_type", f.EventType)
	filter.Set("entity_type", f.EntityType)
	if f.EntityID != nil {
		filter.Set("entity_id", *f.EntityID)
	}
	if f.UserID != nil {
		filter.Set("user_id", *f.UserID)
	}
	filter.Set("occurred_after", f.OccurredAfter)
	filter.Set("occurred_before", f.OccurredBefore)
	return filter
}

// EventSummaryFilter is the date range of an event summary
type EventSummaryFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// EventResponse is the wire shape of an analytics event
type EventResponse struct {
	ID         uuid.UUID      `json:"id"`
	EventType  string         `json:"event_type"`
	EntityType string         `json:"entity_type,omitempty"`
	EntityID   *uuid.UUID     `json:"entity_id,omitempty"`
	UserID     *uuid.UUID     `json:"user_id,omitempty"`
	Properties map[string]any `json:"properties"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// ToEventResponse maps an event to its wire shape
func ToEventResponse(e *analytics.AnalyticsEvent) EventResponse {
	return EventResponse{
		ID:         e.ID,
		EventType:  e.EventType,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		UserID:     e.UserID,
		Properties: e.Properties,
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		OccurredAt: e.OccurredAt,
	}
}

// EventSummaryResponse counts events per type within a range
type EventSummaryResponse struct {
	From   time.Time              `json:"from"`
	To     time.Time              `json:"to"`
	Total  int64                  `json:"total"`
	Counts []analytics.EventCount `json:"counts"`
}
