package analytics

import (
	"context"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportRepository defines the interface for report persistence
type ReportRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Report, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Report, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindDue returns active scheduled reports with next_run_at <= now
	FindDue(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]Report, error)
	Save(ctx context.Context, report *Report) error
}

// KPIRepository defines the interface for KPI persistence
type KPIRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*KPI, error)
	// FindByIDForUpdate loads the KPI with a row lock inside the current transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*KPI, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]KPI, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]KPI, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, kpi *KPI) error
}

// KPIMeasurementRepository is append-only
type KPIMeasurementRepository interface {
	FindByKPI(ctx context.Context, tenantID, kpiID uuid.UUID, filter shared.Filter) ([]KPIMeasurement, error)
	CountByKPI(ctx context.Context, tenantID, kpiID uuid.UUID) (int64, error)
	Create(ctx context.Context, m *KPIMeasurement) error
}

// KPIAlertRepository defines the interface for alert persistence
type KPIAlertRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*KPIAlert, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]KPIAlert, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindOpenByKPI returns the active and acknowledged alerts of a KPI
	FindOpenByKPI(ctx context.Context, tenantID, kpiID uuid.UUID) ([]KPIAlert, error)
	Save(ctx context.Context, alert *KPIAlert) error
}

// DashboardRepository defines the interface for dashboard persistence
type DashboardRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Dashboard, error)
	// FindVisible returns the user's own dashboards and the tenant's shared ones
	FindVisible(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]Dashboard, error)
	CountVisible(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) (int64, error)
	// ClearDefault unsets is_default on the owner's dashboards except keepID
	ClearDefault(ctx context.Context, tenantID, ownerID, keepID uuid.UUID) error
	Save(ctx context.Context, dashboard *Dashboard) error
}

// AnalyticsEventRepository is append-only
type AnalyticsEventRepository interface {
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AnalyticsEvent, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Summarize(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]EventCount, error)
	Create(ctx context.Context, event *AnalyticsEvent) error
}

// ReportDataSource computes report data from the business tables of a tenant
type ReportDataSource interface {
	Run(ctx context.Context, tenantID uuid.UUID, reportType ReportType, params map[string]any) (*ReportResult, error)
}

// KPIDataSource computes a KPI value from a built-in source
type KPIDataSource interface {
	Compute(ctx context.Context, tenantID uuid.UUID, source DataSource) (decimal.Decimal, error)
}

// ReportResult is the tabular output of a report run
type ReportResult struct {
	ReportType  ReportType       `json:"report_type"`
	GeneratedAt time.Time        `json:"generated_at"`
	Columns     []string         `json:"columns"`
	Rows        []map[string]any `json:"rows"`
	Totals      map[string]any   `json:"totals,omitempty"`
}
