package analytics

import (
	"context"

	"github.com/erp/platform/internal/domain/analytics"
)

// TransactionScope runs analytics operations that must commit together:
// a KPI measurement with its alert, and switching the default dashboard
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the analytics repositories bound to one transaction
type TransactionalRepositories interface {
	KPIs() analytics.KPIRepository
	Measurements() analytics.KPIMeasurementRepository
	Alerts() analytics.KPIAlertRepository
	Dashboards() analytics.DashboardRepository
}

// NoOpTransactionScope calls fn with the plain repositories
type NoOpTransactionScope struct {
	kpis         analytics.KPIRepository
	measurements analytics.KPIMeasurementRepository
	alerts       analytics.KPIAlertRepository
	dashboards   analytics.DashboardRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	kpis analytics.KPIRepository,
	measurements analytics.KPIMeasurementRepository,
	alerts analytics.KPIAlertRepository,
	dashboards analytics.DashboardRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{kpis: kpis, measurements: measurements, alerts: alerts, dashboards: dashboards}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) KPIs() analytics.KPIRepository { return s.kpis }

func (s *NoOpTransactionScope) Measurements() analytics.KPIMeasurementRepository {
	return s.measurements
}

func (s *NoOpTransactionScope) Alerts() analytics.KPIAlertRepository { return s.alerts }

func (s *NoOpTransactionScope) Dashboards() analytics.DashboardRepository { return s.dashboards }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
