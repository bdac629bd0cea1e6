package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrNoDataSource is returned when calculating a KPI that is entered manually
var ErrNoDataSource = shared.NewValidationError("data_source", "This KPI has no data source to calculate from")

// KPIService manages KPIs, their measurements and threshold alerts
type KPIService struct {
	txScope         TransactionScope
	kpiRepo         analytics.KPIRepository
	measurementRepo analytics.KPIMeasurementRepository
	dataSource      analytics.KPIDataSource
	cache           ResultCache
	publisher       shared.EventPublisher
	logger          *zap.Logger
	now             func() time.Time
}

// NewKPIService creates a new KPIService
func NewKPIService(
	txScope TransactionScope,
	kpiRepo analytics.KPIRepository,
	measurementRepo analytics.KPIMeasurementRepository,
	dataSource analytics.KPIDataSource,
	cache ResultCache,
	logger *zap.Logger,
) *KPIService {
	return &KPIService{
		txScope:         txScope,
		kpiRepo:         kpiRepo,
		measurementRepo: measurementRepo,
		dataSource:      dataSource,
		cache:           cache,
		logger:          logger,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *KPIService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create creates an active KPI with a tenant-unique code
func (s *KPIService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateKPIRequest) (*KPIResponse, error) {
	exists, err := s.kpiRepo.ExistsByCode(ctx, tenantID, strings.ToUpper(strings.TrimSpace(req.Code)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewValidationError("code", "A KPI with this code already exists")
	}
	kpi, err := analytics.NewKPI(tenantID, req.Code, req.details())
	if err != nil {
		return nil, err
	}
	kpi.SetCreatedBy(actorID)
	if err := s.kpiRepo.Save(ctx, kpi); err != nil {
		return nil, err
	}
	resp := ToKPIResponse(kpi)
	return &resp, nil
}

// GetByID retrieves a KPI
func (s *KPIService) GetByID(ctx context.Context, tenantID, kpiID uuid.UUID) (*KPIResponse, error) {
	kpi, err := s.kpiRepo.FindByIDForTenant(ctx, tenantID, kpiID)
	if err != nil {
		return nil, err
	}
	resp := ToKPIResponse(kpi)
	return &resp, nil
}

// List retrieves KPIs with filtering and pagination
func (s *KPIService) List(ctx context.Context, tenantID uuid.UUID, f KPIListFilter) ([]KPIResponse, int64, error) {
	filter := f.ToFilter()
	kpis, err := s.kpiRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.kpiRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]KPIResponse, len(kpis))
	for i := range kpis {
		out[i] = ToKPIResponse(&kpis[i])
	}
	return out, total, nil
}

// Update changes the definition of a KPI
func (s *KPIService) Update(ctx context.Context, tenantID, kpiID uuid.UUID, req KPIRequest) (*KPIResponse, error) {
	kpi, err := s.change(ctx, tenantID, kpiID, func(kpi *analytics.KPI) error {
		return kpi.Update(req.details())
	})
	if err != nil {
		return nil, err
	}
	resp := ToKPIResponse(kpi)
	return &resp, nil
}

// Delete archives the KPI; its measurements and alerts are kept
func (s *KPIService) Delete(ctx context.Context, tenantID, kpiID uuid.UUID) error {
	_, err := s.change(ctx, tenantID, kpiID, func(kpi *analytics.KPI) error {
		return kpi.Archive()
	})
	return err
}

// change holds the same row lock as a measurement, so an edit never writes
// back a stale current value
func (s *KPIService) change(ctx context.Context, tenantID, kpiID uuid.UUID, fn func(*analytics.KPI) error) (*analytics.KPI, error) {
	var changed *analytics.KPI
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		kpi, err := repos.KPIs().FindByIDForUpdate(ctx, tenantID, kpiID)
		if err != nil {
			return err
		}
		if err := fn(kpi); err != nil {
			return err
		}
		if err := repos.KPIs().Save(ctx, kpi); err != nil {
			return err
		}
		changed = kpi
		return nil
	})
	return changed, err
}

// RecordMeasurement records an explicit value for the KPI
func (s *KPIService) RecordMeasurement(ctx context.Context, tenantID, kpiID, actorID uuid.UUID, req RecordMeasurementRequest) (*MeasurementResult, error) {
	at := s.now()
	if req.MeasuredAt != nil {
		at = *req.MeasuredAt
	}
	return s.record(ctx, tenantID, kpiID, *req.Value, at, &actorID, req.Notes)
}

// Calculate computes the KPI value from its data source and records it
func (s *KPIService) Calculate(ctx context.Context, tenantID, kpiID, actorID uuid.UUID) (*MeasurementResult, error) {
	kpi, err := s.kpiRepo.FindByIDForTenant(ctx, tenantID, kpiID)
	if err != nil {
		return nil, err
	}
	if kpi.DataSource == "" {
		return nil, ErrNoDataSource
	}
	value, err := s.dataSource.Compute(ctx, tenantID, kpi.DataSource)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, tenantID, kpiID, value, s.now(), &actorID, "calculated from "+string(kpi.DataSource))
}

// Measurements lists the measurement history of a KPI, newest first
func (s *KPIService) Measurements(ctx context.Context, tenantID, kpiID uuid.UUID, page shared.PageParams) ([]MeasurementResponse, int64, error) {
	if _, err := s.kpiRepo.FindByIDForTenant(ctx, tenantID, kpiID); err != nil {
		return nil, 0, err
	}
	filter := page.Filter()
	if page.OrderBy == "" {
		filter.OrderBy = "measured_at"
	}
	measurements, err := s.measurementRepo.FindByKPI(ctx, tenantID, kpiID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.measurementRepo.CountByKPI(ctx, tenantID, kpiID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]MeasurementResponse, len(measurements))
	for i := range measurements {
		out[i] = ToMeasurementResponse(&measurements[i])
	}
	return out, total, nil
}

// record locks the KPI, applies the measurement and stores the measurement
// and any new alert in one transaction
func (s *KPIService) record(ctx context.Context, tenantID, kpiID uuid.UUID, value decimal.Decimal, at time.Time, by *uuid.UUID, notes string) (*MeasurementResult, error) {
	var (
		kpi         *analytics.KPI
		measurement *analytics.KPIMeasurement
		alert       *analytics.KPIAlert
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		kpi, err = repos.KPIs().FindByIDForUpdate(ctx, tenantID, kpiID)
		if err != nil {
			return err
		}
		open, err := repos.Alerts().FindOpenByKPI(ctx, tenantID, kpiID)
		if err != nil {
			return err
		}
		measurement, alert, err = kpi.RecordMeasurement(value, at, by, open)
		if err != nil {
			return err
		}
		measurement.Notes = notes
		if err := repos.KPIs().Save(ctx, kpi); err != nil {
			return err
		}
		if err := repos.Measurements().Create(ctx, measurement); err != nil {
			return err
		}
		if alert != nil {
			return repos.Alerts().Save(ctx, alert)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if alert != nil {
		s.logger.Warn("KPI threshold breached",
			zap.String("tenant_id", tenantID.String()),
			zap.String("kpi_code", kpi.Code),
			zap.String("severity", string(alert.Severity)),
			zap.String("value", value.String()),
		)
	}
	publishEvents(ctx, s.publisher, s.logger, kpi)
	if err := s.cache.InvalidateType(ctx, tenantID, analytics.ReportTypeKPISnapshot.CacheType()); err != nil {
		s.logger.Warn("failed to invalidate KPI snapshot cache", zap.Error(err))
	}

	result := &MeasurementResult{
		KPI:         ToKPIResponse(kpi),
		Measurement: ToMeasurementResponse(measurement),
	}
	if alert != nil {
		a := ToAlertResponse(alert)
		result.Alert = &a
	}
	return result, nil
}

// publishEvents never fails the caller: the aggregate is already saved
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, agg shared.AggregateRoot) {
	if n, err := shared.PublishRecorded(ctx, publisher, agg); err != nil {
		logger.Error("Failed to publish domain events", zap.Int("count", n), zap.String("aggregate_id", agg.GetID().String()), zap.Error(err))
	}
}
