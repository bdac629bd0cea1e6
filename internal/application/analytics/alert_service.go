package analytics

import (
	"context"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertService handles KPI alerts raised by measurements
type AlertService struct {
	alertRepo analytics.KPIAlertRepository
	logger    *zap.Logger
}

// NewAlertService creates a new AlertService
func NewAlertService(alertRepo analytics.KPIAlertRepository, logger *zap.Logger) *AlertService {
	return &AlertService{alertRepo: alertRepo, logger: logger}
}

// GetByID retrieves an alert
func (s *AlertService) GetByID(ctx context.Context, tenantID, alertID uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByIDForTenant(ctx, tenantID, alertID)
	if err != nil {
		return nil, err
	}
	resp := ToAlertResponse(alert)
	return &resp, nil
}

// List retrieves alerts with filtering and pagination
func (s *AlertService) List(ctx context.Context, tenantID uuid.UUID, f AlertListFilter) ([]AlertResponse, int64, error) {
	filter := f.ToFilter()
	alerts, err := s.alertRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.alertRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]AlertResponse, len(alerts))
	for i := range alerts {
		out[i] = ToAlertResponse(&alerts[i])
	}
	return out, total, nil
}

// Acknowledge marks an active alert as seen
func (s *AlertService) Acknowledge(ctx context.Context, tenantID, alertID, actorID uuid.UUID) (*AlertResponse, error) {
	return s.mutate(ctx, tenantID, alertID, func(a *analytics.KPIAlert) error {
		return a.Acknowledge(actorID)
	})
}

// Resolve closes an open alert
func (s *AlertService) Resolve(ctx context.Context, tenantID, alertID, actorID uuid.UUID) (*AlertResponse, error) {
	return s.mutate(ctx, tenantID, alertID, func(a *analytics.KPIAlert) error {
		return a.Resolve(actorID)
	})
}

// Dismiss closes an open alert without action
func (s *AlertService) Dismiss(ctx context.Context, tenantID, alertID, actorID uuid.UUID) (*AlertResponse, error) {
	return s.mutate(ctx, tenantID, alertID, func(a *analytics.KPIAlert) error {
		return a.Dismiss(actorID)
	})
}

func (s *AlertService) mutate(ctx context.Context, tenantID, alertID uuid.UUID, fn func(*analytics.KPIAlert) error) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByIDForTenant(ctx, tenantID, alertID)
	if err != nil {
		return nil, err
	}
	if err := fn(alert); err != nil {
		return nil, err
	}
	if err := s.alertRepo.Save(ctx, alert); err != nil {
		return nil, err
	}
	s.logger.Info("KPI alert updated",
		zap.String("alert_id", alert.ID.String()),
		zap.String("status", string(alert.Status)),
	)
	resp := ToAlertResponse(alert)
	return &resp, nil
}
