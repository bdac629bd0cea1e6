package purchasing

import (
	"context"
	"strings"

	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierService manages suppliers and their performance evaluations
type SupplierService struct {
	txScope         TransactionScope
	supplierRepo    purchasing.SupplierRepository
	performanceRepo purchasing.SupplierPerformanceRepository
	logger          *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(
	txScope TransactionScope,
	supplierRepo purchasing.SupplierRepository,
	performanceRepo purchasing.SupplierPerformanceRepository,
	logger *zap.Logger,
) *SupplierService {
	return &SupplierService{
		txScope:         txScope,
		supplierRepo:    supplierRepo,
		performanceRepo: performanceRepo,
		logger:          logger,
	}
}

// Create creates an active supplier with a tenant-unique code
func (s *SupplierService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	exists, err := s.supplierRepo.ExistsByCode(ctx, tenantID, strings.ToUpper(strings.TrimSpace(req.Code)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewValidationError("code", "A supplier with this code already exists")
	}
	sup, err := purchasing.NewSupplier(tenantID, req.Code, req.details())
	if err != nil {
		return nil, err
	}
	sup.SetCreatedBy(actorID)

	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(sup)
	return &resp, nil
}

// GetByID retrieves a supplier
func (s *SupplierService) GetByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	sup, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(sup)
	return &resp, nil
}

// List retrieves suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, f SupplierListFilter) ([]SupplierResponse, int64, error) {
	filter, err := f.ToFilter()
	if err != nil {
		return nil, 0, err
	}
	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = ToSupplierResponse(&suppliers[i])
	}
	return out, total, nil
}

// Update replaces the supplier details
func (s *SupplierService) Update(ctx context.Context, tenantID, supplierID uuid.UUID, req SupplierRequest) (*SupplierResponse, error) {
	return s.mutate(ctx, tenantID, supplierID, func(sup *purchasing.Supplier) error {
		return sup.Update(req.details())
	})
}

// Activate re-enables an inactive supplier
func (s *SupplierService) Activate(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	return s.mutate(ctx, tenantID, supplierID, func(sup *purchasing.Supplier) error {
		return sup.Activate()
	})
}

// Delete deactivates the supplier
func (s *SupplierService) Delete(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	_, err := s.mutate(ctx, tenantID, supplierID, func(sup *purchasing.Supplier) error {
		return sup.Deactivate()
	})
	return err
}

// Blacklist permanently blocks the supplier from new orders
func (s *SupplierService) Blacklist(ctx context.Context, tenantID, supplierID uuid.UUID, req BlacklistSupplierRequest) (*SupplierResponse, error) {
	resp, err := s.mutate(ctx, tenantID, supplierID, func(sup *purchasing.Supplier) error {
		return sup.Blacklist(req.Reason)
	})
	if err == nil {
		s.logger.Warn("Supplier blacklisted", zap.String("supplier_id", supplierID.String()), zap.String("code", resp.Code))
	}
	return resp, err
}

// Evaluate records a performance evaluation and re-rates the supplier in one transaction
func (s *SupplierService) Evaluate(ctx context.Context, tenantID, actorID, supplierID uuid.UUID, req EvaluateSupplierRequest) (*PerformanceResponse, error) {
	var evaluation *purchasing.SupplierPerformance
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sup, err := repos.Suppliers().FindByIDForTenant(ctx, tenantID, supplierID)
		if err != nil {
			return err
		}
		evaluation, err = purchasing.NewSupplierPerformance(sup, req.PeriodStart.Time, req.PeriodEnd.Time,
			req.scores(), req.OnTimeDeliveryRate, req.Comments, actorID)
		if err != nil {
			return err
		}
		if err := repos.Performance().Create(ctx, evaluation); err != nil {
			return err
		}
		average, err := repos.Performance().AverageOverall(ctx, tenantID, sup.ID)
		if err != nil {
			return err
		}
		sup.UpdateRating(average)
		return repos.Suppliers().Save(ctx, sup)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Supplier evaluated",
		zap.String("supplier_id", supplierID.String()),
		zap.String("overall_score", evaluation.OverallScore.String()))
	resp := ToPerformanceResponse(evaluation)
	return &resp, nil
}

// Evaluations lists a supplier's evaluations, newest first
func (s *SupplierService) Evaluations(ctx context.Context, tenantID, supplierID uuid.UUID, page shared.PageParams) ([]PerformanceResponse, int64, error) {
	if _, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID); err != nil {
		return nil, 0, err
	}
	filter := page.Filter()
	evaluations, err := s.performanceRepo.FindBySupplier(ctx, tenantID, supplierID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.performanceRepo.CountBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PerformanceResponse, len(evaluations))
	for i := range evaluations {
		out[i] = ToPerformanceResponse(&evaluations[i])
	}
	return out, total, nil
}

// GetEvaluation retrieves one evaluation
func (s *SupplierService) GetEvaluation(ctx context.Context, tenantID, evaluationID uuid.UUID) (*PerformanceResponse, error) {
	p, err := s.performanceRepo.FindByIDForTenant(ctx, tenantID, evaluationID)
	if err != nil {
		return nil, err
	}
	resp := ToPerformanceResponse(p)
	return &resp, nil
}

// Summary aggregates all evaluations of a supplier
func (s *SupplierService) Summary(ctx context.Context, tenantID, supplierID uuid.UUID) (*PerformanceSummaryResponse, error) {
	if _, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID); err != nil {
		return nil, err
	}
	summary, err := s.performanceRepo.Summarize(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	resp := ToPerformanceSummaryResponse(summary)
	return &resp, nil
}

func (s *SupplierService) mutate(ctx context.Context, tenantID, supplierID uuid.UUID, fn func(*purchasing.Supplier) error) (*SupplierResponse, error) {
	sup, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	if err := fn(sup); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(sup)
	return &resp, nil
}
