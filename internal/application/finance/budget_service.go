package finance

import (
	"context"

	"github.com/erp/platform/internal/domain/finance"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BudgetService handles budget planning and spend tracking
type BudgetService struct {
	budgetRepo finance.BudgetRepository
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo finance.BudgetRepository, logger *zap.Logger) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BudgetService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create creates a draft budget with its items
func (s *BudgetService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateBudgetRequest) (*BudgetResponse, error) {
	b, err := finance.NewBudget(tenantID, req.Name, req.FiscalYear, req.StartDate.Time, req.EndDate.Time)
	if err != nil {
		return nil, err
	}
	if req.DepartmentID != nil || req.Notes != "" {
		if err := b.Update(b.Name, b.FiscalYear, b.StartDate, b.EndDate, req.DepartmentID, req.Notes); err != nil {
			return nil, err
		}
	}
	for _, item := range req.Items {
		if _, err := b.AddItem(item.Category, item.Description, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}
	b.SetCreatedBy(actorID)

	if err := s.budgetRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBudgetResponse(b)
	return &resp, nil
}

// GetByID retrieves a budget
func (s *BudgetService) GetByID(ctx context.Context, tenantID, budgetID uuid.UUID) (*BudgetResponse, error) {
	b, err := s.budgetRepo.FindByIDForTenant(ctx, tenantID, budgetID)
	if err != nil {
		return nil, err
	}
	resp := ToBudgetResponse(b)
	return &resp, nil
}

// List retrieves budgets with filtering and pagination
func (s *BudgetService) List(ctx context.Context, tenantID uuid.UUID, f BudgetListFilter) ([]BudgetResponse, int64, error) {
	filter, err := f.ToFilter()
	if err != nil {
		return nil, 0, err
	}
	budgets, err := s.budgetRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.budgetRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		out[i] = ToBudgetResponse(&budgets[i])
	}
	return out, total, nil
}

// Update replaces the header of a draft budget
func (s *BudgetService) Update(ctx context.Context, tenantID, budgetID uuid.UUID, req UpdateBudgetRequest) (*BudgetResponse, error) {
	return s.mutate(ctx, tenantID, budgetID, func(b *finance.Budget) error {
		return b.Update(req.Name, req.FiscalYear, req.StartDate.Time, req.EndDate.Time, req.DepartmentID, req.Notes)
	})
}

// AddItem appends a planned cost line
func (s *BudgetService) AddItem(ctx context.Context, tenantID, budgetID uuid.UUID, req BudgetItemInput) (*BudgetResponse, error) {
	return s.mutate(ctx, tenantID, budgetID, func(b *finance.Budget) error {
		_, err := b.AddItem(req.Category, req.Description, req.Quantity, req.UnitPrice)
		return err
	})
}

// UpdateItem changes a planned cost line
func (s *BudgetService) UpdateItem(ctx context.Context, tenantID, budgetID, itemID uuid.UUID, req BudgetItemInput) (*BudgetResponse, error) {
	return s.mutate(ctx, tenantID, budgetID, func(b *finance.Budget) error {
		return b.UpdateItem(itemID, req.Category, req.Description, req.Quantity, req.UnitPrice)
	})
}

// RemoveItem deletes a planned cost line
func (s *BudgetService) RemoveItem(ctx context.Context, tenantID, budgetID, itemID uuid.UUID) (*BudgetResponse, error) {
	return s.mutate(ctx, tenantID, budgetID, func(b *finance.Budget) error {
		return b.RemoveItem(itemID)
	})
}

// Approve moves a draft budget to approved
func (s *BudgetService) Approve(ctx context.Context, tenantID, actorID, budgetID uuid.UUID) (*BudgetResponse, error) {
	resp, err := s.mutate(ctx, tenantID, budgetID, func(b *finance.Budget) error {
		return b.Approve(actorID)
	})
	if err == nil {
		s.logger.Info("Budget approved", zap.String("budget_id", budgetID.String()), zap.String("by", actorID.String()))
	}
	return resp, err
}

// RecordExpense adds actual spend to an item of an approved budget
func (s *BudgetService) RecordExpense(ctx context.Context, tenantID, budgetID uuid.UUID, req RecordExpenseRequest) (*BudgetResponse, error) {
	resp, err := s.mutate(ctx, tenantID, budgetID, func(b *finance.Budget) error {
		return b.RecordExpense(req.ItemID, req.Amount)
	})
	if err == nil && resp.IsOverBudget {
		s.logger.Warn("Budget exceeded",
			zap.String("budget_id", budgetID.String()),
			zap.String("total", resp.TotalAmount.StringFixed(2)),
			zap.String("spent", resp.SpentAmount.StringFixed(2)))
	}
	return resp, err
}

// Close ends an approved budget
func (s *BudgetService) Close(ctx context.Context, tenantID, budgetID uuid.UUID) (*BudgetResponse, error) {
	return s.mutate(ctx, tenantID, budgetID, func(b *finance.Budget) error {
		return b.Close()
	})
}

// Delete cancels a draft budget
func (s *BudgetService) Delete(ctx context.Context, tenantID, budgetID uuid.UUID) error {
	_, err := s.mutate(ctx, tenantID, budgetID, func(b *finance.Budget) error {
		return b.Cancel()
	})
	return err
}

func (s *BudgetService) mutate(ctx context.Context, tenantID, budgetID uuid.UUID, fn func(*finance.Budget) error) (*BudgetResponse, error) {
	b, err := s.budgetRepo.FindByIDForTenant(ctx, tenantID, budgetID)
	if err != nil {
		return nil, err
	}
	if err := fn(b); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.publisher, s.logger, b)
	resp := ToBudgetResponse(b)
	return &resp, nil
}
