package persistence

import (
	"context"
	"errors"

	"github.com/erp/platform/internal/domain/finance"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBudgetRepository implements finance.BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

func orderBudgetItems(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// FindByIDForTenant finds a budget with its items
func (r *GormBudgetRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Budget, error) {
	var model models.BudgetModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderBudgetItems).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds budgets with filtering
func (r *GormBudgetRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Budget, error) {
	var budgetModels []models.BudgetModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BudgetModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPaging(query, filter, BudgetSortFields, "created_at")

	if err := query.Preload("Items", orderBudgetItems).Find(&budgetModels).Error; err != nil {
		return nil, err
	}
	budgets := make([]finance.Budget, len(budgetModels))
	for i := range budgetModels {
		budgets[i] = *budgetModels[i].ToDomain()
	}
	return budgets, nil
}

// CountForTenant counts budgets matching the filter
func (r *GormBudgetRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BudgetModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a budget and replaces its item set
func (r *GormBudgetRepository) Save(ctx context.Context, budget *finance.Budget) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(models.BudgetModelFromDomain(budget)).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, len(budget.Items))
		for i, item := range budget.Items {
			keep[i] = item.ID
		}
		if err := pruneItems(tx, &models.BudgetItemModel{}, "budget_id", budget.ID, keep); err != nil {
			return err
		}

		for i := range budget.Items {
			budget.Items[i].BudgetID = budget.ID
			if err := tx.Save(models.BudgetItemModelFromDomain(&budget.Items[i])).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormBudgetRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR notes ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "fiscal_year":
			query = query.Where("fiscal_year = ?", value)
		case "department_id":
			query = query.Where("department_id = ?", value)
		case "total_min":
			query = query.Where("total_amount >= ?", value)
		case "total_max":
			query = query.Where("total_amount <= ?", value)
		}
	}
	return query
}

var _ finance.BudgetRepository = (*GormBudgetRepository)(nil)
