package persistence

import (
	"context"
	"errors"

	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var requestNumbers = newYearlySequence("procurement_requests", "request_number", "REQ")

// GormProcurementRequestRepository implements purchasing.ProcurementRequestRepository using GORM
type GormProcurementRequestRepository struct {
	db *gorm.DB
}

// NewGormProcurementRequestRepository creates a new GormProcurementRequestRepository
func NewGormProcurementRequestRepository(db *gorm.DB) *GormProcurementRequestRepository {
	return &GormProcurementRequestRepository{db: db}
}

// FindByIDForTenant finds a procurement request within a tenant
func (r *GormProcurementRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.ProcurementRequest, error) {
	var model models.ProcurementRequestModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds procurement requests with filtering
func (r *GormProcurementRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]purchasing.ProcurementRequest, error) {
	var requestModels []models.ProcurementRequestModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProcurementRequestModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPaging(query, filter, ProcurementRequestSortFields, "created_at")

	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}
	requests := make([]purchasing.ProcurementRequest, len(requestModels))
	for i := range requestModels {
		requests[i] = *requestModels[i].ToDomain()
	}
	return requests, nil
}

// CountForTenant counts procurement requests matching the filter
func (r *GormProcurementRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProcurementRequestModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a procurement request
func (r *GormProcurementRequestRepository) Save(ctx context.Context, request *purchasing.ProcurementRequest) error {
	return r.db.WithContext(ctx).Save(models.ProcurementRequestModelFromDomain(request)).Error
}

// GenerateRequestNumber returns the next REQ-YYYY-NNNNN number
func (r *GormProcurementRequestRepository) GenerateRequestNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return requestNumbers.Next(ctx, r.db, tenantID)
}

func (r *GormProcurementRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("request_number ILIKE ? OR title ILIKE ? OR description ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "department_id":
			query = query.Where("department_id = ?", value)
		case "requested_by":
			query = query.Where("requested_by = ?", value)
		case "needed_by_before":
			query = query.Where("needed_by <= ?", value)
		case "cost_min":
			query = query.Where("estimated_cost >= ?", value)
		case "cost_max":
			query = query.Where("estimated_cost <= ?", value)
		}
	}
	return query
}

var _ purchasing.ProcurementRequestRepository = (*GormProcurementRequestRepository)(nil)
