package persistence

import (
	"context"
	"errors"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLeaveRequestRepository implements hr.LeaveRequestRepository using GORM
type GormLeaveRequestRepository struct {
	db *gorm.DB
}

// NewGormLeaveRequestRepository creates a new GormLeaveRequestRepository
func NewGormLeaveRequestRepository(db *gorm.DB) *GormLeaveRequestRepository {
	return &GormLeaveRequestRepository{db: db}
}

// FindByIDForTenant finds a leave request within a tenant
func (r *GormLeaveRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.LeaveRequest, error) {
	return r.find(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds a leave request and locks its row until the surrounding transaction ends
func (r *GormLeaveRequestRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*hr.LeaveRequest, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, id)
}

func (r *GormLeaveRequestRepository) find(query *gorm.DB, tenantID, id uuid.UUID) (*hr.LeaveRequest, error) {
	var model models.LeaveRequestModel
	if err := query.
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds leave requests with filtering
func (r *GormLeaveRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.LeaveRequest, error) {
	var requestModels []models.LeaveRequestModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LeaveRequestModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPaging(query, filter, LeaveRequestSortFields, "start_date")

	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}
	requests := make([]hr.LeaveRequest, len(requestModels))
	for i := range requestModels {
		requests[i] = *requestModels[i].ToDomain()
	}
	return requests, nil
}

// CountForTenant counts leave requests matching the filter
func (r *GormLeaveRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LeaveRequestModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumAnnualDays totals annual leave days of an employee with the given status starting in year
func (r *GormLeaveRequestRepository) SumAnnualDays(ctx context.Context, tenantID, employeeID uuid.UUID, year int, status hr.LeaveStatus) (int, error) {
	var total int
	if err := r.db.WithContext(ctx).Model(&models.LeaveRequestModel{}).
		Select("COALESCE(SUM(days), 0)").
		Where("tenant_id = ? AND employee_id = ? AND leave_type = ? AND status = ?",
			tenantID, employeeID, hr.LeaveTypeAnnual, status).
		Where("EXTRACT(YEAR FROM start_date) = ?", year).
		Row().Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Save creates or updates a leave request
func (r *GormLeaveRequestRepository) Save(ctx context.Context, request *hr.LeaveRequest) error {
	return r.db.WithContext(ctx).Save(models.LeaveRequestModelFromDomain(request)).Error
}

func (r *GormLeaveRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("reason ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "employee_id":
			query = query.Where("employee_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "leave_type":
			query = query.Where("leave_type = ?", value)
		case "start_date_after":
			query = query.Where("start_date >= ?", value)
		case "start_date_before":
			query = query.Where("start_date <= ?", value)
		}
	}
	return query
}

var _ hr.LeaveRequestRepository = (*GormLeaveRequestRepository)(nil)
