package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDepartmentRepository implements hr.DepartmentRepository using GORM
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewGormDepartmentRepository creates a new GormDepartmentRepository
func NewGormDepartmentRepository(db *gorm.DB) *GormDepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// FindByIDForTenant finds a department within a tenant
func (r *GormDepartmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Department, error) {
	var model models.DepartmentModel
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

// FindAllForTenant finds departments with filtering
func (r *GormDepartmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Department, error) {
	var departmentModels []models.DepartmentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DepartmentModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPaging(query, filter, DepartmentSortFields, "name")

	if err := query.Find(&departmentModels).Error; err != nil {
		return nil, err
	}
	departments := make([]hr.Department, len(departmentModels))
	for i := range departmentModels {
		departments[i] = *departmentModels[i].ToDomain()
	}
	return departments, nil
}

// CountForTenant counts departments matching the filter
func (r *GormDepartmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DepartmentModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks whether a department code is taken, ignoring excludeID
func (r *GormDepartmentRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DepartmentModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountEmployees counts non-terminated employees per department
func (r *GormDepartmentRepository) CountEmployees(ctx context.Context, tenantID uuid.UUID, departmentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(departmentIDs))
	if len(departmentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		DepartmentID uuid.UUID
		Count        int64
	}
	if err := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).
		Select("department_id, COUNT(*) AS count").
		Where("tenant_id = ? AND department_id IN ? AND status <> ?", tenantID, departmentIDs, hr.EmployeeStatusTerminated).
		Group("department_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.DepartmentID] = row.Count
	}
	return counts, nil
}

// Save creates or updates a department
func (r *GormDepartmentRepository) Save(ctx context.Context, department *hr.Department) error {
	return r.db.WithContext(ctx).Save(models.DepartmentModelFromDomain(department)).Error
}

func (r *GormDepartmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern)
	}
	if v, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", v)
	}
	return query
}

var _ hr.DepartmentRepository = (*GormDepartmentRepository)(nil)
