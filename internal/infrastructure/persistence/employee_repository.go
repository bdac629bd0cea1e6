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

var employeeNumbers = newPlainSequence("employees", "employee_number", "EMP")

// GormEmployeeRepository implements hr.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByIDForTenant finds an employee within a tenant
func (r *GormEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	return r.find(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds an employee and locks its row until the surrounding transaction ends
func (r *GormEmployeeRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, id)
}

func (r *GormEmployeeRepository) find(query *gorm.DB, tenantID, id uuid.UUID) (*hr.Employee, error) {
	var model models.EmployeeModel
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

// FindAllForTenant finds employees with filtering
func (r *GormEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employee, error) {
	var employeeModels []models.EmployeeModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPaging(query, filter, EmployeeSortFields, "employee_number")

	if err := query.Find(&employeeModels).Error; err != nil {
		return nil, err
	}
	employees := make([]hr.Employee, len(employeeModels))
	for i := range employeeModels {
		employees[i] = *employeeModels[i].ToDomain()
	}
	return employees, nil
}

// CountForTenant counts employees matching the filter
func (r *GormEmployeeRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *hr.Employee) error {
	return r.db.WithContext(ctx).Save(models.EmployeeModelFromDomain(employee)).Error
}

// GenerateEmployeeNumber returns the next EMP-NNNNN number
func (r *GormEmployeeRepository) GenerateEmployeeNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return employeeNumbers.Next(ctx, r.db, tenantID)
}

func (r *GormEmployeeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR employee_number ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "department_id":
			query = query.Where("department_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "employment_type":
			query = query.Where("employment_type = ?", value)
		case "hire_date_after":
			query = query.Where("hire_date >= ?", value)
		case "hire_date_before":
			query = query.Where("hire_date <= ?", value)
		case "salary_min":
			query = query.Where("base_salary >= ?", value)
		case "salary_max":
			query = query.Where("base_salary <= ?", value)
		}
	}
	return query
}

var _ hr.EmployeeRepository = (*GormEmployeeRepository)(nil)
