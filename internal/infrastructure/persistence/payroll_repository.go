package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var payrollNumbers = newYearlySequence("payrolls", "payroll_number", "PRL")

// GormPayrollRepository implements hr.PayrollRepository using GORM
type GormPayrollRepository struct {
	db *gorm.DB
}

// NewGormPayrollRepository creates a new GormPayrollRepository
func NewGormPayrollRepository(db *gorm.DB) *GormPayrollRepository {
	return &GormPayrollRepository{db: db}
}

// FindByIDForTenant finds a payroll within a tenant
func (r *GormPayrollRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Payroll, error) {
	var model models.PayrollModel
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

// FindAllForTenant finds payrolls with filtering
func (r *GormPayrollRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Payroll, error) {
	var payrollModels []models.PayrollModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PayrollModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPaging(query, filter, PayrollSortFields, "period_start")

	if err := query.Find(&payrollModels).Error; err != nil {
		return nil, err
	}
	payrolls := make([]hr.Payroll, len(payrollModels))
	for i := range payrollModels {
		payrolls[i] = *payrollModels[i].ToDomain()
	}
	return payrolls, nil
}

// CountForTenant counts payrolls matching the filter
func (r *GormPayrollRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PayrollModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsForPeriod checks for a non-cancelled payroll of the employee with the same period
func (r *GormPayrollRepository) ExistsForPeriod(ctx context.Context, tenantID, employeeID uuid.UUID, start, end time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PayrollModel{}).
		Where("tenant_id = ? AND employee_id = ? AND period_start = ? AND period_end = ? AND status <> ?",
			tenantID, employeeID, start, end, hr.PayrollStatusCancelled).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a payroll. A second non-cancelled payroll for the
// same employee and period trips uq_payrolls_employee_period.
func (r *GormPayrollRepository) Save(ctx context.Context, payroll *hr.Payroll) error {
	err := r.db.WithContext(ctx).Save(models.PayrollModelFromDomain(payroll)).Error
	if isUniqueViolation(err, "uq_payrolls_employee_period") {
		return hr.ErrDuplicatePayroll
	}
	return err
}

// GeneratePayrollNumber returns the next PRL-YYYY-NNNNN number
func (r *GormPayrollRepository) GeneratePayrollNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return payrollNumbers.Next(ctx, r.db, tenantID)
}

func (r *GormPayrollRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("payroll_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "employee_id":
			query = query.Where("employee_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "period_start_after":
			query = query.Where("period_start >= ?", value)
		case "period_end_before":
			query = query.Where("period_end <= ?", value)
		case "net_min":
			query = query.Where("net_pay >= ?", value)
		case "net_max":
			query = query.Where("net_pay <= ?", value)
		}
	}
	return query
}

var _ hr.PayrollRepository = (*GormPayrollRepository)(nil)
