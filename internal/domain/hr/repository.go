package hr

import (
	"context"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

// DepartmentRepository defines the interface for department persistence
type DepartmentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Department, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Department, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error)
	// CountEmployees counts non-terminated employees per department
	CountEmployees(ctx context.Context, tenantID uuid.UUID, departmentIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	Save(ctx context.Context, department *Department) error
}

// EmployeeRepository defines the interface for employee persistence
type EmployeeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)
	// FindByIDForUpdate finds an employee and locks its row for the rest of the transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Employee, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, employee *Employee) error
	// GenerateEmployeeNumber returns the next EMP-NNNNN number
	GenerateEmployeeNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// PayrollRepository defines the interface for payroll persistence
type PayrollRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payroll, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Payroll, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// ExistsForPeriod checks for a non-cancelled payroll of the employee with the same period
	ExistsForPeriod(ctx context.Context, tenantID, employeeID uuid.UUID, start, end time.Time) (bool, error)
	Save(ctx context.Context, payroll *Payroll) error
	// GeneratePayrollNumber returns the next PRL-YYYY-NNNNN number
	GeneratePayrollNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// LeaveRequestRepository defines the interface for leave request persistence
type LeaveRequestRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*LeaveRequest, error)
	// FindByIDForUpdate finds a leave request and locks its row for the rest of the transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*LeaveRequest, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LeaveRequest, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// SumDays totals leave days of an employee by status for annual leave starting in the year
	SumAnnualDays(ctx context.Context, tenantID, employeeID uuid.UUID, year int, status LeaveStatus) (int, error)
	Save(ctx context.Context, request *LeaveRequest) error
}

// PolicyRepository defines the interface for policy persistence
type PolicyRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Policy, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Policy, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, policy *Policy) error
}

// PolicyAcknowledgmentRepository is append-only
type PolicyAcknowledgmentRepository interface {
	// Exists checks whether the employee acknowledged the given policy version
	Exists(ctx context.Context, tenantID, policyID, employeeID uuid.UUID, version int) (bool, error)
	FindByPolicy(ctx context.Context, tenantID, policyID uuid.UUID, filter shared.Filter) ([]PolicyAcknowledgment, error)
	CountByPolicy(ctx context.Context, tenantID, policyID uuid.UUID) (int64, error)
	Create(ctx context.Context, ack *PolicyAcknowledgment) error
}
