package hr

import (
	"time"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Departments
// ---------------------------------------------------------------------------

// DepartmentRequest creates or replaces a department
type DepartmentRequest struct {
	Name        string     `json:"name" binding:"required,max=100"`
	Code        string     `json:"code" binding:"required,max=20"`
	Description string     `json:"description"`
	ManagerID   *uuid.UUID `json:"manager_id"`
}

// DepartmentListFilter holds the department list query parameters
type DepartmentListFilter struct {
	shared.PageParams
	IsActive *bool `form:"is_active"`
}

// ToFilter converts query parameters to a repository filter
func (f DepartmentListFilter) ToFilter() shared.Filter {
	filter := f.PageParams.Filter()
	filter.Set("is_active", f.IsActive)
	return filter
}

// DepartmentResponse is the wire shape of a department
type DepartmentResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Code          string     `json:"code"`
	Description   string     `json:"description,omitempty"`
	ManagerID     *uuid.UUID `json:"manager_id,omitempty"`
	IsActive      bool       `json:"is_active"`
	EmployeeCount int64      `json:"employee_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToDepartmentResponse maps a department to its response
func ToDepartmentResponse(d *hr.Department, employeeCount int64) DepartmentResponse {
	return DepartmentResponse{
		ID:            d.ID,
		Name:          d.Name,
		Code:          d.Code,
		Description:   d.Description,
		ManagerID:     d.ManagerID,
		IsActive:      d.IsActive,
		EmployeeCount: employeeCount,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Employees
// ---------------------------------------------------------------------------

// EmployeeRequest creates or replaces an employee profile
type EmployeeRequest struct {
	FirstName       string           `json:"first_name" binding:"required,max=100"`
	LastName        string           `json:"last_name" binding:"required,max=100"`
	Email           string           `json:"email" binding:"required,email"`
	Phone           string           `json:"phone" binding:"max=50"`
	DepartmentID    *uuid.UUID       `json:"department_id"`
	Position        string           `json:"position" binding:"max=100"`
	EmploymentType  string           `json:"employment_type" binding:"omitempty,oneof=full_time part_time contract intern"`
	HireDate        valueobject.Date `json:"hire_date" binding:"required"`
	BaseSalary      decimal.Decimal  `json:"base_salary"`
	AnnualLeaveDays int              `json:"annual_leave_days" binding:"min=0,max=366"`
	UserID          *uuid.UUID       `json:"user_id"`
}

func (r EmployeeRequest) details() hr.EmployeeDetails {
	return hr.EmployeeDetails{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Phone:           r.Phone,
		DepartmentID:    r.DepartmentID,
		Position:        r.Position,
		EmploymentType:  hr.EmploymentType(r.EmploymentType),
		HireDate:        r.HireDate.Time,
		BaseSalary:      r.BaseSalary,
		AnnualLeaveDays: r.AnnualLeaveDays,
		UserID:          r.UserID,
	}
}

// TerminateEmployeeRequest ends an employment
type TerminateEmployeeRequest struct {
	TerminationDate valueobject.Date `json:"termination_date"`
	Reason          string           `json:"reason" binding:"max=500"`
}

// EmployeeListFilter holds the employee list query parameters
type EmployeeListFilter struct {
	shared.PageParams
	DepartmentID   string     `form:"department_id" binding:"omitempty,uuid"`
	Status         string     `form:"status" binding:"omitempty,oneof=active on_leave terminated"`
	EmploymentType string     `form:"employment_type" binding:"omitempty,oneof=full_time part_time contract intern"`
	HireDateAfter  *time.Time `form:"hire_date_after" time_format:"2006-01-02"`
	HireDateBefore *time.Time `form:"hire_date_before" time_format:"2006-01-02"`
	SalaryMin      string     `form:"salary_min" binding:"omitempty,numeric"`
	SalaryMax      string     `form:"salary_max" binding:"omitempty,numeric"`
}

// ToFilter converts query parameters to a repository filter. Malformed
// numeric bounds are reported as validation errors.
func (f EmployeeListFilter) ToFilter() (shared.Filter, error) {
	filter := f.PageParams.Filter()
	errs := &shared.ValidationError{}
	filter.Set("department_id", f.DepartmentID)
	filter.Set("status", f.Status)
	filter.Set("employment_type", f.EmploymentType)
	filter.Set("hire_date_after", f.HireDateAfter)
	filter.Set("hire_date_before", f.HireDateBefore)
	filter.SetDecimal(errs, "salary_min", f.SalaryMin)
	filter.SetDecimal(errs, "salary_max", f.SalaryMax)
	return filter, errs.OrNil()
}

// EmployeeResponse is the wire shape of an employee
type EmployeeResponse struct {
	ID                uuid.UUID         `json:"id"`
	EmployeeNumber    string            `json:"employee_number"`
	UserID            *uuid.UUID        `json:"user_id,omitempty"`
	FirstName         string            `json:"first_name"`
	LastName          string            `json:"last_name"`
	FullName          string            `json:"full_name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone,omitempty"`
	DepartmentID      *uuid.UUID        `json:"department_id,omitempty"`
	Position          string            `json:"position,omitempty"`
	EmploymentType    string            `json:"employment_type"`
	Status            string            `json:"status"`
	HireDate          valueobject.Date  `json:"hire_date"`
	TerminationDate   *valueobject.Date `json:"termination_date,omitempty"`
	TerminationReason string            `json:"termination_reason,omitempty"`
	BaseSalary        decimal.Decimal   `json:"base_salary"`
	AnnualLeaveDays   int               `json:"annual_leave_days"`
	YearsOfService    int               `json:"years_of_service"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// ToEmployeeResponse maps an employee to its response
func ToEmployeeResponse(e *hr.Employee, now time.Time) EmployeeResponse {
	return EmployeeResponse{
		ID:                e.ID,
		EmployeeNumber:    e.EmployeeNumber,
		UserID:            e.UserID,
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		FullName:          e.FullName(),
		Email:             e.Email,
		Phone:             e.Phone,
		DepartmentID:      e.DepartmentID,
		Position:          e.Position,
		EmploymentType:    string(e.EmploymentType),
		Status:            string(e.Status),
		HireDate:          valueobject.NewDate(e.HireDate),
		TerminationDate:   valueobject.DatePtr(e.TerminationDate),
		TerminationReason: e.TerminationReason,
		BaseSalary:        e.BaseSalary,
		AnnualLeaveDays:   e.AnnualLeaveDays,
		YearsOfService:    e.YearsOfService(now),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Payroll
// ---------------------------------------------------------------------------

// PayrollAmountsInput are the pay components of a payroll request
type PayrollAmountsInput struct {
	BaseSalary         decimal.Decimal `json:"base_salary"`
	OvertimePay        decimal.Decimal `json:"overtime_pay"`
	Bonus              decimal.Decimal `json:"bonus"`
	Allowances         decimal.Decimal `json:"allowances"`
	TaxDeduction       decimal.Decimal `json:"tax_deduction"`
	InsuranceDeduction decimal.Decimal `json:"insurance_deduction"`
	OtherDeductions    decimal.Decimal `json:"other_deductions"`
}

func (a PayrollAmountsInput) amounts() hr.PayrollAmounts {
	return hr.PayrollAmounts{
		BaseSalary:         a.BaseSalary,
		OvertimePay:        a.OvertimePay,
		Bonus:              a.Bonus,
		Allowances:         a.Allowances,
		TaxDeduction:       a.TaxDeduction,
		InsuranceDeduction: a.InsuranceDeduction,
		OtherDeductions:    a.OtherDeductions,
	}
}

// CreatePayrollRequest creates a draft payroll. A zero base salary takes the employee's salary.
type CreatePayrollRequest struct {
	EmployeeID  uuid.UUID        `json:"employee_id" binding:"required"`
	PeriodStart valueobject.Date `json:"period_start" binding:"required"`
	PeriodEnd   valueobject.Date `json:"period_end" binding:"required"`
	PayrollAmountsInput
	Notes string `json:"notes"`
}

// UpdatePayrollRequest replaces the pay components of a draft payroll
type UpdatePayrollRequest struct {
	PayrollAmountsInput
	Notes string `json:"notes"`
}

// PayPayrollRequest marks an approved payroll as paid
type PayPayrollRequest struct {
	PaymentReference string `json:"payment_reference" binding:"max=100"`
}

// PayrollListFilter holds the payroll list query parameters
type PayrollListFilter struct {
	shared.PageParams
	EmployeeID       string     `form:"employee_id" binding:"omitempty,uuid"`
	Status           string     `form:"status" binding:"omitempty,oneof=draft approved paid cancelled"`
	PeriodStartAfter *time.Time `form:"period_start_after" time_format:"2006-01-02"`
	PeriodEndBefore  *time.Time `form:"period_end_before" time_format:"2006-01-02"`
	NetMin           string     `form:"net_min" binding:"omitempty,numeric"`
	NetMax           string     `form:"net_max" binding:"omitempty,numeric"`
}

// ToFilter converts query parameters to a repository filter. Malformed
// numeric bounds are reported as validation errors.
func (f PayrollListFilter) ToFilter() (shared.Filter, error) {
	filter := f.PageParams.Filter()
	errs := &shared.ValidationError{}
	filter.Set("employee_id", f.EmployeeID)
	filter.Set("status", f.Status)
	filter.Set("period_start_after", f.PeriodStartAfter)
	filter.Set("period_end_before", f.PeriodEndBefore)
	filter.SetDecimal(errs, "net_min", f.NetMin)
	filter.SetDecimal(errs, "net_max", f.NetMax)
	return filter, errs.OrNil()
}

// PayrollResponse is the wire shape of a payroll
type PayrollResponse struct {
	ID                 uuid.UUID        `json:"id"`
	PayrollNumber      string           `json:"payroll_number"`
	EmployeeID         uuid.UUID        `json:"employee_id"`
	PeriodStart        valueobject.Date `json:"period_start"`
	PeriodEnd          valueobject.Date `json:"period_end"`
	BaseSalary         decimal.Decimal  `json:"base_salary"`
	OvertimePay        decimal.Decimal  `json:"overtime_pay"`
	Bonus              decimal.Decimal  `json:"bonus"`
	Allowances         decimal.Decimal  `json:"allowances"`
	TaxDeduction       decimal.Decimal  `json:"tax_deduction"`
	InsuranceDeduction decimal.Decimal  `json:"insurance_deduction"`
	OtherDeductions    decimal.Decimal  `json:"other_deductions"`
	GrossPay           decimal.Decimal  `json:"gross_pay"`
	TotalDeductions    decimal.Decimal  `json:"total_deductions"`
	NetPay             decimal.Decimal  `json:"net_pay"`
	Status             string           `json:"status"`
	Notes              string           `json:"notes,omitempty"`
	ApprovedBy         *uuid.UUID       `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time       `json:"approved_at,omitempty"`
	PaidAt             *time.Time       `json:"paid_at,omitempty"`
	PaymentReference   string           `json:"payment_reference,omitempty"`
	CreatedBy          *uuid.UUID       `json:"created_by,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// ToPayrollResponse maps a payroll to its response
func ToPayrollResponse(p *hr.Payroll) PayrollResponse {
	return PayrollResponse{
		ID:                 p.ID,
		PayrollNumber:      p.PayrollNumber,
		EmployeeID:         p.EmployeeID,
		PeriodStart:        valueobject.NewDate(p.PeriodStart),
		PeriodEnd:          valueobject.NewDate(p.PeriodEnd),
		BaseSalary:         p.BaseSalary,
		OvertimePay:        p.OvertimePay,
		Bonus:              p.Bonus,
		Allowances:         p.Allowances,
		TaxDeduction:       p.TaxDeduction,
		InsuranceDeduction: p.InsuranceDeduction,
		OtherDeductions:    p.OtherDeductions,
		GrossPay:           p.GrossPay,
		TotalDeductions:    p.TotalDeductions,
		NetPay:             p.NetPay,
		Status:             string(p.Status),
		Notes:              p.Notes,
		ApprovedBy:         p.ApprovedBy,
		ApprovedAt:         p.ApprovedAt,
		PaidAt:             p.PaidAt,
		PaymentReference:   p.PaymentReference,
		CreatedBy:          p.CreatedBy,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Leave
// ---------------------------------------------------------------------------

// CreateLeaveRequest asks for time off
type CreateLeaveRequest struct {
	EmployeeID uuid.UUID        `json:"employee_id" binding:"required"`
	LeaveType  string           `json:"leave_type" binding:"required,oneof=annual sick unpaid maternity paternity other"`
	StartDate  valueobject.Date `json:"start_date" binding:"required"`
	EndDate    valueobject.Date `json:"end_date" binding:"required"`
	Reason     string           `json:"reason" binding:"max=1000"`
}

// ReviewLeaveRequest approves or rejects a leave request
type ReviewLeaveRequest struct {
	ReviewNotes string `json:"review_notes" binding:"max=1000"`
}

// LeaveListFilter holds the leave request list query parameters
type LeaveListFilter struct {
	shared.PageParams
	EmployeeID      string     `form:"employee_id" binding:"omitempty,uuid"`
	Status          string     `form:"status" binding:"omitempty,oneof=pending approved rejected cancelled"`
	LeaveType       string     `form:"leave_type" binding:"omitempty,oneof=annual sick unpaid maternity paternity other"`
	StartDateAfter  *time.Time `form:"start_date_after" time_format:"2006-01-02"`
	StartDateBefore *time.Time `form:"start_date_before" time_format:"2006-01-02"`
}

// ToFilter converts query parameters to a repository filter
func (f LeaveListFilter) ToFilter() shared.Filter {
	filter := f.PageParams.Filter()
	filter.Set("employee_id", f.EmployeeID)
	filter.Set("status", f.Status)
	filter.Set("leave_type", f.LeaveType)
	filter.Set("start_date_after", f.StartDateAfter)
	filter.Set("start_date_before", f.StartDateBefore)
	return filter
}

// LeaveResponse is the wire shape of a leave request
type LeaveResponse struct {
	ID          uuid.UUID        `json:"id"`
	EmployeeID  uuid.UUID        `json:"employee_id"`
	LeaveType   string           `json:"leave_type"`
	StartDate   valueobject.Date `json:"start_date"`
	EndDate     valueobject.Date `json:"end_date"`
	Days        int              `json:"days"`
	Reason      string           `json:"reason,omitempty"`
	Status      string           `json:"status"`
	ReviewedBy  *uuid.UUID       `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time       `json:"reviewed_at,omitempty"`
	ReviewNotes string           `json:"review_notes,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ToLeaveResponse maps a leave request to its response
func ToLeaveResponse(l *hr.LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:          l.ID,
		EmployeeID:  l.EmployeeID,
		LeaveType:   string(l.LeaveType),
		StartDate:   valueobject.NewDate(l.StartDate),
		EndDate:     valueobject.NewDate(l.EndDate),
		Days:        l.Days,
		Reason:      l.Reason,
		Status:      string(l.Status),
		ReviewedBy:  l.ReviewedBy,
		ReviewedAt:  l.ReviewedAt,
		ReviewNotes: l.ReviewNotes,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// LeaveBalanceResponse summarizes annual leave for one year
type LeaveBalanceResponse struct {
	EmployeeID  uuid.UUID `json:"employee_id"`
	Year        int       `json:"year"`
	Entitlement int       `json:"entitlement"`
	Used        int       `json:"used"`
	Pending     int       `json:"pending"`
	Remaining   int       `json:"remaining"`
}

// ---------------------------------------------------------------------------
// Policies
// ---------------------------------------------------------------------------

// PolicyRequest creates or revises a policy
type PolicyRequest struct {
	Title         string            `json:"title" binding:"required,max=200"`
	Category      string            `json:"category" binding:"max=100"`
	Content       string            `json:"content" binding:"required"`
	EffectiveDate *valueobject.Date `json:"effective_date"`
}

func (r PolicyRequest) effectiveDate() *time.Time {
	if r.EffectiveDate == nil || r.EffectiveDate.IsZero() {
		return nil
	}
	t := r.EffectiveDate.Time
	return &t
}

// AcknowledgePolicyRequest records that an employee read a policy
type AcknowledgePolicyRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	IPAddress  string    `json:"-"`
}

// PolicyListFilter holds the policy list query parameters
type PolicyListFilter struct {
	shared.PageParams
	Status   string `form:"status" binding:"omitempty,oneof=draft published archived"`
	Category string `form:"category"`
}

// ToFilter converts query parameters to a repository filter
func (f PolicyListFilter) ToFilter() shared.Filter {
	filter := f.PageParams.Filter()
	filter.Set("status", f.Status)
	filter.Set("category", f.Category)
	return filter
}

// PolicyResponse is the wire shape of a policy
type PolicyResponse struct {
	ID               uuid.UUID         `json:"id"`
	Title            string            `json:"title"`
	Category         string            `json:"category,omitempty"`
	Content          string            `json:"content"`
	Version          int               `json:"version"`
	EffectiveDate    *valueobject.Date `json:"effective_date,omitempty"`
	Status           string            `json:"status"`
	PublishedAt      *time.Time        `json:"published_at,omitempty"`
	Acknowledgements *int64            `json:"acknowledgment_count,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// ToPolicyResponse maps a policy to its response
func ToPolicyResponse(p *hr.Policy) PolicyResponse {
	return PolicyResponse{
		ID:            p.ID,
		Title:         p.Title,
		Category:      p.Category,
		Content:       p.Content,
		Version:       p.Revision,
		EffectiveDate: valueobject.DatePtr(p.EffectiveDate),
		Status:        string(p.Status),
		PublishedAt:   p.PublishedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// AcknowledgmentResponse is the wire shape of a policy acknowledgment
type AcknowledgmentResponse struct {
	ID             uuid.UUID `json:"id"`
	PolicyID       uuid.UUID `json:"policy_id"`
	EmployeeID     uuid.UUID `json:"employee_id"`
	PolicyVersion  int       `json:"policy_version"`
	AcknowledgedAt time.Time `json:"acknowledged_at"`
	IPAddress      string    `json:"ip_address,omitempty"`
}

// ToAcknowledgmentResponse maps an acknowledgment to its response
func ToAcknowledgmentResponse(a *hr.PolicyAcknowledgment) AcknowledgmentResponse {
	return AcknowledgmentResponse{
		ID:             a.ID,
		PolicyID:       a.PolicyID,
		EmployeeID:     a.EmployeeID,
		PolicyVersion:  a.PolicyVersion,
		AcknowledgedAt: a.AcknowledgedAt,
		IPAddress:      a.IPAddress,
	}
}
