package hr

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrDuplicatePayroll is returned when the employee already has a non-cancelled
// payroll for the period
var ErrDuplicatePayroll = shared.NewDomainError("DUPLICATE_PAYROLL", "A payroll already exists for this employee and period")

// PayrollStatus represents the status of a payroll run for one employee
type PayrollStatus string

const (
	PayrollStatusDraft     PayrollStatus = "draft"
	PayrollStatusApproved  PayrollStatus = "approved"
	PayrollStatusPaid      PayrollStatus = "paid"
	PayrollStatusCancelled PayrollStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s PayrollStatus) IsValid() bool {
	switch s {
	case PayrollStatusDraft, PayrollStatusApproved, PayrollStatusPaid, PayrollStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s PayrollStatus) String() string {
	return string(s)
}

// PayrollAmounts are the inputs from which gross and net pay are derived
type PayrollAmounts struct {
	BaseSalary         decimal.Decimal
	OvertimePay        decimal.Decimal
	Bonus              decimal.Decimal
	Allowances         decimal.Decimal
	TaxDeduction       decimal.Decimal
	InsuranceDeduction decimal.Decimal
	OtherDeductions    decimal.Decimal
}

// Payroll is the pay slip of one employee for one period.
// GrossPay and NetPay are derived: net = gross - deductions.
type Payroll struct {
	shared.TenantAggregateRoot
	PayrollNumber string
	EmployeeID    uuid.UUID
	PeriodStart   time.Time
	PeriodEnd     time.Time
	PayrollAmounts
	GrossPay         decimal.Decimal
	TotalDeductions  decimal.Decimal
	NetPay           decimal.Decimal
	Status           PayrollStatus
	Notes            string
	ApprovedBy       *uuid.UUID
	ApprovedAt       *time.Time
	PaidAt           *time.Time
	PaymentReference string
}

// NewPayroll creates a draft payroll for an employee
func NewPayroll(tenantID uuid.UUID, payrollNumber string, employee *Employee, periodStart, periodEnd time.Time, amounts PayrollAmounts) (*Payroll, error) {
	if employee.IsTerminated() && (employee.TerminationDate == nil || employee.TerminationDate.Before(periodStart)) {
		return nil, shared.NewDomainError("EMPLOYEE_TERMINATED", "Cannot create payroll for a terminated employee")
	}
	if periodStart.IsZero() || periodEnd.IsZero() {
		return nil, shared.NewValidationError("period_start", "Period start and end are required")
	}
	if periodEnd.Before(periodStart) {
		return nil, shared.NewValidationError("period_end", "Period end cannot be before period start")
	}
	if amounts.BaseSalary.IsZero() {
		amounts.BaseSalary = employee.BaseSalary
	}

	p := &Payroll{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PayrollNumber:       payrollNumber,
		EmployeeID:          employee.ID,
		PeriodStart:         truncateDay(periodStart),
		PeriodEnd:           truncateDay(periodEnd),
		Status:              PayrollStatusDraft,
	}
	if err := p.setAmounts(amounts); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateAmounts replaces the pay components of a draft payroll
func (p *Payroll) UpdateAmounts(amounts PayrollAmounts, notes string) error {
	if p.Status != PayrollStatusDraft {
		return shared.InvalidTransition("update payroll", p.Status)
	}
	if err := p.setAmounts(amounts); err != nil {
		return err
	}
	p.Notes = notes
	p.touch()
	return nil
}

func (p *Payroll) setAmounts(a PayrollAmounts) error {
	v := &shared.ValidationError{}
	for field, value := range map[string]decimal.Decimal{
		"base_salary": a.BaseSalary, "overtime_pay": a.OvertimePay, "bonus": a.Bonus, "allowances": a.Allowances,
		"tax_deduction": a.TaxDeduction, "insurance_deduction": a.InsuranceDeduction, "other_deductions": a.OtherDeductions,
	} {
		if value.IsNegative() {
			v.Add(field, "Amount cannot be negative")
		}
	}
	if err := v.OrNil(); err != nil {
		return err
	}

	gross := a.BaseSalary.Add(a.OvertimePay).Add(a.Bonus).Add(a.Allowances)
	deductions := a.TaxDeduction.Add(a.InsuranceDeduction).Add(a.OtherDeductions)
	if deductions.GreaterThan(gross) {
		return shared.NewDomainError("INVALID_DEDUCTIONS", "Deductions cannot exceed gross pay")
	}

	p.PayrollAmounts = a
	p.GrossPay = shared.RoundMoney(gross)
	p.TotalDeductions = shared.RoundMoney(deductions)
	p.NetPay = p.GrossPay.Sub(p.TotalDeductions)
	return nil
}

// Approve locks a draft payroll for payment
func (p *Payroll) Approve(approverID uuid.UUID) error {
	if p.Status != PayrollStatusDraft {
		return shared.InvalidTransition("approve payroll", p.Status)
	}
	now := time.Now()
	p.Status = PayrollStatusApproved
	p.ApprovedBy = &approverID
	p.ApprovedAt = &now
	p.touch()
	p.AddDomainEvent(NewPayrollApprovedEvent(p, approverID))
	return nil
}

// MarkPaid records the disbursement of an approved payroll
func (p *Payroll) MarkPaid(reference string) error {
	if p.Status != PayrollStatusApproved {
		return shared.InvalidTransition("pay payroll", p.Status)
	}
	now := time.Now()
	p.Status = PayrollStatusPaid
	p.PaidAt = &now
	p.PaymentReference = strings.TrimSpace(reference)
	p.touch()
	p.AddDomainEvent(NewPayrollPaidEvent(p))
	return nil
}

// Cancel voids a payroll that has not been paid
func (p *Payroll) Cancel() error {
	if p.Status != PayrollStatusDraft && p.Status != PayrollStatusApproved {
		return shared.InvalidTransition("cancel payroll", p.Status)
	}
	p.Status = PayrollStatusCancelled
	p.touch()
	return nil
}

func (p *Payroll) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
