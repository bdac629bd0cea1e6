package hr

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmploymentType describes the contract type
type EmploymentType string

const (
	EmploymentTypeFullTime EmploymentType = "full_time"
	EmploymentTypePartTime EmploymentType = "part_time"
	EmploymentTypeContract EmploymentType = "contract"
	EmploymentTypeIntern   EmploymentType = "intern"
)

// IsValid checks if the employment type is valid
func (t EmploymentType) IsValid() bool {
	switch t {
	case EmploymentTypeFullTime, EmploymentTypePartTime, EmploymentTypeContract, EmploymentTypeIntern:
		return true
	}
	return false
}

// EmployeeStatus represents the status of an employee
type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "active"
	EmployeeStatusOnLeave    EmployeeStatus = "on_leave"
	EmployeeStatusTerminated EmployeeStatus = "terminated"
)

// IsValid checks if the status is valid
func (s EmployeeStatus) IsValid() bool {
	switch s {
	case EmployeeStatusActive, EmployeeStatusOnLeave, EmployeeStatusTerminated:
		return true
	}
	return false
}

// String returns the string representation
func (s EmployeeStatus) String() string {
	return string(s)
}

// DefaultAnnualLeaveDays is granted when no entitlement is given
const DefaultAnnualLeaveDays = 20

// Employee is a person employed by the organization
type Employee struct {
	shared.TenantAggregateRoot
	EmployeeNumber    string
	UserID            *uuid.UUID
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	DepartmentID      *uuid.UUID
	Position          string
	EmploymentType    EmploymentType
	Status            EmployeeStatus
	HireDate          time.Time
	TerminationDate   *time.Time
	TerminationReason string
	BaseSalary        decimal.Decimal
	AnnualLeaveDays   int
}

// EmployeeDetails carries the mutable profile fields
type EmployeeDetails struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	DepartmentID    *uuid.UUID
	Position        string
	EmploymentType  EmploymentType
	HireDate        time.Time
	BaseSalary      decimal.Decimal
	AnnualLeaveDays int
	UserID          *uuid.UUID
}

// NewEmployee creates an active employee
func NewEmployee(tenantID uuid.UUID, employeeNumber string, d EmployeeDetails) (*Employee, error) {
	if d.EmploymentType == "" {
		d.EmploymentType = EmploymentTypeFullTime
	}
	if d.AnnualLeaveDays == 0 {
		d.AnnualLeaveDays = DefaultAnnualLeaveDays
	}
	if err := validateEmployee(d); err != nil {
		return nil, err
	}
	e := &Employee{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EmployeeNumber:      employeeNumber,
		Status:              EmployeeStatusActive,
	}
	e.apply(d)
	e.AddDomainEvent(NewEmployeeHiredEvent(e))
	return e, nil
}

// Update changes the employee profile
func (e *Employee) Update(d EmployeeDetails) error {
	if e.Status == EmployeeStatusTerminated {
		return shared.InvalidTransition("update employee", e.Status)
	}
	if d.EmploymentType == "" {
		d.EmploymentType = e.EmploymentType
	}
	if d.AnnualLeaveDays == 0 {
		d.AnnualLeaveDays = e.AnnualLeaveDays
	}
	if err := validateEmployee(d); err != nil {
		return err
	}
	e.apply(d)
	e.touch()
	return nil
}

func (e *Employee) apply(d EmployeeDetails) {
	e.FirstName = strings.TrimSpace(d.FirstName)
	e.LastName = strings.TrimSpace(d.LastName)
	e.Email = strings.ToLower(strings.TrimSpace(d.Email))
	e.Phone = strings.TrimSpace(d.Phone)
	e.DepartmentID = d.DepartmentID
	e.Position = strings.TrimSpace(d.Position)
	e.EmploymentType = d.EmploymentType
	e.HireDate = truncateDay(d.HireDate)
	e.BaseSalary = shared.RoundMoney(d.BaseSalary)
	e.AnnualLeaveDays = d.AnnualLeaveDays
	e.UserID = d.UserID
}

// SetOnLeave marks an active employee as away
func (e *Employee) SetOnLeave() error {
	if e.Status != EmployeeStatusActive {
		return shared.InvalidTransition("set employee on leave", e.Status)
	}
	e.Status = EmployeeStatusOnLeave
	e.touch()
	return nil
}

// ReturnFromLeave marks an employee on leave as active again
func (e *Employee) ReturnFromLeave() error {
	if e.Status != EmployeeStatusOnLeave {
		return shared.InvalidTransition("return employee from leave", e.Status)
	}
	e.Status = EmployeeStatusActive
	e.touch()
	return nil
}

// Terminate ends the employment
func (e *Employee) Terminate(date time.Time, reason string) error {
	if e.Status == EmployeeStatusTerminated {
		return shared.InvalidTransition("terminate employee", e.Status)
	}
	if date.IsZero() {
		date = time.Now()
	}
	if truncateDay(date).Before(e.HireDate) {
		return shared.NewValidationError("termination_date", "Termination date cannot be before hire date")
	}
	d := truncateDay(date)
	e.Status = EmployeeStatusTerminated
	e.TerminationDate = &d
	e.TerminationReason = strings.TrimSpace(reason)
	e.touch()
	e.AddDomainEvent(NewEmployeeTerminatedEvent(e))
	return nil
}

// IsTerminated returns true once employment has ended
func (e *Employee) IsTerminated() bool {
	return e.Status == EmployeeStatusTerminated
}

// FullName returns "First Last"
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// YearsOfService returns whole years between hire date and now, or the termination date
func (e *Employee) YearsOfService(now time.Time) int {
	end := now
	if e.TerminationDate != nil {
		end = *e.TerminationDate
	}
	years := end.Year() - e.HireDate.Year()
	if end.YearDay() < e.HireDate.YearDay() {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func (e *Employee) touch() {
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

func validateEmployee(d EmployeeDetails) error {
	v := &shared.ValidationError{}
	if strings.TrimSpace(d.FirstName) == "" {
		v.Add("first_name", "First name is required")
	}
	if strings.TrimSpace(d.LastName) == "" {
		v.Add("last_name", "Last name is required")
	}
	if !d.EmploymentType.IsValid() {
		v.Add("employment_type", "Invalid employment type")
	}
	if d.HireDate.IsZero() {
		v.Add("hire_date", "Hire date is required")
	}
	if d.BaseSalary.IsNegative() {
		v.Add("base_salary", "Base salary cannot be negative")
	}
	if d.AnnualLeaveDays < 0 || d.AnnualLeaveDays > 366 {
		v.Add("annual_leave_days", "Annual leave days must be between 0 and 366")
	}
	return v.OrNil()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
