package models

import (
	"time"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepartmentModel is the persistence model for departments.
type DepartmentModel struct {
	TenantAggregateModel
	Name        string     `gorm:"type:varchar(100);not null"`
	Code        string     `gorm:"type:varchar(30);not null"`
	Description string     `gorm:"type:text"`
	ManagerID   *uuid.UUID `gorm:"type:uuid"`
	IsActive    bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (DepartmentModel) TableName() string {
	return "departments"
}

// ToDomain converts the persistence model to a domain Department.
func (m *DepartmentModel) ToDomain() *hr.Department {
	return &hr.Department{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Code:                m.Code,
		Description:         m.Description,
		ManagerID:           m.ManagerID,
		IsActive:            m.IsActive,
	}
}

// DepartmentModelFromDomain creates a new persistence model from a domain Department.
func DepartmentModelFromDomain(d *hr.Department) *DepartmentModel {
	m := &DepartmentModel{
		Name:        d.Name,
		Code:        d.Code,
		Description: d.Description,
		ManagerID:   d.ManagerID,
		IsActive:    d.IsActive,
	}
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	return m
}

// EmployeeModel is the persistence model for employees.
type EmployeeModel struct {
	TenantAggregateModel
	EmployeeNumber    string            `gorm:"type:varchar(30);not null"`
	UserID            *uuid.UUID        `gorm:"type:uuid"`
	FirstName         string            `gorm:"type:varchar(100);not null"`
	LastName          string            `gorm:"type:varchar(100);not null"`
	Email             string            `gorm:"type:varchar(254)"`
	Phone             string            `gorm:"type:varchar(50)"`
	DepartmentID      *uuid.UUID        `gorm:"type:uuid;index"`
	Position          string            `gorm:"type:varchar(100)"`
	EmploymentType    hr.EmploymentType `gorm:"type:varchar(20);not null"`
	Status            hr.EmployeeStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	HireDate          time.Time         `gorm:"type:date;not null"`
	TerminationDate   *time.Time        `gorm:"type:date"`
	TerminationReason string            `gorm:"type:text"`
	BaseSalary        decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	AnnualLeaveDays   int               `gorm:"not null;default:20"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee.
func (m *EmployeeModel) ToDomain() *hr.Employee {
	return &hr.Employee{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		EmployeeNumber:      m.EmployeeNumber,
		UserID:              m.UserID,
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		Email:               m.Email,
		Phone:               m.Phone,
		DepartmentID:        m.DepartmentID,
		Position:            m.Position,
		EmploymentType:      m.EmploymentType,
		Status:              m.Status,
		HireDate:            m.HireDate,
		TerminationDate:     m.TerminationDate,
		TerminationReason:   m.TerminationReason,
		BaseSalary:          m.BaseSalary,
		AnnualLeaveDays:     m.AnnualLeaveDays,
	}
}

// EmployeeModelFromDomain creates a new persistence model from a domain Employee.
func EmployeeModelFromDomain(e *hr.Employee) *EmployeeModel {
	m := &EmployeeModel{
		EmployeeNumber:    e.EmployeeNumber,
		UserID:            e.UserID,
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		Email:             e.Email,
		Phone:             e.Phone,
		DepartmentID:      e.DepartmentID,
		Position:          e.Position,
		EmploymentType:    e.EmploymentType,
		Status:            e.Status,
		HireDate:          e.HireDate,
		TerminationDate:   e.TerminationDate,
		TerminationReason: e.TerminationReason,
		BaseSalary:        e.BaseSalary,
		AnnualLeaveDays:   e.AnnualLeaveDays,
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	return m
}

// PayrollModel is the persistence model for payroll runs of one employee.
type PayrollModel struct {
	TenantAggregateModel
	PayrollNumber      string           `gorm:"type:varchar(30);not null"`
	EmployeeID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	PeriodStart        time.Time        `gorm:"type:date;not null"`
	PeriodEnd          time.Time        `gorm:"type:date;not null"`
	BaseSalary         decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	OvertimePay        decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	Bonus              decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	Allowances         decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	TaxDeduction       decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	InsuranceDeduction decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	OtherDeductions    decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	GrossPay           decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	TotalDeductions    decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	NetPay             decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	Status             hr.PayrollStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes              string           `gorm:"type:text"`
	ApprovedBy         *uuid.UUID       `gorm:"type:uuid"`
	ApprovedAt         *time.Time
	PaidAt             *time.Time
	PaymentReference   string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (PayrollModel) TableName() string {
	return "payrolls"
}

// ToDomain converts the persistence model to a domain Payroll.
func (m *PayrollModel) ToDomain() *hr.Payroll {
	return &hr.Payroll{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		PayrollNumber:       m.PayrollNumber,
		EmployeeID:          m.EmployeeID,
		PeriodStart:         m.PeriodStart,
		PeriodEnd:           m.PeriodEnd,
		PayrollAmounts: hr.PayrollAmounts{
			BaseSalary:         m.BaseSalary,
			OvertimePay:        m.OvertimePay,
			Bonus:              m.Bonus,
			Allowances:         m.Allowances,
			TaxDeduction:       m.TaxDeduction,
			InsuranceDeduction: m.InsuranceDeduction,
			OtherDeductions:    m.OtherDeductions,
		},
		GrossPay:         m.GrossPay,
		TotalDeductions:  m.TotalDeductions,
		NetPay:           m.NetPay,
		Status:           m.Status,
		Notes:            m.Notes,
		ApprovedBy:       m.ApprovedBy,
		ApprovedAt:       m.ApprovedAt,
		PaidAt:           m.PaidAt,
		PaymentReference: m.PaymentReference,
	}
}

// PayrollModelFromDomain creates a new persistence model from a domain Payroll.
func PayrollModelFromDomain(p *hr.Payroll) *PayrollModel {
	m := &PayrollModel{
		PayrollNumber:      p.PayrollNumber,
		EmployeeID:         p.EmployeeID,
		PeriodStart:        p.PeriodStart,
		PeriodEnd:          p.PeriodEnd,
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
		Status:             p.Status,
		Notes:              p.Notes,
		ApprovedBy:         p.ApprovedBy,
		ApprovedAt:         p.ApprovedAt,
		PaidAt:             p.PaidAt,
		PaymentReference:   p.PaymentReference,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// LeaveRequestModel is the persistence model for leave requests.
type LeaveRequestModel struct {
	TenantAggregateModel
	EmployeeID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	LeaveType   hr.LeaveType   `gorm:"type:varchar(20);not null"`
	StartDate   time.Time      `gorm:"type:date;not null"`
	EndDate     time.Time      `gorm:"type:date;not null"`
	Days        int            `gorm:"not null"`
	Reason      string         `gorm:"type:text"`
	Status      hr.LeaveStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewedBy  *uuid.UUID     `gorm:"type:uuid"`
	ReviewedAt  *time.Time
	ReviewNotes string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LeaveRequestModel) TableName() string {
	return "leave_requests"
}

// ToDomain converts the persistence model to a domain LeaveRequest.
func (m *LeaveRequestModel) ToDomain() *hr.LeaveRequest {
	return &hr.LeaveRequest{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		EmployeeID:          m.EmployeeID,
		LeaveType:           m.LeaveType,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		Days:                m.Days,
		Reason:              m.Reason,
		Status:              m.Status,
		ReviewedBy:          m.ReviewedBy,
		ReviewedAt:          m.ReviewedAt,
		ReviewNotes:         m.ReviewNotes,
	}
}

// LeaveRequestModelFromDomain creates a new persistence model from a domain LeaveRequest.
func LeaveRequestModelFromDomain(l *hr.LeaveRequest) *LeaveRequestModel {
	m := &LeaveRequestModel{
		EmployeeID:  l.EmployeeID,
		LeaveType:   l.LeaveType,
		StartDate:   l.StartDate,
		EndDate:     l.EndDate,
		Days:        l.Days,
		Reason:      l.Reason,
		Status:      l.Status,
		ReviewedBy:  l.ReviewedBy,
		ReviewedAt:  l.ReviewedAt,
		ReviewNotes: l.ReviewNotes,
	}
	m.FromDomainTenantAggregateRoot(l.TenantAggregateRoot)
	return m
}

// PolicyModel is the persistence model for HR policies.
type PolicyModel struct {
	TenantAggregateModel
	Title         string          `gorm:"type:varchar(200);not null"`
	Category      string          `gorm:"type:varchar(100);index"`
	Content       string          `gorm:"type:text;not null"`
	Revision      int             `gorm:"column:policy_version;not null;default:1"`
	EffectiveDate *time.Time      `gorm:"type:date"`
	Status        hr.PolicyStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	PublishedAt   *time.Time
}

// TableName returns the table name for GORM
func (PolicyModel) TableName() string {
	return "policies"
}

// ToDomain converts the persistence model to a domain Policy.
func (m *PolicyModel) ToDomain() *hr.Policy {
	return &hr.Policy{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Title:               m.Title,
		Category:            m.Category,
		Content:             m.Content,
		Revision:            m.Revision,
		EffectiveDate:       m.EffectiveDate,
		Status:              m.Status,
		PublishedAt:         m.PublishedAt,
	}
}

// PolicyModelFromDomain creates a new persistence model from a domain Policy.
func PolicyModelFromDomain(p *hr.Policy) *PolicyModel {
	m := &PolicyModel{
		Title:         p.Title,
		Category:      p.Category,
		Content:       p.Content,
		Revision:      p.Revision,
		EffectiveDate: p.EffectiveDate,
		Status:        p.Status,
		PublishedAt:   p.PublishedAt,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// PolicyAcknowledgmentModel is the append-only record of an employee accepting a policy version.
type PolicyAcknowledgmentModel struct {
	TenantRecordModel
	PolicyID       uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PolicyVersion  int       `gorm:"not null"`
	AcknowledgedAt time.Time `gorm:"not null"`
	IPAddress      string    `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (PolicyAcknowledgmentModel) TableName() string {
	return "policy_acknowledgments"
}

// ToDomain converts the persistence model to a domain PolicyAcknowledgment.
func (m *PolicyAcknowledgmentModel) ToDomain() *hr.PolicyAcknowledgment {
	return &hr.PolicyAcknowledgment{
		TenantRecord:   m.ToTenantRecord(),
		PolicyID:       m.PolicyID,
		EmployeeID:     m.EmployeeID,
		PolicyVersion:  m.PolicyVersion,
		AcknowledgedAt: m.AcknowledgedAt,
		IPAddress:      m.IPAddress,
	}
}

// PolicyAcknowledgmentModelFromDomain creates a new persistence model from a domain PolicyAcknowledgment.
func PolicyAcknowledgmentModelFromDomain(a *hr.PolicyAcknowledgment) *PolicyAcknowledgmentModel {
	m := &PolicyAcknowledgmentModel{
		PolicyID:       a.PolicyID,
		EmployeeID:     a.EmployeeID,
		PolicyVersion:  a.PolicyVersion,
		AcknowledgedAt: a.AcknowledgedAt,
		IPAddress:      a.IPAddress,
	}
	m.FromDomainTenantRecord(a.TenantRecord)
	return m
}
