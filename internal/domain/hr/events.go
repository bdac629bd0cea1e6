package hr

import (
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeEmployee     = "Employee"
	AggregateTypePayroll      = "Payroll"
	AggregateTypeLeaveRequest = "LeaveRequest"
)

// Event type constants
const (
	EventTypeEmployeeHired      = "EmployeeHired"
	EventTypeEmployeeTerminated = "EmployeeTerminated"
	EventTypePayrollApproved    = "PayrollApproved"
	EventTypePayrollPaid        = "PayrollPaid"
	EventTypeLeaveApproved      = "LeaveApproved"
)

// EmployeeHiredEvent is raised when an employee record is created
type EmployeeHiredEvent struct {
	shared.BaseDomainEvent
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
}

// NewEmployeeHiredEvent creates a new EmployeeHiredEvent
func NewEmployeeHiredEvent(e *Employee) *EmployeeHiredEvent {
	return &EmployeeHiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmployeeHired, AggregateTypeEmployee, e.ID, e.TenantID),
		EmployeeNumber:  e.EmployeeNumber,
		FullName:        e.FullName(),
	}
}

// EventType returns the event type name
func (e *EmployeeHiredEvent) EventType() string {
	return EventTypeEmployeeHired
}

// EmployeeTerminatedEvent is raised when employment ends
type EmployeeTerminatedEvent struct {
	shared.BaseDomainEvent
	EmployeeNumber  string    `json:"employee_number"`
	TerminationDate time.Time `json:"termination_date"`
}

// NewEmployeeTerminatedEvent creates a new EmployeeTerminatedEvent
func NewEmployeeTerminatedEvent(e *Employee) *EmployeeTerminatedEvent {
	return &EmployeeTerminatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmployeeTerminated, AggregateTypeEmployee, e.ID, e.TenantID),
		EmployeeNumber:  e.EmployeeNumber,
		TerminationDate: *e.TerminationDate,
	}
}

// EventType returns the event type name
func (e *EmployeeTerminatedEvent) EventType() string {
	return EventTypeEmployeeTerminated
}

// PayrollApprovedEvent is raised when a payroll is approved
type PayrollApprovedEvent struct {
	shared.BaseDomainEvent
	PayrollNumber string          `json:"payroll_number"`
	EmployeeID    uuid.UUID       `json:"employee_id"`
	NetPay        decimal.Decimal `json:"net_pay"`
}

// NewPayrollApprovedEvent creates a new PayrollApprovedEvent
func NewPayrollApprovedEvent(p *Payroll, approverID uuid.UUID) *PayrollApprovedEvent {
	return &PayrollApprovedEvent{
		BaseDomainEvent: shared.NewActorDomainEvent(EventTypePayrollApproved, AggregateTypePayroll, p.ID, p.TenantID, approverID),
		PayrollNumber:   p.PayrollNumber,
		EmployeeID:      p.EmployeeID,
		NetPay:          p.NetPay,
	}
}

// EventType returns the event type name
func (e *PayrollApprovedEvent) EventType() string {
	return EventTypePayrollApproved
}

// PayrollPaidEvent is raised when a payroll is disbursed
type PayrollPaidEvent struct {
	shared.BaseDomainEvent
	PayrollNumber string          `json:"payroll_number"`
	EmployeeID    uuid.UUID       `json:"employee_id"`
	NetPay        decimal.Decimal `json:"net_pay"`
}

// NewPayrollPaidEvent creates a new PayrollPaidEvent
func NewPayrollPaidEvent(p *Payroll) *PayrollPaidEvent {
	return &PayrollPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayrollPaid, AggregateTypePayroll, p.ID, p.TenantID),
		PayrollNumber:   p.PayrollNumber,
		EmployeeID:      p.EmployeeID,
		NetPay:          p.NetPay,
	}
}

// EventType returns the event type name
func (e *PayrollPaidEvent) EventType() string {
	return EventTypePayrollPaid
}

// LeaveApprovedEvent is raised when a leave request is granted
type LeaveApprovedEvent struct {
	shared.BaseDomainEvent
	EmployeeID uuid.UUID `json:"employee_id"`
	LeaveType  LeaveType `json:"leave_type"`
	Days       int       `json:"days"`
}

// NewLeaveApprovedEvent creates a new LeaveApprovedEvent
func NewLeaveApprovedEvent(l *LeaveRequest, reviewerID uuid.UUID) *LeaveApprovedEvent {
	return &LeaveApprovedEvent{
		BaseDomainEvent: shared.NewActorDomainEvent(EventTypeLeaveApproved, AggregateTypeLeaveRequest, l.ID, l.TenantID, reviewerID),
		EmployeeID:      l.EmployeeID,
		LeaveType:       l.LeaveType,
		Days:            l.Days,
	}
}

// EventType returns the event type name
func (e *LeaveApprovedEvent) EventType() string {
	return EventTypeLeaveApproved
}
