package hr

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

// LeaveType categorizes a leave request
type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeUnpaid    LeaveType = "unpaid"
	LeaveTypeMaternity LeaveType = "maternity"
	LeaveTypePaternity LeaveType = "paternity"
	LeaveTypeOther     LeaveType = "other"
)

// IsValid checks if the leave type is valid
func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveTypeAnnual, LeaveTypeSick, LeaveTypeUnpaid, LeaveTypeMaternity, LeaveTypePaternity, LeaveTypeOther:
		return true
	}
	return false
}

// LeaveStatus represents the status of a leave request
type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "pending"
	LeaveStatusApproved  LeaveStatus = "approved"
	LeaveStatusRejected  LeaveStatus = "rejected"
	LeaveStatusCancelled LeaveStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s LeaveStatus) IsValid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected, LeaveStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s LeaveStatus) String() string {
	return string(s)
}

// LeaveRequest is an employee's request for time off
type LeaveRequest struct {
	shared.TenantAggregateRoot
	EmployeeID  uuid.UUID
	LeaveType   LeaveType
	StartDate   time.Time
	EndDate     time.Time
	Days        int
	Reason      string
	Status      LeaveStatus
	ReviewedBy  *uuid.UUID
	ReviewedAt  *time.Time
	ReviewNotes string
}

// NewLeaveRequest creates a pending request. Days counts calendar days inclusively.
func NewLeaveRequest(tenantID uuid.UUID, employee *Employee, leaveType LeaveType, start, end time.Time, reason string) (*LeaveRequest, error) {
	if employee.IsTerminated() {
		return nil, shared.NewDomainError("EMPLOYEE_TERMINATED", "Terminated employees cannot request leave")
	}
	v := &shared.ValidationError{}
	if !leaveType.IsValid() {
		v.Add("leave_type", "Invalid leave type")
	}
	if start.IsZero() {
		v.Add("start_date", "Start date is required")
	}
	if end.IsZero() {
		v.Add("end_date", "End date is required")
	} else if truncateDay(end).Before(truncateDay(start)) {
		v.Add("end_date", "End date cannot be before start date")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	start, end = truncateDay(start), truncateDay(end)
	return &LeaveRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EmployeeID:          employee.ID,
		LeaveType:           leaveType,
		StartDate:           start,
		EndDate:             end,
		Days:                CalendarDays(start, end),
		Reason:              strings.TrimSpace(reason),
		Status:              LeaveStatusPending,
	}, nil
}

// CalendarDays returns the inclusive number of days between start and end
func CalendarDays(start, end time.Time) int {
	return int(truncateDay(end).Sub(truncateDay(start)).Hours()/24) + 1
}

// Approve grants the request. usedAnnualDays is the number of annual days already
// approved for the employee in the same year; entitlement caps annual leave.
func (l *LeaveRequest) Approve(reviewerID uuid.UUID, notes string, usedAnnualDays, entitlement int) error {
	if l.Status != LeaveStatusPending {
		return shared.InvalidTransition("approve leave request", l.Status)
	}
	if l.LeaveType == LeaveTypeAnnual && usedAnnualDays+l.Days > entitlement {
		return shared.NewDomainError("INSUFFICIENT_LEAVE_BALANCE",
			fmt.Sprintf("Requested %d days but only %d annual leave days remain", l.Days, max(entitlement-usedAnnualDays, 0)))
	}
	l.review(LeaveStatusApproved, reviewerID, notes)
	l.AddDomainEvent(NewLeaveApprovedEvent(l, reviewerID))
	return nil
}

// Reject declines the request
func (l *LeaveRequest) Reject(reviewerID uuid.UUID, notes string) error {
	if l.Status != LeaveStatusPending {
		return shared.InvalidTransition("reject leave request", l.Status)
	}
	if strings.TrimSpace(notes) == "" {
		return shared.NewValidationError("review_notes", "A reason is required when rejecting")
	}
	l.review(LeaveStatusRejected, reviewerID, notes)
	return nil
}

// Cancel withdraws a pending or approved request before it starts
func (l *LeaveRequest) Cancel(now time.Time) error {
	if l.Status != LeaveStatusPending && l.Status != LeaveStatusApproved {
		return shared.InvalidTransition("cancel leave request", l.Status)
	}
	if !truncateDay(now).Before(l.StartDate) {
		return shared.NewDomainError("INVALID_STATE", "Leave that has already started cannot be cancelled")
	}
	l.Status = LeaveStatusCancelled
	l.touch()
	return nil
}

// YearOf returns the calendar year the leave is charged to
func (l *LeaveRequest) YearOf() int {
	return l.StartDate.Year()
}

func (l *LeaveRequest) review(status LeaveStatus, reviewerID uuid.UUID, notes string) {
	now := time.Now()
	l.Status = status
	l.ReviewedBy = &reviewerID
	l.ReviewedAt = &now
	l.ReviewNotes = strings.TrimSpace(notes)
	l.touch()
}

func (l *LeaveRequest) touch() {
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// LeaveBalance summarizes annual leave for one employee and year
type LeaveBalance struct {
	EmployeeID  uuid.UUID
	Year        int
	Entitlement int
	Used        int
	Pending     int
}

// Remaining returns entitlement minus approved days, never negative
func (b LeaveBalance) Remaining() int {
	return max(b.Entitlement-b.Used, 0)
}
