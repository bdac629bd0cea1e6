package hr

import (
	"context"
	"time"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LeaveService handles leave requests and annual leave balances
type LeaveService struct {
	txScope      TransactionScope
	leaveRepo    hr.LeaveRequestRepository
	employeeRepo hr.EmployeeRepository
	publisher    shared.EventPublisher
	logger       *zap.Logger
	now          func() time.Time
}

// NewLeaveService creates a new LeaveService
func NewLeaveService(txScope TransactionScope, leaveRepo hr.LeaveRequestRepository, employeeRepo hr.EmployeeRepository, logger *zap.Logger) *LeaveService {
	return &LeaveService{txScope: txScope, leaveRepo: leaveRepo, employeeRepo: employeeRepo, logger: logger, now: time.Now}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LeaveService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create files a pending leave request
func (s *LeaveService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateLeaveRequest) (*LeaveResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, req.EmployeeID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewValidationError("employee_id", "Employee not found")
		}
		return nil, err
	}
	l, err := hr.NewLeaveRequest(tenantID, employee, hr.LeaveType(req.LeaveType), req.StartDate.Time, req.EndDate.Time, req.Reason)
	if err != nil {
		return nil, err
	}
	l.SetCreatedBy(actorID)

	if err := s.leaveRepo.Save(ctx, l); err != nil {
		return nil, err
	}
	resp := ToLeaveResponse(l)
	return &resp, nil
}

// GetByID retrieves a leave request
func (s *LeaveService) GetByID(ctx context.Context, tenantID, leaveID uuid.UUID) (*LeaveResponse, error) {
	l, err := s.leaveRepo.FindByIDForTenant(ctx, tenantID, leaveID)
	if err != nil {
		return nil, err
	}
	resp := ToLeaveResponse(l)
	return &resp, nil
}

// List retrieves leave requests with filtering and pagination
func (s *LeaveService) List(ctx context.Context, tenantID uuid.UUID, f LeaveListFilter) ([]LeaveResponse, int64, error) {
	filter := f.ToFilter()
	requests, err := s.leaveRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.leaveRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LeaveResponse, len(requests))
	for i := range requests {
		out[i] = ToLeaveResponse(&requests[i])
	}
	return out, total, nil
}

// Approve approves a pending request. Annual leave must fit the remaining
// entitlement; the employee row is locked while the approved days are summed,
// so two approvals for one employee cannot both spend the same balance.
func (s *LeaveService) Approve(ctx context.Context, tenantID, reviewerID, leaveID uuid.UUID, req ReviewLeaveRequest) (*LeaveResponse, error) {
	var l *hr.LeaveRequest
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		l, err = repos.LeaveRequests().FindByIDForUpdate(ctx, tenantID, leaveID)
		if err != nil {
			return err
		}
		employee, err := repos.Employees().FindByIDForUpdate(ctx, tenantID, l.EmployeeID)
		if err != nil {
			return err
		}
		used, err := repos.LeaveRequests().SumAnnualDays(ctx, tenantID, l.EmployeeID, l.YearOf(), hr.LeaveStatusApproved)
		if err != nil {
			return err
		}
		if err := l.Approve(reviewerID, req.ReviewNotes, used, employee.AnnualLeaveDays); err != nil {
			return err
		}
		return repos.LeaveRequests().Save(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Leave approved",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", l.EmployeeID.String()),
		zap.Int("days", l.Days))
	publishEvents(ctx, s.publisher, s.logger, l)

	resp := ToLeaveResponse(l)
	return &resp, nil
}

// Reject declines a pending request; review notes are required
func (s *LeaveService) Reject(ctx context.Context, tenantID, reviewerID, leaveID uuid.UUID, req ReviewLeaveRequest) (*LeaveResponse, error) {
	return s.mutate(ctx, tenantID, leaveID, func(l *hr.LeaveRequest) error {
		return l.Reject(reviewerID, req.ReviewNotes)
	})
}

// Cancel withdraws a request that has not started
func (s *LeaveService) Cancel(ctx context.Context, tenantID, leaveID uuid.UUID) (*LeaveResponse, error) {
	return s.mutate(ctx, tenantID, leaveID, func(l *hr.LeaveRequest) error {
		return l.Cancel(s.now())
	})
}

// Balance returns the annual leave balance of an employee. Year 0 means the current year.
func (s *LeaveService) Balance(ctx context.Context, tenantID, employeeID uuid.UUID, year int) (*LeaveBalanceResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	if year == 0 {
		year = s.now().Year()
	}
	used, err := s.leaveRepo.SumAnnualDays(ctx, tenantID, employee.ID, year, hr.LeaveStatusApproved)
	if err != nil {
		return nil, err
	}
	pending, err := s.leaveRepo.SumAnnualDays(ctx, tenantID, employee.ID, year, hr.LeaveStatusPending)
	if err != nil {
		return nil, err
	}

	balance := hr.LeaveBalance{
		EmployeeID:  employee.ID,
		Year:        year,
		Entitlement: employee.AnnualLeaveDays,
		Used:        used,
		Pending:     pending,
	}
	return &LeaveBalanceResponse{
		EmployeeID:  balance.EmployeeID,
		Year:        balance.Year,
		Entitlement: balance.Entitlement,
		Used:        balance.Used,
		Pending:     balance.Pending,
		Remaining:   balance.Remaining(),
	}, nil
}

func (s *LeaveService) mutate(ctx context.Context, tenantID, leaveID uuid.UUID, fn func(*hr.LeaveRequest) error) (*LeaveResponse, error) {
	var l *hr.LeaveRequest
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		l, err = repos.LeaveRequests().FindByIDForUpdate(ctx, tenantID, leaveID)
		if err != nil {
			return err
		}
		if err := fn(l); err != nil {
			return err
		}
		return repos.LeaveRequests().Save(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	resp := ToLeaveResponse(l)
	return &resp, nil
}
