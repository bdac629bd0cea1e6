package hr

import (
	"context"
	"sync"
	"testing"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// leaveStore keeps committed leave requests by value so each read is a snapshot
type leaveStore struct {
	hr.LeaveRequestRepository

	mu   sync.Mutex
	rows map[uuid.UUID]hr.LeaveRequest
}

func (st *leaveStore) FindByIDForUpdate(_ context.Context, tenantID, id uuid.UUID) (*hr.LeaveRequest, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	row, ok := st.rows[id]
	if !ok || row.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &row, nil
}

func (st *leaveStore) SumAnnualDays(_ context.Context, tenantID, employeeID uuid.UUID, year int, status hr.LeaveStatus) (int, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	total := 0
	for _, row := range st.rows {
		if row.TenantID == tenantID && row.EmployeeID == employeeID && row.LeaveType == hr.LeaveTypeAnnual &&
			row.Status == status && row.YearOf() == year {
			total += row.Days
		}
	}
	return total, nil
}

func (st *leaveStore) Save(_ context.Context, l *hr.LeaveRequest) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	row := *l
	row.ClearDomainEvents()
	st.rows[l.ID] = row
	return nil
}

type employeeStore struct {
	hr.EmployeeRepository
	employee hr.Employee
}

func (st *employeeStore) FindByIDForUpdate(_ context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	if st.employee.TenantID != tenantID || st.employee.ID != id {
		return nil, shared.ErrNotFound
	}
	e := st.employee
	return &e, nil
}

// serialScope runs one transaction at a time, as the employee row lock does
// for approvals of the same employee
type serialScope struct {
	lock      sync.Mutex
	employees *employeeStore
	leaves    *leaveStore
}

func (s *serialScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return fn(s)
}

func (s *serialScope) Employees() hr.EmployeeRepository         { return s.employees }
func (s *serialScope) LeaveRequests() hr.LeaveRequestRepository { return s.leaves }

func TestLeaveService_ConcurrentApprovalsRespectEntitlement(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	emp := newTestEmployee(t, tenantID)
	require.Equal(t, hr.DefaultAnnualLeaveDays, emp.AnnualLeaveDays)

	// each request fits the entitlement alone, both together do not
	august := newPendingLeave(t, emp, hr.LeaveTypeAnnual, "2024-08-01", "2024-08-11")
	september := newPendingLeave(t, emp, hr.LeaveTypeAnnual, "2024-09-01", "2024-09-11")
	leaves := &leaveStore{rows: make(map[uuid.UUID]hr.LeaveRequest)}
	require.NoError(t, leaves.Save(ctx, august))
	require.NoError(t, leaves.Save(ctx, september))

	scope := &serialScope{employees: &employeeStore{employee: *emp}, leaves: leaves}
	svc := NewLeaveService(scope, leaves, scope.employees, zap.NewNop())

	ids := []uuid.UUID{august.ID, september.ID}
	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = svc.Approve(ctx, tenantID, uuid.New(), id, ReviewLeaveRequest{})
		}(i, id)
	}
	wg.Wait()

	approved := 0
	for _, err := range errs {
		if err == nil {
			approved++
			continue
		}
		assert.True(t, shared.HasCode(err, "INSUFFICIENT_LEAVE_BALANCE"), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, approved)

	used, err := leaves.SumAnnualDays(ctx, tenantID, emp.ID, 2024, hr.LeaveStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, 11, used)
}
