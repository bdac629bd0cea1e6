package hr

import (
	"context"
	"testing"
	"time"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()

	validRequest := func(t *testing.T) EmployeeRequest {
		return EmployeeRequest{
			FirstName:  "Jonas",
			LastName:   "Berg",
			Email:      "jonas@acme.test",
			HireDate:   day(t, "2021-09-15"),
			BaseSalary: decimal.NewFromInt(5200),
		}
	}

	t.Run("hires with generated number", func(t *testing.T) {
		employees, departments := new(MockEmployeeRepository), new(MockDepartmentRepository)
		svc := NewEmployeeService(employees, departments, zap.NewNop())
		svc.now = func() time.Time { return time.Date(2024, 9, 20, 0, 0, 0, 0, time.UTC) }
		publisher := new(MockEventPublisher)
		svc.SetEventPublisher(publisher)

		employees.On("GenerateEmployeeNumber", ctx, tenantID).Return("EMP-00042", nil)
		employees.On("Save", ctx, mock.AnythingOfType("*hr.Employee")).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == hr.EventTypeEmployeeHired
		})).Return(nil)

		resp, err := svc.Create(ctx, tenantID, actorID, validRequest(t))
		require.NoError(t, err)
		assert.Equal(t, "EMP-00042", resp.EmployeeNumber)
		assert.Equal(t, "Jonas Berg", resp.FullName)
		assert.Equal(t, "full_time", resp.EmploymentType)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, 3, resp.YearsOfService)
		publisher.AssertExpectations(t)
	})

	t.Run("inactive department", func(t *testing.T) {
		employees, departments := new(MockEmployeeRepository), new(MockDepartmentRepository)
		svc := NewEmployeeService(employees, departments, zap.NewNop())
		dept, err := hr.NewDepartment(tenantID, "Sales", "SAL")
		require.NoError(t, err)
		require.NoError(t, dept.Deactivate())
		departments.On("FindByIDForTenant", ctx, tenantID, dept.ID).Return(dept, nil)

		req := validRequest(t)
		req.DepartmentID = &dept.ID
		_, err = svc.Create(ctx, tenantID, actorID, req)
		requireFieldError(t, err, "department_id")
		employees.AssertNotCalled(t, "GenerateEmployeeNumber", mock.Anything, mock.Anything)
	})
}

func TestEmployeeService_DeleteTerminates(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	employees := new(MockEmployeeRepository)
	svc := NewEmployeeService(employees, new(MockDepartmentRepository), zap.NewNop())
	emp := newTestEmployee(t, tenantID)
	employees.On("FindByIDForTenant", ctx, tenantID, emp.ID).Return(emp, nil)
	employees.On("Save", ctx, emp).Return(nil)

	require.NoError(t, svc.Delete(ctx, tenantID, emp.ID))
	assert.Equal(t, hr.EmployeeStatusTerminated, emp.Status)
	require.NotNil(t, emp.TerminationDate)

	err := svc.Delete(ctx, tenantID, emp.ID)
	assert.True(t, shared.HasCode(err, "INVALID_STATE"))
}

func TestDepartmentService(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()

	t.Run("duplicate code", func(t *testing.T) {
		departments := new(MockDepartmentRepository)
		svc := NewDepartmentService(departments, new(MockEmployeeRepository), zap.NewNop())
		departments.On("ExistsByCode", ctx, tenantID, "ENG", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, tenantID, actorID, DepartmentRequest{Name: "Engineering", Code: "ENG"})
		requireFieldError(t, err, "code")
	})

	t.Run("list carries head counts", func(t *testing.T) {
		departments := new(MockDepartmentRepository)
		svc := NewDepartmentService(departments, new(MockEmployeeRepository), zap.NewNop())
		eng, err := hr.NewDepartment(tenantID, "Engineering", "ENG")
		require.NoError(t, err)
		ops, err := hr.NewDepartment(tenantID, "Operations", "OPS")
		require.NoError(t, err)

		departments.On("FindAllForTenant", ctx, tenantID, mock.Anything).Return([]hr.Department{*eng, *ops}, nil)
		departments.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(2), nil)
		departments.On("CountEmployees", ctx, tenantID, []uuid.UUID{eng.ID, ops.ID}).
			Return(map[uuid.UUID]int64{eng.ID: 7}, nil)

		list, total, err := svc.List(ctx, tenantID, DepartmentListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, int64(7), list[0].EmployeeCount)
		assert.Equal(t, int64(0), list[1].EmployeeCount)
	})

	t.Run("delete deactivates", func(t *testing.T) {
		departments := new(MockDepartmentRepository)
		svc := NewDepartmentService(departments, new(MockEmployeeRepository), zap.NewNop())
		dept, err := hr.NewDepartment(tenantID, "Legal", "LEG")
		require.NoError(t, err)
		departments.On("FindByIDForTenant", ctx, tenantID, dept.ID).Return(dept, nil)
		departments.On("Save", ctx, dept).Return(nil)

		require.NoError(t, svc.Delete(ctx, tenantID, dept.ID))
		assert.False(t, dept.IsActive)
	})
}

func TestEmployeeListFilter_ToFilter(t *testing.T) {
	f := EmployeeListFilter{Status: "active", SalaryMin: "1000"}
	filter, err := f.ToFilter()
	require.NoError(t, err)
	assert.Equal(t, "active", filter.Filters["status"])
	assert.True(t, filter.Filters["salary_min"].(decimal.Decimal).Equal(decimal.NewFromInt(1000)))
	_, ok := filter.Filters["salary_max"]
	assert.False(t, ok)
	assert.Equal(t, 1, filter.Page)

	_, err = EmployeeListFilter{SalaryMax: "abc"}.ToFilter()
	requireFieldError(t, err, "salary_max")
}

func TestEmployeeService_ListRejectsMalformedSalaryBound(t *testing.T) {
	employees := new(MockEmployeeRepository)
	svc := NewEmployeeService(employees, new(MockDepartmentRepository), zap.NewNop())

	_, _, err := svc.List(context.Background(), uuid.New(), EmployeeListFilter{SalaryMin: "abc"})

	requireFieldError(t, err, "salary_min")
	employees.AssertNotCalled(t, "FindAllForTenant", mock.Anything, mock.Anything, mock.Anything)
}
