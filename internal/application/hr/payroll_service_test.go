package hr

import (
	"context"
	"testing"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPayrollService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()

	t.Run("defaults base salary and derives net pay", func(t *testing.T) {
		payrolls, employees := new(MockPayrollRepository), new(MockEmployeeRepository)
		svc := NewPayrollService(payrolls, employees, zap.NewNop())
		emp := newTestEmployee(t, tenantID)
		req := CreatePayrollRequest{
			EmployeeID:  emp.ID,
			PeriodStart: day(t, "2024-05-01"),
			PeriodEnd:   day(t, "2024-05-31"),
			PayrollAmountsInput: PayrollAmountsInput{
				Bonus:        decimal.NewFromInt(500),
				TaxDeduction: decimal.NewFromInt(900),
			},
		}

		employees.On("FindByIDForTenant", ctx, tenantID, emp.ID).Return(emp, nil)
		payrolls.On("ExistsForPeriod", ctx, tenantID, emp.ID, req.PeriodStart.Time, req.PeriodEnd.Time).Return(false, nil)
		payrolls.On("GeneratePayrollNumber", ctx, tenantID).Return("PRL-2024-00001", nil)
		payrolls.On("Save", ctx, mock.AnythingOfType("*hr.Payroll")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, actorID, req)
		require.NoError(t, err)
		assert.Equal(t, "PRL-2024-00001", resp.PayrollNumber)
		assert.True(t, resp.BaseSalary.Equal(decimal.NewFromInt(4000)))
		assert.True(t, resp.GrossPay.Equal(decimal.NewFromInt(4500)))
		assert.True(t, resp.NetPay.Equal(decimal.NewFromInt(3600)))
		assert.Equal(t, "draft", resp.Status)
		assert.Equal(t, actorID, *resp.CreatedBy)
	})

	t.Run("duplicate period", func(t *testing.T) {
		payrolls, employees := new(MockPayrollRepository), new(MockEmployeeRepository)
		svc := NewPayrollService(payrolls, employees, zap.NewNop())
		emp := newTestEmployee(t, tenantID)

		employees.On("FindByIDForTenant", ctx, tenantID, emp.ID).Return(emp, nil)
		payrolls.On("ExistsForPeriod", ctx, tenantID, emp.ID, mock.Anything, mock.Anything).Return(true, nil)

		_, err := svc.Create(ctx, tenantID, actorID, CreatePayrollRequest{
			EmployeeID:  emp.ID,
			PeriodStart: day(t, "2024-05-01"),
			PeriodEnd:   day(t, "2024-05-31"),
		})
		assert.True(t, shared.HasCode(err, "DUPLICATE_PAYROLL"))
		payrolls.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("period claimed between check and insert", func(t *testing.T) {
		payrolls, employees := new(MockPayrollRepository), new(MockEmployeeRepository)
		svc := NewPayrollService(payrolls, employees, zap.NewNop())
		emp := newTestEmployee(t, tenantID)

		employees.On("FindByIDForTenant", ctx, tenantID, emp.ID).Return(emp, nil)
		payrolls.On("ExistsForPeriod", ctx, tenantID, emp.ID, mock.Anything, mock.Anything).Return(false, nil)
		payrolls.On("GeneratePayrollNumber", ctx, tenantID).Return("PRL-2024-00002", nil)
		payrolls.On("Save", ctx, mock.AnythingOfType("*hr.Payroll")).Return(hr.ErrDuplicatePayroll)

		_, err := svc.Create(ctx, tenantID, actorID, CreatePayrollRequest{
			EmployeeID:  emp.ID,
			PeriodStart: day(t, "2024-05-01"),
			PeriodEnd:   day(t, "2024-05-31"),
		})
		assert.True(t, shared.HasCode(err, "DUPLICATE_PAYROLL"))
	})

	t.Run("unknown employee", func(t *testing.T) {
		payrolls, employees := new(MockPayrollRepository), new(MockEmployeeRepository)
		svc := NewPayrollService(payrolls, employees, zap.NewNop())
		id := uuid.New()
		employees.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, tenantID, actorID, CreatePayrollRequest{EmployeeID: id})
		requireFieldError(t, err, "employee_id")
	})
}

func TestPayrollService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()
	payrolls, employees := new(MockPayrollRepository), new(MockEmployeeRepository)
	svc := NewPayrollService(payrolls, employees, zap.NewNop())
	publisher := new(MockEventPublisher)
	svc.SetEventPublisher(publisher)

	emp := newTestEmployee(t, tenantID)
	employees.On("FindByIDForTenant", ctx, tenantID, emp.ID).Return(emp, nil)
	payrolls.On("ExistsForPeriod", ctx, tenantID, emp.ID, mock.Anything, mock.Anything).Return(false, nil)
	payrolls.On("GeneratePayrollNumber", ctx, tenantID).Return("PRL-2024-00002", nil)
	payrolls.On("Save", ctx, mock.AnythingOfType("*hr.Payroll")).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	created, err := svc.Create(ctx, tenantID, actorID, CreatePayrollRequest{
		EmployeeID:  emp.ID,
		PeriodStart: day(t, "2024-06-01"),
		PeriodEnd:   day(t, "2024-06-30"),
	})
	require.NoError(t, err)
	saved := payrolls.Calls[len(payrolls.Calls)-1].Arguments.Get(1)
	payrolls.On("FindByIDForTenant", ctx, tenantID, created.ID).Return(saved, nil)

	_, err = svc.Pay(ctx, tenantID, created.ID, PayPayrollRequest{PaymentReference: "TRX-1"})
	assert.True(t, shared.HasCode(err, "INVALID_STATE"), "draft payroll cannot be paid")

	approved, err := svc.Approve(ctx, tenantID, actorID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, actorID, *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)

	_, err = svc.Update(ctx, tenantID, created.ID, UpdatePayrollRequest{})
	assert.True(t, shared.HasCode(err, "INVALID_STATE"), "approved payroll is locked")

	paid, err := svc.Pay(ctx, tenantID, created.ID, PayPayrollRequest{PaymentReference: "TRX-1"})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	assert.Equal(t, "TRX-1", paid.PaymentReference)

	_, err = svc.Cancel(ctx, tenantID, created.ID)
	assert.True(t, shared.HasCode(err, "INVALID_STATE"))
	publisher.AssertNumberOfCalls(t, "Publish", 2)
}
