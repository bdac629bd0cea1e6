package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPayrollRepository_ExistsForPeriod(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	employeeID := uuid.New()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "payrolls" WHERE tenant_id = \$1 AND employee_id = \$2 AND period_start = \$3 AND period_end = \$4 AND status <> \$5`).
		WithArgs(tenantID, employeeID, start, end, "cancelled").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := NewGormPayrollRepository(db).ExistsForPeriod(context.Background(), tenantID, employeeID, start, end)

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPayrollRepository_SaveMapsPeriodConflict(t *testing.T) {
	tenantID := uuid.New()
	payroll := &hr.Payroll{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PayrollNumber:       "PRL-2026-00002",
		EmployeeID:          uuid.New(),
		PeriodStart:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:           time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:              hr.PayrollStatusDraft,
	}

	t.Run("period index conflict is a duplicate payroll", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		mock.ExpectExec(`UPDATE "payrolls"`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_payrolls_employee_period"})

		err := NewGormPayrollRepository(db).Save(context.Background(), payroll)

		assert.ErrorIs(t, err, hr.ErrDuplicatePayroll)
		assert.True(t, shared.HasCode(err, "DUPLICATE_PAYROLL"))
	})

	t.Run("other unique conflicts pass through", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		mock.ExpectExec(`UPDATE "payrolls"`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_payrolls_tenant_number"})

		err := NewGormPayrollRepository(db).Save(context.Background(), payroll)

		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		assert.False(t, shared.HasCode(err, "DUPLICATE_PAYROLL"))
	})
}

func TestGormLeaveRequestRepository_SumAnnualDays(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	employeeID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(days\), 0\) FROM "leave_requests" WHERE .*leave_type = \$3 AND status = \$4.*EXTRACT\(YEAR FROM start_date\) = \$5`).
		WithArgs(tenantID, employeeID, "annual", "approved", 2026).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(9))

	days, err := NewGormLeaveRequestRepository(db).SumAnnualDays(context.Background(), tenantID, employeeID, 2026, hr.LeaveStatusApproved)

	require.NoError(t, err)
	assert.Equal(t, 9, days)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPolicyAcknowledgmentRepository_Exists(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	tenantID, policyID, employeeID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "policy_acknowledgments" WHERE tenant_id = \$1 AND policy_id = \$2 AND employee_id = \$3 AND policy_version = \$4`).
		WithArgs(tenantID, policyID, employeeID, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := NewGormPolicyAcknowledgmentRepository(db).Exists(context.Background(), tenantID, policyID, employeeID, 2)

	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
