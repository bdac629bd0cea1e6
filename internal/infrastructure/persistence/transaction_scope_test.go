package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	appaccounts "github.com/erp/platform/internal/application/accounts"
	appanalytics "github.com/erp/platform/internal/application/analytics"
	appfinance "github.com/erp/platform/internal/application/finance"
	apphr "github.com/erp/platform/internal/application/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormTransactionScope_Commit(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	scope := NewGormTransactionScope(db)

	tenantID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE tenant_id = \$1`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectCommit()

	var count int64
	err := scope.Finance().Execute(context.Background(), func(repos appfinance.TransactionalRepositories) error {
		var err error
		count, err = repos.Invoices().CountForTenant(context.Background(), tenantID, emptyFilter())
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope_Rollback(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	scope := NewGormTransactionScope(db)

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := scope.Accounts().Execute(context.Background(), func(repos appaccounts.TransactionalRepositories) error {
		assert.NotNil(t, repos.Users())
		assert.NotNil(t, repos.Organizations())
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope_ModuleRepositories(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	scope := NewGormTransactionScope(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := scope.Analytics().Execute(context.Background(), func(repos appanalytics.TransactionalRepositories) error {
		assert.IsType(t, &GormKPIRepository{}, repos.KPIs())
		assert.IsType(t, &GormKPIMeasurementRepository{}, repos.Measurements())
		assert.IsType(t, &GormKPIAlertRepository{}, repos.Alerts())
		assert.IsType(t, &GormDashboardRepository{}, repos.Dashboards())
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope_HRLocksRowsInsideTransaction(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	scope := NewGormTransactionScope(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "leave_requests" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .* FOR UPDATE`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	err := scope.HR().Execute(context.Background(), func(repos apphr.TransactionalRepositories) error {
		assert.IsType(t, &GormEmployeeRepository{}, repos.Employees())
		_, err := repos.LeaveRequests().FindByIDForUpdate(context.Background(), uuid.New(), uuid.New())
		return err
	})

	assert.Equal(t, shared.ErrNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
