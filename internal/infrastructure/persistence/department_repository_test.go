package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMockDepartmentRepository(t *testing.T) (*GormDepartmentRepository, sqlmock.Sqlmock, func()) {
	db, mock, mockDB := newMockGormDB(t)
	return NewGormDepartmentRepository(db), mock, func() { mockDB.Close() }
}

func TestGormDepartmentRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds department within tenant", func(t *testing.T) {
		repo, mock, done := newMockDepartmentRepository(t)
		defer done()

		tenantID := uuid.New()
		departmentID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "name", "code", "is_active", "created_at", "updated_at"}).
			AddRow(departmentID, tenantID, "Engineering", "ENG", true, now, now)

		mock.ExpectQuery(`SELECT \* FROM "departments" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, departmentID, 1).
			WillReturnRows(rows)

		department, err := repo.FindByIDForTenant(context.Background(), tenantID, departmentID)

		require.NoError(t, err)
		assert.Equal(t, departmentID, department.ID)
		assert.Equal(t, tenantID, department.TenantID)
		assert.Equal(t, "ENG", department.Code)
		assert.True(t, department.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other tenant's department is not found", func(t *testing.T) {
		repo, mock, done := newMockDepartmentRepository(t)
		defer done()

		tenantID := uuid.New()
		departmentID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "departments" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, departmentID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		department, err := repo.FindByIDForTenant(context.Background(), tenantID, departmentID)

		assert.Nil(t, department)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDepartmentRepository_ExistsByCode(t *testing.T) {
	t.Run("normalizes the code", func(t *testing.T) {
		repo, mock, done := newMockDepartmentRepository(t)
		defer done()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "departments" WHERE tenant_id = \$1 AND code = \$2`).
			WithArgs(tenantID, "ENG").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByCode(context.Background(), tenantID, " eng ", nil)

		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("excludes the department being updated", func(t *testing.T) {
		repo, mock, done := newMockDepartmentRepository(t)
		defer done()

		tenantID := uuid.New()
		selfID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "departments" WHERE .*tenant_id = \$1 AND code = \$2.* AND id <> \$3`).
			WithArgs(tenantID, "ENG", selfID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByCode(context.Background(), tenantID, "ENG", &selfID)

		require.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDepartmentRepository_CountEmployees(t *testing.T) {
	t.Run("no departments skips the query", func(t *testing.T) {
		repo, mock, done := newMockDepartmentRepository(t)
		defer done()

		counts, err := repo.CountEmployees(context.Background(), uuid.New(), nil)

		require.NoError(t, err)
		assert.Empty(t, counts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("groups non-terminated employees by department", func(t *testing.T) {
		repo, mock, done := newMockDepartmentRepository(t)
		defer done()

		tenantID := uuid.New()
		eng := uuid.New()
		ops := uuid.New()

		mock.ExpectQuery(`SELECT department_id, COUNT\(\*\) AS count FROM "employees" WHERE .*status <> .* GROUP BY department_id`).
			WillReturnRows(sqlmock.NewRows([]string{"department_id", "count"}).AddRow(eng, 4))

		counts, err := repo.CountEmployees(context.Background(), tenantID, []uuid.UUID{eng, ops})

		require.NoError(t, err)
		assert.Equal(t, int64(4), counts[eng])
		assert.Equal(t, int64(0), counts[ops])
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
