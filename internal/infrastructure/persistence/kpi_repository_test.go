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
)

func TestGormKPIRepository_FindByIDs(t *testing.T) {
	t.Run("empty id list skips the query", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		kpis, err := NewGormKPIRepository(db).FindByIDs(context.Background(), uuid.New(), nil)

		require.NoError(t, err)
		assert.Empty(t, kpis)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loads tenant kpis", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		id1, id2 := uuid.New(), uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT \* FROM "kpis" WHERE tenant_id = \$1 AND id IN \(\$2,\$3\) ORDER BY name ASC`).
			WithArgs(tenantID, id1, id2).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name", "code", "direction", "status", "created_at", "updated_at"}).
				AddRow(id1, tenantID, "Revenue", "REV", "higher_is_better", "active", now, now))

		kpis, err := NewGormKPIRepository(db).FindByIDs(context.Background(), tenantID, []uuid.UUID{id1, id2})

		require.NoError(t, err)
		require.Len(t, kpis, 1)
		assert.Equal(t, "REV", kpis[0].Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormKPIRepository_ExistsByCode(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "kpis" WHERE tenant_id = \$1 AND code = \$2`).
		WithArgs(tenantID, "REV").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := NewGormKPIRepository(db).ExistsByCode(context.Background(), tenantID, " rev ")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormKPIRepository_CountForTenant_BelowTarget(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	filter := shared.Filter{}
	filter.Set("below_target", true)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "kpis" WHERE tenant_id = \$1 AND .*current_value < target_value`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := NewGormKPIRepository(db).CountForTenant(context.Background(), tenantID, filter)

	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormKPIAlertRepository_FindOpenByKPI(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	kpiID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "kpi_alerts" WHERE tenant_id = \$1 AND kpi_id = \$2 AND status IN \(\$3,\$4\) ORDER BY triggered_at DESC`).
		WithArgs(tenantID, kpiID, "active", "acknowledged").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "kpi_id", "severity", "status", "value", "threshold", "triggered_at", "created_at"}).
			AddRow(uuid.New(), tenantID, kpiID, "critical", "active", "10", "20", now, now))

	alerts, err := NewGormKPIAlertRepository(db).FindOpenByKPI(context.Background(), tenantID, kpiID)

	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, kpiID, alerts[0].KPIID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
