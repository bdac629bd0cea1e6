package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormSupplierRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds supplier within tenant", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormSupplierRepository(db)

		tenantID := uuid.New()
		supplierID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "name", "status", "rating", "payment_terms_days", "created_at", "updated_at"}).
			AddRow(supplierID, tenantID, "SUP001", "Acme Supply", "active", "82.50", 30, now, now)

		mock.ExpectQuery(`SELECT \* FROM "suppliers" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, supplierID, 1).
			WillReturnRows(rows)

		supplier, err := repo.FindByIDForTenant(context.Background(), tenantID, supplierID)

		require.NoError(t, err)
		assert.Equal(t, "SUP001", supplier.Code)
		require.NotNil(t, supplier.Rating)
		assert.True(t, decimal.RequireFromString("82.5").Equal(*supplier.Rating))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormSupplierRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "suppliers" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		supplier, err := repo.FindByIDForTenant(context.Background(), uuid.New(), uuid.New())

		assert.Nil(t, supplier)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplierRepository_CountForTenant(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormSupplierRepository(db)

	tenantID := uuid.New()
	filter := shared.Filter{Filters: map[string]any{}}
	filter.Set("status", "active")

	mock.ExpectQuery(`SELECT count\(\*\) FROM "suppliers" WHERE tenant_id = \$1 AND status = \$2`).
		WithArgs(tenantID, "active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountForTenant(context.Background(), tenantID, filter)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSupplierRepository_ExistsByCode(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormSupplierRepository(db)

	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "suppliers" WHERE tenant_id = \$1 AND code = \$2`).
		WithArgs(tenantID, "SUP001").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := repo.ExistsByCode(context.Background(), tenantID, "SUP001")

	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSupplierPerformanceRepository_AverageOverall(t *testing.T) {
	t.Run("no evaluations averages to zero", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormSupplierPerformanceRepository(db)

		tenantID := uuid.New()
		supplierID := uuid.New()

		mock.ExpectQuery(`SELECT AVG\(overall_score\) FROM "supplier_performances" WHERE tenant_id = \$1 AND supplier_id = \$2`).
			WithArgs(tenantID, supplierID).
			WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))

		avg, err := repo.AverageOverall(context.Background(), tenantID, supplierID)

		require.NoError(t, err)
		assert.True(t, avg.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns the mean", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormSupplierPerformanceRepository(db)

		mock.ExpectQuery(`SELECT AVG\(overall_score\) FROM "supplier_performances"`).
			WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow("81.3333333333"))

		avg, err := repo.AverageOverall(context.Background(), uuid.New(), uuid.New())

		require.NoError(t, err)
		assert.Equal(t, "81.33", avg.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplierPerformanceRepository_Summarize(t *testing.T) {
	t.Run("supplier without evaluations", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormSupplierPerformanceRepository(db)

		supplierID := uuid.New()

		mock.ExpectQuery(`SELECT COUNT\(\*\) AS evaluation_count.* FROM "supplier_performances"`).
			WillReturnRows(sqlmock.NewRows([]string{
				"evaluation_count", "average_quality", "average_delivery",
				"average_price", "average_communication", "average_overall",
			}).AddRow(0, nil, nil, nil, nil, nil))

		summary, err := repo.Summarize(context.Background(), uuid.New(), supplierID)

		require.NoError(t, err)
		assert.Equal(t, supplierID, summary.SupplierID)
		assert.Equal(t, int64(0), summary.EvaluationCount)
		assert.True(t, summary.AverageOverall.IsZero())
		assert.Nil(t, summary.Latest)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rounds averages and attaches the latest evaluation", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormSupplierPerformanceRepository(db)

		tenantID := uuid.New()
		supplierID := uuid.New()
		latestID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT COUNT\(\*\) AS evaluation_count.* FROM "supplier_performances"`).
			WillReturnRows(sqlmock.NewRows([]string{
				"evaluation_count", "average_quality", "average_delivery",
				"average_price", "average_communication", "average_overall",
			}).AddRow(3, "90.005", "80", "70", "60", "75.0012"))
		mock.ExpectQuery(`SELECT \* FROM "supplier_performances" WHERE tenant_id = \$1 AND supplier_id = \$2 ORDER BY period_end DESC, created_at DESC`).
			WithArgs(tenantID, supplierID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "supplier_id", "overall_score", "period_start", "period_end", "created_at"}).
				AddRow(latestID, tenantID, supplierID, "77.50", now, now, now))

		summary, err := repo.Summarize(context.Background(), tenantID, supplierID)

		require.NoError(t, err)
		assert.Equal(t, int64(3), summary.EvaluationCount)
		assert.Equal(t, "90.01", summary.AverageQuality.StringFixed(2))
		assert.Equal(t, "75.00", summary.AverageOverall.StringFixed(2))
		require.NotNil(t, summary.Latest)
		assert.Equal(t, latestID, summary.Latest.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
