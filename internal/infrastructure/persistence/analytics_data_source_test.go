package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDataSource(t *testing.T) (*GormAnalyticsDataSource, sqlmock.Sqlmock, func()) {
	db, mock, mockDB := newMockGormDB(t)
	ds := NewGormAnalyticsDataSource(db)
	ds.now = fixedClock
	return ds, mock, func() { mockDB.Close() }
}

func TestGormAnalyticsDataSource_Compute(t *testing.T) {
	t.Run("headcount counts non-terminated employees", func(t *testing.T) {
		ds, mock, done := newMockDataSource(t)
		defer done()

		tenantID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "employees" WHERE tenant_id = \$1 AND status <> \$2`).
			WithArgs(tenantID, "terminated").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

		value, err := ds.Compute(context.Background(), tenantID, analytics.DataSourceHeadcount)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(12).Equal(value))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("collection rate is paid over billed", func(t *testing.T) {
		ds, mock, done := newMockDataSource(t)
		defer done()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) AS billed, COALESCE\(SUM\(paid_amount\), 0\) AS paid FROM "invoices"`).
			WillReturnRows(sqlmock.NewRows([]string{"billed", "paid"}).AddRow("3000", "1000"))

		value, err := ds.Compute(context.Background(), uuid.New(), analytics.DataSourceCollectionRate)

		require.NoError(t, err)
		assert.Equal(t, "33.33", value.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("collection rate without invoices is zero", func(t *testing.T) {
		ds, mock, done := newMockDataSource(t)
		defer done()

		mock.ExpectQuery(`FROM "invoices"`).
			WillReturnRows(sqlmock.NewRows([]string{"billed", "paid"}).AddRow("0", "0"))

		value, err := ds.Compute(context.Background(), uuid.New(), analytics.DataSourceCollectionRate)

		require.NoError(t, err)
		assert.True(t, value.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("outstanding receivables sums open balances", func(t *testing.T) {
		ds, mock, done := newMockDataSource(t)
		defer done()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount - paid_amount\), 0\) FROM "invoices" WHERE tenant_id = \$1 AND status IN`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("4250.75"))

		value, err := ds.Compute(context.Background(), uuid.New(), analytics.DataSourceOutstandingReceivables)

		require.NoError(t, err)
		assert.Equal(t, "4250.75", value.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown source is a validation error", func(t *testing.T) {
		ds, mock, done := newMockDataSource(t)
		defer done()

		_, err := ds.Compute(context.Background(), uuid.New(), analytics.DataSource("weather"))

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "data_source", verr.Fields[0].Field)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAnalyticsDataSource_InvoiceAging(t *testing.T) {
	ds, mock, done := newMockDataSource(t)
	defer done()

	mock.ExpectQuery(`SELECT CASE .* AS bucket.* FROM "invoices" WHERE tenant_id = .* GROUP BY bucket`).
		WillReturnRows(sqlmock.NewRows([]string{"bucket", "invoice_count", "outstanding"}).
			AddRow("1-30", 2, "150.00").
			AddRow("90+", 1, "900.00"))

	result, err := ds.Run(context.Background(), uuid.New(), analytics.ReportTypeInvoiceAging, map[string]any{"as_of": "2026-03-01"})

	require.NoError(t, err)
	assert.Equal(t, analytics.ReportTypeInvoiceAging, result.ReportType)
	assert.Equal(t, fixedClock().UTC(), result.GeneratedAt)
	require.Len(t, result.Rows, 5)
	assert.Equal(t, "current", result.Rows[0]["bucket"])
	assert.Equal(t, int64(0), result.Rows[0]["invoice_count"])
	assert.Equal(t, int64(2), result.Rows[1]["invoice_count"])
	assert.Equal(t, "90+", result.Rows[4]["bucket"])
	assert.Equal(t, int64(3), result.Totals["invoice_count"])
	assert.Equal(t, "1050.00", result.Totals["outstanding"].(decimal.Decimal).StringFixed(2))
	assert.Equal(t, "2026-03-01", result.Totals["as_of"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAnalyticsDataSource_BudgetUtilization(t *testing.T) {
	ds, mock, done := newMockDataSource(t)
	defer done()

	tenantID := uuid.New()
	mock.ExpectQuery(`SELECT name, status, total_amount, spent_amount FROM "budgets" WHERE tenant_id = \$1 AND fiscal_year = \$2 AND status <> \$3`).
		WithArgs(tenantID, 2025, "cancelled").
		WillReturnRows(sqlmock.NewRows([]string{"name", "status", "total_amount", "spent_amount"}).
			AddRow("Marketing", "approved", "1000", "250").
			AddRow("R&D", "approved", "0", "0"))

	result, err := ds.Run(context.Background(), tenantID, analytics.ReportTypeBudgetUtilization, map[string]any{"fiscal_year": float64(2025)})

	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "25.00", result.Rows[0]["utilization_percentage"].(decimal.Decimal).StringFixed(2))
	assert.True(t, result.Rows[1]["utilization_percentage"].(decimal.Decimal).IsZero())
	assert.Equal(t, 2025, result.Totals["fiscal_year"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAnalyticsDataSource_Run_Validation(t *testing.T) {
	ds, mock, done := newMockDataSource(t)
	defer done()

	t.Run("unknown report type", func(t *testing.T) {
		_, err := ds.Run(context.Background(), uuid.New(), analytics.ReportType("horoscope"), nil)

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "report_type", verr.Fields[0].Field)
	})

	t.Run("inverted date range", func(t *testing.T) {
		_, err := ds.Run(context.Background(), uuid.New(), analytics.ReportTypeSalesSummary,
			map[string]any{"date_from": "2026-05-01", "date_to": "2026-04-01"})

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "date_to", verr.Fields[0].Field)
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := ds.Run(context.Background(), uuid.New(), analytics.ReportTypePurchaseSummary,
			map[string]any{"date_from": "last tuesday"})

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "date_from", verr.Fields[0].Field)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportParams(t *testing.T) {
	fallback := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	d, err := dateParam(map[string]any{}, "date_from", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, d)

	d, err = dateParam(map[string]any{"date_from": "2026-02-03T15:04:05Z"}, "date_from", fallback)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), d)

	_, err = dateParam(map[string]any{"date_from": 20260203}, "date_from", fallback)
	assert.Error(t, err)

	n, err := intParam(map[string]any{"fiscal_year": "2024"}, "fiscal_year", 2026)
	require.NoError(t, err)
	assert.Equal(t, 2024, n)

	n, err = intParam(nil, "fiscal_year", 2026)
	require.NoError(t, err)
	assert.Equal(t, 2026, n)

	_, err = intParam(map[string]any{"fiscal_year": "next"}, "fiscal_year", 2026)
	assert.Error(t, err)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "50.00", percentage(decimal.NewFromInt(1), decimal.NewFromInt(2)).StringFixed(2))
	assert.True(t, percentage(decimal.NewFromInt(5), decimal.Zero).IsZero())
}
