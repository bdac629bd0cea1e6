package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newTestKPI(t *testing.T, tenantID uuid.UUID, source analytics.DataSource) *analytics.KPI {
	t.Helper()
	kpi, err := analytics.NewKPI(tenantID, "rev", analytics.KPIDetails{
		Name: "Monthly revenue",
		Unit: "EUR",
		Thresholds: analytics.Thresholds{
			Target:   dec("100"),
			Warning:  dec("80"),
			Critical: dec("50"),
		},
		DataSource: source,
	})
	require.NoError(t, err)
	return kpi
}

type kpiFixture struct {
	r         repos
	cache     *memoryCache
	source    *MockKPIDataSource
	publisher *MockEventPublisher
	svc       *KPIService
}

func newKPIFixture(now time.Time) kpiFixture {
	f := kpiFixture{
		r:         newRepos(),
		cache:     newMemoryCache(),
		source:    new(MockKPIDataSource),
		publisher: new(MockEventPublisher),
	}
	f.svc = NewKPIService(f.r.scope, f.r.kpis, f.r.measurements, f.source, f.cache, zap.NewNop())
	f.svc.SetEventPublisher(f.publisher)
	f.svc.now = func() time.Time { return now }
	return f
}

func (f kpiFixture) expectRecord(ctx context.Context, kpi *analytics.KPI, open []analytics.KPIAlert) {
	f.r.kpis.On("FindByIDForUpdate", ctx, kpi.TenantID, kpi.ID).Return(kpi, nil)
	f.r.alerts.On("FindOpenByKPI", ctx, kpi.TenantID, kpi.ID).Return(open, nil)
	f.r.kpis.On("Save", ctx, kpi).Return(nil)
	f.r.measurements.On("Create", ctx, mock.AnythingOfType("*analytics.KPIMeasurement")).Return(nil)
}

func TestKPIService_RecordMeasurement(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()
	now := time.Date(2024, 5, 31, 18, 0, 0, 0, time.UTC)

	t.Run("first value sets current without change or alert", func(t *testing.T) {
		f := newKPIFixture(now)
		kpi := newTestKPI(t, tenantID, "")
		f.expectRecord(ctx, kpi, []analytics.KPIAlert{})

		result, err := f.svc.RecordMeasurement(ctx, tenantID, kpi.ID, actorID, RecordMeasurementRequest{Value: dec("90")})
		require.NoError(t, err)

		assert.True(t, result.KPI.CurrentValue.Equal(decimal.NewFromInt(90)))
		assert.Nil(t, result.KPI.PreviousValue)
		assert.Nil(t, result.KPI.ChangePercentage)
		assert.Nil(t, result.Alert)
		assert.Equal(t, now, result.Measurement.MeasuredAt)
		assert.Equal(t, &actorID, result.Measurement.RecordedBy)
		f.r.alerts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		assert.Equal(t, []string{"report:kpi_snapshot"}, f.cache.invalidated)
	})

	t.Run("critical breach computes change and raises one alert", func(t *testing.T) {
		f := newKPIFixture(now)
		kpi := newTestKPI(t, tenantID, "")
		kpi.CurrentValue = dec("90")
		f.expectRecord(ctx, kpi, []analytics.KPIAlert{})
		f.r.alerts.On("Save", ctx, mock.AnythingOfType("*analytics.KPIAlert")).Return(nil)
		f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

		result, err := f.svc.RecordMeasurement(ctx, tenantID, kpi.ID, actorID, RecordMeasurementRequest{Value: dec("45")})
		require.NoError(t, err)

		assert.True(t, result.KPI.PreviousValue.Equal(decimal.NewFromInt(90)))
		assert.True(t, result.KPI.ChangePercentage.Equal(decimal.NewFromInt(-50)))
		require.NotNil(t, result.Alert)
		assert.Equal(t, "critical", result.Alert.Severity)
		assert.Equal(t, "active", result.Alert.Status)
		assert.True(t, result.Alert.Threshold.Equal(decimal.NewFromInt(50)))
		f.r.alerts.AssertNumberOfCalls(t, "Save", 1)

		events := f.publisher.Calls[0].Arguments.Get(1).([]shared.DomainEvent)
		require.Len(t, events, 1)
		assert.Equal(t, analytics.EventTypeKPIAlertRaised, events[0].EventType())
		assert.Empty(t, kpi.GetDomainEvents())
	})

	t.Run("warning when only the warning threshold is crossed", func(t *testing.T) {
		f := newKPIFixture(now)
		kpi := newTestKPI(t, tenantID, "")
		f.expectRecord(ctx, kpi, []analytics.KPIAlert{})
		f.r.alerts.On("Save", ctx, mock.AnythingOfType("*analytics.KPIAlert")).Return(nil)
		f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

		result, err := f.svc.RecordMeasurement(ctx, tenantID, kpi.ID, actorID, RecordMeasurementRequest{Value: dec("70")})
		require.NoError(t, err)
		require.NotNil(t, result.Alert)
		assert.Equal(t, "warning", result.Alert.Severity)
	})

	t.Run("open alert of the same severity suppresses a duplicate", func(t *testing.T) {
		f := newKPIFixture(now)
		kpi := newTestKPI(t, tenantID, "")
		open := analytics.KPIAlert{
			TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
			KPIID:               kpi.ID,
			Severity:            analytics.SeverityCritical,
			Status:              analytics.AlertStatusAcknowledged,
		}
		f.expectRecord(ctx, kpi, []analytics.KPIAlert{open})

		result, err := f.svc.RecordMeasurement(ctx, tenantID, kpi.ID, actorID, RecordMeasurementRequest{Value: dec("10")})
		require.NoError(t, err)
		assert.Nil(t, result.Alert)
		f.r.alerts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("archived KPI rejects measurements", func(t *testing.T) {
		f := newKPIFixture(now)
		kpi := newTestKPI(t, tenantID, "")
		require.NoError(t, kpi.Archive())
		f.r.kpis.On("FindByIDForUpdate", ctx, tenantID, kpi.ID).Return(kpi, nil)
		f.r.alerts.On("FindOpenByKPI", ctx, tenantID, kpi.ID).Return([]analytics.KPIAlert{}, nil)

		_, err := f.svc.RecordMeasurement(ctx, tenantID, kpi.ID, actorID, RecordMeasurementRequest{Value: dec("10")})
		assert.True(t, shared.HasCode(err, "INVALID_STATE"))
		f.r.measurements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestKPIService_Calculate(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	t.Run("manual KPI cannot be calculated", func(t *testing.T) {
		f := newKPIFixture(now)
		kpi := newTestKPI(t, tenantID, "")
		f.r.kpis.On("FindByIDForTenant", ctx, tenantID, kpi.ID).Return(kpi, nil)

		_, err := f.svc.Calculate(ctx, tenantID, kpi.ID, actorID)
		assert.True(t, shared.IsValidation(err))
		f.source.AssertNotCalled(t, "Compute", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("records the computed value", func(t *testing.T) {
		f := newKPIFixture(now)
		kpi := newTestKPI(t, tenantID, analytics.DataSourceRevenueTotal)
		f.r.kpis.On("FindByIDForTenant", ctx, tenantID, kpi.ID).Return(kpi, nil)
		f.source.On("Compute", ctx, tenantID, analytics.DataSourceRevenueTotal).Return(decimal.NewFromInt(120), nil)
		f.expectRecord(ctx, kpi, []analytics.KPIAlert{})

		result, err := f.svc.Calculate(ctx, tenantID, kpi.ID, actorID)
		require.NoError(t, err)
		assert.True(t, result.KPI.CurrentValue.Equal(decimal.NewFromInt(120)))
		assert.False(t, result.KPI.IsBelowTarget)
		assert.True(t, result.KPI.TargetAchievement.Equal(decimal.NewFromInt(120)))
		assert.Equal(t, "calculated from revenue_total", result.Measurement.Notes)
	})

	t.Run("data source failure records nothing", func(t *testing.T) {
		f := newKPIFixture(now)
		kpi := newTestKPI(t, tenantID, analytics.DataSourceHeadcount)
		f.r.kpis.On("FindByIDForTenant", ctx, tenantID, kpi.ID).Return(kpi, nil)
		f.source.On("Compute", ctx, tenantID, analytics.DataSourceHeadcount).Return(decimal.Zero, errors.New("db down"))

		_, err := f.svc.Calculate(ctx, tenantID, kpi.ID, actorID)
		require.Error(t, err)
		f.r.kpis.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestKPIService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()

	t.Run("duplicate code", func(t *testing.T) {
		f := newKPIFixture(time.Now())
		f.r.kpis.On("ExistsByCode", ctx, tenantID, "REV").Return(true, nil)

		_, err := f.svc.Create(ctx, tenantID, actorID, CreateKPIRequest{Code: "rev", KPIRequest: KPIRequest{Name: "Revenue"}})
		require.True(t, shared.IsValidation(err))
		assert.Contains(t, err.Error(), "code")
	})

	t.Run("thresholds out of order", func(t *testing.T) {
		f := newKPIFixture(time.Now())
		f.r.kpis.On("ExistsByCode", ctx, tenantID, "REV").Return(false, nil)

		_, err := f.svc.Create(ctx, tenantID, actorID, CreateKPIRequest{Code: "rev", KPIRequest: KPIRequest{
			Name:              "Revenue",
			WarningThreshold:  dec("40"),
			CriticalThreshold: dec("60"),
		}})
		assert.True(t, shared.HasCode(err, "INVALID_THRESHOLDS"))
		f.r.kpis.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("lower is better accepts reversed thresholds", func(t *testing.T) {
		f := newKPIFixture(time.Now())
		f.r.kpis.On("ExistsByCode", ctx, tenantID, "DSO").Return(false, nil)
		f.r.kpis.On("Save", ctx, mock.AnythingOfType("*analytics.KPI")).Return(nil)

		resp, err := f.svc.Create(ctx, tenantID, actorID, CreateKPIRequest{Code: "dso", KPIRequest: KPIRequest{
			Name:              "Days sales outstanding",
			Direction:         "lower_is_better",
			TargetValue:       dec("30"),
			WarningThreshold:  dec("45"),
			CriticalThreshold: dec("60"),
		}})
		require.NoError(t, err)
		assert.Equal(t, "DSO", resp.Code)
		assert.Equal(t, "lower_is_better", resp.Direction)
		assert.Equal(t, "active", resp.Status)
	})
}

func TestKPIService_UpdateAndDeleteLockTheKPI(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	t.Run("update keeps the recorded value", func(t *testing.T) {
		f := newKPIFixture(now)
		kpi := newTestKPI(t, tenantID, "")
		_, _, err := kpi.RecordMeasurement(decimal.NewFromInt(90), now, nil, nil)
		require.NoError(t, err)
		f.r.kpis.On("FindByIDForUpdate", ctx, tenantID, kpi.ID).Return(kpi, nil)
		f.r.kpis.On("Save", ctx, mock.MatchedBy(func(k *analytics.KPI) bool {
			return k.Name == "Quarterly revenue" && k.CurrentValue != nil && k.CurrentValue.Equal(decimal.NewFromInt(90))
		})).Return(nil)

		resp, err := f.svc.Update(ctx, tenantID, kpi.ID, KPIRequest{
			Name: "Quarterly revenue", Unit: "EUR", TargetValue: dec("100"), WarningThreshold: dec("80"), CriticalThreshold: dec("50"),
		})

		require.NoError(t, err)
		assert.Equal(t, "Quarterly revenue", resp.Name)
		f.r.kpis.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
		f.r.kpis.AssertExpectations(t)
	})

	t.Run("delete archives under the lock", func(t *testing.T) {
		f := newKPIFixture(now)
		kpi := newTestKPI(t, tenantID, "")
		f.r.kpis.On("FindByIDForUpdate", ctx, tenantID, kpi.ID).Return(kpi, nil)
		f.r.kpis.On("Save", ctx, kpi).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, tenantID, kpi.ID))
		assert.Equal(t, analytics.StatusArchived, kpi.Status)
	})

	t.Run("missing KPI saves nothing", func(t *testing.T) {
		f := newKPIFixture(now)
		id := uuid.New()
		f.r.kpis.On("FindByIDForUpdate", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		assert.True(t, shared.IsNotFound(f.svc.Delete(ctx, tenantID, id)))
		f.r.kpis.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
