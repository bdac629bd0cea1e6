package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dashboardFixture struct {
	r       repos
	reports *MockReportRepository
	cache   *memoryCache
	svc     *DashboardService
}

func newDashboardFixture() dashboardFixture {
	f := dashboardFixture{r: newRepos(), reports: new(MockReportRepository), cache: newMemoryCache()}
	reportSvc := NewReportService(f.reports, new(MockReportDataSource), f.cache, time.Hour, zap.NewNop())
	f.svc = NewDashboardService(f.r.scope, f.r.dashboards, f.r.kpis, f.reports, reportSvc, zap.NewNop())
	return f
}

func newTestDashboard(t *testing.T, tenantID, ownerID uuid.UUID, isShared bool, widgets ...analytics.Widget) *analytics.Dashboard {
	t.Helper()
	d, err := analytics.NewDashboard(tenantID, ownerID, "Sales overview", "", isShared, widgets)
	require.NoError(t, err)
	return d
}

func TestDashboardService_Visibility(t *testing.T) {
	ctx := context.Background()
	tenantID, owner, other := uuid.New(), uuid.New(), uuid.New()

	t.Run("private dashboard is hidden from others", func(t *testing.T) {
		f := newDashboardFixture()
		d := newTestDashboard(t, tenantID, owner, false)
		f.r.dashboards.On("FindByIDForTenant", ctx, tenantID, d.ID).Return(d, nil)

		_, err := f.svc.GetByID(ctx, tenantID, other, d.ID)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("shared dashboard is readable but not editable", func(t *testing.T) {
		f := newDashboardFixture()
		d := newTestDashboard(t, tenantID, owner, true)
		f.r.dashboards.On("FindByIDForTenant", ctx, tenantID, d.ID).Return(d, nil)

		resp, err := f.svc.GetByID(ctx, tenantID, other, d.ID)
		require.NoError(t, err)
		assert.Equal(t, owner, resp.OwnerID)

		_, err = f.svc.Update(ctx, tenantID, other, d.ID, DashboardRequest{Name: "Mine now"})
		assert.True(t, shared.HasCode(err, "NOT_DASHBOARD_OWNER"))
		f.r.dashboards.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("clone belongs to the caller", func(t *testing.T) {
		f := newDashboardFixture()
		kpiID := uuid.New()
		d := newTestDashboard(t, tenantID, owner, true,
			analytics.Widget{WidgetType: analytics.WidgetTypeKPI, Title: "Revenue", KPIID: &kpiID},
			analytics.Widget{WidgetType: analytics.WidgetTypeText, Title: "Notes", Config: map[string]any{"text": "hi"}},
		)
		require.NoError(t, d.SetDefault())
		f.r.dashboards.On("FindByIDForTenant", ctx, tenantID, d.ID).Return(d, nil)
		f.r.dashboards.On("Save", ctx, mock.AnythingOfType("*analytics.Dashboard")).Return(nil)

		clone, err := f.svc.Clone(ctx, tenantID, other, d.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sales overview (Copy)", clone.Name)
		assert.Equal(t, other, clone.OwnerID)
		assert.False(t, clone.IsDefault)
		assert.False(t, clone.IsShared)
		require.Len(t, clone.Widgets, 2)
		assert.NotEqual(t, d.Widgets[0].ID, clone.Widgets[0].ID)
		assert.Equal(t, kpiID, *clone.Widgets[0].KPIID)
	})
}

func TestDashboardService_SetDefault(t *testing.T) {
	ctx := context.Background()
	tenantID, owner := uuid.New(), uuid.New()
	f := newDashboardFixture()
	d := newTestDashboard(t, tenantID, owner, false)
	f.r.dashboards.On("FindByIDForTenant", ctx, tenantID, d.ID).Return(d, nil)
	f.r.dashboards.On("ClearDefault", ctx, tenantID, owner, d.ID).Return(nil)
	f.r.dashboards.On("Save", ctx, d).Return(nil)

	resp, err := f.svc.SetDefault(ctx, tenantID, owner, d.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	f.r.dashboards.AssertCalled(t, "ClearDefault", ctx, tenantID, owner, d.ID)
}

func TestDashboardService_Data(t *testing.T) {
	ctx := context.Background()
	tenantID, owner := uuid.New(), uuid.New()
	f := newDashboardFixture()

	kpi := newTestKPI(t, tenantID, "")
	kpi.CurrentValue = dec("75")
	report := newTestReport(t, tenantID, analytics.ScheduleNone)
	missingReport := uuid.New()

	d := newTestDashboard(t, tenantID, owner, false,
		analytics.Widget{WidgetType: analytics.WidgetTypeKPI, Title: "Revenue", KPIID: &kpi.ID},
		analytics.Widget{WidgetType: analytics.WidgetTypeReport, Title: "Sales", ReportID: &report.ID},
		analytics.Widget{WidgetType: analytics.WidgetTypeReport, Title: "Gone", ReportID: &missingReport},
		analytics.Widget{WidgetType: analytics.WidgetTypeText, Title: "Readme"},
	)
	f.r.dashboards.On("FindByIDForTenant", ctx, tenantID, d.ID).Return(d, nil)
	f.r.kpis.On("FindByIDs", ctx, tenantID, []uuid.UUID{kpi.ID}).Return([]analytics.KPI{*kpi}, nil)
	f.reports.On("FindByIDForTenant", ctx, tenantID, report.ID).Return(report, nil)
	f.reports.On("FindByIDForTenant", ctx, tenantID, missingReport).Return(nil, shared.ErrNotFound)

	cached, err := json.Marshal(salesResult())
	require.NoError(t, err)
	require.NoError(t, f.cache.Set(ctx, ReportCacheKey(report), cached, time.Hour))

	resp, err := f.svc.Data(ctx, tenantID, owner, d.ID)
	require.NoError(t, err)
	require.Len(t, resp.Widgets, 4)

	assert.True(t, resp.Widgets[0].Available)
	assert.True(t, resp.Widgets[0].KPI.CurrentValue.Equal(*kpi.CurrentValue))
	assert.True(t, resp.Widgets[0].KPI.IsBelowTarget)

	assert.True(t, resp.Widgets[1].Available)
	assert.Len(t, resp.Widgets[1].Report.Rows, 2)

	assert.False(t, resp.Widgets[2].Available)
	assert.Nil(t, resp.Widgets[2].Report)

	assert.True(t, resp.Widgets[3].Available)
}
