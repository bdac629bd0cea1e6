package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*analytics.Report, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Report), args.Error(1)
}

func (m *MockReportRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]analytics.Report, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]analytics.Report), args.Error(1)
}

func (m *MockReportRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) FindDue(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]analytics.Report, error) {
	args := m.Called(ctx, tenantID, now)
	return args.Get(0).([]analytics.Report), args.Error(1)
}

func (m *MockReportRepository) Save(ctx context.Context, report *analytics.Report) error {
	return m.Called(ctx, report).Error(0)
}

type MockKPIRepository struct {
	mock.Mock
}

func (m *MockKPIRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*analytics.KPI, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.KPI), args.Error(1)
}

func (m *MockKPIRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*analytics.KPI, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.KPI), args.Error(1)
}

func (m *MockKPIRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]analytics.KPI, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]analytics.KPI), args.Error(1)
}

func (m *MockKPIRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]analytics.KPI, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]analytics.KPI), args.Error(1)
}

func (m *MockKPIRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockKPIRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockKPIRepository) Save(ctx context.Context, kpi *analytics.KPI) error {
	return m.Called(ctx, kpi).Error(0)
}

type MockMeasurementRepository struct {
	mock.Mock
}

func (m *MockMeasurementRepository) FindByKPI(ctx context.Context, tenantID, kpiID uuid.UUID, filter shared.Filter) ([]analytics.KPIMeasurement, error) {
	args := m.Called(ctx, tenantID, kpiID, filter)
	return args.Get(0).([]analytics.KPIMeasurement), args.Error(1)
}

func (m *MockMeasurementRepository) CountByKPI(ctx context.Context, tenantID, kpiID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, kpiID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMeasurementRepository) Create(ctx context.Context, measurement *analytics.KPIMeasurement) error {
	return m.Called(ctx, measurement).Error(0)
}

type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*analytics.KPIAlert, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.KPIAlert), args.Error(1)
}

func (m *MockAlertRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]analytics.KPIAlert, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]analytics.KPIAlert), args.Error(1)
}

func (m *MockAlertRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAlertRepository) FindOpenByKPI(ctx context.Context, tenantID, kpiID uuid.UUID) ([]analytics.KPIAlert, error) {
	args := m.Called(ctx, tenantID, kpiID)
	return args.Get(0).([]analytics.KPIAlert), args.Error(1)
}

func (m *MockAlertRepository) Save(ctx context.Context, alert *analytics.KPIAlert) error {
	return m.Called(ctx, alert).Error(0)
}

type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*analytics.Dashboard, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Dashboard), args.Error(1)
}

func (m *MockDashboardRepository) FindVisible(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]analytics.Dashboard, error) {
	args := m.Called(ctx, tenantID, userID, filter)
	return args.Get(0).([]analytics.Dashboard), args.Error(1)
}

func (m *MockDashboardRepository) CountVisible(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) ClearDefault(ctx context.Context, tenantID, ownerID, keepID uuid.UUID) error {
	return m.Called(ctx, tenantID, ownerID, keepID).Error(0)
}

func (m *MockDashboardRepository) Save(ctx context.Context, dashboard *analytics.Dashboard) error {
	return m.Called(ctx, dashboard).Error(0)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]analytics.AnalyticsEvent, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]analytics.AnalyticsEvent), args.Error(1)
}

func (m *MockEventRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) Summarize(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]analytics.EventCount, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.EventCount), args.Error(1)
}

func (m *MockEventRepository) Create(ctx context.Context, event *analytics.AnalyticsEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockReportDataSource struct {
	mock.Mock
}

func (m *MockReportDataSource) Run(ctx context.Context, tenantID uuid.UUID, reportType analytics.ReportType, params map[string]any) (*analytics.ReportResult, error) {
	args := m.Called(ctx, tenantID, reportType, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.ReportResult), args.Error(1)
}

type MockKPIDataSource struct {
	mock.Mock
}

func (m *MockKPIDataSource) Compute(ctx context.Context, tenantID uuid.UUID, source analytics.DataSource) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, source)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockExportStorage struct {
	mock.Mock
}

func (m *MockExportStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	return m.Called(ctx, storageKey, data, contentType).Error(0)
}

func (m *MockExportStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// memoryCache is a map-backed ResultCache that records invalidations
type memoryCache struct {
	mu          sync.Mutex
	entries     map[CacheKey][]byte
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[CacheKey][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key CacheKey) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key CacheKey, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, key CacheKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) InvalidateType(_ context.Context, tenantID uuid.UUID, cacheType string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.TenantID == tenantID && k.CacheType == cacheType {
			delete(c.entries, k)
		}
	}
	c.invalidated = append(c.invalidated, cacheType)
	return nil
}

type repos struct {
	kpis         *MockKPIRepository
	measurements *MockMeasurementRepository
	alerts       *MockAlertRepository
	dashboards   *MockDashboardRepository
	scope        *NoOpTransactionScope
}

func newRepos() repos {
	r := repos{
		kpis:         new(MockKPIRepository),
		measurements: new(MockMeasurementRepository),
		alerts:       new(MockAlertRepository),
		dashboards:   new(MockDashboardRepository),
	}
	r.scope = NewNoOpTransactionScope(r.kpis, r.measurements, r.alerts, r.dashboards)
	return r
}
