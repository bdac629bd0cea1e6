package purchasing

import (
	"context"

	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.Supplier, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]purchasing.Supplier, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]purchasing.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *purchasing.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, po *purchasing.PurchaseOrder) error {
	return m.Called(ctx, po).Error(0)
}

func (m *MockPurchaseOrderRepository) GeneratePONumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

type MockProcurementRequestRepository struct {
	mock.Mock
}

func (m *MockProcurementRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.ProcurementRequest, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.ProcurementRequest), args.Error(1)
}

func (m *MockProcurementRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]purchasing.ProcurementRequest, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]purchasing.ProcurementRequest), args.Error(1)
}

func (m *MockProcurementRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProcurementRequestRepository) Save(ctx context.Context, request *purchasing.ProcurementRequest) error {
	return m.Called(ctx, request).Error(0)
}

func (m *MockProcurementRequestRepository) GenerateRequestNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

type MockSupplierPerformanceRepository struct {
	mock.Mock
}

func (m *MockSupplierPerformanceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.SupplierPerformance, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.SupplierPerformance), args.Error(1)
}

func (m *MockSupplierPerformanceRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]purchasing.SupplierPerformance, error) {
	args := m.Called(ctx, tenantID, supplierID, filter)
	return args.Get(0).([]purchasing.SupplierPerformance), args.Error(1)
}

func (m *MockSupplierPerformanceRepository) CountBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, supplierID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierPerformanceRepository) AverageOverall(ctx context.Context, tenantID, supplierID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, supplierID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSupplierPerformanceRepository) Summarize(ctx context.Context, tenantID, supplierID uuid.UUID) (*purchasing.PerformanceSummary, error) {
	args := m.Called(ctx, tenantID, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PerformanceSummary), args.Error(1)
}

func (m *MockSupplierPerformanceRepository) Create(ctx context.Context, evaluation *purchasing.SupplierPerformance) error {
	return m.Called(ctx, evaluation).Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

type repos struct {
	suppliers   *MockSupplierRepository
	orders      *MockPurchaseOrderRepository
	requests    *MockProcurementRequestRepository
	performance *MockSupplierPerformanceRepository
	scope       *NoOpTransactionScope
}

func newRepos() repos {
	r := repos{
		suppliers:   new(MockSupplierRepository),
		orders:      new(MockPurchaseOrderRepository),
		requests:    new(MockProcurementRequestRepository),
		performance: new(MockSupplierPerformanceRepository),
	}
	r.scope = NewNoOpTransactionScope(r.suppliers, r.orders, r.requests, r.performance)
	return r
}
