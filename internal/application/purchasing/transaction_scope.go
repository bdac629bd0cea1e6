package purchasing

import (
	"context"

	"github.com/erp/platform/internal/domain/purchasing"
)

// TransactionScope runs purchasing operations that must commit together:
// goods receipt under a row lock, request conversion, and supplier evaluation with re-rating
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the purchasing repositories bound to one transaction
type TransactionalRepositories interface {
	Suppliers() purchasing.SupplierRepository
	PurchaseOrders() purchasing.PurchaseOrderRepository
	ProcurementRequests() purchasing.ProcurementRequestRepository
	Performance() purchasing.SupplierPerformanceRepository
}

// NoOpTransactionScope calls fn with the plain repositories
type NoOpTransactionScope struct {
	suppliers   purchasing.SupplierRepository
	orders      purchasing.PurchaseOrderRepository
	requests    purchasing.ProcurementRequestRepository
	performance purchasing.SupplierPerformanceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	suppliers purchasing.SupplierRepository,
	orders purchasing.PurchaseOrderRepository,
	requests purchasing.ProcurementRequestRepository,
	performance purchasing.SupplierPerformanceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{suppliers: suppliers, orders: orders, requests: requests, performance: performance}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Suppliers() purchasing.SupplierRepository { return s.suppliers }

func (s *NoOpTransactionScope) PurchaseOrders() purchasing.PurchaseOrderRepository { return s.orders }

func (s *NoOpTransactionScope) ProcurementRequests() purchasing.ProcurementRequestRepository {
	return s.requests
}

func (s *NoOpTransactionScope) Performance() purchasing.SupplierPerformanceRepository {
	return s.performance
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
