package purchasing

import (
	"context"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Supplier, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, supplier *Supplier) error
}

// PurchaseOrderRepository defines the interface for purchase order persistence.
// Save replaces the item set of the order.
type PurchaseOrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)
	// FindByIDForUpdate loads the order with a row lock inside the current transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, po *PurchaseOrder) error
	// GeneratePONumber returns the next PO-YYYY-NNNNN number
	GeneratePONumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// ProcurementRequestRepository defines the interface for procurement request persistence
type ProcurementRequestRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ProcurementRequest, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ProcurementRequest, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, request *ProcurementRequest) error
	// GenerateRequestNumber returns the next REQ-YYYY-NNNNN number
	GenerateRequestNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// SupplierPerformanceRepository is append-only
type SupplierPerformanceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SupplierPerformance, error)
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]SupplierPerformance, error)
	CountBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error)
	// AverageOverall returns the mean overall score of all evaluations of the supplier
	AverageOverall(ctx context.Context, tenantID, supplierID uuid.UUID) (decimal.Decimal, error)
	Summarize(ctx context.Context, tenantID, supplierID uuid.UUID) (*PerformanceSummary, error)
	Create(ctx context.Context, evaluation *SupplierPerformance) error
}
