package purchasing

import (
	"context"
	"time"

	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase orders from draft to receipt
type PurchaseOrderService struct {
	txScope      TransactionScope
	orderRepo    purchasing.PurchaseOrderRepository
	supplierRepo purchasing.SupplierRepository
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	txScope TransactionScope,
	orderRepo purchasing.PurchaseOrderRepository,
	supplierRepo purchasing.SupplierRepository,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{txScope: txScope, orderRepo: orderRepo, supplierRepo: supplierRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create creates a draft order with its items
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := findSupplier(ctx, s.supplierRepo, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	number, err := s.orderRepo.GeneratePONumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	po, err := buildOrder(tenantID, actorID, number, supplier, req.OrderDate.Time, req.POHeaderInput, req.Items)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	s.logger.Info("Purchase order created",
		zap.String("po_number", po.PONumber),
		zap.String("supplier", supplier.Code),
		zap.String("total", po.TotalAmount.StringFixed(2)))
	publishEvents(ctx, s.publisher, s.logger, po)

	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// GetByID retrieves a purchase order with its items
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, f PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	filter, err := f.ToFilter()
	if err != nil {
		return nil, 0, err
	}
	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return out, total, nil
}

// Update replaces the header of a draft order
func (s *PurchaseOrderService) Update(ctx context.Context, tenantID, orderID uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(po *purchasing.PurchaseOrder) error {
		return po.UpdateHeader(req.expectedDelivery(), req.TaxRate, req.ShippingCost, req.Notes)
	})
}

// AddItem appends a line to a draft order
func (s *PurchaseOrderService) AddItem(ctx context.Context, tenantID, orderID uuid.UUID, req POItemInput) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(po *purchasing.PurchaseOrder) error {
		_, err := po.AddItem(req.input())
		return err
	})
}

// UpdateItem changes a line of a draft order
func (s *PurchaseOrderService) UpdateItem(ctx context.Context, tenantID, orderID, itemID uuid.UUID, req POItemInput) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(po *purchasing.PurchaseOrder) error {
		return po.UpdateItem(itemID, req.input())
	})
}

// RemoveItem deletes a line of a draft order
func (s *PurchaseOrderService) RemoveItem(ctx context.Context, tenantID, orderID, itemID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(po *purchasing.PurchaseOrder) error {
		return po.RemoveItem(itemID)
	})
}

// Submit sends a draft order for approval
func (s *PurchaseOrderService) Submit(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(po *purchasing.PurchaseOrder) error {
		return po.Submit()
	})
}

// Approve approves a pending order as the caller
func (s *PurchaseOrderService) Approve(ctx context.Context, tenantID, actorID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	resp, err := s.mutate(ctx, tenantID, orderID, func(po *purchasing.PurchaseOrder) error {
		return po.Approve(actorID)
	})
	if err == nil {
		s.logger.Info("Purchase order approved",
			zap.String("po_number", resp.PONumber),
			zap.String("approved_by", actorID.String()))
	}
	return resp, err
}

// Reject declines a pending order
func (s *PurchaseOrderService) Reject(ctx context.Context, tenantID, actorID, orderID uuid.UUID, req RejectRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(po *purchasing.PurchaseOrder) error {
		return po.Reject(actorID, req.Reason)
	})
}

// Receive records delivered quantities; the row lock keeps concurrent receipts from over-receiving
func (s *PurchaseOrderService) Receive(ctx context.Context, tenantID, orderID uuid.UUID, req ReceiveGoodsRequest) (*PurchaseOrderResponse, error) {
	po, err := s.change(ctx, tenantID, orderID, func(po *purchasing.PurchaseOrder) error {
		return po.Receive(req.lines())
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Goods received",
		zap.String("po_number", po.PONumber),
		zap.String("status", string(po.Status)),
		zap.String("progress", po.ReceiptProgress().String()))

	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// Cancel voids an order with nothing received
func (s *PurchaseOrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(po *purchasing.PurchaseOrder) error {
		return po.Cancel()
	})
}

// Delete cancels the order
func (s *PurchaseOrderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	_, err := s.Cancel(ctx, tenantID, orderID)
	return err
}

func (s *PurchaseOrderService) mutate(ctx context.Context, tenantID, orderID uuid.UUID, fn func(*purchasing.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	po, err := s.change(ctx, tenantID, orderID, fn)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// change loads the order under a row lock, applies fn and saves it in one
// transaction. Two approvals of the same order serialize and the second
// sees it already approved.
func (s *PurchaseOrderService) change(ctx context.Context, tenantID, orderID uuid.UUID, fn func(*purchasing.PurchaseOrder) error) (*purchasing.PurchaseOrder, error) {
	var changed *purchasing.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		po, err := repos.PurchaseOrders().FindByIDForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if err := fn(po); err != nil {
			return err
		}
		if err := repos.PurchaseOrders().Save(ctx, po); err != nil {
			return err
		}
		changed = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	publishEvents(ctx, s.publisher, s.logger, changed)
	return changed, nil
}

func findSupplier(ctx context.Context, repo purchasing.SupplierRepository, tenantID, supplierID uuid.UUID) (*purchasing.Supplier, error) {
	supplier, err := repo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewValidationError("supplier_id", "Supplier not found")
		}
		return nil, err
	}
	return supplier, nil
}

// buildOrder creates a draft order with header and items applied
func buildOrder(tenantID, actorID uuid.UUID, number string, supplier *purchasing.Supplier, orderDate time.Time, header POHeaderInput, items []POItemInput) (*purchasing.PurchaseOrder, error) {
	po, err := purchasing.NewPurchaseOrder(tenantID, number, supplier, orderDate)
	if err != nil {
		return nil, err
	}
	if err := po.UpdateHeader(header.expectedDelivery(), header.TaxRate, header.ShippingCost, header.Notes); err != nil {
		return nil, err
	}
	for _, item := range items {
		if _, err := po.AddItem(item.input()); err != nil {
			return nil, err
		}
	}
	po.SetCreatedBy(actorID)
	return po, nil
}

// publishEvents never fails the caller: the aggregate is already saved
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, agg shared.AggregateRoot) {
	if n, err := shared.PublishRecorded(ctx, publisher, agg); err != nil {
		logger.Error("Failed to publish domain events", zap.Int("count", n), zap.String("aggregate_id", agg.GetID().String()), zap.Error(err))
	}
}
