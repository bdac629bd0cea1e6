package purchasing

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = "draft"
	PurchaseOrderStatusPendingApproval   PurchaseOrderStatus = "pending_approval"
	PurchaseOrderStatusApproved          PurchaseOrderStatus = "approved"
	PurchaseOrderStatusRejected          PurchaseOrderStatus = "rejected"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "partially_received"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusPendingApproval, PurchaseOrderStatusApproved,
		PurchaseOrderStatusRejected, PurchaseOrderStatusPartiallyReceived, PurchaseOrderStatusReceived,
		PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanReceive returns true if goods may be received against the order
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusApproved || s == PurchaseOrderStatusPartiallyReceived
}

// PurchaseOrderItem is one ordered line
type PurchaseOrderItem struct {
	ID               uuid.UUID
	PurchaseOrderID  uuid.UUID
	ProductName      string
	Description      string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	Total            decimal.Decimal
	ReceivedQuantity decimal.Decimal
	SortOrder        int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RemainingQuantity returns quantity not yet received
func (i *PurchaseOrderItem) RemainingQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.ReceivedQuantity)
}

// IsFullyReceived returns true once the ordered quantity has arrived
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.Quantity)
}

// ItemInput describes a line to add to an order
type ItemInput struct {
	ProductName string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// ReceiptLine records goods received for one item
type ReceiptLine struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// PurchaseOrder is the aggregate root for buying from a supplier.
// subtotal = Σ item.total, tax = subtotal*tax_rate/100, total = subtotal + tax + shipping.
// Status after approval is derived from received quantities.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	PONumber             string
	SupplierID           uuid.UUID
	SupplierName         string
	OrderDate            time.Time
	ExpectedDeliveryDate *time.Time
	Status               PurchaseOrderStatus
	TaxRate              decimal.Decimal
	ShippingCost         decimal.Decimal
	Subtotal             decimal.Decimal
	TaxAmount            decimal.Decimal
	TotalAmount          decimal.Decimal
	ApprovedBy           *uuid.UUID
	ApprovalDate         *time.Time
	RejectionReason      string
	Notes                string
	SubmittedAt          *time.Time
	ReceivedAt           *time.Time
	CancelledAt          *time.Time
	Items                []PurchaseOrderItem
}

// NewPurchaseOrder creates a draft order for an active supplier
func NewPurchaseOrder(tenantID uuid.UUID, poNumber string, supplier *Supplier, orderDate time.Time) (*PurchaseOrder, error) {
	if supplier.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	if !supplier.CanReceiveOrders() {
		return nil, shared.NewDomainError("SUPPLIER_INACTIVE", "Supplier "+supplier.Code+" cannot receive new orders")
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}
	po := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PONumber:            poNumber,
		SupplierID:          supplier.ID,
		SupplierName:        supplier.Name,
		OrderDate:           truncateDay(orderDate),
		Status:              PurchaseOrderStatusDraft,
		TaxRate:             decimal.Zero,
		ShippingCost:        decimal.Zero,
		Subtotal:            decimal.Zero,
		TaxAmount:           decimal.Zero,
		TotalAmount:         decimal.Zero,
		Items:               make([]PurchaseOrderItem, 0),
	}
	po.AddDomainEvent(NewPurchaseOrderCreatedEvent(po))
	return po, nil
}

// UpdateHeader changes delivery, pricing and notes of a draft order
func (po *PurchaseOrder) UpdateHeader(expectedDelivery *time.Time, taxRate, shippingCost decimal.Decimal, notes string) error {
	if err := po.ensureDraft("update purchase order"); err != nil {
		return err
	}
	v := &shared.ValidationError{}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		v.Add("tax_rate", "Tax rate must be between 0 and 100")
	}
	if shippingCost.IsNegative() {
		v.Add("shipping_cost", "Shipping cost cannot be negative")
	}
	if expectedDelivery != nil && expectedDelivery.Before(po.OrderDate) {
		v.Add("expected_delivery_date", "Expected delivery cannot be before the order date")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	if expectedDelivery != nil {
		d := truncateDay(*expectedDelivery)
		expectedDelivery = &d
	}
	po.ExpectedDeliveryDate = expectedDelivery
	po.TaxRate = taxRate
	po.ShippingCost = shared.RoundMoney(shippingCost)
	po.Notes = notes
	po.recalculate()
	po.touch()
	return nil
}

// AddItem appends a line to a draft order and recomputes totals
func (po *PurchaseOrder) AddItem(in ItemInput) (*PurchaseOrderItem, error) {
	if err := po.ensureDraft("add item"); err != nil {
		return nil, err
	}
	if err := validateItem(in); err != nil {
		return nil, err
	}
	now := time.Now()
	po.Items = append(po.Items, PurchaseOrderItem{
		ID:               uuid.New(),
		PurchaseOrderID:  po.ID,
		ProductName:      strings.TrimSpace(in.ProductName),
		Description:      in.Description,
		Quantity:         in.Quantity,
		UnitPrice:        in.UnitPrice,
		Total:            shared.RoundMoney(in.Quantity.Mul(in.UnitPrice)),
		ReceivedQuantity: decimal.Zero,
		SortOrder:        len(po.Items),
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	po.recalculate()
	po.touch()
	return &po.Items[len(po.Items)-1], nil
}

// UpdateItem changes a line of a draft order
func (po *PurchaseOrder) UpdateItem(itemID uuid.UUID, in ItemInput) error {
	if err := po.ensureDraft("update item"); err != nil {
		return err
	}
	if err := validateItem(in); err != nil {
		return err
	}
	item := po.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Purchase order item not found")
	}
	item.ProductName = strings.TrimSpace(in.ProductName)
	item.Description = in.Description
	item.Quantity = in.Quantity
	item.UnitPrice = in.UnitPrice
	item.Total = shared.RoundMoney(in.Quantity.Mul(in.UnitPrice))
	item.UpdatedAt = time.Now()
	po.recalculate()
	po.touch()
	return nil
}

// RemoveItem deletes a line of a draft order
func (po *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if err := po.ensureDraft("remove item"); err != nil {
		return err
	}
	for i := range po.Items {
		if po.Items[i].ID == itemID {
			po.Items = append(po.Items[:i], po.Items[i+1:]...)
			po.recalculate()
			po.touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Purchase order item not found")
}

// Submit sends a draft order for approval
func (po *PurchaseOrder) Submit() error {
	if po.Status != PurchaseOrderStatusDraft {
		return shared.InvalidTransition("submit purchase order", po.Status)
	}
	if len(po.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit a purchase order without items")
	}
	now := time.Now()
	po.Status = PurchaseOrderStatusPendingApproval
	po.SubmittedAt = &now
	po.touch()
	return nil
}

// Approve accepts a pending order, recording the approver and approval date
func (po *PurchaseOrder) Approve(approverID uuid.UUID) error {
	if po.Status != PurchaseOrderStatusPendingApproval {
		return shared.InvalidTransition("approve purchase order", po.Status)
	}
	now := time.Now()
	po.Status = PurchaseOrderStatusApproved
	po.ApprovedBy = &approverID
	po.ApprovalDate = &now
	po.touch()
	po.AddDomainEvent(NewPurchaseOrderApprovedEvent(po, approverID))
	return nil
}

// Reject declines a pending order
func (po *PurchaseOrder) Reject(approverID uuid.UUID, reason string) error {
	if po.Status != PurchaseOrderStatusPendingApproval {
		return shared.InvalidTransition("reject purchase order", po.Status)
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewValidationError("reason", "Rejection reason is required")
	}
	po.Status = PurchaseOrderStatusRejected
	po.RejectionReason = strings.TrimSpace(reason)
	po.touch()
	po.AddDomainEvent(NewPurchaseOrderRejectedEvent(po, approverID))
	return nil
}

// Receive records delivered quantities and derives the status from them
func (po *PurchaseOrder) Receive(lines []ReceiptLine) error {
	if !po.Status.CanReceive() {
		return shared.InvalidTransition("receive purchase order", po.Status)
	}
	if len(lines) == 0 {
		return shared.NewValidationError("items", "At least one receipt line is required")
	}

	// validate all lines before touching any item
	pending := make(map[uuid.UUID]decimal.Decimal, len(lines))
	for _, l := range lines {
		item := po.GetItem(l.ItemID)
		if item == nil {
			return shared.NewDomainError("ITEM_NOT_FOUND", "Purchase order item not found")
		}
		if !l.Quantity.IsPositive() {
			return shared.NewValidationError("quantity", "Received quantity must be positive")
		}
		total := pending[l.ItemID].Add(l.Quantity)
		if total.GreaterThan(item.RemainingQuantity()) {
			return shared.NewDomainError("OVER_RECEIPT", "Cannot receive more than ordered for "+item.ProductName)
		}
		pending[l.ItemID] = total
	}

	now := time.Now()
	for id, qty := range pending {
		item := po.GetItem(id)
		item.ReceivedQuantity = item.ReceivedQuantity.Add(qty)
		item.UpdatedAt = now
	}

	if po.IsFullyReceived() {
		po.Status = PurchaseOrderStatusReceived
		po.ReceivedAt = &now
	} else {
		po.Status = PurchaseOrderStatusPartiallyReceived
	}
	po.touch()
	po.AddDomainEvent(NewPurchaseOrderReceivedEvent(po))
	return nil
}

// Cancel voids an order that has not received goods
func (po *PurchaseOrder) Cancel() error {
	switch po.Status {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusPendingApproval, PurchaseOrderStatusApproved:
	default:
		return shared.InvalidTransition("cancel purchase order", po.Status)
	}
	if po.ReceivedQuantity().IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a purchase order with received goods")
	}
	now := time.Now()
	po.Status = PurchaseOrderStatusCancelled
	po.CancelledAt = &now
	po.touch()
	return nil
}

// IsFullyReceived returns true when every item has arrived
func (po *PurchaseOrder) IsFullyReceived() bool {
	if len(po.Items) == 0 {
		return false
	}
	for i := range po.Items {
		if !po.Items[i].IsFullyReceived() {
			return false
		}
	}
	return true
}

// ReceivedQuantity sums received quantity over all items
func (po *PurchaseOrder) ReceivedQuantity() decimal.Decimal {
	sum := decimal.Zero
	for _, i := range po.Items {
		sum = sum.Add(i.ReceivedQuantity)
	}
	return sum
}

// ReceiptProgress returns received/ordered quantity as a percentage
func (po *PurchaseOrder) ReceiptProgress() decimal.Decimal {
	ordered := decimal.Zero
	for _, i := range po.Items {
		ordered = ordered.Add(i.Quantity)
	}
	if ordered.IsZero() {
		return decimal.Zero
	}
	return po.ReceivedQuantity().Div(ordered).Mul(decimal.NewFromInt(100)).Round(2)
}

// GetItem returns the item with the given ID
func (po *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for i := range po.Items {
		if po.Items[i].ID == itemID {
			return &po.Items[i]
		}
	}
	return nil
}

func (po *PurchaseOrder) recalculate() {
	subtotal := decimal.Zero
	for _, i := range po.Items {
		subtotal = subtotal.Add(i.Total)
	}
	po.Subtotal = subtotal
	po.TaxAmount = shared.Percentage(subtotal, po.TaxRate)
	po.TotalAmount = subtotal.Add(po.TaxAmount).Add(po.ShippingCost)
}

func (po *PurchaseOrder) ensureDraft(action string) error {
	if po.Status != PurchaseOrderStatusDraft {
		return shared.InvalidTransition(action, po.Status)
	}
	return nil
}

func (po *PurchaseOrder) touch() {
	po.UpdatedAt = time.Now()
	po.IncrementVersion()
}

func validateItem(in ItemInput) error {
	v := &shared.ValidationError{}
	if strings.TrimSpace(in.ProductName) == "" {
		v.Add("product_name", "Product name is required")
	}
	if !in.Quantity.IsPositive() {
		v.Add("quantity", "Quantity must be positive")
	}
	if in.UnitPrice.IsNegative() {
		v.Add("unit_price", "Unit price cannot be negative")
	}
	return v.OrNil()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
