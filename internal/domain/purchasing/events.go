package purchasing

import (
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypePurchaseOrder is the aggregate type of purchase order events
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePurchaseOrderCreated  = "PurchaseOrderCreated"
	EventTypePurchaseOrderApproved = "PurchaseOrderApproved"
	EventTypePurchaseOrderRejected = "PurchaseOrderRejected"
	EventTypePurchaseOrderReceived = "PurchaseOrderReceived"
)

// PurchaseOrderCreatedEvent is raised when a purchase order is drafted
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	PONumber   string    `json:"po_number"`
	SupplierID uuid.UUID `json:"supplier_id"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(po *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, po.ID, po.TenantID),
		PONumber:        po.PONumber,
		SupplierID:      po.SupplierID,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCreatedEvent) EventType() string {
	return EventTypePurchaseOrderCreated
}

// PurchaseOrderApprovedEvent is raised when a purchase order is approved
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	PONumber    string          `json:"po_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderApprovedEvent creates a new PurchaseOrderApprovedEvent
func NewPurchaseOrderApprovedEvent(po *PurchaseOrder, approverID uuid.UUID) *PurchaseOrderApprovedEvent {
	return &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewActorDomainEvent(EventTypePurchaseOrderApproved, AggregateTypePurchaseOrder, po.ID, po.TenantID, approverID),
		PONumber:        po.PONumber,
		SupplierID:      po.SupplierID,
		TotalAmount:     po.TotalAmount,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderApprovedEvent) EventType() string {
	return EventTypePurchaseOrderApproved
}

// PurchaseOrderRejectedEvent is raised when a purchase order is rejected
type PurchaseOrderRejectedEvent struct {
	shared.BaseDomainEvent
	PONumber string `json:"po_number"`
	Reason   string `json:"reason"`
}

// NewPurchaseOrderRejectedEvent creates a new PurchaseOrderRejectedEvent
func NewPurchaseOrderRejectedEvent(po *PurchaseOrder, approverID uuid.UUID) *PurchaseOrderRejectedEvent {
	return &PurchaseOrderRejectedEvent{
		BaseDomainEvent: shared.NewActorDomainEvent(EventTypePurchaseOrderRejected, AggregateTypePurchaseOrder, po.ID, po.TenantID, approverID),
		PONumber:        po.PONumber,
		Reason:          po.RejectionReason,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderRejectedEvent) EventType() string {
	return EventTypePurchaseOrderRejected
}

// PurchaseOrderReceivedEvent is raised for every goods receipt
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	PONumber        string              `json:"po_number"`
	Status          PurchaseOrderStatus `json:"status"`
	ReceiptProgress decimal.Decimal     `json:"receipt_progress"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(po *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, po.ID, po.TenantID),
		PONumber:        po.PONumber,
		Status:          po.Status,
		ReceiptProgress: po.ReceiptProgress(),
	}
}

// EventType returns the event type name
func (e *PurchaseOrderReceivedEvent) EventType() string {
	return EventTypePurchaseOrderReceived
}
