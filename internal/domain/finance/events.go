package finance

import (
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeInvoice = "Invoice"
	AggregateTypePayment = "Payment"
	AggregateTypeBudget  = "Budget"
)

// Event type constants
const (
	EventTypeInvoiceCreated        = "InvoiceCreated"
	EventTypeInvoiceSent           = "InvoiceSent"
	EventTypeInvoicePaid           = "InvoicePaid"
	EventTypeInvoiceOverdue        = "InvoiceOverdue"
	EventTypeInvoiceCancelled      = "InvoiceCancelled"
	EventTypePaymentRecorded       = "PaymentRecorded"
	EventTypeBudgetApproved        = "BudgetApproved"
	EventTypeBudgetExpenseRecorded = "BudgetExpenseRecorded"
)

// InvoiceCreatedEvent is raised when a new invoice is drafted
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	ClientName    string `json:"client_name"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceNumber:   inv.InvoiceNumber,
		ClientName:      inv.ClientName,
	}
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return EventTypeInvoiceCreated
}

// InvoiceSentEvent is raised when an invoice is issued to the client
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	ClientEmail   string          `json:"client_email"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(inv *Invoice, actorID uuid.UUID) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewActorDomainEvent(EventTypeInvoiceSent, AggregateTypeInvoice, inv.ID, inv.TenantID, actorID),
		InvoiceNumber:   inv.InvoiceNumber,
		ClientEmail:     inv.ClientEmail,
		TotalAmount:     inv.TotalAmount,
	}
}

// EventType returns the event type name
func (e *InvoiceSentEvent) EventType() string {
	return EventTypeInvoiceSent
}

// InvoicePaidEvent is raised when the paid amount reaches the total
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceNumber:   inv.InvoiceNumber,
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
	}
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return EventTypeInvoicePaid
}

// InvoiceOverdueEvent is raised when an open invoice passes its due date
type InvoiceOverdueEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
}

// NewInvoiceOverdueEvent creates a new InvoiceOverdueEvent
func NewInvoiceOverdueEvent(inv *Invoice) *InvoiceOverdueEvent {
	return &InvoiceOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceOverdue, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceNumber:   inv.InvoiceNumber,
		BalanceDue:      inv.BalanceDue(),
	}
}

// EventType returns the event type name
func (e *InvoiceOverdueEvent) EventType() string {
	return EventTypeInvoiceOverdue
}

// InvoiceCancelledEvent is raised when an invoice is voided
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice, actorID uuid.UUID) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewActorDomainEvent(EventTypeInvoiceCancelled, AggregateTypeInvoice, inv.ID, inv.TenantID, actorID),
		InvoiceNumber:   inv.InvoiceNumber,
	}
}

// EventType returns the event type name
func (e *InvoiceCancelledEvent) EventType() string {
	return EventTypeInvoiceCancelled
}

// PaymentRecordedEvent is raised when a payment is applied to an invoice
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string          `json:"payment_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(p *Payment, inv *Invoice) *PaymentRecordedEvent {
	actor := uuid.Nil
	if p.CreatedBy != nil {
		actor = *p.CreatedBy
	}
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewActorDomainEvent(EventTypePaymentRecorded, AggregateTypePayment, p.ID, p.TenantID, actor),
		PaymentNumber:   p.PaymentNumber,
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Amount:          p.Amount,
		Method:          p.Method,
	}
}

// EventType returns the event type name
func (e *PaymentRecordedEvent) EventType() string {
	return EventTypePaymentRecorded
}

// BudgetApprovedEvent is raised when a budget plan is approved
type BudgetApprovedEvent struct {
	shared.BaseDomainEvent
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewBudgetApprovedEvent creates a new BudgetApprovedEvent
func NewBudgetApprovedEvent(b *Budget, approverID uuid.UUID) *BudgetApprovedEvent {
	return &BudgetApprovedEvent{
		BaseDomainEvent: shared.NewActorDomainEvent(EventTypeBudgetApproved, AggregateTypeBudget, b.ID, b.TenantID, approverID),
		Name:            b.Name,
		TotalAmount:     b.TotalAmount,
	}
}

// EventType returns the event type name
func (e *BudgetApprovedEvent) EventType() string {
	return EventTypeBudgetApproved
}

// BudgetExpenseRecordedEvent is raised when actual spend is booked against a budget item
type BudgetExpenseRecordedEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID       `json:"item_id"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	IsOverBudget bool            `json:"is_over_budget"`
}

// NewBudgetExpenseRecordedEvent creates a new BudgetExpenseRecordedEvent
func NewBudgetExpenseRecordedEvent(b *Budget, item *BudgetItem, amount decimal.Decimal) *BudgetExpenseRecordedEvent {
	return &BudgetExpenseRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBudgetExpenseRecorded, AggregateTypeBudget, b.ID, b.TenantID),
		ItemID:          item.ID,
		Category:        item.Category,
		Amount:          amount,
		IsOverBudget:    b.IsOverBudget(),
	}
}

// EventType returns the event type name
func (e *BudgetExpenseRecordedEvent) EventType() string {
	return EventTypeBudgetExpenseRecorded
}
