package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsOpen returns true while money is still expected on the invoice
func (s InvoiceStatus) IsOpen() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusPartiallyPaid || s == InvoiceStatusOverdue
}

// DefaultCurrency is used when an invoice is created without one
const DefaultCurrency = "USD"

// InvoiceItem is one priced line on an invoice. Total is always Quantity * UnitPrice.
type InvoiceItem struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewInvoiceItem creates a line item
func NewInvoiceItem(invoiceID uuid.UUID, description string, quantity, unitPrice decimal.Decimal) (*InvoiceItem, error) {
	if err := validateLine(description, quantity, unitPrice); err != nil {
		return nil, err
	}
	now := time.Now()
	return &InvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       LineTotal(quantity, unitPrice),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (i *InvoiceItem) update(description string, quantity, unitPrice decimal.Decimal) {
	i.Description = strings.TrimSpace(description)
	i.Quantity = quantity
	i.UnitPrice = unitPrice
	i.Total = LineTotal(quantity, unitPrice)
	i.UpdatedAt = time.Now()
}

// LineTotal returns quantity * unit price at money precision
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return shared.RoundMoney(quantity.Mul(unitPrice))
}

func validateLine(description string, quantity, unitPrice decimal.Decimal) error {
	v := &shared.ValidationError{}
	if strings.TrimSpace(description) == "" {
		v.Add("description", "Description is required")
	}
	if !quantity.IsPositive() {
		v.Add("quantity", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		v.Add("unit_price", "Unit price cannot be negative")
	}
	return v.OrNil()
}

// Invoice is the aggregate root for billing a client.
// Totals are recomputed by every mutation of items, tax rate or discount:
// subtotal = Σ item.total, tax = subtotal*tax_rate/100, total = subtotal + tax - discount.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber  string
	ClientID       *uuid.UUID
	ClientName     string
	ClientEmail    string
	IssueDate      time.Time
	DueDate        time.Time
	Currency       string
	TaxRate        decimal.Decimal
	DiscountAmount decimal.Decimal
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	Status         InvoiceStatus
	Notes          string
	Terms          string
	SentAt         *time.Time
	PaidAt         *time.Time
	CancelledAt    *time.Time
	Items          []InvoiceItem
}

// NewInvoice creates a draft invoice
func NewInvoice(tenantID uuid.UUID, invoiceNumber, clientName string, issueDate, dueDate time.Time) (*Invoice, error) {
	v := &shared.ValidationError{}
	if strings.TrimSpace(invoiceNumber) == "" {
		v.Add("invoice_number", "Invoice number is required")
	}
	if strings.TrimSpace(clientName) == "" {
		v.Add("client_name", "Client name is required")
	}
	if issueDate.IsZero() {
		v.Add("issue_date", "Issue date is required")
	}
	if dueDate.Before(issueDate) {
		v.Add("due_date", "Due date cannot be before issue date")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		ClientName:          strings.TrimSpace(clientName),
		IssueDate:           truncateDay(issueDate),
		DueDate:             truncateDay(dueDate),
		Currency:            DefaultCurrency,
		TaxRate:             decimal.Zero,
		DiscountAmount:      decimal.Zero,
		Subtotal:            decimal.Zero,
		TaxAmount:           decimal.Zero,
		TotalAmount:         decimal.Zero,
		PaidAmount:          decimal.Zero,
		Status:              InvoiceStatusDraft,
		Items:               make([]InvoiceItem, 0),
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// SetClient links the invoice to a client record and snapshots its contact details
func (o *Invoice) SetClient(clientID *uuid.UUID, name, email string) error {
	if err := o.ensureDraft("change client"); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("client_name", "Client name is required")
	}
	o.ClientID = clientID
	o.ClientName = strings.TrimSpace(name)
	o.ClientEmail = strings.ToLower(strings.TrimSpace(email))
	o.touch()
	return nil
}

// SetDates changes the issue and due dates
func (o *Invoice) SetDates(issueDate, dueDate time.Time) error {
	if err := o.ensureDraft("change dates"); err != nil {
		return err
	}
	if dueDate.Before(issueDate) {
		return shared.NewValidationError("due_date", "Due date cannot be before issue date")
	}
	o.IssueDate = truncateDay(issueDate)
	o.DueDate = truncateDay(dueDate)
	o.touch()
	return nil
}

// SetCurrency sets the ISO currency code
func (o *Invoice) SetCurrency(currency string) error {
	if err := o.ensureDraft("change currency"); err != nil {
		return err
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return shared.NewValidationError("currency", "Currency must be a 3-letter code")
	}
	o.Currency = currency
	o.touch()
	return nil
}

// SetNotes sets the free-text notes and payment terms
func (o *Invoice) SetNotes(notes, terms string) {
	o.Notes = notes
	o.Terms = terms
	o.touch()
}

// SetPricing changes the tax rate (percent) and the discount amount and recomputes totals
func (o *Invoice) SetPricing(taxRate, discount decimal.Decimal) error {
	if err := o.ensureDraft("change pricing"); err != nil {
		return err
	}
	v := &shared.ValidationError{}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		v.Add("tax_rate", "Tax rate must be between 0 and 100")
	}
	if discount.IsNegative() {
		v.Add("discount_amount", "Discount cannot be negative")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	if err := checkDiscountFits(o.Subtotal, taxRate, discount); err != nil {
		return err
	}

	o.TaxRate = taxRate
	o.DiscountAmount = shared.RoundMoney(discount)
	o.recalculateTotals()
	o.touch()
	return nil
}

// AddItem appends a line item and recomputes totals
func (o *Invoice) AddItem(description string, quantity, unitPrice decimal.Decimal) (*InvoiceItem, error) {
	if err := o.ensureDraft("add items"); err != nil {
		return nil, err
	}
	item, err := NewInvoiceItem(o.ID, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	item.SortOrder = len(o.Items)
	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.touch()
	return &o.Items[len(o.Items)-1], nil
}

// UpdateItem changes a line item and recomputes totals
func (o *Invoice) UpdateItem(itemID uuid.UUID, description string, quantity, unitPrice decimal.Decimal) error {
	if err := o.ensureDraft("update items"); err != nil {
		return err
	}
	idx := o.itemIndex(itemID)
	if idx < 0 {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
	}
	if err := validateLine(description, quantity, unitPrice); err != nil {
		return err
	}
	subtotal := o.Subtotal.Sub(o.Items[idx].Total).Add(LineTotal(quantity, unitPrice))
	if err := checkDiscountFits(subtotal, o.TaxRate, o.DiscountAmount); err != nil {
		return err
	}

	o.Items[idx].update(description, quantity, unitPrice)
	o.recalculateTotals()
	o.touch()
	return nil
}

// RemoveItem deletes a line item and recomputes totals
func (o *Invoice) RemoveItem(itemID uuid.UUID) error {
	if err := o.ensureDraft("remove items"); err != nil {
		return err
	}
	idx := o.itemIndex(itemID)
	if idx < 0 {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
	}
	if err := checkDiscountFits(o.Subtotal.Sub(o.Items[idx].Total), o.TaxRate, o.DiscountAmount); err != nil {
		return err
	}

	o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
	for i := range o.Items {
		o.Items[i].SortOrder = i
	}
	o.recalculateTotals()
	o.touch()
	return nil
}

// Send issues the invoice to the client. A draft needs at least one item.
// An overdue invoice is sent again as a reminder and returns to sent, or to
// partially_paid when part of it is already paid.
func (o *Invoice) Send(actorID uuid.UUID) error {
	switch o.Status {
	case InvoiceStatusDraft:
		if len(o.Items) == 0 {
			return shared.NewDomainError("NO_ITEMS", "Cannot send an invoice without items")
		}
		o.Status = InvoiceStatusSent
	case InvoiceStatusOverdue:
		o.Status = InvoiceStatusSent
		if o.PaidAmount.IsPositive() {
			o.Status = InvoiceStatusPartiallyPaid
		}
	default:
		return shared.InvalidTransition("send invoice", o.Status)
	}

	now := time.Now()
	o.SentAt = &now
	o.touch()
	o.AddDomainEvent(NewInvoiceSentEvent(o, actorID))
	return nil
}

// RecordPayment adds a payment to the paid amount. The invoice becomes paid
// once the paid amount reaches the total and partially_paid before that,
// overdue included; the next overdue run flags it again.
func (o *Invoice) RecordPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("amount", "Payment amount must be positive")
	}
	if !o.Status.IsOpen() {
		return shared.InvalidTransition("record payment on invoice", o.Status)
	}

	o.PaidAmount = shared.RoundMoney(o.PaidAmount.Add(amount))
	if o.PaidAmount.GreaterThanOrEqual(o.TotalAmount) {
		now := time.Now()
		o.Status = InvoiceStatusPaid
		o.PaidAt = &now
		o.AddDomainEvent(NewInvoicePaidEvent(o))
	} else {
		o.Status = InvoiceStatusPartiallyPaid
	}
	o.touch()
	return nil
}

// MarkOverdue flags an open invoice whose due date has passed. It reports whether the status changed.
func (o *Invoice) MarkOverdue(now time.Time) bool {
	if o.Status != InvoiceStatusSent && o.Status != InvoiceStatusPartiallyPaid {
		return false
	}
	if !o.IsOverdue(now) {
		return false
	}
	o.Status = InvoiceStatusOverdue
	o.touch()
	o.AddDomainEvent(NewInvoiceOverdueEvent(o))
	return true
}

// Cancel retires an invoice that has not received any payment
func (o *Invoice) Cancel(actorID uuid.UUID) error {
	switch o.Status {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusOverdue:
	default:
		return shared.InvalidTransition("cancel invoice", o.Status)
	}
	if o.PaidAmount.IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel an invoice with recorded payments")
	}

	now := time.Now()
	o.Status = InvoiceStatusCancelled
	o.CancelledAt = &now
	o.touch()
	o.AddDomainEvent(NewInvoiceCancelledEvent(o, actorID))
	return nil
}

// Clone copies the invoice into a new draft with fresh dates that keep the original payment window
func (o *Invoice) Clone(invoiceNumber string, today time.Time) (*Invoice, error) {
	window := o.DueDate.Sub(o.IssueDate)
	clone, err := NewInvoice(o.TenantID, invoiceNumber, o.ClientName, today, today.Add(window))
	if err != nil {
		return nil, err
	}
	clone.ClientID = o.ClientID
	clone.ClientEmail = o.ClientEmail
	clone.Currency = o.Currency
	clone.Notes = o.Notes
	clone.Terms = o.Terms
	for _, item := range o.Items {
		if _, err := clone.AddItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}
	if err := clone.SetPricing(o.TaxRate, o.DiscountAmount); err != nil {
		return nil, err
	}
	return clone, nil
}

// BalanceDue returns the outstanding amount
func (o *Invoice) BalanceDue() decimal.Decimal {
	balance := o.TotalAmount.Sub(o.PaidAmount)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// IsOverdue reports whether an unpaid invoice is past its due date
func (o *Invoice) IsOverdue(now time.Time) bool {
	if !o.Status.IsOpen() {
		return false
	}
	return truncateDay(now).After(o.DueDate)
}

// DaysOverdue returns the number of whole days past the due date
func (o *Invoice) DaysOverdue(now time.Time) int {
	if !o.IsOverdue(now) {
		return 0
	}
	return int(truncateDay(now).Sub(o.DueDate).Hours() / 24)
}

// GetItem returns the item with the given ID
func (o *Invoice) GetItem(itemID uuid.UUID) *InvoiceItem {
	if idx := o.itemIndex(itemID); idx >= 0 {
		return &o.Items[idx]
	}
	return nil
}

func (o *Invoice) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Total)
	}
	o.Subtotal = shared.RoundMoney(subtotal)
	o.TaxAmount = shared.Percentage(o.Subtotal, o.TaxRate)
	o.TotalAmount = o.Subtotal.Add(o.TaxAmount).Sub(o.DiscountAmount)
}

func checkDiscountFits(subtotal, taxRate, discount decimal.Decimal) error {
	gross := subtotal.Add(shared.Percentage(subtotal, taxRate))
	if discount.GreaterThan(gross) {
		return shared.NewDomainError("INVALID_DISCOUNT",
			fmt.Sprintf("Discount %s exceeds invoice amount %s", discount.StringFixed(2), gross.StringFixed(2)))
	}
	return nil
}

func (o *Invoice) itemIndex(itemID uuid.UUID) int {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (o *Invoice) ensureDraft(action string) error {
	if o.Status != InvoiceStatusDraft {
		return shared.InvalidTransition(action, o.Status)
	}
	return nil
}

func (o *Invoice) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
