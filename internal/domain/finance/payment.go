package finance

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how the client paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodOther        PaymentMethod = "other"
)

// IsValid checks if the method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCreditCard, PaymentMethodCheck, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is an immutable record of money received against an invoice
type Payment struct {
	shared.TenantAggregateRoot
	PaymentNumber string
	InvoiceID     uuid.UUID
	Amount        decimal.Decimal
	PaymentDate   time.Time
	Method        PaymentMethod
	Reference     string
	Notes         string
}

// NewPayment creates a payment record. Applying it to the invoice is done by Invoice.RecordPayment.
func NewPayment(tenantID uuid.UUID, paymentNumber string, invoiceID uuid.UUID, amount decimal.Decimal,
	paymentDate time.Time, method PaymentMethod) (*Payment, error) {
	v := &shared.ValidationError{}
	if invoiceID == uuid.Nil {
		v.Add("invoice_id", "Invoice is required")
	}
	if !amount.IsPositive() {
		v.Add("amount", "Payment amount must be positive")
	}
	if !method.IsValid() {
		v.Add("method", "Invalid payment method")
	}
	if paymentDate.IsZero() {
		v.Add("payment_date", "Payment date is required")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	return &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PaymentNumber:       paymentNumber,
		InvoiceID:           invoiceID,
		Amount:              shared.RoundMoney(amount),
		PaymentDate:         truncateDay(paymentDate),
		Method:              method,
	}, nil
}

// SetReference sets the external reference and notes
func (p *Payment) SetReference(reference, notes string) {
	p.Reference = strings.TrimSpace(reference)
	p.Notes = notes
}

// ApplyTo records the payment on its invoice and raises PaymentRecorded
func (p *Payment) ApplyTo(inv *Invoice) error {
	if inv.ID != p.InvoiceID || inv.TenantID != p.TenantID {
		return shared.NewDomainError("INVOICE_MISMATCH", "Payment does not belong to this invoice")
	}
	if err := inv.RecordPayment(p.Amount); err != nil {
		return err
	}
	p.AddDomainEvent(NewPaymentRecordedEvent(p, inv))
	return nil
}
