package finance

import (
	"context"
	"time"

	"github.com/erp/platform/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// InvoiceRenderer turns an invoice document into PDF bytes
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// DocumentStorage keeps rendered documents and hands out time-limited download links
type DocumentStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// InvoiceDocument is everything printed on an invoice
type InvoiceDocument struct {
	OrganizationName string
	InvoiceNumber    string
	Status           string
	ClientName       string
	ClientEmail      string
	IssueDate        time.Time
	DueDate          time.Time
	Currency         string
	Lines            []InvoiceDocumentLine
	Subtotal         decimal.Decimal
	TaxRate          decimal.Decimal
	TaxAmount        decimal.Decimal
	DiscountAmount   decimal.Decimal
	TotalAmount      decimal.Decimal
	PaidAmount       decimal.Decimal
	BalanceDue       decimal.Decimal
	Notes            string
	Terms            string
}

// InvoiceDocumentLine is one printed line
type InvoiceDocumentLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// NewInvoiceDocument builds the printable view of an invoice
func NewInvoiceDocument(inv *finance.Invoice, organizationName string) InvoiceDocument {
	lines := make([]InvoiceDocumentLine, len(inv.Items))
	for i, item := range inv.Items {
		lines[i] = InvoiceDocumentLine{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		}
	}
	return InvoiceDocument{
		OrganizationName: organizationName,
		InvoiceNumber:    inv.InvoiceNumber,
		Status:           string(inv.Status),
		ClientName:       inv.ClientName,
		ClientEmail:      inv.ClientEmail,
		IssueDate:        inv.IssueDate,
		DueDate:          inv.DueDate,
		Currency:         inv.Currency,
		Lines:            lines,
		Subtotal:         inv.Subtotal,
		TaxRate:          inv.TaxRate,
		TaxAmount:        inv.TaxAmount,
		DiscountAmount:   inv.DiscountAmount,
		TotalAmount:      inv.TotalAmount,
		PaidAmount:       inv.PaidAmount,
		BalanceDue:       inv.BalanceDue(),
		Notes:            inv.Notes,
		Terms:            inv.Terms,
	}
}

// invoiceStorageKey is the object key of an invoice PDF
func invoiceStorageKey(inv *finance.Invoice) string {
	return "invoices/" + inv.TenantID.String() + "/" + inv.InvoiceNumber + ".pdf"
}
