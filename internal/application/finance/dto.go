package finance

import (
	"time"

	"github.com/erp/platform/internal/application/notification"
	"github.com/erp/platform/internal/domain/finance"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Invoices
// ---------------------------------------------------------------------------

// InvoiceItemInput is one line of an invoice request
type InvoiceItemInput struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required,decimal_gt0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"decimal_gte0"`
}

// CreateInvoiceRequest creates a draft invoice with its lines
type CreateInvoiceRequest struct {
	ClientID       *uuid.UUID         `json:"client_id"`
	ClientName     string             `json:"client_name" binding:"max=200"`
	ClientEmail    string             `json:"client_email" binding:"omitempty,email"`
	IssueDate      valueobject.Date   `json:"issue_date" binding:"required"`
	DueDate        valueobject.Date   `json:"due_date" binding:"required"`
	Currency       string             `json:"currency" binding:"omitempty,len=3"`
	TaxRate        decimal.Decimal    `json:"tax_rate" binding:"decimal_gte0"`
	DiscountAmount decimal.Decimal    `json:"discount_amount" binding:"decimal_gte0"`
	Notes          string             `json:"notes"`
	Terms          string             `json:"terms"`
	Items          []InvoiceItemInput `json:"items" binding:"dive"`
}

// UpdateInvoiceRequest changes the header of a draft invoice.
// Nil fields are left unchanged.
type UpdateInvoiceRequest struct {
	ClientID       *uuid.UUID        `json:"client_id"`
	ClientName     *string           `json:"client_name" binding:"omitempty,max=200"`
	ClientEmail    *string           `json:"client_email" binding:"omitempty,email"`
	IssueDate      *valueobject.Date `json:"issue_date"`
	DueDate        *valueobject.Date `json:"due_date"`
	Currency       *string           `json:"currency" binding:"omitempty,len=3"`
	TaxRate        *decimal.Decimal  `json:"tax_rate"`
	DiscountAmount *decimal.Decimal  `json:"discount_amount"`
	Notes          *string           `json:"notes"`
	Terms          *string           `json:"terms"`
}

// InvoiceListFilter holds the invoice list query parameters
type InvoiceListFilter struct {
	shared.PageParams
	Status          string     `form:"status" binding:"omitempty,oneof=draft sent partially_paid paid overdue cancelled"`
	ClientID        string     `form:"client_id" binding:"omitempty,uuid"`
	InvoiceNumber   string     `form:"invoice_number"`
	ClientName      string     `form:"client_name"`
	TotalMin        string     `form:"total_min" binding:"omitempty,numeric"`
	TotalMax        string     `form:"total_max" binding:"omitempty,numeric"`
	IssueDateAfter  *time.Time `form:"issue_date_after" time_format:"2006-01-02"`
	IssueDateBefore *time.Time `form:"issue_date_before" time_format:"2006-01-02"`
	DueDateAfter    *time.Time `form:"due_date_after" time_format:"2006-01-02"`
	DueDateBefore   *time.Time `form:"due_date_before" time_format:"2006-01-02"`
	IsOverdue       *bool      `form:"is_overdue"`
}

// ToFilter converts query parameters to a repository filter. Malformed
// numeric bounds are reported as validation errors.
func (f InvoiceListFilter) ToFilter() (shared.Filter, error) {
	filter := f.PageParams.Filter()
	errs := &shared.ValidationError{}
	filter.Set("status", f.Status)
	filter.Set("client_id", f.ClientID)
	filter.Set("invoice_number", f.InvoiceNumber)
	filter.Set("client_name", f.ClientName)
	filter.SetDecimal(errs, "total_min", f.TotalMin)
	filter.SetDecimal(errs, "total_max", f.TotalMax)
	filter.Set("issue_date_after", f.IssueDateAfter)
	filter.Set("issue_date_before", f.IssueDateBefore)
	filter.Set("due_date_after", f.DueDateAfter)
	filter.Set("due_date_before", f.DueDateBefore)
	filter.Set("is_overdue", f.IsOverdue)
	return filter, errs.OrNil()
}

// InvoiceItemResponse is the wire shape of an invoice line
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	SortOrder   int             `json:"sort_order"`
}

// InvoiceResponse is the wire shape of an invoice
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	TenantID       uuid.UUID             `json:"tenant_id"`
	InvoiceNumber  string                `json:"invoice_number"`
	ClientID       *uuid.UUID            `json:"client_id,omitempty"`
	ClientName     string                `json:"client_name"`
	ClientEmail    string                `json:"client_email,omitempty"`
	IssueDate      valueobject.Date      `json:"issue_date"`
	DueDate        valueobject.Date      `json:"due_date"`
	Currency       string                `json:"currency"`
	TaxRate        decimal.Decimal       `json:"tax_rate"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	PaidAmount     decimal.Decimal       `json:"paid_amount"`
	BalanceDue     decimal.Decimal       `json:"balance_due"`
	Status         string                `json:"status"`
	IsOverdue      bool                  `json:"is_overdue"`
	DaysOverdue    int                   `json:"days_overdue"`
	Notes          string                `json:"notes,omitempty"`
	Terms          string                `json:"terms,omitempty"`
	SentAt         *time.Time            `json:"sent_at,omitempty"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	CancelledAt    *time.Time            `json:"cancelled_at,omitempty"`
	Items          []InvoiceItemResponse `json:"items"`
	CreatedBy      *uuid.UUID            `json:"created_by,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Version        int                   `json:"version"`
}

// ToInvoiceResponse maps an invoice to its response, deriving the overdue fields at now
func ToInvoiceResponse(inv *finance.Invoice, now time.Time) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
			SortOrder:   item.SortOrder,
		}
	}
	return InvoiceResponse{
		ID:             inv.ID,
		TenantID:       inv.TenantID,
		InvoiceNumber:  inv.InvoiceNumber,
		ClientID:       inv.ClientID,
		ClientName:     inv.ClientName,
		ClientEmail:    inv.ClientEmail,
		IssueDate:      valueobject.NewDate(inv.IssueDate),
		DueDate:        valueobject.NewDate(inv.DueDate),
		Currency:       inv.Currency,
		TaxRate:        inv.TaxRate,
		DiscountAmount: inv.DiscountAmount,
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		TotalAmount:    inv.TotalAmount,
		PaidAmount:     inv.PaidAmount,
		BalanceDue:     inv.BalanceDue(),
		Status:         string(inv.Status),
		IsOverdue:      inv.IsOverdue(now),
		DaysOverdue:    inv.DaysOverdue(now),
		Notes:          inv.Notes,
		Terms:          inv.Terms,
		SentAt:         inv.SentAt,
		PaidAt:         inv.PaidAt,
		CancelledAt:    inv.CancelledAt,
		Items:          items,
		CreatedBy:      inv.CreatedBy,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
		Version:        inv.Version,
	}
}

// ToInvoiceResponses maps a page of invoices
func ToInvoiceResponses(invoices []finance.Invoice, now time.Time) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i], now)
	}
	return out
}

// SendInvoiceResult is returned by the send action
type SendInvoiceResult struct {
	Invoice InvoiceResponse       `json:"invoice"`
	Email   notification.Delivery `json:"email"`
}

// MarkOverdueResult reports the batch overdue sweep
type MarkOverdueResult struct {
	Updated int `json:"updated"`
}

// InvoicePDF is a rendered invoice. With object storage enabled URL is set
// and Content is empty; otherwise Content holds the PDF bytes.
type InvoicePDF struct {
	Filename  string    `json:"filename"`
	URL       string    `json:"url,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Content   []byte    `json:"-"`
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

// RecordPaymentRequest records money received against an invoice
type RecordPaymentRequest struct {
	InvoiceID   uuid.UUID        `json:"invoice_id"`
	Amount      decimal.Decimal  `json:"amount" binding:"required,decimal_gt0"`
	PaymentDate valueobject.Date `json:"payment_date"`
	Method      string           `json:"method" binding:"required,oneof=cash bank_transfer credit_card check other"`
	Reference   string           `json:"reference" binding:"max=100"`
	Notes       string           `json:"notes"`
}

// PaymentListFilter holds the payment list query parameters
type PaymentListFilter struct {
	shared.PageParams
	InvoiceID         string     `form:"invoice_id" binding:"omitempty,uuid"`
	Method            string     `form:"method" binding:"omitempty,oneof=cash bank_transfer credit_card check other"`
	AmountMin         string     `form:"amount_min" binding:"omitempty,numeric"`
	AmountMax         string     `form:"amount_max" binding:"omitempty,numeric"`
	PaymentDateAfter  *time.Time `form:"payment_date_after" time_format:"2006-01-02"`
	PaymentDateBefore *time.Time `form:"payment_date_before" time_format:"2006-01-02"`
}

// ToFilter converts query parameters to a repository filter. Malformed
// numeric bounds are reported as validation errors.
func (f PaymentListFilter) ToFilter() (shared.Filter, error) {
	filter := f.PageParams.Filter()
	errs := &shared.ValidationError{}
	filter.Set("invoice_id", f.InvoiceID)
	filter.Set("method", f.Method)
	filter.SetDecimal(errs, "amount_min", f.AmountMin)
	filter.SetDecimal(errs, "amount_max", f.AmountMax)
	filter.Set("payment_date_after", f.PaymentDateAfter)
	filter.Set("payment_date_before", f.PaymentDateBefore)
	return filter, errs.OrNil()
}

// PaymentResponse is the wire shape of a payment
type PaymentResponse struct {
	ID            uuid.UUID        `json:"id"`
	TenantID      uuid.UUID        `json:"tenant_id"`
	PaymentNumber string           `json:"payment_number"`
	InvoiceID     uuid.UUID        `json:"invoice_id"`
	Amount        decimal.Decimal  `json:"amount"`
	PaymentDate   valueobject.Date `json:"payment_date"`
	Method        string           `json:"method"`
	Reference     string           `json:"reference,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	CreatedBy     *uuid.UUID       `json:"created_by,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ToPaymentResponse maps a payment to its response
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		PaymentNumber: p.PaymentNumber,
		InvoiceID:     p.InvoiceID,
		Amount:        p.Amount,
		PaymentDate:   valueobject.NewDate(p.PaymentDate),
		Method:        string(p.Method),
		Reference:     p.Reference,
		Notes:         p.Notes,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
	}
}

// RecordPaymentResult carries the payment and the invoice it was applied to
type RecordPaymentResult struct {
	Payment PaymentResponse `json:"payment"`
	Invoice InvoiceResponse `json:"invoice"`
}

// ---------------------------------------------------------------------------
// Budgets
// ---------------------------------------------------------------------------

// BudgetItemInput is one planned cost line
type BudgetItemInput struct {
	Category    string          `json:"category" binding:"required,max=100"`
	Description string          `json:"description" binding:"max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required,decimal_gt0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"decimal_gte0"`
}

// CreateBudgetRequest creates a draft budget
type CreateBudgetRequest struct {
	Name         string            `json:"name" binding:"required,max=200"`
	FiscalYear   int               `json:"fiscal_year" binding:"required,min=1900,max=2200"`
	DepartmentID *uuid.UUID        `json:"department_id"`
	StartDate    valueobject.Date  `json:"start_date" binding:"required"`
	EndDate      valueobject.Date  `json:"end_date" binding:"required"`
	Notes        string            `json:"notes"`
	Items        []BudgetItemInput `json:"items" binding:"dive"`
}

// UpdateBudgetRequest replaces the header of a draft budget
type UpdateBudgetRequest struct {
	Name         string           `json:"name" binding:"required,max=200"`
	FiscalYear   int              `json:"fiscal_year" binding:"required,min=1900,max=2200"`
	DepartmentID *uuid.UUID       `json:"department_id"`
	StartDate    valueobject.Date `json:"start_date" binding:"required"`
	EndDate      valueobject.Date `json:"end_date" binding:"required"`
	Notes        string           `json:"notes"`
}

// RecordExpenseRequest records actual spend against a budget item
type RecordExpenseRequest struct {
	ItemID uuid.UUID       `json:"item_id" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required,decimal_gt0"`
}

// BudgetListFilter holds the budget list query parameters
type BudgetListFilter struct {
	shared.PageParams
	Status       string `form:"status" binding:"omitempty,oneof=draft approved closed cancelled"`
	FiscalYear   *int   `form:"fiscal_year"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	TotalMin     string `form:"total_min" binding:"omitempty,numeric"`
	TotalMax     string `form:"total_max" binding:"omitempty,numeric"`
}

// ToFilter converts query parameters to a repository filter. Malformed
// numeric bounds are reported as validation errors.
func (f BudgetListFilter) ToFilter() (shared.Filter, error) {
	filter := f.PageParams.Filter()
	errs := &shared.ValidationError{}
	filter.Set("status", f.Status)
	filter.Set("fiscal_year", f.FiscalYear)
	filter.Set("department_id", f.DepartmentID)
	filter.SetDecimal(errs, "total_min", f.TotalMin)
	filter.SetDecimal(errs, "total_max", f.TotalMax)
	return filter, errs.OrNil()
}

// BudgetItemResponse is the wire shape of a budget line
type BudgetItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	SpentAmount decimal.Decimal `json:"spent_amount"`
	Remaining   decimal.Decimal `json:"remaining_amount"`
}

// BudgetResponse is the wire shape of a budget
type BudgetResponse struct {
	ID                    uuid.UUID            `json:"id"`
	TenantID              uuid.UUID            `json:"tenant_id"`
	Name                  string               `json:"name"`
	FiscalYear            int                  `json:"fiscal_year"`
	DepartmentID          *uuid.UUID           `json:"department_id,omitempty"`
	StartDate             valueobject.Date     `json:"start_date"`
	EndDate               valueobject.Date     `json:"end_date"`
	Status                string               `json:"status"`
	Notes                 string               `json:"notes,omitempty"`
	TotalAmount           decimal.Decimal      `json:"total_amount"`
	SpentAmount           decimal.Decimal      `json:"spent_amount"`
	RemainingAmount       decimal.Decimal      `json:"remaining_amount"`
	UtilizationPercentage decimal.Decimal      `json:"utilization_percentage"`
	IsOverBudget          bool                 `json:"is_over_budget"`
	ApprovedBy            *uuid.UUID           `json:"approved_by,omitempty"`
	ApprovedAt            *time.Time           `json:"approved_at,omitempty"`
	ClosedAt              *time.Time           `json:"closed_at,omitempty"`
	Items                 []BudgetItemResponse `json:"items"`
	CreatedBy             *uuid.UUID           `json:"created_by,omitempty"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// ToBudgetResponse maps a budget to its response
func ToBudgetResponse(b *finance.Budget) BudgetResponse {
	items := make([]BudgetItemResponse, len(b.Items))
	for i := range b.Items {
		item := &b.Items[i]
		items[i] = BudgetItemResponse{
			ID:          item.ID,
			Category:    item.Category,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
			SpentAmount: item.SpentAmount,
			Remaining:   item.Remaining(),
		}
	}
	return BudgetResponse{
		ID:                    b.ID,
		TenantID:              b.TenantID,
		Name:                  b.Name,
		FiscalYear:            b.FiscalYear,
		DepartmentID:          b.DepartmentID,
		StartDate:             valueobject.NewDate(b.StartDate),
		EndDate:               valueobject.NewDate(b.EndDate),
		Status:                string(b.Status),
		Notes:                 b.Notes,
		TotalAmount:           b.TotalAmount,
		SpentAmount:           b.SpentAmount,
		RemainingAmount:       b.RemainingAmount(),
		UtilizationPercentage: b.UtilizationPercentage(),
		IsOverBudget:          b.IsOverBudget(),
		ApprovedBy:            b.ApprovedBy,
		ApprovedAt:            b.ApprovedAt,
		ClosedAt:              b.ClosedAt,
		Items:                 items,
		CreatedBy:             b.CreatedBy,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}
}
