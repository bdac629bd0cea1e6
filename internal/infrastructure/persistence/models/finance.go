package models

import (
	"time"

	"github.com/erp/platform/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber  string                `gorm:"type:varchar(30);not null;index"`
	ClientID       *uuid.UUID            `gorm:"type:uuid;index"`
	ClientName     string                `gorm:"type:varchar(200);not null"`
	ClientEmail    string                `gorm:"type:varchar(254)"`
	IssueDate      time.Time             `gorm:"type:date;not null;index"`
	DueDate        time.Time             `gorm:"type:date;not null;index"`
	Currency       string                `gorm:"type:varchar(3);not null;default:'USD'"`
	TaxRate        decimal.Decimal       `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Subtotal       decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount    decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount     decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Status         finance.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes          string                `gorm:"type:text"`
	Terms          string                `gorm:"type:text"`
	SentAt         *time.Time
	PaidAt         *time.Time
	CancelledAt    *time.Time
	Items          []InvoiceItemModel    `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	inv := &finance.Invoice{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		InvoiceNumber:       m.InvoiceNumber,
		ClientID:            m.ClientID,
		ClientName:          m.ClientName,
		ClientEmail:         m.ClientEmail,
		IssueDate:           m.IssueDate,
		DueDate:             m.DueDate,
		Currency:            m.Currency,
		TaxRate:             m.TaxRate,
		DiscountAmount:      m.DiscountAmount,
		Subtotal:            m.Subtotal,
		TaxAmount:           m.TaxAmount,
		TotalAmount:         m.TotalAmount,
		PaidAmount:          m.PaidAmount,
		Status:              m.Status,
		Notes:               m.Notes,
		Terms:               m.Terms,
		SentAt:              m.SentAt,
		PaidAt:              m.PaidAt,
		CancelledAt:         m.CancelledAt,
		Items:               make([]finance.InvoiceItem, len(m.Items)),
	}
	for i := range m.Items {
		inv.Items[i] = *m.Items[i].ToDomain()
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice. Items are mapped separately.
func (m *InvoiceModel) FromDomain(inv *finance.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.ClientID = inv.ClientID
	m.ClientName = inv.ClientName
	m.ClientEmail = inv.ClientEmail
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.Currency = inv.Currency
	m.TaxRate = inv.TaxRate
	m.DiscountAmount = inv.DiscountAmount
	m.Subtotal = inv.Subtotal
	m.TaxAmount = inv.TaxAmount
	m.TotalAmount = inv.TotalAmount
	m.PaidAmount = inv.PaidAmount
	m.Status = inv.Status
	m.Notes = inv.Notes
	m.Terms = inv.Terms
	m.SentAt = inv.SentAt
	m.PaidAt = inv.PaidAt
	m.CancelledAt = inv.CancelledAt
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is the persistence model for invoice lines.
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SortOrder   int             `gorm:"not null;default:0"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem.
func (m *InvoiceItemModel) ToDomain() *finance.InvoiceItem {
	return &finance.InvoiceItem{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Total:       m.Total,
		SortOrder:   m.SortOrder,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// InvoiceItemModelFromDomain creates a new persistence model from a domain InvoiceItem.
func InvoiceItemModelFromDomain(i *finance.InvoiceItem) *InvoiceItemModel {
	return &InvoiceItemModel{
		ID:          i.ID,
		InvoiceID:   i.InvoiceID,
		Description: i.Description,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		Total:       i.Total,
		SortOrder:   i.SortOrder,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// PaymentModel is the persistence model for payments. Rows are never updated.
type PaymentModel struct {
	TenantAggregateModel
	PaymentNumber string                `gorm:"type:varchar(30);not null"`
	InvoiceID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	PaymentDate   time.Time             `gorm:"type:date;not null;index"`
	Method        finance.PaymentMethod `gorm:"type:varchar(20);not null"`
	Reference     string                `gorm:"type:varchar(100)"`
	Notes         string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *finance.Payment {
	return &finance.Payment{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		PaymentNumber:       m.PaymentNumber,
		InvoiceID:           m.InvoiceID,
		Amount:              m.Amount,
		PaymentDate:         m.PaymentDate,
		Method:              m.Method,
		Reference:           m.Reference,
		Notes:               m.Notes,
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	m := &PaymentModel{
		PaymentNumber: p.PaymentNumber,
		InvoiceID:     p.InvoiceID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		Method:        p.Method,
		Reference:     p.Reference,
		Notes:         p.Notes,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// BudgetModel is the persistence model for the Budget aggregate.
type BudgetModel struct {
	TenantAggregateModel
	Name         string               `gorm:"type:varchar(200);not null"`
	FiscalYear   int                  `gorm:"not null;index"`
	DepartmentID *uuid.UUID           `gorm:"type:uuid;index"`
	StartDate    time.Time            `gorm:"type:date;not null"`
	EndDate      time.Time            `gorm:"type:date;not null"`
	Status       finance.BudgetStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes        string               `gorm:"type:text"`
	TotalAmount  decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	SpentAmount  decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	ApprovedBy   *uuid.UUID           `gorm:"type:uuid"`
	ApprovedAt   *time.Time
	ClosedAt     *time.Time
	Items        []BudgetItemModel `gorm:"foreignKey:BudgetID;references:ID"`
}

// TableName returns the table name for GORM
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToDomain converts the persistence model to a domain Budget.
func (m *BudgetModel) ToDomain() *finance.Budget {
	b := &finance.Budget{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		FiscalYear:          m.FiscalYear,
		DepartmentID:        m.DepartmentID,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		Status:              m.Status,
		Notes:               m.Notes,
		TotalAmount:         m.TotalAmount,
		SpentAmount:         m.SpentAmount,
		ApprovedBy:          m.ApprovedBy,
		ApprovedAt:          m.ApprovedAt,
		ClosedAt:            m.ClosedAt,
		Items:               make([]finance.BudgetItem, len(m.Items)),
	}
	for i, item := range m.Items {
		b.Items[i] = finance.BudgetItem{
			ID:          item.ID,
			BudgetID:    item.BudgetID,
			Category:    item.Category,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
			SpentAmount: item.SpentAmount,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		}
	}
	return b
}

// BudgetModelFromDomain creates a new persistence model from a domain Budget. Items are mapped separately.
func BudgetModelFromDomain(b *finance.Budget) *BudgetModel {
	m := &BudgetModel{
		Name:         b.Name,
		FiscalYear:   b.FiscalYear,
		DepartmentID: b.DepartmentID,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
		Status:       b.Status,
		Notes:        b.Notes,
		TotalAmount:  b.TotalAmount,
		SpentAmount:  b.SpentAmount,
		ApprovedBy:   b.ApprovedBy,
		ApprovedAt:   b.ApprovedAt,
		ClosedAt:     b.ClosedAt,
	}
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	return m
}

// BudgetItemModel is the persistence model for budget lines.
type BudgetItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	BudgetID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Category    string          `gorm:"type:varchar(100);not null"`
	Description string          `gorm:"type:varchar(500)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SpentAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BudgetItemModel) TableName() string {
	return "budget_items"
}

// BudgetItemModelFromDomain creates a new persistence model from a domain BudgetItem.
func BudgetItemModelFromDomain(i *finance.BudgetItem) *BudgetItemModel {
	return &BudgetItemModel{
		ID:          i.ID,
		BudgetID:    i.BudgetID,
		Category:    i.Category,
		Description: i.Description,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		Total:       i.Total,
		SpentAmount: i.SpentAmount,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
