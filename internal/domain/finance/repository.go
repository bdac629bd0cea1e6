package finance

import (
	"context"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForTenant finds an invoice with its items
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByIDForUpdate finds an invoice and locks its row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindAllForTenant finds invoices with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// CountForTenant counts invoices matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// FindOverdueCandidates finds sent or partially paid invoices due before asOf
	FindOverdueCandidates(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]Invoice, error)

	// Save creates or updates an invoice with its items
	Save(ctx context.Context, invoice *Invoice) error

	// GenerateInvoiceNumber returns the next INV-YYYY-NNNNN number
	GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByIDForTenant finds a payment
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)

	// FindAllForTenant finds payments with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Payment, error)

	// CountForTenant counts payments matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates a payment
	Save(ctx context.Context, payment *Payment) error

	// GeneratePaymentNumber returns the next PAY-YYYY-NNNNN number
	GeneratePaymentNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// BudgetRepository defines the interface for budget persistence
type BudgetRepository interface {
	// FindByIDForTenant finds a budget with its items
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Budget, error)

	// FindAllForTenant finds budgets with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Budget, error)

	// CountForTenant counts budgets matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a budget with its items
	Save(ctx context.Context, budget *Budget) error
}
