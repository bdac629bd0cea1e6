package finance

import (
	"context"

	"github.com/erp/platform/internal/domain/finance"
)

// TransactionScope runs finance operations that must commit together,
// such as a payment and the invoice it settles
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the finance repositories bound to one transaction
type TransactionalRepositories interface {
	Invoices() finance.InvoiceRepository
	Payments() finance.PaymentRepository
	Budgets() finance.BudgetRepository
}

// NoOpTransactionScope calls fn with the plain repositories
type NoOpTransactionScope struct {
	invoices finance.InvoiceRepository
	payments finance.PaymentRepository
	budgets  finance.BudgetRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(invoices finance.InvoiceRepository, payments finance.PaymentRepository, budgets finance.BudgetRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{invoices: invoices, payments: payments, budgets: budgets}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Invoices returns the invoice repository
func (s *NoOpTransactionScope) Invoices() finance.InvoiceRepository { return s.invoices }

// Payments returns the payment repository
func (s *NoOpTransactionScope) Payments() finance.PaymentRepository { return s.payments }

// Budgets returns the budget repository
func (s *NoOpTransactionScope) Budgets() finance.BudgetRepository { return s.budgets }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
