package persistence

import (
	"context"

	appaccounts "github.com/erp/platform/internal/application/accounts"
	appanalytics "github.com/erp/platform/internal/application/analytics"
	appfinance "github.com/erp/platform/internal/application/finance"
	apphr "github.com/erp/platform/internal/application/hr"
	apppurchasing "github.com/erp/platform/internal/application/purchasing"
	appsales "github.com/erp/platform/internal/application/sales"
	"github.com/erp/platform/internal/domain/accounts"
	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/finance"
	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/sales"
	"gorm.io/gorm"
)

// GormTransactionScope runs a function inside a GORM transaction and hands it
// repositories bound to that transaction. If the function returns an error,
// the transaction is rolled back; otherwise it is committed.
//
// One scope value serves every module: it satisfies the TransactionScope
// interface of every module that needs one through
// the module-specific adapters below.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

func (s *GormTransactionScope) run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

// Accounts returns the scope for the accounts module
func (s *GormTransactionScope) Accounts() appaccounts.TransactionScope {
	return accountsScope{s}
}

// Finance returns the scope for the finance module
func (s *GormTransactionScope) Finance() appfinance.TransactionScope {
	return financeScope{s}
}

// HR returns the scope for the HR module
func (s *GormTransactionScope) HR() apphr.TransactionScope {
	return hrScope{s}
}

// Purchasing returns the scope for the purchasing module
func (s *GormTransactionScope) Purchasing() apppurchasing.TransactionScope {
	return purchasingScope{s}
}

// Sales returns the scope for the sales module
func (s *GormTransactionScope) Sales() appsales.TransactionScope {
	return salesScope{s}
}

// Analytics returns the scope for the analytics module
func (s *GormTransactionScope) Analytics() appanalytics.TransactionScope {
	return analyticsScope{s}
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Organizations() accounts.OrganizationRepository {
	return NewGormOrganizationRepository(r.tx)
}

func (r *gormTransactionalRepositories) Users() accounts.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormTransactionalRepositories) ResetTokens() accounts.PasswordResetTokenRepository {
	return NewGormPasswordResetTokenRepository(r.tx)
}

func (r *gormTransactionalRepositories) VerificationTokens() accounts.EmailVerificationTokenRepository {
	return NewGormEmailVerificationTokenRepository(r.tx)
}

func (r *gormTransactionalRepositories) Invoices() finance.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) Payments() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) Budgets() finance.BudgetRepository {
	return NewGormBudgetRepository(r.tx)
}

func (r *gormTransactionalRepositories) Employees() hr.EmployeeRepository {
	return NewGormEmployeeRepository(r.tx)
}

func (r *gormTransactionalRepositories) LeaveRequests() hr.LeaveRequestRepository {
	return NewGormLeaveRequestRepository(r.tx)
}

func (r *gormTransactionalRepositories) Suppliers() purchasing.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

func (r *gormTransactionalRepositories) PurchaseOrders() purchasing.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProcurementRequests() purchasing.ProcurementRequestRepository {
	return NewGormProcurementRequestRepository(r.tx)
}

func (r *gormTransactionalRepositories) Performance() purchasing.SupplierPerformanceRepository {
	return NewGormSupplierPerformanceRepository(r.tx)
}

func (r *gormTransactionalRepositories) Clients() sales.ClientRepository {
	return NewGormClientRepository(r.tx)
}

func (r *gormTransactionalRepositories) Contacts() sales.ContactRepository {
	return NewGormContactRepository(r.tx)
}

func (r *gormTransactionalRepositories) KPIs() analytics.KPIRepository {
	return NewGormKPIRepository(r.tx)
}

func (r *gormTransactionalRepositories) Measurements() analytics.KPIMeasurementRepository {
	return NewGormKPIMeasurementRepository(r.tx)
}

func (r *gormTransactionalRepositories) Alerts() analytics.KPIAlertRepository {
	return NewGormKPIAlertRepository(r.tx)
}

func (r *gormTransactionalRepositories) Dashboards() analytics.DashboardRepository {
	return NewGormDashboardRepository(r.tx)
}

type accountsScope struct{ s *GormTransactionScope }

func (a accountsScope) Execute(ctx context.Context, fn func(repos appaccounts.TransactionalRepositories) error) error {
	return a.s.run(ctx, func(tx *gorm.DB) error { return fn(&gormTransactionalRepositories{tx: tx}) })
}

type financeScope struct{ s *GormTransactionScope }

func (f financeScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return f.s.run(ctx, func(tx *gorm.DB) error { return fn(&gormTransactionalRepositories{tx: tx}) })
}

type hrScope struct{ s *GormTransactionScope }

func (h hrScope) Execute(ctx context.Context, fn func(repos apphr.TransactionalRepositories) error) error {
	return h.s.run(ctx, func(tx *gorm.DB) error { return fn(&gormTransactionalRepositories{tx: tx}) })
}

type purchasingScope struct{ s *GormTransactionScope }

func (p purchasingScope) Execute(ctx context.Context, fn func(repos apppurchasing.TransactionalRepositories) error) error {
	return p.s.run(ctx, func(tx *gorm.DB) error { return fn(&gormTransactionalRepositories{tx: tx}) })
}

type salesScope struct{ s *GormTransactionScope }

func (sc salesScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return sc.s.run(ctx, func(tx *gorm.DB) error { return fn(&gormTransactionalRepositories{tx: tx}) })
}

type analyticsScope struct{ s *GormTransactionScope }

func (a analyticsScope) Execute(ctx context.Context, fn func(repos appanalytics.TransactionalRepositories) error) error {
	return a.s.run(ctx, func(tx *gorm.DB) error { return fn(&gormTransactionalRepositories{tx: tx}) })
}

var (
	_ appaccounts.TransactionScope   = accountsScope{}
	_ appfinance.TransactionScope    = financeScope{}
	_ apphr.TransactionScope         = hrScope{}
	_ apppurchasing.TransactionScope = purchasingScope{}
	_ appsales.TransactionScope      = salesScope{}
	_ appanalytics.TransactionScope  = analyticsScope{}

	_ appaccounts.TransactionalRepositories   = (*gormTransactionalRepositories)(nil)
	_ appfinance.TransactionalRepositories    = (*gormTransactionalRepositories)(nil)
	_ apphr.TransactionalRepositories         = (*gormTransactionalRepositories)(nil)
	_ apppurchasing.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ appsales.TransactionalRepositories      = (*gormTransactionalRepositories)(nil)
	_ appanalytics.TransactionalRepositories  = (*gormTransactionalRepositories)(nil)
)
