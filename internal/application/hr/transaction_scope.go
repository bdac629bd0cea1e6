package hr

import (
	"context"

	"github.com/erp/platform/internal/domain/hr"
)

// TransactionScope runs HR operations that must read and write under row locks
type TransactionScope interface {
	// Execute runs fn in a database transaction, rolling back when it returns an error
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the HR repositories bound to one transaction
type TransactionalRepositories interface {
	Employees() hr.EmployeeRepository
	LeaveRequests() hr.LeaveRequestRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Tests use it with mocks.
type NoOpTransactionScope struct {
	employees hr.EmployeeRepository
	leaves    hr.LeaveRequestRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(employees hr.EmployeeRepository, leaves hr.LeaveRequestRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{employees: employees, leaves: leaves}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Employees() hr.EmployeeRepository         { return s.employees }
func (s *NoOpTransactionScope) LeaveRequests() hr.LeaveRequestRepository { return s.leaves }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
