package sales

import (
	"context"

	"github.com/erp/platform/internal/domain/sales"
)

// TransactionScope runs contact writes that must commit together with
// clearing the primary flag on the client's other contacts
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the sales repositories bound to one transaction
type TransactionalRepositories interface {
	Clients() sales.ClientRepository
	Contacts() sales.ContactRepository
}

// NoOpTransactionScope calls fn with the plain repositories
type NoOpTransactionScope struct {
	clients  sales.ClientRepository
	contacts sales.ContactRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(clients sales.ClientRepository, contacts sales.ContactRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{clients: clients, contacts: contacts}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Clients() sales.ClientRepository { return s.clients }

func (s *NoOpTransactionScope) Contacts() sales.ContactRepository { return s.contacts }

var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
