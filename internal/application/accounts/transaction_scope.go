package accounts

import (
	"context"

	"github.com/erp/platform/internal/domain/accounts"
)

// TransactionScope runs account operations that touch several aggregates atomically
type TransactionScope interface {
	// Execute runs fn in a database transaction, rolling back when it returns an error
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the account repositories bound to one transaction
type TransactionalRepositories interface {
	Organizations() accounts.OrganizationRepository
	Users() accounts.UserRepository
	ResetTokens() accounts.PasswordResetTokenRepository
	VerificationTokens() accounts.EmailVerificationTokenRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Tests use it with mocks.
type NoOpTransactionScope struct {
	orgs   accounts.OrganizationRepository
	users  accounts.UserRepository
	resets accounts.PasswordResetTokenRepository
	verify accounts.EmailVerificationTokenRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	orgs accounts.OrganizationRepository,
	users accounts.UserRepository,
	resets accounts.PasswordResetTokenRepository,
	verify accounts.EmailVerificationTokenRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{orgs: orgs, users: users, resets: resets, verify: verify}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Organizations returns the organization repository
func (s *NoOpTransactionScope) Organizations() accounts.OrganizationRepository { return s.orgs }

// Users returns the user repository
func (s *NoOpTransactionScope) Users() accounts.UserRepository { return s.users }

// ResetTokens returns the password reset token repository
func (s *NoOpTransactionScope) ResetTokens() accounts.PasswordResetTokenRepository { return s.resets }

// VerificationTokens returns the email verification token repository
func (s *NoOpTransactionScope) VerificationTokens() accounts.EmailVerificationTokenRepository {
	return s.verify
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
