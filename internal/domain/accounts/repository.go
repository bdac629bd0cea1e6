package accounts

import (
	"context"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

// OrganizationRepository defines the interface for organization persistence
type OrganizationRepository interface {
	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)

	// ExistsBySlug checks whether a slug is taken
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Save creates or updates an organization
	Save(ctx context.Context, org *Organization) error
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID regardless of tenant (used by token refresh)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByIDForTenant finds a user by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email across tenants; emails are globally unique
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAllForTenant lists users with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, error)

	// CountForTenant counts users matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByEmail checks whether an email is registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}

// PasswordResetTokenRepository defines persistence for password reset tokens
type PasswordResetTokenRepository interface {
	// FindByTokenForUpdate finds a token by its secret value, locking it for
	// the rest of the transaction
	FindByTokenForUpdate(ctx context.Context, token string) (*PasswordResetToken, error)

	// Save creates or updates a token
	Save(ctx context.Context, token *PasswordResetToken) error

	// InvalidateForUser marks every unused token of the user as used
	InvalidateForUser(ctx context.Context, userID uuid.UUID) error
}

// EmailVerificationTokenRepository defines persistence for email verification tokens
type EmailVerificationTokenRepository interface {
	// FindByTokenForUpdate finds a token by its secret value, locking it for
	// the rest of the transaction
	FindByTokenForUpdate(ctx context.Context, token string) (*EmailVerificationToken, error)

	// Save creates or updates a token
	Save(ctx context.Context, token *EmailVerificationToken) error

	// InvalidateForUser marks every unused token of the user as used
	InvalidateForUser(ctx context.Context, userID uuid.UUID) error
}
