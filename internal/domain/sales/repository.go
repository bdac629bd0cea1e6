package sales

import (
	"context"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Client, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, client *Client) error
}

// ContactRepository defines the interface for contact persistence
type ContactRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Contact, error)
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]Contact, error)
	FindPrimary(ctx context.Context, tenantID, clientID uuid.UUID) (*Contact, error)
	// ClearPrimary unsets is_primary on every contact of the client except keepID
	ClearPrimary(ctx context.Context, tenantID, clientID, keepID uuid.UUID) error
	Save(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// InteractionRepository is append-only
type InteractionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ClientInteraction, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ClientInteraction, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Create(ctx context.Context, interaction *ClientInteraction) error
}
