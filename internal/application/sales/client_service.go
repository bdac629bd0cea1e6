package sales

import (
	"context"

	"github.com/erp/platform/internal/domain/sales"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientService manages clients and their contacts
type ClientService struct {
	txScope     TransactionScope
	clientRepo  sales.ClientRepository
	contactRepo sales.ContactRepository
	logger      *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(txScope TransactionScope, clientRepo sales.ClientRepository, contactRepo sales.ContactRepository, logger *zap.Logger) *ClientService {
	return &ClientService{txScope: txScope, clientRepo: clientRepo, contactRepo: contactRepo, logger: logger}
}

// Create creates a client, by default a company lead
func (s *ClientService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req ClientRequest) (*ClientResponse, error) {
	c, err := sales.NewClient(tenantID, req.details())
	if err != nil {
		return nil, err
	}
	c.SetCreatedBy(actorID)
	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToClientResponse(c, nil)
	return &resp, nil
}

// GetByID retrieves a client with its contacts
func (s *ClientService) GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	contacts, err := s.contactRepo.FindByClient(ctx, tenantID, c.ID)
	if err != nil {
		return nil, err
	}
	var primary *sales.Contact
	out := make([]ContactResponse, len(contacts))
	for i := range contacts {
		if contacts[i].IsPrimary {
			primary = &contacts[i]
		}
		out[i] = ToContactResponse(&contacts[i])
	}
	resp := ToClientResponse(c, primary)
	resp.Contacts = out
	return &resp, nil
}

// List retrieves clients with filtering and pagination
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID, f ClientListFilter) ([]ClientResponse, int64, error) {
	filter := f.ToFilter()
	clients, err := s.clientRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ClientResponse, len(clients))
	for i := range clients {
		var primary *sales.Contact
		// only unnamed individuals display the primary contact
		if clients[i].Name == "" {
			if primary, err = s.primaryContact(ctx, tenantID, clients[i].ID); err != nil {
				return nil, 0, err
			}
		}
		out[i] = ToClientResponse(&clients[i], primary)
	}
	return out, total, nil
}

// Update replaces the client details
func (s *ClientService) Update(ctx context.Context, tenantID, clientID uuid.UUID, req ClientRequest) (*ClientResponse, error) {
	return s.mutate(ctx, tenantID, clientID, func(c *sales.Client) error {
		return c.Update(req.details())
	})
}

// Activate converts a lead, prospect or inactive client into an active customer
func (s *ClientService) Activate(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	return s.mutate(ctx, tenantID, clientID, func(c *sales.Client) error {
		return c.Activate()
	})
}

// Archive retires the client; archived clients are read-only
func (s *ClientService) Archive(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	resp, err := s.mutate(ctx, tenantID, clientID, func(c *sales.Client) error {
		return c.Archive()
	})
	if err == nil {
		s.logger.Info("Client archived", zap.String("client_id", clientID.String()))
	}
	return resp, err
}

// Delete archives the client
func (s *ClientService) Delete(ctx context.Context, tenantID, clientID uuid.UUID) error {
	_, err := s.Archive(ctx, tenantID, clientID)
	return err
}

// ListContacts returns the contacts of a client
func (s *ClientService) ListContacts(ctx context.Context, tenantID, clientID uuid.UUID) ([]ContactResponse, error) {
	if _, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID); err != nil {
		return nil, err
	}
	contacts, err := s.contactRepo.FindByClient(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]ContactResponse, len(contacts))
	for i := range contacts {
		out[i] = ToContactResponse(&contacts[i])
	}
	return out, nil
}

// GetContact retrieves one contact of a client
func (s *ClientService) GetContact(ctx context.Context, tenantID, clientID, contactID uuid.UUID) (*ContactResponse, error) {
	contact, err := s.findContact(ctx, s.contactRepo, tenantID, clientID, contactID)
	if err != nil {
		return nil, err
	}
	resp := ToContactResponse(contact)
	return &resp, nil
}

// AddContact adds a contact. A primary contact demotes the previous one.
func (s *ClientService) AddContact(ctx context.Context, tenantID, clientID uuid.UUID, req ContactRequest) (*ContactResponse, error) {
	var contact *sales.Contact
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		client, err := repos.Clients().FindByIDForTenant(ctx, tenantID, clientID)
		if err != nil {
			return err
		}
		if contact, err = sales.NewContact(client, req.details()); err != nil {
			return err
		}
		return saveContact(ctx, repos.Contacts(), contact)
	})
	if err != nil {
		return nil, err
	}
	resp := ToContactResponse(contact)
	return &resp, nil
}

// UpdateContact replaces a contact's details
func (s *ClientService) UpdateContact(ctx context.Context, tenantID, clientID, contactID uuid.UUID, req ContactRequest) (*ContactResponse, error) {
	var contact *sales.Contact
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		client, err := repos.Clients().FindByIDForTenant(ctx, tenantID, clientID)
		if err != nil {
			return err
		}
		if client.IsArchived() {
			return shared.InvalidTransition("update contact", client.Status)
		}
		if contact, err = s.findContact(ctx, repos.Contacts(), tenantID, clientID, contactID); err != nil {
			return err
		}
		if err := contact.Update(req.details()); err != nil {
			return err
		}
		return saveContact(ctx, repos.Contacts(), contact)
	})
	if err != nil {
		return nil, err
	}
	resp := ToContactResponse(contact)
	return &resp, nil
}

// DeleteContact removes a contact. Contacts are owned data, not business records.
func (s *ClientService) DeleteContact(ctx context.Context, tenantID, clientID, contactID uuid.UUID) error {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return err
	}
	if client.IsArchived() {
		return shared.InvalidTransition("delete contact", client.Status)
	}
	if _, err := s.findContact(ctx, s.contactRepo, tenantID, clientID, contactID); err != nil {
		return err
	}
	return s.contactRepo.Delete(ctx, tenantID, contactID)
}

func (s *ClientService) findContact(ctx context.Context, repo sales.ContactRepository, tenantID, clientID, contactID uuid.UUID) (*sales.Contact, error) {
	contact, err := repo.FindByIDForTenant(ctx, tenantID, contactID)
	if err != nil {
		return nil, err
	}
	if contact.ClientID != clientID {
		return nil, shared.ErrNotFound
	}
	return contact, nil
}

func (s *ClientService) primaryContact(ctx context.Context, tenantID, clientID uuid.UUID) (*sales.Contact, error) {
	primary, err := s.contactRepo.FindPrimary(ctx, tenantID, clientID)
	if shared.IsNotFound(err) {
		return nil, nil
	}
	return primary, err
}

func (s *ClientService) mutate(ctx context.Context, tenantID, clientID uuid.UUID, fn func(*sales.Client) error) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	primary, err := s.primaryContact(ctx, tenantID, c.ID)
	if err != nil {
		return nil, err
	}
	resp := ToClientResponse(c, primary)
	return &resp, nil
}

// saveContact persists the contact and keeps at most one primary per client
func saveContact(ctx context.Context, repo sales.ContactRepository, contact *sales.Contact) error {
	if contact.IsPrimary {
		if err := repo.ClearPrimary(ctx, contact.TenantID, contact.ClientID, contact.ID); err != nil {
			return err
		}
	}
	return repo.Save(ctx, contact)
}
