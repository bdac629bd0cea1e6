package sales

import (
	"context"
	"time"

	"github.com/erp/platform/internal/application/notification"
	"github.com/erp/platform/internal/domain/sales"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InteractionService logs client interactions and sends appointment reminders
type InteractionService struct {
	interactionRepo sales.InteractionRepository
	clientRepo      sales.ClientRepository
	contactRepo     sales.ContactRepository
	notifier        notification.Notifier
	logger          *zap.Logger
	now             func() time.Time
}

// NewInteractionService creates a new InteractionService
func NewInteractionService(
	interactionRepo sales.InteractionRepository,
	clientRepo sales.ClientRepository,
	contactRepo sales.ContactRepository,
	notifier notification.Notifier,
	logger *zap.Logger,
) *InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		clientRepo:      clientRepo,
		contactRepo:     contactRepo,
		notifier:        notifier,
		logger:          logger,
		now:             time.Now,
	}
}

// Create records an interaction with a client
func (s *InteractionService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateInteractionRequest) (*InteractionResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, req.ClientID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewValidationError("client_id", "Client not found")
		}
		return nil, err
	}
	var contact *sales.Contact
	if req.ContactID != nil {
		contact, err = s.contactRepo.FindByIDForTenant(ctx, tenantID, *req.ContactID)
		if err != nil {
			if shared.IsNotFound(err) {
				return nil, shared.NewValidationError("contact_id", "Contact not found")
			}
			return nil, err
		}
	}
	interaction, err := sales.NewClientInteraction(client, contact, req.input(), actorID)
	if err != nil {
		return nil, err
	}
	if err := s.interactionRepo.Create(ctx, interaction); err != nil {
		return nil, err
	}
	resp := ToInteractionResponse(interaction)
	return &resp, nil
}

// GetByID retrieves an interaction
func (s *InteractionService) GetByID(ctx context.Context, tenantID, interactionID uuid.UUID) (*InteractionResponse, error) {
	i, err := s.interactionRepo.FindByIDForTenant(ctx, tenantID, interactionID)
	if err != nil {
		return nil, err
	}
	resp := ToInteractionResponse(i)
	return &resp, nil
}

// List retrieves interactions with filtering and pagination
func (s *InteractionService) List(ctx context.Context, tenantID uuid.UUID, f InteractionListFilter) ([]InteractionResponse, int64, error) {
	filter := f.ToFilter()
	interactions, err := s.interactionRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.interactionRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]InteractionResponse, len(interactions))
	for i := range interactions {
		out[i] = ToInteractionResponse(&interactions[i])
	}
	return out, total, nil
}

// Remind emails the appointment reminder to the contact, or to the client without one.
// Only future appointments qualify; a failed send is reported in the result.
func (s *InteractionService) Remind(ctx context.Context, tenantID, interactionID uuid.UUID) (*RemindResult, error) {
	interaction, err := s.interactionRepo.FindByIDForTenant(ctx, tenantID, interactionID)
	if err != nil {
		return nil, err
	}
	if err := interaction.CanRemind(s.now()); err != nil {
		return nil, err
	}

	to, name, err := s.recipient(ctx, interaction)
	if err != nil {
		return nil, err
	}
	result := &RemindResult{Interaction: ToInteractionResponse(interaction), Recipient: to}
	if to == "" {
		result.Email = notification.Delivery{Error: "no email address for this appointment"}
		return result, nil
	}
	result.Email = s.notifier.AppointmentReminder(ctx, notification.ReminderMail{
		To:          to,
		Name:        name,
		Subject:     interaction.Subject,
		ScheduledAt: *interaction.ScheduledAt,
		Duration:    interaction.DurationDisplay(),
		Description: interaction.Description,
	})
	s.logger.Info("Appointment reminder processed",
		zap.String("interaction_id", interaction.ID.String()),
		zap.Bool("sent", result.Email.Sent))
	return result, nil
}

func (s *InteractionService) recipient(ctx context.Context, i *sales.ClientInteraction) (email, name string, err error) {
	if i.ContactID != nil {
		contact, err := s.contactRepo.FindByIDForTenant(ctx, i.TenantID, *i.ContactID)
		if err != nil && !shared.IsNotFound(err) {
			return "", "", err
		}
		if contact != nil && contact.Recipient() != "" {
			return contact.Recipient(), contact.FullName(), nil
		}
	}
	client, err := s.clientRepo.FindByIDForTenant(ctx, i.TenantID, i.ClientID)
	if err != nil {
		return "", "", err
	}
	return client.Email, client.DisplayName(nil), nil
}
