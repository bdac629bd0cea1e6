package sales

import (
	"context"

	"github.com/erp/platform/internal/application/notification"
	"github.com/erp/platform/internal/domain/sales"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Client, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.Client), args.Error(1)
}

func (m *MockClientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *sales.Client) error {
	return m.Called(ctx, client).Error(0)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Contact, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]sales.Contact, error) {
	args := m.Called(ctx, tenantID, clientID)
	return args.Get(0).([]sales.Contact), args.Error(1)
}

func (m *MockContactRepository) FindPrimary(ctx context.Context, tenantID, clientID uuid.UUID) (*sales.Contact, error) {
	args := m.Called(ctx, tenantID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Contact), args.Error(1)
}

func (m *MockContactRepository) ClearPrimary(ctx context.Context, tenantID, clientID, keepID uuid.UUID) error {
	return m.Called(ctx, tenantID, clientID, keepID).Error(0)
}

func (m *MockContactRepository) Save(ctx context.Context, contact *sales.Contact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.ClientInteraction, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.ClientInteraction), args.Error(1)
}

func (m *MockInteractionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.ClientInteraction, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.ClientInteraction), args.Error(1)
}

func (m *MockInteractionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInteractionRepository) Create(ctx context.Context, interaction *sales.ClientInteraction) error {
	return m.Called(ctx, interaction).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Welcome(ctx context.Context, mail notification.WelcomeMail) notification.Delivery {
	return m.Called(ctx, mail).Get(0).(notification.Delivery)
}

func (m *MockNotifier) EmailVerification(ctx context.Context, mail notification.VerificationMail) notification.Delivery {
	return m.Called(ctx, mail).Get(0).(notification.Delivery)
}

func (m *MockNotifier) PasswordReset(ctx context.Context, mail notification.PasswordResetMail) notification.Delivery {
	return m.Called(ctx, mail).Get(0).(notification.Delivery)
}

func (m *MockNotifier) InvoiceNotice(ctx context.Context, mail notification.InvoiceMail) notification.Delivery {
	return m.Called(ctx, mail).Get(0).(notification.Delivery)
}

func (m *MockNotifier) AppointmentReminder(ctx context.Context, mail notification.ReminderMail) notification.Delivery {
	return m.Called(ctx, mail).Get(0).(notification.Delivery)
}
