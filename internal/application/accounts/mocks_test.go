package accounts

import (
	"context"

	"github.com/erp/platform/internal/application/notification"
	"github.com/erp/platform/internal/domain/accounts"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrganizationRepository is a mock implementation of accounts.OrganizationRepository
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounts.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *accounts.Organization) error {
	return m.Called(ctx, org).Error(0)
}

// MockUserRepository is a mock implementation of accounts.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounts.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounts.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*accounts.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]accounts.User, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]accounts.User), args.Error(1)
}

func (m *MockUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *accounts.User) error {
	return m.Called(ctx, user).Error(0)
}

// MockResetTokenRepository is a mock implementation of accounts.PasswordResetTokenRepository
type MockResetTokenRepository struct {
	mock.Mock
}

func (m *MockResetTokenRepository) FindByTokenForUpdate(ctx context.Context, token string) (*accounts.PasswordResetToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.PasswordResetToken), args.Error(1)
}

func (m *MockResetTokenRepository) Save(ctx context.Context, token *accounts.PasswordResetToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockResetTokenRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockVerificationTokenRepository is a mock implementation of accounts.EmailVerificationTokenRepository
type MockVerificationTokenRepository struct {
	mock.Mock
}

func (m *MockVerificationTokenRepository) FindByTokenForUpdate(ctx context.Context, token string) (*accounts.EmailVerificationToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.EmailVerificationToken), args.Error(1)
}

func (m *MockVerificationTokenRepository) Save(ctx context.Context, token *accounts.EmailVerificationToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockVerificationTokenRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockNotifier is a mock implementation of notification.Notifier
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

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}
