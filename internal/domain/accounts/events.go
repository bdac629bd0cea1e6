package accounts

import (
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeUser         = "User"
	AggregateTypeOrganization = "Organization"
)

// Event type constants
const (
	EventTypeOrganizationRegistered = "OrganizationRegistered"
	EventTypeUserCreated            = "UserCreated"
	EventTypeUserPasswordChanged    = "UserPasswordChanged"
	EventTypeUserEmailVerified      = "UserEmailVerified"
	EventTypeUserDeactivated        = "UserDeactivated"
)

// OrganizationRegisteredEvent is raised when a new organization signs up
type OrganizationRegisteredEvent struct {
	shared.BaseDomainEvent
	OrganizationName string    `json:"organization_name"`
	AdminUserID      uuid.UUID `json:"admin_user_id"`
	AdminEmail       string    `json:"admin_email"`
}

// NewOrganizationRegisteredEvent creates a new OrganizationRegisteredEvent
func NewOrganizationRegisteredEvent(org *Organization, admin *User) *OrganizationRegisteredEvent {
	return &OrganizationRegisteredEvent{
		BaseDomainEvent:  shared.NewActorDomainEvent(EventTypeOrganizationRegistered, AggregateTypeOrganization, org.ID, org.ID, admin.ID),
		OrganizationName: org.Name,
		AdminUserID:      admin.ID,
		AdminEmail:       admin.Email,
	}
}

// EventType returns the event type name
func (e *OrganizationRegisteredEvent) EventType() string {
	return EventTypeOrganizationRegistered
}

// UserCreatedEvent is raised when a user is added to an organization
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID, u.TenantID),
		Email:           u.Email,
		Role:            u.Role,
	}
}

// EventType returns the event type name
func (e *UserCreatedEvent) EventType() string {
	return EventTypeUserCreated
}

// UserPasswordChangedEvent is raised after any password change or reset
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(u *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewActorDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, u.ID, u.TenantID, u.ID),
	}
}

// EventType returns the event type name
func (e *UserPasswordChangedEvent) EventType() string {
	return EventTypeUserPasswordChanged
}

// UserEmailVerifiedEvent is raised when a verification token is redeemed
type UserEmailVerifiedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserEmailVerifiedEvent creates a new UserEmailVerifiedEvent
func NewUserEmailVerifiedEvent(u *User) *UserEmailVerifiedEvent {
	return &UserEmailVerifiedEvent{
		BaseDomainEvent: shared.NewActorDomainEvent(EventTypeUserEmailVerified, AggregateTypeUser, u.ID, u.TenantID, u.ID),
		Email:           u.Email,
	}
}

// EventType returns the event type name
func (e *UserEmailVerifiedEvent) EventType() string {
	return EventTypeUserEmailVerified
}

// UserDeactivatedEvent is raised when a user loses access
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
}

// NewUserDeactivatedEvent creates a new UserDeactivatedEvent
func NewUserDeactivatedEvent(u *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeactivated, AggregateTypeUser, u.ID, u.TenantID),
	}
}

// EventType returns the event type name
func (e *UserDeactivatedEvent) EventType() string {
	return EventTypeUserDeactivated
}
