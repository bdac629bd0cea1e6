package models

import (
	"time"

	"github.com/erp/platform/internal/domain/accounts"
	"github.com/erp/platform/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// OrganizationModel is the persistence model for the Organization aggregate (the tenant).
type OrganizationModel struct {
	AggregateModel
	Name    string                      `gorm:"type:varchar(200);not null"`
	Slug    string                      `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email   string                      `gorm:"type:varchar(254)"`
	Phone   string                      `gorm:"type:varchar(50)"`
	Website string                      `gorm:"type:varchar(255)"`
	Address valueobject.Address         `gorm:"type:jsonb;default:'{}'"`
	Status  accounts.OrganizationStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization.
func (m *OrganizationModel) ToDomain() *accounts.Organization {
	return &accounts.Organization{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Slug:              m.Slug,
		Email:             m.Email,
		Phone:             m.Phone,
		Website:           m.Website,
		Address:           m.Address,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Organization.
func (m *OrganizationModel) FromDomain(o *accounts.Organization) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Name = o.Name
	m.Slug = o.Slug
	m.Email = o.Email
	m.Phone = o.Phone
	m.Website = o.Website
	m.Address = o.Address
	m.Status = o.Status
}

// OrganizationModelFromDomain creates a new persistence model from a domain Organization.
func OrganizationModelFromDomain(o *accounts.Organization) *OrganizationModel {
	m := &OrganizationModel{}
	m.FromDomain(o)
	return m
}

// UserModel is the persistence model for the User aggregate.
type UserModel struct {
	TenantAggregateModel
	Email               string              `gorm:"type:varchar(254);not null;uniqueIndex"`
	Username            string              `gorm:"type:varchar(100);not null"`
	FirstName           string              `gorm:"type:varchar(100)"`
	LastName            string              `gorm:"type:varchar(100)"`
	Phone               string              `gorm:"type:varchar(50)"`
	PasswordHash        string              `gorm:"type:varchar(255);not null"`
	Role                accounts.Role       `gorm:"type:varchar(20);not null;index"`
	Status              accounts.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	IsEmailVerified     bool                `gorm:"not null;default:false"`
	EmailVerifiedAt     *time.Time
	LastLoginAt         *time.Time
	FailedLoginAttempts int `gorm:"not null;default:0"`
	LockedUntil         *time.Time
	PasswordChangedAt   *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *accounts.User {
	return &accounts.User{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Email:               m.Email,
		Username:            m.Username,
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		Phone:               m.Phone,
		PasswordHash:        m.PasswordHash,
		Role:                m.Role,
		Status:              m.Status,
		IsEmailVerified:     m.IsEmailVerified,
		EmailVerifiedAt:     m.EmailVerifiedAt,
		LastLoginAt:         m.LastLoginAt,
		FailedLoginAttempts: m.FailedLoginAttempts,
		LockedUntil:         m.LockedUntil,
		PasswordChangedAt:   m.PasswordChangedAt,
	}
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(u *accounts.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Email = u.Email
	m.Username = u.Username
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Phone = u.Phone
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Status = u.Status
	m.IsEmailVerified = u.IsEmailVerified
	m.EmailVerifiedAt = u.EmailVerifiedAt
	m.LastLoginAt = u.LastLoginAt
	m.FailedLoginAttempts = u.FailedLoginAttempts
	m.LockedUntil = u.LockedUntil
	m.PasswordChangedAt = u.PasswordChangedAt
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *accounts.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// OneTimeTokenModel holds the columns shared by the token tables
type OneTimeTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
	IsUsed    bool      `gorm:"not null;default:false"`
	UsedAt    *time.Time
}

func (m *OneTimeTokenModel) toDomain() accounts.OneTimeToken {
	return accounts.OneTimeToken{
		ID:        m.ID,
		TenantID:  m.TenantID,
		UserID:    m.UserID,
		Token:     m.Token,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
		IsUsed:    m.IsUsed,
		UsedAt:    m.UsedAt,
	}
}

func (m *OneTimeTokenModel) fromDomain(t accounts.OneTimeToken) {
	m.ID = t.ID
	m.TenantID = t.TenantID
	m.UserID = t.UserID
	m.Token = t.Token
	m.CreatedAt = t.CreatedAt
	m.ExpiresAt = t.ExpiresAt
	m.IsUsed = t.IsUsed
	m.UsedAt = t.UsedAt
}

// PasswordResetTokenModel is the persistence model for password reset tokens.
type PasswordResetTokenModel struct {
	OneTimeTokenModel
}

// TableName returns the table name for GORM
func (PasswordResetTokenModel) TableName() string {
	return "password_reset_tokens"
}

// ToDomain converts the persistence model to a domain PasswordResetToken.
func (m *PasswordResetTokenModel) ToDomain() *accounts.PasswordResetToken {
	return &accounts.PasswordResetToken{OneTimeToken: m.toDomain()}
}

// PasswordResetTokenModelFromDomain creates a new persistence model from a domain token.
func PasswordResetTokenModelFromDomain(t *accounts.PasswordResetToken) *PasswordResetTokenModel {
	m := &PasswordResetTokenModel{}
	m.fromDomain(t.OneTimeToken)
	return m
}

// EmailVerificationTokenModel is the persistence model for email verification tokens.
type EmailVerificationTokenModel struct {
	OneTimeTokenModel
	Email string `gorm:"type:varchar(254);not null"`
}

// TableName returns the table name for GORM
func (EmailVerificationTokenModel) TableName() string {
	return "email_verification_tokens"
}

// ToDomain converts the persistence model to a domain EmailVerificationToken.
func (m *EmailVerificationTokenModel) ToDomain() *accounts.EmailVerificationToken {
	return &accounts.EmailVerificationToken{OneTimeToken: m.toDomain(), Email: m.Email}
}

// EmailVerificationTokenModelFromDomain creates a new persistence model from a domain token.
func EmailVerificationTokenModelFromDomain(t *accounts.EmailVerificationToken) *EmailVerificationTokenModel {
	m := &EmailVerificationTokenModel{Email: t.Email}
	m.fromDomain(t.OneTimeToken)
	return m
}
