package accounts

import (
	"time"

	"github.com/erp/platform/internal/application/notification"
	"github.com/erp/platform/internal/domain/accounts"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/domain/shared/valueobject"
	"github.com/erp/platform/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// RegisterRequest signs up a new organization with its first admin
type RegisterRequest struct {
	OrganizationName string `json:"organization_name" binding:"required,max=200"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required"`
	PasswordConfirm  string `json:"password_confirm" binding:"required"`
	FirstName        string `json:"first_name" binding:"max=100"`
	LastName         string `json:"last_name" binding:"max=100"`
}

// LoginRequest authenticates by email and password
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// RefreshRequest carries the refresh token to rotate
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput identifies the access token to revoke
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TTL      time.Duration
}

// PasswordResetRequest asks for a reset link
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

// PasswordResetConfirmRequest sets a new password using a reset token
type PasswordResetConfirmRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// VerifyEmailRequest confirms an email address
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ChangePasswordRequest changes the caller's password
type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// UpdateProfileRequest updates the caller's own profile
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Phone     string `json:"phone" binding:"max=50"`
}

// CreateUserRequest adds a user to the caller's organization
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Phone     string `json:"phone" binding:"max=50"`
	Role      string `json:"role" binding:"required"`
}

// UpdateUserRequest changes another user's profile and role
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	Role      *string `json:"role"`
}

// UpdateOrganizationRequest changes the organization profile
type UpdateOrganizationRequest struct {
	Name    string              `json:"name" binding:"required,max=200"`
	Email   string              `json:"email" binding:"omitempty,email"`
	Phone   string              `json:"phone" binding:"max=50"`
	Website string              `json:"website" binding:"max=200"`
	Address valueobject.Address `json:"address"`
}

// UserListFilter holds the user list query parameters
type UserListFilter struct {
	Page            int        `form:"page"`
	PageSize        int        `form:"page_size"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir"`
	Search          string     `form:"search"`
	Role            string     `form:"role"`
	Status          string     `form:"status"`
	IsEmailVerified *bool      `form:"is_email_verified"`
	CreatedAfter    *time.Time `form:"created_after" time_format:"2006-01-02"`
	CreatedBefore   *time.Time `form:"created_before" time_format:"2006-01-02"`
}

// ToFilter converts query parameters to a repository filter
func (f UserListFilter) ToFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = min(f.PageSize, 100)
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter.Search = f.Search
	filter.Set("role", f.Role)
	filter.Set("status", f.Status)
	filter.Set("is_email_verified", f.IsEmailVerified)
	filter.Set("created_after", f.CreatedAfter)
	filter.Set("created_before", f.CreatedBefore)
	return filter
}

// UserResponse is the wire shape of a user
type UserResponse struct {
	ID              uuid.UUID  `json:"id"`
	TenantID        uuid.UUID  `json:"tenant_id"`
	Email           string     `json:"email"`
	Username        string     `json:"username"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	FullName        string     `json:"full_name"`
	Phone           string     `json:"phone,omitempty"`
	Role            string     `json:"role"`
	Permissions     []string   `json:"permissions"`
	Status          string     `json:"status"`
	IsEmailVerified bool       `json:"is_email_verified"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToUserResponse maps a user to its response
func ToUserResponse(u *accounts.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		TenantID:        u.TenantID,
		Email:           u.Email,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		FullName:        u.FullName(),
		Phone:           u.Phone,
		Role:            u.Role.String(),
		Permissions:     u.Role.Permissions(),
		Status:          u.Status.String(),
		IsEmailVerified: u.IsEmailVerified,
		EmailVerifiedAt: u.EmailVerifiedAt,
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// OrganizationResponse is the wire shape of an organization
type OrganizationResponse struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	Slug      string              `json:"slug"`
	Email     string              `json:"email,omitempty"`
	Phone     string              `json:"phone,omitempty"`
	Website   string              `json:"website,omitempty"`
	Address   valueobject.Address `json:"address"`
	Status    string              `json:"status"`
	UserCount *int64              `json:"user_count,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ToOrganizationResponse maps an organization to its response
func ToOrganizationResponse(o *accounts.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		Slug:      o.Slug,
		Email:     o.Email,
		Phone:     o.Phone,
		Website:   o.Website,
		Address:   o.Address,
		Status:    o.Status.String(),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// AuthResult is returned by registration and login
type AuthResult struct {
	User         UserResponse           `json:"user"`
	Organization *OrganizationResponse  `json:"organization,omitempty"`
	Tokens       *auth.TokenPair        `json:"tokens"`
	Email        *notification.Delivery `json:"email,omitempty"`
}

// EmailResult reports the delivery of an email sent by an operation
type EmailResult struct {
	Message string                `json:"message"`
	Email   notification.Delivery `json:"email"`
}
