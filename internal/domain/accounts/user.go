package accounts

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// IsValid checks if the status is valid
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusPending, UserStatusActive, UserStatusInactive:
		return true
	}
	return false
}

// String returns the string representation
func (s UserStatus) String() string {
	return string(s)
}

const (
	bcryptCost        = 12
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt limit
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a member of an organization. The email address is the login identifier.
type User struct {
	shared.TenantAggregateRoot
	Email               string
	Username            string
	FirstName           string
	LastName            string
	Phone               string
	PasswordHash        string
	Role                Role
	Status              UserStatus
	IsEmailVerified     bool
	EmailVerifiedAt     *time.Time
	LastLoginAt         *time.Time
	FailedLoginAttempts int
	LockedUntil         *time.Time
	PasswordChangedAt   *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(tenantID uuid.UUID, email, password string, role Role) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("role", "Invalid role")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	email = normalizeEmail(email)
	now := time.Now()
	user := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Email:               email,
		Username:            strings.SplitN(email, "@", 2)[0],
		PasswordHash:        hash,
		Role:                role,
		Status:              UserStatusActive,
		PasswordChangedAt:   &now,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))
	return user, nil
}

// FullName returns "First Last", falling back to the username
func (u *User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}

// UpdateProfile changes the personal details of the user
func (u *User) UpdateProfile(firstName, lastName, phone string) error {
	v := &shared.ValidationError{}
	if len(firstName) > 100 {
		v.Add("first_name", "First name cannot exceed 100 characters")
	}
	if len(lastName) > 100 {
		v.Add("last_name", "Last name cannot exceed 100 characters")
	}
	if len(phone) > 50 {
		v.Add("phone", "Phone cannot exceed 50 characters")
	}
	if err := v.OrNil(); err != nil {
		return err
	}

	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.Phone = strings.TrimSpace(phone)
	u.touch()
	return nil
}

// ChangeRole assigns a new role
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewValidationError("role", "Invalid role")
	}
	u.Role = role
	u.touch()
	return nil
}

// VerifyPassword checks the given password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword verifies the current password before setting a new one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewValidationError("old_password", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword replaces the password without checking the old one
func (u *User) SetPassword(newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	u.PasswordHash = hash
	u.PasswordChangedAt = &now
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.touch()

	u.AddDomainEvent(NewUserPasswordChangedEvent(u))
	return nil
}

// MarkEmailVerified records that the user proved ownership of the email address
func (u *User) MarkEmailVerified() {
	if u.IsEmailVerified {
		return
	}
	now := time.Now()
	u.IsEmailVerified = true
	u.EmailVerifiedAt = &now
	if u.Status == UserStatusPending {
		u.Status = UserStatusActive
	}
	u.touch()
	u.AddDomainEvent(NewUserEmailVerifiedEvent(u))
}

// Activate re-enables an inactive or pending user
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.InvalidTransition("activate user", u.Status)
	}
	u.Status = UserStatusActive
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.touch()
	return nil
}

// Deactivate prevents the user from signing in
func (u *User) Deactivate() error {
	if u.Status == UserStatusInactive {
		return shared.InvalidTransition("deactivate user", u.Status)
	}
	u.Status = UserStatusInactive
	u.touch()
	u.AddDomainEvent(NewUserDeactivatedEvent(u))
	return nil
}

// IsActive returns true if the user is active
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsLocked returns true while a lockout from failed logins is in effect
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

// CanLogin returns true if the user is active and not locked out
func (u *User) CanLogin() bool {
	return u.IsActive() && !u.IsLocked()
}

// RecordLoginSuccess resets the failure counter
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.touch()
}

// RecordLoginFailure increments the failure counter and locks the account
// once maxAttempts is reached. It returns true when the account became locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedLoginAttempts++
	u.touch()
	if maxAttempts > 0 && u.FailedLoginAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		u.LockedUntil = &until
		u.FailedLoginAttempts = 0
		return true
	}
	return false
}

func (u *User) touch() {
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// ValidatePasswordConfirmation fails on the password_confirm field when the two values differ
func ValidatePasswordConfirmation(password, confirm string) error {
	if password != confirm {
		return shared.NewValidationError("password_confirm", "Passwords do not match")
	}
	return nil
}

// ValidatePassword enforces length and a mix of letters and digits
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return shared.NewValidationError("password", "Password must be at least 8 characters")
	}
	if len(password) > maxPasswordLength {
		return shared.NewValidationError("password", "Password cannot exceed 72 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return shared.NewValidationError("password", "Password must contain both letters and digits")
	}
	return nil
}

// ValidateEmail checks the address format
func ValidateEmail(email string) error {
	return validateEmail(email)
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewValidationError("email", "Email is required")
	}
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return shared.NewValidationError("email", "Invalid email format")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeEmail lowercases and trims an email for lookups
func NormalizeEmail(email string) string {
	return normalizeEmail(email)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
