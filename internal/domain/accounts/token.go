package accounts

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

const tokenBytes = 32

// Default lifetimes for one-time tokens
const (
	DefaultPasswordResetTTL     = time.Hour
	DefaultEmailVerificationTTL = 48 * time.Hour
)

// OneTimeToken is a single-use, time-limited secret mailed to a user
type OneTimeToken struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	IsUsed    bool
	UsedAt    *time.Time
}

func newOneTimeToken(user *User, ttl time.Duration) (OneTimeToken, error) {
	if ttl <= 0 {
		return OneTimeToken{}, fmt.Errorf("token ttl must be positive")
	}
	secret, err := GenerateTokenString()
	if err != nil {
		return OneTimeToken{}, err
	}
	now := time.Now()
	return OneTimeToken{
		ID:        uuid.New(),
		TenantID:  user.TenantID,
		UserID:    user.ID,
		Token:     secret,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsValid holds only while the token is unused and now is not after ExpiresAt
func (t *OneTimeToken) IsValid(now time.Time) bool {
	return !t.IsUsed && !now.After(t.ExpiresAt)
}

// Use consumes the token
func (t *OneTimeToken) Use(now time.Time) error {
	if !t.IsValid(now) {
		return shared.NewValidationError("token", "Token is invalid or has expired")
	}
	t.IsUsed = true
	t.UsedAt = &now
	return nil
}

// PasswordResetToken authorizes a single password change
type PasswordResetToken struct {
	OneTimeToken
}

// NewPasswordResetToken issues a reset token for the user
func NewPasswordResetToken(user *User, ttl time.Duration) (*PasswordResetToken, error) {
	t, err := newOneTimeToken(user, ttl)
	if err != nil {
		return nil, err
	}
	return &PasswordResetToken{OneTimeToken: t}, nil
}

// EmailVerificationToken proves ownership of the user's email address
type EmailVerificationToken struct {
	OneTimeToken
	Email string
}

// NewEmailVerificationToken issues a verification token for the user's current email
func NewEmailVerificationToken(user *User, ttl time.Duration) (*EmailVerificationToken, error) {
	t, err := newOneTimeToken(user, ttl)
	if err != nil {
		return nil, err
	}
	return &EmailVerificationToken{OneTimeToken: t, Email: user.Email}, nil
}

// GenerateTokenString returns 64 hex characters from the system CSPRNG
func GenerateTokenString() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
