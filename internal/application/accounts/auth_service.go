package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/erp/platform/internal/application/notification"
	"github.com/erp/platform/internal/domain/accounts"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts     int           // failed logins before the account is locked
	LockDuration         time.Duration // how long a locked account stays locked
	PasswordResetTTL     time.Duration
	EmailVerificationTTL time.Duration
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts:     5,
		LockDuration:         15 * time.Minute,
		PasswordResetTTL:     accounts.DefaultPasswordResetTTL,
		EmailVerificationTTL: accounts.DefaultEmailVerificationTTL,
	}
}

// AuthService handles registration, sign-in and account recovery
type AuthService struct {
	txScope    TransactionScope
	orgRepo    accounts.OrganizationRepository
	userRepo   accounts.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	notifier   notification.Notifier
	publisher  shared.EventPublisher
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	txScope TransactionScope,
	orgRepo accounts.OrganizationRepository,
	userRepo accounts.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	notifier notification.Notifier,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		txScope:    txScope,
		orgRepo:    orgRepo,
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		notifier:   notifier,
		config:     config,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher used for domain events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Register creates an organization, its admin user and a verification token,
// then sends the welcome email
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if err := accounts.ValidatePasswordConfirmation(req.Password, req.PasswordConfirm); err != nil {
		return nil, err
	}
	if err := accounts.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	if err := accounts.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	email := accounts.NormalizeEmail(req.Email)
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewValidationError("email", "A user with this email already exists")
	}

	org, err := accounts.NewOrganization(req.OrganizationName, email)
	if err != nil {
		return nil, err
	}
	admin, err := accounts.NewUser(org.TenantID(), email, req.Password, accounts.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := admin.UpdateProfile(req.FirstName, req.LastName, ""); err != nil {
		return nil, err
	}
	token, err := accounts.NewEmailVerificationToken(admin, s.config.EmailVerificationTTL)
	if err != nil {
		return nil, err
	}
	org.AddDomainEvent(accounts.NewOrganizationRegisteredEvent(org, admin))

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		taken, err := repos.Organizations().ExistsBySlug(ctx, org.Slug)
		if err != nil {
			return err
		}
		if taken {
			org.Slug = org.Slug + "-" + org.ID.String()[:8]
		}
		if err := repos.Organizations().Save(ctx, org); err != nil {
			return err
		}
		if err := repos.Users().Save(ctx, admin); err != nil {
			return err
		}
		return repos.VerificationTokens().Save(ctx, token)
	})
	if err != nil {
		s.logger.Error("Registration failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Organization registered",
		zap.String("tenant_id", org.ID.String()),
		zap.String("organization", org.Name),
		zap.String("admin_email", admin.Email))
	s.publish(ctx, org.GetDomainEvents()...)
	s.publish(ctx, admin.GetDomainEvents()...)

	tokens, err := s.jwtService.GenerateTokenPair(auth.SubjectOf(admin))
	if err != nil {
		return nil, err
	}

	delivery := s.notifier.Welcome(ctx, notification.WelcomeMail{
		To:               admin.Email,
		Name:             admin.FullName(),
		OrganizationName: org.Name,
		VerifyToken:      token.Token,
	})

	orgResp := ToOrganizationResponse(org)
	return &AuthResult{
		User:         ToUserResponse(admin),
		Organization: &orgResp,
		Tokens:       tokens,
		Email:        &delivery,
	}, nil
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := accounts.NormalizeEmail(req.Email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if shared.IsNotFound(err) {
			s.logger.Warn("Login for unknown email", zap.String("email", email), zap.String("ip", req.IP))
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("email", email))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
		}
		s.logger.Warn("Login attempt for inactive account", zap.String("email", email))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("Failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("email", email),
				zap.Int("max_attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		s.logger.Warn("Invalid password attempt",
			zap.String("email", email),
			zap.Int("failed_attempts", user.FailedLoginAttempts))
		return nil, invalidCredentials()
	}

	org, err := s.orgRepo.FindByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}
	if !org.IsActive() {
		return nil, shared.NewDomainError("ORGANIZATION_SUSPENDED", "Organization is suspended")
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record login success", zap.Error(err))
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.SubjectOf(user))
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()))

	orgResp := ToOrganizationResponse(org)
	return &AuthResult{User: ToUserResponse(user), Organization: &orgResp, Tokens: tokens}, nil
}

// RefreshToken rotates the token pair, re-reading the user's role
func (s *AuthService) RefreshToken(ctx context.Context, req RefreshRequest) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, mapTokenError(auth.ErrInvalidClaims)
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsUserRevoked(ctx, userID, claims.GetIssuedAtTime())
		if err != nil {
			s.logger.Error("Failed to check token revocation", zap.Error(err))
		} else if revoked {
			return nil, mapTokenError(auth.ErrTokenBlacklisted)
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, mapTokenError(auth.ErrInvalidToken)
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, auth.SubjectOf(user))
	if err != nil {
		return nil, mapTokenError(err)
	}
	return pair, nil
}

// Logout revokes the access token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, in LogoutInput) error {
	if s.blacklist == nil || in.TokenJTI == "" {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, in.TokenJTI, in.TTL); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("user_id", in.UserID.String()), zap.Error(err))
		return err
	}
	s.logger.Info("User logged out", zap.String("user_id", in.UserID.String()))
	return nil
}

// RequestPasswordReset issues a reset token and mails it.
// An unknown email is a validation error on the email field.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) (*EmailResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, accounts.NormalizeEmail(req.Email))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewValidationError("email", "No user is registered with this email")
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, shared.NewValidationError("email", "This account is not active")
	}

	token, err := accounts.NewPasswordResetToken(user, s.config.PasswordResetTTL)
	if err != nil {
		return nil, err
	}
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ResetTokens().InvalidateForUser(ctx, user.ID); err != nil {
			return err
		}
		return repos.ResetTokens().Save(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	delivery := s.notifier.PasswordReset(ctx, notification.PasswordResetMail{
		To:    user.Email,
		Name:  user.FullName(),
		Token: token.Token,
		TTL:   s.config.PasswordResetTTL,
	})
	s.logger.Info("Password reset requested", zap.String("user_id", user.ID.String()), zap.Bool("email_sent", delivery.Sent))
	return &EmailResult{Message: "Password reset email has been sent", Email: delivery}, nil
}

// ConfirmPasswordReset sets a new password with a reset token and ends every
// session. The token row stays locked from the validity check until it is
// marked used, so a token is spent at most once.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, req PasswordResetConfirmRequest) error {
	if err := accounts.ValidatePasswordConfirmation(req.Password, req.PasswordConfirm); err != nil {
		return err
	}

	var user *accounts.User
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		token, err := repos.ResetTokens().FindByTokenForUpdate(ctx, req.Token)
		if err != nil {
			if shared.IsNotFound(err) {
				return invalidToken()
			}
			return err
		}
		now := time.Now()
		if !token.IsValid(now) {
			return invalidToken()
		}

		user, err = repos.Users().FindByIDForTenant(ctx, token.TenantID, token.UserID)
		if err != nil {
			return err
		}
		if err := user.SetPassword(req.Password); err != nil {
			return err
		}
		if err := token.Use(now); err != nil {
			return invalidToken()
		}

		if err := repos.Users().Save(ctx, user); err != nil {
			return err
		}
		return repos.ResetTokens().Save(ctx, token)
	})
	if err != nil {
		return err
	}

	s.revokeSessions(ctx, user.ID)
	s.publish(ctx, user.GetDomainEvents()...)
	s.logger.Info("Password reset completed", zap.String("user_id", user.ID.String()))
	return nil
}

// VerifyEmail marks the token's user as verified
func (s *AuthService) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*UserResponse, error) {
	var user *accounts.User
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		token, err := repos.VerificationTokens().FindByTokenForUpdate(ctx, req.Token)
		if err != nil {
			if shared.IsNotFound(err) {
				return invalidToken()
			}
			return err
		}
		now := time.Now()
		if !token.IsValid(now) {
			return invalidToken()
		}

		user, err = repos.Users().FindByIDForTenant(ctx, token.TenantID, token.UserID)
		if err != nil {
			return err
		}
		if user.Email != token.Email {
			return invalidToken()
		}
		user.MarkEmailVerified()
		if err := token.Use(now); err != nil {
			return invalidToken()
		}

		if err := repos.Users().Save(ctx, user); err != nil {
			return err
		}
		return repos.VerificationTokens().Save(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, user.GetDomainEvents()...)
	resp := ToUserResponse(user)
	return &resp, nil
}

// ResendVerification issues a fresh verification token for the caller
func (s *AuthService) ResendVerification(ctx context.Context, tenantID, userID uuid.UUID) (*EmailResult, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user.IsEmailVerified {
		return nil, shared.NewDomainError("INVALID_STATE", "Email address is already verified")
	}

	token, err := accounts.NewEmailVerificationToken(user, s.config.EmailVerificationTTL)
	if err != nil {
		return nil, err
	}
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.VerificationTokens().InvalidateForUser(ctx, user.ID); err != nil {
			return err
		}
		return repos.VerificationTokens().Save(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	delivery := s.notifier.EmailVerification(ctx, notification.VerificationMail{
		To:    user.Email,
		Name:  user.FullName(),
		Token: token.Token,
	})
	return &EmailResult{Message: "Verification email has been sent", Email: delivery}, nil
}

func (s *AuthService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.RevokeUser(ctx, userID, s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke user sessions", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (s *AuthService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}
}

func invalidCredentials() error {
	return shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
}

func invalidToken() error {
	return shared.NewValidationError("token", "Token is invalid or has expired")
}

// mapTokenError converts JWT errors to domain errors
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum refresh count exceeded, please login again")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}
