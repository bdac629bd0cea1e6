package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/platform/internal/domain/accounts"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPasswordResetTokenRepository implements accounts.PasswordResetTokenRepository using GORM
type GormPasswordResetTokenRepository struct {
	db *gorm.DB
}

// NewGormPasswordResetTokenRepository creates a new GormPasswordResetTokenRepository
func NewGormPasswordResetTokenRepository(db *gorm.DB) *GormPasswordResetTokenRepository {
	return &GormPasswordResetTokenRepository{db: db}
}

// FindByTokenForUpdate finds a reset token by its secret value and locks it
// until the surrounding transaction ends
func (r *GormPasswordResetTokenRepository) FindByTokenForUpdate(ctx context.Context, token string) (*accounts.PasswordResetToken, error) {
	var model models.PasswordResetTokenModel
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("token = ?", token).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a reset token
func (r *GormPasswordResetTokenRepository) Save(ctx context.Context, token *accounts.PasswordResetToken) error {
	return r.db.WithContext(ctx).Save(models.PasswordResetTokenModelFromDomain(token)).Error
}

// InvalidateForUser marks every unused reset token of the user as used
func (r *GormPasswordResetTokenRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID) error {
	return invalidateTokens(ctx, r.db, &models.PasswordResetTokenModel{}, userID)
}

// GormEmailVerificationTokenRepository implements accounts.EmailVerificationTokenRepository using GORM
type GormEmailVerificationTokenRepository struct {
	db *gorm.DB
}

// NewGormEmailVerificationTokenRepository creates a new GormEmailVerificationTokenRepository
func NewGormEmailVerificationTokenRepository(db *gorm.DB) *GormEmailVerificationTokenRepository {
	return &GormEmailVerificationTokenRepository{db: db}
}

// FindByTokenForUpdate finds a verification token by its secret value and
// locks it until the surrounding transaction ends
func (r *GormEmailVerificationTokenRepository) FindByTokenForUpdate(ctx context.Context, token string) (*accounts.EmailVerificationToken, error) {
	var model models.EmailVerificationTokenModel
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("token = ?", token).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a verification token
func (r *GormEmailVerificationTokenRepository) Save(ctx context.Context, token *accounts.EmailVerificationToken) error {
	return r.db.WithContext(ctx).Save(models.EmailVerificationTokenModelFromDomain(token)).Error
}

// InvalidateForUser marks every unused verification token of the user as used
func (r *GormEmailVerificationTokenRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID) error {
	return invalidateTokens(ctx, r.db, &models.EmailVerificationTokenModel{}, userID)
}

func invalidateTokens(ctx context.Context, db *gorm.DB, model any, userID uuid.UUID) error {
	return db.WithContext(ctx).Model(model).
		Where("user_id = ? AND is_used = ?", userID, false).
		Updates(map[string]any{"is_used": true, "used_at": time.Now()}).Error
}

var (
	_ accounts.PasswordResetTokenRepository     = (*GormPasswordResetTokenRepository)(nil)
	_ accounts.EmailVerificationTokenRepository = (*GormEmailVerificationTokenRepository)(nil)
)
