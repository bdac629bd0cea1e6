package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/platform/internal/domain/sales"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContactRepository implements sales.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByIDForTenant finds a contact within a tenant
func (r *GormContactRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByClient lists the contacts of a client, primary contact first
func (r *GormContactRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]sales.Contact, error) {
	var contactModels []models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Order("is_primary DESC, first_name ASC, last_name ASC").
		Find(&contactModels).Error; err != nil {
		return nil, err
	}
	contacts := make([]sales.Contact, len(contactModels))
	for i := range contactModels {
		contacts[i] = *contactModels[i].ToDomain()
	}
	return contacts, nil
}

// FindPrimary returns the primary contact of a client
func (r *GormContactRepository) FindPrimary(ctx context.Context, tenantID, clientID uuid.UUID) (*sales.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ? AND is_primary = ?", tenantID, clientID, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ClearPrimary unsets is_primary on every contact of the client except keepID
func (r *GormContactRepository) ClearPrimary(ctx context.Context, tenantID, clientID, keepID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.ContactModel{}).
		Where("tenant_id = ? AND client_id = ? AND id <> ? AND is_primary = ?", tenantID, clientID, keepID, true).
		Updates(map[string]any{
			"is_primary": false,
			"updated_at": time.Now(),
		}).Error
}

// Save creates or updates a contact
func (r *GormContactRepository) Save(ctx context.Context, contact *sales.Contact) error {
	return r.db.WithContext(ctx).Save(models.ContactModelFromDomain(contact)).Error
}

// Delete removes a contact
func (r *GormContactRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.ContactModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ sales.ContactRepository = (*GormContactRepository)(nil)
