package persistence

import (
	"context"
	"errors"

	"github.com/erp/platform/internal/domain/sales"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInteractionRepository implements sales.InteractionRepository using GORM.
// Interactions are an append-only log.
type GormInteractionRepository struct {
	db *gorm.DB
}

// NewGormInteractionRepository creates a new GormInteractionRepository
func NewGormInteractionRepository(db *gorm.DB) *GormInteractionRepository {
	return &GormInteractionRepository{db: db}
}

// FindByIDForTenant finds an interaction within a tenant
func (r *GormInteractionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.ClientInteraction, error) {
	var model models.ClientInteractionModel
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

// FindAllForTenant finds interactions with filtering
func (r *GormInteractionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.ClientInteraction, error) {
	var interactionModels []models.ClientInteractionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClientInteractionModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPaging(query, filter, InteractionSortFields, "occurred_at")

	if err := query.Find(&interactionModels).Error; err != nil {
		return nil, err
	}
	interactions := make([]sales.ClientInteraction, len(interactionModels))
	for i := range interactionModels {
		interactions[i] = *interactionModels[i].ToDomain()
	}
	return interactions, nil
}

// CountForTenant counts interactions matching the filter
func (r *GormInteractionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClientInteractionModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts an interaction
func (r *GormInteractionRepository) Create(ctx context.Context, interaction *sales.ClientInteraction) error {
	return r.db.WithContext(ctx).Create(models.ClientInteractionModelFromDomain(interaction)).Error
}

func (r *GormInteractionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("subject ILIKE ? OR description ILIKE ? OR outcome ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "contact_id":
			query = query.Where("contact_id = ?", value)
		case "interaction_type":
			query = query.Where("interaction_type = ?", value)
		case "occurred_after":
			query = query.Where("occurred_at >= ?", value)
		case "occurred_before":
			query = query.Where("occurred_at <= ?", value)
		case "has_follow_up":
			if b, ok := value.(bool); ok && b {
				query = query.Where("follow_up_date IS NOT NULL")
			} else if ok {
				query = query.Where("follow_up_date IS NULL")
			}
		}
	}
	return query
}

var _ sales.InteractionRepository = (*GormInteractionRepository)(nil)
