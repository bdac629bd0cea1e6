package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDashboardRepository implements analytics.DashboardRepository using GORM
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// FindByIDForTenant finds a dashboard within a tenant
func (r *GormDashboardRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*analytics.Dashboard, error) {
	var model models.DashboardModel
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

// FindVisible returns the user's own dashboards and the tenant's shared ones
func (r *GormDashboardRepository) FindVisible(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]analytics.Dashboard, error) {
	var dashboardModels []models.DashboardModel
	query := r.applyFilter(r.visible(ctx, tenantID, userID), filter)
	query = applyPaging(query, filter, DashboardSortFields, "name")

	if err := query.Find(&dashboardModels).Error; err != nil {
		return nil, err
	}
	dashboards := make([]analytics.Dashboard, len(dashboardModels))
	for i := range dashboardModels {
		dashboards[i] = *dashboardModels[i].ToDomain()
	}
	return dashboards, nil
}

// CountVisible counts dashboards visible to the user
func (r *GormDashboardRepository) CountVisible(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.visible(ctx, tenantID, userID), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormDashboardRepository) visible(ctx context.Context, tenantID, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.DashboardModel{}).
		Where("tenant_id = ?", tenantID).
		Where("owner_id = ? OR is_shared = ?", userID, true)
}

// ClearDefault unsets is_default on the owner's dashboards except keepID
func (r *GormDashboardRepository) ClearDefault(ctx context.Context, tenantID, ownerID, keepID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.DashboardModel{}).
		Where("tenant_id = ? AND owner_id = ? AND id <> ? AND is_default = ?", tenantID, ownerID, keepID, true).
		Updates(map[string]any{
			"is_default": false,
			"updated_at": time.Now(),
		}).Error
}

// Save creates or updates a dashboard
func (r *GormDashboardRepository) Save(ctx context.Context, dashboard *analytics.Dashboard) error {
	return r.db.WithContext(ctx).Save(models.DashboardModelFromDomain(dashboard)).Error
}

func (r *GormDashboardRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "is_shared":
			query = query.Where("is_shared = ?", value)
		case "is_default":
			query = query.Where("is_default = ?", value)
		}
	}
	return query
}

var _ analytics.DashboardRepository = (*GormDashboardRepository)(nil)
