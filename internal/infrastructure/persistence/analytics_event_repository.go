package persistence

import (
	"context"
	"time"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAnalyticsEventRepository implements analytics.AnalyticsEventRepository using GORM
type GormAnalyticsEventRepository struct {
	db *gorm.DB
}

// NewGormAnalyticsEventRepository creates a new GormAnalyticsEventRepository
func NewGormAnalyticsEventRepository(db *gorm.DB) *GormAnalyticsEventRepository {
	return &GormAnalyticsEventRepository{db: db}
}

// FindAllForTenant finds tracked events with filtering
func (r *GormAnalyticsEventRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]analytics.AnalyticsEvent, error) {
	var eventModels []models.AnalyticsEventModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AnalyticsEventModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPaging(query, filter, AnalyticsEventSortFields, "occurred_at")

	if err := query.Find(&eventModels).Error; err != nil {
		return nil, err
	}
	events := make([]analytics.AnalyticsEvent, len(eventModels))
	for i := range eventModels {
		events[i] = *eventModels[i].ToDomain()
	}
	return events, nil
}

// CountForTenant counts tracked events matching the filter
func (r *GormAnalyticsEventRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AnalyticsEventModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Summarize counts events per type within [from, to], most frequent first
func (r *GormAnalyticsEventRepository) Summarize(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]analytics.EventCount, error) {
	counts := []analytics.EventCount{}
	if err := r.db.WithContext(ctx).Model(&models.AnalyticsEventModel{}).
		Select("event_type, COUNT(*) AS count").
		Where("tenant_id = ? AND occurred_at >= ? AND occurred_at <= ?", tenantID, from, to).
		Group("event_type").
		Order("count DESC, event_type ASC").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// Create inserts a tracked event
func (r *GormAnalyticsEventRepository) Create(ctx context.Context, event *analytics.AnalyticsEvent) error {
	return r.db.WithContext(ctx).Create(models.AnalyticsEventModelFromDomain(event)).Error
}

func (r *GormAnalyticsEventRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "event_type":
			query = query.Where("event_type = ?", value)
		case "entity_type":
			query = query.Where("entity_type = ?", value)
		case "entity_id":
			query = query.Where("entity_id = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		case "occurred_after":
			query = query.Where("occurred_at >= ?", value)
		case "occurred_before":
			query = query.Where("occurred_at <= ?", value)
		}
	}
	return query
}

var _ analytics.AnalyticsEventRepository = (*GormAnalyticsEventRepository)(nil)
