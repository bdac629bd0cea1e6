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

// GormReportRepository implements analytics.ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// FindByIDForTenant finds a report definition within a tenant
func (r *GormReportRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*analytics.Report, error) {
	var model models.ReportModel
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

// FindAllForTenant finds report definitions with filtering
func (r *GormReportRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]analytics.Report, error) {
	var reportModels []models.ReportModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ReportModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPaging(query, filter, ReportSortFields, "name")

	if err := query.Find(&reportModels).Error; err != nil {
		return nil, err
	}
	return reportsToDomain(reportModels), nil
}

// CountForTenant counts report definitions matching the filter
func (r *GormReportRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ReportModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindDue returns active scheduled reports with next_run_at <= now
func (r *GormReportRepository) FindDue(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]analytics.Report, error) {
	var reportModels []models.ReportModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND schedule <> ? AND next_run_at IS NOT NULL AND next_run_at <= ?",
			tenantID, analytics.StatusActive, analytics.ScheduleNone, now).
		Order("next_run_at ASC").
		Find(&reportModels).Error; err != nil {
		return nil, err
	}
	return reportsToDomain(reportModels), nil
}

// Save creates or updates a report definition
func (r *GormReportRepository) Save(ctx context.Context, report *analytics.Report) error {
	return r.db.WithContext(ctx).Save(models.ReportModelFromDomain(report)).Error
}

func (r *GormReportRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "report_type":
			query = query.Where("report_type = ?", value)
		case "schedule":
			query = query.Where("schedule = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

func reportsToDomain(reportModels []models.ReportModel) []analytics.Report {
	reports := make([]analytics.Report, len(reportModels))
	for i := range reportModels {
		reports[i] = *reportModels[i].ToDomain()
	}
	return reports
}

var _ analytics.ReportRepository = (*GormReportRepository)(nil)
