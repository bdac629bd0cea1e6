package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// belowTargetCondition holds when the current value misses the target in the KPI's direction
const belowTargetCondition = `(current_value IS NOT NULL AND target_value IS NOT NULL AND (
	(direction = 'higher_is_better' AND current_value < target_value) OR
	(direction = 'lower_is_better' AND current_value > target_value)))`

// openAlertCondition holds when the KPI has an active or acknowledged alert
const openAlertCondition = `EXISTS (SELECT 1 FROM kpi_alerts a
	WHERE a.kpi_id = kpis.id AND a.tenant_id = kpis.tenant_id AND a.status IN ('active', 'acknowledged'))`

// GormKPIRepository implements analytics.KPIRepository using GORM
type GormKPIRepository struct {
	db *gorm.DB
}

// NewGormKPIRepository creates a new GormKPIRepository
func NewGormKPIRepository(db *gorm.DB) *GormKPIRepository {
	return &GormKPIRepository{db: db}
}

// FindByIDForTenant finds a KPI within a tenant
func (r *GormKPIRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*analytics.KPI, error) {
	return r.find(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds a KPI and locks its row until the surrounding transaction ends
func (r *GormKPIRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*analytics.KPI, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, id)
}

func (r *GormKPIRepository) find(query *gorm.DB, tenantID, id uuid.UUID) (*analytics.KPI, error) {
	var model models.KPIModel
	if err := query.
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs loads the KPIs of the tenant among ids; unknown ids are skipped
func (r *GormKPIRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]analytics.KPI, error) {
	if len(ids) == 0 {
		return []analytics.KPI{}, nil
	}
	var kpiModels []models.KPIModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("name ASC").
		Find(&kpiModels).Error; err != nil {
		return nil, err
	}
	return kpisToDomain(kpiModels), nil
}

// FindAllForTenant finds KPIs with filtering
func (r *GormKPIRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]analytics.KPI, error) {
	var kpiModels []models.KPIModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.KPIModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPaging(query, filter, KPISortFields, "name")

	if err := query.Find(&kpiModels).Error; err != nil {
		return nil, err
	}
	return kpisToDomain(kpiModels), nil
}

// CountForTenant counts KPIs matching the filter
func (r *GormKPIRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.KPIModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a KPI code is taken in the tenant
func (r *GormKPIRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.KPIModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a KPI
func (r *GormKPIRepository) Save(ctx context.Context, kpi *analytics.KPI) error {
	return r.db.WithContext(ctx).Save(models.KPIModelFromDomain(kpi)).Error
}

func (r *GormKPIRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR description ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "code":
			query = query.Where("code = ?", strings.ToUpper(toString(value)))
		case "below_target":
			if b, ok := value.(bool); ok && b {
				query = query.Where(belowTargetCondition)
			} else if ok {
				query = query.Not(belowTargetCondition)
			}
		case "has_active_alerts":
			if b, ok := value.(bool); ok && b {
				query = query.Where(openAlertCondition)
			} else if ok {
				query = query.Not(openAlertCondition)
			}
		}
	}
	return query
}

func kpisToDomain(kpiModels []models.KPIModel) []analytics.KPI {
	kpis := make([]analytics.KPI, len(kpiModels))
	for i := range kpiModels {
		kpis[i] = *kpiModels[i].ToDomain()
	}
	return kpis
}

var _ analytics.KPIRepository = (*GormKPIRepository)(nil)

// GormKPIMeasurementRepository implements analytics.KPIMeasurementRepository using GORM
type GormKPIMeasurementRepository struct {
	db *gorm.DB
}

// NewGormKPIMeasurementRepository creates a new GormKPIMeasurementRepository
func NewGormKPIMeasurementRepository(db *gorm.DB) *GormKPIMeasurementRepository {
	return &GormKPIMeasurementRepository{db: db}
}

// FindByKPI lists measurements of a KPI, newest first by default
func (r *GormKPIMeasurementRepository) FindByKPI(ctx context.Context, tenantID, kpiID uuid.UUID, filter shared.Filter) ([]analytics.KPIMeasurement, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "measured_at"
		filter.OrderDir = "desc"
	}
	var measurementModels []models.KPIMeasurementModel
	query := r.db.WithContext(ctx).Model(&models.KPIMeasurementModel{}).
		Where("tenant_id = ? AND kpi_id = ?", tenantID, kpiID)
	query = applyPaging(query, filter, KPIMeasurementSortFields, "measured_at")

	if err := query.Find(&measurementModels).Error; err != nil {
		return nil, err
	}
	measurements := make([]analytics.KPIMeasurement, len(measurementModels))
	for i := range measurementModels {
		measurements[i] = *measurementModels[i].ToDomain()
	}
	return measurements, nil
}

// CountByKPI counts measurements of a KPI
func (r *GormKPIMeasurementRepository) CountByKPI(ctx context.Context, tenantID, kpiID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.KPIMeasurementModel{}).
		Where("tenant_id = ? AND kpi_id = ?", tenantID, kpiID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a measurement
func (r *GormKPIMeasurementRepository) Create(ctx context.Context, m *analytics.KPIMeasurement) error {
	return r.db.WithContext(ctx).Create(models.KPIMeasurementModelFromDomain(m)).Error
}

var _ analytics.KPIMeasurementRepository = (*GormKPIMeasurementRepository)(nil)

// GormKPIAlertRepository implements analytics.KPIAlertRepository using GORM
type GormKPIAlertRepository struct {
	db *gorm.DB
}

// NewGormKPIAlertRepository creates a new GormKPIAlertRepository
func NewGormKPIAlertRepository(db *gorm.DB) *GormKPIAlertRepository {
	return &GormKPIAlertRepository{db: db}
}

// FindByIDForTenant finds an alert within a tenant
func (r *GormKPIAlertRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*analytics.KPIAlert, error) {
	var model models.KPIAlertModel
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

// FindAllForTenant finds alerts with filtering
func (r *GormKPIAlertRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]analytics.KPIAlert, error) {
	var alertModels []models.KPIAlertModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.KPIAlertModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPaging(query, filter, KPIAlertSortFields, "triggered_at")

	if err := query.Find(&alertModels).Error; err != nil {
		return nil, err
	}
	return alertsToDomain(alertModels), nil
}

// CountForTenant counts alerts matching the filter
func (r *GormKPIAlertRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.KPIAlertModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindOpenByKPI returns the active and acknowledged alerts of a KPI
func (r *GormKPIAlertRepository) FindOpenByKPI(ctx context.Context, tenantID, kpiID uuid.UUID) ([]analytics.KPIAlert, error) {
	var alertModels []models.KPIAlertModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND kpi_id = ? AND status IN ?", tenantID, kpiID,
			[]analytics.AlertStatus{analytics.AlertStatusActive, analytics.AlertStatusAcknowledged}).
		Order("triggered_at DESC").
		Find(&alertModels).Error; err != nil {
		return nil, err
	}
	return alertsToDomain(alertModels), nil
}

// Save creates or updates an alert
func (r *GormKPIAlertRepository) Save(ctx context.Context, alert *analytics.KPIAlert) error {
	return r.db.WithContext(ctx).Save(models.KPIAlertModelFromDomain(alert)).Error
}

func (r *GormKPIAlertRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("message ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "kpi_id":
			query = query.Where("kpi_id = ?", value)
		case "severity":
			query = query.Where("severity = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "triggered_after":
			query = query.Where("triggered_at >= ?", value)
		case "triggered_before":
			query = query.Where("triggered_at <= ?", value)
		}
	}
	return query
}

func alertsToDomain(alertModels []models.KPIAlertModel) []analytics.KPIAlert {
	alerts := make([]analytics.KPIAlert, len(alertModels))
	for i := range alertModels {
		alerts[i] = *alertModels[i].ToDomain()
	}
	return alerts
}

var _ analytics.KPIAlertRepository = (*GormKPIAlertRepository)(nil)
