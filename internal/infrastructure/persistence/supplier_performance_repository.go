package persistence

import (
	"context"
	"errors"

	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSupplierPerformanceRepository implements purchasing.SupplierPerformanceRepository using GORM.
// Evaluations are never updated once written.
type GormSupplierPerformanceRepository struct {
	db *gorm.DB
}

// NewGormSupplierPerformanceRepository creates a new GormSupplierPerformanceRepository
func NewGormSupplierPerformanceRepository(db *gorm.DB) *GormSupplierPerformanceRepository {
	return &GormSupplierPerformanceRepository{db: db}
}

// FindByIDForTenant finds an evaluation within a tenant
func (r *GormSupplierPerformanceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.SupplierPerformance, error) {
	var model models.SupplierPerformanceModel
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

// FindBySupplier lists evaluations of a supplier, latest period first by default
func (r *GormSupplierPerformanceRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]purchasing.SupplierPerformance, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "period_end"
		filter.OrderDir = "desc"
	}
	var evaluationModels []models.SupplierPerformanceModel
	query := r.db.WithContext(ctx).Model(&models.SupplierPerformanceModel{}).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID)
	query = applyPaging(query, filter, SupplierPerformanceSortFields, "period_end")

	if err := query.Find(&evaluationModels).Error; err != nil {
		return nil, err
	}
	evaluations := make([]purchasing.SupplierPerformance, len(evaluationModels))
	for i := range evaluationModels {
		evaluations[i] = *evaluationModels[i].ToDomain()
	}
	return evaluations, nil
}

// CountBySupplier counts evaluations of a supplier
func (r *GormSupplierPerformanceRepository) CountBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SupplierPerformanceModel{}).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AverageOverall returns the mean overall score of all evaluations of the supplier
func (r *GormSupplierPerformanceRepository) AverageOverall(ctx context.Context, tenantID, supplierID uuid.UUID) (decimal.Decimal, error) {
	var avg decimal.NullDecimal
	if err := r.db.WithContext(ctx).Model(&models.SupplierPerformanceModel{}).
		Select("AVG(overall_score)").
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Row().Scan(&avg); err != nil {
		return decimal.Zero, err
	}
	if !avg.Valid {
		return decimal.Zero, nil
	}
	return avg.Decimal, nil
}

// performanceAggregate receives the AVG/COUNT row of Summarize
type performanceAggregate struct {
	EvaluationCount      int64
	AverageQuality       decimal.NullDecimal
	AverageDelivery      decimal.NullDecimal
	AveragePrice         decimal.NullDecimal
	AverageCommunication decimal.NullDecimal
	AverageOverall       decimal.NullDecimal
}

// Summarize aggregates all evaluations of the supplier and attaches the latest one
func (r *GormSupplierPerformanceRepository) Summarize(ctx context.Context, tenantID, supplierID uuid.UUID) (*purchasing.PerformanceSummary, error) {
	var agg performanceAggregate
	if err := r.db.WithContext(ctx).Model(&models.SupplierPerformanceModel{}).
		Select(`COUNT(*) AS evaluation_count,
			AVG(quality_score) AS average_quality,
			AVG(delivery_score) AS average_delivery,
			AVG(price_score) AS average_price,
			AVG(communication_score) AS average_communication,
			AVG(overall_score) AS average_overall`).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Scan(&agg).Error; err != nil {
		return nil, err
	}

	summary := &purchasing.PerformanceSummary{
		SupplierID:           supplierID,
		EvaluationCount:      agg.EvaluationCount,
		AverageQuality:       roundAverage(agg.AverageQuality),
		AverageDelivery:      roundAverage(agg.AverageDelivery),
		AveragePrice:         roundAverage(agg.AveragePrice),
		AverageCommunication: roundAverage(agg.AverageCommunication),
		AverageOverall:       roundAverage(agg.AverageOverall),
	}
	if agg.EvaluationCount == 0 {
		return summary, nil
	}

	var latest models.SupplierPerformanceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Order("period_end DESC, created_at DESC").
		First(&latest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return summary, nil
		}
		return nil, err
	}
	summary.Latest = latest.ToDomain()
	return summary, nil
}

// Create inserts an evaluation
func (r *GormSupplierPerformanceRepository) Create(ctx context.Context, evaluation *purchasing.SupplierPerformance) error {
	return r.db.WithContext(ctx).Create(models.SupplierPerformanceModelFromDomain(evaluation)).Error
}

func roundAverage(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal.Round(2)
}

var _ purchasing.SupplierPerformanceRepository = (*GormSupplierPerformanceRepository)(nil)
