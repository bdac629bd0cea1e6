package persistence

import (
	"context"
	"errors"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPolicyRepository implements hr.PolicyRepository using GORM
type GormPolicyRepository struct {
	db *gorm.DB
}

// NewGormPolicyRepository creates a new GormPolicyRepository
func NewGormPolicyRepository(db *gorm.DB) *GormPolicyRepository {
	return &GormPolicyRepository{db: db}
}

// FindByIDForTenant finds a policy within a tenant
func (r *GormPolicyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Policy, error) {
	var model models.PolicyModel
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

// FindAllForTenant finds policies with filtering
func (r *GormPolicyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Policy, error) {
	var policyModels []models.PolicyModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PolicyModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPaging(query, filter, PolicySortFields, "title")

	if err := query.Find(&policyModels).Error; err != nil {
		return nil, err
	}
	policies := make([]hr.Policy, len(policyModels))
	for i := range policyModels {
		policies[i] = *policyModels[i].ToDomain()
	}
	return policies, nil
}

// CountForTenant counts policies matching the filter
func (r *GormPolicyRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PolicyModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a policy
func (r *GormPolicyRepository) Save(ctx context.Context, policy *hr.Policy) error {
	return r.db.WithContext(ctx).Save(models.PolicyModelFromDomain(policy)).Error
}

func (r *GormPolicyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", searchPattern, searchPattern)
	}
	if v, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", v)
	}
	if v, ok := filter.Filters["category"]; ok {
		query = query.Where("category = ?", v)
	}
	return query
}

var _ hr.PolicyRepository = (*GormPolicyRepository)(nil)

// GormPolicyAcknowledgmentRepository implements hr.PolicyAcknowledgmentRepository using GORM
type GormPolicyAcknowledgmentRepository struct {
	db *gorm.DB
}

// NewGormPolicyAcknowledgmentRepository creates a new GormPolicyAcknowledgmentRepository
func NewGormPolicyAcknowledgmentRepository(db *gorm.DB) *GormPolicyAcknowledgmentRepository {
	return &GormPolicyAcknowledgmentRepository{db: db}
}

// Exists checks whether the employee acknowledged the given policy version
func (r *GormPolicyAcknowledgmentRepository) Exists(ctx context.Context, tenantID, policyID, employeeID uuid.UUID, version int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PolicyAcknowledgmentModel{}).
		Where("tenant_id = ? AND policy_id = ? AND employee_id = ? AND policy_version = ?",
			tenantID, policyID, employeeID, version).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByPolicy lists acknowledgments of a policy, newest first by default
func (r *GormPolicyAcknowledgmentRepository) FindByPolicy(ctx context.Context, tenantID, policyID uuid.UUID, filter shared.Filter) ([]hr.PolicyAcknowledgment, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "acknowledged_at"
		filter.OrderDir = "desc"
	}
	var ackModels []models.PolicyAcknowledgmentModel
	query := r.db.WithContext(ctx).Model(&models.PolicyAcknowledgmentModel{}).
		Where("tenant_id = ? AND policy_id = ?", tenantID, policyID)
	query = applyPaging(query, filter, PolicyAcknowledgmentSortFields, "acknowledged_at")

	if err := query.Find(&ackModels).Error; err != nil {
		return nil, err
	}
	acks := make([]hr.PolicyAcknowledgment, len(ackModels))
	for i := range ackModels {
		acks[i] = *ackModels[i].ToDomain()
	}
	return acks, nil
}

// CountByPolicy counts acknowledgments of a policy across all versions
func (r *GormPolicyAcknowledgmentRepository) CountByPolicy(ctx context.Context, tenantID, policyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PolicyAcknowledgmentModel{}).
		Where("tenant_id = ? AND policy_id = ?", tenantID, policyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts an acknowledgment
func (r *GormPolicyAcknowledgmentRepository) Create(ctx context.Context, ack *hr.PolicyAcknowledgment) error {
	return r.db.WithContext(ctx).Create(models.PolicyAcknowledgmentModelFromDomain(ack)).Error
}

var _ hr.PolicyAcknowledgmentRepository = (*GormPolicyAcknowledgmentRepository)(nil)
