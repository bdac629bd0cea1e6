package persistence

import (
	"context"
	"errors"

	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var poNumbers = newYearlySequence("purchase_orders", "po_number", "PO")

// GormPurchaseOrderRepository implements purchasing.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

func orderPOItems(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

// FindByIDForTenant finds a purchase order with its items
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	return r.find(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds a purchase order and locks its row until the surrounding transaction ends
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, id)
}

func (r *GormPurchaseOrderRepository) find(query *gorm.DB, tenantID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := query.
		Preload("Items", orderPOItems).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds purchase orders with filtering
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	var orderModels []models.PurchaseOrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPaging(query, filter, PurchaseOrderSortFields, "created_at")

	if err := query.Preload("Items", orderPOItems).Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]purchasing.PurchaseOrder, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// CountForTenant counts purchase orders matching the filter
func (r *GormPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a purchase order and replaces its item set
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *purchasing.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.PurchaseOrderModelFromDomain(po)
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, len(po.Items))
		for i, item := range po.Items {
			keep[i] = item.ID
		}
		if err := pruneItems(tx, &models.PurchaseOrderItemModel{}, "purchase_order_id", po.ID, keep); err != nil {
			return err
		}

		for i := range po.Items {
			po.Items[i].PurchaseOrderID = po.ID
			if err := tx.Save(models.PurchaseOrderItemModelFromDomain(&po.Items[i])).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GeneratePONumber returns the next PO-YYYY-NNNNN number
func (r *GormPurchaseOrderRepository) GeneratePONumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return poNumbers.Next(ctx, r.db, tenantID)
}

func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("po_number ILIKE ? OR supplier_name ILIKE ? OR notes ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "po_number":
			query = query.Where("po_number ILIKE ?", likePattern(value))
		case "total_min":
			query = query.Where("total_amount >= ?", value)
		case "total_max":
			query = query.Where("total_amount <= ?", value)
		case "order_date_after":
			query = query.Where("order_date >= ?", value)
		case "order_date_before":
			query = query.Where("order_date <= ?", value)
		case "approved_by":
			query = query.Where("approved_by = ?", value)
		}
	}
	return query
}

var _ purchasing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
