package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/platform/internal/domain/finance"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var invoiceNumbers = newYearlySequence("invoices", "invoice_number", "INV")

// GormInvoiceRepository implements finance.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForTenant finds an invoice with its items
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	return r.find(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds an invoice and locks its row until the surrounding transaction ends
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, id)
}

func (r *GormInvoiceRepository) find(query *gorm.DB, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds invoices with filtering
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPaging(query, filter, InvoiceSortFields, "created_at")

	if err := query.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(invoiceModels), nil
}

// CountForTenant counts invoices matching the filter
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindOverdueCandidates finds sent or partially paid invoices due before asOf
func (r *GormInvoiceRepository) FindOverdueCandidates(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status IN ? AND due_date < ?", tenantID,
			[]finance.InvoiceStatus{finance.InvoiceStatusSent, finance.InvoiceStatusPartiallyPaid}, asOf).
		Order("due_date ASC").
		Preload("Items").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(invoiceModels), nil
}

// Save creates or updates an invoice and replaces its item set
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.InvoiceModelFromDomain(invoice)
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, len(invoice.Items))
		for i, item := range invoice.Items {
			keep[i] = item.ID
		}
		if err := pruneItems(tx, &models.InvoiceItemModel{}, "invoice_id", invoice.ID, keep); err != nil {
			return err
		}

		for i := range invoice.Items {
			invoice.Items[i].InvoiceID = invoice.ID
			if err := tx.Save(models.InvoiceItemModelFromDomain(&invoice.Items[i])).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GenerateInvoiceNumber returns the next INV-YYYY-NNNNN number
func (r *GormInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return invoiceNumbers.Next(ctx, r.db, tenantID)
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR client_name ILIKE ? OR client_email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "invoice_number":
			query = query.Where("invoice_number ILIKE ?", likePattern(value))
		case "client_name":
			query = query.Where("client_name ILIKE ?", likePattern(value))
		case "total_min":
			query = query.Where("total_amount >= ?", value)
		case "total_max":
			query = query.Where("total_amount <= ?", value)
		case "issue_date_after":
			query = query.Where("issue_date >= ?", value)
		case "issue_date_before":
			query = query.Where("issue_date <= ?", value)
		case "due_date_after":
			query = query.Where("due_date >= ?", value)
		case "due_date_before":
			query = query.Where("due_date <= ?", value)
		case "is_overdue":
			overdue := "(status = ? OR (status IN ? AND due_date < CURRENT_DATE))"
			open := []finance.InvoiceStatus{finance.InvoiceStatusSent, finance.InvoiceStatusPartiallyPaid}
			if b, ok := value.(bool); ok && b {
				query = query.Where(overdue, finance.InvoiceStatusOverdue, open)
			} else if ok {
				query = query.Not(overdue, finance.InvoiceStatusOverdue, open)
			}
		}
	}
	return query
}

func invoicesToDomain(invoiceModels []models.InvoiceModel) []finance.Invoice {
	invoices := make([]finance.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices
}

var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
