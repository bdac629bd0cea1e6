package models

import (
	"time"

	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierModel is the persistence model for suppliers.
type SupplierModel struct {
	TenantAggregateModel
	Code             string                    `gorm:"type:varchar(50);not null"`
	Name             string                    `gorm:"type:varchar(200);not null"`
	ContactName      string                    `gorm:"type:varchar(100)"`
	Email            string                    `gorm:"type:varchar(254)"`
	Phone            string                    `gorm:"type:varchar(50)"`
	Address          valueobject.Address       `gorm:"type:jsonb;default:'{}'"`
	TaxID            string                    `gorm:"type:varchar(50)"`
	PaymentTermsDays int                       `gorm:"not null;default:30"`
	Status           purchasing.SupplierStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	Rating           *decimal.Decimal          `gorm:"type:decimal(4,2)"`
	Notes            string                    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier.
func (m *SupplierModel) ToDomain() *purchasing.Supplier {
	return &purchasing.Supplier{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		ContactName:         m.ContactName,
		Email:               m.Email,
		Phone:               m.Phone,
		Address:             m.Address,
		TaxID:               m.TaxID,
		PaymentTermsDays:    m.PaymentTermsDays,
		Status:              m.Status,
		Rating:              m.Rating,
		Notes:               m.Notes,
	}
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier.
func SupplierModelFromDomain(s *purchasing.Supplier) *SupplierModel {
	m := &SupplierModel{
		Code:             s.Code,
		Name:             s.Name,
		ContactName:      s.ContactName,
		Email:            s.Email,
		Phone:            s.Phone,
		Address:          s.Address,
		TaxID:            s.TaxID,
		PaymentTermsDays: s.PaymentTermsDays,
		Status:           s.Status,
		Rating:           s.Rating,
		Notes:            s.Notes,
	}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	return m
}

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate.
type PurchaseOrderModel struct {
	TenantAggregateModel
	PONumber             string                         `gorm:"column:po_number;type:varchar(30);not null"`
	SupplierID           uuid.UUID                      `gorm:"type:uuid;not null;index"`
	SupplierName         string                         `gorm:"type:varchar(200);not null"`
	OrderDate            time.Time                      `gorm:"type:date;not null"`
	ExpectedDeliveryDate *time.Time                     `gorm:"type:date"`
	Status               purchasing.PurchaseOrderStatus `gorm:"type:varchar(30);not null;default:'draft';index"`
	TaxRate              decimal.Decimal                `gorm:"type:decimal(5,2);not null;default:0"`
	ShippingCost         decimal.Decimal                `gorm:"type:decimal(18,2);not null;default:0"`
	Subtotal             decimal.Decimal                `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount            decimal.Decimal                `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount          decimal.Decimal                `gorm:"type:decimal(18,2);not null;default:0"`
	ApprovedBy           *uuid.UUID                     `gorm:"type:uuid"`
	ApprovalDate         *time.Time
	RejectionReason      string `gorm:"type:text"`
	Notes                string `gorm:"type:text"`
	SubmittedAt          *time.Time
	ReceivedAt           *time.Time
	CancelledAt          *time.Time
	Items                []PurchaseOrderItemModel `gorm:"foreignKey:PurchaseOrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder.
func (m *PurchaseOrderModel) ToDomain() *purchasing.PurchaseOrder {
	po := &purchasing.PurchaseOrder{
		TenantAggregateRoot:  m.ToTenantAggregateRoot(),
		PONumber:             m.PONumber,
		SupplierID:           m.SupplierID,
		SupplierName:         m.SupplierName,
		OrderDate:            m.OrderDate,
		ExpectedDeliveryDate: m.ExpectedDeliveryDate,
		Status:               m.Status,
		TaxRate:              m.TaxRate,
		ShippingCost:         m.ShippingCost,
		Subtotal:             m.Subtotal,
		TaxAmount:            m.TaxAmount,
		TotalAmount:          m.TotalAmount,
		ApprovedBy:           m.ApprovedBy,
		ApprovalDate:         m.ApprovalDate,
		RejectionReason:      m.RejectionReason,
		Notes:                m.Notes,
		SubmittedAt:          m.SubmittedAt,
		ReceivedAt:           m.ReceivedAt,
		CancelledAt:          m.CancelledAt,
		Items:                make([]purchasing.PurchaseOrderItem, len(m.Items)),
	}
	for i := range m.Items {
		po.Items[i] = m.Items[i].ToDomain()
	}
	return po
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder.
func PurchaseOrderModelFromDomain(po *purchasing.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		PONumber:             po.PONumber,
		SupplierID:           po.SupplierID,
		SupplierName:         po.SupplierName,
		OrderDate:            po.OrderDate,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		Status:               po.Status,
		TaxRate:              po.TaxRate,
		ShippingCost:         po.ShippingCost,
		Subtotal:             po.Subtotal,
		TaxAmount:            po.TaxAmount,
		TotalAmount:          po.TotalAmount,
		ApprovedBy:           po.ApprovedBy,
		ApprovalDate:         po.ApprovalDate,
		RejectionReason:      po.RejectionReason,
		Notes:                po.Notes,
		SubmittedAt:          po.SubmittedAt,
		ReceivedAt:           po.ReceivedAt,
		CancelledAt:          po.CancelledAt,
		Items:                make([]PurchaseOrderItemModel, len(po.Items)),
	}
	m.FromDomainTenantAggregateRoot(po.TenantAggregateRoot)
	for i := range po.Items {
		m.Items[i] = *PurchaseOrderItemModelFromDomain(&po.Items[i])
	}
	return m
}

// PurchaseOrderItemModel is the persistence model for purchase order line items.
type PurchaseOrderItemModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	Description      string          `gorm:"type:text"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SortOrder        int             `gorm:"not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// ToDomain converts the persistence model to a domain PurchaseOrderItem.
func (m *PurchaseOrderItemModel) ToDomain() purchasing.PurchaseOrderItem {
	return purchasing.PurchaseOrderItem{
		ID:               m.ID,
		PurchaseOrderID:  m.PurchaseOrderID,
		ProductName:      m.ProductName,
		Description:      m.Description,
		Quantity:         m.Quantity,
		UnitPrice:        m.UnitPrice,
		Total:            m.Total,
		ReceivedQuantity: m.ReceivedQuantity,
		SortOrder:        m.SortOrder,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// PurchaseOrderItemModelFromDomain creates a new persistence model from a domain PurchaseOrderItem.
func PurchaseOrderItemModelFromDomain(item *purchasing.PurchaseOrderItem) *PurchaseOrderItemModel {
	return &PurchaseOrderItemModel{
		ID:               item.ID,
		PurchaseOrderID:  item.PurchaseOrderID,
		ProductName:      item.ProductName,
		Description:      item.Description,
		Quantity:         item.Quantity,
		UnitPrice:        item.UnitPrice,
		Total:            item.Total,
		ReceivedQuantity: item.ReceivedQuantity,
		SortOrder:        item.SortOrder,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

// ProcurementRequestModel is the persistence model for procurement requests.
type ProcurementRequestModel struct {
	TenantAggregateModel
	RequestNumber   string                     `gorm:"type:varchar(30);not null"`
	Title           string                     `gorm:"type:varchar(200);not null"`
	Description     string                     `gorm:"type:text"`
	DepartmentID    *uuid.UUID                 `gorm:"type:uuid;index"`
	RequestedBy     uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Priority        purchasing.RequestPriority `gorm:"type:varchar(20);not null;default:'medium'"`
	EstimatedCost   decimal.Decimal            `gorm:"type:decimal(18,2);not null;default:0"`
	NeededBy        *time.Time                 `gorm:"type:date"`
	Status          purchasing.RequestStatus   `gorm:"type:varchar(20);not null;default:'draft';index"`
	ApprovedBy      *uuid.UUID                 `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason string     `gorm:"type:text"`
	PurchaseOrderID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ProcurementRequestModel) TableName() string {
	return "procurement_requests"
}

// ToDomain converts the persistence model to a domain ProcurementRequest.
func (m *ProcurementRequestModel) ToDomain() *purchasing.ProcurementRequest {
	return &purchasing.ProcurementRequest{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		RequestNumber:       m.RequestNumber,
		Title:               m.Title,
		Description:         m.Description,
		DepartmentID:        m.DepartmentID,
		RequestedBy:         m.RequestedBy,
		Priority:            m.Priority,
		EstimatedCost:       m.EstimatedCost,
		NeededBy:            m.NeededBy,
		Status:              m.Status,
		ApprovedBy:          m.ApprovedBy,
		ApprovedAt:          m.ApprovedAt,
		RejectionReason:     m.RejectionReason,
		PurchaseOrderID:     m.PurchaseOrderID,
	}
}

// ProcurementRequestModelFromDomain creates a new persistence model from a domain ProcurementRequest.
func ProcurementRequestModelFromDomain(r *purchasing.ProcurementRequest) *ProcurementRequestModel {
	m := &ProcurementRequestModel{
		RequestNumber:   r.RequestNumber,
		Title:           r.Title,
		Description:     r.Description,
		DepartmentID:    r.DepartmentID,
		RequestedBy:     r.RequestedBy,
		Priority:        r.Priority,
		EstimatedCost:   r.EstimatedCost,
		NeededBy:        r.NeededBy,
		Status:          r.Status,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
		PurchaseOrderID: r.PurchaseOrderID,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}

// SupplierPerformanceModel is the append-only record of a supplier evaluation.
type SupplierPerformanceModel struct {
	TenantRecordModel
	SupplierID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	PeriodStart        time.Time        `gorm:"type:date;not null"`
	PeriodEnd          time.Time        `gorm:"type:date;not null"`
	QualityScore       decimal.Decimal  `gorm:"type:decimal(4,2);not null"`
	DeliveryScore      decimal.Decimal  `gorm:"type:decimal(4,2);not null"`
	PriceScore         decimal.Decimal  `gorm:"type:decimal(4,2);not null"`
	CommunicationScore decimal.Decimal  `gorm:"type:decimal(4,2);not null"`
	OverallScore       decimal.Decimal  `gorm:"type:decimal(4,2);not null"`
	OnTimeDeliveryRate *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Comments           string           `gorm:"type:text"`
	EvaluatedBy        uuid.UUID        `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (SupplierPerformanceModel) TableName() string {
	return "supplier_performances"
}

// ToDomain converts the persistence model to a domain SupplierPerformance.
func (m *SupplierPerformanceModel) ToDomain() *purchasing.SupplierPerformance {
	return &purchasing.SupplierPerformance{
		TenantRecord: m.ToTenantRecord(),
		SupplierID:   m.SupplierID,
		PeriodStart:  m.PeriodStart,
		PeriodEnd:    m.PeriodEnd,
		Scores: purchasing.Scores{
			Quality:       m.QualityScore,
			Delivery:      m.DeliveryScore,
			Price:         m.PriceScore,
			Communication: m.CommunicationScore,
		},
		OverallScore:       m.OverallScore,
		OnTimeDeliveryRate: m.OnTimeDeliveryRate,
		Comments:           m.Comments,
		EvaluatedBy:        m.EvaluatedBy,
	}
}

// SupplierPerformanceModelFromDomain creates a new persistence model from a domain SupplierPerformance.
func SupplierPerformanceModelFromDomain(p *purchasing.SupplierPerformance) *SupplierPerformanceModel {
	m := &SupplierPerformanceModel{
		SupplierID:         p.SupplierID,
		PeriodStart:        p.PeriodStart,
		PeriodEnd:          p.PeriodEnd,
		QualityScore:       p.Quality,
		DeliveryScore:      p.Delivery,
		PriceScore:         p.Price,
		CommunicationScore: p.Communication,
		OverallScore:       p.OverallScore,
		OnTimeDeliveryRate: p.OnTimeDeliveryRate,
		Comments:           p.Comments,
		EvaluatedBy:        p.EvaluatedBy,
	}
	m.FromDomainTenantRecord(p.TenantRecord)
	return m
}
