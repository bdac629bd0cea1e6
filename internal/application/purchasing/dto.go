package purchasing

import (
	"time"

	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Suppliers
// ---------------------------------------------------------------------------

// SupplierRequest carries the editable supplier fields
type SupplierRequest struct {
	Name             string              `json:"name" binding:"required,max=200"`
	ContactName      string              `json:"contact_name" binding:"max=200"`
	Email            string              `json:"email" binding:"omitempty,email"`
	Phone            string              `json:"phone" binding:"max=50"`
	Address          valueobject.Address `json:"address"`
	TaxID            string              `json:"tax_id" binding:"max=50"`
	PaymentTermsDays int                 `json:"payment_terms_days" binding:"min=0,max=365"`
	Notes            string              `json:"notes"`
}

func (r SupplierRequest) details() purchasing.SupplierDetails {
	return purchasing.SupplierDetails{
		Name:             r.Name,
		ContactName:      r.ContactName,
		Email:            r.Email,
		Phone:            r.Phone,
		Address:          r.Address,
		TaxID:            r.TaxID,
		PaymentTermsDays: r.PaymentTermsDays,
		Notes:            r.Notes,
	}
}

// CreateSupplierRequest adds the immutable supplier code
type CreateSupplierRequest struct {
	Code string `json:"code" binding:"required,max=50"`
	SupplierRequest
}

// BlacklistSupplierRequest blocks a supplier
type BlacklistSupplierRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// SupplierListFilter holds the supplier list query parameters
type SupplierListFilter struct {
	shared.PageParams
	Status    string `form:"status" binding:"omitempty,oneof=active inactive blacklisted"`
	RatingMin string `form:"rating_min" binding:"omitempty,numeric"`
}

// ToFilter converts query parameters to a repository filter. Malformed
// numeric bounds are reported as validation errors.
func (f SupplierListFilter) ToFilter() (shared.Filter, error) {
	filter := f.PageParams.Filter()
	errs := &shared.ValidationError{}
	filter.Set("status", f.Status)
	filter.SetDecimal(errs, "rating_min", f.RatingMin)
	return filter, errs.OrNil()
}

// SupplierResponse is the wire shape of a supplier
type SupplierResponse struct {
	ID               uuid.UUID           `json:"id"`
	Code             string              `json:"code"`
	Name             string              `json:"name"`
	ContactName      string              `json:"contact_name,omitempty"`
	Email            string              `json:"email,omitempty"`
	Phone            string              `json:"phone,omitempty"`
	Address          valueobject.Address `json:"address"`
	TaxID            string              `json:"tax_id,omitempty"`
	PaymentTermsDays int                 `json:"payment_terms_days"`
	Status           string              `json:"status"`
	Rating           *decimal.Decimal    `json:"rating"`
	Notes            string              `json:"notes,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// ToSupplierResponse maps a supplier to its response
func ToSupplierResponse(s *purchasing.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:               s.ID,
		Code:             s.Code,
		Name:             s.Name,
		ContactName:      s.ContactName,
		Email:            s.Email,
		Phone:            s.Phone,
		Address:          s.Address,
		TaxID:            s.TaxID,
		PaymentTermsDays: s.PaymentTermsDays,
		Status:           string(s.Status),
		Rating:           s.Rating,
		Notes:            s.Notes,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Purchase orders
// ---------------------------------------------------------------------------

// POItemInput describes one ordered line
type POItemInput struct {
	ProductName string          `json:"product_name" binding:"required,max=200"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required,decimal_gt0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"decimal_gte0"`
}

func (i POItemInput) input() purchasing.ItemInput {
	return purchasing.ItemInput{
		ProductName: i.ProductName,
		Description: i.Description,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
	}
}

// POHeaderInput are the editable header fields of a draft order
type POHeaderInput struct {
	ExpectedDeliveryDate *valueobject.Date `json:"expected_delivery_date"`
	TaxRate              decimal.Decimal   `json:"tax_rate" binding:"decimal_gte0"`
	ShippingCost         decimal.Decimal   `json:"shipping_cost" binding:"decimal_gte0"`
	Notes                string            `json:"notes"`
}

func (h POHeaderInput) expectedDelivery() *time.Time {
	if h.ExpectedDeliveryDate == nil || h.ExpectedDeliveryDate.IsZero() {
		return nil
	}
	t := h.ExpectedDeliveryDate.Time
	return &t
}

// CreatePurchaseOrderRequest creates a draft order
type CreatePurchaseOrderRequest struct {
	SupplierID uuid.UUID        `json:"supplier_id" binding:"required"`
	OrderDate  valueobject.Date `json:"order_date"`
	POHeaderInput
	Items []POItemInput `json:"items" binding:"dive"`
}

// UpdatePurchaseOrderRequest replaces the header of a draft order
type UpdatePurchaseOrderRequest struct {
	POHeaderInput
}

// RejectRequest declines a pending document
type RejectRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ReceiptLineInput is one received quantity
type ReceiptLineInput struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required,decimal_gt0"`
}

// ReceiveGoodsRequest records a delivery
type ReceiveGoodsRequest struct {
	Items []ReceiptLineInput `json:"items" binding:"required,min=1,dive"`
}

func (r ReceiveGoodsRequest) lines() []purchasing.ReceiptLine {
	lines := make([]purchasing.ReceiptLine, len(r.Items))
	for i, in := range r.Items {
		lines[i] = purchasing.ReceiptLine{ItemID: in.ItemID, Quantity: in.Quantity}
	}
	return lines
}

// PurchaseOrderListFilter holds the purchase order list query parameters
type PurchaseOrderListFilter struct {
	shared.PageParams
	Status          string     `form:"status" binding:"omitempty,oneof=draft pending_approval approved rejected partially_received received cancelled"`
	SupplierID      string     `form:"supplier_id" binding:"omitempty,uuid"`
	PONumber        string     `form:"po_number"`
	TotalMin        string     `form:"total_min" binding:"omitempty,numeric"`
	TotalMax        string     `form:"total_max" binding:"omitempty,numeric"`
	OrderDateAfter  *time.Time `form:"order_date_after" time_format:"2006-01-02"`
	OrderDateBefore *time.Time `form:"order_date_before" time_format:"2006-01-02"`
	ApprovedBy      string     `form:"approved_by" binding:"omitempty,uuid"`
}

// ToFilter converts query parameters to a repository filter. Malformed
// numeric bounds are reported as validation errors.
func (f PurchaseOrderListFilter) ToFilter() (shared.Filter, error) {
	filter := f.PageParams.Filter()
	errs := &shared.ValidationError{}
	filter.Set("status", f.Status)
	filter.Set("supplier_id", f.SupplierID)
	filter.Set("po_number", f.PONumber)
	filter.SetDecimal(errs, "total_min", f.TotalMin)
	filter.SetDecimal(errs, "total_max", f.TotalMax)
	filter.Set("order_date_after", f.OrderDateAfter)
	filter.Set("order_date_before", f.OrderDateBefore)
	filter.Set("approved_by", f.ApprovedBy)
	return filter, errs.OrNil()
}

// POItemResponse is the wire shape of an order line
type POItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductName       string          `json:"product_name"`
	Description       string          `json:"description,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Total             decimal.Decimal `json:"total"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
}

// PurchaseOrderResponse is the wire shape of a purchase order
type PurchaseOrderResponse struct {
	ID                   uuid.UUID         `json:"id"`
	PONumber             string            `json:"po_number"`
	SupplierID           uuid.UUID         `json:"supplier_id"`
	SupplierName         string            `json:"supplier_name"`
	OrderDate            valueobject.Date  `json:"order_date"`
	ExpectedDeliveryDate *valueobject.Date `json:"expected_delivery_date,omitempty"`
	Status               string            `json:"status"`
	TaxRate              decimal.Decimal   `json:"tax_rate"`
	ShippingCost         decimal.Decimal   `json:"shipping_cost"`
	Subtotal             decimal.Decimal   `json:"subtotal"`
	TaxAmount            decimal.Decimal   `json:"tax_amount"`
	TotalAmount          decimal.Decimal   `json:"total_amount"`
	ReceiptProgress      decimal.Decimal   `json:"receipt_progress"`
	ApprovedBy           *uuid.UUID        `json:"approved_by,omitempty"`
	ApprovalDate         *time.Time        `json:"approval_date,omitempty"`
	RejectionReason      string            `json:"rejection_reason,omitempty"`
	Notes                string            `json:"notes,omitempty"`
	SubmittedAt          *time.Time        `json:"submitted_at,omitempty"`
	ReceivedAt           *time.Time        `json:"received_at,omitempty"`
	Items                []POItemResponse  `json:"items"`
	CreatedBy            *uuid.UUID        `json:"created_by,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// ToPurchaseOrderResponse maps an order to its response
func ToPurchaseOrderResponse(po *purchasing.PurchaseOrder) PurchaseOrderResponse {
	items := make([]POItemResponse, len(po.Items))
	for i := range po.Items {
		it := &po.Items[i]
		items[i] = POItemResponse{
			ID:                it.ID,
			ProductName:       it.ProductName,
			Description:       it.Description,
			Quantity:          it.Quantity,
			UnitPrice:         it.UnitPrice,
			Total:             it.Total,
			ReceivedQuantity:  it.ReceivedQuantity,
			RemainingQuantity: it.RemainingQuantity(),
		}
	}
	return PurchaseOrderResponse{
		ID:                   po.ID,
		PONumber:             po.PONumber,
		SupplierID:           po.SupplierID,
		SupplierName:         po.SupplierName,
		OrderDate:            valueobject.NewDate(po.OrderDate),
		ExpectedDeliveryDate: valueobject.DatePtr(po.ExpectedDeliveryDate),
		Status:               string(po.Status),
		TaxRate:              po.TaxRate,
		ShippingCost:         po.ShippingCost,
		Subtotal:             po.Subtotal,
		TaxAmount:            po.TaxAmount,
		TotalAmount:          po.TotalAmount,
		ReceiptProgress:      po.ReceiptProgress(),
		ApprovedBy:           po.ApprovedBy,
		ApprovalDate:         po.ApprovalDate,
		RejectionReason:      po.RejectionReason,
		Notes:                po.Notes,
		SubmittedAt:          po.SubmittedAt,
		ReceivedAt:           po.ReceivedAt,
		Items:                items,
		CreatedBy:            po.CreatedBy,
		CreatedAt:            po.CreatedAt,
		UpdatedAt:            po.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Procurement requests
// ---------------------------------------------------------------------------

// ProcurementRequestInput carries the editable request fields
type ProcurementRequestInput struct {
	Title         string            `json:"title" binding:"required,max=200"`
	Description   string            `json:"description"`
	DepartmentID  *uuid.UUID        `json:"department_id"`
	Priority      string            `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	EstimatedCost decimal.Decimal   `json:"estimated_cost"`
	NeededBy      *valueobject.Date `json:"needed_by"`
}

func (r ProcurementRequestInput) details() purchasing.RequestDetails {
	d := purchasing.RequestDetails{
		Title:         r.Title,
		Description:   r.Description,
		DepartmentID:  r.DepartmentID,
		Priority:      purchasing.RequestPriority(r.Priority),
		EstimatedCost: r.EstimatedCost,
	}
	if r.NeededBy != nil && !r.NeededBy.IsZero() {
		t := r.NeededBy.Time
		d.NeededBy = &t
	}
	return d
}

// ConvertRequestInput names the supplier and lines of the purchase order created from a request
type ConvertRequestInput struct {
	SupplierID uuid.UUID `json:"supplier_id" binding:"required"`
	POHeaderInput
	Items []POItemInput `json:"items" binding:"required,min=1,dive"`
}

// ProcurementRequestListFilter holds the request list query parameters
type ProcurementRequestListFilter struct {
	shared.PageParams
	Status         string     `form:"status" binding:"omitempty,oneof=draft submitted approved rejected converted cancelled"`
	Priority       string     `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DepartmentID   string     `form:"department_id" binding:"omitempty,uuid"`
	RequestedBy    string     `form:"requested_by" binding:"omitempty,uuid"`
	NeededByBefore *time.Time `form:"needed_by_before" time_format:"2006-01-02"`
	CostMin        string     `form:"cost_min" binding:"omitempty,numeric"`
	CostMax        string     `form:"cost_max" binding:"omitempty,numeric"`
}

// ToFilter converts query parameters to a repository filter. Malformed
// numeric bounds are reported as validation errors.
func (f ProcurementRequestListFilter) ToFilter() (shared.Filter, error) {
	filter := f.PageParams.Filter()
	errs := &shared.ValidationError{}
	filter.Set("status", f.Status)
	filter.Set("priority", f.Priority)
	filter.Set("department_id", f.DepartmentID)
	filter.Set("requested_by", f.RequestedBy)
	filter.Set("needed_by_before", f.NeededByBefore)
	filter.SetDecimal(errs, "cost_min", f.CostMin)
	filter.SetDecimal(errs, "cost_max", f.CostMax)
	return filter, errs.OrNil()
}

// ProcurementRequestResponse is the wire shape of a procurement request
type ProcurementRequestResponse struct {
	ID              uuid.UUID         `json:"id"`
	RequestNumber   string            `json:"request_number"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	DepartmentID    *uuid.UUID        `json:"department_id,omitempty"`
	RequestedBy     uuid.UUID         `json:"requested_by"`
	Priority        string            `json:"priority"`
	EstimatedCost   decimal.Decimal   `json:"estimated_cost"`
	NeededBy        *valueobject.Date `json:"needed_by,omitempty"`
	Status          string            `json:"status"`
	ApprovedBy      *uuid.UUID        `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time        `json:"approved_at,omitempty"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	PurchaseOrderID *uuid.UUID        `json:"purchase_order_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// ToProcurementRequestResponse maps a request to its response
func ToProcurementRequestResponse(r *purchasing.ProcurementRequest) ProcurementRequestResponse {
	return ProcurementRequestResponse{
		ID:              r.ID,
		RequestNumber:   r.RequestNumber,
		Title:           r.Title,
		Description:     r.Description,
		DepartmentID:    r.DepartmentID,
		RequestedBy:     r.RequestedBy,
		Priority:        string(r.Priority),
		EstimatedCost:   r.EstimatedCost,
		NeededBy:        valueobject.DatePtr(r.NeededBy),
		Status:          string(r.Status),
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
		PurchaseOrderID: r.PurchaseOrderID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ConvertResult returns both sides of a conversion
type ConvertResult struct {
	Request       ProcurementRequestResponse `json:"request"`
	PurchaseOrder PurchaseOrderResponse      `json:"purchase_order"`
}

// ---------------------------------------------------------------------------
// Supplier performance
// ---------------------------------------------------------------------------

// EvaluateSupplierRequest records a performance evaluation
type EvaluateSupplierRequest struct {
	PeriodStart        valueobject.Date `json:"period_start" binding:"required"`
	PeriodEnd          valueobject.Date `json:"period_end" binding:"required"`
	QualityScore       decimal.Decimal  `json:"quality_score"`
	DeliveryScore      decimal.Decimal  `json:"delivery_score"`
	PriceScore         decimal.Decimal  `json:"price_score"`
	CommunicationScore decimal.Decimal  `json:"communication_score"`
	OnTimeDeliveryRate *decimal.Decimal `json:"on_time_delivery_rate"`
	Comments           string           `json:"comments"`
}

func (r EvaluateSupplierRequest) scores() purchasing.Scores {
	return purchasing.Scores{
		Quality:       r.QualityScore,
		Delivery:      r.DeliveryScore,
		Price:         r.PriceScore,
		Communication: r.CommunicationScore,
	}
}

// PerformanceResponse is the wire shape of an evaluation
type PerformanceResponse struct {
	ID                 uuid.UUID        `json:"id"`
	SupplierID         uuid.UUID        `json:"supplier_id"`
	PeriodStart        valueobject.Date `json:"period_start"`
	PeriodEnd          valueobject.Date `json:"period_end"`
	QualityScore       decimal.Decimal  `json:"quality_score"`
	DeliveryScore      decimal.Decimal  `json:"delivery_score"`
	PriceScore         decimal.Decimal  `json:"price_score"`
	CommunicationScore decimal.Decimal  `json:"communication_score"`
	OverallScore       decimal.Decimal  `json:"overall_score"`
	Rating             string           `json:"rating"`
	OnTimeDeliveryRate *decimal.Decimal `json:"on_time_delivery_rate,omitempty"`
	Comments           string           `json:"comments,omitempty"`
	EvaluatedBy        uuid.UUID        `json:"evaluated_by"`
	CreatedAt          time.Time        `json:"created_at"`
}

// ToPerformanceResponse maps an evaluation to its response
func ToPerformanceResponse(p *purchasing.SupplierPerformance) PerformanceResponse {
	return PerformanceResponse{
		ID:                 p.ID,
		SupplierID:         p.SupplierID,
		PeriodStart:        valueobject.NewDate(p.PeriodStart),
		PeriodEnd:          valueobject.NewDate(p.PeriodEnd),
		QualityScore:       p.Quality,
		DeliveryScore:      p.Delivery,
		PriceScore:         p.Price,
		CommunicationScore: p.Communication,
		OverallScore:       p.OverallScore,
		Rating:             string(p.Rating()),
		OnTimeDeliveryRate: p.OnTimeDeliveryRate,
		Comments:           p.Comments,
		EvaluatedBy:        p.EvaluatedBy,
		CreatedAt:          p.CreatedAt,
	}
}

// PerformanceSummaryResponse aggregates all evaluations of a supplier
type PerformanceSummaryResponse struct {
	SupplierID           uuid.UUID            `json:"supplier_id"`
	EvaluationCount      int64                `json:"evaluation_count"`
	AverageQuality       decimal.Decimal      `json:"average_quality"`
	AverageDelivery      decimal.Decimal      `json:"average_delivery"`
	AveragePrice         decimal.Decimal      `json:"average_price"`
	AverageCommunication decimal.Decimal      `json:"average_communication"`
	AverageOverall       decimal.Decimal      `json:"average_overall"`
	Rating               string               `json:"rating"`
	Latest               *PerformanceResponse `json:"latest,omitempty"`
}

// ToPerformanceSummaryResponse maps a summary to its response
func ToPerformanceSummaryResponse(s *purchasing.PerformanceSummary) PerformanceSummaryResponse {
	resp := PerformanceSummaryResponse{
		SupplierID:           s.SupplierID,
		EvaluationCount:      s.EvaluationCount,
		AverageQuality:       s.AverageQuality,
		AverageDelivery:      s.AverageDelivery,
		AveragePrice:         s.AveragePrice,
		AverageCommunication: s.AverageCommunication,
		AverageOverall:       s.AverageOverall,
		Rating:               string(s.Rating()),
	}
	if s.Latest != nil {
		latest := ToPerformanceResponse(s.Latest)
		resp.Latest = &latest
	}
	return resp
}
