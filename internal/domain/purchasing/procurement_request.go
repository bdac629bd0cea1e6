package purchasing

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestPriority ranks the urgency of a procurement request
type RequestPriority string

const (
	PriorityLow    RequestPriority = "low"
	PriorityMedium RequestPriority = "medium"
	PriorityHigh   RequestPriority = "high"
	PriorityUrgent RequestPriority = "urgent"
)

// IsValid checks if the priority is valid
func (p RequestPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// RequestStatus represents the status of a procurement request
type RequestStatus string

const (
	RequestStatusDraft     RequestStatus = "draft"
	RequestStatusSubmitted RequestStatus = "submitted"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusConverted RequestStatus = "converted"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusDraft, RequestStatusSubmitted, RequestStatusApproved,
		RequestStatusRejected, RequestStatusConverted, RequestStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s RequestStatus) String() string {
	return string(s)
}

// ProcurementRequest is an internal request to buy something.
// Approved requests are converted into draft purchase orders.
type ProcurementRequest struct {
	shared.TenantAggregateRoot
	RequestNumber   string
	Title           string
	Description     string
	DepartmentID    *uuid.UUID
	RequestedBy     uuid.UUID
	Priority        RequestPriority
	EstimatedCost   decimal.Decimal
	NeededBy        *time.Time
	Status          RequestStatus
	ApprovedBy      *uuid.UUID
	ApprovedAt      *time.Time
	RejectionReason string
	PurchaseOrderID *uuid.UUID
}

// RequestDetails carries the editable request fields
type RequestDetails struct {
	Title         string
	Description   string
	DepartmentID  *uuid.UUID
	Priority      RequestPriority
	EstimatedCost decimal.Decimal
	NeededBy      *time.Time
}

// NewProcurementRequest creates a draft request
func NewProcurementRequest(tenantID uuid.UUID, number string, requestedBy uuid.UUID, d RequestDetails) (*ProcurementRequest, error) {
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if err := validateRequest(d); err != nil {
		return nil, err
	}
	r := &ProcurementRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RequestNumber:       number,
		RequestedBy:         requestedBy,
		Status:              RequestStatusDraft,
	}
	r.SetCreatedBy(requestedBy)
	r.apply(d)
	return r, nil
}

// Update edits a draft request
func (r *ProcurementRequest) Update(d RequestDetails) error {
	if r.Status != RequestStatusDraft {
		return shared.InvalidTransition("update procurement request", r.Status)
	}
	if d.Priority == "" {
		d.Priority = r.Priority
	}
	if err := validateRequest(d); err != nil {
		return err
	}
	r.apply(d)
	r.touch()
	return nil
}

func (r *ProcurementRequest) apply(d RequestDetails) {
	r.Title = strings.TrimSpace(d.Title)
	r.Description = d.Description
	r.DepartmentID = d.DepartmentID
	r.Priority = d.Priority
	r.EstimatedCost = shared.RoundMoney(d.EstimatedCost)
	if d.NeededBy != nil {
		nb := truncateDay(*d.NeededBy)
		r.NeededBy = &nb
	} else {
		r.NeededBy = nil
	}
}

// Submit sends the request for approval
func (r *ProcurementRequest) Submit() error {
	if r.Status != RequestStatusDraft {
		return shared.InvalidTransition("submit procurement request", r.Status)
	}
	r.Status = RequestStatusSubmitted
	r.touch()
	return nil
}

// Approve accepts a submitted request
func (r *ProcurementRequest) Approve(approverID uuid.UUID) error {
	if r.Status != RequestStatusSubmitted {
		return shared.InvalidTransition("approve procurement request", r.Status)
	}
	now := time.Now()
	r.Status = RequestStatusApproved
	r.ApprovedBy = &approverID
	r.ApprovedAt = &now
	r.touch()
	return nil
}

// Reject declines a submitted request
func (r *ProcurementRequest) Reject(reason string) error {
	if r.Status != RequestStatusSubmitted {
		return shared.InvalidTransition("reject procurement request", r.Status)
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewValidationError("reason", "Rejection reason is required")
	}
	r.Status = RequestStatusRejected
	r.RejectionReason = strings.TrimSpace(reason)
	r.touch()
	return nil
}

// Cancel withdraws a request that has not been decided
func (r *ProcurementRequest) Cancel() error {
	if r.Status != RequestStatusDraft && r.Status != RequestStatusSubmitted {
		return shared.InvalidTransition("cancel procurement request", r.Status)
	}
	r.Status = RequestStatusCancelled
	r.touch()
	return nil
}

// ConvertTo links an approved request to the purchase order created from it
func (r *ProcurementRequest) ConvertTo(po *PurchaseOrder) error {
	if r.Status != RequestStatusApproved {
		return shared.InvalidTransition("convert procurement request", r.Status)
	}
	if po.TenantID != r.TenantID {
		return shared.ErrNotFound
	}
	id := po.ID
	r.PurchaseOrderID = &id
	r.Status = RequestStatusConverted
	r.touch()
	if po.Notes == "" {
		po.Notes = "Created from " + r.RequestNumber + ": " + r.Title
	}
	return nil
}

func (r *ProcurementRequest) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

func validateRequest(d RequestDetails) error {
	v := &shared.ValidationError{}
	if strings.TrimSpace(d.Title) == "" {
		v.Add("title", "Title is required")
	}
	if !d.Priority.IsValid() {
		v.Add("priority", "Invalid priority")
	}
	if d.EstimatedCost.IsNegative() {
		v.Add("estimated_cost", "Estimated cost cannot be negative")
	}
	return v.OrNil()
}
