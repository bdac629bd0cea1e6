package sales

import (
	"time"

	"github.com/erp/platform/internal/application/notification"
	"github.com/erp/platform/internal/domain/sales"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientRequest carries the editable client fields
type ClientRequest struct {
	Name        string              `json:"name" binding:"max=200"`
	ClientType  string              `json:"client_type" binding:"omitempty,oneof=individual company"`
	Email       string              `json:"email" binding:"omitempty,email"`
	Phone       string              `json:"phone" binding:"max=50"`
	Website     string              `json:"website" binding:"omitempty,url"`
	Industry    string              `json:"industry" binding:"max=100"`
	Address     valueobject.Address `json:"address"`
	Status      string              `json:"status" binding:"omitempty,oneof=lead prospect active inactive"`
	AssignedTo  *uuid.UUID          `json:"assigned_to"`
	CreditLimit decimal.Decimal     `json:"credit_limit"`
	Notes       string              `json:"notes"`
	Tags        []string            `json:"tags"`
}

func (r ClientRequest) details() sales.ClientDetails {
	return sales.ClientDetails{
		Name:        r.Name,
		ClientType:  sales.ClientType(r.ClientType),
		Email:       r.Email,
		Phone:       r.Phone,
		Website:     r.Website,
		Industry:    r.Industry,
		Address:     r.Address,
		Status:      sales.ClientStatus(r.Status),
		AssignedTo:  r.AssignedTo,
		CreditLimit: r.CreditLimit,
		Notes:       r.Notes,
		Tags:        r.Tags,
	}
}

// ClientListFilter holds the client list query parameters
type ClientListFilter struct {
	shared.PageParams
	Status        string     `form:"status" binding:"omitempty,oneof=lead prospect active inactive archived"`
	ClientType    string     `form:"client_type" binding:"omitempty,oneof=individual company"`
	Industry      string     `form:"industry"`
	AssignedTo    string     `form:"assigned_to" binding:"omitempty,uuid"`
	CreatedAfter  *time.Time `form:"created_after" time_format:"2006-01-02"`
	CreatedBefore *time.Time `form:"created_before" time_format:"2006-01-02"`
	HasEmail      *bool      `form:"has_email"`
}

// ToFilter converts query parameters to a repository filter
func (f ClientListFilter) ToFilter() shared.Filter {
	filter := f.PageParams.Filter()
	filter.Set("status", f.Status)
	filter.Set("client_type", f.ClientType)
	filter.Set("industry", f.Industry)
	filter.Set("assigned_to", f.AssignedTo)
	filter.Set("created_after", f.CreatedAfter)
	filter.Set("created_before", f.CreatedBefore)
	filter.Set("has_email", f.HasEmail)
	return filter
}

// ClientResponse is the wire shape of a client
type ClientResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	DisplayName string              `json:"display_name"`
	ClientType  string              `json:"client_type"`
	Email       string              `json:"email,omitempty"`
	Phone       string              `json:"phone,omitempty"`
	Website     string              `json:"website,omitempty"`
	Industry    string              `json:"industry,omitempty"`
	Address     valueobject.Address `json:"address"`
	Status      string              `json:"status"`
	AssignedTo  *uuid.UUID          `json:"assigned_to,omitempty"`
	CreditLimit decimal.Decimal     `json:"credit_limit"`
	Notes       string              `json:"notes,omitempty"`
	Tags        []string            `json:"tags"`
	Contacts    []ContactResponse   `json:"contacts,omitempty"`
	CreatedBy   *uuid.UUID          `json:"created_by,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToClientResponse maps a client to its response; primary may be nil
func ToClientResponse(c *sales.Client, primary *sales.Contact) ClientResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return ClientResponse{
		ID:          c.ID,
		Name:        c.Name,
		DisplayName: c.DisplayName(primary),
		ClientType:  string(c.ClientType),
		Email:       c.Email,
		Phone:       c.Phone,
		Website:     c.Website,
		Industry:    c.Industry,
		Address:     c.Address,
		Status:      string(c.Status),
		AssignedTo:  c.AssignedTo,
		CreditLimit: c.CreditLimit,
		Notes:       c.Notes,
		Tags:        tags,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ContactRequest carries the editable contact fields
type ContactRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"max=50"`
	Position  string `json:"position" binding:"max=100"`
	IsPrimary bool   `json:"is_primary"`
}

func (r ContactRequest) details() sales.ContactDetails {
	return sales.ContactDetails{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Position:  r.Position,
		IsPrimary: r.IsPrimary,
	}
}

// ContactResponse is the wire shape of a contact
type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"client_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Position  string    `json:"position,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToContactResponse maps a contact to its response
func ToContactResponse(c *sales.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		ClientID:  c.ClientID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Email:     c.Email,
		Phone:     c.Phone,
		Position:  c.Position,
		IsPrimary: c.IsPrimary,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CreateInteractionRequest logs a client interaction
type CreateInteractionRequest struct {
	ClientID        uuid.UUID         `json:"client_id" binding:"required"`
	ContactID       *uuid.UUID        `json:"contact_id"`
	InteractionType string            `json:"interaction_type" binding:"required,oneof=call email meeting appointment note"`
	Subject         string            `json:"subject" binding:"required,max=200"`
	Description     string            `json:"description"`
	OccurredAt      *time.Time        `json:"occurred_at"`
	ScheduledAt     *time.Time        `json:"scheduled_at"`
	DurationMinutes int               `json:"duration_minutes" binding:"min=0"`
	Outcome         string            `json:"outcome" binding:"max=500"`
	FollowUpDate    *valueobject.Date `json:"follow_up_date"`
}

func (r CreateInteractionRequest) input() sales.InteractionInput {
	in := sales.InteractionInput{
		ContactID:       r.ContactID,
		InteractionType: sales.InteractionType(r.InteractionType),
		Subject:         r.Subject,
		Description:     r.Description,
		ScheduledAt:     r.ScheduledAt,
		DurationMinutes: r.DurationMinutes,
		Outcome:         r.Outcome,
	}
	if r.OccurredAt != nil {
		in.OccurredAt = *r.OccurredAt
	}
	if r.FollowUpDate != nil && !r.FollowUpDate.IsZero() {
		t := r.FollowUpDate.Time
		in.FollowUpDate = &t
	}
	return in
}

// InteractionListFilter holds the interaction list query parameters
type InteractionListFilter struct {
	shared.PageParams
	ClientID        string     `form:"client_id" binding:"omitempty,uuid"`
	ContactID       string     `form:"contact_id" binding:"omitempty,uuid"`
	InteractionType string     `form:"interaction_type" binding:"omitempty,oneof=call email meeting appointment note"`
	OccurredAfter   *time.Time `form:"occurred_after" time_format:"2006-01-02"`
	OccurredBefore  *time.Time `form:"occurred_before" time_format:"2006-01-02"`
	HasFollowUp     *bool      `form:"has_follow_up"`
}

// ToFilter converts query parameters to a repository filter
func (f InteractionListFilter) ToFilter() shared.Filter {
	filter := f.PageParams.Filter()
	if f.OrderBy == "" {
		filter.OrderBy = "occurred_at"
	}
	filter.Set("client_id", f.ClientID)
	filter.Set("contact_id", f.ContactID)
	filter.Set("interaction_type", f.InteractionType)
	filter.Set("occurred_after", f.OccurredAfter)
	filter.Set("occurred_before", f.OccurredBefore)
	filter.Set("has_follow_up", f.HasFollowUp)
	return filter
}

// InteractionResponse is the wire shape of an interaction
type InteractionResponse struct {
	ID              uuid.UUID         `json:"id"`
	ClientID        uuid.UUID         `json:"client_id"`
	ContactID       *uuid.UUID        `json:"contact_id,omitempty"`
	InteractionType string            `json:"interaction_type"`
	Subject         string            `json:"subject"`
	Description     string            `json:"description,omitempty"`
	OccurredAt      time.Time         `json:"occurred_at"`
	ScheduledAt     *time.Time        `json:"scheduled_at,omitempty"`
	DurationMinutes int               `json:"duration_minutes"`
	DurationDisplay string            `json:"duration_display"`
	Outcome         string            `json:"outcome,omitempty"`
	FollowUpDate    *valueobject.Date `json:"follow_up_date,omitempty"`
	CreatedBy       uuid.UUID         `json:"created_by"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ToInteractionResponse maps an interaction to its response
func ToInteractionResponse(i *sales.ClientInteraction) InteractionResponse {
	return InteractionResponse{
		ID:              i.ID,
		ClientID:        i.ClientID,
		ContactID:       i.ContactID,
		InteractionType: string(i.InteractionType),
		Subject:         i.Subject,
		Description:     i.Description,
		OccurredAt:      i.OccurredAt,
		ScheduledAt:     i.ScheduledAt,
		DurationMinutes: i.DurationMinutes,
		DurationDisplay: i.DurationDisplay(),
		Outcome:         i.Outcome,
		FollowUpDate:    valueobject.DatePtr(i.FollowUpDate),
		CreatedBy:       i.CreatedBy,
		CreatedAt:       i.CreatedAt,
	}
}

// RemindResult reports the reminder email outcome
type RemindResult struct {
	Interaction InteractionResponse   `json:"interaction"`
	Recipient   string                `json:"recipient"`
	Email       notification.Delivery `json:"email"`
}
