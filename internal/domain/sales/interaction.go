package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

// InteractionType categorizes a client touchpoint
type InteractionType string

const (
	InteractionTypeCall        InteractionType = "call"
	InteractionTypeEmail       InteractionType = "email"
	InteractionTypeMeeting     InteractionType = "meeting"
	InteractionTypeAppointment InteractionType = "appointment"
	InteractionTypeNote        InteractionType = "note"
)

// IsValid checks if the interaction type is valid
func (t InteractionType) IsValid() bool {
	switch t {
	case InteractionTypeCall, InteractionTypeEmail, InteractionTypeMeeting, InteractionTypeAppointment, InteractionTypeNote:
		return true
	}
	return false
}

// ClientInteraction is an append-only log entry of contact with a client
type ClientInteraction struct {
	shared.TenantRecord
	ClientID        uuid.UUID
	ContactID       *uuid.UUID
	InteractionType InteractionType
	Subject         string
	Description     string
	OccurredAt      time.Time
	ScheduledAt     *time.Time
	DurationMinutes int
	Outcome         string
	FollowUpDate    *time.Time
	CreatedBy       uuid.UUID
}

// InteractionInput carries the fields of a new interaction
type InteractionInput struct {
	ContactID       *uuid.UUID
	InteractionType InteractionType
	Subject         string
	Description     string
	OccurredAt      time.Time
	ScheduledAt     *time.Time
	DurationMinutes int
	Outcome         string
	FollowUpDate    *time.Time
}

// NewClientInteraction records an interaction. The contact, when given, must belong to the client.
func NewClientInteraction(client *Client, contact *Contact, in InteractionInput, createdBy uuid.UUID) (*ClientInteraction, error) {
	v := &shared.ValidationError{}
	if !in.InteractionType.IsValid() {
		v.Add("interaction_type", "Invalid interaction type")
	}
	if strings.TrimSpace(in.Subject) == "" {
		v.Add("subject", "Subject is required")
	}
	if in.InteractionType == InteractionTypeAppointment && in.ScheduledAt == nil {
		v.Add("scheduled_at", "Appointments need a scheduled time")
	}
	if in.DurationMinutes < 0 {
		v.Add("duration_minutes", "Duration cannot be negative")
	}
	if contact != nil && contact.ClientID != client.ID {
		v.Add("contact_id", "Contact does not belong to this client")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if in.OccurredAt.IsZero() {
		in.OccurredAt = time.Now()
	}
	i := &ClientInteraction{
		TenantRecord:    shared.NewTenantRecord(client.TenantID),
		ClientID:        client.ID,
		InteractionType: in.InteractionType,
		Subject:         strings.TrimSpace(in.Subject),
		Description:     in.Description,
		OccurredAt:      in.OccurredAt,
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: in.DurationMinutes,
		Outcome:         strings.TrimSpace(in.Outcome),
		FollowUpDate:    in.FollowUpDate,
		CreatedBy:       createdBy,
	}
	if contact != nil {
		id := contact.ID
		i.ContactID = &id
	}
	return i, nil
}

// DurationDisplay renders the duration as "1h 30m"
func (i *ClientInteraction) DurationDisplay() string {
	return FormatDuration(i.DurationMinutes)
}

// FormatDuration renders minutes as "45m", "2h" or "1h 30m"
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// CanRemind returns nil when a reminder may be sent for the interaction
func (i *ClientInteraction) CanRemind(now time.Time) error {
	if i.InteractionType != InteractionTypeAppointment {
		return shared.NewDomainError("NOT_AN_APPOINTMENT", "Reminders can only be sent for appointments")
	}
	if i.ScheduledAt == nil || !i.ScheduledAt.After(now) {
		return shared.NewDomainError("APPOINTMENT_PASSED", "Reminders can only be sent for future appointments")
	}
	return nil
}

// HasFollowUp returns true when a follow-up date is set
func (i *ClientInteraction) HasFollowUp() bool {
	return i.FollowUpDate != nil
}
