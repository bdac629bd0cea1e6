package hr

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

// PolicyStatus represents the publication state of a policy
type PolicyStatus string

const (
	PolicyStatusDraft     PolicyStatus = "draft"
	PolicyStatusPublished PolicyStatus = "published"
	PolicyStatusArchived  PolicyStatus = "archived"
)

// String returns the string representation
func (s PolicyStatus) String() string {
	return string(s)
}

// Policy is a company document employees must acknowledge
type Policy struct {
	shared.TenantAggregateRoot
	Title         string
	Category      string
	Content       string
	Revision      int
	EffectiveDate *time.Time
	Status        PolicyStatus
	PublishedAt   *time.Time
}

// NewPolicy creates an unpublished draft policy
func NewPolicy(tenantID uuid.UUID, title, category, content string) (*Policy, error) {
	if err := validatePolicy(title, content); err != nil {
		return nil, err
	}
	return &Policy{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               strings.TrimSpace(title),
		Category:            strings.TrimSpace(category),
		Content:             content,
		Status:              PolicyStatusDraft,
	}, nil
}

// Revise changes the text. Revising a published policy returns it to draft
// under the next revision so employees acknowledge the new text.
func (p *Policy) Revise(title, category, content string, effectiveDate *time.Time) error {
	if p.Status == PolicyStatusArchived {
		return shared.InvalidTransition("revise policy", p.Status)
	}
	if err := validatePolicy(title, content); err != nil {
		return err
	}
	if p.Status == PolicyStatusPublished {
		p.Status = PolicyStatusDraft
	}
	p.Title = strings.TrimSpace(title)
	p.Category = strings.TrimSpace(category)
	p.Content = content
	p.EffectiveDate = effectiveDate
	p.touch()
	return nil
}

// Publish makes the current revision available for acknowledgment
func (p *Policy) Publish() error {
	if p.Status != PolicyStatusDraft {
		return shared.InvalidTransition("publish policy", p.Status)
	}
	now := time.Now()
	p.Revision++
	p.Status = PolicyStatusPublished
	p.PublishedAt = &now
	if p.EffectiveDate == nil {
		today := truncateDay(now)
		p.EffectiveDate = &today
	}
	p.touch()
	return nil
}

// Archive retires the policy
func (p *Policy) Archive() error {
	if p.Status == PolicyStatusArchived {
		return shared.InvalidTransition("archive policy", p.Status)
	}
	p.Status = PolicyStatusArchived
	p.touch()
	return nil
}

// Acknowledge records that an employee read the current published revision
func (p *Policy) Acknowledge(employee *Employee, ipAddress string) (*PolicyAcknowledgment, error) {
	if p.Status != PolicyStatusPublished {
		return nil, shared.InvalidTransition("acknowledge policy", p.Status)
	}
	if employee.TenantID != p.TenantID {
		return nil, shared.ErrNotFound
	}
	if employee.IsTerminated() {
		return nil, shared.NewDomainError("EMPLOYEE_TERMINATED", "Terminated employees cannot acknowledge policies")
	}
	return &PolicyAcknowledgment{
		TenantRecord:   shared.NewTenantRecord(p.TenantID),
		PolicyID:       p.ID,
		EmployeeID:     employee.ID,
		PolicyVersion:  p.Revision,
		AcknowledgedAt: time.Now(),
		IPAddress:      ipAddress,
	}, nil
}

func (p *Policy) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validatePolicy(title, content string) error {
	v := &shared.ValidationError{}
	if strings.TrimSpace(title) == "" {
		v.Add("title", "Title is required")
	}
	if strings.TrimSpace(content) == "" {
		v.Add("content", "Content is required")
	}
	return v.OrNil()
}

// PolicyAcknowledgment is an append-only record that an employee accepted a policy version
type PolicyAcknowledgment struct {
	shared.TenantRecord
	PolicyID       uuid.UUID
	EmployeeID     uuid.UUID
	PolicyVersion  int
	AcknowledgedAt time.Time
	IPAddress      string
}
