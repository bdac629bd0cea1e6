package hr

import (
	"context"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAlreadyAcknowledged is returned on a repeated acknowledgment of the same revision
var ErrAlreadyAcknowledged = shared.NewDomainError("ALREADY_ACKNOWLEDGED", "The employee already acknowledged this policy version")

// PolicyService manages company policies and their acknowledgments
type PolicyService struct {
	policyRepo   hr.PolicyRepository
	ackRepo      hr.PolicyAcknowledgmentRepository
	employeeRepo hr.EmployeeRepository
	logger       *zap.Logger
}

// NewPolicyService creates a new PolicyService
func NewPolicyService(
	policyRepo hr.PolicyRepository,
	ackRepo hr.PolicyAcknowledgmentRepository,
	employeeRepo hr.EmployeeRepository,
	logger *zap.Logger,
) *PolicyService {
	return &PolicyService{policyRepo: policyRepo, ackRepo: ackRepo, employeeRepo: employeeRepo, logger: logger}
}

// Create creates a draft policy
func (s *PolicyService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req PolicyRequest) (*PolicyResponse, error) {
	p, err := hr.NewPolicy(tenantID, req.Title, req.Category, req.Content)
	if err != nil {
		return nil, err
	}
	p.EffectiveDate = req.effectiveDate()
	p.SetCreatedBy(actorID)

	if err := s.policyRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPolicyResponse(p)
	return &resp, nil
}

// GetByID retrieves a policy with its acknowledgment count
func (s *PolicyService) GetByID(ctx context.Context, tenantID, policyID uuid.UUID) (*PolicyResponse, error) {
	p, err := s.policyRepo.FindByIDForTenant(ctx, tenantID, policyID)
	if err != nil {
		return nil, err
	}
	count, err := s.ackRepo.CountByPolicy(ctx, tenantID, p.ID)
	if err != nil {
		return nil, err
	}
	resp := ToPolicyResponse(p)
	resp.Acknowledgements = &count
	return &resp, nil
}

// List retrieves policies with filtering and pagination
func (s *PolicyService) List(ctx context.Context, tenantID uuid.UUID, f PolicyListFilter) ([]PolicyResponse, int64, error) {
	filter := f.ToFilter()
	policies, err := s.policyRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.policyRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PolicyResponse, len(policies))
	for i := range policies {
		out[i] = ToPolicyResponse(&policies[i])
	}
	return out, total, nil
}

// Update revises the policy text. A published policy returns to draft.
func (s *PolicyService) Update(ctx context.Context, tenantID, policyID uuid.UUID, req PolicyRequest) (*PolicyResponse, error) {
	return s.mutate(ctx, tenantID, policyID, func(p *hr.Policy) error {
		return p.Revise(req.Title, req.Category, req.Content, req.effectiveDate())
	})
}

// Publish publishes the next revision
func (s *PolicyService) Publish(ctx context.Context, tenantID, policyID uuid.UUID) (*PolicyResponse, error) {
	resp, err := s.mutate(ctx, tenantID, policyID, func(p *hr.Policy) error {
		return p.Publish()
	})
	if err == nil {
		s.logger.Info("Policy published", zap.String("policy_id", policyID.String()), zap.Int("version", resp.Version))
	}
	return resp, err
}

// Archive retires the policy
func (s *PolicyService) Archive(ctx context.Context, tenantID, policyID uuid.UUID) (*PolicyResponse, error) {
	return s.mutate(ctx, tenantID, policyID, func(p *hr.Policy) error {
		return p.Archive()
	})
}

// Delete archives the policy
func (s *PolicyService) Delete(ctx context.Context, tenantID, policyID uuid.UUID) error {
	_, err := s.Archive(ctx, tenantID, policyID)
	return err
}

// Acknowledge records an employee's acknowledgment of the current published revision
func (s *PolicyService) Acknowledge(ctx context.Context, tenantID, policyID uuid.UUID, req AcknowledgePolicyRequest) (*AcknowledgmentResponse, error) {
	p, err := s.policyRepo.FindByIDForTenant(ctx, tenantID, policyID)
	if err != nil {
		return nil, err
	}
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, req.EmployeeID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewValidationError("employee_id", "Employee not found")
		}
		return nil, err
	}
	ack, err := p.Acknowledge(employee, req.IPAddress)
	if err != nil {
		return nil, err
	}

	exists, err := s.ackRepo.Exists(ctx, tenantID, p.ID, employee.ID, p.Revision)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyAcknowledged
	}
	if err := s.ackRepo.Create(ctx, ack); err != nil {
		return nil, err
	}
	resp := ToAcknowledgmentResponse(ack)
	return &resp, nil
}

// Acknowledgments lists who acknowledged the policy, newest first
func (s *PolicyService) Acknowledgments(ctx context.Context, tenantID, policyID uuid.UUID, page shared.PageParams) ([]AcknowledgmentResponse, int64, error) {
	if _, err := s.policyRepo.FindByIDForTenant(ctx, tenantID, policyID); err != nil {
		return nil, 0, err
	}
	filter := page.Filter()
	acks, err := s.ackRepo.FindByPolicy(ctx, tenantID, policyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ackRepo.CountByPolicy(ctx, tenantID, policyID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]AcknowledgmentResponse, len(acks))
	for i := range acks {
		out[i] = ToAcknowledgmentResponse(&acks[i])
	}
	return out, total, nil
}

func (s *PolicyService) mutate(ctx context.Context, tenantID, policyID uuid.UUID, fn func(*hr.Policy) error) (*PolicyResponse, error) {
	p, err := s.policyRepo.FindByIDForTenant(ctx, tenantID, policyID)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.policyRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPolicyResponse(p)
	return &resp, nil
}
