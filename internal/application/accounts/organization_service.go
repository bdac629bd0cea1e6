package accounts

import (
	"context"

	"github.com/erp/platform/internal/domain/accounts"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

// OrganizationService reads and updates the caller's organization
type OrganizationService struct {
	orgRepo  accounts.OrganizationRepository
	userRepo accounts.UserRepository
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(orgRepo accounts.OrganizationRepository, userRepo accounts.UserRepository) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo, userRepo: userRepo}
}

// Get returns the organization with its user count
func (s *OrganizationService) Get(ctx context.Context, tenantID uuid.UUID) (*OrganizationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	count, err := s.userRepo.CountForTenant(ctx, tenantID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	resp := ToOrganizationResponse(org)
	resp.UserCount = &count
	return &resp, nil
}

// Update changes the organization profile
func (s *OrganizationService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateOrganizationRequest) (*OrganizationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := org.Update(req.Name, req.Email, req.Phone, req.Website, req.Address); err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	resp := ToOrganizationResponse(org)
	return &resp, nil
}

// EnsureActive rejects requests for a tenant whose organization is suspended
func (s *OrganizationService) EnsureActive(ctx context.Context, tenantID uuid.UUID) error {
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if !org.IsActive() {
		return shared.NewDomainError("ORGANIZATION_SUSPENDED", "Organization is suspended")
	}
	return nil
}
