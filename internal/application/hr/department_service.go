package hr

import (
	"context"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DepartmentService manages the organizational structure
type DepartmentService struct {
	departmentRepo hr.DepartmentRepository
	employeeRepo   hr.EmployeeRepository
	logger         *zap.Logger
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(departmentRepo hr.DepartmentRepository, employeeRepo hr.EmployeeRepository, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{departmentRepo: departmentRepo, employeeRepo: employeeRepo, logger: logger}
}

// Create creates an active department with a tenant-unique code
func (s *DepartmentService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req DepartmentRequest) (*DepartmentResponse, error) {
	d, err := hr.NewDepartment(tenantID, req.Name, req.Code)
	if err != nil {
		return nil, err
	}
	if err := s.checkManager(ctx, tenantID, req.ManagerID); err != nil {
		return nil, err
	}
	if err := d.Update(d.Name, d.Code, req.Description, req.ManagerID); err != nil {
		return nil, err
	}
	if err := s.checkCode(ctx, tenantID, d.Code, nil); err != nil {
		return nil, err
	}
	d.SetCreatedBy(actorID)

	if err := s.departmentRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDepartmentResponse(d, 0)
	return &resp, nil
}

// GetByID retrieves a department with its head count
func (s *DepartmentService) GetByID(ctx context.Context, tenantID, departmentID uuid.UUID) (*DepartmentResponse, error) {
	d, err := s.departmentRepo.FindByIDForTenant(ctx, tenantID, departmentID)
	if err != nil {
		return nil, err
	}
	counts, err := s.departmentRepo.CountEmployees(ctx, tenantID, []uuid.UUID{d.ID})
	if err != nil {
		return nil, err
	}
	resp := ToDepartmentResponse(d, counts[d.ID])
	return &resp, nil
}

// List retrieves departments with filtering and pagination
func (s *DepartmentService) List(ctx context.Context, tenantID uuid.UUID, f DepartmentListFilter) ([]DepartmentResponse, int64, error) {
	filter := f.ToFilter()
	departments, err := s.departmentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.departmentRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(departments))
	for i := range departments {
		ids[i] = departments[i].ID
	}
	counts := map[uuid.UUID]int64{}
	if len(ids) > 0 {
		if counts, err = s.departmentRepo.CountEmployees(ctx, tenantID, ids); err != nil {
			return nil, 0, err
		}
	}

	out := make([]DepartmentResponse, len(departments))
	for i := range departments {
		out[i] = ToDepartmentResponse(&departments[i], counts[departments[i].ID])
	}
	return out, total, nil
}

// Update replaces the department's fields
func (s *DepartmentService) Update(ctx context.Context, tenantID, departmentID uuid.UUID, req DepartmentRequest) (*DepartmentResponse, error) {
	d, err := s.departmentRepo.FindByIDForTenant(ctx, tenantID, departmentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkManager(ctx, tenantID, req.ManagerID); err != nil {
		return nil, err
	}
	if err := d.Update(req.Name, req.Code, req.Description, req.ManagerID); err != nil {
		return nil, err
	}
	if err := s.checkCode(ctx, tenantID, d.Code, &d.ID); err != nil {
		return nil, err
	}
	if err := s.departmentRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, tenantID, d.ID)
}

// Delete deactivates the department. Employees keep their assignment.
func (s *DepartmentService) Delete(ctx context.Context, tenantID, departmentID uuid.UUID) error {
	d, err := s.departmentRepo.FindByIDForTenant(ctx, tenantID, departmentID)
	if err != nil {
		return err
	}
	if err := d.Deactivate(); err != nil {
		return err
	}
	if err := s.departmentRepo.Save(ctx, d); err != nil {
		return err
	}
	s.logger.Info("Department deactivated", zap.String("department_id", d.ID.String()), zap.String("code", d.Code))
	return nil
}

func (s *DepartmentService) checkCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) error {
	exists, err := s.departmentRepo.ExistsByCode(ctx, tenantID, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewValidationError("code", "A department with this code already exists")
	}
	return nil
}

func (s *DepartmentService) checkManager(ctx context.Context, tenantID uuid.UUID, managerID *uuid.UUID) error {
	if managerID == nil {
		return nil
	}
	if _, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, *managerID); err != nil {
		if shared.IsNotFound(err) {
			return shared.NewValidationError("manager_id", "Manager not found")
		}
		return err
	}
	return nil
}
