package purchasing

import (
	"context"
	"time"

	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProcurementService handles internal purchase requests
type ProcurementService struct {
	txScope     TransactionScope
	requestRepo purchasing.ProcurementRequestRepository
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewProcurementService creates a new ProcurementService
func NewProcurementService(txScope TransactionScope, requestRepo purchasing.ProcurementRequestRepository, logger *zap.Logger) *ProcurementService {
	return &ProcurementService{txScope: txScope, requestRepo: requestRepo, logger: logger}
}

// SetEventPublisher sets the publisher for events of orders created by conversion
func (s *ProcurementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create creates a draft request on behalf of the caller
func (s *ProcurementService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req ProcurementRequestInput) (*ProcurementRequestResponse, error) {
	number, err := s.requestRepo.GenerateRequestNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	r, err := purchasing.NewProcurementRequest(tenantID, number, actorID, req.details())
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToProcurementRequestResponse(r)
	return &resp, nil
}

// GetByID retrieves a request
func (s *ProcurementService) GetByID(ctx context.Context, tenantID, requestID uuid.UUID) (*ProcurementRequestResponse, error) {
	r, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	resp := ToProcurementRequestResponse(r)
	return &resp, nil
}

// List retrieves requests with filtering and pagination
func (s *ProcurementService) List(ctx context.Context, tenantID uuid.UUID, f ProcurementRequestListFilter) ([]ProcurementRequestResponse, int64, error) {
	filter, err := f.ToFilter()
	if err != nil {
		return nil, 0, err
	}
	requests, err := s.requestRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requestRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProcurementRequestResponse, len(requests))
	for i := range requests {
		out[i] = ToProcurementRequestResponse(&requests[i])
	}
	return out, total, nil
}

// Update edits a draft request
func (s *ProcurementService) Update(ctx context.Context, tenantID, requestID uuid.UUID, req ProcurementRequestInput) (*ProcurementRequestResponse, error) {
	return s.mutate(ctx, tenantID, requestID, func(r *purchasing.ProcurementRequest) error {
		return r.Update(req.details())
	})
}

// Submit sends the request for approval
func (s *ProcurementService) Submit(ctx context.Context, tenantID, requestID uuid.UUID) (*ProcurementRequestResponse, error) {
	return s.mutate(ctx, tenantID, requestID, func(r *purchasing.ProcurementRequest) error {
		return r.Submit()
	})
}

// Approve accepts a submitted request
func (s *ProcurementService) Approve(ctx context.Context, tenantID, actorID, requestID uuid.UUID) (*ProcurementRequestResponse, error) {
	return s.mutate(ctx, tenantID, requestID, func(r *purchasing.ProcurementRequest) error {
		return r.Approve(actorID)
	})
}

// Reject declines a submitted request
func (s *ProcurementService) Reject(ctx context.Context, tenantID, requestID uuid.UUID, req RejectRequest) (*ProcurementRequestResponse, error) {
	return s.mutate(ctx, tenantID, requestID, func(r *purchasing.ProcurementRequest) error {
		return r.Reject(req.Reason)
	})
}

// Cancel withdraws an undecided request
func (s *ProcurementService) Cancel(ctx context.Context, tenantID, requestID uuid.UUID) (*ProcurementRequestResponse, error) {
	return s.mutate(ctx, tenantID, requestID, func(r *purchasing.ProcurementRequest) error {
		return r.Cancel()
	})
}

// Delete cancels the request
func (s *ProcurementService) Delete(ctx context.Context, tenantID, requestID uuid.UUID) error {
	_, err := s.Cancel(ctx, tenantID, requestID)
	return err
}

// Convert creates a draft purchase order from an approved request and links both, atomically
func (s *ProcurementService) Convert(ctx context.Context, tenantID, actorID, requestID uuid.UUID, req ConvertRequestInput) (*ConvertResult, error) {
	var (
		r  *purchasing.ProcurementRequest
		po *purchasing.PurchaseOrder
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		r, err = repos.ProcurementRequests().FindByIDForTenant(ctx, tenantID, requestID)
		if err != nil {
			return err
		}
		if r.Status != purchasing.RequestStatusApproved {
			return shared.InvalidTransition("convert procurement request", r.Status)
		}
		supplier, err := findSupplier(ctx, repos.Suppliers(), tenantID, req.SupplierID)
		if err != nil {
			return err
		}
		number, err := repos.PurchaseOrders().GeneratePONumber(ctx, tenantID)
		if err != nil {
			return err
		}
		po, err = buildOrder(tenantID, actorID, number, supplier, time.Now(), req.POHeaderInput, req.Items)
		if err != nil {
			return err
		}
		if err := r.ConvertTo(po); err != nil {
			return err
		}
		if err := repos.PurchaseOrders().Save(ctx, po); err != nil {
			return err
		}
		return repos.ProcurementRequests().Save(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Procurement request converted",
		zap.String("request_number", r.RequestNumber),
		zap.String("po_number", po.PONumber))
	publishEvents(ctx, s.publisher, s.logger, po)

	return &ConvertResult{
		Request:       ToProcurementRequestResponse(r),
		PurchaseOrder: ToPurchaseOrderResponse(po),
	}, nil
}

func (s *ProcurementService) mutate(ctx context.Context, tenantID, requestID uuid.UUID, fn func(*purchasing.ProcurementRequest) error) (*ProcurementRequestResponse, error) {
	r, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	if err := fn(r); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToProcurementRequestResponse(r)
	return &resp, nil
}
