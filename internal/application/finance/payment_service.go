package finance

import (
	"context"
	"time"

	"github.com/erp/platform/internal/domain/finance"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService records payments against invoices
type PaymentService struct {
	txScope     TransactionScope
	paymentRepo finance.PaymentRepository
	publisher   shared.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(txScope TransactionScope, paymentRepo finance.PaymentRepository, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		txScope:     txScope,
		paymentRepo: paymentRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Record creates a payment and applies it to its invoice in one transaction.
// The invoice row stays locked until commit so concurrent payments serialize.
func (s *PaymentService) Record(ctx context.Context, tenantID, actorID uuid.UUID, req RecordPaymentRequest) (*RecordPaymentResult, error) {
	paymentDate := req.PaymentDate.Time
	if paymentDate.IsZero() {
		paymentDate = s.now()
	}

	var (
		payment *finance.Payment
		invoice *finance.Invoice
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.Invoices().FindByIDForUpdate(ctx, tenantID, req.InvoiceID)
		if err != nil {
			return err
		}
		number, err := repos.Payments().GeneratePaymentNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		p, err := finance.NewPayment(tenantID, number, inv.ID, req.Amount, paymentDate, finance.PaymentMethod(req.Method))
		if err != nil {
			return err
		}
		p.SetReference(req.Reference, req.Notes)
		p.SetCreatedBy(actorID)
		if err := p.ApplyTo(inv); err != nil {
			return err
		}
		if err := repos.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		if err := repos.Payments().Save(ctx, p); err != nil {
			return err
		}
		payment, invoice = p, inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("invoice_status", string(invoice.Status)))
	publishEvents(ctx, s.publisher, s.logger, payment)
	publishEvents(ctx, s.publisher, s.logger, invoice)

	return &RecordPaymentResult{
		Payment: ToPaymentResponse(payment),
		Invoice: ToInvoiceResponse(invoice, s.now()),
	}, nil
}

// GetByID retrieves a payment
func (s *PaymentService) GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// List retrieves payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, tenantID uuid.UUID, f PaymentListFilter) ([]PaymentResponse, int64, error) {
	filter, err := f.ToFilter()
	if err != nil {
		return nil, 0, err
	}
	payments, err := s.paymentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out, total, nil
}
