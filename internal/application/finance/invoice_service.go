package finance

import (
	"context"
	"errors"
	"time"

	"github.com/erp/platform/internal/application/notification"
	"github.com/erp/platform/internal/domain/accounts"
	"github.com/erp/platform/internal/domain/finance"
	"github.com/erp/platform/internal/domain/sales"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrPrintingDisabled is returned by PDF when no renderer is configured
var ErrPrintingDisabled = shared.NewDomainError("PRINTING_DISABLED", "PDF rendering is not enabled")

// InvoiceService handles invoice business operations. Every state change
// reloads the invoice under a row lock inside a transaction, so it
// serializes with payments and never writes back a stale paid amount.
type InvoiceService struct {
	txScope     TransactionScope
	invoiceRepo finance.InvoiceRepository
	clientRepo  sales.ClientRepository
	orgRepo     accounts.OrganizationRepository
	notifier    notification.Notifier
	renderer    InvoiceRenderer
	storage     DocumentStorage
	linkTTL     time.Duration
	publisher   shared.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	txScope TransactionScope,
	invoiceRepo finance.InvoiceRepository,
	clientRepo sales.ClientRepository,
	orgRepo accounts.OrganizationRepository,
	notifier notification.Notifier,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		txScope:     txScope,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		orgRepo:     orgRepo,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetDocumentRendering enables PDF rendering, and PDF links when storage is non-nil
func (s *InvoiceService) SetDocumentRendering(renderer InvoiceRenderer, storage DocumentStorage, linkTTL time.Duration) {
	s.renderer = renderer
	s.storage = storage
	s.linkTTL = linkTTL
}

// Create creates a draft invoice with its items
func (s *InvoiceService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	name, email, err := s.resolveClient(ctx, tenantID, req.ClientID, req.ClientName, req.ClientEmail)
	if err != nil {
		return nil, err
	}

	number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	inv, err := finance.NewInvoice(tenantID, number, name, req.IssueDate.Time, req.DueDate.Time)
	if err != nil {
		return nil, err
	}
	if req.ClientID != nil || email != "" {
		if err := inv.SetClient(req.ClientID, name, email); err != nil {
			return nil, err
		}
	}
	if req.Currency != "" {
		if err := inv.SetCurrency(req.Currency); err != nil {
			return nil, err
		}
	}
	for _, item := range req.Items {
		if _, err := inv.AddItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}
	if err := inv.SetPricing(req.TaxRate, req.DiscountAmount); err != nil {
		return nil, err
	}
	inv.SetNotes(req.Notes, req.Terms)
	inv.SetCreatedBy(actorID)

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("Invoice created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("total", inv.TotalAmount.StringFixed(2)))
	s.publish(ctx, inv)

	resp := ToInvoiceResponse(inv, s.now())
	return &resp, nil
}

// GetByID retrieves an invoice
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv, s.now())
	return &resp, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, f InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	filter, err := f.ToFilter()
	if err != nil {
		return nil, 0, err
	}
	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToInvoiceResponses(invoices, s.now()), total, nil
}

// Update changes header fields of a draft invoice and recomputes totals
func (s *InvoiceService) Update(ctx context.Context, tenantID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *finance.Invoice) error {
		return s.applyUpdate(ctx, tenantID, inv, req)
	})
}

func (s *InvoiceService) applyUpdate(ctx context.Context, tenantID uuid.UUID, inv *finance.Invoice, req UpdateInvoiceRequest) error {
	if req.ClientID != nil || req.ClientName != nil || req.ClientEmail != nil {
		clientID := inv.ClientID
		if req.ClientID != nil {
			clientID = req.ClientID
		}
		name, email := inv.ClientName, inv.ClientEmail
		if req.ClientID != nil {
			name, email = "", ""
		}
		if req.ClientName != nil {
			name = *req.ClientName
		}
		if req.ClientEmail != nil {
			email = *req.ClientEmail
		}
		name, email, err := s.resolveClient(ctx, tenantID, clientID, name, email)
		if err != nil {
			return err
		}
		if err := inv.SetClient(clientID, name, email); err != nil {
			return err
		}
	}
	if req.IssueDate != nil || req.DueDate != nil {
		issue, due := inv.IssueDate, inv.DueDate
		if req.IssueDate != nil {
			issue = req.IssueDate.Time
		}
		if req.DueDate != nil {
			due = req.DueDate.Time
		}
		if err := inv.SetDates(issue, due); err != nil {
			return err
		}
	}
	if req.Currency != nil {
		if err := inv.SetCurrency(*req.Currency); err != nil {
			return err
		}
	}
	if req.TaxRate != nil || req.DiscountAmount != nil {
		if err := inv.SetPricing(coalesce(req.TaxRate, inv.TaxRate), coalesce(req.DiscountAmount, inv.DiscountAmount)); err != nil {
			return err
		}
	}
	if req.Notes != nil || req.Terms != nil {
		notes, terms := inv.Notes, inv.Terms
		if req.Notes != nil {
			notes = *req.Notes
		}
		if req.Terms != nil {
			terms = *req.Terms
		}
		inv.SetNotes(notes, terms)
	}
	return nil
}

// AddItem appends a line to a draft invoice
func (s *InvoiceService) AddItem(ctx context.Context, tenantID, invoiceID uuid.UUID, req InvoiceItemInput) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *finance.Invoice) error {
		_, err := inv.AddItem(req.Description, req.Quantity, req.UnitPrice)
		return err
	})
}

// UpdateItem changes a line of a draft invoice
func (s *InvoiceService) UpdateItem(ctx context.Context, tenantID, invoiceID, itemID uuid.UUID, req InvoiceItemInput) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *finance.Invoice) error {
		return inv.UpdateItem(itemID, req.Description, req.Quantity, req.UnitPrice)
	})
}

// RemoveItem deletes a line from a draft invoice
func (s *InvoiceService) RemoveItem(ctx context.Context, tenantID, invoiceID, itemID uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *finance.Invoice) error {
		return inv.RemoveItem(itemID)
	})
}

// Send issues the invoice and emails the client a notice.
// An email failure is reported in the result and does not undo the send.
func (s *InvoiceService) Send(ctx context.Context, tenantID, actorID, invoiceID uuid.UUID) (*SendInvoiceResult, error) {
	inv, err := s.change(ctx, tenantID, invoiceID, func(inv *finance.Invoice) error {
		return inv.Send(actorID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Invoice sent",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("by", actorID.String()))

	orgName := s.organizationName(ctx, tenantID)
	var delivery notification.Delivery
	if inv.ClientEmail == "" {
		delivery = notification.Failed(errors.New("invoice has no client email"))
	} else {
		delivery = s.notifier.InvoiceNotice(ctx, notification.InvoiceMail{
			To:               inv.ClientEmail,
			ClientName:       inv.ClientName,
			OrganizationName: orgName,
			InvoiceNumber:    inv.InvoiceNumber,
			IssueDate:        inv.IssueDate,
			DueDate:          inv.DueDate,
			Currency:         inv.Currency,
			Total:            inv.TotalAmount,
			BalanceDue:       inv.BalanceDue(),
			PDFURL:           s.pdfLink(ctx, inv, orgName),
		})
	}

	return &SendInvoiceResult{Invoice: ToInvoiceResponse(inv, s.now()), Email: delivery}, nil
}

// Cancel retires an invoice without payments
func (s *InvoiceService) Cancel(ctx context.Context, tenantID, actorID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *finance.Invoice) error {
		return inv.Cancel(actorID)
	})
}

// Delete cancels the invoice; invoices are never removed
func (s *InvoiceService) Delete(ctx context.Context, tenantID, actorID, invoiceID uuid.UUID) error {
	_, err := s.Cancel(ctx, tenantID, actorID, invoiceID)
	return err
}

// Clone copies an invoice into a new draft dated today
func (s *InvoiceService) Clone(ctx context.Context, tenantID, actorID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	source, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	clone, err := source.Clone(number, s.now())
	if err != nil {
		return nil, err
	}
	clone.SetCreatedBy(actorID)
	if err := s.invoiceRepo.Save(ctx, clone); err != nil {
		return nil, err
	}
	s.logger.Info("Invoice cloned",
		zap.String("source", source.InvoiceNumber),
		zap.String("invoice_number", clone.InvoiceNumber))
	s.publish(ctx, clone)

	resp := ToInvoiceResponse(clone, s.now())
	return &resp, nil
}

// MarkOverdue flags every sent or partially paid invoice past its due date.
// Each candidate is reloaded under lock, so one paid in the meantime is skipped.
func (s *InvoiceService) MarkOverdue(ctx context.Context, tenantID uuid.UUID) (*MarkOverdueResult, error) {
	now := s.now()
	candidates, err := s.invoiceRepo.FindOverdueCandidates(ctx, tenantID, now)
	if err != nil {
		return nil, err
	}
	updated := 0
	for _, candidate := range candidates {
		var flagged *finance.Invoice
		err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			inv, err := repos.Invoices().FindByIDForUpdate(ctx, tenantID, candidate.ID)
			if err != nil {
				return err
			}
			if !inv.MarkOverdue(now) {
				return nil
			}
			if err := repos.Invoices().Save(ctx, inv); err != nil {
				return err
			}
			flagged = inv
			return nil
		})
		if err != nil {
			return nil, err
		}
		if flagged != nil {
			s.publish(ctx, flagged)
			updated++
		}
	}
	if updated > 0 {
		s.logger.Info("Invoices marked overdue", zap.String("tenant_id", tenantID.String()), zap.Int("count", updated))
	}
	return &MarkOverdueResult{Updated: updated}, nil
}

// PDF renders the invoice. With storage configured the PDF is uploaded
// and a presigned link is returned instead of the bytes.
func (s *InvoiceService) PDF(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoicePDF, error) {
	if s.renderer == nil {
		return nil, ErrPrintingDisabled
	}
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	content, err := s.renderer.RenderInvoice(ctx, NewInvoiceDocument(inv, s.organizationName(ctx, tenantID)))
	if err != nil {
		return nil, err
	}

	result := &InvoicePDF{Filename: inv.InvoiceNumber + ".pdf"}
	if s.storage == nil {
		result.Content = content
		return result, nil
	}
	key := invoiceStorageKey(inv)
	if err := s.storage.Upload(ctx, key, content, "application/pdf"); err != nil {
		return nil, err
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.linkTTL)
	if err != nil {
		return nil, err
	}
	result.URL = url
	result.ExpiresAt = expiresAt
	return result, nil
}

func (s *InvoiceService) mutate(ctx context.Context, tenantID, invoiceID uuid.UUID, fn func(*finance.Invoice) error) (*InvoiceResponse, error) {
	inv, err := s.change(ctx, tenantID, invoiceID, fn)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv, s.now())
	return &resp, nil
}

// change applies fn to the locked invoice and saves it in one transaction,
// then publishes what fn recorded
func (s *InvoiceService) change(ctx context.Context, tenantID, invoiceID uuid.UUID, fn func(*finance.Invoice) error) (*finance.Invoice, error) {
	var changed *finance.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.Invoices().FindByIDForUpdate(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if err := fn(inv); err != nil {
			return err
		}
		if err := repos.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		changed = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, changed)
	return changed, nil
}

// resolveClient fills name and email from the client record when a client is linked
func (s *InvoiceService) resolveClient(ctx context.Context, tenantID uuid.UUID, clientID *uuid.UUID, name, email string) (string, string, error) {
	if clientID == nil {
		if name == "" {
			return "", "", shared.NewValidationError("client_name", "Client name is required")
		}
		return name, email, nil
	}
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, *clientID)
	if err != nil {
		if shared.IsNotFound(err) {
			return "", "", shared.NewValidationError("client_id", "Client not found")
		}
		return "", "", err
	}
	if client.IsArchived() {
		return "", "", shared.NewValidationError("client_id", "Client is archived")
	}
	if name == "" {
		name = client.Name
	}
	if email == "" {
		email = client.Email
	}
	return name, email, nil
}

// pdfLink uploads the invoice PDF and returns a download link, or "" when links are unavailable
func (s *InvoiceService) pdfLink(ctx context.Context, inv *finance.Invoice, orgName string) string {
	if s.renderer == nil || s.storage == nil {
		return ""
	}
	content, err := s.renderer.RenderInvoice(ctx, NewInvoiceDocument(inv, orgName))
	if err != nil {
		s.logger.Warn("Failed to render invoice PDF", zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		return ""
	}
	key := invoiceStorageKey(inv)
	if err := s.storage.Upload(ctx, key, content, "application/pdf"); err != nil {
		s.logger.Warn("Failed to upload invoice PDF", zap.String("key", key), zap.Error(err))
		return ""
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, key, s.linkTTL)
	if err != nil {
		s.logger.Warn("Failed to presign invoice PDF", zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}

func (s *InvoiceService) organizationName(ctx context.Context, tenantID uuid.UUID) string {
	if s.orgRepo == nil {
		return ""
	}
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		s.logger.Warn("Failed to load organization", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return ""
	}
	return org.Name
}

func (s *InvoiceService) publish(ctx context.Context, inv *finance.Invoice) {
	publishEvents(ctx, s.publisher, s.logger, inv)
}

func coalesce(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}

// publishEvents publishes and clears the pending events of an aggregate
// publishEvents never fails the caller: the aggregate is already saved
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, agg shared.AggregateRoot) {
	if n, err := shared.PublishRecorded(ctx, publisher, agg); err != nil {
		logger.Error("Failed to publish domain events", zap.Int("count", n), zap.String("aggregate_id", agg.GetID().String()), zap.Error(err))
	}
}
