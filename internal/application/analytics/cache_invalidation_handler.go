package analytics

import (
	"context"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/finance"
	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/shared"
	"go.uber.org/zap"
)

// invalidations maps a domain event type to the report caches it makes stale
var invalidations = map[string][]analytics.ReportType{
	finance.EventTypeInvoiceCreated:   {analytics.ReportTypeSalesSummary, analytics.ReportTypeInvoiceAging},
	finance.EventTypeInvoiceSent:      {analytics.ReportTypeSalesSummary, analytics.ReportTypeInvoiceAging},
	finance.EventTypeInvoicePaid:      {analytics.ReportTypeSalesSummary, analytics.ReportTypeInvoiceAging},
	finance.EventTypeInvoiceOverdue:   {analytics.ReportTypeSalesSummary, analytics.ReportTypeInvoiceAging},
	finance.EventTypeInvoiceCancelled: {analytics.ReportTypeSalesSummary, analytics.ReportTypeInvoiceAging},
	finance.EventTypePaymentRecorded:  {analytics.ReportTypeSalesSummary, analytics.ReportTypeInvoiceAging},

	finance.EventTypeBudgetApproved:        {analytics.ReportTypeBudgetUtilization},
	finance.EventTypeBudgetExpenseRecorded: {analytics.ReportTypeBudgetUtilization},

	purchasing.EventTypePurchaseOrderCreated:  {analytics.ReportTypePurchaseSummary},
	purchasing.EventTypePurchaseOrderApproved: {analytics.ReportTypePurchaseSummary},
	purchasing.EventTypePurchaseOrderRejected: {analytics.ReportTypePurchaseSummary},
	purchasing.EventTypePurchaseOrderReceived: {analytics.ReportTypePurchaseSummary},

	hr.EventTypePayrollApproved: {analytics.ReportTypePayrollSummary},
	hr.EventTypePayrollPaid:     {analytics.ReportTypePayrollSummary},

	analytics.EventTypeKPIAlertRaised: {analytics.ReportTypeKPISnapshot},
}

// CacheInvalidationHandler drops cached report results when the data behind them changes
type CacheInvalidationHandler struct {
	cache  ResultCache
	logger *zap.Logger
}

// NewCacheInvalidationHandler creates a new CacheInvalidationHandler
func NewCacheInvalidationHandler(cache ResultCache, logger *zap.Logger) *CacheInvalidationHandler {
	return &CacheInvalidationHandler{cache: cache, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *CacheInvalidationHandler) EventTypes() []string {
	types := make([]string, 0, len(invalidations))
	for t := range invalidations {
		types = append(types, t)
	}
	return types
}

// Handle invalidates every report cache type affected by the event
func (h *CacheInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	for _, rt := range invalidations[event.EventType()] {
		if err := h.cache.InvalidateType(ctx, event.TenantID(), rt.CacheType()); err != nil {
			h.logger.Warn("failed to invalidate report cache",
				zap.String("event_type", event.EventType()),
				zap.String("cache_type", rt.CacheType()),
				zap.Error(err),
			)
			return err
		}
		h.logger.Debug("report cache invalidated",
			zap.String("tenant_id", event.TenantID().String()),
			zap.String("cache_type", rt.CacheType()),
		)
	}
	return nil
}
