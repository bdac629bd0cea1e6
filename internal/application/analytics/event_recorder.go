package analytics

import (
	"context"

	"github.com/erp/platform/internal/domain/accounts"
	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/finance"
	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// baseEventFields are stored as columns of the analytics event, not as properties
var baseEventFields = []string{"id", "type", "timestamp", "aggregate_id", "aggregate_type", "tenant_id", "actor_id"}

// EventRecorder stores selected domain events as analytics events
type EventRecorder struct {
	eventRepo analytics.AnalyticsEventRepository
	logger    *zap.Logger
}

// NewEventRecorder creates a new EventRecorder
func NewEventRecorder(eventRepo analytics.AnalyticsEventRepository, logger *zap.Logger) *EventRecorder {
	return &EventRecorder{eventRepo: eventRepo, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *EventRecorder) EventTypes() []string {
	return []string{
		finance.EventTypeInvoiceSent,
		finance.EventTypeInvoicePaid,
		finance.EventTypeInvoiceCancelled,
		finance.EventTypePaymentRecorded,
		purchasing.EventTypePurchaseOrderApproved,
		purchasing.EventTypePurchaseOrderReceived,
		analytics.EventTypeKPIAlertRaised,
		accounts.EventTypeOrganizationRegistered,
		accounts.EventTypeUserCreated,
	}
}

// Handle records the event with its payload as properties
func (h *EventRecorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	record := analytics.FromDomainEvent(event, eventProperties(event))
	if err := h.eventRepo.Create(ctx, record); err != nil {
		h.logger.Error("failed to record analytics event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func eventProperties(event shared.DomainEvent) map[string]any {
	data, err := json.Marshal(event)
	if err != nil {
		return nil
	}
	props := map[string]any{}
	if err := json.Unmarshal(data, &props); err != nil {
		return nil
	}
	for _, k := range baseEventFields {
		delete(props, k)
	}
	return props
}
