package analytics

import (
	"context"
	"time"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultSummaryWindow is the range of an event summary without explicit dates
const defaultSummaryWindow = 30 * 24 * time.Hour

// EventService records and queries analytics events
type EventService struct {
	eventRepo analytics.AnalyticsEventRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(eventRepo analytics.AnalyticsEventRepository, logger *zap.Logger) *EventService {
	return &EventService{eventRepo: eventRepo, logger: logger, now: time.Now}
}

// Record stores a client-side event attributed to the caller
func (s *EventService) Record(ctx context.Context, tenantID, userID uuid.UUID, req RecordEventRequest, client EventClient) (*EventResponse, error) {
	var occurredAt time.Time
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}
	event, err := analytics.NewAnalyticsEvent(tenantID, req.EventType, req.EntityType, req.EntityID, &userID, req.Properties, occurredAt)
	if err != nil {
		return nil, err
	}
	event.WithClient(client.IPAddress, client.UserAgent)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	resp := ToEventResponse(event)
	return &resp, nil
}

// List retrieves events with filtering and pagination
func (s *EventService) List(ctx context.Context, tenantID uuid.UUID, f EventListFilter) ([]EventResponse, int64, error) {
	filter := f.ToFilter()
	events, err := s.eventRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.eventRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]EventResponse, len(events))
	for i := range events {
		out[i] = ToEventResponse(&events[i])
	}
	return out, total, nil
}

// Summary counts events per type. The range defaults to the last 30 days and
// a bare "to" date includes that whole day.
func (s *EventService) Summary(ctx context.Context, tenantID uuid.UUID, f EventSummaryFilter) (*EventSummaryResponse, error) {
	to := s.now()
	if f.To != nil {
		to = f.To.AddDate(0, 0, 1)
	}
	from := to.Add(-defaultSummaryWindow)
	if f.From != nil {
		from = *f.From
	}
	counts, err := s.eventRepo.Summarize(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []analytics.EventCount{}
	}
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	return &EventSummaryResponse{From: from, To: to, Total: total, Counts: counts}, nil
}
