package realtime

import (
	"context"
	"sync"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/shared"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait drive the connection heartbeat, in seconds
	PingInterval = 30
	PongWait     = 60

	sendBufferSize = 32
)

// MessageKPIAlert is the event name of streamed alert messages
const MessageKPIAlert = "kpi_alert"

// Message is the WebSocket message envelope
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// AlertHub keeps the open alert streams of each tenant and fans raised KPI
// alerts out to them. It subscribes to the event bus as a regular handler.
type AlertHub struct {
	mu      sync.RWMutex
	tenants map[uuid.UUID]map[*Client]struct{}
	logger  *zap.Logger
}

// NewAlertHub creates an empty hub
func NewAlertHub(logger *zap.Logger) *AlertHub {
	return &AlertHub{
		tenants: make(map[uuid.UUID]map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to its tenant's room
func (h *AlertHub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.tenants[c.TenantID]
	if room == nil {
		room = make(map[*Client]struct{})
		h.tenants[c.TenantID] = room
	}
	room[c] = struct{}{}
	h.logger.Debug("alert stream opened",
		zap.String("tenant_id", c.TenantID.String()),
		zap.String("user_id", c.UserID.String()),
		zap.Int("clients", len(room)),
	)
}

// Unregister removes a client and closes its send channel. Safe to call twice.
func (h *AlertHub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.tenants[c.TenantID]
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.tenants, c.TenantID)
	}
}

// ClientCount returns the number of open streams for a tenant
func (h *AlertHub) ClientCount(tenantID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.tenants[tenantID])
}

// Broadcast queues msg for every client of the tenant. Clients whose buffer is
// full miss the message rather than stall the publisher.
func (h *AlertHub) Broadcast(tenantID uuid.UUID, msg Message) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for c := range h.tenants[tenantID] {
		select {
		case c.send <- msg:
			sent++
		default:
			h.logger.Warn("alert stream buffer full, dropping message",
				zap.String("tenant_id", tenantID.String()),
				zap.String("user_id", c.UserID.String()),
			)
		}
	}
	return sent
}

// Handle streams a raised KPI alert to the tenant's connected clients
func (h *AlertHub) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.ClientCount(event.TenantID()) == 0 {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.Broadcast(event.TenantID(), Message{Event: MessageKPIAlert, Data: data})
	return nil
}

// EventTypes returns the alert event
func (h *AlertHub) EventTypes() []string {
	return []string{analytics.EventTypeKPIAlertRaised}
}

var _ shared.EventHandler = (*AlertHub)(nil)
