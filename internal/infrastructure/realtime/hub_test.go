package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/shared"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func alertEvent(tenantID uuid.UUID) *analytics.KPIAlertRaisedEvent {
	return &analytics.KPIAlertRaisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(analytics.EventTypeKPIAlertRaised, analytics.AggregateTypeKPI, uuid.New(), tenantID),
		AlertID:         uuid.New(),
		KPICode:         "REV",
		KPIName:         "Revenue",
		Severity:        analytics.SeverityCritical,
		Value:           decimal.NewFromInt(40),
		Threshold:       decimal.NewFromInt(50),
		Message:         "Revenue fell to 40",
	}
}

func newStreamServer(t *testing.T, hub *AlertHub, tenantID uuid.UUID) *httptest.Server {
	upgrader := NewUpgrader(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(upgrader, w, r, tenantID, uuid.New())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestAlertHub_StreamsTenantAlerts(t *testing.T) {
	hub := NewAlertHub(zap.NewNop())
	tenantID := uuid.New()
	conn := dial(t, newStreamServer(t, hub, tenantID))

	require.Eventually(t, func() bool { return hub.ClientCount(tenantID) == 1 }, time.Second, 10*time.Millisecond)

	event := alertEvent(tenantID)
	require.NoError(t, hub.Handle(context.Background(), event))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageKPIAlert, msg.Event)

	var payload struct {
		AlertID  uuid.UUID `json:"alert_id"`
		KPICode  string    `json:"kpi_code"`
		Severity string    `json:"severity"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, event.AlertID, payload.AlertID)
	assert.Equal(t, "REV", payload.KPICode)
	assert.Equal(t, "critical", payload.Severity)
}

func TestAlertHub_UnregistersOnDisconnect(t *testing.T) {
	hub := NewAlertHub(zap.NewNop())
	tenantID := uuid.New()
	conn := dial(t, newStreamServer(t, hub, tenantID))
	require.Eventually(t, func() bool { return hub.ClientCount(tenantID) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount(tenantID) == 0 }, time.Second, 10*time.Millisecond)
}

func TestAlertHub_Broadcast_TenantIsolation(t *testing.T) {
	hub := NewAlertHub(zap.NewNop())
	tenantA, tenantB := uuid.New(), uuid.New()
	a := &Client{TenantID: tenantA, UserID: uuid.New(), send: make(chan Message, 1)}
	b := &Client{TenantID: tenantB, UserID: uuid.New(), send: make(chan Message, 1)}
	hub.Register(a)
	hub.Register(b)

	sent := hub.Broadcast(tenantA, Message{Event: MessageKPIAlert})
	assert.Equal(t, 1, sent)
	assert.Len(t, a.send, 1)
	assert.Len(t, b.send, 0)

	// Buffer of one is now full
	assert.Equal(t, 0, hub.Broadcast(tenantA, Message{Event: MessageKPIAlert}))

	hub.Unregister(a)
	hub.Unregister(a)
	assert.Equal(t, 0, hub.ClientCount(tenantA))
	assert.Equal(t, 1, hub.ClientCount(tenantB))
}

func TestAlertHub_HandleWithoutClients(t *testing.T) {
	hub := NewAlertHub(zap.NewNop())
	assert.NoError(t, hub.Handle(context.Background(), alertEvent(uuid.New())))
	assert.Equal(t, []string{analytics.EventTypeKPIAlertRaised}, hub.EventTypes())
}

func TestNewUpgrader_CheckOrigin(t *testing.T) {
	up := NewUpgrader([]string{"https://erp.example.com"})
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "http://api.example.com/stream", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.True(t, up.CheckOrigin(req("")))
	assert.True(t, up.CheckOrigin(req("https://erp.example.com")))
	assert.True(t, up.CheckOrigin(req("http://api.example.com")))
	assert.False(t, up.CheckOrigin(req("https://evil.example.com")))
	assert.True(t, NewUpgrader([]string{"*"}).CheckOrigin(req("https://anything.test")))
}
