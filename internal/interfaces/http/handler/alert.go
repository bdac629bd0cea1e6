package handler

import (
	"context"

	analyticsapp "github.com/erp/platform/internal/application/analytics"
	"github.com/erp/platform/internal/infrastructure/logger"
	"github.com/erp/platform/internal/infrastructure/realtime"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// AlertHandler handles KPI alert HTTP requests and the live alert stream
type AlertHandler struct {
	BaseHandler
	alertService *analyticsapp.AlertService
	hub          *realtime.AlertHub
	upgrader     *websocket.Upgrader
}

// NewAlertHandler creates a new alert handler. hub may be nil, in which case
// the stream endpoint is not served.
func NewAlertHandler(alertService *analyticsapp.AlertService, hub *realtime.AlertHub, upgrader *websocket.Upgrader) *AlertHandler {
	return &AlertHandler{alertService: alertService, hub: hub, upgrader: upgrader}
}

// List godoc
// @ID           listAlerts
// @Summary      List KPI alerts
// @Tags         alerts
// @Produce      json
// @Param        params query analyticsapp.AlertListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]analyticsapp.AlertResponse}
// @Security     BearerAuth
// @Router       /alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f analyticsapp.AlertListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	alerts, total, err := h.alertService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, alerts, total, f.ToFilter())
}

// GetByID godoc
// @ID           getAlertById
// @Summary      Get an alert
// @Tags         alerts
// @Produce      json
// @Param        id path string true "Alert ID" format(uuid)
// @Success      200 {object} dto.Response{data=analyticsapp.AlertResponse}
// @Security     BearerAuth
// @Router       /alerts/{id} [get]
func (h *AlertHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	alert, err := h.alertService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alert)
}

type alertTransition func(ctx context.Context, tenantID, alertID, actorID uuid.UUID) (*analyticsapp.AlertResponse, error)

func (h *AlertHandler) transition(c *gin.Context, fn alertTransition) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	alert, err := fn(c.Request.Context(), tenantID, id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alert)
}

// Acknowledge godoc
// @ID           acknowledgeAlert
// @Summary      Acknowledge an active alert
// @Tags         alerts
// @Produce      json
// @Param        id path string true "Alert ID" format(uuid)
// @Success      200 {object} dto.Response{data=analyticsapp.AlertResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	h.transition(c, h.alertService.Acknowledge)
}

// Resolve godoc
// @ID           resolveAlert
// @Summary      Resolve an alert
// @Tags         alerts
// @Produce      json
// @Param        id path string true "Alert ID" format(uuid)
// @Success      200 {object} dto.Response{data=analyticsapp.AlertResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *gin.Context) {
	h.transition(c, h.alertService.Resolve)
}

// Dismiss godoc
// @ID           dismissAlert
// @Summary      Dismiss an alert
// @Tags         alerts
// @Produce      json
// @Param        id path string true "Alert ID" format(uuid)
// @Success      200 {object} dto.Response{data=analyticsapp.AlertResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /alerts/{id}/dismiss [post]
func (h *AlertHandler) Dismiss(c *gin.Context) {
	h.transition(c, h.alertService.Dismiss)
}

// Stream godoc
// @ID           streamAlerts
// @Summary      Live KPI alert stream (WebSocket)
// @Description  Upgrades to a WebSocket and pushes alerts raised in the caller's organization.
// @Description  Browsers pass the access token as the access_token query parameter.
// @Tags         alerts
// @Param        access_token query string false "Access token"
// @Success      101
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /analytics/alerts/stream [get]
func (h *AlertHandler) Stream(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	if h.hub == nil {
		h.NotFound(c, "Alert stream is not enabled")
		return
	}
	// The upgrader writes its own HTTP error on a failed handshake.
	if err := h.hub.ServeWS(h.upgrader, c.Writer, c.Request, tenantID, userID); err != nil {
		logger.FromContext(c.Request.Context()).Debug("Alert stream handshake failed", zap.Error(err))
	}
}
