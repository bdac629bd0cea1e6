package handler

import (
	analyticsapp "github.com/erp/platform/internal/application/analytics"
	"github.com/gin-gonic/gin"
)

// EventHandler handles analytics event HTTP requests. Events are append-only.
type EventHandler struct {
	BaseHandler
	eventService *analyticsapp.EventService
}

// NewEventHandler creates a new analytics event handler
func NewEventHandler(eventService *analyticsapp.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Record godoc
// @ID           recordEvent
// @Summary      Record a client-side event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request body analyticsapp.RecordEventRequest true "Event"
// @Success      201 {object} dto.Response{data=analyticsapp.EventResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /events [post]
func (h *EventHandler) Record(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req analyticsapp.RecordEventRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client := analyticsapp.EventClient{IPAddress: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	event, err := h.eventService.Record(c.Request.Context(), tenantID, userID, req, client)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, event)
}

// List godoc
// @ID           listEvents
// @Summary      List analytics events
// @Tags         events
// @Produce      json
// @Param        params query analyticsapp.EventListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]analyticsapp.EventResponse}
// @Security     BearerAuth
// @Router       /events [get]
func (h *EventHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f analyticsapp.EventListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	events, total, err := h.eventService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, events, total, f.ToFilter())
}

// Summary godoc
// @ID           summarizeEvents
// @Summary      Event counts per type
// @Tags         events
// @Produce      json
// @Param        params query analyticsapp.EventSummaryFilter false "Date range"
// @Success      200 {object} dto.Response{data=analyticsapp.EventSummaryResponse}
// @Security     BearerAuth
// @Router       /events/summary [get]
func (h *EventHandler) Summary(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f analyticsapp.EventSummaryFilter
	if !h.bindQuery(c, &f) {
		return
	}

	summary, err := h.eventService.Summary(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
