package handler

import (
	salesapp "github.com/erp/platform/internal/application/sales"
	"github.com/gin-gonic/gin"
)

// InteractionHandler handles client interaction HTTP requests. Interactions are append-only.
type InteractionHandler struct {
	BaseHandler
	interactionService *salesapp.InteractionService
}

// NewInteractionHandler creates a new interaction handler
func NewInteractionHandler(interactionService *salesapp.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// List godoc
// @ID           listInteractions
// @Summary      List client interactions
// @Tags         interactions
// @Produce      json
// @Param        params query salesapp.InteractionListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]salesapp.InteractionResponse}
// @Security     BearerAuth
// @Router       /interactions [get]
func (h *InteractionHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f salesapp.InteractionListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	interactions, total, err := h.interactionService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, interactions, total, f.ToFilter())
}

// GetByID godoc
// @ID           getInteractionById
// @Summary      Get an interaction
// @Tags         interactions
// @Produce      json
// @Param        id path string true "Interaction ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.InteractionResponse}
// @Security     BearerAuth
// @Router       /interactions/{id} [get]
func (h *InteractionHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	interaction, err := h.interactionService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, interaction)
}

// Create godoc
// @ID           createInteraction
// @Summary      Log an interaction
// @Tags         interactions
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CreateInteractionRequest true "Interaction"
// @Success      201 {object} dto.Response{data=salesapp.InteractionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /interactions [post]
func (h *InteractionHandler) Create(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	var req salesapp.CreateInteractionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	interaction, err := h.interactionService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, interaction)
}

// Remind godoc
// @ID           remindInteraction
// @Summary      Send an appointment reminder
// @Description  Only future appointments. Email failures are reported in the payload.
// @Tags         interactions
// @Produce      json
// @Param        id path string true "Interaction ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.RemindResult}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /interactions/{id}/remind [post]
func (h *InteractionHandler) Remind(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.interactionService.Remind(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
