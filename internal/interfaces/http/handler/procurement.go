package handler

import (
	purchasingapp "github.com/erp/platform/internal/application/purchasing"
	"github.com/gin-gonic/gin"
)

// ProcurementHandler handles procurement request HTTP requests
type ProcurementHandler struct {
	BaseHandler
	procurementService *purchasingapp.ProcurementService
}

// NewProcurementHandler creates a new procurement request handler
func NewProcurementHandler(procurementService *purchasingapp.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{procurementService: procurementService}
}

// List godoc
// @ID           listProcurementRequests
// @Summary      List procurement requests
// @Tags         procurement-requests
// @Produce      json
// @Param        params query purchasingapp.ProcurementRequestListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]purchasingapp.ProcurementRequestResponse}
// @Security     BearerAuth
// @Router       /procurement-requests [get]
func (h *ProcurementHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f purchasingapp.ProcurementRequestListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	requests, total, err := h.procurementService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, requests, total, f.PageParams.Filter())
}

// GetByID godoc
// @ID           getProcurementRequestById
// @Summary      Get a procurement request
// @Tags         procurement-requests
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Success      200 {object} dto.Response{data=purchasingapp.ProcurementRequestResponse}
// @Security     BearerAuth
// @Router       /procurement-requests/{id} [get]
func (h *ProcurementHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	request, err := h.procurementService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// Create godoc
// @ID           createProcurementRequest
// @Summary      Create a draft procurement request
// @Tags         procurement-requests
// @Accept       json
// @Produce      json
// @Param        request body purchasingapp.ProcurementRequestInput true "Request"
// @Success      201 {object} dto.Response{data=purchasingapp.ProcurementRequestResponse}
// @Security     BearerAuth
// @Router       /procurement-requests [post]
func (h *ProcurementHandler) Create(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	var req purchasingapp.ProcurementRequestInput
	if !h.bindJSON(c, &req) {
		return
	}

	request, err := h.procurementService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, request)
}

// Update godoc
// @ID           updateProcurementRequest
// @Summary      Update a draft procurement request
// @Tags         procurement-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        request body purchasingapp.ProcurementRequestInput true "Request"
// @Success      200 {object} dto.Response{data=purchasingapp.ProcurementRequestResponse}
// @Security     BearerAuth
// @Router       /procurement-requests/{id} [put]
func (h *ProcurementHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req purchasingapp.ProcurementRequestInput
	if !h.bindJSON(c, &req) {
		return
	}

	request, err := h.procurementService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// Delete godoc
// @ID           deleteProcurementRequest
// @Summary      Cancel a procurement request
// @Tags         procurement-requests
// @Param        id path string true "Request ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /procurement-requests/{id} [delete]
func (h *ProcurementHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.procurementService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Submit godoc
// @ID           submitProcurementRequest
// @Summary      Submit a procurement request
// @Tags         procurement-requests
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Success      200 {object} dto.Response{data=purchasingapp.ProcurementRequestResponse}
// @Security     BearerAuth
// @Router       /procurement-requests/{id}/submit [post]
func (h *ProcurementHandler) Submit(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	request, err := h.procurementService.Submit(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// Approve godoc
// @ID           approveProcurementRequest
// @Summary      Approve a submitted procurement request
// @Tags         procurement-requests
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Success      200 {object} dto.Response{data=purchasingapp.ProcurementRequestResponse}
// @Security     BearerAuth
// @Router       /procurement-requests/{id}/approve [post]
func (h *ProcurementHandler) Approve(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	request, err := h.procurementService.Approve(c.Request.Context(), tenantID, actorID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// Reject godoc
// @ID           rejectProcurementRequest
// @Summary      Reject a submitted procurement request
// @Tags         procurement-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        request body purchasingapp.RejectRequest true "Reason"
// @Success      200 {object} dto.Response{data=purchasingapp.ProcurementRequestResponse}
// @Security     BearerAuth
// @Router       /procurement-requests/{id}/reject [post]
func (h *ProcurementHandler) Reject(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req purchasingapp.RejectRequest
	if !h.bindJSON(c, &req) {
		return
	}

	request, err := h.procurementService.Reject(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// Cancel godoc
// @ID           cancelProcurementRequest
// @Summary      Cancel a procurement request
// @Tags         procurement-requests
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Success      200 {object} dto.Response{data=purchasingapp.ProcurementRequestResponse}
// @Security     BearerAuth
// @Router       /procurement-requests/{id}/cancel [post]
func (h *ProcurementHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	request, err := h.procurementService.Cancel(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// Convert godoc
// @ID           convertProcurementRequest
// @Summary      Convert an approved request into a draft purchase order
// @Description  The request and the new purchase order are saved in one transaction.
// @Tags         procurement-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        request body purchasingapp.ConvertRequestInput true "Supplier and items"
// @Success      201 {object} dto.Response{data=purchasingapp.ConvertResult}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /procurement-requests/{id}/convert [post]
func (h *ProcurementHandler) Convert(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req purchasingapp.ConvertRequestInput
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.procurementService.Convert(c.Request.Context(), tenantID, actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
