package handler

import (
	purchasingapp "github.com/erp/platform/internal/application/purchasing"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// SupplierHandler handles supplier and supplier evaluation HTTP requests
type SupplierHandler struct {
	BaseHandler
	supplierService *purchasingapp.SupplierService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(supplierService *purchasingapp.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// List godoc
// @ID           listSuppliers
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Param        params query purchasingapp.SupplierListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]purchasingapp.SupplierResponse}
// @Security     BearerAuth
// @Router       /suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f purchasingapp.SupplierListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	suppliers, total, err := h.supplierService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, suppliers, total, f.PageParams.Filter())
}

// GetByID godoc
// @ID           getSupplierById
// @Summary      Get a supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} dto.Response{data=purchasingapp.SupplierResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	supplier, err := h.supplierService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Create godoc
// @ID           createSupplier
// @Summary      Create a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        request body purchasingapp.CreateSupplierRequest true "Supplier"
// @Success      201 {object} dto.Response{data=purchasingapp.SupplierResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	var req purchasingapp.CreateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// Update godoc
// @ID           updateSupplier
// @Summary      Update a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body purchasingapp.SupplierRequest true "Supplier"
// @Success      200 {object} dto.Response{data=purchasingapp.SupplierResponse}
// @Security     BearerAuth
// @Router       /suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req purchasingapp.SupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Delete godoc
// @ID           deleteSupplier
// @Summary      Deactivate a supplier
// @Tags         suppliers
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.supplierService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
// @ID           activateSupplier
// @Summary      Reactivate a supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} dto.Response{data=purchasingapp.SupplierResponse}
// @Security     BearerAuth
// @Router       /suppliers/{id}/activate [post]
func (h *SupplierHandler) Activate(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	supplier, err := h.supplierService.Activate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Blacklist godoc
// @ID           blacklistSupplier
// @Summary      Blacklist a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body purchasingapp.BlacklistSupplierRequest false "Reason"
// @Success      200 {object} dto.Response{data=purchasingapp.SupplierResponse}
// @Security     BearerAuth
// @Router       /suppliers/{id}/blacklist [post]
func (h *SupplierHandler) Blacklist(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req purchasingapp.BlacklistSupplierRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	supplier, err := h.supplierService.Blacklist(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Evaluate godoc
// @ID           evaluateSupplier
// @Summary      Record a performance evaluation
// @Description  Evaluations are append-only; the supplier rating is recomputed from all of them.
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body purchasingapp.EvaluateSupplierRequest true "Scores"
// @Success      201 {object} dto.Response{data=purchasingapp.PerformanceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers/{id}/evaluations [post]
func (h *SupplierHandler) Evaluate(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req purchasingapp.EvaluateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	evaluation, err := h.supplierService.Evaluate(c.Request.Context(), tenantID, actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, evaluation)
}

// Evaluations godoc
// @ID           listSupplierEvaluations
// @Summary      List evaluations of a supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        params query shared.PageParams false "Paging"
// @Success      200 {object} dto.Response{data=[]purchasingapp.PerformanceResponse}
// @Security     BearerAuth
// @Router       /suppliers/{id}/evaluations [get]
func (h *SupplierHandler) Evaluations(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var page shared.PageParams
	if !h.bindQuery(c, &page) {
		return
	}

	evaluations, total, err := h.supplierService.Evaluations(c.Request.Context(), tenantID, id, page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, evaluations, total, page.Filter())
}

// GetEvaluation godoc
// @ID           getSupplierEvaluation
// @Summary      Get one evaluation
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        evaluationId path string true "Evaluation ID" format(uuid)
// @Success      200 {object} dto.Response{data=purchasingapp.PerformanceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers/{id}/evaluations/{evaluationId} [get]
func (h *SupplierHandler) GetEvaluation(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	evaluationID, ok := h.pathID(c, "evaluationId")
	if !ok {
		return
	}

	evaluation, err := h.supplierService.GetEvaluation(c.Request.Context(), tenantID, evaluationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if evaluation.SupplierID != id {
		h.HandleError(c, shared.ErrNotFound)
		return
	}
	h.Success(c, evaluation)
}

// Summary godoc
// @ID           getSupplierPerformanceSummary
// @Summary      Performance summary
// @Description  Evaluation count, average scores and the latest evaluation.
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} dto.Response{data=purchasingapp.PerformanceSummaryResponse}
// @Security     BearerAuth
// @Router       /suppliers/{id}/performance/summary [get]
func (h *SupplierHandler) Summary(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	summary, err := h.supplierService.Summary(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
