package handler

import (
	analyticsapp "github.com/erp/platform/internal/application/analytics"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// KPIHandler handles KPI and measurement HTTP requests
type KPIHandler struct {
	BaseHandler
	kpiService *analyticsapp.KPIService
}

// NewKPIHandler creates a new KPI handler
func NewKPIHandler(kpiService *analyticsapp.KPIService) *KPIHandler {
	return &KPIHandler{kpiService: kpiService}
}

// List godoc
// @ID           listKpis
// @Summary      List KPIs
// @Tags         kpis
// @Produce      json
// @Param        params query analyticsapp.KPIListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]analyticsapp.KPIResponse}
// @Security     BearerAuth
// @Router       /kpis [get]
func (h *KPIHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f analyticsapp.KPIListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	kpis, total, err := h.kpiService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, kpis, total, f.ToFilter())
}

// GetByID godoc
// @ID           getKpiById
// @Summary      Get a KPI
// @Tags         kpis
// @Produce      json
// @Param        id path string true "KPI ID" format(uuid)
// @Success      200 {object} dto.Response{data=analyticsapp.KPIResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kpis/{id} [get]
func (h *KPIHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	kpi, err := h.kpiService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, kpi)
}

// Create godoc
// @ID           createKpi
// @Summary      Define a KPI
// @Description  Thresholds must be ordered according to the KPI direction.
// @Tags         kpis
// @Accept       json
// @Produce      json
// @Param        request body analyticsapp.CreateKPIRequest true "KPI"
// @Success      201 {object} dto.Response{data=analyticsapp.KPIResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kpis [post]
func (h *KPIHandler) Create(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	var req analyticsapp.CreateKPIRequest
	if !h.bindJSON(c, &req) {
		return
	}

	kpi, err := h.kpiService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, kpi)
}

// Update godoc
// @ID           updateKpi
// @Summary      Update a KPI
// @Tags         kpis
// @Accept       json
// @Produce      json
// @Param        id path string true "KPI ID" format(uuid)
// @Param        request body analyticsapp.KPIRequest true "KPI"
// @Success      200 {object} dto.Response{data=analyticsapp.KPIResponse}
// @Security     BearerAuth
// @Router       /kpis/{id} [put]
func (h *KPIHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req analyticsapp.KPIRequest
	if !h.bindJSON(c, &req) {
		return
	}

	kpi, err := h.kpiService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, kpi)
}

// Delete godoc
// @ID           deleteKpi
// @Summary      Archive a KPI
// @Tags         kpis
// @Param        id path string true "KPI ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /kpis/{id} [delete]
func (h *KPIHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.kpiService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecordMeasurement godoc
// @ID           recordKpiMeasurement
// @Summary      Record a KPI value
// @Description  Updates current/previous value and change percentage and raises a threshold alert
// @Description  when no open alert of that severity exists.
// @Tags         kpis
// @Accept       json
// @Produce      json
// @Param        id path string true "KPI ID" format(uuid)
// @Param        request body analyticsapp.RecordMeasurementRequest true "Measurement"
// @Success      201 {object} dto.Response{data=analyticsapp.MeasurementResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kpis/{id}/measurements [post]
func (h *KPIHandler) RecordMeasurement(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req analyticsapp.RecordMeasurementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.kpiService.RecordMeasurement(c.Request.Context(), tenantID, id, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Calculate godoc
// @ID           calculateKpi
// @Summary      Compute a KPI from its data source and record the value
// @Tags         kpis
// @Produce      json
// @Param        id path string true "KPI ID" format(uuid)
// @Success      201 {object} dto.Response{data=analyticsapp.MeasurementResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kpis/{id}/calculate [post]
func (h *KPIHandler) Calculate(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.kpiService.Calculate(c.Request.Context(), tenantID, id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Measurements godoc
// @ID           listKpiMeasurements
// @Summary      Measurement history of a KPI
// @Tags         kpis
// @Produce      json
// @Param        id path string true "KPI ID" format(uuid)
// @Param        params query shared.PageParams false "Paging"
// @Success      200 {object} dto.Response{data=[]analyticsapp.MeasurementResponse}
// @Security     BearerAuth
// @Router       /kpis/{id}/measurements [get]
func (h *KPIHandler) Measurements(c *gin.Context) {
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

	measurements, total, err := h.kpiService.Measurements(c.Request.Context(), tenantID, id, page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, measurements, total, page.Filter())
}
