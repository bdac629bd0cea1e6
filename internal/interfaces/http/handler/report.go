package handler

import (
	analyticsapp "github.com/erp/platform/internal/application/analytics"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles saved report HTTP requests
type ReportHandler struct {
	BaseHandler
	reportService *analyticsapp.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *analyticsapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// List godoc
// @ID           listReports
// @Summary      List reports
// @Tags         reports
// @Produce      json
// @Param        params query analyticsapp.ReportListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]analyticsapp.ReportResponse}
// @Security     BearerAuth
// @Router       /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f analyticsapp.ReportListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	reports, total, err := h.reportService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, reports, total, f.ToFilter())
}

// Due godoc
// @ID           listDueReports
// @Summary      Scheduled reports due for a run
// @Description  Active scheduled reports whose next_run_at has passed, for an external scheduler.
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=[]analyticsapp.ReportResponse}
// @Security     BearerAuth
// @Router       /reports/due [get]
func (h *ReportHandler) Due(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	reports, err := h.reportService.Due(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reports)
}

// GetByID godoc
// @ID           getReportById
// @Summary      Get a report definition
// @Tags         reports
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Success      200 {object} dto.Response{data=analyticsapp.ReportResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/{id} [get]
func (h *ReportHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	report, err := h.reportService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Create godoc
// @ID           createReport
// @Summary      Save a report definition
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request body analyticsapp.CreateReportRequest true "Report"
// @Success      201 {object} dto.Response{data=analyticsapp.ReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	var req analyticsapp.CreateReportRequest
	if !h.bindJSON(c, &req) {
		return
	}

	report, err := h.reportService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, report)
}

// Update godoc
// @ID           updateReport
// @Summary      Update a report definition
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Param        request body analyticsapp.UpdateReportRequest true "Report"
// @Success      200 {object} dto.Response{data=analyticsapp.ReportResponse}
// @Security     BearerAuth
// @Router       /reports/{id} [put]
func (h *ReportHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req analyticsapp.UpdateReportRequest
	if !h.bindJSON(c, &req) {
		return
	}

	report, err := h.reportService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Delete godoc
// @ID           deleteReport
// @Summary      Archive a report
// @Tags         reports
// @Param        id path string true "Report ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /reports/{id} [delete]
func (h *ReportHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reportService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Archive godoc
// @ID           archiveReport
// @Summary      Archive a report
// @Tags         reports
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Success      200 {object} dto.Response{data=analyticsapp.ReportResponse}
// @Security     BearerAuth
// @Router       /reports/{id}/archive [post]
func (h *ReportHandler) Archive(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	report, err := h.reportService.Archive(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Clone godoc
// @ID           cloneReport
// @Summary      Copy a report definition
// @Tags         reports
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Success      201 {object} dto.Response{data=analyticsapp.ReportResponse}
// @Security     BearerAuth
// @Router       /reports/{id}/clone [post]
func (h *ReportHandler) Clone(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	report, err := h.reportService.Clone(c.Request.Context(), tenantID, id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, report)
}

// Run godoc
// @ID           runReport
// @Summary      Run a report
// @Description  Results are cached per tenant, report type and parameters. refresh=true bypasses
// @Description  the cache; export=csv also uploads a CSV and returns a download link.
// @Tags         reports
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Param        params query analyticsapp.RunReportOptions false "Run options"
// @Success      200 {object} dto.Response{data=analyticsapp.ReportRunResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/{id}/run [post]
func (h *ReportHandler) Run(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var opts analyticsapp.RunReportOptions
	if !h.bindQuery(c, &opts) {
		return
	}

	result, err := h.reportService.Run(c.Request.Context(), tenantID, id, opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
