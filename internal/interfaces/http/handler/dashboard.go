package handler

import (
	analyticsapp "github.com/erp/platform/internal/application/analytics"
	"github.com/gin-gonic/gin"
)

// DashboardHandler handles dashboard HTTP requests. Callers see their own
// dashboards plus the ones shared within the organization.
type DashboardHandler struct {
	BaseHandler
	dashboardService *analyticsapp.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *analyticsapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// List godoc
// @ID           listDashboards
// @Summary      List visible dashboards
// @Tags         dashboards
// @Produce      json
// @Param        params query analyticsapp.DashboardListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]analyticsapp.DashboardResponse}
// @Security     BearerAuth
// @Router       /dashboards [get]
func (h *DashboardHandler) List(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var f analyticsapp.DashboardListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	dashboards, total, err := h.dashboardService.List(c.Request.Context(), tenantID, userID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, dashboards, total, f.ToFilter())
}

// GetByID godoc
// @ID           getDashboardById
// @Summary      Get a dashboard
// @Tags         dashboards
// @Produce      json
// @Param        id path string true "Dashboard ID" format(uuid)
// @Success      200 {object} dto.Response{data=analyticsapp.DashboardResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dashboards/{id} [get]
func (h *DashboardHandler) GetByID(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.GetByID(c.Request.Context(), tenantID, userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// Create godoc
// @ID           createDashboard
// @Summary      Create a dashboard
// @Tags         dashboards
// @Accept       json
// @Produce      json
// @Param        request body analyticsapp.DashboardRequest true "Dashboard"
// @Success      201 {object} dto.Response{data=analyticsapp.DashboardResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dashboards [post]
func (h *DashboardHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req analyticsapp.DashboardRequest
	if !h.bindJSON(c, &req) {
		return
	}

	dashboard, err := h.dashboardService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dashboard)
}

// Update godoc
// @ID           updateDashboard
// @Summary      Update a dashboard
// @Description  The widget list is replaced as a whole.
// @Tags         dashboards
// @Accept       json
// @Produce      json
// @Param        id path string true "Dashboard ID" format(uuid)
// @Param        request body analyticsapp.DashboardRequest true "Dashboard"
// @Success      200 {object} dto.Response{data=analyticsapp.DashboardResponse}
// @Security     BearerAuth
// @Router       /dashboards/{id} [put]
func (h *DashboardHandler) Update(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req analyticsapp.DashboardRequest
	if !h.bindJSON(c, &req) {
		return
	}

	dashboard, err := h.dashboardService.Update(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// Delete godoc
// @ID           deleteDashboard
// @Summary      Archive a dashboard
// @Tags         dashboards
// @Param        id path string true "Dashboard ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /dashboards/{id} [delete]
func (h *DashboardHandler) Delete(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.dashboardService.Delete(c.Request.Context(), tenantID, userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Clone godoc
// @ID           cloneDashboard
// @Summary      Copy a dashboard
// @Description  The copy is owned by the caller, named "<name> (Copy)", and neither default nor shared.
// @Tags         dashboards
// @Produce      json
// @Param        id path string true "Dashboard ID" format(uuid)
// @Success      201 {object} dto.Response{data=analyticsapp.DashboardResponse}
// @Security     BearerAuth
// @Router       /dashboards/{id}/clone [post]
func (h *DashboardHandler) Clone(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Clone(c.Request.Context(), tenantID, userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dashboard)
}

// SetDefault godoc
// @ID           setDefaultDashboard
// @Summary      Make a dashboard the caller's default
// @Tags         dashboards
// @Produce      json
// @Param        id path string true "Dashboard ID" format(uuid)
// @Success      200 {object} dto.Response{data=analyticsapp.DashboardResponse}
// @Security     BearerAuth
// @Router       /dashboards/{id}/set-default [post]
func (h *DashboardHandler) SetDefault(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.SetDefault(c.Request.Context(), tenantID, userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// Data godoc
// @ID           getDashboardData
// @Summary      Resolve widget data
// @Tags         dashboards
// @Produce      json
// @Param        id path string true "Dashboard ID" format(uuid)
// @Success      200 {object} dto.Response{data=analyticsapp.DashboardDataResponse}
// @Security     BearerAuth
// @Router       /dashboards/{id}/data [get]
func (h *DashboardHandler) Data(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	data, err := h.dashboardService.Data(c.Request.Context(), tenantID, userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, data)
}
