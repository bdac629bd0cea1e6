package handler

import (
	accountsapp "github.com/erp/platform/internal/application/accounts"
	"github.com/gin-gonic/gin"
)

// OrganizationHandler serves the caller's own organization profile
type OrganizationHandler struct {
	BaseHandler
	orgService *accountsapp.OrganizationService
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgService *accountsapp.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// Get godoc
// @ID           getOrganization
// @Summary      Current organization
// @Tags         organization
// @Produce      json
// @Success      200 {object} dto.Response{data=accountsapp.OrganizationResponse}
// @Security     BearerAuth
// @Router       /organization [get]
func (h *OrganizationHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	org, err := h.orgService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// Update godoc
// @ID           updateOrganization
// @Summary      Update the organization profile
// @Description  Admin only
// @Tags         organization
// @Accept       json
// @Produce      json
// @Param        request body accountsapp.UpdateOrganizationRequest true "Profile"
// @Success      200 {object} dto.Response{data=accountsapp.OrganizationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organization [put]
func (h *OrganizationHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req accountsapp.UpdateOrganizationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	org, err := h.orgService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}
