package handler

import (
	hrapp "github.com/erp/platform/internal/application/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// PolicyHandler handles company policy HTTP requests
type PolicyHandler struct {
	BaseHandler
	policyService *hrapp.PolicyService
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(policyService *hrapp.PolicyService) *PolicyHandler {
	return &PolicyHandler{policyService: policyService}
}

// List godoc
// @ID           listPolicies
// @Summary      List policies
// @Tags         policies
// @Produce      json
// @Param        params query hrapp.PolicyListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]hrapp.PolicyResponse}
// @Security     BearerAuth
// @Router       /policies [get]
func (h *PolicyHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f hrapp.PolicyListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	policies, total, err := h.policyService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, policies, total, f.ToFilter())
}

// GetByID godoc
// @ID           getPolicyById
// @Summary      Get a policy
// @Tags         policies
// @Produce      json
// @Param        id path string true "Policy ID" format(uuid)
// @Success      200 {object} dto.Response{data=hrapp.PolicyResponse}
// @Security     BearerAuth
// @Router       /policies/{id} [get]
func (h *PolicyHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	policy, err := h.policyService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, policy)
}

// Create godoc
// @ID           createPolicy
// @Summary      Create a draft policy
// @Tags         policies
// @Accept       json
// @Produce      json
// @Param        request body hrapp.PolicyRequest true "Policy"
// @Success      201 {object} dto.Response{data=hrapp.PolicyResponse}
// @Security     BearerAuth
// @Router       /policies [post]
func (h *PolicyHandler) Create(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	var req hrapp.PolicyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	policy, err := h.policyService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, policy)
}

// Update godoc
// @ID           updatePolicy
// @Summary      Update a policy
// @Tags         policies
// @Accept       json
// @Produce      json
// @Param        id path string true "Policy ID" format(uuid)
// @Param        request body hrapp.PolicyRequest true "Policy"
// @Success      200 {object} dto.Response{data=hrapp.PolicyResponse}
// @Security     BearerAuth
// @Router       /policies/{id} [put]
func (h *PolicyHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.PolicyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	policy, err := h.policyService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, policy)
}

// Delete godoc
// @ID           deletePolicy
// @Summary      Archive a policy
// @Tags         policies
// @Param        id path string true "Policy ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /policies/{id} [delete]
func (h *PolicyHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.policyService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Publish godoc
// @ID           publishPolicy
// @Summary      Publish a draft policy
// @Tags         policies
// @Produce      json
// @Param        id path string true "Policy ID" format(uuid)
// @Success      200 {object} dto.Response{data=hrapp.PolicyResponse}
// @Security     BearerAuth
// @Router       /policies/{id}/publish [post]
func (h *PolicyHandler) Publish(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	policy, err := h.policyService.Publish(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, policy)
}

// Archive godoc
// @ID           archivePolicy
// @Summary      Archive a policy
// @Tags         policies
// @Produce      json
// @Param        id path string true "Policy ID" format(uuid)
// @Success      200 {object} dto.Response{data=hrapp.PolicyResponse}
// @Security     BearerAuth
// @Router       /policies/{id}/archive [post]
func (h *PolicyHandler) Archive(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	policy, err := h.policyService.Archive(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, policy)
}

// Acknowledge godoc
// @ID           acknowledgePolicy
// @Summary      Record that an employee acknowledged a published policy
// @Description  Once per employee and policy version.
// @Tags         policies
// @Accept       json
// @Produce      json
// @Param        id path string true "Policy ID" format(uuid)
// @Param        request body hrapp.AcknowledgePolicyRequest true "Employee"
// @Success      201 {object} dto.Response{data=hrapp.AcknowledgmentResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /policies/{id}/acknowledge [post]
func (h *PolicyHandler) Acknowledge(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.AcknowledgePolicyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.IPAddress = c.ClientIP()

	ack, err := h.policyService.Acknowledge(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ack)
}

// Acknowledgments godoc
// @ID           listPolicyAcknowledgments
// @Summary      List acknowledgments of a policy
// @Tags         policies
// @Produce      json
// @Param        id path string true "Policy ID" format(uuid)
// @Param        params query shared.PageParams false "Paging"
// @Success      200 {object} dto.Response{data=[]hrapp.AcknowledgmentResponse}
// @Security     BearerAuth
// @Router       /policies/{id}/acknowledgments [get]
func (h *PolicyHandler) Acknowledgments(c *gin.Context) {
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

	acks, total, err := h.policyService.Acknowledgments(c.Request.Context(), tenantID, id, page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, acks, total, page.Filter())
}
