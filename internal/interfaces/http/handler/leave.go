package handler

import (
	"context"

	hrapp "github.com/erp/platform/internal/application/hr"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LeaveHandler handles leave request HTTP requests
type LeaveHandler struct {
	BaseHandler
	leaveService *hrapp.LeaveService
}

// NewLeaveHandler creates a new leave handler
func NewLeaveHandler(leaveService *hrapp.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

// List godoc
// @ID           listLeaves
// @Summary      List leave requests
// @Tags         leaves
// @Produce      json
// @Param        params query hrapp.LeaveListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]hrapp.LeaveResponse}
// @Security     BearerAuth
// @Router       /leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f hrapp.LeaveListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	leaves, total, err := h.leaveService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, leaves, total, f.ToFilter())
}

// GetByID godoc
// @ID           getLeaveById
// @Summary      Get a leave request
// @Tags         leaves
// @Produce      json
// @Param        id path string true "Leave request ID" format(uuid)
// @Success      200 {object} dto.Response{data=hrapp.LeaveResponse}
// @Security     BearerAuth
// @Router       /leaves/{id} [get]
func (h *LeaveHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	leave, err := h.leaveService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, leave)
}

// Create godoc
// @ID           createLeave
// @Summary      Request leave
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Param        request body hrapp.CreateLeaveRequest true "Leave"
// @Success      201 {object} dto.Response{data=hrapp.LeaveResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /leaves [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	var req hrapp.CreateLeaveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	leave, err := h.leaveService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, leave)
}

// Approve godoc
// @ID           approveLeave
// @Summary      Approve a pending leave request
// @Description  Annual leave is checked against the remaining entitlement of the year.
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Param        id path string true "Leave request ID" format(uuid)
// @Param        request body hrapp.ReviewLeaveRequest false "Review notes"
// @Success      200 {object} dto.Response{data=hrapp.LeaveResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /leaves/{id}/approve [post]
func (h *LeaveHandler) Approve(c *gin.Context) {
	h.review(c, h.leaveService.Approve)
}

// Reject godoc
// @ID           rejectLeave
// @Summary      Reject a pending leave request
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Param        id path string true "Leave request ID" format(uuid)
// @Param        request body hrapp.ReviewLeaveRequest false "Review notes"
// @Success      200 {object} dto.Response{data=hrapp.LeaveResponse}
// @Security     BearerAuth
// @Router       /leaves/{id}/reject [post]
func (h *LeaveHandler) Reject(c *gin.Context) {
	h.review(c, h.leaveService.Reject)
}

type leaveReviewFunc func(ctx context.Context, tenantID, reviewerID, leaveID uuid.UUID, req hrapp.ReviewLeaveRequest) (*hrapp.LeaveResponse, error)

// review runs approve or reject; the notes body is optional
func (h *LeaveHandler) review(c *gin.Context, fn leaveReviewFunc) {
	tenantID, reviewerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.ReviewLeaveRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	leave, err := fn(c.Request.Context(), tenantID, reviewerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, leave)
}

// Cancel godoc
// @ID           cancelLeave
// @Summary      Cancel a leave request before it starts
// @Tags         leaves
// @Produce      json
// @Param        id path string true "Leave request ID" format(uuid)
// @Success      200 {object} dto.Response{data=hrapp.LeaveResponse}
// @Security     BearerAuth
// @Router       /leaves/{id}/cancel [post]
func (h *LeaveHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	leave, err := h.leaveService.Cancel(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, leave)
}
