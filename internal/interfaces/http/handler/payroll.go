package handler

import (
	hrapp "github.com/erp/platform/internal/application/hr"
	"github.com/gin-gonic/gin"
)

// PayrollHandler handles payroll HTTP requests
type PayrollHandler struct {
	BaseHandler
	payrollService *hrapp.PayrollService
}

// NewPayrollHandler creates a new payroll handler
func NewPayrollHandler(payrollService *hrapp.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// List godoc
// @ID           listPayrolls
// @Summary      List payrolls
// @Tags         payrolls
// @Produce      json
// @Param        params query hrapp.PayrollListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]hrapp.PayrollResponse}
// @Security     BearerAuth
// @Router       /payrolls [get]
func (h *PayrollHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f hrapp.PayrollListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	payrolls, total, err := h.payrollService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, payrolls, total, f.PageParams.Filter())
}

// GetByID godoc
// @ID           getPayrollById
// @Summary      Get a payroll
// @Tags         payrolls
// @Produce      json
// @Param        id path string true "Payroll ID" format(uuid)
// @Success      200 {object} dto.Response{data=hrapp.PayrollResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payrolls/{id} [get]
func (h *PayrollHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	payroll, err := h.payrollService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payroll)
}

// Create godoc
// @ID           createPayroll
// @Summary      Create a draft payroll
// @Description  One non-cancelled payroll per employee and period.
// @Tags         payrolls
// @Accept       json
// @Produce      json
// @Param        request body hrapp.CreatePayrollRequest true "Payroll"
// @Success      201 {object} dto.Response{data=hrapp.PayrollResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payrolls [post]
func (h *PayrollHandler) Create(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	var req hrapp.CreatePayrollRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payroll, err := h.payrollService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payroll)
}

// Update godoc
// @ID           updatePayroll
// @Summary      Update a draft payroll
// @Tags         payrolls
// @Accept       json
// @Produce      json
// @Param        id path string true "Payroll ID" format(uuid)
// @Param        request body hrapp.UpdatePayrollRequest true "Amounts"
// @Success      200 {object} dto.Response{data=hrapp.PayrollResponse}
// @Security     BearerAuth
// @Router       /payrolls/{id} [put]
func (h *PayrollHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.UpdatePayrollRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payroll, err := h.payrollService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payroll)
}

// Approve godoc
// @ID           approvePayroll
// @Summary      Approve a payroll
// @Tags         payrolls
// @Produce      json
// @Param        id path string true "Payroll ID" format(uuid)
// @Success      200 {object} dto.Response{data=hrapp.PayrollResponse}
// @Security     BearerAuth
// @Router       /payrolls/{id}/approve [post]
func (h *PayrollHandler) Approve(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	payroll, err := h.payrollService.Approve(c.Request.Context(), tenantID, actorID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payroll)
}

// Pay godoc
// @ID           payPayroll
// @Summary      Mark an approved payroll paid
// @Tags         payrolls
// @Accept       json
// @Produce      json
// @Param        id path string true "Payroll ID" format(uuid)
// @Param        request body hrapp.PayPayrollRequest true "Payment reference"
// @Success      200 {object} dto.Response{data=hrapp.PayrollResponse}
// @Security     BearerAuth
// @Router       /payrolls/{id}/pay [post]
func (h *PayrollHandler) Pay(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.PayPayrollRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payroll, err := h.payrollService.Pay(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payroll)
}

// Cancel godoc
// @ID           cancelPayroll
// @Summary      Cancel a payroll
// @Tags         payrolls
// @Produce      json
// @Param        id path string true "Payroll ID" format(uuid)
// @Success      200 {object} dto.Response{data=hrapp.PayrollResponse}
// @Security     BearerAuth
// @Router       /payrolls/{id}/cancel [post]
func (h *PayrollHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	payroll, err := h.payrollService.Cancel(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payroll)
}

// Delete godoc
// @ID           deletePayroll
// @Summary      Cancel a payroll
// @Description  Payrolls are never removed; DELETE cancels a draft or approved payroll.
// @Tags         payrolls
// @Param        id path string true "Payroll ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payrolls/{id} [delete]
func (h *PayrollHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.payrollService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
