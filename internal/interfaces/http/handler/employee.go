package handler

import (
	hrapp "github.com/erp/platform/internal/application/hr"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler handles employee HTTP requests
type EmployeeHandler struct {
	BaseHandler
	employeeService *hrapp.EmployeeService
	leaveService    *hrapp.LeaveService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *hrapp.EmployeeService, leaveService *hrapp.LeaveService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService, leaveService: leaveService}
}

// leaveBalanceQuery selects the year of a leave balance; zero means the current year
type leaveBalanceQuery struct {
	Year int `form:"year" binding:"omitempty,min=1900,max=2200"`
}

// List godoc
// @ID           listEmployees
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Param        params query hrapp.EmployeeListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]hrapp.EmployeeResponse}
// @Security     BearerAuth
// @Router       /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f hrapp.EmployeeListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	employees, total, err := h.employeeService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, employees, total, f.PageParams.Filter())
}

// GetByID godoc
// @ID           getEmployeeById
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} dto.Response{data=hrapp.EmployeeResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	employee, err := h.employeeService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Create godoc
// @ID           createEmployee
// @Summary      Hire an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        request body hrapp.EmployeeRequest true "Employee"
// @Success      201 {object} dto.Response{data=hrapp.EmployeeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	var req hrapp.EmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, employee)
}

// Update godoc
// @ID           updateEmployee
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Param        request body hrapp.EmployeeRequest true "Employee"
// @Success      200 {object} dto.Response{data=hrapp.EmployeeResponse}
// @Security     BearerAuth
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.EmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Terminate godoc
// @ID           terminateEmployee
// @Summary      Terminate an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Param        request body hrapp.TerminateEmployeeRequest true "Termination"
// @Success      200 {object} dto.Response{data=hrapp.EmployeeResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees/{id}/terminate [post]
func (h *EmployeeHandler) Terminate(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.TerminateEmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	employee, err := h.employeeService.Terminate(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Delete godoc
// @ID           deleteEmployee
// @Summary      Terminate an employee as of today
// @Tags         employees
// @Param        id path string true "Employee ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.employeeService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// LeaveBalance godoc
// @ID           getEmployeeLeaveBalance
// @Summary      Annual leave balance
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Param        year query int false "Calendar year, defaults to the current one"
// @Success      200 {object} dto.Response{data=hrapp.LeaveBalanceResponse}
// @Security     BearerAuth
// @Router       /employees/{id}/leave-balance [get]
func (h *EmployeeHandler) LeaveBalance(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var q leaveBalanceQuery
	if !h.bindQuery(c, &q) {
		return
	}

	balance, err := h.leaveService.Balance(c.Request.Context(), tenantID, id, q.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}
