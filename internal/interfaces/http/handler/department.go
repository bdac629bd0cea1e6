package handler

import (
	hrapp "github.com/erp/platform/internal/application/hr"
	"github.com/gin-gonic/gin"
)

// DepartmentHandler handles department HTTP requests
type DepartmentHandler struct {
	BaseHandler
	departmentService *hrapp.DepartmentService
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(departmentService *hrapp.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService}
}

// List godoc
// @ID           listDepartments
// @Summary      List departments
// @Tags         departments
// @Produce      json
// @Param        params query hrapp.DepartmentListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]hrapp.DepartmentResponse}
// @Security     BearerAuth
// @Router       /departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f hrapp.DepartmentListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	departments, total, err := h.departmentService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, departments, total, f.ToFilter())
}

// GetByID godoc
// @ID           getDepartmentById
// @Summary      Get a department
// @Tags         departments
// @Produce      json
// @Param        id path string true "Department ID" format(uuid)
// @Success      200 {object} dto.Response{data=hrapp.DepartmentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /departments/{id} [get]
func (h *DepartmentHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	department, err := h.departmentService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, department)
}

// Create godoc
// @ID           createDepartment
// @Summary      Create a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Param        request body hrapp.DepartmentRequest true "Department"
// @Success      201 {object} dto.Response{data=hrapp.DepartmentResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /departments [post]
func (h *DepartmentHandler) Create(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	var req hrapp.DepartmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	department, err := h.departmentService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, department)
}

// Update godoc
// @ID           updateDepartment
// @Summary      Update a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Param        id path string true "Department ID" format(uuid)
// @Param        request body hrapp.DepartmentRequest true "Department"
// @Success      200 {object} dto.Response{data=hrapp.DepartmentResponse}
// @Security     BearerAuth
// @Router       /departments/{id} [put]
func (h *DepartmentHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.DepartmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	department, err := h.departmentService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, department)
}

// Delete godoc
// @ID           deleteDepartment
// @Summary      Deactivate a department
// @Tags         departments
// @Param        id path string true "Department ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /departments/{id} [delete]
func (h *DepartmentHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.departmentService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
