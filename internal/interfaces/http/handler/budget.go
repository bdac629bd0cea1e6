package handler

import (
	financeapp "github.com/erp/platform/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	BaseHandler
	budgetService *financeapp.BudgetService
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService *financeapp.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// List godoc
// @ID           listBudgets
// @Summary      List budgets
// @Tags         budgets
// @Produce      json
// @Param        params query financeapp.BudgetListFilter false "Query parameters"
// @Success      200 {object} dto.Response{data=[]financeapp.BudgetResponse}
// @Security     BearerAuth
// @Router       /budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f financeapp.BudgetListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	budgets, total, err := h.budgetService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, budgets, total, f.PageParams.Filter())
}

// GetByID godoc
// @ID           getBudgetById
// @Summary      Get a budget
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.BudgetResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets/{id} [get]
func (h *BudgetHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	budget, err := h.budgetService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, budget)
}

// Create godoc
// @ID           createBudget
// @Summary      Create a draft budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateBudgetRequest true "Budget"
// @Success      201 {object} dto.Response{data=financeapp.BudgetResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	var req financeapp.CreateBudgetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	budget, err := h.budgetService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, budget)
}

// Update godoc
// @ID           updateBudget
// @Summary      Update a draft budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id path string true "Budget ID" format(uuid)
// @Param        request body financeapp.UpdateBudgetRequest true "Changes"
// @Success      200 {object} dto.Response{data=financeapp.BudgetResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdateBudgetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	budget, err := h.budgetService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, budget)
}

// Delete godoc
// @ID           deleteBudget
// @Summary      Cancel a draft budget
// @Tags         budgets
// @Param        id path string true "Budget ID" format(uuid)
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.budgetService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddItem godoc
// @ID           addBudgetItem
// @Summary      Add a budget line
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id path string true "Budget ID" format(uuid)
// @Param        request body financeapp.BudgetItemInput true "Item"
// @Success      201 {object} dto.Response{data=financeapp.BudgetResponse}
// @Security     BearerAuth
// @Router       /budgets/{id}/items [post]
func (h *BudgetHandler) AddItem(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.BudgetItemInput
	if !h.bindJSON(c, &req) {
		return
	}

	budget, err := h.budgetService.AddItem(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, budget)
}

// UpdateItem godoc
// @ID           updateBudgetItem
// @Summary      Update a budget line
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id path string true "Budget ID" format(uuid)
// @Param        itemId path string true "Item ID" format(uuid)
// @Param        request body financeapp.BudgetItemInput true "Item"
// @Success      200 {object} dto.Response{data=financeapp.BudgetResponse}
// @Security     BearerAuth
// @Router       /budgets/{id}/items/{itemId} [put]
func (h *BudgetHandler) UpdateItem(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "itemId")
	if !ok {
		return
	}
	var req financeapp.BudgetItemInput
	if !h.bindJSON(c, &req) {
		return
	}

	budget, err := h.budgetService.UpdateItem(c.Request.Context(), tenantID, id, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, budget)
}

// RemoveItem godoc
// @ID           removeBudgetItem
// @Summary      Remove a budget line
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID" format(uuid)
// @Param        itemId path string true "Item ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.BudgetResponse}
// @Security     BearerAuth
// @Router       /budgets/{id}/items/{itemId} [delete]
func (h *BudgetHandler) RemoveItem(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "itemId")
	if !ok {
		return
	}

	budget, err := h.budgetService.RemoveItem(c.Request.Context(), tenantID, id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, budget)
}

// Approve godoc
// @ID           approveBudget
// @Summary      Approve a draft budget
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.BudgetResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets/{id}/approve [post]
func (h *BudgetHandler) Approve(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	budget, err := h.budgetService.Approve(c.Request.Context(), tenantID, actorID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, budget)
}

// RecordExpense godoc
// @ID           recordBudgetExpense
// @Summary      Record spend against a budget line
// @Description  Spend beyond the planned total is accepted and flags the budget as over budget.
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id path string true "Budget ID" format(uuid)
// @Param        request body financeapp.RecordExpenseRequest true "Expense"
// @Success      200 {object} dto.Response{data=financeapp.BudgetResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets/{id}/expenses [post]
func (h *BudgetHandler) RecordExpense(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.RecordExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	budget, err := h.budgetService.RecordExpense(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, budget)
}

// Close godoc
// @ID           closeBudget
// @Summary      Close an approved budget
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.BudgetResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets/{id}/close [post]
func (h *BudgetHandler) Close(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	budget, err := h.budgetService.Close(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, budget)
}
