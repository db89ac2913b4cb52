package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/models"
	"finance4all/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a new budget for an expense category
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body services.CreateBudgetInput true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     401 {object} middleware.ErrorResponse "Unauthenticated"
// @Failure     404 {object} middleware.ErrorResponse "Category not found"
// @Failure     500 {object} middleware.ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var in services.CreateBudgetInput
	if err := bindJSON(c, &in); err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles listing budgets for the authenticated user.
// @Summary     Get budgets
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       is_active query bool   false "Filter by active status"
// @Param       period    query string false "WEEKLY, MONTHLY, QUARTERLY or YEARLY"
// @Success     200 {object} map[string][]models.Budget
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     401 {object} middleware.ErrorResponse "Unauthenticated"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var filter services.BudgetFilter
	if filter.IsActive, err = queryBool(c, "is_active"); err != nil {
		respondWithError(c, err)
		return
	}

	if v := c.Query("period"); v != "" {
		p := models.BudgetPeriod(v)
		if !p.IsValid() {
			respondWithError(c, apperrors.WithFields([]apperrors.FieldError{{
				Field:   "period",
				Message: "must be one of WEEKLY, MONTHLY, QUARTERLY, YEARLY",
			}}))
			return
		}
		filter.Period = &p
	}

	budgets, err := h.budgetService.GetUserBudgets(c.Request.Context(), userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     403 {object} middleware.ErrorResponse "Not the owner"
// @Failure     404 {object} middleware.ErrorResponse "Budget not found"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles updating an existing budget.
// @Summary     Update budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                     true "Budget ID"
// @Param       request body services.UpdateBudgetInput true "Updated budget details"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     404 {object} middleware.ErrorResponse "Budget not found"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var in services.UpdateBudgetInput
	if err := bindJSON(c, &in); err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Tags        budgets
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     204
// @Failure     404 {object} middleware.ErrorResponse "Budget not found"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetBudgetProgress handles retrieving spending progress for a budget.
// @Summary     Get budget progress
// @Description Spending against the budget for the current period window
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} services.BudgetProgress
// @Failure     404 {object} middleware.ErrorResponse "Budget not found"
// @Router      /budgets/{id}/progress [get]
func (h *BudgetHandler) GetBudgetProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	progress, err := h.budgetService.GetBudgetProgress(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}
