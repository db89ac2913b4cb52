package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/models"
	"finance4all/internal/services"
)

// CategoryHandler handles category-related requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategory handles the creation of a new category.
// @Summary     Create a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body services.CreateCategoryInput true "Category details"
// @Success     201 {object} models.Category
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     409 {object} middleware.ErrorResponse "Duplicate name"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var in services.CreateCategoryInput
	if err := bindJSON(c, &in); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetUserCategories handles listing the caller's categories and the defaults.
// @Summary     List categories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       type query string false "INCOME or EXPENSE"
// @Success     200 {object} map[string][]models.Category
// @Failure     400 {object} middleware.ErrorResponse "Invalid type"
// @Router      /categories [get]
func (h *CategoryHandler) GetUserCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var categoryType *models.CategoryType
	if v := c.Query("type"); v != "" {
		t := models.CategoryType(v)
		if !t.IsValid() {
			respondWithError(c, apperrors.WithFields([]apperrors.FieldError{{Field: "type", Message: "must be INCOME or EXPENSE"}}))
			return
		}
		categoryType = &t
	}

	categories, err := h.categoryService.GetUserCategories(c.Request.Context(), userID, categoryType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategoryByID handles retrieving a single category.
// @Summary     Get category by ID
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} models.Category
// @Failure     404 {object} middleware.ErrorResponse "Category not found"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory handles changing a category. Default categories are read-only.
// @Summary     Update category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                       true "Category ID"
// @Param       request body services.UpdateCategoryInput true "Fields to change"
// @Success     200 {object} models.Category
// @Failure     403 {object} middleware.ErrorResponse "Default or foreign category"
// @Failure     404 {object} middleware.ErrorResponse "Category not found"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var in services.UpdateCategoryInput
	if err := bindJSON(c, &in); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles removing a category. Its transactions become
// uncategorized and its budgets are removed.
// @Summary     Delete category
// @Tags        categories
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     204
// @Failure     403 {object} middleware.ErrorResponse "Default or foreign category"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
