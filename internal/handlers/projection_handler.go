package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finance4all/internal/services"
)

// ProjectionHandler handles saved projection scenarios.
type ProjectionHandler struct {
	projectionService services.ProjectionServicer
}

// NewProjectionHandler creates a new ProjectionHandler.
func NewProjectionHandler(projectionService services.ProjectionServicer) *ProjectionHandler {
	return &ProjectionHandler{projectionService: projectionService}
}

// CreateProjection saves a scenario.
// @Summary     Create a projection scenario
// @Tags        projections
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body services.CreateProjectionInput true "Scenario"
// @Success     201 {object} models.Projection
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Router      /projections [post]
func (h *ProjectionHandler) CreateProjection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var in services.CreateProjectionInput
	if err := bindJSON(c, &in); err != nil {
		respondWithError(c, err)
		return
	}

	projection, err := h.projectionService.CreateProjection(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"projection": projection})
}

// GetProjections lists the caller's scenarios.
// @Summary     List projection scenarios
// @Tags        projections
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.Projection
// @Router      /projections [get]
func (h *ProjectionHandler) GetProjections(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projections, err := h.projectionService.GetUserProjections(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projections": projections})
}

// GetProjection returns one scenario.
// @Summary     Get projection scenario
// @Tags        projections
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Projection ID"
// @Success     200 {object} models.Projection
// @Failure     404 {object} middleware.ErrorResponse "Projection not found"
// @Router      /projections/{id} [get]
func (h *ProjectionHandler) GetProjection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projection, err := h.projectionService.GetProjectionByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projection": projection})
}

// UpdateProjection changes a scenario.
// @Summary     Update projection scenario
// @Tags        projections
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                         true "Projection ID"
// @Param       request body services.UpdateProjectionInput true "Fields to change"
// @Success     200 {object} models.Projection
// @Failure     404 {object} middleware.ErrorResponse "Projection not found"
// @Router      /projections/{id} [put]
func (h *ProjectionHandler) UpdateProjection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var in services.UpdateProjectionInput
	if err := bindJSON(c, &in); err != nil {
		respondWithError(c, err)
		return
	}

	projection, err := h.projectionService.UpdateProjection(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projection": projection})
}

// DeleteProjection removes a scenario.
// @Summary     Delete projection scenario
// @Tags        projections
// @Security    BearerAuth
// @Param       id path string true "Projection ID"
// @Success     204
// @Router      /projections/{id} [delete]
func (h *ProjectionHandler) DeleteProjection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.projectionService.DeleteProjection(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RunProjection runs the engine with a saved scenario.
// @Summary     Run projection scenario
// @Tags        projections
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Projection ID"
// @Success     200 {object} finance.Projection
// @Failure     404 {object} middleware.ErrorResponse "Projection not found"
// @Router      /projections/{id}/run [post]
func (h *ProjectionHandler) RunProjection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.projectionService.Run(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projection": result})
}
