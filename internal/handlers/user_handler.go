package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/middleware"
	"finance4all/internal/services"
)

// UserHandler handles profile registration and lookup.
type UserHandler struct {
	userService services.UserServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser registers the caller's profile from their verified token.
// @Summary     Register profile
// @Description Create the stored profile for the authenticated identity
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body services.CreateUserInput true "Profile details"
// @Success     201 {object} models.User
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     401 {object} middleware.ErrorResponse "Unauthenticated"
// @Failure     409 {object} middleware.ErrorResponse "Already registered"
// @Router      /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		respondWithError(c, apperrors.ErrUnauthenticated)
		return
	}

	var in services.CreateUserInput
	if err := bindJSON(c, &in); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), identity.Claims, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// GetProfile returns the caller's stored profile.
// @Summary     Get profile
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.User
// @Failure     401 {object} middleware.ErrorResponse "Unauthenticated"
// @Failure     404 {object} middleware.ErrorResponse "Not registered"
// @Router      /profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), identity, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
