package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "finance4all/internal/errors"
)

// PipelineAuthMiddleware creates a Gin middleware that validates the X-API-Key
// header against the configured pipeline API key.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithError(c, apperrors.ErrPipelineOff)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
