package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"finance4all/internal/auth"
	apperrors "finance4all/internal/errors"
	"finance4all/internal/logger"
	"finance4all/internal/models"
)

const (
	identityKey = "identity"
	userIDKey   = "userID"
)

// UserLookup resolves the stored profile for a verified Firebase UID.
type UserLookup interface {
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
}

// Authenticate verifies the bearer token and stores the caller's identity in
// both the Gin context and the request context. In required mode a missing
// or rejected token ends the request with UNAUTHENTICATED; otherwise the
// request continues anonymously and resolvers decide.
func Authenticate(verifier auth.Verifier, users UserLookup, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if required {
				abortWithError(c, apperrors.ErrUnauthenticated)
				return
			}
			c.Next()
			return
		}

		ctx := c.Request.Context()
		claims, err := verifier.Verify(ctx, token)
		if err != nil {
			logger.Get().Debugw("token rejected", "error", err, "path", c.Request.URL.Path)
			if required {
				abortWithError(c, apperrors.ErrUnauthenticated)
				return
			}
			c.Next()
			return
		}

		user, err := users.GetUserByFirebaseUID(ctx, claims.UID)
		if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
			abortWithError(c, err)
			return
		}

		identity := auth.NewIdentity(*claims, user)
		c.Set(identityKey, identity)
		if identity.Registered() {
			c.Set(userIDKey, identity.UserID())
		}
		c.Request = c.Request.WithContext(auth.WithIdentity(ctx, identity))
		c.Next()
	}
}

// RequireUser rejects callers that have a valid token but no stored profile.
// It must run after Authenticate.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			abortWithError(c, apperrors.ErrUnauthenticated)
			return
		}
		if !identity.Registered() {
			abortWithError(c, apperrors.ErrUserNotRegistered)
			return
		}
		c.Next()
	}
}

// GetIdentity returns the identity set by Authenticate, or nil.
func GetIdentity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*auth.Identity)
	return identity
}

// GetUserID returns the registered caller's user id, or "".
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
