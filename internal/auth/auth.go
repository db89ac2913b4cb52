// Package auth verifies bearer tokens and carries the caller's identity
// through the request context.
package auth

import (
	"context"
	"errors"
	"strings"

	"finance4all/internal/models"
)

// ErrInvalidToken is returned by verifiers for any token they reject.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the fields of a verified identity token that the service uses.
// Role is resolved once at verification time; HasRole records whether the
// token carried a role claim at all.
type Claims struct {
	UID     string
	Email   string
	Role    models.Role
	HasRole bool
}

// Verifier checks a raw bearer token and returns its claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// claimsFromMap builds Claims from a decoded claim set.
func claimsFromMap(uid string, m map[string]interface{}) *Claims {
	c := &Claims{UID: uid, Role: models.RoleUser}
	if email, ok := m["email"].(string); ok {
		c.Email = email
	}
	if role, ok := m["role"].(string); ok && role != "" {
		c.Role = models.ParseRole(role)
		c.HasRole = true
	}
	return c
}

// BearerToken extracts the token from an Authorization header value.
// It returns "" when the header is missing or not a bearer credential.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Identity is the authenticated caller. User is nil until the caller has
// registered a profile.
type Identity struct {
	Claims Claims
	User   *models.User
	Role   models.Role
}

// NewIdentity combines verified claims with the stored user, if any. A role
// claim on the token wins; otherwise the stored role applies.
func NewIdentity(claims Claims, user *models.User) *Identity {
	role := models.RoleUser
	switch {
	case claims.HasRole:
		role = claims.Role
	case user != nil && user.Role != "":
		role = user.Role
	}
	return &Identity{Claims: claims, User: user, Role: role}
}

// IsAdmin reports whether the caller holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

// Registered reports whether the caller has a stored profile.
func (i *Identity) Registered() bool {
	return i != nil && i.User != nil
}

// UserID returns the stored user's id, or "" when unregistered.
func (i *Identity) UserID() string {
	if i == nil || i.User == nil {
		return ""
	}
	return i.User.ID
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
