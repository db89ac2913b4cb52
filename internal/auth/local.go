package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LocalIssuer is the issuer of tokens minted by IssueLocalToken.
const LocalIssuer = "finance4all-local"

// localClaims mirrors the claim layout of a Firebase ID token closely enough
// that the rest of the service cannot tell the two apart.
type localClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// LocalVerifier verifies HS256 tokens signed with a shared secret. It stands
// in for Firebase during local development and tests.
type LocalVerifier struct {
	secret []byte
}

// NewLocalVerifier returns a verifier for tokens signed with secret.
func NewLocalVerifier(secret string) (*LocalVerifier, error) {
	if secret == "" {
		return nil, errors.New("local auth secret must not be empty")
	}
	return &LocalVerifier{secret: []byte(secret)}, nil
}

// Verify parses and validates a locally issued token.
func (v *LocalVerifier) Verify(_ context.Context, token string) (*Claims, error) {
	claims := &localClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(LocalIssuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	m := map[string]interface{}{"email": claims.Email}
	if claims.Role != "" {
		m["role"] = claims.Role
	}
	return claimsFromMap(claims.Subject, m), nil
}

// IssueLocalToken signs a token that LocalVerifier accepts. An empty role
// leaves the role claim out.
func IssueLocalToken(secret, uid, email, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("local auth secret must not be empty")
	}
	now := time.Now()
	claims := &localClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    LocalIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
