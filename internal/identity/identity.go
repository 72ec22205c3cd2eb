// Package identity resolves the calling user from access tokens issued by
// the auth backend. The engine itself never authenticates anyone; it only
// requires that every mutating operation arrives with a resolved user id.
package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated is returned when no usable identity is present
var ErrUnauthenticated = errors.New("identity: unauthenticated")

// Resolver verifies HMAC-signed access tokens and extracts the user id
// from the subject claim
type Resolver struct {
	secret []byte
}

// NewResolver creates a resolver for tokens signed with the given secret
func NewResolver(secret string) *Resolver {
	return &Resolver{secret: []byte(secret)}
}

// UserID verifies the token and returns its subject. Expired tokens, bad
// signatures and tokens without a subject all resolve to ErrUnauthenticated.
func (r *Resolver) UserID(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrUnauthenticated
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrUnauthenticated
	}

	return subject, nil
}
