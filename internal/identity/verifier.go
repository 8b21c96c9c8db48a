// internal/identity/verifier.go
//
// Verified caller identity.
//
// Context
// -------
// Authentication itself is delegated to an external identity provider that
// issues HS256 JWTs.  This package owns the *verified* "who is calling"
// check: every authorization-sensitive operation (claiming or mutating a
// site) must validate the token signature and expiry here — a locally
// cached session is never enough for the Forbidden/Unauthorized decisions.
//
// The subject (`sub`) claim is the stable user identifier.
package identity

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/keystoneweb/keystone/internal/errs"
)

// Verifier validates bearer tokens issued by the identity provider.
type Verifier struct {
	secret []byte
}

// NewVerifier returns a Verifier for the shared HS256 signing secret.
func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// Verify checks the token's signature and registered claims and returns the
// caller's user id.  Any failure maps to errs.ErrUnauthorized; the cause is
// wrapped for logging but callers must not branch on it.
func (v *Verifier) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errs.ErrUnauthorized
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", errs.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: unreadable claims", errs.ErrUnauthorized)
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: missing sub claim", errs.ErrUnauthorized)
	}
	return sub, nil
}

// FromHeader extracts the bearer token from an Authorization header value.
// Returns "" when the header is absent or not a Bearer scheme.
func FromHeader(authorization string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		return ""
	}
	return strings.TrimSpace(authorization[len(prefix):])
}
