// internal/identity/middleware.go
//
// Attach middleware resolves the caller's identity once per request.
//
// A missing or invalid token is not an error here — create accepts
// anonymous callers, and read-only endpoints never need identity.  The
// middleware simply leaves the context empty; handlers that require a
// verified caller fail with 401 when UserID reports none.
package identity

import (
	"net/http"

	"go.uber.org/zap"
)

// Attach wraps next so every downstream handler can call UserID(ctx).
func Attach(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := FromHeader(r.Header.Get("Authorization"))
			if tok == "" {
				next.ServeHTTP(w, r)
				return
			}

			uid, err := v.Verify(tok)
			if err != nil {
				// Invalid credential: proceed anonymous.  Handlers that
				// need identity will reject with 401.
				zap.L().Debug("bearer token rejected", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), uid)))
		})
	}
}
