// internal/identity/context.go
//
// Request-scoped caller identity.
//
// Usage
// -----
//     // Attach the verified user to the request context (middleware).
//     ctx = identity.WithUser(ctx, "u-123")
//
//     // Downstream code retrieves the ID.
//     id, ok := identity.UserID(ctx)   // "u-123", true
//
// Only the Attach middleware writes this value, and only after Verifier
// accepted the token, so presence in context implies a verified identity.
package identity

import "context"

// userKey is unexported to avoid context-key collisions.
type userKey struct{}

// WithUser returns a new context carrying the verified user id.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserID extracts the verified user id from ctx.  It returns ("", false)
// when the request was anonymous.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey{}).(string)
	return id, ok && id != ""
}
