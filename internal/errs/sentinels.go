// Package errs contains sentinel errors used across layers for stable error
// mapping.  Repositories and services wrap these with fmt.Errorf("%w") so the
// HTTP layer can translate them into status codes without string matching.
package errs

import "errors"

// Common sentinels across repo/service/handler layers.
var (
	// ErrValidation indicates missing or malformed required input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates the caller presented no verifiable identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates a verified identity that does not own the
	// targeted record.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInternal indicates a storage or asset failure.  Details are logged,
	// never surfaced to the caller.
	ErrInternal = errors.New("internal error")
)
