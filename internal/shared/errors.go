package shared

import "errors"

// Sentinel errors for the domain layer. Services wrap these with
// user-facing wording; handlers match on them with errors.Is.
var (
	// ErrNotFound indicates a referenced entity is absent.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates a missing or invalid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates an authenticated caller that does not own the record.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrLimitExceeded indicates the guardian cap was reached.
	ErrLimitExceeded = errors.New("limit exceeded")
	// ErrConflict indicates a duplicate registration email.
	ErrConflict = errors.New("conflict")
	// ErrTransport indicates an SMS send failed.
	ErrTransport = errors.New("transport failure")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
