package shared

import "errors"

var (
	// ErrUnauthenticated indicates no resolvable user on a mutating call.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a duplicate name or code.
	ErrConflict = errors.New("already exists")
	// ErrValidation indicates a malformed payload.
	ErrValidation = errors.New("validation failed")
	// ErrStorage indicates the underlying key-value write failed.
	ErrStorage = errors.New("storage failure")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
