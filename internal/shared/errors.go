package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the actor lacks the capability for the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates no actor could be resolved for the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidToken indicates a bearer token failed verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrConflict indicates the resource state does not allow the operation.
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput indicates a request violates a business rule.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
