package claim

import (
	"errors"
	"fmt"
)

// Error codes for claim operations. These are service-level codes, not HTTP
// status codes; the transport maps them to the wire.
const (
	// ErrCodeUnauthorized covers both authentication failures (no or
	// unverifiable credential) and authorization denials. The two are never
	// distinguished to callers.
	ErrCodeUnauthorized = "CLAIM_UNAUTHORIZED"

	// ErrCodeNotFound indicates the referenced claim does not exist.
	ErrCodeNotFound = "CLAIM_NOT_FOUND"

	// ErrCodeInvalid indicates a payload missing required fields or carrying
	// invalid values.
	ErrCodeInvalid = "CLAIM_INVALID"

	// ErrCodeStorage indicates a storage-layer failure (connectivity,
	// constraint enforcement outside Validate).
	ErrCodeStorage = "CLAIM_STORAGE"
)

// Error is a claim operation error carrying one of the codes above.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates an Error with the given code, message and optional cause.
func WrapError(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Sentinel errors for use with errors.Is.
var (
	// ErrUnauthorized is returned when the caller is unauthenticated or not
	// permitted to perform the operation.
	ErrUnauthorized = WrapError(ErrCodeUnauthorized, "unauthorized", nil)

	// ErrNotFound is returned when the target claim does not exist.
	ErrNotFound = WrapError(ErrCodeNotFound, "claim not found", nil)

	// ErrInvalid is returned for payloads that fail validation.
	ErrInvalid = WrapError(ErrCodeInvalid, "invalid claim", nil)

	// ErrStorage is returned for storage-layer failures.
	ErrStorage = WrapError(ErrCodeStorage, "storage failure", nil)
)
