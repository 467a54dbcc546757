// internal/common/apperr/apperr.go
// Shared error taxonomy for all services.
// Handlers map these to HTTP status codes; best-effort side channels
// swallow ErrUpstream after logging instead of failing the caller.

package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated means the bearer credential is missing or invalid.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrValidation means the input is malformed or missing required fields.
	ErrValidation = errors.New("validation error")

	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is authenticated but does not own the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrStorage means the primary store rejected a read or write.
	ErrStorage = errors.New("storage error")

	// ErrUpstream means a dependent best-effort call failed.
	ErrUpstream = errors.New("upstream error")
)

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// Storagef wraps ErrStorage with a formatted message.
func Storagef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrStorage}, args...)...)
}

// Code returns the stable machine-readable code for an error.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrUpstream):
		return "upstream_error"
	default:
		return "storage_error"
	}
}

// Status returns the HTTP status for an error.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
