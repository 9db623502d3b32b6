package qerrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// AuthorizationError is returned when a claimed student ID is not on the allowlist.
	AuthorizationError = errors.New("invalid student id")
	// ValidationError is returned when a required field is missing or empty.
	ValidationError = errors.New("invalid request")
	// NotFoundError is returned when a referenced doubt or profile does not exist.
	NotFoundError = errors.New("not found")
	// PermissionError is returned when the requester may not perform the mutation.
	PermissionError = errors.New("permission denied")
	// BackendUnavailable is returned when the auth provider or document store is not initialized.
	BackendUnavailable = errors.New("backend unavailable")
	// RateLimitedError is returned when a client sends mutations faster than allowed.
	RateLimitedError = errors.New("too many requests, please wait a moment and try again")

	// Doubt errors
	DoubtNotFoundError   = fmt.Errorf("doubt %w", NotFoundError)
	PinNotOwnerError     = fmt.Errorf("%w: you can only pin/unpin your own doubts", PermissionError)
	ChatNotAllowedError  = fmt.Errorf("%w: this student id may not post doubts", PermissionError)
	EmptyDoubtTextError  = fmt.Errorf("%w: text must not be empty", ValidationError)
	MissingDoubtScopeErr = fmt.Errorf("%w: course id and module id are required", ValidationError)

	// Profile errors
	ProfileNotFoundError = fmt.Errorf("student profile %w", NotFoundError)
	NotAuthenticated     = fmt.Errorf("%w: you must be authenticated to access this resource", PermissionError)

	// Course errors
	CourseNotFoundError = fmt.Errorf("course %w", NotFoundError)
	ModuleNotFoundError = fmt.Errorf("module %w", NotFoundError)
	AdminOnlyError      = fmt.Errorf("%w: only an admin may edit courses", PermissionError)
)

// Validation wraps a field-specific message in a ValidationError.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ValidationError, fmt.Sprintf(format, args...))
}

// Unavailable wraps err in BackendUnavailable.
func Unavailable(err error) error {
	return fmt.Errorf("%w: %v", BackendUnavailable, err)
}

// StatusCode maps an error from the taxonomy onto an HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ValidationError):
		return http.StatusBadRequest
	case errors.Is(err, AuthorizationError), errors.Is(err, PermissionError):
		if errors.Is(err, NotAuthenticated) {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	case errors.Is(err, NotFoundError):
		return http.StatusNotFound
	case errors.Is(err, BackendUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, RateLimitedError):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Title returns the short, user-facing notification title for err.
func Title(err error) string {
	switch {
	case errors.Is(err, AuthorizationError):
		return "Verification Failed"
	case errors.Is(err, ValidationError):
		return "Invalid Request"
	case errors.Is(err, NotAuthenticated):
		return "Not Signed In"
	case errors.Is(err, PermissionError):
		return "Permission Denied"
	case errors.Is(err, NotFoundError):
		return "Not Found"
	case errors.Is(err, BackendUnavailable):
		return "Service Unavailable"
	case errors.Is(err, RateLimitedError):
		return "Slow Down"
	default:
		return "Error"
	}
}
