// Package domainerrors provides coded errors for the nomination and directory
// domain. Services construct these at the point where an infrastructure fact
// (sentinel error) or a validation failure becomes a caller-visible outcome;
// the HTTP layer translates codes to status codes in exactly one place.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport mapping and tests.
type Code string

const (
	// CodeInvalidInput covers validation failures: missing required fields,
	// review below the minimum length, malformed identifiers.
	CodeInvalidInput Code = "invalid_input"

	// CodeNotFound covers unknown slugs, nominations, and profiles.
	CodeNotFound Code = "not_found"

	// CodeAccessRequired is the directory gate denial. It is deliberately
	// distinct from CodeNotFound so the UI can render the "contribute to see
	// it" state instead of a 404.
	CodeAccessRequired Code = "access_required"

	// CodeInvalidState covers lifecycle transitions attempted on a nomination
	// that is not in the required status.
	CodeInvalidState Code = "invalid_state"

	// CodeNotificationFailed marks a best-effort dispatch failure. It is
	// logged and counted but never returned from a lifecycle operation.
	CodeNotificationFailed Code = "notification_failed"

	CodeUnauthorized Code = "unauthorized"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal"
)

// DomainError carries a code alongside the message. The wrapped cause, when
// present, is preserved for errors.Is / errors.As chains.
type DomainError struct {
	Code    Code
	Message string
	cause   error
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.cause }

// New constructs a coded error with no underlying cause.
func New(code Code, message string) error {
	return &DomainError{Code: code, Message: message}
}

// Newf constructs a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &DomainError{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in this package.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAccessRequired:
		return http.StatusForbidden
	case CodeInvalidState:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
