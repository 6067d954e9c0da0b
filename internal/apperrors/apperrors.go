// Package apperrors defines the error kinds the service layer reports and the
// HTTP status each kind is rendered with.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindUnauthorized
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// StatusCode maps the kind onto an HTTP status.
func (k Kind) StatusCode() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error with a client facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
	Details map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports the expected absence of a record.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Internal wraps an unexpected persistence failure. The message embeds the
// cause and names the failed operation: "[<cause>]: Failed to <operation>".
func Internal(operation string, cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: fmt.Sprintf("[%s]: Failed to %s", messageOf(cause), operation),
		Err:     cause,
	}
}

// BadRequest reports malformed client input.
func BadRequest(message string, details map[string]string) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Details: details}
}

// Unauthorized reports missing or invalid credentials.
func Unauthorized(message string, cause error) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Err: cause}
}

// Conflict reports a uniqueness violation the client can fix.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == k
}

func messageOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
