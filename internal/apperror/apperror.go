// Package apperror defines the single error type services return to the
// HTTP layer. Each error carries the status it should be rendered with.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error that maps directly onto an HTTP response
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// New creates an error with an arbitrary status
func New(status int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, format, args...)
}

func BadRequest(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, format, args...)
}

func UnprocessableEntity(format string, args ...interface{}) *Error {
	return New(http.StatusUnprocessableEntity, format, args...)
}

func Internal(format string, args ...interface{}) *Error {
	return New(http.StatusInternalServerError, format, args...)
}

// From returns the *Error wrapped in err. Anything else becomes a 500 so
// internal details never reach the client.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal server error")
}

// Is reports whether err carries the given status
func Is(err error, status int) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Status == status
}
