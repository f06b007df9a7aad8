package axon

import (
	"errors"
	"fmt"
	"net/http"
)

// HttpError is an error that already knows its HTTP status
type HttpError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	cause      error
}

// Error implements the error interface
func (e *HttpError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("HTTP %d: %s: %v", e.StatusCode, e.Message, e.cause)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns the error the HttpError was built from, if any
func (e *HttpError) Unwrap() error {
	return e.cause
}

// WithCause records the underlying error
func (e *HttpError) WithCause(cause error) *HttpError {
	e.cause = cause
	return e
}

// NewHttpError creates a new HttpError with the given status code and message
func NewHttpError(statusCode int, message string) *HttpError {
	return &HttpError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewHttpErrorWithDetails creates a new HttpError with additional details
func NewHttpErrorWithDetails(statusCode int, message string, details any) *HttpError {
	return &HttpError{
		StatusCode: statusCode,
		Message:    message,
		Details:    details,
	}
}

// ErrBadRequest creates a 400 Bad Request error
func ErrBadRequest(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message)
}

// ErrNotFound creates a 404 Not Found error
func ErrNotFound(message string) *HttpError {
	return NewHttpError(http.StatusNotFound, message)
}

// ErrInternalServerError creates a 500 Internal Server Error
func ErrInternalServerError(message string) *HttpError {
	return NewHttpError(http.StatusInternalServerError, message)
}

// AsHttpError finds the first HttpError in err's chain
func AsHttpError(err error) (*HttpError, bool) {
	var he *HttpError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// ErrorStatus returns the status of the first HttpError in err's chain. The
// second return value is false when there is none.
func ErrorStatus(err error) (int, bool) {
	if he, ok := AsHttpError(err); ok {
		return he.StatusCode, true
	}
	return 0, false
}

// WriteError renders err as a JSON body. It is the last resort used by the
// adapters when an error leaves the middleware chain unhandled.
func WriteError(c RequestContext, err error) error {
	if c.Response().Written() {
		return nil
	}
	if he, ok := AsHttpError(err); ok {
		return c.Response().JSON(he.StatusCode, he)
	}
	return c.Response().JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
