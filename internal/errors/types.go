package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError defines the base interface for all application errors
type AppError interface {
	error
	ErrorCode() ErrorCode
	Context() map[string]interface{}
	Unwrap() error
}

// ErrorCode represents the type of error that occurred
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota

	// Request errors
	ValidationErrorCode
	NotFoundErrorCode
	BusinessErrorCode

	// Storage errors
	DatabaseErrorCode

	// Runtime error types
	InternalErrorCode
	ConfigurationErrorCode
)

// String returns the string representation of the error code. The values
// double as the errorType tag of API error responses.
func (e ErrorCode) String() string {
	switch e {
	case ValidationErrorCode:
		return "ValidationError"
	case NotFoundErrorCode:
		return "NotFound"
	case BusinessErrorCode:
		return "BusinessError"
	case DatabaseErrorCode:
		return "DatabaseError"
	case InternalErrorCode:
		return "InternalError"
	case ConfigurationErrorCode:
		return "ConfigurationError"
	default:
		return "UnknownError"
	}
}

// BaseError provides a common implementation of the AppError interface
type BaseError struct {
	Code        ErrorCode              // type of error
	Message     string                 // error message
	Cause       error                  // underlying error cause
	ContextData map[string]interface{} // additional context information
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// ErrorCode returns the error code
func (e *BaseError) ErrorCode() ErrorCode {
	return e.Code
}

// Context returns the error context data
func (e *BaseError) Context() map[string]interface{} {
	if e.ContextData == nil {
		return make(map[string]interface{})
	}
	return e.ContextData
}

// Unwrap returns the underlying error cause for error chain inspection
func (e *BaseError) Unwrap() error {
	return e.Cause
}

// WithCause adds an underlying error cause
func (e *BaseError) WithCause(cause error) *BaseError {
	e.Cause = cause
	return e
}

// WithContext adds context data to the error
func (e *BaseError) WithContext(key string, value interface{}) *BaseError {
	if e.ContextData == nil {
		e.ContextData = make(map[string]interface{})
	}
	e.ContextData[key] = value
	return e
}

// New creates a new BaseError with the specified code and message
func New(code ErrorCode, message string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new BaseError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new error that wraps another error
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf creates a new error that wraps another error with formatted message
func Wrapf(code ErrorCode, cause error, format string, args ...interface{}) *BaseError {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// CodeOf returns the code of the first AppError in err's chain, or
// UnknownErrorCode when there is none.
func CodeOf(err error) ErrorCode {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr.ErrorCode()
	}
	return UnknownErrorCode
}

// Is reports whether err carries the given code
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// As is errors.As from the standard library
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
