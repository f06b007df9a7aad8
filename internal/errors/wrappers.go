package errors

import (
	stderrors "errors"
	"fmt"
)

// coder is implemented by driver errors that expose a numeric result code,
// such as *sqlite.Error from modernc.org/sqlite.
type coder interface {
	Code() int
}

// DatabaseError represents an underlying storage failure
type DatabaseError struct {
	*BaseError
	Operation  string // repository operation that failed
	ResultCode int    // store specific result code, 0 when the driver reported none
	Detail     string // driver message
}

// WrapDatabaseError wraps a storage failure, extracting the driver result code
func WrapDatabaseError(operation string, cause error) *DatabaseError {
	err := &DatabaseError{
		BaseError: Wrap(DatabaseErrorCode, fmt.Sprintf("failed to %s", operation), cause),
		Operation: operation,
		Detail:    cause.Error(),
	}
	var c coder
	if stderrors.As(cause, &c) {
		err.ResultCode = c.Code()
	}
	return err
}

// NotFoundError represents a referenced row that does not exist
type NotFoundError struct {
	*BaseError
	Resource string
	ID       int
}

// NewNotFoundError creates a not-found error for resource id
func NewNotFoundError(resource string, id int) *NotFoundError {
	return &NotFoundError{
		BaseError: Newf(NotFoundErrorCode, "%s with ID %d not found", resource, id),
		Resource:  resource,
		ID:        id,
	}
}

// BusinessError represents a well-formed request the data does not allow
type BusinessError struct {
	*BaseError
	Reason string
}

// NewBusinessError creates a business rule failure with a reason
func NewBusinessError(message, reason string) *BusinessError {
	return &BusinessError{
		BaseError: New(BusinessErrorCode, message),
		Reason:    reason,
	}
}

// WrapInternalError wraps an unanticipated failure
func WrapInternalError(operation string, cause error) *BaseError {
	return Wrapf(InternalErrorCode, cause, "unexpected failure during %s", operation)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// NewConfigurationError reports an invalid configuration value
func NewConfigurationError(field, message string) *BaseError {
	return Newf(ConfigurationErrorCode, "invalid configuration %s: %s", field, message).
		WithContext("field", field)
}
