package errors

import (
	"fmt"
	"strings"
)

// Violation is a single failed field constraint
type Violation struct {
	Field   string
	Message string
}

// ValidationError represents malformed or missing input
type ValidationError struct {
	*BaseError
	Violations []Violation // failed field constraints, empty for parameter errors
	Parameter  string      // offending path or query parameter, if any
}

// NewValidationError creates a validation error listing every violation
func NewValidationError(violations ...Violation) *ValidationError {
	messages := make([]string, len(violations))
	for i, v := range violations {
		messages[i] = v.Message
	}

	return &ValidationError{
		BaseError:  New(ValidationErrorCode, "validation failed: "+strings.Join(messages, "; ")),
		Violations: violations,
	}
}

// NewParameterError creates a validation error for a bad path or query parameter
func NewParameterError(parameter, message string) *ValidationError {
	return &ValidationError{
		BaseError: New(ValidationErrorCode, message),
		Parameter: parameter,
	}
}

// InvalidID is the validation error for a non-positive identifier
func InvalidID(id int) *ValidationError {
	return NewParameterError("id", fmt.Sprintf("id must be greater than 0, got %d", id))
}

// Messages returns the human readable violation messages, or the error
// message when there are no field violations.
func (e *ValidationError) Messages() []string {
	if len(e.Violations) == 0 {
		return []string{e.Message}
	}
	messages := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		messages[i] = v.Message
	}
	return messages
}
