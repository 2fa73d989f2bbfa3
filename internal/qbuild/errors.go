package qbuild

import (
	"errors"
	"fmt"
	"strings"
)

// CompileError represents a failure detected while compiling filters.
//
// All compile errors are hard failures: compilation is a pure function of
// its inputs, so retrying with the same inputs cannot succeed. A failed
// compile never returns a partial Select.
type CompileError struct {
	// Code identifies the error category.
	Code CompileErrorCode

	// Message is a human-readable description.
	Message string

	// Model names the model being examined when the error occurred.
	Model string

	// Field names the offending path segment, where applicable.
	Field string

	// Valid lists every declared and inherited field name of Model, for
	// unresolved-field diagnostics.
	Valid []string
}

// CompileErrorCode categorizes compile errors.
type CompileErrorCode string

const (
	// ErrCodeFieldNotFound indicates a path segment names no declared or
	// inherited field.
	ErrCodeFieldNotFound CompileErrorCode = "FIELD_NOT_FOUND"

	// ErrCodeUnsupportedRelation indicates a one-to-many hop was
	// encountered.
	ErrCodeUnsupportedRelation CompileErrorCode = "UNSUPPORTED_RELATION"

	// ErrCodeMalformedPath indicates an empty path or a non-terminal
	// segment that is not relational.
	ErrCodeMalformedPath CompileErrorCode = "MALFORMED_PATH"
)

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Model != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s (model=%s, field=%s)", e.Code, e.Message, e.Model, e.Field)
	}
	if e.Model != "" {
		return fmt.Sprintf("%s: %s (model=%s)", e.Code, e.Message, e.Model)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnresolvedField returns true if the error is a field-resolution failure.
// Uses errors.As to handle wrapped errors.
func IsUnresolvedField(err error) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeFieldNotFound
	}
	return false
}

// IsUnsupportedRelation returns true if the error is a one-to-many hop.
func IsUnsupportedRelation(err error) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeUnsupportedRelation
	}
	return false
}

// IsMalformedPath returns true if the error is a malformed filter path.
func IsMalformedPath(err error) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeMalformedPath
	}
	return false
}

// newUnresolvedFieldError creates a CompileError for an unknown field,
// listing every valid choice.
func newUnresolvedFieldError(model, field string, valid []string) *CompileError {
	return &CompileError{
		Code:    ErrCodeFieldNotFound,
		Message: fmt.Sprintf("cannot resolve %s, choices are: [%s]", field, strings.Join(valid, ", ")),
		Model:   model,
		Field:   field,
		Valid:   valid,
	}
}

// newUnsupportedRelationError creates a CompileError for a one-to-many hop.
func newUnsupportedRelationError(model, field string) *CompileError {
	return &CompileError{
		Code:    ErrCodeUnsupportedRelation,
		Message: "one-to-many relations cannot be traversed",
		Model:   model,
		Field:   field,
	}
}

// newMalformedPathError creates a CompileError for an invalid path shape.
func newMalformedPathError(model, message string) *CompileError {
	return &CompileError{
		Code:    ErrCodeMalformedPath,
		Message: message,
		Model:   model,
	}
}
