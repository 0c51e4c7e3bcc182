package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Content pipeline errors
	CodeInvalidCourse       ErrorCode = "INVALID_COURSE"
	CodeQuestionSetNotFound ErrorCode = "QUESTION_SET_NOT_FOUND"
	CodeLLMServiceError     ErrorCode = "LLM_SERVICE_ERROR"
	CodeImageSourceError    ErrorCode = "IMAGE_SOURCE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper constructors for common errors

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewInvalidCourseError(course string) *DomainError {
	return NewError(CodeInvalidCourse, fmt.Sprintf("Invalid course: %s", course), nil)
}

func NewQuestionSetNotFoundError(id string) *DomainError {
	return NewError(CodeQuestionSetNotFound, fmt.Sprintf("Question set not found with ID: %s", id), nil)
}

func NewLLMServiceError(cause error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to process with LLM service", cause)
}

func NewImageSourceError(source string, cause error) *DomainError {
	return NewError(CodeImageSourceError, fmt.Sprintf("Media source %s failed", source), cause)
}

// AsDomainError unwraps the chain for a *DomainError.
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// ValidationError represents a single request validation failure
type ValidationError struct {
	Code    ErrorCode `json:"code"`
	Field   string    `json:"field"`
	Message string    `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates validation failures for one request
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s (and %d more)", e[0].Error(), len(e)-1)
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Code: CodeMissingField, Field: field, Message: "field is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Code: CodeInvalidFormat, Field: field, Message: fmt.Sprintf("invalid format: %s", value)}
}

func NewOutOfRangeError(field string, value, minVal, maxVal int) ValidationError {
	return ValidationError{Code: CodeOutOfRange, Field: field, Message: fmt.Sprintf("value %d out of range [%d, %d]", value, minVal, maxVal)}
}
