package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is the closed set of failure kinds the alert engine reports.
type ErrorCode string

const (
	// ErrCodeValidation indicates malformed input; Details lists every offending field.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeNotFound indicates the device or alert does not exist.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeForbidden indicates the actor is not allowed to touch the resource.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeDuplicate indicates an open alert already exists for the same device and title.
	ErrCodeDuplicate ErrorCode = "duplicate"
	// ErrCodeStateConflict indicates the requested transition violates the state machine.
	ErrCodeStateConflict ErrorCode = "state_conflict"
	// ErrCodeStore indicates an underlying persistence failure. Its message is always generic.
	ErrCodeStore ErrorCode = "store_error"
	// ErrCodeUnauthorized indicates no authenticated actor accompanied the request.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
)

// storeMessage is the only message ever shown to callers for store failures.
const storeMessage = "An internal storage error occurred. Please try again."

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional)
	Field string
	// Details carries every field failure for validation errors
	Details []FieldError
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// PublicMessage returns the message safe to show to API callers.
func (e *AppError) PublicMessage() string {
	if e.Code == ErrCodeStore {
		return storeMessage
	}
	return e.Message
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbidden creates a new Forbidden error.
func Forbidden(message string) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message}
}

// Duplicate creates a new Duplicate error.
func Duplicate(message string) *AppError {
	return &AppError{Code: ErrCodeDuplicate, Message: message}
}

// StateConflict creates a new StateConflict error.
func StateConflict(message string) *AppError {
	return &AppError{Code: ErrCodeStateConflict, Message: message}
}

// Unauthorized creates a new Unauthorized error.
func Unauthorized(message string) *AppError {
	return &AppError{Code: ErrCodeUnauthorized, Message: message}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
		Details: []FieldError{{Field: field, Message: message}},
	}
}

// ValidationFields builds a Validation error from a list of field failures.
// It returns nil when the list is empty so callers can return it directly.
func ValidationFields(details []FieldError) *AppError {
	if len(details) == 0 {
		return nil
	}
	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.Field)
	}
	out := make([]FieldError, len(details))
	copy(out, details)
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "Invalid input: " + strings.Join(fields, ", "),
		Field:   details[0].Field,
		Details: out,
	}
}

// Store wraps a persistence failure. The cause is kept for logging only.
func Store(err error) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: ErrCodeStore, Message: "store operation failed", Cause: err}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool { return isCode(err, ErrCodeForbidden) }

// IsDuplicate checks if an error is a Duplicate error.
func IsDuplicate(err error) bool { return isCode(err, ErrCodeDuplicate) }

// IsStateConflict checks if an error is a StateConflict error.
func IsStateConflict(err error) bool { return isCode(err, ErrCodeStateConflict) }

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsStore checks if an error is a Store error.
func IsStore(err error) bool { return isCode(err, ErrCodeStore) }

// IsUnauthorized checks if an error is an Unauthorized error.
func IsUnauthorized(err error) bool { return isCode(err, ErrCodeUnauthorized) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// GetDetails returns the field failures attached to a validation error.
func GetDetails(err error) []FieldError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}

// HTTPStatus maps an error code to its response status. Unknown codes are 500.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidation, ErrCodeStateConflict:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeDuplicate:
		return http.StatusConflict
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeStore:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
