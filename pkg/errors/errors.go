package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeTransient indicates a store or network failure that is safe to retry
	ErrorTypeTransient ErrorType = "TRANSIENT"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeIntegration indicates an outbound notification failure
	ErrorTypeIntegration ErrorType = "INTEGRATION"
)

// ErrorCode narrows an ErrorType to the specific failure a caller can act on
type ErrorCode string

const (
	CodeMissingField            ErrorCode = "missing_field"
	CodeInvalidDateFormat       ErrorCode = "invalid_date_format"
	CodeInvalidTimeFormat       ErrorCode = "invalid_time_format"
	CodeInvalidDuration         ErrorCode = "invalid_duration"
	CodeInvalidRange            ErrorCode = "invalid_range"
	CodeInvalidPayload          ErrorCode = "invalid_payload"
	CodePatientNotFound         ErrorCode = "patient_not_found"
	CodeAppointmentNotFound     ErrorCode = "appointment_not_found"
	CodeSlotTaken               ErrorCode = "slot_taken"
	CodeDuplicatePhone          ErrorCode = "duplicate_phone"
	CodeInvalidStatusTransition ErrorCode = "invalid_status_transition"
	CodeStoreUnavailable        ErrorCode = "store_unavailable"
	CodeLockUnavailable         ErrorCode = "lock_unavailable"
	CodeNotificationFailed      ErrorCode = "notification_failed"
	CodeInternal                ErrorCode = "internal"
)

// AppError represents an application error
type AppError struct {
	Type      ErrorType
	Code      ErrorCode
	Message   string
	MessageAr string
	Err       error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error type to a response status code
func (e *AppError) HTTPStatus() int {
	switch e.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeIntegration:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithArabic attaches the user-facing Arabic message
func (e *AppError) WithArabic(message string) *AppError {
	e.MessageAr = message
	return e
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code ErrorCode, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(code ErrorCode, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(code ErrorCode, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    code,
		Message: message,
	}
}

// NewTransientError creates a new retryable store/network error
func NewTransientError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeTransient,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Code:    CodeInternal,
		Message: message,
		Err:     err,
	}
}

// NewIntegrationError creates a new outbound notification error
func NewIntegrationError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeIntegration,
		Code:    CodeNotificationFailed,
		Message: message,
		Err:     err,
	}
}

// As returns the first AppError in err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err carries an AppError of the given type
func IsType(err error, t ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}

// HasCode reports whether err carries an AppError with the given code
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
