package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of notification error.
type ErrorCode string

const (
	// ErrCodeConfiguration indicates a malformed subscription target or channel setting.
	// It is permanent until an operator fixes the subscription.
	ErrCodeConfiguration ErrorCode = "configuration"
	// ErrCodeInvalidInput indicates the caller broke the dispatch contract (e.g. empty alert history).
	ErrCodeInvalidInput ErrorCode = "invalid_input"
	// ErrCodeDeliveryFailed indicates a network error or a non-2xx response from the channel endpoint.
	ErrCodeDeliveryFailed ErrorCode = "delivery_failed"
	// ErrCodeInternal indicates an unexpected failure such as an encoding error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured notification error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field names the offending input, e.g. "target" or "alerts" (optional)
	Field string
	// StatusCode is the HTTP status returned by the endpoint, zero when no response was received
	StatusCode int
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

// Configuration creates a new Configuration error for a specific field.
func Configuration(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeConfiguration,
		Message: message,
		Field:   field,
	}
}

// Configurationf creates a new Configuration error with formatted message.
func Configurationf(field, format string, args ...any) *AppError {
	return Configuration(field, fmt.Sprintf(format, args...))
}

// InvalidInput creates a new InvalidInput error for a specific field.
func InvalidInput(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidInput,
		Message: message,
		Field:   field,
	}
}

// DeliveryFailed creates a new DeliveryFailed error. status may be zero when the
// request never produced a response.
func DeliveryFailed(status int, message string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeDeliveryFailed,
		Message:    message,
		Cause:      cause,
		StatusCode: status,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapField wraps an existing error and records the offending field.
func WrapField(err error, code ErrorCode, field, message string) *AppError {
	appErr := Wrap(err, code, message)
	if appErr != nil {
		appErr.Field = field
	}
	return appErr
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsConfiguration checks if an error is a Configuration error.
func IsConfiguration(err error) bool {
	return isCode(err, ErrCodeConfiguration)
}

// IsInvalidInput checks if an error is an InvalidInput error.
func IsInvalidInput(err error) bool {
	return isCode(err, ErrCodeInvalidInput)
}

// IsDeliveryFailed checks if an error is a DeliveryFailed error.
func IsDeliveryFailed(err error) bool {
	return isCode(err, ErrCodeDeliveryFailed)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

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

// GetStatusCode returns the HTTP status carried by a DeliveryFailed error, or zero.
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return 0
}
