package errors

import (
	"errors"
	"fmt"

	"chatbi/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes carried to the client as machine-readable strings
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeExternalService  = "EXTERNAL_SERVICE_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeColumnNotFound   = "COLUMN_NOT_FOUND"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeEmptyInput       = "EMPTY_INPUT"
	CodeInvalidThreshold = "INVALID_THRESHOLD"
	CodeNonNumericColumn = "NON_NUMERIC_COLUMN"
	CodePoolUnavailable  = "POOL_UNAVAILABLE"
	CodeQueryRejected    = "QUERY_REJECTED"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// FromDomain maps domain sentinel errors onto coded AppErrors so the request
// boundary can translate predictable conditions to 4xx responses instead of
// letting them propagate as generic 500s.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	code := CodeInternalError
	switch {
	case errors.Is(err, core.ErrColumnNotFound):
		code = CodeColumnNotFound
	case errors.Is(err, core.ErrInsufficientData):
		code = CodeInsufficientData
	case errors.Is(err, core.ErrEmptyInput):
		code = CodeEmptyInput
	case errors.Is(err, core.ErrInvalidThreshold):
		code = CodeInvalidThreshold
	case errors.Is(err, core.ErrNonNumeric):
		code = CodeNonNumericColumn
	case errors.Is(err, core.ErrPoolUnavailable):
		code = CodePoolUnavailable
	case errors.Is(err, core.ErrQueryRejected):
		code = CodeQueryRejected
	case errors.Is(err, core.ErrNotFound):
		code = CodeNotFound
	}
	return &AppError{Code: code, Message: err.Error(), Cause: err}
}
