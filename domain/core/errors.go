package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrDataSourceNotFound = fmt.Errorf("%w: data source", ErrNotFound)
	ErrDataTableNotFound  = fmt.Errorf("%w: data table", ErrNotFound)
	ErrRelationNotFound   = fmt.Errorf("%w: table relation", ErrNotFound)

	// Analysis input errors
	ErrColumnNotFound   = errors.New("column not found")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrEmptyInput       = errors.New("empty input")
	ErrInvalidThreshold = errors.New("invalid threshold")
	ErrNonNumeric       = errors.New("non-numeric value")

	// Query execution errors
	ErrPoolUnavailable = errors.New("connection pool unavailable")
	ErrQueryRejected   = errors.New("query rejected")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, column)
}

func NewInsufficientDataError(need, got int) error {
	return fmt.Errorf("%w: need at least %d points, got %d", ErrInsufficientData, need, got)
}

func NewInvalidThresholdError(threshold float64) error {
	return fmt.Errorf("%w: %g (must be > 0)", ErrInvalidThreshold, threshold)
}

func NewNonNumericError(column string, row int) error {
	return fmt.Errorf("%w in column %q at row %d", ErrNonNumeric, column, row)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAnalysisInputError reports whether err is one of the predictable bad-input
// conditions that must surface as a client error, never a 500.
func IsAnalysisInputError(err error) bool {
	return errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrInvalidThreshold) ||
		errors.Is(err, ErrNonNumeric)
}

func IsRetryableError(err error) bool {
	return errors.Is(err, ErrPoolUnavailable)
}
