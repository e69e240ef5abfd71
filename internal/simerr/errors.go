package simerr

import (
	"errors"
	"fmt"
)

// Category represents different types of errors that can occur during a
// simulation run.
type Category string

const (
	// Recoverable errors: the offending trade is skipped and the run continues.
	CategoryInvalidQuantity      Category = "INVALID_QUANTITY"
	CategoryInsufficientFunds    Category = "INSUFFICIENT_FUNDS"
	CategoryInsufficientPosition Category = "INSUFFICIENT_POSITION"
	CategoryInvalidSignal        Category = "INVALID_SIGNAL"
	CategoryDataGap              Category = "DATA_GAP"

	// Structural failures detected before any simulation begins.
	CategoryData Category = "DATA"
)

// SimError is a categorized error with component context.
type SimError struct {
	Category   Category
	Component  string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *SimError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Component, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Component, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *SimError) Unwrap() error {
	return e.Underlying
}

// IsFatal reports whether this error should abort the whole backtest.
// Only structural data failures are fatal; trade-level errors are skipped.
func (e *SimError) IsFatal() bool {
	return e.Category == CategoryData
}

// New creates a new categorized simulation error.
func New(category Category, component, message string) *SimError {
	return &SimError{
		Category:  category,
		Component: component,
		Message:   message,
	}
}

// Newf creates a new categorized simulation error with a formatted message.
func Newf(category Category, component, format string, args ...interface{}) *SimError {
	return New(category, component, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with simulation error context.
func Wrap(err error, category Category, component, message string) *SimError {
	if err == nil {
		return nil
	}
	return &SimError{
		Category:   category,
		Component:  component,
		Message:    message,
		Underlying: err,
	}
}

// CategoryOf extracts the category from an error chain. Uncategorized errors
// are reported as data gaps so callers treat them as recoverable.
func CategoryOf(err error) Category {
	var se *SimError
	if errors.As(err, &se) {
		return se.Category
	}
	return CategoryDataGap
}

// IsFatal reports whether any error in the chain is fatal.
func IsFatal(err error) bool {
	var se *SimError
	if errors.As(err, &se) {
		return se.IsFatal()
	}
	return false
}

// Reason returns the lower-cased reason tag used in trade records for a
// given category, e.g. "insufficient_funds".
func Reason(category Category) string {
	switch category {
	case CategoryInvalidQuantity:
		return "invalid_quantity"
	case CategoryInsufficientFunds:
		return "insufficient_funds"
	case CategoryInsufficientPosition:
		return "insufficient_position"
	case CategoryInvalidSignal:
		return "invalid_signal"
	case CategoryDataGap:
		return "data_gap"
	default:
		return "error"
	}
}
