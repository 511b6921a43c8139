// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrQuoteNetwork   = errors.New("quote fetch failed: network error")
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrRateLimited    = errors.New("rate limited")
	ErrQuoteUnknown   = errors.New("quote fetch failed: unknown error")
	ErrAlertNotFound  = errors.New("alert not found")
	ErrDatabaseError  = errors.New("database error")
	ErrConfigInvalid  = errors.New("invalid configuration")
)

// QuoteError represents a failure while fetching a quote for a symbol.
// Reason is one of the quote sentinel errors above.
type QuoteError struct {
	Symbol string
	Reason error
	Err    error
}

func (e *QuoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quote error [%s]: %v: %v", e.Symbol, e.Reason, e.Err)
	}
	return fmt.Sprintf("quote error [%s]: %v", e.Symbol, e.Reason)
}

func (e *QuoteError) Unwrap() error {
	return e.Reason
}

// NewQuoteError creates a new QuoteError.
func NewQuoteError(symbol string, reason, err error) *QuoteError {
	return &QuoteError{
		Symbol: symbol,
		Reason: reason,
		Err:    err,
	}
}

// StoreError represents an alert-store failure.
type StoreError struct {
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s]: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Err:       err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
