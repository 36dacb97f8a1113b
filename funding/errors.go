/*
errors.go - Error types for the funding engine

ERROR CATEGORIES:
  1. Programming errors - missing FX rates (panic with MissingRateError)
  2. Input errors       - unknown currencies, malformed dates at the boundary

Malformed dates inside a simulation never fail the run: the payment is
skipped and reported as a SkippedPayment instead.
*/
package funding

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownCurrency is returned when a currency code is not in the enumeration.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrInvalidDate is returned when a date is not a valid yyyy-mm-dd string.
	ErrInvalidDate = errors.New("invalid date")

	// ErrMissingRate marks a rate table without an entry for a currency.
	ErrMissingRate = errors.New("missing fx rate")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// MissingRateError is the panic value raised when a rate table has no usable
// entry for a currency.
type MissingRateError struct {
	Currency Currency
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("missing fx rate for currency %q", e.Currency)
}

func (e *MissingRateError) Unwrap() error { return ErrMissingRate }

// DateError describes a date string that could not be parsed.
type DateError struct {
	Value string
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q: %v", e.Value, e.Err)
}

func (e *DateError) Unwrap() error { return ErrInvalidDate }

// SkippedPayment records a future payment left out of a simulation.
type SkippedPayment struct {
	ID     string
	Name   string
	Reason string
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownCurrency) || errors.Is(err, ErrInvalidDate)
}
