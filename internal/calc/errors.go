package calc

import "fmt"

// CalculationInputError reports a clearly-invalid user-entered input to a
// strategy calculator. These are surfaced directly to the caller instead of
// being clamped: a negative purchase price in a calculator request is a UI
// bug, not noisy upstream data.
type CalculationInputError struct {
	// Field is the human-readable name of the offending input
	Field string

	// Value is the rejected value
	Value float64

	// Reason describes why the value was rejected
	Reason string
}

// Error implements the error interface.
func (e *CalculationInputError) Error() string {
	return fmt.Sprintf("%s %s: got %g", e.Field, e.Reason, e.Value)
}

// newInputError builds a CalculationInputError for a rejected field.
func newInputError(field string, value float64, reason string) error {
	return &CalculationInputError{Field: field, Value: value, Reason: reason}
}

// maxInterestRate is the highest annual interest rate any calculator accepts.
// Rates above this are treated as data-entry mistakes rather than clamped.
const maxInterestRate = 0.30

// validatePrice rejects negative purchase prices and ARVs.
func validatePrice(field string, value float64) error {
	if value < 0 {
		return newInputError(field, value, "must not be negative")
	}
	return nil
}

// validateRate rejects interest rates outside [0, maxInterestRate].
func validateRate(field string, value float64) error {
	if value < 0 {
		return newInputError(field, value, "must not be negative")
	}
	if value > maxInterestRate {
		return newInputError(field, value, "exceeds the 30% maximum")
	}
	return nil
}
