// Package model defines the core domain types shared across the application.
package model

import "fmt"

// Money pairs an amount with the currency it is denominated in.
// Amounts are expected to be non-negative but this is not enforced.
type Money struct {
	Currency string
	Amount   float64
}

// String renders the money value for logs and debugging. Display
// formatting with locale rules lives in the cli package.
func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Amount, m.Currency)
}

// IsZero reports whether the value carries no amount and no currency.
func (m Money) IsZero() bool {
	return m.Amount == 0 && m.Currency == ""
}
