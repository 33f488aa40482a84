package money

import (
	"fmt"
	"math"
)

// Money is a monetary value as delivered by the catalog API: a decimal
// amount, an ISO-4217 currency code, and a locale-formatted display string.
//
// DisplayValue is presentation-only and must never be parsed or used for
// arithmetic. All arithmetic goes through MinorUnits so that totals are
// computed exactly in integer minor units (pence, cents) rather than in
// floating point.
type Money struct {
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	DisplayValue string  `json:"displayValue,omitempty"`
}

// currencySymbols maps the currency codes the storefront ships to onto
// their display symbols. Unknown codes fall back to "CODE amount".
var currencySymbols = map[string]string{
	"GBP": "£",
	"EUR": "€",
	"USD": "$",
}

// New creates a Money value with a generated display string.
func New(amount float64, currency string) Money {
	m := Money{Amount: amount, Currency: currency}
	m.DisplayValue = m.Format()
	return m
}

// FromMinorUnits creates a Money value from an integer number of minor
// currency units (e.g. pence). Assumes a two-decimal currency.
func FromMinorUnits(units int64, currency string) Money {
	return New(float64(units)/100, currency)
}

// MinorUnits returns the amount in integer minor units, rounding to the
// nearest unit. Assumes a two-decimal currency.
func (m Money) MinorUnits() int64 {
	return int64(math.Round(m.Amount * 100))
}

// IsZero reports whether the value is the zero Money.
func (m Money) IsZero() bool {
	return m.Amount == 0 && m.Currency == "" && m.DisplayValue == ""
}

// Mul returns the value multiplied by a quantity. The multiplication is
// performed in minor units.
func (m Money) Mul(qty int) Money {
	return FromMinorUnits(m.MinorUnits()*int64(qty), m.Currency)
}

// Add returns the sum of two values. Adding values of different
// currencies is an error; adding to a zero Money adopts the other
// operand's currency.
func (m Money) Add(other Money) (Money, error) {
	if m.IsZero() {
		return other, nil
	}
	if other.IsZero() {
		return m, nil
	}
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s + %s", m.Currency, other.Currency)
	}
	return FromMinorUnits(m.MinorUnits()+other.MinorUnits(), m.Currency), nil
}

// IsDiscountedFrom reports whether the value is strictly below the given
// recommended retail price. Prices in different currencies are never
// considered discounted.
func (m Money) IsDiscountedFrom(rrp Money) bool {
	if m.Currency != rrp.Currency {
		return false
	}
	return m.MinorUnits() < rrp.MinorUnits()
}

// Display returns the API-provided display string when present, falling
// back to Format.
func (m Money) Display() string {
	if m.DisplayValue != "" {
		return m.DisplayValue
	}
	return m.Format()
}

// Format renders the amount with its currency symbol, e.g. "£10.00".
func (m Money) Format() string {
	if sym, ok := currencySymbols[m.Currency]; ok {
		return fmt.Sprintf("%s%.2f", sym, m.Amount)
	}
	return fmt.Sprintf("%s %.2f", m.Currency, m.Amount)
}
