// Package core holds the domain model and the financial arithmetic.
//
// All monetary values are integer cents; rate math goes through
// shopspring/decimal so that rounding happens exactly once per derived
// figure, never per intermediate step.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in integer cents.
type Money struct {
	Cents int64
}

// Dollars returns the dollar value as float64 for display purposes only.
// Calculations must stay in cents.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

var oneHundred = decimal.NewFromInt(100)

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot and comma separators are
// accepted. Zero and negative amounts are rejected.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := d.Mul(oneHundred).Round(0).IntPart()
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseTaxRate parses a fractional sales-tax rate string such as
// "0.0635". Rates must lie in (0, 1).
func ParseTaxRate(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, ErrInvalidRate
	}
	if !d.IsPositive() || d.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.Decimal{}, ErrInvalidRate
	}
	return d, nil
}

// SalesTaxFor computes the creation-time sales tax for an order total:
// round(total * rate), rounded once. The caller-supplied rate is used
// as-is, never inferred from the known rate constants.
func SalesTaxFor(total int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(total).Mul(rate).Round(0).IntPart()
}

// RatePercent converts a fractional rate to the percent string stored on
// the order row: 0.0635 -> "6.35".
func RatePercent(rate decimal.Decimal) string {
	return rate.Mul(oneHundred).String()
}
