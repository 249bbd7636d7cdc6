// Package money normalizes string currency amounts from bank exports into
// integer cents.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SignFactor converts a decimal dollar amount to cents. Some vendors reverse
// the sign convention (a charge listed as positive, a payment as negative),
// so the factor carries the correction too.
type SignFactor int

const (
	FactorPositive SignFactor = 100
	FactorNegative SignFactor = -100
)

// Valid reports whether the factor is one of the two allowed values.
func (f SignFactor) Valid() bool {
	return f == FactorPositive || f == FactorNegative
}

// ParseSignFactor validates a raw integer factor.
func ParseSignFactor(n int) (SignFactor, error) {
	f := SignFactor(n)
	if !f.Valid() {
		return 0, fmt.Errorf("sign factor must be %d or %d, got %d", FactorPositive, FactorNegative, n)
	}
	return f, nil
}

// ParseCents parses a raw amount cell into integer cents. A literal "$"
// marker is stripped, the remainder is parsed as a decimal, multiplied by the
// factor, and rounded half away from zero. No fractional cents survive.
func ParseCents(raw string, factor SignFactor) (int64, error) {
	if !factor.Valid() {
		return 0, fmt.Errorf("invalid sign factor %d", factor)
	}
	s := strings.TrimSpace(strings.ReplaceAll(raw, "$", ""))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	return d.Mul(decimal.NewFromInt(int64(factor))).Round(0).IntPart(), nil
}
