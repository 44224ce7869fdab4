// Package money parses and formats the decimal strings monetary values travel as.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned by Parse for strings that are not decimal numbers.
var ErrInvalidAmount = errors.New("invalid amount")

// Parse converts a decimal string such as "-12.50" into a decimal.
// Surrounding whitespace and a leading '+' are accepted. A comma followed by
// one or two digits is a decimal separator ("12,50"); any other comma,
// including a thousands separator ("1,000"), is invalid.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		if !decimalComma(s, i) {
			return decimal.Zero, ErrInvalidAmount
		}
		s = s[:i] + "." + s[i+1:]
	}
	s = strings.TrimPrefix(s, "+")

	// decimal.NewFromString accepts exponents; money strings never carry one.
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// decimalComma reports whether the comma at i is the only separator in s and
// is followed by one or two digits.
func decimalComma(s string, i int) bool {
	frac := s[i+1:]
	if strings.ContainsAny(s[:i], ".,") || len(frac) < 1 || len(frac) > 2 {
		return false
	}
	for _, r := range frac {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseOrZero is Parse with malformed input counted as zero.
func ParseOrZero(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Valid reports whether s parses as an amount.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Format renders d with exactly two decimal places, rounding half away from zero.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Normalize reformats a decimal string to two places. Malformed input becomes "0.00".
func Normalize(s string) string {
	return Format(ParseOrZero(s))
}

// Add sums decimal strings, counting malformed entries as zero.
func Add(amounts ...string) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(ParseOrZero(a))
	}
	return total
}
