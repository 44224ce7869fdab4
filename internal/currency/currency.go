// Package currency converts amounts between currencies using a rate table
// anchored at a single base currency, and aggregates mixed-currency amounts.
//
// A Table holds, for every currency, how many units of it equal one unit of
// the base currency. The base currency itself has an implicit rate of 1 and
// need not be listed. Conversion never falls back to a guess: a currency
// missing from the table is a *MissingRateError.
package currency

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrMissingRate matches every *MissingRateError.
	ErrMissingRate = errors.New("missing exchange rate")
	// ErrInvalidRate matches every *InvalidRateError.
	ErrInvalidRate = errors.New("invalid exchange rate")
	// ErrRatesUnavailable is returned by Snapshot methods while the table is
	// still loading or failed to load. It is a state, not a conversion failure.
	ErrRatesUnavailable = errors.New("exchange rates not available")
)

// MissingRateError reports a currency that has no entry in the rate table.
type MissingRateError struct {
	Currency string
	Base     string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no exchange rate for %s against %s", e.Currency, e.Base)
}

func (e *MissingRateError) Is(target error) bool { return target == ErrMissingRate }

// InvalidRateError reports a rate that is zero or negative.
type InvalidRateError struct {
	Currency string
	Rate     decimal.Decimal
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("exchange rate for %s must be positive, got %s", e.Currency, e.Rate)
}

func (e *InvalidRateError) Is(target error) bool { return target == ErrInvalidRate }

// Table is an exchange-rate table: Rates[code] units of code per one unit of Base.
type Table struct {
	Base  string
	Rates map[string]decimal.Decimal
}

// NewTable builds a table, upper-casing currency codes.
func NewTable(base string, rates map[string]decimal.Decimal) Table {
	t := Table{Base: Normalize(base), Rates: make(map[string]decimal.Decimal, len(rates))}
	for code, rate := range rates {
		t.Rates[Normalize(code)] = rate
	}
	return t
}

// Rate returns the rate for code. The base currency is always 1.
func (t Table) Rate(code string) (decimal.Decimal, error) {
	if code == t.Base {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := t.Rates[code]
	if !ok {
		return decimal.Zero, &MissingRateError{Currency: code, Base: t.Base}
	}
	if !rate.IsPositive() {
		return decimal.Zero, &InvalidRateError{Currency: code, Rate: rate}
	}
	return rate, nil
}

// Convert converts amount from one currency to another through the table.
//
//   - from == to: amount is returned unchanged, the table is not consulted
//   - from == base: amount * rate[to]
//   - to == base: amount / rate[from]
//   - otherwise the amount is routed through the base: amount / rate[from] * rate[to]
func (t Table) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from, to = Normalize(from), Normalize(to)
	switch {
	case from == to:
		return amount, nil
	case from == t.Base:
		rate, err := t.Rate(to)
		if err != nil {
			return decimal.Zero, err
		}
		return amount.Mul(rate), nil
	case to == t.Base:
		rate, err := t.Rate(from)
		if err != nil {
			return decimal.Zero, err
		}
		return amount.Div(rate), nil
	default:
		fromRate, err := t.Rate(from)
		if err != nil {
			return decimal.Zero, err
		}
		toRate, err := t.Rate(to)
		if err != nil {
			return decimal.Zero, err
		}
		return amount.Div(fromRate).Mul(toRate), nil
	}
}

// Convert is the functional form of Table.Convert for callers holding a bare rate map.
func Convert(amount decimal.Decimal, from, to string, rates map[string]decimal.Decimal, base string) (decimal.Decimal, error) {
	return NewTable(base, rates).Convert(amount, from, to)
}

// Amount is a value in a specific currency.
type Amount struct {
	Value    decimal.Decimal
	Currency string
}

// Sum converts every amount into target and adds them up. The first
// conversion error aborts the sum.
func (t Table) Sum(amounts []Amount, target string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range amounts {
		v, err := t.Convert(a.Value, a.Currency, target)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(v)
	}
	return total, nil
}

// Sum is the functional form of Table.Sum.
func Sum(amounts []Amount, target string, table Table) (decimal.Decimal, error) {
	return table.Sum(amounts, target)
}

// Normalize upper-cases and trims a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// State is the availability of a rate table.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "error"
)

// Snapshot is a rate table as seen by a caller at one moment, including
// whether it is usable yet.
type Snapshot struct {
	State     State
	Table     Table
	Err       error
	FetchedAt time.Time
}

// Ready reports whether conversions can be attempted.
func (s Snapshot) Ready() bool {
	return s.State == StateReady
}

// Convert converts through the snapshot's table, or returns ErrRatesUnavailable
// when the table is not ready.
func (s Snapshot) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if Normalize(from) == Normalize(to) {
		return amount, nil
	}
	if !s.Ready() {
		return decimal.Zero, ErrRatesUnavailable
	}
	return s.Table.Convert(amount, from, to)
}

// Sum aggregates through the snapshot's table, or returns ErrRatesUnavailable
// when the table is not ready.
func (s Snapshot) Sum(amounts []Amount, target string) (decimal.Decimal, error) {
	if !s.Ready() {
		return decimal.Zero, ErrRatesUnavailable
	}
	return s.Table.Sum(amounts, target)
}

// ValidCode reports whether code looks like an ISO 4217 code (three letters).
func ValidCode(code string) bool {
	code = Normalize(code)
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
