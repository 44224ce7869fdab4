package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/money"
)

var (
	ErrNoParticipants     = errors.New("must have at least one person to split with")
	ErrDuplicateSplit     = errors.New("a person can appear only once in a split list")
	ErrInvalidSplitAmount = errors.New("split amount is not a valid decimal")
	ErrSplitsExceedAmount = errors.New("splits add up to more than the transaction amount")
)

// ValidateSplits checks a split list against its transaction amount before it is stored.
// The shares may not add up to more than the transaction itself (compared by absolute
// value). Whatever is left over is the owner's own share, which is returned.
// Amounts are compared at cent precision, the way they are stored.
func ValidateSplits(amount string, splits []models.Split) (decimal.Decimal, error) {
	total, err := money.Parse(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("transaction amount %q: %w", amount, err)
	}
	total = total.Round(2)

	seen := make(map[string]bool, len(splits))
	allocated := decimal.Zero
	for _, s := range splits {
		if seen[s.PersonID] {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrDuplicateSplit, s.PersonID)
		}
		seen[s.PersonID] = true

		share, err := money.Parse(s.Amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q for %s", ErrInvalidSplitAmount, s.Amount, s.PersonID)
		}
		allocated = allocated.Add(share.Round(2).Abs())
	}

	if allocated.GreaterThan(total.Abs()) {
		return decimal.Zero, fmt.Errorf("%w: %s > %s", ErrSplitsExceedAmount, money.Format(allocated), money.Format(total.Abs()))
	}
	return total.Abs().Sub(allocated), nil
}

// SplitEqually divides a transaction amount into equal per-person shares.
//
// When includeOwner is set the owner takes one share too and it is simply not
// emitted. Cents that do not divide evenly go to the people first, in order.
// For money the owner paid out (amount < 0) every person owes the owner, so
// shares are positive; for money the owner received (amount > 0) the owner
// owes each person, so shares are negative.
func SplitEqually(amount decimal.Decimal, personIDs []string, includeOwner bool) ([]models.Split, error) {
	if len(personIDs) == 0 {
		return nil, ErrNoParticipants
	}
	seen := make(map[string]bool, len(personIDs))
	for _, id := range personIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSplit, id)
		}
		seen[id] = true
	}

	shares := int64(len(personIDs))
	if includeOwner {
		shares++
	}

	cents := amount.Abs().Round(2).Shift(2).IntPart()
	per := cents / shares
	leftover := cents % shares

	sign := decimal.NewFromInt(1)
	if amount.IsPositive() {
		sign = decimal.NewFromInt(-1)
	}

	splits := make([]models.Split, len(personIDs))
	for i, id := range personIDs {
		c := per
		if int64(i) < leftover {
			c++
		}
		share := decimal.New(c, -2).Mul(sign)
		splits[i] = models.Split{PersonID: id, Amount: money.Format(share)}
	}
	return splits, nil
}
