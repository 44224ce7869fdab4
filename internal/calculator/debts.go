// Package calculator derives debt views from transaction splits and builds splits.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/money"
)

// Settlement is the direction in which a net balance has to be settled.
type Settlement string

const (
	// OwedToOwner means the person owes the owner (net > 0).
	OwedToOwner Settlement = "OWED_TO_OWNER"
	// OwnerOwes means the owner owes the person (net < 0).
	OwnerOwes Settlement = "OWNER_OWES"
	// Settled means nothing is owed either way.
	Settled Settlement = "SETTLED"
)

// DebtSummary is one person's debt position relative to the owner.
// All fields are formatted with two decimal places.
type DebtSummary struct {
	OwesMe string // Sum of positive splits for the person
	IOwe   string // Sum of absolute values of negative splits
	Net    string // OwesMe - IOwe, keeps its sign
}

// Ledger is the full debt view over a set of people.
type Ledger struct {
	// Summaries maps person ID to that person's summary. Every input person is present.
	Summaries map[string]DebtSummary

	TotalOwedToOwner string
	TotalOwnerOwes   string
	NetBalance       string
}

// Summary returns the summary for a person, or a zero summary when the person is unknown.
func (l Ledger) Summary(personID string) DebtSummary {
	if s, ok := l.Summaries[personID]; ok {
		return s
	}
	return zeroSummary()
}

// Settlement classifies the ledger's aggregate net balance.
func (l Ledger) Settlement() Settlement {
	return ClassifyString(l.NetBalance)
}

type tally struct {
	owesMe decimal.Decimal
	iOwe   decimal.Decimal
}

// CalculateDebts builds the debt ledger for people from the splits on transactions.
//
// Algorithm:
//   - every person starts at owes_me = 0, i_owe = 0
//   - a positive split adds to the person's owes_me, a negative one adds its
//     absolute value to i_owe, zero is a no-op
//   - splits naming a person outside people are ignored
//   - net = owes_me - i_owe; totals are summed over people
//
// Split amounts that do not parse count as zero. Inputs are not modified.
func CalculateDebts(people []models.Person, transactions []models.Transaction) Ledger {
	tallies := make(map[string]*tally, len(people))
	for _, p := range people {
		tallies[p.ID] = &tally{owesMe: decimal.Zero, iOwe: decimal.Zero}
	}

	for _, txn := range transactions {
		if !txn.HasSplits() {
			continue
		}
		for _, split := range txn.Splits {
			t, ok := tallies[split.PersonID]
			if !ok {
				continue
			}
			amount := money.ParseOrZero(split.Amount)
			switch amount.Sign() {
			case 1:
				t.owesMe = t.owesMe.Add(amount)
			case -1:
				t.iOwe = t.iOwe.Add(amount.Abs())
			}
		}
	}

	ledger := Ledger{Summaries: make(map[string]DebtSummary, len(tallies))}
	totalOwed, totalOwes := decimal.Zero, decimal.Zero
	for id, t := range tallies {
		ledger.Summaries[id] = DebtSummary{
			OwesMe: money.Format(t.owesMe),
			IOwe:   money.Format(t.iOwe),
			Net:    money.Format(t.owesMe.Sub(t.iOwe)),
		}
		totalOwed = totalOwed.Add(t.owesMe)
		totalOwes = totalOwes.Add(t.iOwe)
	}
	ledger.TotalOwedToOwner = money.Format(totalOwed)
	ledger.TotalOwnerOwes = money.Format(totalOwes)
	ledger.NetBalance = money.Format(totalOwed.Sub(totalOwes))

	return ledger
}

// Classify returns the settlement direction for a net balance.
func Classify(net decimal.Decimal) Settlement {
	switch net.Sign() {
	case 1:
		return OwedToOwner
	case -1:
		return OwnerOwes
	default:
		return Settled
	}
}

// ClassifyString classifies a formatted net balance. Malformed input is Settled.
func ClassifyString(net string) Settlement {
	return Classify(money.ParseOrZero(net))
}

func zeroSummary() DebtSummary {
	zero := money.Format(decimal.Zero)
	return DebtSummary{OwesMe: zero, IOwe: zero, Net: zero}
}
