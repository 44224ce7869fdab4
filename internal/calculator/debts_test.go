package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/fintrack/internal/models"
)

func people(ids ...string) []models.Person {
	out := make([]models.Person, len(ids))
	for i, id := range ids {
		out[i] = models.Person{ID: id, Name: id}
	}
	return out
}

func txn(splits ...models.Split) models.Transaction {
	return models.Transaction{Amount: "-100.00", Splits: splits}
}

func zero() DebtSummary {
	return DebtSummary{OwesMe: "0.00", IOwe: "0.00", Net: "0.00"}
}

func TestCalculateDebtsNoSplits(t *testing.T) {
	ledger := CalculateDebts(people("alice", "bob"), []models.Transaction{
		{Amount: "-12.00"},
		{Amount: "40.00", Splits: []models.Split{}},
	})

	require.Len(t, ledger.Summaries, 2)
	assert.Equal(t, zero(), ledger.Summaries["alice"])
	assert.Equal(t, zero(), ledger.Summaries["bob"])
	assert.Equal(t, "0.00", ledger.TotalOwedToOwner)
	assert.Equal(t, "0.00", ledger.TotalOwnerOwes)
	assert.Equal(t, "0.00", ledger.NetBalance)
	assert.Equal(t, Settled, ledger.Settlement())
}

func TestCalculateDebtsEmptyInputs(t *testing.T) {
	ledger := CalculateDebts(people("alice"), nil)
	assert.Equal(t, zero(), ledger.Summaries["alice"])

	ledger = CalculateDebts(nil, []models.Transaction{txn(models.Split{PersonID: "alice", Amount: "5"})})
	assert.Empty(t, ledger.Summaries)
	assert.Equal(t, "0.00", ledger.NetBalance)
}

func TestCalculateDebtsForeignSplitsIgnored(t *testing.T) {
	ledger := CalculateDebts(people("alice"), []models.Transaction{
		txn(models.Split{PersonID: "mallory", Amount: "70.00"}),
		txn(models.Split{PersonID: "trent", Amount: "-10.00"}),
	})

	require.Len(t, ledger.Summaries, 1)
	assert.Equal(t, zero(), ledger.Summaries["alice"])
	_, phantom := ledger.Summaries["mallory"]
	assert.False(t, phantom)
	assert.Equal(t, "0.00", ledger.TotalOwedToOwner)
}

func TestCalculateDebtsSinglePositiveSplit(t *testing.T) {
	ledger := CalculateDebts(people("alice"), []models.Transaction{
		txn(models.Split{PersonID: "alice", Amount: "50.00"}),
	})

	s := ledger.Summaries["alice"]
	assert.Equal(t, "50.00", s.OwesMe)
	assert.Equal(t, "0.00", s.IOwe)
	assert.Equal(t, "50.00", s.Net)
	assert.Equal(t, OwedToOwner, ClassifyString(s.Net))
}

func TestCalculateDebtsMixedSigns(t *testing.T) {
	ledger := CalculateDebts(people("alice"), []models.Transaction{
		txn(models.Split{PersonID: "alice", Amount: "50.00"}),
		txn(models.Split{PersonID: "alice", Amount: "-20.00"}),
	})

	s := ledger.Summaries["alice"]
	assert.Equal(t, "50.00", s.OwesMe)
	assert.Equal(t, "20.00", s.IOwe)
	assert.Equal(t, "30.00", s.Net)
}

func TestCalculateDebtsNegativeNetKeepsSign(t *testing.T) {
	ledger := CalculateDebts(people("alice", "bob"), []models.Transaction{
		txn(models.Split{PersonID: "alice", Amount: "10"}, models.Split{PersonID: "bob", Amount: "-35.5"}),
		txn(models.Split{PersonID: "alice", Amount: "-25"}),
	})

	assert.Equal(t, DebtSummary{OwesMe: "10.00", IOwe: "25.00", Net: "-15.00"}, ledger.Summaries["alice"])
	assert.Equal(t, DebtSummary{OwesMe: "0.00", IOwe: "35.50", Net: "-35.50"}, ledger.Summaries["bob"])
	assert.Equal(t, "10.00", ledger.TotalOwedToOwner)
	assert.Equal(t, "60.50", ledger.TotalOwnerOwes)
	assert.Equal(t, "-50.50", ledger.NetBalance)
	assert.Equal(t, OwnerOwes, ledger.Settlement())
}

func TestCalculateDebtsMalformedAndZeroAmounts(t *testing.T) {
	ledger := CalculateDebts(people("alice"), []models.Transaction{
		txn(models.Split{PersonID: "alice", Amount: "twelve"}),
		txn(models.Split{PersonID: "alice", Amount: ""}),
		txn(models.Split{PersonID: "alice", Amount: "0.00"}),
		txn(models.Split{PersonID: "alice", Amount: "7.25"}),
	})

	assert.Equal(t, DebtSummary{OwesMe: "7.25", IOwe: "0.00", Net: "7.25"}, ledger.Summaries["alice"])
}

func TestCalculateDebtsIdempotent(t *testing.T) {
	ps := people("alice", "bob", "carol")
	txns := []models.Transaction{
		txn(models.Split{PersonID: "alice", Amount: "12.34"}, models.Split{PersonID: "bob", Amount: "-1.10"}),
		txn(models.Split{PersonID: "carol", Amount: "3"}),
	}

	first := CalculateDebts(ps, txns)
	second := CalculateDebts(ps, txns)
	assert.Equal(t, first, second)

	// inputs are left untouched
	assert.Equal(t, "12.34", txns[0].Splits[0].Amount)
	assert.Len(t, ps, 3)
}

func TestLedgerSummaryUnknownPerson(t *testing.T) {
	ledger := CalculateDebts(people("alice"), nil)
	assert.Equal(t, zero(), ledger.Summary("nobody"))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OwedToOwner, Classify(decimal.RequireFromString("0.01")))
	assert.Equal(t, OwnerOwes, Classify(decimal.RequireFromString("-0.01")))
	assert.Equal(t, Settled, Classify(decimal.Zero))
	assert.Equal(t, Settled, ClassifyString("n/a"))
}
