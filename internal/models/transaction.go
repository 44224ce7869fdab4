package models

// Transaction is a single movement of money on an account.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	OwnerID   string
	AccountID string

	// CategoryID is optional; empty means uncategorized.
	CategoryID string

	Description string

	// Amount is a signed decimal string: positive is money in, negative is money out.
	// The currency is the owning account's currency.
	Amount string

	// Date is the Unix timestamp the transaction happened at.
	Date int64

	// Splits assigns shares of this transaction to people. Empty for
	// transactions that only concern the owner.
	Splits []Split

	CreatedAt int64
}

// HasSplits reports whether the transaction carries any per-person shares.
func (t *Transaction) HasSplits() bool {
	return len(t.Splits) > 0
}

// Split is one person's share of a transaction, signed from the owner's point of view.
type Split struct {
	// PersonID references a Person of the same owner.
	PersonID string

	// Amount is a signed decimal string. Positive: the person owes the owner.
	// Negative: the owner owes the person.
	Amount string
}
