package api

// Rate table states reported in RatesStatus fields. While the status is not
// RatesReady, converted amounts and totals are zero.
const (
	RatesLoading = "loading"
	RatesReady   = "ready"
	RatesError   = "error"
)

// Monetary values are signed decimal strings; timestamps are Unix seconds.

type User struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	DisplayName     string `json:"display_name"`
	DefaultCurrency string `json:"default_currency"`
	CreatedAt       int64  `json:"created_at"`
}

type Person struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// DebtSummary is one person's position relative to the caller.
type DebtSummary struct {
	PersonID   string `json:"person_id"`
	PersonName string `json:"person_name"`
	OwesMe     string `json:"owes_me"`
	IOwe       string `json:"i_owe"`
	Net        string `json:"net"`
	// Settlement is OWED_TO_OWNER, OWNER_OWES or SETTLED.
	Settlement string `json:"settlement"`
}

// DebtTotals aggregates every person's summary.
type DebtTotals struct {
	TotalOwedToOwner string `json:"total_owed_to_owner"`
	TotalOwnerOwes   string `json:"total_owner_owes"`
	NetBalance       string `json:"net_balance"`
	Settlement       string `json:"settlement"`
}

type Account struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Currency  string `json:"currency"`
	Balance   string `json:"balance"`
	CreatedAt int64  `json:"created_at"`
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Color string `json:"color,omitempty"`
}

// Split is a person's share of a transaction. Positive: the person owes the
// caller. Negative: the caller owes the person.
type Split struct {
	PersonID string `json:"person_id"`
	Amount   string `json:"amount"`
}

type Transaction struct {
	ID          string   `json:"id"`
	AccountID   string   `json:"account_id"`
	CategoryID  string   `json:"category_id,omitempty"`
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	Currency    string   `json:"currency"`
	Date        int64    `json:"date"`
	Splits      []*Split `json:"splits,omitempty"`
	// OwnerShare is the part of Amount not assigned to anyone.
	OwnerShare string `json:"owner_share"`
	// ConvertedAmount is Amount in the caller's default currency, empty unless
	// rates are ready.
	ConvertedAmount string `json:"converted_amount,omitempty"`
	CreatedAt       int64  `json:"created_at"`
}

// CategoryTotal is the spending in one category over a dashboard period.
type CategoryTotal struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	Total      string `json:"total"`
}
