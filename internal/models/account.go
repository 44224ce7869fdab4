package models

// AccountType classifies an account.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCredit     AccountType = "credit"
	AccountCash       AccountType = "cash"
	AccountInvestment AccountType = "investment"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCredit, AccountCash, AccountInvestment:
		return true
	}
	return false
}

// Account holds money in a single currency.
type Account struct {
	ID      string
	OwnerID string
	Name    string
	Type    AccountType

	// Currency is the ISO 4217 code every transaction on this account is denominated in.
	Currency string

	// Balance is the current balance as a decimal string. The store keeps it in
	// step with the account's transactions.
	Balance string

	CreatedAt int64
}

// CategoryKind tells income categories from expense categories.
type CategoryKind string

const (
	CategoryIncome  CategoryKind = "income"
	CategoryExpense CategoryKind = "expense"
)

// Category labels transactions for reports.
type Category struct {
	ID      string
	OwnerID string
	Name    string
	Kind    CategoryKind
	Color   string
}
