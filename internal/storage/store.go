// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmynk/fintrack/internal/models"
)

// ErrNotFound is returned (wrapped) when a record does not exist or belongs to another owner.
var ErrNotFound = errors.New("not found")

// TransactionFilter narrows ListTransactions. Zero values mean "no constraint".
type TransactionFilter struct {
	AccountID  string
	CategoryID string
	// PersonID keeps only transactions with a split for this person.
	PersonID string
	// From and To bound Date (Unix seconds, inclusive).
	From int64
	To   int64
}

// UserStore holds registered users.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserSettings(ctx context.Context, userID, defaultCurrency string) error
}

// RateStore holds manually maintained exchange rates.
type RateStore interface {
	// SetRate records units of code per one unit of base.
	SetRate(ctx context.Context, base, code string, rate decimal.Decimal) error
	// ListRates returns every rate stored against base. An empty map is not an error.
	ListRates(ctx context.Context, base string) (map[string]decimal.Decimal, error)
}

// Store defines the interface for all fintrack storage operations.
// Every owner-scoped read and write takes the owner's user ID; records of
// other owners behave as if they did not exist.
type Store interface {
	UserStore
	RateStore

	// CreatePerson persists a new person. ID and CreatedAt are populated by the store.
	CreatePerson(ctx context.Context, person *models.Person) error
	GetPerson(ctx context.Context, ownerID, personID string) (*models.Person, error)
	ListPeople(ctx context.Context, ownerID string) ([]models.Person, error)
	UpdatePerson(ctx context.Context, person *models.Person) error
	// DeletePerson removes the person and every split that references them.
	DeletePerson(ctx context.Context, ownerID, personID string) error

	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, ownerID, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error)
	// UpdateAccount changes name and type. Currency and balance are not editable.
	UpdateAccount(ctx context.Context, account *models.Account) error
	// DeleteAccount removes the account and all of its transactions.
	DeleteAccount(ctx context.Context, ownerID, accountID string) error

	CreateCategory(ctx context.Context, category *models.Category) error
	ListCategories(ctx context.Context, ownerID string) ([]models.Category, error)
	// DeleteCategory removes the category; its transactions become uncategorized.
	DeleteCategory(ctx context.Context, ownerID, categoryID string) error

	// CreateTransaction persists the transaction and its splits and applies its
	// amount to the account balance, atomically.
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransaction(ctx context.Context, ownerID, txnID string) (*models.Transaction, error)
	// ListTransactions returns matching transactions, newest first, splits included.
	ListTransactions(ctx context.Context, ownerID string, filter TransactionFilter) ([]models.Transaction, error)
	// UpdateTransaction replaces the transaction and its splits, moving the
	// balance effect from the old account/amount to the new one.
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error
	// DeleteTransaction removes the transaction and reverses its balance effect.
	DeleteTransaction(ctx context.Context, ownerID, txnID string) error

	// Close releases any resources held by the store.
	Close() error
}
