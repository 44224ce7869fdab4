package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/money"
)

const accountColumns = "id, owner_id, name, type, currency, balance, created_at"

// CreateAccount persists a new account. Balance is the opening balance.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = newID()
	}
	if account.CreatedAt == 0 {
		account.CreatedAt = now()
	}
	account.Balance = money.Normalize(account.Balance)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO accounts ("+accountColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		account.ID, account.OwnerID, account.Name, string(account.Type),
		account.Currency, account.Balance, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetAccount retrieves one of the owner's accounts.
func (s *SQLiteStore) GetAccount(ctx context.Context, ownerID, accountID string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = ? AND owner_id = ?",
		accountID, ownerID,
	)
	account, err := scanAccount(row)
	if isNoRows(err) {
		return nil, notFound("account", accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// ListAccounts returns the owner's accounts ordered by name.
func (s *SQLiteStore) ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE owner_id = ? ORDER BY name COLLATE NOCASE, id",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount renames or retypes an account.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, account *models.Account) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE accounts SET name = ?, type = ? WHERE id = ? AND owner_id = ?",
		account.Name, string(account.Type), account.ID, account.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return checkAffected(res, "account", account.ID)
}

// DeleteAccount removes an account and, by cascade, its transactions and their splits.
func (s *SQLiteStore) DeleteAccount(ctx context.Context, ownerID, accountID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM accounts WHERE id = ? AND owner_id = ?",
		accountID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return checkAffected(res, "account", accountID)
}

func scanAccount(row scanner) (*models.Account, error) {
	account := &models.Account{}
	var accountType string
	if err := row.Scan(&account.ID, &account.OwnerID, &account.Name, &accountType,
		&account.Currency, &account.Balance, &account.CreatedAt); err != nil {
		return nil, err
	}
	account.Type = models.AccountType(accountType)
	return account, nil
}

// adjustBalance adds delta to an account balance inside tx.
func adjustBalance(ctx context.Context, tx *sql.Tx, ownerID, accountID, delta string) error {
	var balance string
	err := tx.QueryRowContext(ctx,
		"SELECT balance FROM accounts WHERE id = ? AND owner_id = ?",
		accountID, ownerID,
	).Scan(&balance)
	if isNoRows(err) {
		return notFound("account", accountID)
	}
	if err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}

	updated := money.ParseOrZero(balance).Add(money.ParseOrZero(delta))
	if _, err := tx.ExecContext(ctx,
		"UPDATE accounts SET balance = ? WHERE id = ?",
		money.Format(updated), accountID,
	); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

// CreateCategory persists a new category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = newID()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (id, owner_id, name, kind, color) VALUES (?, ?, ?, ?, ?)",
		category.ID, category.OwnerID, category.Name, string(category.Kind), nullString(category.Color),
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// ListCategories returns the owner's categories ordered by kind and name.
func (s *SQLiteStore) ListCategories(ctx context.Context, ownerID string) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, name, kind, color FROM categories WHERE owner_id = ? ORDER BY kind, name COLLATE NOCASE",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		var kind string
		var color sql.NullString
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &kind, &color); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		c.Kind = models.CategoryKind(kind)
		c.Color = color.String
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// DeleteCategory removes a category; transactions keep existing uncategorized.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, ownerID, categoryID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM categories WHERE id = ? AND owner_id = ?",
		categoryID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return checkAffected(res, "category", categoryID)
}
