package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/money"
	"github.com/mmynk/fintrack/internal/storage"
)

const transactionColumns = "id, owner_id, account_id, category_id, description, amount, date, created_at"

// CreateTransaction persists a transaction with its splits and applies the
// amount to the account balance in one SQL transaction.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == "" {
		txn.ID = newID()
	}
	if txn.CreatedAt == 0 {
		txn.CreatedAt = now()
	}
	if txn.Date == 0 {
		txn.Date = txn.CreatedAt
	}
	txn.Amount = money.Normalize(txn.Amount)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Also confirms the account belongs to the owner before anything is written.
	if err := adjustBalance(ctx, tx, txn.OwnerID, txn.AccountID, txn.Amount); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO transactions ("+transactionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		txn.ID, txn.OwnerID, txn.AccountID, nullString(txn.CategoryID),
		txn.Description, txn.Amount, txn.Date, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := insertSplits(ctx, tx, txn); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction with its splits.
func (s *SQLiteStore) GetTransaction(ctx context.Context, ownerID, txnID string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND owner_id = ?",
		txnID, ownerID,
	)
	txn, err := scanTransaction(row)
	if isNoRows(err) {
		return nil, notFound("transaction", txnID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	txns := []models.Transaction{*txn}
	if err := s.loadSplits(ctx, txns); err != nil {
		return nil, err
	}
	return &txns[0], nil
}

// ListTransactions returns the owner's transactions matching filter, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, ownerID string, filter storage.TransactionFilter) ([]models.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions t WHERE owner_id = ?"
	args := []any{ownerID}

	if filter.AccountID != "" {
		query += " AND account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.CategoryID != "" {
		query += " AND category_id = ?"
		args = append(args, filter.CategoryID)
	}
	if filter.PersonID != "" {
		query += " AND EXISTS (SELECT 1 FROM splits s WHERE s.transaction_id = t.id AND s.person_id = ?)"
		args = append(args, filter.PersonID)
	}
	if filter.From != 0 {
		query += " AND date >= ?"
		args = append(args, filter.From)
	}
	if filter.To != 0 {
		query += " AND date <= ?"
		args = append(args, filter.To)
	}
	query += " ORDER BY date DESC, created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	rows.Close()

	if err := s.loadSplits(ctx, txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// UpdateTransaction replaces a transaction and its splits. The old amount is
// taken off the old account and the new amount applied to the new one.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	txn.Amount = money.Normalize(txn.Amount)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldAccount, oldAmount string
	err = tx.QueryRowContext(ctx,
		"SELECT account_id, amount FROM transactions WHERE id = ? AND owner_id = ?",
		txn.ID, txn.OwnerID,
	).Scan(&oldAccount, &oldAmount)
	if isNoRows(err) {
		return notFound("transaction", txn.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to read transaction: %w", err)
	}

	if err := adjustBalance(ctx, tx, txn.OwnerID, oldAccount, money.Format(money.ParseOrZero(oldAmount).Neg())); err != nil {
		return err
	}
	if err := adjustBalance(ctx, tx, txn.OwnerID, txn.AccountID, txn.Amount); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE transactions SET account_id = ?, category_id = ?, description = ?, amount = ?, date = ?
		 WHERE id = ? AND owner_id = ?`,
		txn.AccountID, nullString(txn.CategoryID), txn.Description, txn.Amount, txn.Date,
		txn.ID, txn.OwnerID,
	); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM splits WHERE transaction_id = ?", txn.ID); err != nil {
		return fmt.Errorf("failed to clear splits: %w", err)
	}
	if err := insertSplits(ctx, tx, txn); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, ownerID, txnID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var accountID, amount string
	err = tx.QueryRowContext(ctx,
		"SELECT account_id, amount FROM transactions WHERE id = ? AND owner_id = ?",
		txnID, ownerID,
	).Scan(&accountID, &amount)
	if isNoRows(err) {
		return notFound("transaction", txnID)
	}
	if err != nil {
		return fmt.Errorf("failed to read transaction: %w", err)
	}

	if err := adjustBalance(ctx, tx, ownerID, accountID, money.Format(money.ParseOrZero(amount).Neg())); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", txnID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, txn *models.Transaction) error {
	for i, split := range txn.Splits {
		amount := money.Normalize(split.Amount)
		txn.Splits[i].Amount = amount
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO splits (transaction_id, person_id, amount, position) VALUES (?, ?, ?, ?)",
			txn.ID, split.PersonID, amount, i,
		); err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

// splitBatch bounds the IDs bound into one IN clause, well below SQLite's
// host parameter limit.
const splitBatch = 500

// loadSplits fills in Splits for txns, querying splitBatch transactions at a time.
func (s *SQLiteStore) loadSplits(ctx context.Context, txns []models.Transaction) error {
	index := make(map[string]int, len(txns))
	for i, txn := range txns {
		index[txn.ID] = i
	}

	for lo := 0; lo < len(txns); lo += splitBatch {
		hi := min(lo+splitBatch, len(txns))
		args := make([]any, 0, hi-lo)
		for _, txn := range txns[lo:hi] {
			args = append(args, txn.ID)
		}
		if err := s.loadSplitBatch(ctx, txns, index, args); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) loadSplitBatch(ctx context.Context, txns []models.Transaction, index map[string]int, ids []any) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT transaction_id, person_id, amount FROM splits WHERE transaction_id IN ("+placeholders(len(ids))+") ORDER BY transaction_id, position",
		ids...,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var txnID string
		var split models.Split
		if err := rows.Scan(&txnID, &split.PersonID, &split.Amount); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		i := index[txnID]
		txns[i].Splits = append(txns[i].Splits, split)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var category sql.NullString
	if err := row.Scan(&txn.ID, &txn.OwnerID, &txn.AccountID, &category,
		&txn.Description, &txn.Amount, &txn.Date, &txn.CreatedAt); err != nil {
		return nil, err
	}
	txn.CategoryID = category.String
	return txn, nil
}

// placeholders returns "?, ?, ..." with n placeholders for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
