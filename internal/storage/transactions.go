package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ledgersage/ledgersage/internal/common"
	"github.com/ledgersage/ledgersage/internal/model"
	"github.com/ledgersage/ledgersage/internal/service"
)

// SaveTransactions persists transactions, skipping duplicates by hash.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, user_id, hash, date, name, merchant_name, category, amount, account_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range transactions {
		txn := &transactions[i]
		hash := txn.Hash
		if hash == "" {
			hash = txn.GenerateHash()
		}
		if _, err := stmt.ExecContext(ctx,
			txn.ID, txn.UserID, hash, txn.Date, txn.Name,
			txn.MerchantName, txn.Category, txn.Amount, txn.AccountID,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}
	return nil
}

// GetTransactionByID retrieves a single transaction.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var txn model.Transaction
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, hash, date, name, merchant_name, category, amount, account_id
		FROM transactions WHERE id = ?`, id).Scan(
		&txn.ID, &txn.UserID, &txn.Hash, &txn.Date, &txn.Name,
		&txn.MerchantName, &txn.Category, &txn.Amount, &txn.AccountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

// GetTransactions retrieves transactions matching the filter, newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(filter.UserID, "filter.UserID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, hash, date, name, merchant_name, category, amount, account_id
		FROM transactions WHERE user_id = ?`
	args := []any{filter.UserID}

	if filter.Start != nil {
		query += " AND date >= ?"
		args = append(args, *filter.Start)
	}
	if filter.End != nil {
		query += " AND date <= ?"
		args = append(args, *filter.End)
	}
	if filter.ExpensesOnly {
		query += " AND amount < 0"
	}
	query += " ORDER BY date DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		if err := rows.Scan(
			&txn.ID, &txn.UserID, &txn.Hash, &txn.Date, &txn.Name,
			&txn.MerchantName, &txn.Category, &txn.Amount, &txn.AccountID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

// CountTransactions returns the total transaction count for a user.
func (s *SQLiteStorage) CountTransactions(ctx context.Context, userID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// CountMerchantTransactions counts a user's visits to a merchant since the
// given time.
func (s *SQLiteStorage) CountMerchantTransactions(ctx context.Context, userID, merchant string, since time.Time) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}
	if merchant == "" {
		return 0, nil
	}

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE user_id = ? AND merchant_name = ? AND date >= ?`,
		userID, merchant, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count merchant transactions: %w", err)
	}
	return count, nil
}

// CountSimilarExpenses counts expenses resembling the given transaction
// (same category or same merchant) since the given time, excluding the
// transaction itself. The count is capped at limit.
func (s *SQLiteStorage) CountSimilarExpenses(ctx context.Context, txn *model.Transaction, since time.Time, limit int) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransaction(txn); err != nil {
		return 0, err
	}
	if limit <= 0 {
		return 0, nil
	}

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT id FROM transactions
			WHERE user_id = ? AND id != ? AND amount < 0 AND date >= ?
			AND (category = ? OR (merchant_name != '' AND merchant_name = ?))
			LIMIT ?
		)`,
		txn.UserID, txn.ID, since, txn.Category, txn.MerchantName, limit).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count similar expenses: %w", err)
	}
	return count, nil
}

// SumCategoryExpenses totals a user's spending in a category since the given
// time. The sum is returned as a positive amount.
func (s *SQLiteStorage) SumCategoryExpenses(ctx context.Context, userID, category string, since time.Time) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}

	var total float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ABS(amount)), 0) FROM transactions
		WHERE user_id = ? AND category = ? AND amount < 0 AND date >= ?`,
		userID, category, since).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum category expenses: %w", err)
	}
	return total, nil
}

// GetAccountOwners returns the user IDs linked to an account.
func (s *SQLiteStorage) GetAccountOwners(ctx context.Context, accountID string) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM account_owners WHERE account_id = ? ORDER BY user_id", accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query account owners: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var owners []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan account owner: %w", err)
		}
		owners = append(owners, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account owners: %w", err)
	}
	return owners, nil
}

// SaveAccountOwner links a user to an account. Saving an existing link is a
// no-op.
func (s *SQLiteStorage) SaveAccountOwner(ctx context.Context, accountID, userID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO account_owners (account_id, user_id) VALUES (?, ?)
		ON CONFLICT(account_id, user_id) DO NOTHING`, accountID, userID)
	if err != nil {
		return fmt.Errorf("failed to save account owner: %w", err)
	}
	return nil
}
