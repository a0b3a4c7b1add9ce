package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ledgersage/ledgersage/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions and account links",
	}
	cmd.AddCommand(importTransactionsCmd())
	cmd.AddCommand(importOwnerCmd())
	return cmd
}

// importRecord is the on-disk transaction format. Amounts follow ledger sign
// conventions: negative for expenses.
type importRecord struct {
	Date         string  `json:"date"`
	Name         string  `json:"name"`
	MerchantName string  `json:"merchant_name"`
	Category     string  `json:"category"`
	AccountID    string  `json:"account_id"`
	Amount       float64 `json:"amount"`
}

func importTransactionsCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "transactions <file.json>",
		Short: "Import a JSON file of transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			var records []importRecord
			if err := json.Unmarshal(data, &records); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			transactions := make([]model.Transaction, 0, len(records))
			for i, rec := range records {
				date, err := parseDate(rec.Date)
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				txn := model.Transaction{
					ID:           uuid.NewString(),
					UserID:       userID,
					Date:         date,
					Name:         rec.Name,
					MerchantName: rec.MerchantName,
					Category:     rec.Category,
					AccountID:    rec.AccountID,
					Amount:       rec.Amount,
				}
				txn.Hash = txn.GenerateHash()
				transactions = append(transactions, txn)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			// Duplicates are dropped on the transaction hash.
			if err := store.SaveTransactions(ctx, transactions); err != nil {
				return fmt.Errorf("failed to save transactions: %w", err)
			}

			slog.Info("Transactions imported",
				"user_id", userID,
				"file", args[0],
				"count", len(transactions))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user the transactions belong to")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func importOwnerCmd() *cobra.Command {
	var accountID, userID string

	cmd := &cobra.Command{
		Use:   "owner",
		Short: "Link an account to its owner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveAccountOwner(ctx, accountID, userID); err != nil {
				return fmt.Errorf("failed to link account: %w", err)
			}
			slog.Info("Account linked", "account_id", accountID, "user_id", userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account to link")
	cmd.Flags().StringVar(&userID, "user", "", "owning user")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want 2006-01-02 or RFC3339)", s)
}
