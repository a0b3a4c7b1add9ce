package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ledgersage/ledgersage/internal/common"
	"github.com/ledgersage/ledgersage/internal/model"
	"github.com/ledgersage/ledgersage/internal/service"
)

func insightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Inspect and manage behavioral spending insights",
	}
	cmd.AddCommand(insightsListCmd())
	cmd.AddCommand(insightsAcknowledgeCmd())
	cmd.AddCommand(insightsBackfillCmd())
	return cmd
}

func insightsListCmd() *cobra.Command {
	var (
		userID         string
		days, limit    int
		unacknowledged bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent insights for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var insights []model.SpendingInsight
			if unacknowledged {
				insights, err = store.GetUnacknowledgedInsights(ctx, userID, limit)
			} else {
				since := time.Now().AddDate(0, 0, -days)
				insights, err = store.GetRecentInsights(ctx, userID, since, limit)
			}
			if err != nil {
				return err
			}
			if len(insights) == 0 {
				fmt.Println("No insights found.")
				return nil
			}

			for _, in := range insights {
				marker := " "
				if !in.Acknowledged {
					marker = "!"
				}
				emotion := "-"
				if in.EmotionalContext != nil {
					emotion = string(*in.EmotionalContext)
				}
				fmt.Printf("%s %-22s %-14s confidence %3d  %s\n",
					marker, in.Pattern, emotion, in.ConfidenceScore, in.ID)
				fmt.Printf("    %s\n", in.Recommendation)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user whose insights to list")
	cmd.Flags().IntVar(&days, "days", 30, "lookback window in days")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum insights to show")
	cmd.Flags().BoolVar(&unacknowledged, "unacknowledged", false, "only show unacknowledged insights")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func insightsAcknowledgeCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "acknowledge <insight-id>",
		Short: "Mark an insight as seen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.AcknowledgeInsight(ctx, userID, args[0]); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError("insight not found; run `sage insights list` to see current IDs", err)
				}
				return fmt.Errorf("failed to acknowledge insight: %w", err)
			}
			slog.Info("Insight acknowledged", "user_id", userID, "insight_id", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user who owns the insight")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// insightsBackfillCmd runs the insight pass over historical transactions
// that were never analyzed. Transactions with an existing insight are
// skipped, so the command is safe to rerun.
func insightsBackfillCmd() *cobra.Command {
	var (
		userID string
		days   int
	)

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Analyze historical transactions that have no insight yet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			p, err := initPipeline(ctx)
			if err != nil {
				return err
			}
			defer p.Close()

			since := time.Now().AddDate(0, 0, -days)
			transactions, err := p.store.GetTransactions(ctx, service.TransactionFilter{
				UserID:       userID,
				Start:        &since,
				ExpensesOnly: true,
			})
			if err != nil {
				return err
			}
			if len(transactions) == 0 {
				fmt.Println("No transactions in the window.")
				return nil
			}

			bar := progressbar.NewOptions(len(transactions),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Analyzing transactions..."),
			)

			var analyzed, skipped int
			for _, txn := range transactions {
				if err := ctx.Err(); err != nil {
					return err
				}

				exists, err := p.store.HasInsightForTransaction(ctx, txn.ID)
				if err != nil {
					return err
				}
				if exists {
					skipped++
					_ = bar.Add(1)
					continue
				}

				p.runner.TransactionInsight(ctx, txn.ID)
				analyzed++
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			slog.Info("Backfill complete",
				"user_id", userID,
				"analyzed", analyzed,
				"already_analyzed", skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user whose history to analyze")
	cmd.Flags().IntVar(&days, "days", 90, "lookback window in days")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
