package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ledgersage/ledgersage/internal/common"
	"github.com/ledgersage/ledgersage/internal/model"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Generate, inspect, and adopt budget recommendations",
	}
	cmd.AddCommand(budgetGenerateCmd())
	cmd.AddCommand(budgetListCmd())
	cmd.AddCommand(budgetAdoptCmd())
	return cmd
}

func budgetGenerateCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a fresh batch of recommendations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			p, err := initPipeline(ctx)
			if err != nil {
				return err
			}
			defer p.Close()

			recs, outcome, err := p.runner.Budget().Generate(ctx, userID)
			if err != nil {
				return err
			}
			if outcome.Status == model.OutcomeSkipped {
				slog.Warn("Budget generation skipped",
					"user_id", userID,
					"reason", outcome.Reason)
				return nil
			}

			slog.Info("Recommendations generated",
				"user_id", userID,
				"count", len(recs),
				"status", outcome.Status)
			printRecommendations(recs)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user to generate budgets for")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func budgetListCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the current batch of recommendations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			recs, err := store.GetRecommendations(ctx, userID)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Println("No recommendations yet. Run `sage budget generate` first.")
				return nil
			}
			printRecommendations(recs)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user whose budgets to list")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func budgetAdoptCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "adopt <recommendation-id>",
		Short: "Adopt one recommendation as the active budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.AdoptRecommendation(ctx, userID, args[0]); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError("recommendation not found; run `sage budget list` to see current IDs", err)
				}
				return fmt.Errorf("failed to adopt recommendation: %w", err)
			}
			slog.Info("Recommendation adopted",
				"user_id", userID,
				"recommendation_id", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user adopting the budget")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printRecommendations(recs []model.BudgetRecommendation) {
	for _, rec := range recs {
		marker := " "
		if rec.Active {
			marker = "*"
		}
		fmt.Printf("%s %-12s %s\n", marker, rec.Type, rec.ID)
		fmt.Printf("    mandatory %.0f%%  desires %.0f%%  investment %.0f%%  (confidence %.0f)\n",
			rec.MandatoryAllocation, rec.DesiresAllocation, rec.InvestmentAllocation, rec.ConfidenceScore)
		fmt.Printf("    %s\n", rec.Rationale)
	}
}
