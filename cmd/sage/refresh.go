package main

import (
	"github.com/spf13/cobra"
)

// refreshCmd runs the full per-user refresh: personality inference, budget
// regeneration, and the daily check-in.
func refreshCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh a user's personality, budgets, and daily check-in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			p, err := initPipeline(ctx)
			if err != nil {
				return err
			}
			defer p.Close()

			return p.runner.PersonalityAndBudgetRefresh(ctx, userID)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user to refresh")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// analyzeCmd runs the insight pass on a single transaction.
func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <transaction-id>",
		Short: "Analyze one transaction for behavioral patterns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := initPipeline(ctx)
			if err != nil {
				return err
			}
			defer p.Close()

			p.runner.TransactionInsight(ctx, args[0])
			return nil
		},
	}
}
