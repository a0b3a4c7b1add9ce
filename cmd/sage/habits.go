package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func habitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habits",
		Short: "Inspect tracked spending habits",
	}
	cmd.AddCommand(habitsListCmd())
	return cmd
}

func habitsListCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's tracked habits with projected costs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			habits, err := store.GetHabits(ctx, userID)
			if err != nil {
				return err
			}
			if len(habits) == 0 {
				fmt.Println("No habits tracked yet.")
				return nil
			}

			for _, habit := range habits {
				kind := "negative"
				if habit.Positive {
					kind = "positive"
				}
				fmt.Printf("%-24s %-8s streak %d (best %d)  strength %.0f\n",
					habit.HabitType, kind, habit.CurrentStreak, habit.LongestStreak, habit.Strength())
				fmt.Printf("    ~$%.2f/week, ~$%.2f/month, ~$%.2f/year\n",
					habit.WeeklyCost(), habit.MonthlyCost(), habit.YearlyCost())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user whose habits to list")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
