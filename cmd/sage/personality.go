package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// personalityCmd shows the stored personality profile. Inference happens
// through `sage refresh`.
func personalityCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "personality",
		Short: "Show a user's inferred financial personality",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			profile, err := store.GetPersonality(ctx, userID)
			if err != nil {
				return err
			}
			if profile == nil {
				fmt.Println("No personality profile yet. Run `sage refresh` first.")
				return nil
			}

			freshness := "stale"
			if profile.Current(time.Now()) {
				freshness = "current"
			}
			fmt.Printf("%s (%s, confidence %d)\n", profile.Type, freshness, profile.ConfidenceScore)
			fmt.Printf("  risk tolerance %d/10, discipline %d/10\n", profile.RiskTolerance, profile.DisciplineLevel)
			if len(profile.SpendingTriggers) > 0 {
				fmt.Printf("  triggers: %s\n", strings.Join(profile.SpendingTriggers, ", "))
			}
			if profile.Summary != "" {
				fmt.Printf("  %s\n", profile.Summary)
			}
			fmt.Printf("  last analyzed %s\n", profile.LastAnalyzedAt.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user whose profile to show")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
