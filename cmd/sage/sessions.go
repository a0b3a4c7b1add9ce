package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ledgersage/ledgersage/internal/common"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Record feedback on coaching sessions",
	}
	cmd.AddCommand(sessionFeedbackCmd())
	cmd.AddCommand(sessionActionCmd())
	return cmd
}

func sessionFeedbackCmd() *cobra.Command {
	var (
		userID, comment string
		rating          int
	)

	cmd := &cobra.Command{
		Use:   "feedback <session-id>",
		Short: "Rate a coaching session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.RecordSessionFeedback(ctx, userID, args[0], rating, comment); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError("session not found for this user", err)
				}
				return fmt.Errorf("failed to record feedback: %w", err)
			}
			slog.Info("Feedback recorded",
				"user_id", userID,
				"session_id", args[0],
				"rating", rating)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user who attended the session")
	cmd.Flags().IntVar(&rating, "rating", 0, "satisfaction rating, 1-5")
	cmd.Flags().StringVar(&comment, "comment", "", "optional free-form feedback")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}

func sessionActionCmd() *cobra.Command {
	var userID, details string

	cmd := &cobra.Command{
		Use:   "action <session-id>",
		Short: "Record that the session's advice was acted on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.RecordSessionAction(ctx, userID, args[0], details); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError("session not found for this user", err)
				}
				return fmt.Errorf("failed to record action: %w", err)
			}
			slog.Info("Action recorded", "user_id", userID, "session_id", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user who attended the session")
	cmd.Flags().StringVar(&details, "details", "", "what was done")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
