package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgersage/ledgersage/internal/common"
)

func notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List and acknowledge pending notifications",
	}
	cmd.AddCommand(notificationsListCmd())
	cmd.AddCommand(notificationsReadCmd())
	return cmd
}

func notificationsListCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List unread notifications ready to deliver",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			notifications, err := store.GetReadyNotifications(ctx, userID, time.Now())
			if err != nil {
				return err
			}
			if len(notifications) == 0 {
				fmt.Println("No pending notifications.")
				return nil
			}

			for _, note := range notifications {
				fmt.Printf("[%s] %-20s %s\n", note.Priority, note.Type, note.ID)
				fmt.Printf("    %s: %s\n", note.Title, note.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user whose notifications to list")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func notificationsReadCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.MarkNotificationRead(ctx, userID, args[0]); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError("notification not found for this user", err)
				}
				return fmt.Errorf("failed to mark notification read: %w", err)
			}
			slog.Info("Notification read", "user_id", userID, "notification_id", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user who owns the notification")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
