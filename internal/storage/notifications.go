package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ledgersage/ledgersage/internal/common"
	"github.com/ledgersage/ledgersage/internal/model"
)

// SaveNotification queues a notification for delivery.
func (s *SQLiteStorage) SaveNotification(ctx context.Context, notification *model.Notification) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNotification(notification); err != nil {
		return err
	}

	actionData, err := marshalStringMap(notification.ActionData)
	if err != nil {
		return err
	}
	priority := notification.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	createdAt := notification.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, user_id, notification_type, title, message, priority,
			action_data, read, read_at, scheduled_for, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		notification.ID, notification.UserID, notification.Type,
		notification.Title, notification.Message, priority,
		actionData, notification.Read, notification.ReadAt,
		notification.ScheduledFor, createdAt)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

// GetReadyNotifications retrieves a user's unread notifications that are due
// for delivery, most urgent first.
func (s *SQLiteStorage) GetReadyNotifications(ctx context.Context, userID string, now time.Time) ([]model.Notification, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, notification_type, title, message, priority,
			action_data, read, read_at, scheduled_for, created_at
		FROM notifications
		WHERE user_id = ? AND read = 0
		AND (scheduled_for IS NULL OR scheduled_for <= ?)
		ORDER BY CASE priority
			WHEN 'urgent' THEN 0
			WHEN 'high' THEN 1
			WHEN 'medium' THEN 2
			ELSE 3
		END, created_at DESC`, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var notifications []model.Notification
	for rows.Next() {
		var (
			n            model.Notification
			actionData   string
			readAt       sql.NullTime
			scheduledFor sql.NullTime
		)
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Priority,
			&actionData, &n.Read, &readAt, &scheduledFor, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		if readAt.Valid {
			n.ReadAt = &readAt.Time
		}
		if scheduledFor.Valid {
			n.ScheduledFor = &scheduledFor.Time
		}
		if n.ActionData, err = unmarshalStringMap(actionData); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead marks a notification as read. Marking twice keeps the
// original read timestamp.
func (s *SQLiteStorage) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(notificationID, "notificationID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET read = 1, read_at = COALESCE(read_at, ?)
		WHERE user_id = ? AND id = ?`, time.Now(), userID, notificationID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check mark-read result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("notification %s: %w", notificationID, common.ErrNotFound)
	}
	return nil
}
