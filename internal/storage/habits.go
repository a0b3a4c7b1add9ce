package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ledgersage/ledgersage/internal/model"
)

// SaveHabit inserts or replaces a spending habit.
func (s *SQLiteStorage) SaveHabit(ctx context.Context, habit *model.SpendingHabit) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateHabit(habit); err != nil {
		return err
	}

	suggestions, err := marshalStrings(habit.Suggestions)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO spending_habits (
			id, user_id, habit_type, category, average_amount, frequency_per_week,
			current_streak, longest_streak, positive, last_occurrence_at, suggestions
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			habit_type = excluded.habit_type,
			category = excluded.category,
			average_amount = excluded.average_amount,
			frequency_per_week = excluded.frequency_per_week,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			positive = excluded.positive,
			last_occurrence_at = excluded.last_occurrence_at,
			suggestions = excluded.suggestions`,
		habit.ID, habit.UserID, habit.HabitType, habit.Category,
		habit.AverageAmount, habit.FrequencyPerWeek,
		habit.CurrentStreak, habit.LongestStreak, habit.Positive,
		habit.LastOccurrenceAt, suggestions)
	if err != nil {
		return fmt.Errorf("failed to save habit: %w", err)
	}
	return nil
}

// GetHabits retrieves all of a user's tracked habits.
func (s *SQLiteStorage) GetHabits(ctx context.Context, userID string) ([]model.SpendingHabit, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, habit_type, category, average_amount, frequency_per_week,
			current_streak, longest_streak, positive, last_occurrence_at, suggestions
		FROM spending_habits WHERE user_id = ? ORDER BY category, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var habits []model.SpendingHabit
	for rows.Next() {
		var (
			habit          model.SpendingHabit
			lastOccurrence sql.NullTime
			suggestions    string
		)
		if err := rows.Scan(
			&habit.ID, &habit.UserID, &habit.HabitType, &habit.Category,
			&habit.AverageAmount, &habit.FrequencyPerWeek,
			&habit.CurrentStreak, &habit.LongestStreak, &habit.Positive,
			&lastOccurrence, &suggestions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}

		if lastOccurrence.Valid {
			habit.LastOccurrenceAt = &lastOccurrence.Time
		}
		if habit.Suggestions, err = unmarshalStrings(suggestions); err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}
	return habits, nil
}
