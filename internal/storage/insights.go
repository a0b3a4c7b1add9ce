package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ledgersage/ledgersage/internal/common"
	"github.com/ledgersage/ledgersage/internal/model"
)

const insightColumns = `id, user_id, transaction_id, pattern_type, emotional_context,
	triggers, recommendation, confidence_score, acknowledged, acknowledged_at, created_at`

// SaveInsight persists a new spending insight.
func (s *SQLiteStorage) SaveInsight(ctx context.Context, insight *model.SpendingInsight) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateInsight(insight); err != nil {
		return err
	}

	triggers, err := marshalStrings(insight.Triggers)
	if err != nil {
		return err
	}
	var emotionalContext any
	if insight.EmotionalContext != nil {
		emotionalContext = string(*insight.EmotionalContext)
	}
	createdAt := insight.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO spending_insights (`+insightColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		insight.ID, insight.UserID, insight.TransactionID, insight.Pattern, emotionalContext,
		triggers, insight.Recommendation, insight.ConfidenceScore,
		insight.Acknowledged, insight.AcknowledgedAt, createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insight %s: %w", insight.ID, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to save insight: %w", err)
	}
	return nil
}

func scanInsights(rows *sql.Rows) ([]model.SpendingInsight, error) {
	var insights []model.SpendingInsight
	for rows.Next() {
		var (
			insight        model.SpendingInsight
			emotional      sql.NullString
			triggers       string
			recommendation sql.NullString
			acknowledgedAt sql.NullTime
		)
		if err := rows.Scan(
			&insight.ID, &insight.UserID, &insight.TransactionID, &insight.Pattern, &emotional,
			&triggers, &recommendation, &insight.ConfidenceScore,
			&insight.Acknowledged, &acknowledgedAt, &insight.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}

		if emotional.Valid {
			ec := model.EmotionalContext(emotional.String)
			insight.EmotionalContext = &ec
		}
		insight.Recommendation = recommendation.String
		if acknowledgedAt.Valid {
			insight.AcknowledgedAt = &acknowledgedAt.Time
		}
		var err error
		if insight.Triggers, err = unmarshalStrings(triggers); err != nil {
			return nil, err
		}
		insights = append(insights, insight)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate insights: %w", err)
	}
	return insights, nil
}

// GetRecentInsights retrieves a user's insights created since the given time,
// newest first.
func (s *SQLiteStorage) GetRecentInsights(ctx context.Context, userID string, since time.Time, limit int) ([]model.SpendingInsight, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := `SELECT ` + insightColumns + `
		FROM spending_insights WHERE user_id = ? AND created_at >= ?
		ORDER BY created_at DESC`
	args := []any{userID, since}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query insights: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanInsights(rows)
}

// GetUnacknowledgedInsights retrieves a user's unacknowledged insights,
// newest first.
func (s *SQLiteStorage) GetUnacknowledgedInsights(ctx context.Context, userID string, limit int) ([]model.SpendingInsight, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := `SELECT ` + insightColumns + `
		FROM spending_insights WHERE user_id = ? AND acknowledged = 0
		ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query unacknowledged insights: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanInsights(rows)
}

// AcknowledgeInsight marks an insight acknowledged. Acknowledging twice is a
// no-op that keeps the original timestamp.
func (s *SQLiteStorage) AcknowledgeInsight(ctx context.Context, userID, insightID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(insightID, "insightID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE spending_insights
		SET acknowledged = 1, acknowledged_at = COALESCE(acknowledged_at, ?)
		WHERE user_id = ? AND id = ?`, time.Now(), userID, insightID)
	if err != nil {
		return fmt.Errorf("failed to acknowledge insight: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check acknowledge result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("insight %s: %w", insightID, common.ErrNotFound)
	}
	return nil
}

// HasInsightForTransaction reports whether any insight already references the
// transaction. Used to keep backfills idempotent.
func (s *SQLiteStorage) HasInsightForTransaction(ctx context.Context, transactionID string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return false, err
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM spending_insights WHERE transaction_id = ?)",
		transactionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check insight existence: %w", err)
	}
	return exists == 1, nil
}
