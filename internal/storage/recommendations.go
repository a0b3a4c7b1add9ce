package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ledgersage/ledgersage/internal/common"
	"github.com/ledgersage/ledgersage/internal/model"
)

const recommendationColumns = `id, user_id, recommendation_type,
	mandatory_allocation, desires_allocation, investment_allocation,
	confidence_score, rationale, category_breakdown, active, adopted_at, created_at`

func scanRecommendation(row interface{ Scan(...any) error }) (*model.BudgetRecommendation, error) {
	var (
		rec       model.BudgetRecommendation
		rationale sql.NullString
		breakdown string
		adoptedAt sql.NullTime
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Type,
		&rec.MandatoryAllocation, &rec.DesiresAllocation, &rec.InvestmentAllocation,
		&rec.ConfidenceScore, &rationale, &breakdown, &rec.Active, &adoptedAt, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	rec.Rationale = rationale.String
	if adoptedAt.Valid {
		rec.AdoptedAt = &adoptedAt.Time
	}
	if rec.CategoryBreakdown, err = unmarshalFloatMap(breakdown); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetRecommendations retrieves all budget recommendations for a user,
// newest first.
func (s *SQLiteStorage) GetRecommendations(ctx context.Context, userID string) ([]model.BudgetRecommendation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recommendationColumns+`
		FROM budget_recommendations WHERE user_id = ?
		ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []model.BudgetRecommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
	}
	return recs, nil
}

// GetActiveRecommendation retrieves the user's adopted recommendation.
// Returns nil without error when none has been adopted.
func (s *SQLiteStorage) GetActiveRecommendation(ctx context.Context, userID string) (*model.BudgetRecommendation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rec, err := scanRecommendation(s.db.QueryRowContext(ctx, `
		SELECT `+recommendationColumns+`
		FROM budget_recommendations WHERE user_id = ? AND active = 1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active recommendation: %w", err)
	}
	return rec, nil
}

// ReplaceRecommendations atomically replaces a user's recommendation set.
// The new rows are inserted inactive; adoption is a separate step.
func (s *SQLiteStorage) ReplaceRecommendations(ctx context.Context, userID string, recs []model.BudgetRecommendation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	for i := range recs {
		if err := validateRecommendation(&recs[i]); err != nil {
			return fmt.Errorf("recommendation at index %d: %w", i, err)
		}
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM budget_recommendations WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear recommendations: %w", err)
	}

	for i := range recs {
		rec := &recs[i]
		breakdown, err := marshalFloatMap(rec.CategoryBreakdown)
		if err != nil {
			return err
		}
		createdAt := rec.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO budget_recommendations (`+recommendationColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, NULL, ?)`,
			rec.ID, userID, rec.Type,
			rec.MandatoryAllocation, rec.DesiresAllocation, rec.InvestmentAllocation,
			rec.ConfidenceScore, rec.Rationale, breakdown, createdAt,
		); err != nil {
			return fmt.Errorf("failed to insert recommendation %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recommendations: %w", err)
	}
	return nil
}

// AdoptRecommendation marks one recommendation active and deactivates the
// rest, in a single transaction.
func (s *SQLiteStorage) AdoptRecommendation(ctx context.Context, userID, recommendationID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(recommendationID, "recommendationID"); err != nil {
		return err
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		UPDATE budget_recommendations SET active = 0, adopted_at = NULL
		WHERE user_id = ? AND active = 1`, userID); err != nil {
		return fmt.Errorf("failed to deactivate recommendations: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE budget_recommendations SET active = 1, adopted_at = ?
		WHERE user_id = ? AND id = ?`, time.Now(), userID, recommendationID)
	if err != nil {
		return fmt.Errorf("failed to adopt recommendation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check adoption result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("recommendation %s: %w", recommendationID, common.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit adoption: %w", err)
	}
	return nil
}
