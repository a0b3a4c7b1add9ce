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

// SaveSession persists a coaching session.
func (s *SQLiteStorage) SaveSession(ctx context.Context, session *model.CoachingSession) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSession(session); err != nil {
		return err
	}

	sessionContext, err := marshalStringMap(session.Context)
	if err != nil {
		return err
	}
	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO coaching_sessions (
			id, user_id, session_type, context, response,
			satisfaction_rating, user_feedback, action_taken, action_details, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.Type, sessionContext, session.Response,
		session.SatisfactionRating, session.UserFeedback,
		session.ActionTaken, session.ActionDetails, createdAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetLatestSession retrieves a user's most recent session of the given type.
// Returns nil without error when the user has none.
func (s *SQLiteStorage) GetLatestSession(ctx context.Context, userID string, sessionType model.SessionType) (*model.CoachingSession, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var (
		session        model.CoachingSession
		sessionContext string
		rating         sql.NullInt64
		feedback       sql.NullString
		details        sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, session_type, context, response,
			satisfaction_rating, user_feedback, action_taken, action_details, created_at
		FROM coaching_sessions WHERE user_id = ? AND session_type = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`, userID, sessionType).Scan(
		&session.ID, &session.UserID, &session.Type, &sessionContext, &session.Response,
		&rating, &feedback, &session.ActionTaken, &details, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest session: %w", err)
	}

	if rating.Valid {
		r := int(rating.Int64)
		session.SatisfactionRating = &r
	}
	session.UserFeedback = feedback.String
	session.ActionDetails = details.String
	if session.Context, err = unmarshalStringMap(sessionContext); err != nil {
		return nil, err
	}
	return &session, nil
}

// RecordSessionFeedback stores the user's satisfaction rating and comment.
func (s *SQLiteStorage) RecordSessionFeedback(ctx context.Context, userID, sessionID string, rating int, feedback string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidSession)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE coaching_sessions SET satisfaction_rating = ?, user_feedback = ?
		WHERE user_id = ? AND id = ?`, rating, feedback, userID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to record session feedback: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check feedback result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", sessionID, common.ErrNotFound)
	}
	return nil
}

// RecordSessionAction marks that the user acted on the session's advice.
func (s *SQLiteStorage) RecordSessionAction(ctx context.Context, userID, sessionID, details string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE coaching_sessions SET action_taken = 1, action_details = ?
		WHERE user_id = ? AND id = ?`, details, userID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to record session action: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check action result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", sessionID, common.ErrNotFound)
	}
	return nil
}
