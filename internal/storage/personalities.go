package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgersage/ledgersage/internal/model"
)

// GetPersonality retrieves a user's personality profile. Returns nil without
// error when no profile has been inferred yet.
func (s *SQLiteStorage) GetPersonality(ctx context.Context, userID string) (*model.PersonalityProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var (
		profile     model.PersonalityProfile
		triggers    string
		traumas     string
		preferences string
		summary     sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, personality_type, risk_tolerance, discipline_level,
			spending_triggers, financial_traumas, lifestyle_preferences,
			confidence_score, summary, last_analyzed_at
		FROM personality_profiles WHERE user_id = ?`, userID).Scan(
		&profile.UserID, &profile.Type, &profile.RiskTolerance, &profile.DisciplineLevel,
		&triggers, &traumas, &preferences,
		&profile.ConfidenceScore, &summary, &profile.LastAnalyzedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get personality profile: %w", err)
	}

	profile.Summary = summary.String
	if profile.SpendingTriggers, err = unmarshalStrings(triggers); err != nil {
		return nil, err
	}
	if profile.FinancialTraumas, err = unmarshalStrings(traumas); err != nil {
		return nil, err
	}
	if profile.LifestylePreferences, err = unmarshalStringMap(preferences); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertPersonality inserts or replaces a user's personality profile.
func (s *SQLiteStorage) UpsertPersonality(ctx context.Context, profile *model.PersonalityProfile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProfile(profile); err != nil {
		return err
	}

	triggers, err := marshalStrings(profile.SpendingTriggers)
	if err != nil {
		return err
	}
	traumas, err := marshalStrings(profile.FinancialTraumas)
	if err != nil {
		return err
	}
	preferences, err := marshalStringMap(profile.LifestylePreferences)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO personality_profiles (
			user_id, personality_type, risk_tolerance, discipline_level,
			spending_triggers, financial_traumas, lifestyle_preferences,
			confidence_score, summary, last_analyzed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			personality_type = excluded.personality_type,
			risk_tolerance = excluded.risk_tolerance,
			discipline_level = excluded.discipline_level,
			spending_triggers = excluded.spending_triggers,
			financial_traumas = excluded.financial_traumas,
			lifestyle_preferences = excluded.lifestyle_preferences,
			confidence_score = excluded.confidence_score,
			summary = excluded.summary,
			last_analyzed_at = excluded.last_analyzed_at`,
		profile.UserID, profile.Type, profile.RiskTolerance, profile.DisciplineLevel,
		triggers, traumas, preferences,
		profile.ConfidenceScore, profile.Summary, profile.LastAnalyzedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert personality profile: %w", err)
	}
	return nil
}
