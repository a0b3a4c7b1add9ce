// Package storage provides the SQLite persistence layer for ledgersage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledgersage/ledgersage/internal/model"
)

// Validation errors.
var (
	ErrNilContext            = errors.New("context cannot be nil")
	ErrEmptyString           = errors.New("string parameter cannot be empty")
	ErrNilParameter          = errors.New("parameter cannot be nil")
	ErrEmptySlice            = errors.New("slice cannot be empty")
	ErrInvalidTransaction    = errors.New("invalid transaction")
	ErrInvalidProfile        = errors.New("invalid personality profile")
	ErrInvalidRecommendation = errors.New("invalid budget recommendation")
	ErrInvalidInsight        = errors.New("invalid spending insight")
	ErrInvalidHabit          = errors.New("invalid spending habit")
	ErrInvalidSession        = errors.New("invalid coaching session")
	ErrInvalidNotification   = errors.New("invalid notification")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTransaction)
	}
	return nil
}

// validateProfile validates a personality profile before persistence.
func validateProfile(profile *model.PersonalityProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile", ErrNilParameter)
	}
	if profile.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidProfile)
	}
	if !profile.Type.Valid() {
		return fmt.Errorf("%w: unknown personality type %q", ErrInvalidProfile, profile.Type)
	}
	if profile.RiskTolerance < 1 || profile.RiskTolerance > 10 {
		return fmt.Errorf("%w: risk tolerance must be between 1 and 10", ErrInvalidProfile)
	}
	if profile.DisciplineLevel < 1 || profile.DisciplineLevel > 10 {
		return fmt.Errorf("%w: discipline level must be between 1 and 10", ErrInvalidProfile)
	}
	if profile.LastAnalyzedAt.IsZero() {
		return fmt.Errorf("%w: missing analysis timestamp", ErrInvalidProfile)
	}
	return nil
}

// validateRecommendation validates a budget recommendation before persistence.
func validateRecommendation(rec *model.BudgetRecommendation) error {
	if rec == nil {
		return fmt.Errorf("%w: recommendation", ErrNilParameter)
	}
	if rec.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRecommendation)
	}
	if rec.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidRecommendation)
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecommendation, err)
	}
	return nil
}

// validateInsight validates a spending insight before persistence.
func validateInsight(insight *model.SpendingInsight) error {
	if insight == nil {
		return fmt.Errorf("%w: insight", ErrNilParameter)
	}
	if insight.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidInsight)
	}
	if insight.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidInsight)
	}
	if !insight.Pattern.Valid() {
		return fmt.Errorf("%w: unknown pattern type %q", ErrInvalidInsight, insight.Pattern)
	}
	if insight.EmotionalContext != nil && !insight.EmotionalContext.Valid() {
		return fmt.Errorf("%w: unknown emotional context %q", ErrInvalidInsight, *insight.EmotionalContext)
	}
	if insight.ConfidenceScore < 0 || insight.ConfidenceScore > 100 {
		return fmt.Errorf("%w: confidence must be between 0 and 100", ErrInvalidInsight)
	}
	return nil
}

// validateHabit validates a spending habit before persistence.
func validateHabit(habit *model.SpendingHabit) error {
	if habit == nil {
		return fmt.Errorf("%w: habit", ErrNilParameter)
	}
	if habit.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidHabit)
	}
	if habit.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidHabit)
	}
	if strings.TrimSpace(habit.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidHabit)
	}
	return nil
}

// validateSession validates a coaching session before persistence.
func validateSession(session *model.CoachingSession) error {
	if session == nil {
		return fmt.Errorf("%w: session", ErrNilParameter)
	}
	if session.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidSession)
	}
	if session.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidSession)
	}
	if !session.Type.Valid() {
		return fmt.Errorf("%w: unknown session type %q", ErrInvalidSession, session.Type)
	}
	if session.Response == "" {
		return fmt.Errorf("%w: missing response", ErrInvalidSession)
	}
	return nil
}

// validateNotification validates a notification before persistence.
func validateNotification(n *model.Notification) error {
	if n == nil {
		return fmt.Errorf("%w: notification", ErrNilParameter)
	}
	if n.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidNotification)
	}
	if n.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidNotification)
	}
	if n.Title == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidNotification)
	}
	if n.Message == "" {
		return fmt.Errorf("%w: missing message", ErrInvalidNotification)
	}
	return nil
}
