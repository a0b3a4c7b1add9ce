// Package service defines the interfaces the pipeline consumes: the
// repository contract and shared option types.
package service

import (
	"context"
	"time"

	"github.com/ledgersage/ledgersage/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
// All queries are scoped to a single user.
type TransactionFilter struct {
	Start        *time.Time
	End          *time.Time
	UserID       string
	ExpensesOnly bool
	Limit        int
}

// Storage defines the contract for the persistence layer. The physical
// engine behind it is an implementation detail; the pipeline only ever
// reads and writes entities through this interface.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	CountTransactions(ctx context.Context, userID string) (int, error)
	CountMerchantTransactions(ctx context.Context, userID, merchant string, since time.Time) (int, error)
	CountSimilarExpenses(ctx context.Context, txn *model.Transaction, since time.Time, limit int) (int, error)
	SumCategoryExpenses(ctx context.Context, userID, category string, since time.Time) (float64, error)

	// Account ownership
	GetAccountOwners(ctx context.Context, accountID string) ([]string, error)
	SaveAccountOwner(ctx context.Context, accountID, userID string) error

	// Personality profile operations (one row per user, upsert semantics)
	GetPersonality(ctx context.Context, userID string) (*model.PersonalityProfile, error)
	UpsertPersonality(ctx context.Context, profile *model.PersonalityProfile) error

	// Budget recommendation operations. ReplaceRecommendations and
	// AdoptRecommendation are transactional: a concurrent reader never
	// observes zero or more than one active row.
	GetRecommendations(ctx context.Context, userID string) ([]model.BudgetRecommendation, error)
	GetActiveRecommendation(ctx context.Context, userID string) (*model.BudgetRecommendation, error)
	ReplaceRecommendations(ctx context.Context, userID string, recs []model.BudgetRecommendation) error
	AdoptRecommendation(ctx context.Context, userID, recommendationID string) error

	// Spending insight operations (append-only plus acknowledge)
	SaveInsight(ctx context.Context, insight *model.SpendingInsight) error
	GetRecentInsights(ctx context.Context, userID string, since time.Time, limit int) ([]model.SpendingInsight, error)
	GetUnacknowledgedInsights(ctx context.Context, userID string, limit int) ([]model.SpendingInsight, error)
	AcknowledgeInsight(ctx context.Context, userID, insightID string) error
	HasInsightForTransaction(ctx context.Context, transactionID string) (bool, error)

	// Spending habit operations
	SaveHabit(ctx context.Context, habit *model.SpendingHabit) error
	GetHabits(ctx context.Context, userID string) ([]model.SpendingHabit, error)

	// Coaching session operations
	SaveSession(ctx context.Context, session *model.CoachingSession) error
	GetLatestSession(ctx context.Context, userID string, sessionType model.SessionType) (*model.CoachingSession, error)
	RecordSessionFeedback(ctx context.Context, userID, sessionID string, rating int, feedback string) error
	RecordSessionAction(ctx context.Context, userID, sessionID, details string) error

	// Notification operations
	SaveNotification(ctx context.Context, notification *model.Notification) error
	GetReadyNotifications(ctx context.Context, userID string, now time.Time) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
