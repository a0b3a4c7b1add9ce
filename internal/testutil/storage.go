// Package testutil provides shared test doubles for the pipeline packages.
package testutil

import (
	"context"
	"time"

	"github.com/ledgersage/ledgersage/internal/model"
	"github.com/ledgersage/ledgersage/internal/service"
)

// MockStorage is a function-backed service.Storage implementation. Tests set
// only the functions their scenario touches; unset functions return zero
// values so unrelated calls never panic.
type MockStorage struct {
	SaveTransactionsFunc          func(ctx context.Context, transactions []model.Transaction) error
	GetTransactionByIDFunc        func(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactionsFunc           func(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error)
	CountTransactionsFunc         func(ctx context.Context, userID string) (int, error)
	CountMerchantTransactionsFunc func(ctx context.Context, userID, merchant string, since time.Time) (int, error)
	CountSimilarExpensesFunc      func(ctx context.Context, txn *model.Transaction, since time.Time, limit int) (int, error)
	SumCategoryExpensesFunc       func(ctx context.Context, userID, category string, since time.Time) (float64, error)
	GetAccountOwnersFunc          func(ctx context.Context, accountID string) ([]string, error)
	SaveAccountOwnerFunc          func(ctx context.Context, accountID, userID string) error
	GetPersonalityFunc            func(ctx context.Context, userID string) (*model.PersonalityProfile, error)
	UpsertPersonalityFunc         func(ctx context.Context, profile *model.PersonalityProfile) error
	GetRecommendationsFunc        func(ctx context.Context, userID string) ([]model.BudgetRecommendation, error)
	GetActiveRecommendationFunc   func(ctx context.Context, userID string) (*model.BudgetRecommendation, error)
	ReplaceRecommendationsFunc    func(ctx context.Context, userID string, recs []model.BudgetRecommendation) error
	AdoptRecommendationFunc       func(ctx context.Context, userID, recommendationID string) error
	SaveInsightFunc               func(ctx context.Context, insight *model.SpendingInsight) error
	GetRecentInsightsFunc         func(ctx context.Context, userID string, since time.Time, limit int) ([]model.SpendingInsight, error)
	GetUnacknowledgedInsightsFunc func(ctx context.Context, userID string, limit int) ([]model.SpendingInsight, error)
	AcknowledgeInsightFunc        func(ctx context.Context, userID, insightID string) error
	HasInsightForTransactionFunc  func(ctx context.Context, transactionID string) (bool, error)
	SaveHabitFunc                 func(ctx context.Context, habit *model.SpendingHabit) error
	GetHabitsFunc                 func(ctx context.Context, userID string) ([]model.SpendingHabit, error)
	SaveSessionFunc               func(ctx context.Context, session *model.CoachingSession) error
	GetLatestSessionFunc          func(ctx context.Context, userID string, sessionType model.SessionType) (*model.CoachingSession, error)
	RecordSessionFeedbackFunc     func(ctx context.Context, userID, sessionID string, rating int, feedback string) error
	RecordSessionActionFunc       func(ctx context.Context, userID, sessionID, details string) error
	SaveNotificationFunc          func(ctx context.Context, notification *model.Notification) error
	GetReadyNotificationsFunc     func(ctx context.Context, userID string, now time.Time) ([]model.Notification, error)
	MarkNotificationReadFunc      func(ctx context.Context, userID, notificationID string) error
	MigrateFunc                   func(ctx context.Context) error
	CloseFunc                     func() error

	// Captured writes, appended by the default implementations so tests can
	// assert on persistence without wiring every function.
	SavedProfiles      []*model.PersonalityProfile
	SavedInsights      []*model.SpendingInsight
	SavedSessions      []*model.CoachingSession
	SavedNotifications []*model.Notification
	ReplacedRecs       [][]model.BudgetRecommendation
}

var _ service.Storage = (*MockStorage)(nil)

func (m *MockStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if m.SaveTransactionsFunc != nil {
		return m.SaveTransactionsFunc(ctx, transactions)
	}
	return nil
}

func (m *MockStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if m.GetTransactionByIDFunc != nil {
		return m.GetTransactionByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if m.GetTransactionsFunc != nil {
		return m.GetTransactionsFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockStorage) CountTransactions(ctx context.Context, userID string) (int, error) {
	if m.CountTransactionsFunc != nil {
		return m.CountTransactionsFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockStorage) CountMerchantTransactions(ctx context.Context, userID, merchant string, since time.Time) (int, error) {
	if m.CountMerchantTransactionsFunc != nil {
		return m.CountMerchantTransactionsFunc(ctx, userID, merchant, since)
	}
	return 0, nil
}

func (m *MockStorage) CountSimilarExpenses(ctx context.Context, txn *model.Transaction, since time.Time, limit int) (int, error) {
	if m.CountSimilarExpensesFunc != nil {
		return m.CountSimilarExpensesFunc(ctx, txn, since, limit)
	}
	return 0, nil
}

func (m *MockStorage) SumCategoryExpenses(ctx context.Context, userID, category string, since time.Time) (float64, error) {
	if m.SumCategoryExpensesFunc != nil {
		return m.SumCategoryExpensesFunc(ctx, userID, category, since)
	}
	return 0, nil
}

func (m *MockStorage) GetAccountOwners(ctx context.Context, accountID string) ([]string, error) {
	if m.GetAccountOwnersFunc != nil {
		return m.GetAccountOwnersFunc(ctx, accountID)
	}
	return nil, nil
}

func (m *MockStorage) SaveAccountOwner(ctx context.Context, accountID, userID string) error {
	if m.SaveAccountOwnerFunc != nil {
		return m.SaveAccountOwnerFunc(ctx, accountID, userID)
	}
	return nil
}

func (m *MockStorage) GetPersonality(ctx context.Context, userID string) (*model.PersonalityProfile, error) {
	if m.GetPersonalityFunc != nil {
		return m.GetPersonalityFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockStorage) UpsertPersonality(ctx context.Context, profile *model.PersonalityProfile) error {
	if m.UpsertPersonalityFunc != nil {
		return m.UpsertPersonalityFunc(ctx, profile)
	}
	m.SavedProfiles = append(m.SavedProfiles, profile)
	return nil
}

func (m *MockStorage) GetRecommendations(ctx context.Context, userID string) ([]model.BudgetRecommendation, error) {
	if m.GetRecommendationsFunc != nil {
		return m.GetRecommendationsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockStorage) GetActiveRecommendation(ctx context.Context, userID string) (*model.BudgetRecommendation, error) {
	if m.GetActiveRecommendationFunc != nil {
		return m.GetActiveRecommendationFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockStorage) ReplaceRecommendations(ctx context.Context, userID string, recs []model.BudgetRecommendation) error {
	if m.ReplaceRecommendationsFunc != nil {
		return m.ReplaceRecommendationsFunc(ctx, userID, recs)
	}
	m.ReplacedRecs = append(m.ReplacedRecs, recs)
	return nil
}

func (m *MockStorage) AdoptRecommendation(ctx context.Context, userID, recommendationID string) error {
	if m.AdoptRecommendationFunc != nil {
		return m.AdoptRecommendationFunc(ctx, userID, recommendationID)
	}
	return nil
}

func (m *MockStorage) SaveInsight(ctx context.Context, insight *model.SpendingInsight) error {
	if m.SaveInsightFunc != nil {
		return m.SaveInsightFunc(ctx, insight)
	}
	m.SavedInsights = append(m.SavedInsights, insight)
	return nil
}

func (m *MockStorage) GetRecentInsights(ctx context.Context, userID string, since time.Time, limit int) ([]model.SpendingInsight, error) {
	if m.GetRecentInsightsFunc != nil {
		return m.GetRecentInsightsFunc(ctx, userID, since, limit)
	}
	return nil, nil
}

func (m *MockStorage) GetUnacknowledgedInsights(ctx context.Context, userID string, limit int) ([]model.SpendingInsight, error) {
	if m.GetUnacknowledgedInsightsFunc != nil {
		return m.GetUnacknowledgedInsightsFunc(ctx, userID, limit)
	}
	return nil, nil
}

func (m *MockStorage) AcknowledgeInsight(ctx context.Context, userID, insightID string) error {
	if m.AcknowledgeInsightFunc != nil {
		return m.AcknowledgeInsightFunc(ctx, userID, insightID)
	}
	return nil
}

func (m *MockStorage) HasInsightForTransaction(ctx context.Context, transactionID string) (bool, error) {
	if m.HasInsightForTransactionFunc != nil {
		return m.HasInsightForTransactionFunc(ctx, transactionID)
	}
	return false, nil
}

func (m *MockStorage) SaveHabit(ctx context.Context, habit *model.SpendingHabit) error {
	if m.SaveHabitFunc != nil {
		return m.SaveHabitFunc(ctx, habit)
	}
	return nil
}

func (m *MockStorage) GetHabits(ctx context.Context, userID string) ([]model.SpendingHabit, error) {
	if m.GetHabitsFunc != nil {
		return m.GetHabitsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockStorage) SaveSession(ctx context.Context, session *model.CoachingSession) error {
	if m.SaveSessionFunc != nil {
		return m.SaveSessionFunc(ctx, session)
	}
	m.SavedSessions = append(m.SavedSessions, session)
	return nil
}

func (m *MockStorage) GetLatestSession(ctx context.Context, userID string, sessionType model.SessionType) (*model.CoachingSession, error) {
	if m.GetLatestSessionFunc != nil {
		return m.GetLatestSessionFunc(ctx, userID, sessionType)
	}
	return nil, nil
}

func (m *MockStorage) RecordSessionFeedback(ctx context.Context, userID, sessionID string, rating int, feedback string) error {
	if m.RecordSessionFeedbackFunc != nil {
		return m.RecordSessionFeedbackFunc(ctx, userID, sessionID, rating, feedback)
	}
	return nil
}

func (m *MockStorage) RecordSessionAction(ctx context.Context, userID, sessionID, details string) error {
	if m.RecordSessionActionFunc != nil {
		return m.RecordSessionActionFunc(ctx, userID, sessionID, details)
	}
	return nil
}

func (m *MockStorage) SaveNotification(ctx context.Context, notification *model.Notification) error {
	if m.SaveNotificationFunc != nil {
		return m.SaveNotificationFunc(ctx, notification)
	}
	m.SavedNotifications = append(m.SavedNotifications, notification)
	return nil
}

func (m *MockStorage) GetReadyNotifications(ctx context.Context, userID string, now time.Time) ([]model.Notification, error) {
	if m.GetReadyNotificationsFunc != nil {
		return m.GetReadyNotificationsFunc(ctx, userID, now)
	}
	return nil, nil
}

func (m *MockStorage) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	if m.MarkNotificationReadFunc != nil {
		return m.MarkNotificationReadFunc(ctx, userID, notificationID)
	}
	return nil
}

func (m *MockStorage) Migrate(ctx context.Context) error {
	if m.MigrateFunc != nil {
		return m.MigrateFunc(ctx)
	}
	return nil
}

func (m *MockStorage) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
