package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgersage/ledgersage/internal/common"
	"github.com/ledgersage/ledgersage/internal/model"
	"github.com/ledgersage/ledgersage/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func testTransaction(id, userID string, date time.Time, amount float64) model.Transaction {
	txn := model.Transaction{
		ID:           id,
		UserID:       userID,
		Date:         date,
		Name:         "Test Purchase " + id,
		MerchantName: "Test Merchant",
		Category:     "Dining",
		Amount:       amount,
		AccountID:    "acct-1",
	}
	txn.Hash = txn.GenerateHash()
	return txn
}

func TestSaveTransactionsDeduplicatesByHash(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	date := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	txn := testTransaction("txn-1", "user-1", date, -42.50)

	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{txn}))

	// Same hash under a different ID must be skipped.
	dup := txn
	dup.ID = "txn-2"
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{dup}))

	count, err := store.CountTransactions(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetTransactionsFiltering(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		testTransaction("txn-1", "user-1", base, -10),
		testTransaction("txn-2", "user-1", base.AddDate(0, 0, 5), -20),
		testTransaction("txn-3", "user-1", base.AddDate(0, 0, 10), 500), // income
		testTransaction("txn-4", "user-2", base.AddDate(0, 0, 5), -30),
	}
	require.NoError(t, store.SaveTransactions(ctx, txns))

	t.Run("scoped to user", func(t *testing.T) {
		got, err := store.GetTransactions(ctx, service.TransactionFilter{UserID: "user-1"})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("expenses only", func(t *testing.T) {
		got, err := store.GetTransactions(ctx, service.TransactionFilter{UserID: "user-1", ExpensesOnly: true})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		for _, txn := range got {
			assert.True(t, txn.IsExpense())
		}
	})

	t.Run("date window newest first", func(t *testing.T) {
		start := base.AddDate(0, 0, 3)
		got, err := store.GetTransactions(ctx, service.TransactionFilter{UserID: "user-1", Start: &start})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "txn-3", got[0].ID)
		assert.Equal(t, "txn-2", got[1].ID)
	})

	t.Run("limit", func(t *testing.T) {
		got, err := store.GetTransactions(ctx, service.TransactionFilter{UserID: "user-1", Limit: 1})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestGetTransactionByIDNotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetTransactionByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCountMerchantTransactions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		testTransaction("txn-1", "user-1", now.AddDate(0, 0, -1), -10),
		testTransaction("txn-2", "user-1", now.AddDate(0, 0, -3), -12),
		testTransaction("txn-3", "user-1", now.AddDate(0, 0, -20), -15), // outside window
	}
	require.NoError(t, store.SaveTransactions(ctx, txns))

	count, err := store.CountMerchantTransactions(ctx, "user-1", "Test Merchant", now.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = store.CountMerchantTransactions(ctx, "user-1", "", now.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCountSimilarExpensesExcludesSelfAndCaps(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	txns := make([]model.Transaction, 0, 8)
	for i := range 8 {
		txns = append(txns, testTransaction(
			"txn-"+string(rune('a'+i)), "user-1", now.AddDate(0, 0, -i), -float64(10+i)))
	}
	require.NoError(t, store.SaveTransactions(ctx, txns))

	subject := txns[0]
	count, err := store.CountSimilarExpenses(ctx, &subject, now.AddDate(0, -1, 0), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, count, "count is capped at the limit")
}

func TestSumCategoryExpenses(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	groceries := testTransaction("txn-1", "user-1", now.AddDate(0, 0, -2), -80)
	groceries.Category = "Groceries"
	groceries.Hash = groceries.GenerateHash()
	dining := testTransaction("txn-2", "user-1", now.AddDate(0, 0, -2), -25)
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{groceries, dining}))

	total, err := store.SumCategoryExpenses(ctx, "user-1", "Groceries", now.AddDate(0, -1, 0))
	require.NoError(t, err)
	assert.InDelta(t, 80.0, total, 0.001)

	total, err = store.SumCategoryExpenses(ctx, "user-1", "Travel", now.AddDate(0, -1, 0))
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAccountOwners(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAccountOwner(ctx, "acct-1", "user-1"))
	require.NoError(t, store.SaveAccountOwner(ctx, "acct-1", "user-1")) // idempotent
	require.NoError(t, store.SaveAccountOwner(ctx, "acct-1", "user-2"))

	owners, err := store.GetAccountOwners(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1", "user-2"}, owners)

	owners, err = store.GetAccountOwners(ctx, "acct-unknown")
	require.NoError(t, err)
	assert.Empty(t, owners)
}

func TestPersonalityUpsert(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	got, err := store.GetPersonality(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got, "no profile yet")

	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	profile := &model.PersonalityProfile{
		UserID:               "user-1",
		Type:                 model.PersonalityBalancedPlanner,
		RiskTolerance:        5,
		DisciplineLevel:      6,
		SpendingTriggers:     []string{"stress"},
		FinancialTraumas:     []string{},
		LifestylePreferences: map[string]string{"dining": "frequent"},
		ConfidenceScore:      80,
		Summary:              "Steady planner",
		LastAnalyzedAt:       now,
	}
	require.NoError(t, store.UpsertPersonality(ctx, profile))

	got, err = store.GetPersonality(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.PersonalityBalancedPlanner, got.Type)
	assert.Equal(t, []string{"stress"}, got.SpendingTriggers)
	assert.Equal(t, "frequent", got.LifestylePreferences["dining"])

	// Re-analysis replaces the row rather than adding one.
	profile.Type = model.PersonalityGrowthSeeker
	profile.LastAnalyzedAt = now.AddDate(0, 0, 8)
	require.NoError(t, store.UpsertPersonality(ctx, profile))

	got, err = store.GetPersonality(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.PersonalityGrowthSeeker, got.Type)
}

func TestUpsertPersonalityRejectsInvalid(t *testing.T) {
	store := newTestStorage(t)

	err := store.UpsertPersonality(context.Background(), &model.PersonalityProfile{
		UserID:          "user-1",
		Type:            "free_spirit",
		RiskTolerance:   5,
		DisciplineLevel: 5,
		LastAnalyzedAt:  time.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func testRecommendation(id, userID string, recType model.RecommendationType) model.BudgetRecommendation {
	return model.BudgetRecommendation{
		ID:                   id,
		UserID:               userID,
		Type:                 recType,
		MandatoryAllocation:  55,
		DesiresAllocation:    25,
		InvestmentAllocation: 20,
		ConfidenceScore:      75,
		Rationale:            "Standard allocation",
		CategoryBreakdown:    map[string]float64{"housing": 30},
	}
}

func TestReplaceAndAdoptRecommendations(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	recs := []model.BudgetRecommendation{
		testRecommendation("rec-1", "user-1", model.RecommendationConservative),
		testRecommendation("rec-2", "user-1", model.RecommendationBalanced),
		testRecommendation("rec-3", "user-1", model.RecommendationAggressive),
	}
	require.NoError(t, store.ReplaceRecommendations(ctx, "user-1", recs))

	active, err := store.GetActiveRecommendation(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, active, "fresh batch has no active recommendation")

	require.NoError(t, store.AdoptRecommendation(ctx, "user-1", "rec-2"))

	active, err = store.GetActiveRecommendation(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "rec-2", active.ID)
	assert.NotNil(t, active.AdoptedAt)

	// Adopting another deactivates the first.
	require.NoError(t, store.AdoptRecommendation(ctx, "user-1", "rec-3"))
	active, err = store.GetActiveRecommendation(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "rec-3", active.ID)

	all, err := store.GetRecommendations(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, all, 3)
	activeCount := 0
	for _, rec := range all {
		if rec.Active {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestAdoptRecommendationNotFound(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceRecommendations(ctx, "user-1", []model.BudgetRecommendation{
		testRecommendation("rec-1", "user-1", model.RecommendationBalanced),
	}))

	err := store.AdoptRecommendation(ctx, "user-1", "rec-missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// A failed adoption must not leave the batch without its prior active row.
	require.NoError(t, store.AdoptRecommendation(ctx, "user-1", "rec-1"))
	err = store.AdoptRecommendation(ctx, "user-1", "rec-missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	active, err := store.GetActiveRecommendation(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "rec-1", active.ID)
}

func TestReplaceRecommendationsClearsOldBatch(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceRecommendations(ctx, "user-1", []model.BudgetRecommendation{
		testRecommendation("rec-old", "user-1", model.RecommendationBalanced),
	}))
	require.NoError(t, store.AdoptRecommendation(ctx, "user-1", "rec-old"))

	require.NoError(t, store.ReplaceRecommendations(ctx, "user-1", []model.BudgetRecommendation{
		testRecommendation("rec-new", "user-1", model.RecommendationBalanced),
	}))

	all, err := store.GetRecommendations(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "rec-new", all[0].ID)

	active, err := store.GetActiveRecommendation(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, active, "replacement resets adoption")
}

func testInsight(id, userID, transactionID string) *model.SpendingInsight {
	emotional := model.EmotionStressed
	return &model.SpendingInsight{
		ID:               id,
		UserID:           userID,
		TransactionID:    transactionID,
		Pattern:          model.PatternEmotionalSpending,
		EmotionalContext: &emotional,
		Triggers:         []string{"late_night"},
		Recommendation:   "Sleep on it before buying",
		ConfidenceScore:  85,
	}
}

func TestInsightLifecycle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	insight := testInsight("ins-1", "user-1", "txn-1")
	require.NoError(t, store.SaveInsight(ctx, insight))

	has, err := store.HasInsightForTransaction(ctx, "txn-1")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = store.HasInsightForTransaction(ctx, "txn-other")
	require.NoError(t, err)
	assert.False(t, has)

	unacked, err := store.GetUnacknowledgedInsights(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, unacked, 1)
	assert.Equal(t, model.PatternEmotionalSpending, unacked[0].Pattern)
	require.NotNil(t, unacked[0].EmotionalContext)
	assert.Equal(t, model.EmotionStressed, *unacked[0].EmotionalContext)

	require.NoError(t, store.AcknowledgeInsight(ctx, "user-1", "ins-1"))

	unacked, err = store.GetUnacknowledgedInsights(ctx, "user-1", 0)
	require.NoError(t, err)
	assert.Empty(t, unacked)

	recent, err := store.GetRecentInsights(ctx, "user-1", time.Now().AddDate(0, 0, -1), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.True(t, recent[0].Acknowledged)
	assert.NotNil(t, recent[0].AcknowledgedAt)
}

func TestSaveInsightRejectsDuplicateID(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveInsight(ctx, testInsight("ins-1", "user-1", "txn-1")))

	err := store.SaveInsight(ctx, testInsight("ins-1", "user-1", "txn-2"))
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestAcknowledgeInsightKeepsOriginalTimestamp(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveInsight(ctx, testInsight("ins-1", "user-1", "txn-1")))
	require.NoError(t, store.AcknowledgeInsight(ctx, "user-1", "ins-1"))

	recent, err := store.GetRecentInsights(ctx, "user-1", time.Now().AddDate(0, 0, -1), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	first := *recent[0].AcknowledgedAt

	require.NoError(t, store.AcknowledgeInsight(ctx, "user-1", "ins-1"))

	recent, err = store.GetRecentInsights(ctx, "user-1", time.Now().AddDate(0, 0, -1), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.True(t, first.Equal(*recent[0].AcknowledgedAt))
}

func TestAcknowledgeInsightNotFound(t *testing.T) {
	store := newTestStorage(t)

	err := store.AcknowledgeInsight(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestHabitRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	occurred := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	habit := &model.SpendingHabit{
		ID:               "habit-1",
		UserID:           "user-1",
		HabitType:        "recurring_purchase",
		Category:         "Coffee",
		AverageAmount:    5.50,
		FrequencyPerWeek: 4,
		CurrentStreak:    3,
		LongestStreak:    10,
		Positive:         false,
		LastOccurrenceAt: &occurred,
		Suggestions:      []string{"Brew at home twice a week"},
	}
	require.NoError(t, store.SaveHabit(ctx, habit))

	// Streak update persists through the same ID.
	habit.UpdateStreak(false, occurred.AddDate(0, 0, 1))
	require.NoError(t, store.SaveHabit(ctx, habit))

	habits, err := store.GetHabits(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, 4, habits[0].CurrentStreak, "avoided negative habit extends streak")
	assert.Equal(t, 10, habits[0].LongestStreak)
	assert.Equal(t, []string{"Brew at home twice a week"}, habits[0].Suggestions)
}

func TestSessionLifecycle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	latest, err := store.GetLatestSession(ctx, "user-1", model.SessionDailyCheckin)
	require.NoError(t, err)
	assert.Nil(t, latest)

	session := &model.CoachingSession{
		ID:       "sess-1",
		UserID:   "user-1",
		Type:     model.SessionDailyCheckin,
		Context:  map[string]string{"recent_spending": "125.00"},
		Response: "You're on track today.",
	}
	require.NoError(t, store.SaveSession(ctx, session))

	later := &model.CoachingSession{
		ID:        "sess-2",
		UserID:    "user-1",
		Type:      model.SessionDailyCheckin,
		Response:  "Nice work keeping dining in check.",
		CreatedAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.SaveSession(ctx, later))

	latest, err = store.GetLatestSession(ctx, "user-1", model.SessionDailyCheckin)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "sess-2", latest.ID)

	// Type filter keeps scenarios separate.
	latest, err = store.GetLatestSession(ctx, "user-1", model.SessionCrisisIntervention)
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, store.RecordSessionFeedback(ctx, "user-1", "sess-1", 5, "very helpful"))
	require.NoError(t, store.RecordSessionAction(ctx, "user-1", "sess-1", "skipped the purchase"))

	err = store.RecordSessionFeedback(ctx, "user-1", "missing", 4, "")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.RecordSessionFeedback(ctx, "user-1", "sess-1", 9, "")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestNotificationDelivery(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	future := now.Add(2 * time.Hour)

	notifications := []*model.Notification{
		{
			ID: "note-1", UserID: "user-1", Type: model.NotifySpendingAlert,
			Title: "Heads up", Message: "Dining is ahead of plan", Priority: model.PriorityMedium,
		},
		{
			ID: "note-2", UserID: "user-1", Type: model.NotifyCrisisAlert,
			Title: "Check in", Message: "A recent purchase matched a risky pattern", Priority: model.PriorityUrgent,
		},
		{
			ID: "note-3", UserID: "user-1", Type: model.NotifyHabitReminder,
			Title: "Later", Message: "Scheduled reminder", Priority: model.PriorityLow,
			ScheduledFor: &future,
		},
	}
	for _, n := range notifications {
		require.NoError(t, store.SaveNotification(ctx, n))
	}

	ready, err := store.GetReadyNotifications(ctx, "user-1", now)
	require.NoError(t, err)
	require.Len(t, ready, 2, "scheduled notification is not yet due")
	assert.Equal(t, "note-2", ready[0].ID, "urgent first")

	require.NoError(t, store.MarkNotificationRead(ctx, "user-1", "note-2"))

	ready, err = store.GetReadyNotifications(ctx, "user-1", future)
	require.NoError(t, err)
	require.Len(t, ready, 2)

	err = store.MarkNotificationRead(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestValidationGuards(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	t.Run("nil context", func(t *testing.T) {
		//nolint:staticcheck // exercising the nil-context guard
		_, err := store.CountTransactions(nil, "user-1")
		assert.ErrorIs(t, err, ErrNilContext)
	})

	t.Run("empty user", func(t *testing.T) {
		_, err := store.CountTransactions(ctx, "  ")
		assert.ErrorIs(t, err, ErrEmptyString)
	})

	t.Run("empty transaction slice", func(t *testing.T) {
		err := store.SaveTransactions(ctx, []model.Transaction{})
		assert.ErrorIs(t, err, ErrEmptySlice)
	})

	t.Run("invalid insight confidence", func(t *testing.T) {
		insight := testInsight("ins-1", "user-1", "txn-1")
		insight.ConfidenceScore = 120
		err := store.SaveInsight(ctx, insight)
		assert.ErrorIs(t, err, ErrInvalidInsight)
	})
}
