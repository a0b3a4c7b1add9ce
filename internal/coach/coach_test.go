package coach

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/ledgersage/ledgersage/internal/model"
	"github.com/ledgersage/ledgersage/internal/service"
	"github.com/ledgersage/ledgersage/internal/testutil"
)

var testNow = time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)

func newTestCoach(store *testutil.MockStorage, client *testutil.MockClient) *Coach {
	c := NewCoach(store, client, slog.Default())
	c.clock = func() time.Time { return testNow }
	return c
}

func storeWithProfile() *testutil.MockStorage {
	return &testutil.MockStorage{
		GetPersonalityFunc: func(_ context.Context, userID string) (*model.PersonalityProfile, error) {
			return &model.PersonalityProfile{
				UserID:          userID,
				Type:            model.PersonalityAnxiousAvoider,
				RiskTolerance:   3,
				DisciplineLevel: 5,
				LastAnalyzedAt:  testNow.AddDate(0, 0, -1),
			}, nil
		},
	}
}

func TestDailyCheckinSuccess(t *testing.T) {
	store := storeWithProfile()
	client := &testutil.MockClient{Responses: []string{"Nice work yesterday. Try a no-spend morning today."}}

	session, outcome, err := newTestCoach(store, client).DailyCheckin(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("DailyCheckin() error = %v", err)
	}
	if outcome.Status != model.OutcomeSuccess {
		t.Fatalf("outcome = %+v, want success", outcome)
	}
	if session.Type != model.SessionDailyCheckin {
		t.Errorf("Type = %s, want daily_checkin", session.Type)
	}
	if session.Response == "" {
		t.Error("session has empty response")
	}
	if len(store.SavedSessions) != 1 {
		t.Fatalf("saved %d sessions, want 1", len(store.SavedSessions))
	}

	req := client.Requests[0]
	if req.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", req.Temperature)
	}
	if req.MaxTokens != 800 {
		t.Errorf("MaxTokens = %d, want 800", req.MaxTokens)
	}
}

func TestCoachingFallsBackAndStillPersists(t *testing.T) {
	tests := []struct {
		run          func(*Coach) (*model.CoachingSession, model.Outcome, error)
		name         string
		wantType     model.SessionType
		wantResponse string
	}{
		{
			name:         "daily checkin",
			run:          func(c *Coach) (*model.CoachingSession, model.Outcome, error) { return c.DailyCheckin(context.Background(), "user-1") },
			wantType:     model.SessionDailyCheckin,
			wantResponse: "Great job checking in today! Remember, small consistent actions lead to big financial wins. What's one thing you can do today to move closer to your goals?",
		},
		{
			name: "crisis intervention",
			run: func(c *Coach) (*model.CoachingSession, model.Outcome, error) {
				return c.CrisisIntervention(context.Background(), "user-1", 240)
			},
			wantType:     model.SessionCrisisIntervention,
			wantResponse: "I understand this feels overwhelming right now. Take a deep breath. Every financial setback is temporary and a chance to learn. What's one small step you can take right now to feel more in control?",
		},
		{
			name: "goal review",
			run: func(c *Coach) (*model.CoachingSession, model.Outcome, error) {
				return c.GoalReview(context.Background(), "user-1", []Goal{{Name: "Emergency fund", Target: 5000, Current: 1200}})
			},
			wantType:     model.SessionGoalReview,
			wantResponse: "Progress isn't always linear, and that's okay! Every step forward, no matter how small, is worth celebrating. What's working well for you right now?",
		},
		{
			name: "purchase guidance uses the generic message",
			run: func(c *Coach) (*model.CoachingSession, model.Outcome, error) {
				return c.PurchaseGuidance(context.Background(), "user-1", 89.99, "Shopping", "excited")
			},
			wantType:     model.SessionPurchaseGuidance,
			wantResponse: "You're doing great by staying engaged with your finances. Keep up the good work!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storeWithProfile()
			client := &testutil.MockClient{Err: errors.New("capability unavailable")}

			session, outcome, err := tt.run(newTestCoach(store, client))
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if outcome.Status != model.OutcomeFallback {
				t.Fatalf("outcome = %+v, want fallback", outcome)
			}
			if session.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", session.Type, tt.wantType)
			}
			if session.Response != tt.wantResponse {
				t.Errorf("Response = %q, want canned message", session.Response)
			}
			if len(store.SavedSessions) != 1 {
				t.Error("fallback sessions must still be persisted")
			}
		})
	}
}

func TestCrisisContextCollectsPatterns(t *testing.T) {
	store := storeWithProfile()
	stressed := model.EmotionStressed
	store.GetRecentInsightsFunc = func(context.Context, string, time.Time, int) ([]model.SpendingInsight, error) {
		return []model.SpendingInsight{
			{Pattern: model.PatternEmotionalSpending, EmotionalContext: &stressed},
			{Pattern: model.PatternImpulsePurchase},
		}, nil
	}
	client := &testutil.MockClient{Responses: []string{"Take a breath."}}

	session, _, err := newTestCoach(store, client).CrisisIntervention(context.Background(), "user-1", 300)
	if err != nil {
		t.Fatalf("CrisisIntervention() error = %v", err)
	}
	if session.Context["recent_patterns"] != "emotional_spending, impulse_purchase" {
		t.Errorf("recent_patterns = %q", session.Context["recent_patterns"])
	}
	if session.Context["emotional_triggers"] != "stressed" {
		t.Errorf("emotional_triggers = %q", session.Context["emotional_triggers"])
	}
	if session.Context["crisis_spending"] != "300.00" {
		t.Errorf("crisis_spending = %q", session.Context["crisis_spending"])
	}
}

func TestBudgetStatus(t *testing.T) {
	activeBudget := &model.BudgetRecommendation{
		ID: "rec-1", UserID: "user-1", Type: model.RecommendationBalanced,
		MandatoryAllocation: 55, DesiresAllocation: 25, InvestmentAllocation: 20,
		Active: true,
	}

	tests := []struct {
		budget *model.BudgetRecommendation
		name   string
		want   string
		txns   []model.Transaction
	}{
		{
			name:   "no active budget",
			budget: nil,
			want:   "No active budget",
		},
		{
			name:   "no income",
			budget: activeBudget,
			txns: []model.Transaction{
				{ID: "t1", Date: testNow.AddDate(0, 0, -3), Amount: -200},
			},
			want: "Unable to calculate",
		},
		{
			// Income 4000, desires budget 1000, spent 600 this month.
			name:   "remaining",
			budget: activeBudget,
			txns: []model.Transaction{
				{ID: "t1", Date: testNow.AddDate(0, 0, -10), Amount: 4000},
				{ID: "t2", Date: testNow.AddDate(0, 0, -3), Amount: -600},
			},
			want: "40% budget remaining",
		},
		{
			// Income 4000, desires budget 1000, spent 1500 this month.
			name:   "over budget",
			budget: activeBudget,
			txns: []model.Transaction{
				{ID: "t1", Date: testNow.AddDate(0, 0, -10), Amount: 4000},
				{ID: "t2", Date: testNow.AddDate(0, 0, -3), Amount: -1500},
			},
			want: "50% over budget",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storeWithProfile()
			store.GetActiveRecommendationFunc = func(context.Context, string) (*model.BudgetRecommendation, error) {
				return tt.budget, nil
			}
			store.GetTransactionsFunc = func(_ context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
				var matched []model.Transaction
				for _, txn := range tt.txns {
					if filter.ExpensesOnly && txn.Amount >= 0 {
						continue
					}
					if filter.Start != nil && txn.Date.Before(*filter.Start) {
						continue
					}
					matched = append(matched, txn)
				}
				return matched, nil
			}

			got, err := newTestCoach(store, &testutil.MockClient{}).budgetStatus(context.Background(), "user-1", testNow)
			if err != nil {
				t.Fatalf("budgetStatus() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("budgetStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpendingStreak(t *testing.T) {
	t.Run("empty window counts the whole window", func(t *testing.T) {
		store := storeWithProfile()
		streak, err := newTestCoach(store, &testutil.MockClient{}).spendingStreak(context.Background(), "user-1", testNow)
		if err != nil {
			t.Fatalf("spendingStreak() error = %v", err)
		}
		if streak != streakWindowDays {
			t.Errorf("streak = %d, want %d", streak, streakWindowDays)
		}
	})

	t.Run("streak never exceeds the window", func(t *testing.T) {
		store := storeWithProfile()
		store.GetTransactionsFunc = func(context.Context, service.TransactionFilter) ([]model.Transaction, error) {
			// Identical spending every day keeps every day under the
			// 1.2x threshold, so nothing breaks the streak.
			txns := make([]model.Transaction, streakWindowDays)
			for d := range txns {
				txns[d] = model.Transaction{
					ID:     "t" + strconv.Itoa(d),
					Date:   testNow.AddDate(0, 0, -(d + 1)),
					Amount: -25,
				}
			}
			return txns, nil
		}

		streak, err := newTestCoach(store, &testutil.MockClient{}).spendingStreak(context.Background(), "user-1", testNow)
		if err != nil {
			t.Fatalf("spendingStreak() error = %v", err)
		}
		if streak != streakWindowDays {
			t.Errorf("streak = %d, want %d: the streak is bounded by the lookback window", streak, streakWindowDays)
		}
	})

	t.Run("streak breaks at the last bad day", func(t *testing.T) {
		store := storeWithProfile()
		store.GetTransactionsFunc = func(context.Context, service.TransactionFilter) ([]model.Transaction, error) {
			// Daily average is (40+40+40+200)/4 = 80, threshold 96.
			// The $200 day four days ago breaks the streak at 3.
			return []model.Transaction{
				{ID: "t1", Date: testNow.AddDate(0, 0, -1), Amount: -40},
				{ID: "t2", Date: testNow.AddDate(0, 0, -2), Amount: -40},
				{ID: "t3", Date: testNow.AddDate(0, 0, -3), Amount: -40},
				{ID: "t4", Date: testNow.AddDate(0, 0, -4), Amount: -200},
			}, nil
		}

		streak, err := newTestCoach(store, &testutil.MockClient{}).spendingStreak(context.Background(), "user-1", testNow)
		if err != nil {
			t.Fatalf("spendingStreak() error = %v", err)
		}
		if streak != 4 {
			t.Errorf("streak = %d, want 4 (today plus three good days)", streak)
		}
	})
}

func TestLastDailyCheckinToday(t *testing.T) {
	tests := []struct {
		latest *model.CoachingSession
		name   string
		want   bool
	}{
		{nil, "no sessions", false},
		{&model.CoachingSession{CreatedAt: testNow.Add(-2 * time.Hour)}, "earlier today", true},
		{&model.CoachingSession{CreatedAt: testNow.AddDate(0, 0, -1)}, "yesterday", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storeWithProfile()
			store.GetLatestSessionFunc = func(context.Context, string, model.SessionType) (*model.CoachingSession, error) {
				return tt.latest, nil
			}

			got, err := newTestCoach(store, &testutil.MockClient{}).LastDailyCheckinToday(context.Background(), "user-1")
			if err != nil {
				t.Fatalf("LastDailyCheckinToday() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("LastDailyCheckinToday() = %v, want %v", got, tt.want)
			}
		})
	}
}
