package personality

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ledgersage/ledgersage/internal/common"
	"github.com/ledgersage/ledgersage/internal/model"
	"github.com/ledgersage/ledgersage/internal/service"
	"github.com/ledgersage/ledgersage/internal/testutil"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine(store *testutil.MockStorage, client *testutil.MockClient) *Engine {
	engine := NewEngine(store, client, slog.Default())
	engine.clock = func() time.Time { return testNow }
	return engine
}

func storeWithHistory(count int) *testutil.MockStorage {
	return &testutil.MockStorage{
		CountTransactionsFunc: func(context.Context, string) (int, error) {
			return count, nil
		},
		GetTransactionsFunc: func(_ context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
			txns := make([]model.Transaction, count)
			for i := range txns {
				txns[i] = model.Transaction{
					ID:       "txn-" + string(rune('a'+i)),
					UserID:   filter.UserID,
					Date:     testNow.AddDate(0, 0, -i),
					Name:     "Purchase",
					Category: "Dining",
					Amount:   -20.0,
				}
			}
			return txns, nil
		},
	}
}

const validResponse = `{
	"personality_type": "impulsive_spender",
	"risk_tolerance": 7,
	"discipline_level": 3,
	"spending_triggers": ["boredom", "late_night"],
	"financial_traumas": [],
	"lifestyle_preferences": {"dining": "frequent"},
	"confidence_score": 82,
	"summary": "Spends quickly when idle."
}`

func TestInferSuccess(t *testing.T) {
	store := storeWithHistory(5)
	client := &testutil.MockClient{Responses: []string{validResponse}}

	profile, outcome, err := newTestEngine(store, client).Infer(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if outcome.Status != model.OutcomeSuccess {
		t.Fatalf("outcome = %+v, want success", outcome)
	}
	if profile.Type != model.PersonalityImpulsiveSpender {
		t.Errorf("Type = %s, want impulsive_spender", profile.Type)
	}
	if !profile.LastAnalyzedAt.Equal(testNow) {
		t.Errorf("LastAnalyzedAt = %v, want %v", profile.LastAnalyzedAt, testNow)
	}
	if len(store.SavedProfiles) != 1 {
		t.Fatalf("saved %d profiles, want 1", len(store.SavedProfiles))
	}

	req := client.Requests[0]
	if req.Temperature != 0.3 {
		t.Errorf("Temperature = %v, want 0.3", req.Temperature)
	}
	if req.MaxTokens != 1500 {
		t.Errorf("MaxTokens = %d, want 1500", req.MaxTokens)
	}
}

func TestInferAcceptsFencedJSON(t *testing.T) {
	store := storeWithHistory(3)
	client := &testutil.MockClient{Responses: []string{"```json\n" + validResponse + "\n```"}}

	profile, outcome, err := newTestEngine(store, client).Infer(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if outcome.Status != model.OutcomeSuccess {
		t.Fatalf("outcome = %+v, want success", outcome)
	}
	if profile.ConfidenceScore != 82 {
		t.Errorf("ConfidenceScore = %d, want 82", profile.ConfidenceScore)
	}
}

func TestInferSkipsWithoutHistory(t *testing.T) {
	store := &testutil.MockStorage{}
	client := &testutil.MockClient{Responses: []string{validResponse}}

	profile, outcome, err := newTestEngine(store, client).Infer(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if outcome.Status != model.OutcomeSkipped {
		t.Fatalf("outcome = %+v, want skipped", outcome)
	}
	if outcome.Reason != common.ErrNoTransactions.Error() {
		t.Errorf("Reason = %q, want %q", outcome.Reason, common.ErrNoTransactions.Error())
	}
	if profile != nil {
		t.Errorf("profile = %+v, want nil", profile)
	}
	if len(store.SavedProfiles) != 0 {
		t.Errorf("saved %d profiles, want 0: a skip must not persist", len(store.SavedProfiles))
	}
	if len(client.Requests) != 0 {
		t.Errorf("made %d completion requests, want 0", len(client.Requests))
	}
}

func TestInferAnalyzesUserWithOnlyOldHistory(t *testing.T) {
	// Transactions exist but none fall inside the lookback window. The
	// analysis still runs, against an empty feature set.
	store := &testutil.MockStorage{
		CountTransactionsFunc: func(context.Context, string) (int, error) {
			return 12, nil
		},
	}
	client := &testutil.MockClient{Responses: []string{validResponse}}

	_, outcome, err := newTestEngine(store, client).Infer(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if outcome.Status != model.OutcomeSuccess {
		t.Fatalf("outcome = %+v, want success", outcome)
	}
	if len(client.Requests) != 1 {
		t.Errorf("made %d completion requests, want 1", len(client.Requests))
	}
	if len(store.SavedProfiles) != 1 {
		t.Errorf("saved %d profiles, want 1", len(store.SavedProfiles))
	}
}

func TestInferFallsBackOnCompletionError(t *testing.T) {
	store := storeWithHistory(3)
	client := &testutil.MockClient{Err: errors.New("capability unavailable")}

	profile, outcome, err := newTestEngine(store, client).Infer(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if outcome.Status != model.OutcomeFallback {
		t.Fatalf("outcome = %+v, want fallback", outcome)
	}
	if profile.Type != model.PersonalityBalancedPlanner {
		t.Errorf("Type = %s, want balanced_planner default", profile.Type)
	}
	if profile.ConfidenceScore != 50 {
		t.Errorf("ConfidenceScore = %d, want 50", profile.ConfidenceScore)
	}
	if len(store.SavedProfiles) != 1 {
		t.Fatalf("saved %d profiles, want 1: the default must be persisted", len(store.SavedProfiles))
	}
	if !store.SavedProfiles[0].LastAnalyzedAt.Equal(testNow) {
		t.Errorf("default profile not stamped with analysis time")
	}
}

func TestInferFallsBackOnInvalidResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "I think this person is a balanced planner."},
		{"unknown personality type", `{"personality_type": "free_spirit", "risk_tolerance": 5, "discipline_level": 5, "spending_triggers": [], "financial_traumas": [], "lifestyle_preferences": {}, "confidence_score": 50, "summary": ""}`},
		{"risk out of range", `{"personality_type": "balanced_planner", "risk_tolerance": 15, "discipline_level": 5, "spending_triggers": [], "financial_traumas": [], "lifestyle_preferences": {}, "confidence_score": 50, "summary": ""}`},
		{"discipline out of range", `{"personality_type": "balanced_planner", "risk_tolerance": 5, "discipline_level": 0, "spending_triggers": [], "financial_traumas": [], "lifestyle_preferences": {}, "confidence_score": 50, "summary": ""}`},
		{"confidence out of range", `{"personality_type": "balanced_planner", "risk_tolerance": 5, "discipline_level": 5, "spending_triggers": [], "financial_traumas": [], "lifestyle_preferences": {}, "confidence_score": 101, "summary": ""}`},
		{"unexpected field", `{"personality_type": "balanced_planner", "risk_tolerance": 5, "discipline_level": 5, "spending_triggers": [], "financial_traumas": [], "lifestyle_preferences": {}, "confidence_score": 50, "summary": "", "mood": "upbeat"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storeWithHistory(3)
			client := &testutil.MockClient{Responses: []string{tt.response}}

			profile, outcome, err := newTestEngine(store, client).Infer(context.Background(), "user-1")
			if err != nil {
				t.Fatalf("Infer() error = %v", err)
			}
			if outcome.Status != model.OutcomeFallback {
				t.Fatalf("outcome = %+v, want fallback", outcome)
			}
			if profile.Type != model.PersonalityBalancedPlanner {
				t.Errorf("Type = %s, want balanced_planner default", profile.Type)
			}
		})
	}
}

func TestInferPropagatesStorageErrors(t *testing.T) {
	wantErr := errors.New("disk full")
	store := storeWithHistory(3)
	store.UpsertPersonalityFunc = func(context.Context, *model.PersonalityProfile) error {
		return wantErr
	}
	client := &testutil.MockClient{Responses: []string{validResponse}}

	_, _, err := newTestEngine(store, client).Infer(context.Background(), "user-1")
	if !errors.Is(err, wantErr) {
		t.Fatalf("Infer() error = %v, want %v", err, wantErr)
	}
}

func TestBuildPromptListsArchetypes(t *testing.T) {
	store := storeWithHistory(3)
	client := &testutil.MockClient{Responses: []string{validResponse}}

	if _, _, err := newTestEngine(store, client).Infer(context.Background(), "user-1"); err != nil {
		t.Fatalf("Infer() error = %v", err)
	}

	prompt := client.Requests[0].Prompt
	for _, archetype := range model.PersonalityTypes {
		if !strings.Contains(prompt, string(archetype)) {
			t.Errorf("prompt missing archetype %s", archetype)
		}
	}
}
