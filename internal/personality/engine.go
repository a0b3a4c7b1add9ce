// Package personality infers a user's financial personality archetype from
// their transaction history. Inference is best-effort: when the reasoning
// capability is unavailable or returns an invalid analysis, a deterministic
// default profile is persisted instead so downstream consumers always have
// something to work with.
package personality

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgersage/ledgersage/internal/common"
	"github.com/ledgersage/ledgersage/internal/llm"
	"github.com/ledgersage/ledgersage/internal/model"
	"github.com/ledgersage/ledgersage/internal/service"
	"github.com/ledgersage/ledgersage/internal/summary"
)

const (
	lookbackMonths = 6
	temperature    = 0.3
	maxTokens      = 1500
)

// Engine performs personality inference for one user at a time.
type Engine struct {
	storage service.Storage
	client  llm.Client
	logger  *slog.Logger
	clock   func() time.Time
}

// NewEngine creates a personality inference engine.
func NewEngine(storage service.Storage, client llm.Client, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		storage: storage,
		client:  client,
		logger:  logger,
		clock:   time.Now,
	}
}

// analysisResponse is the JSON contract the model must return. Unknown
// fields are rejected.
type analysisResponse struct {
	LifestylePreferences map[string]string `json:"lifestyle_preferences"`
	PersonalityType      string            `json:"personality_type"`
	Summary              string            `json:"summary"`
	SpendingTriggers     []string          `json:"spending_triggers"`
	FinancialTraumas     []string          `json:"financial_traumas"`
	RiskTolerance        int               `json:"risk_tolerance"`
	DisciplineLevel      int               `json:"discipline_level"`
	ConfidenceScore      int               `json:"confidence_score"`
}

// Infer analyzes the user's last six months of transactions and persists the
// resulting profile. A user with no transaction history at all is skipped and
// nothing is persisted; a user with only older history is still analyzed,
// against an empty window. Any reasoning failure persists the default profile
// instead, so the returned profile is non-nil whenever the outcome is success
// or fallback.
func (e *Engine) Infer(ctx context.Context, userID string) (*model.PersonalityProfile, model.Outcome, error) {
	now := e.clock()

	count, err := e.storage.CountTransactions(ctx, userID)
	if err != nil {
		return nil, model.Outcome{}, fmt.Errorf("failed to count transactions: %w", err)
	}
	if count == 0 {
		e.logger.Info("Skipping personality analysis",
			"user_id", userID,
			"reason", common.ErrNoTransactions)
		return nil, model.Skipped(common.ErrNoTransactions.Error()), nil
	}

	windowStart := summary.MonthsAgo(now, lookbackMonths)
	transactions, err := e.storage.GetTransactions(ctx, service.TransactionFilter{
		UserID: userID,
		Start:  &windowStart,
	})
	if err != nil {
		return nil, model.Outcome{}, fmt.Errorf("failed to load transactions: %w", err)
	}

	financials := summary.Calculate(transactions)

	response, err := e.client.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(financials),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		e.logger.Warn("Personality analysis failed, using default profile",
			"user_id", userID,
			"error", err)
		return e.persistDefault(ctx, userID, now, "completion failed")
	}

	profile, err := e.parseResponse(userID, now, response)
	if err != nil {
		e.logger.Warn("Personality analysis returned invalid data, using default profile",
			"user_id", userID,
			"error", err)
		return e.persistDefault(ctx, userID, now, "invalid analysis response")
	}

	if err := e.storage.UpsertPersonality(ctx, profile); err != nil {
		return nil, model.Outcome{}, fmt.Errorf("failed to save personality profile: %w", err)
	}

	e.logger.Info("Personality analysis complete",
		"user_id", userID,
		"personality_type", profile.Type,
		"confidence", profile.ConfidenceScore)
	return profile, model.Success(), nil
}

func (e *Engine) persistDefault(ctx context.Context, userID string, now time.Time, reason string) (*model.PersonalityProfile, model.Outcome, error) {
	profile := model.DefaultProfile(userID, now)
	if err := e.storage.UpsertPersonality(ctx, profile); err != nil {
		return nil, model.Outcome{}, fmt.Errorf("failed to save default profile: %w", err)
	}
	return profile, model.Fallback(reason), nil
}

func (e *Engine) parseResponse(userID string, now time.Time, response string) (*model.PersonalityProfile, error) {
	var parsed analysisResponse
	if err := llm.DecodeStrict(response, &parsed); err != nil {
		return nil, err
	}

	personalityType := model.PersonalityType(parsed.PersonalityType)
	if !personalityType.Valid() {
		return nil, fmt.Errorf("unknown personality type %q", parsed.PersonalityType)
	}
	if parsed.RiskTolerance < 1 || parsed.RiskTolerance > 10 {
		return nil, fmt.Errorf("risk tolerance %d out of range", parsed.RiskTolerance)
	}
	if parsed.DisciplineLevel < 1 || parsed.DisciplineLevel > 10 {
		return nil, fmt.Errorf("discipline level %d out of range", parsed.DisciplineLevel)
	}
	if parsed.ConfidenceScore < 0 || parsed.ConfidenceScore > 100 {
		return nil, fmt.Errorf("confidence score %d out of range", parsed.ConfidenceScore)
	}

	profile := &model.PersonalityProfile{
		UserID:               userID,
		Type:                 personalityType,
		RiskTolerance:        parsed.RiskTolerance,
		DisciplineLevel:      parsed.DisciplineLevel,
		SpendingTriggers:     parsed.SpendingTriggers,
		FinancialTraumas:     parsed.FinancialTraumas,
		LifestylePreferences: parsed.LifestylePreferences,
		ConfidenceScore:      parsed.ConfidenceScore,
		Summary:              parsed.Summary,
		LastAnalyzedAt:       now,
	}
	if profile.SpendingTriggers == nil {
		profile.SpendingTriggers = []string{}
	}
	if profile.FinancialTraumas == nil {
		profile.FinancialTraumas = []string{}
	}
	if profile.LifestylePreferences == nil {
		profile.LifestylePreferences = map[string]string{}
	}
	return profile, nil
}
