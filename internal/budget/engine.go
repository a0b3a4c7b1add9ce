// Package budget generates the three-archetype budget recommendation set.
// Rule-based baselines are always computed first; the reasoning capability
// refines them when it can, and the baselines stand in when it cannot.
package budget

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgersage/ledgersage/internal/common"
	"github.com/ledgersage/ledgersage/internal/llm"
	"github.com/ledgersage/ledgersage/internal/model"
	"github.com/ledgersage/ledgersage/internal/service"
	"github.com/ledgersage/ledgersage/internal/summary"
)

const (
	lookbackMonths = 3
	temperature    = 0.2
	maxTokens      = 2000
)

// debtCategories are the transaction categories treated as debt service when
// sizing the conservative plan.
var debtCategories = []string{"Debt Payment", "Credit Card", "Loan Payment"}

// Engine generates budget recommendations for one user at a time.
type Engine struct {
	storage service.Storage
	client  llm.Client
	logger  *slog.Logger
	clock   func() time.Time
}

// NewEngine creates a budget recommendation engine.
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

// Generate replaces the user's recommendation batch with a fresh set of
// three, one per archetype. Without a current personality profile it does
// nothing and reports a skip; adoption state on any previous batch is
// deliberately reset by the replacement.
func (e *Engine) Generate(ctx context.Context, userID string) ([]model.BudgetRecommendation, model.Outcome, error) {
	now := e.clock()

	profile, err := e.storage.GetPersonality(ctx, userID)
	if err != nil {
		return nil, model.Outcome{}, fmt.Errorf("failed to load personality profile: %w", err)
	}
	if !profile.Current(now) {
		reason := common.ErrNoProfile
		if profile != nil {
			reason = common.ErrStaleProfile
		}
		e.logger.Info("Skipping budget generation",
			"user_id", userID,
			"reason", reason)
		return nil, model.Skipped(reason.Error()), nil
	}

	data, err := e.financialData(ctx, userID, now)
	if err != nil {
		return nil, model.Outcome{}, err
	}

	baseline := BaselineRecommendations(profile, data)

	recs, outcome := e.refine(ctx, userID, profile, data, baseline)
	if err := e.storage.ReplaceRecommendations(ctx, userID, recs); err != nil {
		return nil, model.Outcome{}, fmt.Errorf("failed to save recommendations: %w", err)
	}

	e.logger.Info("Budget recommendations generated",
		"user_id", userID,
		"count", len(recs),
		"outcome", outcome.Status)
	return recs, outcome, nil
}

// financialData summarizes the user's last three months into monthly figures.
func (e *Engine) financialData(ctx context.Context, userID string, now time.Time) (FinancialData, error) {
	windowStart := summary.MonthsAgo(now, lookbackMonths)
	transactions, err := e.storage.GetTransactions(ctx, service.TransactionFilter{
		UserID: userID,
		Start:  &windowStart,
	})
	if err != nil {
		return FinancialData{}, fmt.Errorf("failed to load transactions: %w", err)
	}

	income := decimal.Zero
	expenses := decimal.Zero
	for i := range transactions {
		amount := decimal.NewFromFloat(transactions[i].Amount)
		if transactions[i].IsExpense() {
			expenses = expenses.Add(amount.Abs())
		} else {
			income = income.Add(amount)
		}
	}

	months := decimal.NewFromInt(lookbackMonths)
	data := FinancialData{
		MonthlyIncome:   income.Div(months).InexactFloat64(),
		MonthlyExpenses: expenses.Div(months).InexactFloat64(),
	}

	if data.MonthlyIncome > 0 {
		rate := (data.MonthlyIncome - data.MonthlyExpenses) / data.MonthlyIncome * 100
		data.SavingsRate = math.Round(rate*10) / 10
	}

	debtSince := summary.MonthsAgo(now, 1)
	for _, category := range debtCategories {
		paid, err := e.storage.SumCategoryExpenses(ctx, userID, category, debtSince)
		if err != nil {
			return FinancialData{}, fmt.Errorf("failed to sum debt payments: %w", err)
		}
		data.DebtPayments += paid
	}

	return data, nil
}

// refinedRecommendation is one archetype in the model's JSON response.
type refinedRecommendation struct {
	CategoryBreakdown    map[string]float64 `json:"category_breakdown"`
	Rationale            string             `json:"rationale"`
	MandatoryAllocation  float64            `json:"mandatory_allocation"`
	DesiresAllocation    float64            `json:"desires_allocation"`
	InvestmentAllocation float64            `json:"investment_allocation"`
	ConfidenceScore      float64            `json:"confidence_score"`
}

// refinementResponse is the full JSON contract: all three archetypes, always.
type refinementResponse struct {
	Conservative refinedRecommendation `json:"conservative"`
	Balanced     refinedRecommendation `json:"balanced"`
	Aggressive   refinedRecommendation `json:"aggressive"`
}

// refine asks the reasoning capability to personalize the baseline triple.
// Any failure, including allocations outside the tolerance band, keeps the
// baseline set instead.
func (e *Engine) refine(ctx context.Context, userID string, profile *model.PersonalityProfile, data FinancialData, baseline []model.BudgetRecommendation) ([]model.BudgetRecommendation, model.Outcome) {
	response, err := e.client.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(profile, data, baseline),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		e.logger.Warn("Budget refinement failed, keeping baseline",
			"user_id", userID,
			"error", err)
		return baseline, model.Fallback("completion failed")
	}

	var parsed refinementResponse
	if err := llm.DecodeStrict(response, &parsed); err != nil {
		e.logger.Warn("Budget refinement returned invalid JSON, keeping baseline",
			"user_id", userID,
			"error", err)
		return baseline, model.Fallback("invalid refinement response")
	}

	refined := []model.BudgetRecommendation{
		toRecommendation(userID, model.RecommendationConservative, parsed.Conservative),
		toRecommendation(userID, model.RecommendationBalanced, parsed.Balanced),
		toRecommendation(userID, model.RecommendationAggressive, parsed.Aggressive),
	}
	for i := range refined {
		if err := refined[i].Validate(); err != nil {
			e.logger.Warn("Budget refinement failed validation, keeping baseline",
				"user_id", userID,
				"type", refined[i].Type,
				"error", err)
			return baseline, model.Fallback("refinement failed validation")
		}
	}

	return refined, model.Success()
}

func toRecommendation(userID string, recType model.RecommendationType, r refinedRecommendation) model.BudgetRecommendation {
	breakdown := r.CategoryBreakdown
	if breakdown == nil {
		breakdown = map[string]float64{}
	}
	confidence := r.ConfidenceScore
	if confidence == 0 {
		confidence = baselineConfidence
	}
	return model.BudgetRecommendation{
		ID:                   uuid.NewString(),
		UserID:               userID,
		Type:                 recType,
		MandatoryAllocation:  r.MandatoryAllocation,
		DesiresAllocation:    r.DesiresAllocation,
		InvestmentAllocation: r.InvestmentAllocation,
		ConfidenceScore:      confidence,
		Rationale:            r.Rationale,
		CategoryBreakdown:    breakdown,
	}
}
