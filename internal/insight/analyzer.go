// Package insight screens individual transactions and classifies the
// behavioral pattern behind the ones worth analyzing. Unlike personality and
// budget generation there is no fallback here: a failed analysis writes
// nothing, because a guessed pattern is worse than no insight.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgersage/ledgersage/internal/llm"
	"github.com/ledgersage/ledgersage/internal/model"
	"github.com/ledgersage/ledgersage/internal/service"
	"github.com/ledgersage/ledgersage/internal/summary"
)

const (
	temperature = 0.3
	maxTokens   = 800

	similarLookbackDays = 30
	similarLimit        = 5
)

// Analyzer screens and classifies single transactions.
type Analyzer struct {
	storage service.Storage
	client  llm.Client
	logger  *slog.Logger
	clock   func() time.Time
}

// NewAnalyzer creates a transaction insight analyzer.
func NewAnalyzer(storage service.Storage, client llm.Client, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		storage: storage,
		client:  client,
		logger:  logger,
		clock:   time.Now,
	}
}

// transactionContext is the behavioral evidence assembled around one
// transaction before asking for a classification.
type transactionContext struct {
	RecentSpend     float64 // total expenses in the last 7 days
	MonthlyCategory float64 // category spend in the last month
	MerchantVisits  int     // visits to this merchant in the last 7 days
	SimilarCount    int     // similar expenses in the last 30 days, capped
}

// analysisResponse is the JSON contract for a classification.
type analysisResponse struct {
	PatternType      string   `json:"pattern_type"`
	EmotionalContext string   `json:"emotional_context"`
	Recommendation   string   `json:"recommendation"`
	Triggers         []string `json:"triggers"`
	ConfidenceScore  int      `json:"confidence_score"`
}

// Analyze screens the transaction and, when it qualifies, classifies the
// spending pattern behind it and persists the insight. Screened-out
// transactions and missing personality profiles report a skip; reasoning
// failures report suppression and persist nothing.
func (a *Analyzer) Analyze(ctx context.Context, txn *model.Transaction) (*model.SpendingInsight, model.Outcome, error) {
	if txn == nil {
		return nil, model.Outcome{}, fmt.Errorf("transaction is required")
	}
	now := a.clock()

	if !txn.IsExpense() {
		return nil, model.Skipped("not an expense"), nil
	}

	profile, err := a.storage.GetPersonality(ctx, txn.UserID)
	if err != nil {
		return nil, model.Outcome{}, fmt.Errorf("failed to load personality profile: %w", err)
	}
	if !profile.Current(now) {
		return nil, model.Skipped("no current personality profile"), nil
	}

	merchantVisits, err := a.merchantVisits(ctx, txn, now)
	if err != nil {
		return nil, model.Outcome{}, err
	}

	if !exceedsAmountThreshold(txn) && !inEmotionalWindow(txn.Date) && merchantVisits < merchantFrequencyMin {
		return nil, model.Skipped("below screening thresholds"), nil
	}

	txnContext, err := a.buildContext(ctx, txn, now, merchantVisits)
	if err != nil {
		return nil, model.Outcome{}, err
	}

	response, err := a.client.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(txn, profile, txnContext),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		a.logger.Warn("Transaction analysis failed",
			"transaction_id", txn.ID,
			"error", err)
		return nil, model.Suppressed("completion failed"), nil
	}

	insight, err := a.parseResponse(txn, now, response)
	if err != nil {
		a.logger.Warn("Transaction analysis returned invalid data",
			"transaction_id", txn.ID,
			"error", err)
		return nil, model.Suppressed("invalid analysis response"), nil
	}

	if err := a.storage.SaveInsight(ctx, insight); err != nil {
		return nil, model.Outcome{}, fmt.Errorf("failed to save insight: %w", err)
	}

	a.logger.Info("Spending insight recorded",
		"transaction_id", txn.ID,
		"pattern", insight.Pattern,
		"confidence", insight.ConfidenceScore,
		"intervention", insight.RequiresIntervention())
	return insight, model.Success(), nil
}

func (a *Analyzer) merchantVisits(ctx context.Context, txn *model.Transaction, now time.Time) (int, error) {
	if txn.MerchantName == "" {
		return 0, nil
	}
	since := summary.DaysAgo(now, merchantWindowDays)
	count, err := a.storage.CountMerchantTransactions(ctx, txn.UserID, txn.MerchantName, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count merchant visits: %w", err)
	}
	return count, nil
}

func (a *Analyzer) buildContext(ctx context.Context, txn *model.Transaction, now time.Time, merchantVisits int) (transactionContext, error) {
	txnContext := transactionContext{MerchantVisits: merchantVisits}

	weekStart := summary.DaysAgo(now, 7)
	recent, err := a.storage.GetTransactions(ctx, service.TransactionFilter{
		UserID:       txn.UserID,
		Start:        &weekStart,
		ExpensesOnly: true,
	})
	if err != nil {
		return txnContext, fmt.Errorf("failed to load recent transactions: %w", err)
	}
	total := decimal.Zero
	for i := range recent {
		total = total.Add(decimal.NewFromFloat(recent[i].Amount).Abs())
	}
	txnContext.RecentSpend = total.InexactFloat64()

	similarSince := summary.DaysAgo(now, similarLookbackDays)
	txnContext.SimilarCount, err = a.storage.CountSimilarExpenses(ctx, txn, similarSince, similarLimit)
	if err != nil {
		return txnContext, fmt.Errorf("failed to count similar expenses: %w", err)
	}

	if txn.Category != "" {
		monthStart := summary.MonthsAgo(now, 1)
		txnContext.MonthlyCategory, err = a.storage.SumCategoryExpenses(ctx, txn.UserID, txn.Category, monthStart)
		if err != nil {
			return txnContext, fmt.Errorf("failed to sum category spend: %w", err)
		}
	}

	return txnContext, nil
}

func (a *Analyzer) parseResponse(txn *model.Transaction, now time.Time, response string) (*model.SpendingInsight, error) {
	var parsed analysisResponse
	if err := llm.DecodeStrict(response, &parsed); err != nil {
		return nil, err
	}

	pattern := model.PatternType(parsed.PatternType)
	if !pattern.Valid() {
		return nil, fmt.Errorf("unknown pattern type %q", parsed.PatternType)
	}
	if parsed.ConfidenceScore < 0 || parsed.ConfidenceScore > 100 {
		return nil, fmt.Errorf("confidence score %d out of range", parsed.ConfidenceScore)
	}

	insight := &model.SpendingInsight{
		ID:              uuid.NewString(),
		UserID:          txn.UserID,
		TransactionID:   txn.ID,
		Pattern:         pattern,
		Triggers:        parsed.Triggers,
		Recommendation:  parsed.Recommendation,
		ConfidenceScore: parsed.ConfidenceScore,
		CreatedAt:       now,
	}
	if insight.Triggers == nil {
		insight.Triggers = []string{}
	}
	if parsed.EmotionalContext != "" {
		emotional := model.EmotionalContext(parsed.EmotionalContext)
		if !emotional.Valid() {
			return nil, fmt.Errorf("unknown emotional context %q", parsed.EmotionalContext)
		}
		insight.EmotionalContext = &emotional
	}
	return insight, nil
}
