// Package task wires the pipeline stages into the two background jobs the
// application runs: the periodic per-user refresh and the per-transaction
// insight pass. The refresh propagates errors so schedulers can retry it;
// the insight pass swallows them, because one bad transaction must never
// stall ingestion.
package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ledgersage/ledgersage/internal/budget"
	"github.com/ledgersage/ledgersage/internal/coach"
	"github.com/ledgersage/ledgersage/internal/insight"
	"github.com/ledgersage/ledgersage/internal/llm"
	"github.com/ledgersage/ledgersage/internal/model"
	"github.com/ledgersage/ledgersage/internal/ownership"
	"github.com/ledgersage/ledgersage/internal/personality"
	"github.com/ledgersage/ledgersage/internal/service"
)

// Runner executes the pipeline jobs.
type Runner struct {
	storage     service.Storage
	personality *personality.Engine
	budget      *budget.Engine
	insight     *insight.Analyzer
	coach       *coach.Coach
	resolver    *ownership.Resolver
	logger      *slog.Logger
}

// NewRunner wires a complete pipeline on top of one storage and one
// reasoning client.
func NewRunner(storage service.Storage, client llm.Client, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		storage:     storage,
		personality: personality.NewEngine(storage, client, logger),
		budget:      budget.NewEngine(storage, client, logger),
		insight:     insight.NewAnalyzer(storage, client, logger),
		coach:       coach.NewCoach(storage, client, logger),
		resolver:    ownership.NewResolver(storage),
		logger:      logger,
	}
}

// Coach exposes the coaching orchestrator for interactive scenarios.
func (r *Runner) Coach() *coach.Coach {
	return r.coach
}

// Budget exposes the recommendation engine for on-demand generation.
func (r *Runner) Budget() *budget.Engine {
	return r.budget
}

// Insight exposes the transaction analyzer, used by backfills.
func (r *Runner) Insight() *insight.Analyzer {
	return r.insight
}

// PersonalityAndBudgetRefresh re-infers the user's personality, regenerates
// their budget recommendations, and runs the daily check-in once per day.
// Errors propagate so a scheduler can retry the whole refresh.
func (r *Runner) PersonalityAndBudgetRefresh(ctx context.Context, userID string) error {
	profile, outcome, err := r.personality.Infer(ctx, userID)
	if err != nil {
		return fmt.Errorf("personality inference failed: %w", err)
	}
	if outcome.Status == model.OutcomeSkipped {
		r.logger.Info("Refresh skipped",
			"user_id", userID,
			"reason", outcome.Reason)
		return nil
	}

	if _, budgetOutcome, err := r.budget.Generate(ctx, userID); err != nil {
		return fmt.Errorf("budget generation failed: %w", err)
	} else if budgetOutcome.Status == model.OutcomeSkipped {
		r.logger.Warn("Budget generation skipped during refresh",
			"user_id", userID,
			"reason", budgetOutcome.Reason)
	}

	checkedIn, err := r.coach.LastDailyCheckinToday(ctx, userID)
	if err != nil {
		return fmt.Errorf("check-in lookup failed: %w", err)
	}
	if checkedIn {
		r.logger.Info("Daily check-in already ran today", "user_id", userID)
		return nil
	}
	if _, _, err := r.coach.DailyCheckin(ctx, userID); err != nil {
		return fmt.Errorf("daily check-in failed: %w", err)
	}

	r.logger.Info("Refresh complete",
		"user_id", userID,
		"personality_type", profile.Type)
	return nil
}

// TransactionInsight analyzes one ingested transaction and escalates
// high-risk findings to crisis coaching plus an urgent notification. All
// failures are logged and swallowed.
func (r *Runner) TransactionInsight(ctx context.Context, transactionID string) {
	txn, err := r.storage.GetTransactionByID(ctx, transactionID)
	if err != nil {
		r.logger.Error("Insight task could not load transaction",
			"transaction_id", transactionID,
			"error", err)
		return
	}

	userID, ok := r.resolveUser(ctx, txn)
	if !ok {
		return
	}
	txn.UserID = userID

	result, outcome, err := r.insight.Analyze(ctx, txn)
	if err != nil {
		r.logger.Error("Insight task failed",
			"transaction_id", transactionID,
			"error", err)
		return
	}
	if outcome.Status != model.OutcomeSuccess {
		r.logger.Debug("Insight task produced nothing",
			"transaction_id", transactionID,
			"status", outcome.Status,
			"reason", outcome.Reason)
		return
	}

	if result.RequiresIntervention() {
		r.escalate(ctx, txn, result)
	}
}

func (r *Runner) resolveUser(ctx context.Context, txn *model.Transaction) (string, bool) {
	if txn.AccountID != "" {
		resolution, err := r.resolver.Resolve(ctx, txn.AccountID)
		if err != nil {
			r.logger.Error("Insight task could not resolve account owner",
				"transaction_id", txn.ID,
				"account_id", txn.AccountID,
				"error", err)
			return "", false
		}
		switch resolution.Status {
		case ownership.StatusFound:
			return resolution.UserID, true
		case ownership.StatusAmbiguous:
			r.logger.Warn("Insight task skipping shared account",
				"transaction_id", txn.ID,
				"account_id", txn.AccountID,
				"owners", len(resolution.Owners))
			return "", false
		}
	}

	if txn.UserID != "" {
		return txn.UserID, true
	}
	r.logger.Warn("Insight task has no owner for transaction", "transaction_id", txn.ID)
	return "", false
}

// escalate runs crisis coaching and queues an urgent notification for an
// insight that crossed the intervention bar. Escalation failures are logged;
// the insight itself is already saved.
func (r *Runner) escalate(ctx context.Context, txn *model.Transaction, result *model.SpendingInsight) {
	if _, _, err := r.coach.CrisisIntervention(ctx, txn.UserID, txn.AbsAmount()); err != nil {
		r.logger.Error("Crisis coaching failed",
			"transaction_id", txn.ID,
			"error", err)
	}

	message := "A recent purchase matched a pattern worth a closer look."
	if txn.Category != "" {
		message = fmt.Sprintf("A recent %s purchase matched a pattern worth a closer look.", txn.Category)
	}
	notification := &model.Notification{
		ID:       uuid.NewString(),
		UserID:   txn.UserID,
		Type:     model.NotifyCrisisAlert,
		Title:    "Let's pause for a moment",
		Message:  message,
		Priority: model.PriorityUrgent,
		ActionData: map[string]string{
			"insight_id":     result.ID,
			"transaction_id": txn.ID,
		},
	}
	if err := r.storage.SaveNotification(ctx, notification); err != nil {
		r.logger.Error("Crisis notification failed",
			"transaction_id", txn.ID,
			"error", err)
	}
}
