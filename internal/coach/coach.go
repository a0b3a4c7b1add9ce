// Package coach runs the conversational coaching scenarios. Every scenario
// assembles a context snapshot, asks the reasoning capability for a short
// coaching message, and persists the exchange. Coaching never fails outright:
// when the capability is unavailable a canned supportive message is used and
// the session is still recorded.
package coach

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgersage/ledgersage/internal/llm"
	"github.com/ledgersage/ledgersage/internal/model"
	"github.com/ledgersage/ledgersage/internal/service"
)

const (
	temperature = 0.7
	maxTokens   = 800
)

// Goal is a savings target supplied by the caller for goal reviews.
type Goal struct {
	Name    string
	Target  float64
	Current float64
}

// Coach orchestrates coaching sessions for one user at a time.
type Coach struct {
	storage service.Storage
	client  llm.Client
	logger  *slog.Logger
	clock   func() time.Time
}

// NewCoach creates a coaching orchestrator.
func NewCoach(storage service.Storage, client llm.Client, logger *slog.Logger) *Coach {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coach{
		storage: storage,
		client:  client,
		logger:  logger,
		clock:   time.Now,
	}
}

// DailyCheckin runs the daily encouragement scenario.
func (c *Coach) DailyCheckin(ctx context.Context, userID string) (*model.CoachingSession, model.Outcome, error) {
	sessionContext, err := c.dailyContext(ctx, userID)
	if err != nil {
		return nil, model.Outcome{}, err
	}
	return c.run(ctx, userID, model.SessionDailyCheckin, sessionContext)
}

// CrisisIntervention runs the supportive scenario triggered by a high-risk
// spending insight. crisisAmount is the spending that tripped the alarm.
func (c *Coach) CrisisIntervention(ctx context.Context, userID string, crisisAmount float64) (*model.CoachingSession, model.Outcome, error) {
	sessionContext, err := c.crisisContext(ctx, userID, crisisAmount)
	if err != nil {
		return nil, model.Outcome{}, err
	}
	return c.run(ctx, userID, model.SessionCrisisIntervention, sessionContext)
}

// GoalReview runs the progress review scenario over caller-supplied goals.
func (c *Coach) GoalReview(ctx context.Context, userID string, goals []Goal) (*model.CoachingSession, model.Outcome, error) {
	sessionContext, err := c.goalContext(ctx, userID, goals)
	if err != nil {
		return nil, model.Outcome{}, err
	}
	return c.run(ctx, userID, model.SessionGoalReview, sessionContext)
}

// PurchaseGuidance runs the pre-purchase reflection scenario.
// emotionalState is the user's self-reported mood and may be empty.
func (c *Coach) PurchaseGuidance(ctx context.Context, userID string, amount float64, category, emotionalState string) (*model.CoachingSession, model.Outcome, error) {
	sessionContext, err := c.purchaseContext(ctx, userID, amount, category, emotionalState)
	if err != nil {
		return nil, model.Outcome{}, err
	}
	return c.run(ctx, userID, model.SessionPurchaseGuidance, sessionContext)
}

// LastDailyCheckinToday reports whether the user already had a daily
// check-in on the current calendar day. Callers use it to keep scheduled
// check-ins idempotent.
func (c *Coach) LastDailyCheckinToday(ctx context.Context, userID string) (bool, error) {
	latest, err := c.storage.GetLatestSession(ctx, userID, model.SessionDailyCheckin)
	if err != nil {
		return false, fmt.Errorf("failed to load latest check-in: %w", err)
	}
	if latest == nil {
		return false, nil
	}
	now := c.clock()
	y1, m1, d1 := latest.CreatedAt.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2, nil
}

// run executes one scenario: completion, fallback on failure, persistence.
func (c *Coach) run(ctx context.Context, userID string, sessionType model.SessionType, sessionContext map[string]string) (*model.CoachingSession, model.Outcome, error) {
	outcome := model.Success()

	response, err := c.client.Complete(ctx, llm.Request{
		System:      systemPrompt(sessionType),
		Prompt:      buildPrompt(sessionType, sessionContext),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil || response == "" {
		c.logger.Warn("Coaching completion failed, using canned response",
			"user_id", userID,
			"session_type", sessionType,
			"error", err)
		response = fallbackResponse(sessionType)
		outcome = model.Fallback("completion failed")
	}

	session := &model.CoachingSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      sessionType,
		Context:   sessionContext,
		Response:  response,
		CreatedAt: c.clock(),
	}
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, model.Outcome{}, fmt.Errorf("failed to save coaching session: %w", err)
	}

	c.logger.Info("Coaching session recorded",
		"user_id", userID,
		"session_type", sessionType,
		"outcome", outcome.Status)
	return session, outcome, nil
}
