package coach

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgersage/ledgersage/internal/model"
	"github.com/ledgersage/ledgersage/internal/service"
	"github.com/ledgersage/ledgersage/internal/summary"
)

// streakWindowDays is the lookback for the spending streak; a day counts as
// good when its spending stays within goodDayFactor of the window's daily
// average.
const (
	streakWindowDays = 30
	goodDayFactor    = 1.2
)

func (c *Coach) dailyContext(ctx context.Context, userID string) (map[string]string, error) {
	now := c.clock()

	profile, err := c.storage.GetPersonality(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load personality profile: %w", err)
	}

	dayStart := summary.DaysAgo(now, 1)
	recent, err := c.storage.GetTransactions(ctx, service.TransactionFilter{
		UserID:       userID,
		Start:        &dayStart,
		ExpensesOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent transactions: %w", err)
	}
	recentSpend := decimal.Zero
	for i := range recent {
		recentSpend = recentSpend.Add(decimal.NewFromFloat(recent[i].Amount).Abs())
	}

	budgetStatus, err := c.budgetStatus(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	streak, err := c.spendingStreak(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	sessionContext := map[string]string{
		"recent_spending": recentSpend.StringFixed(2),
		"budget_status":   budgetStatus,
		"spending_streak": strconv.Itoa(streak),
	}
	addProfile(sessionContext, profile)
	return sessionContext, nil
}

func (c *Coach) crisisContext(ctx context.Context, userID string, crisisAmount float64) (map[string]string, error) {
	now := c.clock()

	profile, err := c.storage.GetPersonality(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load personality profile: %w", err)
	}

	since := summary.DaysAgo(now, streakWindowDays)
	insights, err := c.storage.GetRecentInsights(ctx, userID, since, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent insights: %w", err)
	}

	patterns := make([]string, 0, len(insights))
	triggers := make([]string, 0, len(insights))
	for i := range insights {
		patterns = append(patterns, string(insights[i].Pattern))
		if insights[i].EmotionalContext != nil {
			triggers = append(triggers, string(*insights[i].EmotionalContext))
		}
	}

	sessionContext := map[string]string{
		"crisis_spending":    fmt.Sprintf("%.2f", crisisAmount),
		"budget_impact":      c.budgetImpact(),
		"recent_patterns":    strings.Join(patterns, ", "),
		"emotional_triggers": strings.Join(triggers, ", "),
	}
	addProfile(sessionContext, profile)
	return sessionContext, nil
}

func (c *Coach) goalContext(ctx context.Context, userID string, goals []Goal) (map[string]string, error) {
	profile, err := c.storage.GetPersonality(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load personality profile: %w", err)
	}

	described := make([]string, 0, len(goals))
	for _, g := range goals {
		described = append(described, fmt.Sprintf("%s: %.2f/%.2f", g.Name, g.Current, g.Target))
	}

	sessionContext := map[string]string{
		"goals":           strings.Join(described, ", "),
		"recent_progress": c.goalProgress(),
	}
	addProfile(sessionContext, profile)
	return sessionContext, nil
}

func (c *Coach) purchaseContext(ctx context.Context, userID string, amount float64, category, emotionalState string) (map[string]string, error) {
	now := c.clock()

	profile, err := c.storage.GetPersonality(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load personality profile: %w", err)
	}

	monthStart := summary.MonthsAgo(now, 1)
	categorySpend, err := c.storage.SumCategoryExpenses(ctx, userID, category, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to sum category spend: %w", err)
	}

	remaining, err := c.categoryBudgetRemaining(ctx, userID, now, categorySpend)
	if err != nil {
		return nil, err
	}

	sessionContext := map[string]string{
		"purchase_amount":            fmt.Sprintf("%.2f", amount),
		"category":                   category,
		"monthly_category_spending":  fmt.Sprintf("%.2f", categorySpend),
		"budget_remaining":           fmt.Sprintf("%.2f", remaining),
		"emotional_state":            emotionalState,
		"time_of_day":                strconv.Itoa(now.Hour()),
		"day_of_week":                now.Weekday().String(),
	}
	addProfile(sessionContext, profile)
	return sessionContext, nil
}

func addProfile(sessionContext map[string]string, profile *model.PersonalityProfile) {
	if profile == nil {
		return
	}
	sessionContext["personality_type"] = string(profile.Type)
	sessionContext["discipline_level"] = strconv.Itoa(profile.DisciplineLevel)
}

// budgetStatus compares this month's spending against the discretionary
// share of the active budget.
func (c *Coach) budgetStatus(ctx context.Context, userID string, now time.Time) (string, error) {
	budget, err := c.storage.GetActiveRecommendation(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load active budget: %w", err)
	}
	if budget == nil {
		return "No active budget", nil
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	spent, err := c.sumExpenses(ctx, userID, monthStart)
	if err != nil {
		return "", err
	}

	incomeSince := summary.MonthsAgo(now, 1)
	income, err := c.sumIncome(ctx, userID, incomeSince)
	if err != nil {
		return "", err
	}
	if income <= 0 {
		return "Unable to calculate", nil
	}

	budgetAmount := income * budget.DesiresAllocation / 100
	remaining := budgetAmount - spent
	if remaining > 0 {
		return fmt.Sprintf("%.0f%% budget remaining", remaining/budgetAmount*100), nil
	}
	return fmt.Sprintf("%.0f%% over budget", -remaining/budgetAmount*100), nil
}

// spendingStreak counts consecutive good days ending today. A streak over an
// empty window is the whole window: no spending is as good as it gets.
func (c *Coach) spendingStreak(ctx context.Context, userID string, now time.Time) (int, error) {
	windowStart := summary.DaysAgo(now, streakWindowDays)
	transactions, err := c.storage.GetTransactions(ctx, service.TransactionFilter{
		UserID:       userID,
		Start:        &windowStart,
		ExpensesOnly: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load streak window: %w", err)
	}

	daily := make(map[string]decimal.Decimal)
	for i := range transactions {
		day := transactions[i].Date.Format("2006-01-02")
		daily[day] = daily[day].Add(decimal.NewFromFloat(transactions[i].Amount).Abs())
	}
	if len(daily) == 0 {
		return streakWindowDays, nil
	}

	total := decimal.Zero
	for _, amount := range daily {
		total = total.Add(amount)
	}
	average := total.Div(decimal.NewFromInt(int64(len(daily))))
	threshold := average.Mul(decimal.NewFromFloat(goodDayFactor))

	streak := 0
	for d := 0; d < streakWindowDays; d++ {
		day := now.AddDate(0, 0, -d).Format("2006-01-02")
		if daily[day].GreaterThan(threshold) {
			break
		}
		streak++
	}
	return streak, nil
}

func (c *Coach) sumExpenses(ctx context.Context, userID string, since time.Time) (float64, error) {
	transactions, err := c.storage.GetTransactions(ctx, service.TransactionFilter{
		UserID:       userID,
		Start:        &since,
		ExpensesOnly: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load expenses: %w", err)
	}
	total := decimal.Zero
	for i := range transactions {
		total = total.Add(decimal.NewFromFloat(transactions[i].Amount).Abs())
	}
	return total.InexactFloat64(), nil
}

func (c *Coach) sumIncome(ctx context.Context, userID string, since time.Time) (float64, error) {
	transactions, err := c.storage.GetTransactions(ctx, service.TransactionFilter{
		UserID: userID,
		Start:  &since,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load income: %w", err)
	}
	total := decimal.Zero
	for i := range transactions {
		if !transactions[i].IsExpense() {
			total = total.Add(decimal.NewFromFloat(transactions[i].Amount))
		}
	}
	return total.InexactFloat64(), nil
}

// categoryBudgetRemaining estimates how much of the discretionary budget is
// left after this month's category spending.
func (c *Coach) categoryBudgetRemaining(ctx context.Context, userID string, now time.Time, categorySpend float64) (float64, error) {
	budget, err := c.storage.GetActiveRecommendation(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load active budget: %w", err)
	}
	if budget == nil {
		return 0, nil
	}

	incomeSince := summary.MonthsAgo(now, 1)
	income, err := c.sumIncome(ctx, userID, incomeSince)
	if err != nil {
		return 0, err
	}
	if income <= 0 {
		return 0, nil
	}
	return income*budget.DesiresAllocation/100 - categorySpend, nil
}

// budgetImpact sizes how badly a crisis spend dents the budget.
// TODO: compute from the active budget once crisis spends carry a category.
func (c *Coach) budgetImpact() string {
	return "Moderate impact"
}

// goalProgress summarizes recent goal movement.
// TODO: derive from goal contribution history once goals are persisted.
func (c *Coach) goalProgress() string {
	return "Making steady progress"
}
