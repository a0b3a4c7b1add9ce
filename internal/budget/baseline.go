package budget

import (
	"github.com/google/uuid"

	"github.com/ledgersage/ledgersage/internal/model"
)

// baselineConfidence is the confidence attached to rule-based
// recommendations; they are sound but not personalized beyond the profile.
const baselineConfidence = 75

// FinancialData is the three-month financial picture the recommendation
// engine works from. All figures are monthly.
type FinancialData struct {
	MonthlyIncome   float64
	MonthlyExpenses float64
	SavingsRate     float64 // percent, one decimal place
	DebtPayments    float64
}

// HasDebt reports whether debt-service payments showed up last month.
func (d FinancialData) HasDebt() bool {
	return d.DebtPayments > 0
}

// BaselineRecommendations computes the three rule-based budget archetypes.
// Each allocation triple sums to exactly 100. The rules bend toward the
// user's profile: debt load raises the conservative mandatory share, high
// risk tolerance shifts the balanced plan toward investment, and low
// discipline softens the aggressive plan.
func BaselineRecommendations(profile *model.PersonalityProfile, data FinancialData) []model.BudgetRecommendation {
	return []model.BudgetRecommendation{
		conservativeBaseline(profile, data),
		balancedBaseline(profile),
		aggressiveBaseline(profile),
	}
}

func conservativeBaseline(profile *model.PersonalityProfile, data FinancialData) model.BudgetRecommendation {
	mandatory := 65.0
	if data.HasDebt() {
		mandatory += 10
	}
	if mandatory > 80 {
		mandatory = 80
	}

	remaining := 100 - mandatory
	desires := remaining * 0.3
	if desires > 15 {
		desires = 15
	}
	investment := 100 - mandatory - desires

	return newBaseline(profile.UserID, model.RecommendationConservative,
		mandatory, desires, investment,
		"Emphasizes financial security with a larger mandatory cushion and steady debt reduction")
}

func balancedBaseline(profile *model.PersonalityProfile) model.BudgetRecommendation {
	mandatory, desires, investment := 55.0, 25.0, 20.0
	if profile.RiskTolerance > 6 {
		desires, investment = 20.0, 25.0
	}

	return newBaseline(profile.UserID, model.RecommendationBalanced,
		mandatory, desires, investment,
		"Balances present enjoyment against future growth based on your spending personality")
}

func aggressiveBaseline(profile *model.PersonalityProfile) model.BudgetRecommendation {
	mandatory, desires, investment := 45.0, 20.0, 35.0
	if profile.DisciplineLevel < 6 {
		mandatory, investment = 55.0, 25.0
	}

	return newBaseline(profile.UserID, model.RecommendationAggressive,
		mandatory, desires, investment,
		"Maximizes investment allocation for long-term growth")
}

func newBaseline(userID string, recType model.RecommendationType, mandatory, desires, investment float64, rationale string) model.BudgetRecommendation {
	return model.BudgetRecommendation{
		ID:                   uuid.NewString(),
		UserID:               userID,
		Type:                 recType,
		MandatoryAllocation:  mandatory,
		DesiresAllocation:    desires,
		InvestmentAllocation: investment,
		ConfidenceScore:      baselineConfidence,
		Rationale:            rationale,
		CategoryBreakdown:    map[string]float64{},
	}
}
