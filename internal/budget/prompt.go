package budget

import (
	"fmt"
	"strings"

	"github.com/ledgersage/ledgersage/internal/model"
)

const systemPrompt = `You are a financial planner refining budget allocations.
You adjust rule-based starting points to fit a specific person's income,
obligations, and personality. Respond with JSON only, no other text.`

func buildPrompt(profile *model.PersonalityProfile, data FinancialData, baseline []model.BudgetRecommendation) string {
	var b strings.Builder

	b.WriteString("Refine these three budget recommendations for this person.\n\n")

	b.WriteString("FINANCIAL PICTURE (monthly):\n")
	fmt.Fprintf(&b, "- Income: $%.2f\n", data.MonthlyIncome)
	fmt.Fprintf(&b, "- Expenses: $%.2f\n", data.MonthlyExpenses)
	fmt.Fprintf(&b, "- Savings rate: %.1f%%\n", data.SavingsRate)
	fmt.Fprintf(&b, "- Debt payments last month: $%.2f\n", data.DebtPayments)

	b.WriteString("\nPERSONALITY:\n")
	fmt.Fprintf(&b, "- Type: %s\n", profile.Type)
	fmt.Fprintf(&b, "- Risk tolerance: %d/10\n", profile.RiskTolerance)
	fmt.Fprintf(&b, "- Discipline: %d/10\n", profile.DisciplineLevel)
	if len(profile.SpendingTriggers) > 0 {
		fmt.Fprintf(&b, "- Spending triggers: %s\n", strings.Join(profile.SpendingTriggers, ", "))
	}

	b.WriteString("\nRULE-BASED STARTING POINTS:\n")
	for _, rec := range baseline {
		fmt.Fprintf(&b, "- %s: mandatory %.0f%%, desires %.0f%%, investment %.0f%%\n",
			rec.Type, rec.MandatoryAllocation, rec.DesiresAllocation, rec.InvestmentAllocation)
	}

	b.WriteString(`
Adjust each plan's percentages and explain why in its rationale. Percentages
within each plan must sum to 100. Respond with this exact JSON structure:
{
  "conservative": {
    "mandatory_allocation": 0-100,
    "desires_allocation": 0-100,
    "investment_allocation": 0-100,
    "confidence_score": 0-100,
    "rationale": "why this fits",
    "category_breakdown": {"category": percentage}
  },
  "balanced": { same fields },
  "aggressive": { same fields }
}`)

	return b.String()
}
