package personality

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgersage/ledgersage/internal/model"
	"github.com/ledgersage/ledgersage/internal/summary"
)

const systemPrompt = `You are a financial psychologist analyzing spending behavior.
You identify personality archetypes from transaction patterns, not from
demographics or assumptions. Respond with JSON only, no other text.`

func buildPrompt(s summary.FinancialSummary) string {
	var b strings.Builder

	b.WriteString("Analyze this person's financial personality from six months of transaction data.\n\n")

	fmt.Fprintf(&b, "SPENDING OVERVIEW:\n")
	fmt.Fprintf(&b, "- Total spending: $%s across %d transactions\n",
		s.TotalSpending.StringFixed(2), s.TransactionCount)
	fmt.Fprintf(&b, "- Average transaction: $%s, median: $%s\n",
		s.Amounts.Average.StringFixed(2), s.Amounts.Median.StringFixed(2))
	fmt.Fprintf(&b, "- Large purchases (over 3x average): %d\n", s.Amounts.LargePurchases)
	fmt.Fprintf(&b, "- Small frequent purchases (under $50): %d\n", s.Amounts.SmallFrequent)

	b.WriteString("\nTOP CATEGORIES:\n")
	for _, c := range s.Categories {
		fmt.Fprintf(&b, "- %s: $%s\n", c.Category, c.Total.StringFixed(2))
	}

	b.WriteString("\nFREQUENT MERCHANTS:\n")
	for _, m := range s.Merchants {
		fmt.Fprintf(&b, "- %s: %d visits, $%s total\n", m.Merchant, m.Count, m.Total.StringFixed(2))
	}

	b.WriteString("\nSPENDING BY WEEKDAY:\n")
	writeSortedAmounts(&b, s.WeekdaySpending)

	b.WriteString("\nMONTHLY TREND:\n")
	writeSortedAmounts(&b, s.MonthlySpending)

	b.WriteString("\nClassify the personality as exactly one of: ")
	b.WriteString(personalityTypeList())
	b.WriteString(".\n\n")

	b.WriteString(`Respond with this exact JSON structure:
{
  "personality_type": "one of the types above",
  "risk_tolerance": 1-10,
  "discipline_level": 1-10,
  "spending_triggers": ["situations that prompt spending"],
  "financial_traumas": ["past financial stressors evident in the data, if any"],
  "lifestyle_preferences": {"area": "observed preference"},
  "confidence_score": 0-100,
  "summary": "2-3 sentence personality summary"
}`)

	return b.String()
}

func personalityTypeList() string {
	names := make([]string, len(model.PersonalityTypes))
	for i, t := range model.PersonalityTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func writeSortedAmounts(b *strings.Builder, amounts map[string]decimal.Decimal) {
	keys := make([]string, 0, len(amounts))
	for k := range amounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: $%s\n", k, amounts[k].StringFixed(2))
	}
}
