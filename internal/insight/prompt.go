package insight

import (
	"fmt"
	"strings"

	"github.com/ledgersage/ledgersage/internal/model"
)

const systemPrompt = `You are a behavioral finance analyst classifying a single
purchase. You identify the spending pattern behind it from the surrounding
evidence, not from stereotypes. Respond with JSON only, no other text.`

func buildPrompt(txn *model.Transaction, profile *model.PersonalityProfile, c transactionContext) string {
	var b strings.Builder

	b.WriteString("Classify the spending pattern behind this purchase.\n\n")

	b.WriteString("TRANSACTION:\n")
	fmt.Fprintf(&b, "- Amount: $%.2f\n", txn.AbsAmount())
	fmt.Fprintf(&b, "- Description: %s\n", txn.Name)
	if txn.MerchantName != "" {
		fmt.Fprintf(&b, "- Merchant: %s\n", txn.MerchantName)
	}
	if txn.Category != "" {
		fmt.Fprintf(&b, "- Category: %s\n", txn.Category)
	}
	fmt.Fprintf(&b, "- When: %s at %s\n",
		txn.Date.Weekday(), txn.Date.Format("15:04"))

	b.WriteString("\nSURROUNDING BEHAVIOR:\n")
	fmt.Fprintf(&b, "- Spending in the last 7 days: $%.2f\n", c.RecentSpend)
	fmt.Fprintf(&b, "- Visits to this merchant in the last 7 days: %d\n", c.MerchantVisits)
	fmt.Fprintf(&b, "- Similar purchases in the last 30 days: %d\n", c.SimilarCount)
	if txn.Category != "" {
		fmt.Fprintf(&b, "- %s spending this month: $%.2f\n", txn.Category, c.MonthlyCategory)
	}

	b.WriteString("\nPERSONALITY:\n")
	fmt.Fprintf(&b, "- Type: %s\n", profile.Type)
	fmt.Fprintf(&b, "- Discipline: %d/10\n", profile.DisciplineLevel)
	if len(profile.SpendingTriggers) > 0 {
		fmt.Fprintf(&b, "- Known triggers: %s\n", strings.Join(profile.SpendingTriggers, ", "))
	}

	fmt.Fprintf(&b, "\nPattern must be exactly one of: %s.\n", typeList(patternNames()))
	fmt.Fprintf(&b, "Emotional context, if identifiable, must be one of: %s. Omit it otherwise.\n",
		typeList(emotionNames()))

	b.WriteString(`
Respond with this exact JSON structure:
{
  "pattern_type": "one of the patterns above",
  "emotional_context": "one of the contexts above, or empty string",
  "triggers": ["specific circumstances that led to this purchase"],
  "recommendation": "one actionable suggestion",
  "confidence_score": 0-100
}`)

	return b.String()
}

func patternNames() []string {
	names := make([]string, len(model.PatternTypes))
	for i, p := range model.PatternTypes {
		names[i] = string(p)
	}
	return names
}

func emotionNames() []string {
	names := make([]string, len(model.EmotionalContexts))
	for i, e := range model.EmotionalContexts {
		names[i] = string(e)
	}
	return names
}

func typeList(names []string) string {
	return strings.Join(names, ", ")
}
