package coach

import (
	"fmt"
	"strings"

	"github.com/ledgersage/ledgersage/internal/model"
)

const baseSystemPrompt = `You are a supportive, empathetic financial coach helping users build better money habits.

Your personality:
- Encouraging and non-judgmental
- Practical and actionable
- Understanding of human psychology
- Focused on small, sustainable changes
- Celebrates progress, no matter how small

Guidelines:
- Keep responses concise (2-3 sentences max for daily checkins)
- Use encouraging, friendly language
- Provide specific, actionable advice
- Reference their personality type when relevant
- Acknowledge emotions and stress around money
- Focus on progress, not perfection`

func systemPrompt(sessionType model.SessionType) string {
	switch sessionType {
	case model.SessionDailyCheckin:
		return baseSystemPrompt + "\nFor daily check-ins: Provide a brief, encouraging message with one small actionable tip."
	case model.SessionCrisisIntervention:
		return baseSystemPrompt + "\nFor crisis intervention: Be extra supportive, help them pause and reflect, offer immediate coping strategies."
	case model.SessionGoalReview:
		return baseSystemPrompt + "\nFor goal reviews: Celebrate progress, adjust expectations if needed, provide motivation to continue."
	case model.SessionPurchaseGuidance:
		return baseSystemPrompt + "\nFor purchase guidance: Help them pause and consider if this aligns with their values and budget."
	default:
		return baseSystemPrompt
	}
}

func buildPrompt(sessionType model.SessionType, c map[string]string) string {
	var b strings.Builder

	switch sessionType {
	case model.SessionDailyCheckin:
		fmt.Fprintf(&b, "Daily check-in for a %s personality:\n", c["personality_type"])
		fmt.Fprintf(&b, "- Recent spending: $%s\n", c["recent_spending"])
		fmt.Fprintf(&b, "- Budget status: %s\n", c["budget_status"])
		fmt.Fprintf(&b, "- Spending streak: %s days\n", c["spending_streak"])
		fmt.Fprintf(&b, "- Discipline level: %s/10\n", c["discipline_level"])
		b.WriteString("\nProvide an encouraging daily message with one actionable tip.")
	case model.SessionCrisisIntervention:
		fmt.Fprintf(&b, "Crisis intervention needed for a %s personality:\n", c["personality_type"])
		fmt.Fprintf(&b, "- Crisis spending: $%s\n", c["crisis_spending"])
		fmt.Fprintf(&b, "- Budget impact: %s\n", c["budget_impact"])
		fmt.Fprintf(&b, "- Recent patterns: %s\n", c["recent_patterns"])
		fmt.Fprintf(&b, "- Emotional triggers: %s\n", c["emotional_triggers"])
		fmt.Fprintf(&b, "- Discipline level: %s/10\n", c["discipline_level"])
		b.WriteString("\nProvide supportive guidance to help them pause and recover.")
	case model.SessionGoalReview:
		fmt.Fprintf(&b, "Goal review for a %s personality:\n", c["personality_type"])
		fmt.Fprintf(&b, "- Goals: %s\n", c["goals"])
		fmt.Fprintf(&b, "- Recent progress: %s\n", c["recent_progress"])
		b.WriteString("\nProvide encouraging feedback and next steps.")
	case model.SessionPurchaseGuidance:
		fmt.Fprintf(&b, "Purchase guidance for a %s personality:\n", c["personality_type"])
		fmt.Fprintf(&b, "- Purchase: $%s in %s\n", c["purchase_amount"], c["category"])
		fmt.Fprintf(&b, "- Monthly category spending: $%s\n", c["monthly_category_spending"])
		fmt.Fprintf(&b, "- Budget remaining: $%s\n", c["budget_remaining"])
		fmt.Fprintf(&b, "- Emotional state: %s\n", c["emotional_state"])
		fmt.Fprintf(&b, "- Time: %s:00 on %s\n", c["time_of_day"], c["day_of_week"])
		b.WriteString("\nHelp them make a mindful decision about this purchase.")
	default:
		fmt.Fprintf(&b, "Coaching session (%s) for a %s personality.\n", sessionType, c["personality_type"])
		b.WriteString("Provide a brief supportive message.")
	}

	return b.String()
}

func fallbackResponse(sessionType model.SessionType) string {
	switch sessionType {
	case model.SessionDailyCheckin:
		return "Great job checking in today! Remember, small consistent actions lead to big financial wins. What's one thing you can do today to move closer to your goals?"
	case model.SessionCrisisIntervention:
		return "I understand this feels overwhelming right now. Take a deep breath. Every financial setback is temporary and a chance to learn. What's one small step you can take right now to feel more in control?"
	case model.SessionGoalReview:
		return "Progress isn't always linear, and that's okay! Every step forward, no matter how small, is worth celebrating. What's working well for you right now?"
	default:
		return "You're doing great by staying engaged with your finances. Keep up the good work!"
	}
}
