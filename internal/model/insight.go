package model

import "time"

// PatternType classifies the behavioral pattern behind an analyzed transaction.
type PatternType string

// Spending pattern constants.
const (
	PatternEmotionalSpending   PatternType = "emotional_spending"
	PatternImpulsePurchase     PatternType = "impulse_purchase"
	PatternStressSpending      PatternType = "stress_spending"
	PatternCelebrationSpending PatternType = "celebration_spending"
	PatternSocialSpending      PatternType = "social_spending"
	PatternSubscriptionCreep   PatternType = "subscription_creep"
	PatternLifestyleInflation  PatternType = "lifestyle_inflation"
	PatternBudgetDrift         PatternType = "budget_drift"
	PatternSeasonal            PatternType = "seasonal_pattern"
	PatternWeekendSplurge      PatternType = "weekend_splurge"
)

// PatternTypes lists every valid pattern in a stable order.
var PatternTypes = []PatternType{
	PatternEmotionalSpending,
	PatternImpulsePurchase,
	PatternStressSpending,
	PatternCelebrationSpending,
	PatternSocialSpending,
	PatternSubscriptionCreep,
	PatternLifestyleInflation,
	PatternBudgetDrift,
	PatternSeasonal,
	PatternWeekendSplurge,
}

// Valid reports whether the pattern type is known.
func (p PatternType) Valid() bool {
	for _, known := range PatternTypes {
		if p == known {
			return true
		}
	}
	return false
}

// EmotionalContext is the emotional state inferred around a transaction.
type EmotionalContext string

// Emotional context constants.
const (
	EmotionHappy        EmotionalContext = "happy"
	EmotionStressed     EmotionalContext = "stressed"
	EmotionBored        EmotionalContext = "bored"
	EmotionAnxious      EmotionalContext = "anxious"
	EmotionExcited      EmotionalContext = "excited"
	EmotionSad          EmotionalContext = "sad"
	EmotionFrustrated   EmotionalContext = "frustrated"
	EmotionCelebratory  EmotionalContext = "celebratory"
	EmotionPeerPressure EmotionalContext = "peer_pressure"
	EmotionRoutine      EmotionalContext = "routine"
)

// EmotionalContexts lists every valid emotional context in a stable order.
var EmotionalContexts = []EmotionalContext{
	EmotionHappy,
	EmotionStressed,
	EmotionBored,
	EmotionAnxious,
	EmotionExcited,
	EmotionSad,
	EmotionFrustrated,
	EmotionCelebratory,
	EmotionPeerPressure,
	EmotionRoutine,
}

// Valid reports whether the emotional context is known. The empty value is
// not valid; callers treat absence as a nil pointer.
func (e EmotionalContext) Valid() bool {
	for _, known := range EmotionalContexts {
		if e == known {
			return true
		}
	}
	return false
}

// InterventionConfidenceThreshold is the minimum confidence at which a
// high-risk pattern warrants a crisis intervention.
const InterventionConfidenceThreshold = 70

// SpendingInsight is a classified behavioral pattern attached to one
// analyzed transaction. Insights are append-only; only acknowledgement
// mutates them.
type SpendingInsight struct {
	CreatedAt        time.Time
	AcknowledgedAt   *time.Time
	EmotionalContext *EmotionalContext
	TransactionID    string
	ID               string
	UserID           string
	Recommendation   string
	Pattern          PatternType
	Triggers         []string
	ConfidenceScore  int // 0-100
	Acknowledged     bool
}

// HighConfidence reports whether the insight clears the intervention
// confidence bar.
func (s *SpendingInsight) HighConfidence() bool {
	return s.ConfidenceScore >= InterventionConfidenceThreshold
}

// RequiresIntervention is derived from stored fields, never trusted from the
// model's own flag: true iff the pattern is one of the three high-risk types
// and confidence is at least 70.
func (s *SpendingInsight) RequiresIntervention() bool {
	switch s.Pattern {
	case PatternEmotionalSpending, PatternImpulsePurchase, PatternStressSpending:
		return s.HighConfidence()
	}
	return false
}
