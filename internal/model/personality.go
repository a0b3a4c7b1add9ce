package model

import "time"

// PersonalityType is a behavioral archetype inferred from spending patterns.
type PersonalityType string

// Personality archetypes based on financial psychology research.
const (
	PersonalityConservativeSaver PersonalityType = "conservative_saver"
	PersonalityBalancedPlanner   PersonalityType = "balanced_planner"
	PersonalityGrowthSeeker      PersonalityType = "growth_seeker"
	PersonalityImpulsiveSpender  PersonalityType = "impulsive_spender"
	PersonalityAnxiousAvoider    PersonalityType = "anxious_avoider"
	PersonalitySocialSpender     PersonalityType = "social_spender"
	PersonalityGoalOriented      PersonalityType = "goal_oriented"
	PersonalityLifestyleFocused  PersonalityType = "lifestyle_focused"
)

// PersonalityTypes lists every valid archetype in a stable order, for prompt
// construction and validation.
var PersonalityTypes = []PersonalityType{
	PersonalityConservativeSaver,
	PersonalityBalancedPlanner,
	PersonalityGrowthSeeker,
	PersonalityImpulsiveSpender,
	PersonalityAnxiousAvoider,
	PersonalitySocialSpender,
	PersonalityGoalOriented,
	PersonalityLifestyleFocused,
}

// Valid reports whether the personality type is one of the known archetypes.
func (p PersonalityType) Valid() bool {
	for _, known := range PersonalityTypes {
		if p == known {
			return true
		}
	}
	return false
}

// FreshnessWindow is how long a personality analysis stays usable before
// callers must re-infer it.
const FreshnessWindow = 7 * 24 * time.Hour

// PersonalityProfile is the inferred financial personality for a user.
// At most one profile exists per user; re-inference overwrites it.
type PersonalityProfile struct {
	LastAnalyzedAt       time.Time
	LifestylePreferences map[string]string
	UserID               string
	Summary              string
	Type                 PersonalityType
	SpendingTriggers     []string
	FinancialTraumas     []string
	RiskTolerance        int // 1-10
	DisciplineLevel      int // 1-10
	ConfidenceScore      int // 0-100
}

// Current reports whether the profile was analyzed recently enough to be
// relied on. A profile analyzed exactly FreshnessWindow ago is still current.
func (p *PersonalityProfile) Current(now time.Time) bool {
	if p == nil || p.LastAnalyzedAt.IsZero() {
		return false
	}
	return now.Sub(p.LastAnalyzedAt) <= FreshnessWindow
}

// RiskAverse reports whether the user sits at the cautious end of the scale.
func (p *PersonalityProfile) RiskAverse() bool {
	return p.RiskTolerance <= 3
}

// HighDiscipline reports whether the user reliably follows plans.
func (p *PersonalityProfile) HighDiscipline() bool {
	return p.DisciplineLevel >= 7
}

// NeedsFrequentCoaching reports whether the user benefits from more
// check-ins than the default cadence.
func (p *PersonalityProfile) NeedsFrequentCoaching() bool {
	if p.DisciplineLevel <= 4 {
		return true
	}
	for _, trigger := range p.SpendingTriggers {
		if trigger == "emotional_spending" {
			return true
		}
	}
	return false
}

// DefaultProfile returns the honest fallback profile persisted when the
// reasoning capability is unavailable or returns garbage. It is a usable
// middle-of-the-road profile, distinguishable from a real analysis by its
// summary marker.
func DefaultProfile(userID string, now time.Time) *PersonalityProfile {
	return &PersonalityProfile{
		UserID:               userID,
		Type:                 PersonalityBalancedPlanner,
		RiskTolerance:        5,
		DisciplineLevel:      5,
		SpendingTriggers:     []string{},
		FinancialTraumas:     []string{},
		LifestylePreferences: map[string]string{},
		ConfidenceScore:      50,
		Summary:              "Default analysis - insufficient data for AI analysis",
		LastAnalyzedAt:       now,
	}
}
