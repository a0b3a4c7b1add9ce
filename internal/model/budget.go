package model

import (
	"fmt"
	"time"
)

// RecommendationType identifies one of the three budget archetypes.
type RecommendationType string

// Budget archetype constants.
const (
	RecommendationConservative RecommendationType = "conservative"
	RecommendationBalanced     RecommendationType = "balanced"
	RecommendationAggressive   RecommendationType = "aggressive"
)

// RecommendationTypes lists the archetypes in generation order.
var RecommendationTypes = []RecommendationType{
	RecommendationConservative,
	RecommendationBalanced,
	RecommendationAggressive,
}

// Valid reports whether the recommendation type is known.
func (r RecommendationType) Valid() bool {
	switch r {
	case RecommendationConservative, RecommendationBalanced, RecommendationAggressive:
		return true
	}
	return false
}

// Allocation sum tolerance for AI-refined recommendations. The baseline
// calculator always produces exact sums; the band absorbs model rounding.
const (
	AllocationSumMin = 99.0
	AllocationSumMax = 101.0
)

// BudgetRecommendation is one candidate allocation of monthly income across
// mandatory spending, discretionary desires, and investment. A user holds a
// batch of three (one per type); at most one is active at a time.
type BudgetRecommendation struct {
	CreatedAt            time.Time
	AdoptedAt            *time.Time
	CategoryBreakdown    map[string]float64
	ID                   string
	UserID               string
	Rationale            string
	Type                 RecommendationType
	MandatoryAllocation  float64
	DesiresAllocation    float64
	InvestmentAllocation float64
	ConfidenceScore      float64
	Active               bool
}

// TotalAllocation returns the sum of the three allocation percentages.
func (b *BudgetRecommendation) TotalAllocation() float64 {
	return b.MandatoryAllocation + b.DesiresAllocation + b.InvestmentAllocation
}

// Validate checks structural and numeric invariants.
func (b *BudgetRecommendation) Validate() error {
	if !b.Type.Valid() {
		return fmt.Errorf("invalid recommendation type: %s", b.Type)
	}
	for name, v := range map[string]float64{
		"mandatory":  b.MandatoryAllocation,
		"desires":    b.DesiresAllocation,
		"investment": b.InvestmentAllocation,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s allocation must be between 0 and 100, got %.2f", name, v)
		}
	}
	if b.ConfidenceScore < 0 || b.ConfidenceScore > 100 {
		return fmt.Errorf("confidence score must be between 0 and 100, got %.2f", b.ConfidenceScore)
	}
	total := b.TotalAllocation()
	if total < AllocationSumMin || total > AllocationSumMax {
		return fmt.Errorf("allocations must sum to 100%% (currently %.2f%%)", total)
	}
	return nil
}
