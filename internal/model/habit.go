package model

import "time"

// Weeks-per-month factor used for monthly habit cost projection.
const weeksPerMonth = 4.33

// SpendingHabit is a recurring spending behavior tracked per user, one row
// per habit. Positive habits are ones we want streaks of; negative habits
// build streaks by being avoided.
type SpendingHabit struct {
	LastOccurrenceAt *time.Time
	ID               string
	UserID           string
	HabitType        string
	Category         string
	Suggestions      []string
	AverageAmount    float64
	FrequencyPerWeek float64
	CurrentStreak    int
	LongestStreak    int
	Positive         bool
}

// UpdateStreak applies one occurrence-check event. For positive habits an
// occurrence extends the streak; for negative habits avoiding the behavior
// extends it. LongestStreak never decreases.
func (h *SpendingHabit) UpdateStreak(occurred bool, now time.Time) {
	switch {
	case occurred && h.Positive:
		h.CurrentStreak++
		if h.CurrentStreak > h.LongestStreak {
			h.LongestStreak = h.CurrentStreak
		}
	case occurred && !h.Positive:
		h.CurrentStreak = 0
	case !occurred && h.Positive:
		h.CurrentStreak = 0
	default: // negative habit avoided
		h.CurrentStreak++
		if h.CurrentStreak > h.LongestStreak {
			h.LongestStreak = h.CurrentStreak
		}
	}

	if occurred {
		h.LastOccurrenceAt = &now
	}
}

// WeeklyCost is the projected cost of the habit per week.
func (h *SpendingHabit) WeeklyCost() float64 {
	return h.AverageAmount * h.FrequencyPerWeek
}

// MonthlyCost is the projected cost of the habit per month.
func (h *SpendingHabit) MonthlyCost() float64 {
	return h.WeeklyCost() * weeksPerMonth
}

// YearlyCost is the projected cost of the habit per year.
func (h *SpendingHabit) YearlyCost() float64 {
	return h.WeeklyCost() * 52
}

// Strength scores how entrenched the habit is, 0-100, averaging a
// consistency component (frequency relative to daily) and a streak
// component (streak relative to 30 days).
func (h *SpendingHabit) Strength() float64 {
	consistency := h.FrequencyPerWeek / 7.0
	if consistency > 1 {
		consistency = 1
	}
	streak := float64(h.CurrentStreak) / 30.0
	if streak > 1 {
		streak = 1
	}
	return (consistency*100 + streak*100) / 2
}
