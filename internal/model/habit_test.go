package model

import (
	"testing"
	"time"
)

func TestUpdateStreak(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		positive        bool
		occurred        bool
		startStreak     int
		startLongest    int
		wantStreak      int
		wantLongest     int
		wantLastUpdated bool
	}{
		{
			name:     "positive habit performed extends the streak",
			positive: true, occurred: true,
			startStreak: 4, startLongest: 4,
			wantStreak: 5, wantLongest: 5,
			wantLastUpdated: true,
		},
		{
			name:     "positive habit missed resets the streak",
			positive: true, occurred: false,
			startStreak: 4, startLongest: 7,
			wantStreak: 0, wantLongest: 7,
		},
		{
			name:     "negative habit indulged resets the streak",
			positive: false, occurred: true,
			startStreak: 9, startLongest: 9,
			wantStreak: 0, wantLongest: 9,
			wantLastUpdated: true,
		},
		{
			name:     "negative habit avoided extends the streak",
			positive: false, occurred: false,
			startStreak: 2, startLongest: 2,
			wantStreak: 3, wantLongest: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			habit := SpendingHabit{
				Positive:      tt.positive,
				CurrentStreak: tt.startStreak,
				LongestStreak: tt.startLongest,
			}
			habit.UpdateStreak(tt.occurred, now)

			if habit.CurrentStreak != tt.wantStreak {
				t.Errorf("CurrentStreak = %d, want %d", habit.CurrentStreak, tt.wantStreak)
			}
			if habit.LongestStreak != tt.wantLongest {
				t.Errorf("LongestStreak = %d, want %d", habit.LongestStreak, tt.wantLongest)
			}
			if tt.wantLastUpdated {
				if habit.LastOccurrenceAt == nil || !habit.LastOccurrenceAt.Equal(now) {
					t.Errorf("LastOccurrenceAt = %v, want %v", habit.LastOccurrenceAt, now)
				}
			} else if habit.LastOccurrenceAt != nil {
				t.Errorf("LastOccurrenceAt = %v, want nil", habit.LastOccurrenceAt)
			}
		})
	}
}

func TestLongestStreakNeverDecreases(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	habit := SpendingHabit{Positive: true}

	events := []bool{true, true, true, false, true, false, true, true}
	longest := 0
	for i, occurred := range events {
		habit.UpdateStreak(occurred, now.AddDate(0, 0, i))
		if habit.LongestStreak < longest {
			t.Fatalf("LongestStreak dropped from %d to %d after event %d", longest, habit.LongestStreak, i)
		}
		longest = habit.LongestStreak
	}

	if habit.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", habit.LongestStreak)
	}
	if habit.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", habit.CurrentStreak)
	}
}

func TestHabitCostProjections(t *testing.T) {
	habit := SpendingHabit{AverageAmount: 6.50, FrequencyPerWeek: 4}

	if got, want := habit.WeeklyCost(), 26.0; got != want {
		t.Errorf("WeeklyCost() = %v, want %v", got, want)
	}
	if got, want := habit.MonthlyCost(), 26.0*4.33; got != want {
		t.Errorf("MonthlyCost() = %v, want %v", got, want)
	}
	if got, want := habit.YearlyCost(), 26.0*52; got != want {
		t.Errorf("YearlyCost() = %v, want %v", got, want)
	}
}

func TestHabitStrength(t *testing.T) {
	tests := []struct {
		name   string
		freq   float64
		streak int
		want   float64
	}{
		{"daily habit with a month-long streak maxes out", 7, 30, 100},
		{"components cap individually", 14, 90, 100},
		{"half consistency, no streak", 3.5, 0, 25},
		{"no activity at all", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			habit := SpendingHabit{FrequencyPerWeek: tt.freq, CurrentStreak: tt.streak}
			if got := habit.Strength(); got != tt.want {
				t.Errorf("Strength() = %v, want %v", got, tt.want)
			}
		})
	}
}
