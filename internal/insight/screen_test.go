package insight

import (
	"testing"
	"time"

	"github.com/ledgersage/ledgersage/internal/model"
)

func TestExceedsAmountThreshold(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   bool
	}{
		{"just above threshold", -51, true},
		{"exactly at threshold", -50, false},
		{"just below threshold", -49, false},
		{"small purchase", -10, false},
		{"large purchase", -500, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := &model.Transaction{Amount: tt.amount}
			if got := exceedsAmountThreshold(txn); got != tt.want {
				t.Errorf("exceedsAmountThreshold(%.0f) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}

func TestInEmotionalWindow(t *testing.T) {
	// March 2026: the 9th is a Monday, the 13th a Friday, the 15th a Sunday.
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"late night", time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC), true},
		{"10pm sharp", time.Date(2026, 3, 9, 22, 0, 0, 0, time.UTC), true},
		{"2am", time.Date(2026, 3, 10, 2, 59, 0, 0, time.UTC), true},
		{"3am", time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC), false},
		{"monday afternoon", time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC), false},
		{"monday evening", time.Date(2026, 3, 9, 19, 0, 0, 0, time.UTC), false},
		{"friday evening", time.Date(2026, 3, 13, 19, 0, 0, 0, time.UTC), true},
		{"friday 6pm sharp", time.Date(2026, 3, 13, 18, 0, 0, 0, time.UTC), true},
		{"friday 5pm", time.Date(2026, 3, 13, 17, 59, 0, 0, time.UTC), false},
		{"sunday evening", time.Date(2026, 3, 15, 20, 30, 0, 0, time.UTC), true},
		{"saturday evening", time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inEmotionalWindow(tt.at); got != tt.want {
				t.Errorf("inEmotionalWindow(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}
