package insight

import (
	"time"

	"github.com/ledgersage/ledgersage/internal/model"
)

// Screening thresholds. A transaction must clear at least one of these gates
// before it is worth spending a completion on.
const (
	largeAmountThreshold = 50.0
	merchantFrequencyMin = 3
	merchantWindowDays   = 7
)

// exceedsAmountThreshold reports whether the expense is large enough to
// analyze on amount alone. The threshold is strict: a $50.00 purchase does
// not qualify.
func exceedsAmountThreshold(txn *model.Transaction) bool {
	return txn.AbsAmount() > largeAmountThreshold
}

// inEmotionalWindow reports whether the transaction landed in a time window
// associated with emotional spending: late night (10pm through 2am), or
// Friday and Sunday evenings (6pm through 10pm).
func inEmotionalWindow(t time.Time) bool {
	hour := t.Hour()
	if hour >= 22 || hour <= 2 {
		return true
	}
	weekday := t.Weekday()
	if (weekday == time.Friday || weekday == time.Sunday) && hour >= 18 && hour <= 22 {
		return true
	}
	return false
}
