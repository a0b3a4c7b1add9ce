package model

// OutcomeStatus says how a pipeline component arrived at its result, so
// callers branch on a typed value instead of interpreting nils.
type OutcomeStatus string

// Outcome statuses.
const (
	// OutcomeSuccess means the reasoning capability produced a valid result.
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeFallback means the capability failed and a deterministic
	// default was substituted and persisted.
	OutcomeFallback OutcomeStatus = "fallback"
	// OutcomeSuppressed means the capability failed and the component chose
	// to produce nothing rather than guess.
	OutcomeSuppressed OutcomeStatus = "suppressed"
	// OutcomeSkipped means a precondition was not met; nothing was done and
	// nothing is wrong.
	OutcomeSkipped OutcomeStatus = "skipped"
)

// Outcome pairs a status with the reason behind a non-success path.
type Outcome struct {
	Status OutcomeStatus
	Reason string
}

// Success is the zero-reason success outcome.
func Success() Outcome {
	return Outcome{Status: OutcomeSuccess}
}

// Fallback builds a fallback outcome with the given reason.
func Fallback(reason string) Outcome {
	return Outcome{Status: OutcomeFallback, Reason: reason}
}

// Suppressed builds a suppressed outcome with the given reason.
func Suppressed(reason string) Outcome {
	return Outcome{Status: OutcomeSuppressed, Reason: reason}
}

// Skipped builds a skipped outcome with the given reason.
func Skipped(reason string) Outcome {
	return Outcome{Status: OutcomeSkipped, Reason: reason}
}
