package model

import "time"

// SessionType identifies a coaching scenario.
type SessionType string

// Coaching session types. The first four have full context builders; the
// rest are same-shaped extension points.
const (
	SessionDailyCheckin       SessionType = "daily_checkin"
	SessionCrisisIntervention SessionType = "crisis_intervention"
	SessionGoalReview         SessionType = "goal_review"
	SessionPurchaseGuidance   SessionType = "purchase_guidance"
	SessionHabitCoaching      SessionType = "habit_coaching"
	SessionMotivationBoost    SessionType = "motivation_boost"
	SessionEducationalContent SessionType = "educational_content"
	SessionCelebration        SessionType = "celebration"
)

// SessionTypes lists every valid session type in a stable order.
var SessionTypes = []SessionType{
	SessionDailyCheckin,
	SessionCrisisIntervention,
	SessionGoalReview,
	SessionPurchaseGuidance,
	SessionHabitCoaching,
	SessionMotivationBoost,
	SessionEducationalContent,
	SessionCelebration,
}

// Valid reports whether the session type is known.
func (s SessionType) Valid() bool {
	for _, known := range SessionTypes {
		if s == known {
			return true
		}
	}
	return false
}

// CoachingSession is one persisted coaching exchange: the context snapshot
// the response was built from plus the final text, whether AI-sourced or a
// canned fallback. Feedback and action records arrive later, if at all.
type CoachingSession struct {
	CreatedAt          time.Time
	SatisfactionRating *int // 1-5
	Context            map[string]string
	ID                 string
	UserID             string
	Response           string
	UserFeedback       string
	ActionDetails      string
	Type               SessionType
	ActionTaken        bool
}

// PositiveFeedback reports whether the user rated the session 4 or higher.
func (c *CoachingSession) PositiveFeedback() bool {
	return c.SatisfactionRating != nil && *c.SatisfactionRating >= 4
}

// CrisisSession reports whether this was a crisis intervention.
func (c *CoachingSession) CrisisSession() bool {
	return c.Type == SessionCrisisIntervention
}

// DailySession reports whether this was a daily check-in.
func (c *CoachingSession) DailySession() bool {
	return c.Type == SessionDailyCheckin
}
