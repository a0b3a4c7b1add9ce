package model

import "time"

// NotificationType identifies the kind of nudge being sent to a user.
type NotificationType string

// Notification type constants.
const (
	NotifySpendingAlert     NotificationType = "spending_alert"
	NotifyGoalProgress      NotificationType = "goal_progress"
	NotifyHabitReminder     NotificationType = "habit_reminder"
	NotifyBudgetWarning     NotificationType = "budget_warning"
	NotifyAchievementUnlock NotificationType = "achievement_unlock"
	NotifyCoachingSuggested NotificationType = "coaching_suggestion"
	NotifyCrisisAlert       NotificationType = "crisis_alert"
	NotifyCelebration       NotificationType = "celebration"
	NotifyEducationalTip    NotificationType = "educational_tip"
)

// NotificationTypes lists every valid notification type in a stable order.
var NotificationTypes = []NotificationType{
	NotifySpendingAlert,
	NotifyGoalProgress,
	NotifyHabitReminder,
	NotifyBudgetWarning,
	NotifyAchievementUnlock,
	NotifyCoachingSuggested,
	NotifyCrisisAlert,
	NotifyCelebration,
	NotifyEducationalTip,
}

// Valid reports whether the notification type is known.
func (n NotificationType) Valid() bool {
	for _, known := range NotificationTypes {
		if n == known {
			return true
		}
	}
	return false
}

// Priority ranks how urgently a notification should be surfaced.
type Priority string

// Priority levels.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether the priority is known.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Notification is a queued per-user nudge, optionally scheduled for later.
type Notification struct {
	CreatedAt    time.Time
	ReadAt       *time.Time
	ScheduledFor *time.Time
	ActionData   map[string]string
	ID           string
	UserID       string
	Title        string
	Message      string
	Type         NotificationType
	Priority     Priority
	Read         bool
}

// Urgent reports whether the notification carries the top priority.
func (n *Notification) Urgent() bool {
	return n.Priority == PriorityUrgent
}

// HighPriority reports whether the notification is high or urgent.
func (n *Notification) HighPriority() bool {
	return n.Priority == PriorityHigh || n.Priority == PriorityUrgent
}

// Scheduled reports whether delivery is deferred.
func (n *Notification) Scheduled() bool {
	return n.ScheduledFor != nil
}

// ReadyToSend reports whether the notification may be delivered now.
func (n *Notification) ReadyToSend(now time.Time) bool {
	return n.ScheduledFor == nil || !n.ScheduledFor.After(now)
}
