package models

import "time"

// Learner represents a user of the vocabulary trainer
type Learner struct {
	ID                  int64     `json:"id" db:"id"`
	Username            string    `json:"username" db:"username"`
	ChatID              int64     `json:"chat_id" db:"chat_id"` // Telegram chat for reminders, 0 if unset
	DailyGoal           int       `json:"daily_goal" db:"daily_goal"`
	NotificationHour    int       `json:"notification_hour" db:"notification_hour"` // Hour of day for reminders (0-23)
	NotificationEnabled bool      `json:"notification_enabled" db:"notification_enabled"`
	TotalPoints         int       `json:"total_points" db:"total_points"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// Streak is the persisted study-streak record of a learner.
// LastActiveOn is date-granular: it marks the last calendar day the streak
// logic observed activity, which makes the daily update idempotent.
type Streak struct {
	LearnerID    int64      `json:"learner_id" db:"learner_id"`
	Current      int        `json:"current_streak" db:"current_streak"`
	Longest      int        `json:"longest_streak" db:"longest_streak"`
	LastActiveOn *time.Time `json:"last_active_on" db:"last_active_on"`
}

// Preferences are the learner settings the progress dashboard needs
type Preferences struct {
	DailyGoal        int `json:"daily_goal" db:"daily_goal"`
	NotificationHour int `json:"notification_hour" db:"notification_hour"`
}
