package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/leitbot/pkg/models"
)

// LearnerRepository handles database operations for learners, their
// preferences and their streak records
type LearnerRepository struct {
	db *sqlx.DB
}

// NewLearnerRepository creates a repository bound to the given connection
func NewLearnerRepository(db *sqlx.DB) *LearnerRepository {
	return &LearnerRepository{db: db}
}

// GetByID returns a learner, or ErrNotFound
func (r *LearnerRepository) GetByID(ctx context.Context, id int64) (*models.Learner, error) {
	var learner models.Learner
	err := r.db.GetContext(ctx, &learner, `
		SELECT id, username, chat_id, daily_goal, notification_hour,
		       notification_enabled, total_points, created_at, updated_at
		FROM learners WHERE id = $1`, id)
	if err != nil {
		return nil, translateNoRows(err)
	}
	return &learner, nil
}

// GetByUsername returns a learner by their unique username, or ErrNotFound
func (r *LearnerRepository) GetByUsername(ctx context.Context, username string) (*models.Learner, error) {
	var learner models.Learner
	err := r.db.GetContext(ctx, &learner, `
		SELECT id, username, chat_id, daily_goal, notification_hour,
		       notification_enabled, total_points, created_at, updated_at
		FROM learners WHERE username = $1`, username)
	if err != nil {
		return nil, translateNoRows(err)
	}
	return &learner, nil
}

// Create inserts a new learner with default preferences
func (r *LearnerRepository) Create(ctx context.Context, learner *models.Learner) error {
	if learner.DailyGoal == 0 {
		learner.DailyGoal = 20
	}
	if r.db.DriverName() == "postgres" {
		return r.db.QueryRowContext(ctx, `
			INSERT INTO learners (username, chat_id, daily_goal, notification_hour, notification_enabled)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`,
			learner.Username, learner.ChatID, learner.DailyGoal,
			learner.NotificationHour, learner.NotificationEnabled,
		).Scan(&learner.ID, &learner.CreatedAt, &learner.UpdatedAt)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO learners (username, chat_id, daily_goal, notification_hour, notification_enabled)
		VALUES ($1, $2, $3, $4, $5)`,
		learner.Username, learner.ChatID, learner.DailyGoal,
		learner.NotificationHour, learner.NotificationEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to create learner: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	learner.ID = id
	return r.db.QueryRowContext(ctx, "SELECT created_at, updated_at FROM learners WHERE id = $1", id).
		Scan(&learner.CreatedAt, &learner.UpdatedAt)
}

// Preferences returns the settings the dashboard needs, or ErrNotFound
func (r *LearnerRepository) Preferences(ctx context.Context, learnerID int64) (models.Preferences, error) {
	var prefs models.Preferences
	err := r.db.GetContext(ctx, &prefs,
		"SELECT daily_goal, notification_hour FROM learners WHERE id = $1", learnerID)
	if err != nil {
		return models.Preferences{}, translateNoRows(err)
	}
	return prefs, nil
}

// SavePreferences updates a learner's settings
func (r *LearnerRepository) SavePreferences(ctx context.Context, learnerID int64, prefs models.Preferences) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE learners SET daily_goal = $1, notification_hour = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3`,
		prefs.DailyGoal, prefs.NotificationHour, learnerID)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %v", err)
	}
	return nil
}

// GetStreak returns a learner's streak record, or ErrNotFound
func (r *LearnerRepository) GetStreak(ctx context.Context, learnerID int64) (*models.Streak, error) {
	var streak models.Streak
	err := r.db.GetContext(ctx, &streak, `
		SELECT id AS learner_id, current_streak, longest_streak, last_active_on
		FROM learners WHERE id = $1`, learnerID)
	if err != nil {
		return nil, translateNoRows(err)
	}
	return &streak, nil
}

// SaveStreak persists a streak record
func (r *LearnerRepository) SaveStreak(ctx context.Context, streak *models.Streak) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE learners SET
			current_streak = $1,
			longest_streak = $2,
			last_active_on = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $4`,
		streak.Current, streak.Longest, streak.LastActiveOn, streak.LearnerID)
	if err != nil {
		return fmt.Errorf("failed to save streak: %v", err)
	}
	return nil
}

// ActiveStreaks returns the streak records with a nonzero current streak,
// for the daily decay sweep
func (r *LearnerRepository) ActiveStreaks(ctx context.Context) ([]models.Streak, error) {
	streaks := []models.Streak{}
	err := r.db.SelectContext(ctx, &streaks, `
		SELECT id AS learner_id, current_streak, longest_streak, last_active_on
		FROM learners WHERE current_streak > 0`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active streaks: %v", err)
	}
	return streaks, nil
}

// Summaries returns the ranking snapshot of every learner
func (r *LearnerRepository) Summaries(ctx context.Context) ([]models.LearnerSummary, error) {
	summaries := []models.LearnerSummary{}
	err := r.db.SelectContext(ctx, &summaries, `
		SELECT id AS learner_id, username, total_points, current_streak
		FROM learners ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load learner summaries: %v", err)
	}
	return summaries, nil
}

// ForNotificationHour returns learners with reminders enabled for the given
// hour of day
func (r *LearnerRepository) ForNotificationHour(ctx context.Context, hour int) ([]models.Learner, error) {
	learners := []models.Learner{}
	err := r.db.SelectContext(ctx, &learners, `
		SELECT id, username, chat_id, daily_goal, notification_hour,
		       notification_enabled, total_points, created_at, updated_at
		FROM learners
		WHERE notification_enabled = true AND notification_hour = $1`, hour)
	if err != nil {
		return nil, fmt.Errorf("failed to get learners for notification: %v", err)
	}
	return learners, nil
}
