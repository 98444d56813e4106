// Package scheduler runs the background jobs: hourly review reminders and
// the daily streak decay sweep.
package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/leitbot/pkg/models"
)

// Default window for sending reminders
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Notifier delivers a due-cards reminder to a learner
type Notifier interface {
	SendReminder(chatID int64, dueCount int) error
}

// LearnerSource lists learners due a reminder at a given hour
type LearnerSource interface {
	ForNotificationHour(ctx context.Context, hour int) ([]models.Learner, error)
}

// CardSource exposes due-card lookup for reminders
type CardSource interface {
	DueCandidates(ctx context.Context, learnerID int64, asOf time.Time) ([]models.Card, error)
}

// StreakDecayer runs the daily missed-day streak check
type StreakDecayer interface {
	DecayStreaks(ctx context.Context, now time.Time) error
}

// Scheduler manages the application's scheduled tasks
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	learners  LearnerSource
	cards     CardSource
	decayer   StreakDecayer
}

// New creates a scheduler with its collaborators injected
func New(notifier Notifier, learners LearnerSource, cards CardSource, decayer StreakDecayer) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		learners:  learners,
		cards:     cards,
		decayer:   decayer,
	}
}

// Start begins running all scheduled tasks without blocking
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.Every(1).Day().At("00:05").Do(s.runStreakDecay)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) checkAndSendReminders() {
	s.sendReminders(context.Background(), time.Now())
}

// sendReminders finds learners whose notification hour matches and who have
// cards due, and sends each a reminder capped at their daily goal. Nothing is
// sent outside the configured notification window.
func (s *Scheduler) sendReminders(ctx context.Context, now time.Time) {
	currentHour := now.Hour()

	startHour := hourFromEnv("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := hourFromEnv("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)
	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, startHour, endHour)
		return
	}

	learners, err := s.learners.ForNotificationHour(ctx, currentHour)
	if err != nil {
		log.Printf("Error getting learners for notification: %v", err)
		return
	}

	for _, learner := range learners {
		if learner.ChatID == 0 {
			continue
		}
		due, err := s.cards.DueCandidates(ctx, learner.ID, now)
		if err != nil {
			log.Printf("Error getting due cards for learner %d: %v", learner.ID, err)
			continue
		}
		if len(due) == 0 {
			continue
		}

		count := len(due)
		if count > learner.DailyGoal {
			count = learner.DailyGoal
		}
		if err := s.notifier.SendReminder(learner.ChatID, count); err != nil {
			log.Printf("Error sending reminder to learner %d: %v", learner.ID, err)
		}
	}
}

// runStreakDecay resets streaks of learners who missed a day
func (s *Scheduler) runStreakDecay() {
	if err := s.decayer.DecayStreaks(context.Background(), time.Now()); err != nil {
		log.Printf("Error running streak decay: %v", err)
	}
}

// RunManualCheck forces a reminder check for a specific learner
func (s *Scheduler) RunManualCheck(ctx context.Context, learner models.Learner) error {
	due, err := s.cards.DueCandidates(ctx, learner.ID, time.Now())
	if err != nil {
		return err
	}
	if len(due) > 0 && learner.ChatID != 0 {
		return s.notifier.SendReminder(learner.ChatID, len(due))
	}
	return nil
}

func hourFromEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
