// Package progress computes per-learner derived metrics from the learner's
// card set: recall averages, box distribution, streaks and the weekly
// forecast. Everything here is a pure function over explicit inputs;
// persistence stays with the caller.
package progress

import (
	"math"
	"time"

	"github.com/example/leitbot/internal/leitner"
	"github.com/example/leitbot/pkg/models"
)

// LearnerProgress is the dashboard snapshot for one learner
type LearnerProgress struct {
	TotalCards      int         `json:"total_cards"`
	CardsDue        int         `json:"cards_due"`
	MasteredCount   int         `json:"mastered_count"`
	BoxDistribution map[int]int `json:"box_distribution"` // box level (1-5) -> card count
	AverageRecall   float64     `json:"average_recall"`   // volume-weighted, 1 decimal
	CurrentStreak   int         `json:"current_streak"`
	LongestStreak   int         `json:"longest_streak"`
	TotalPoints     int         `json:"total_points"`
	DailyGoal       int         `json:"daily_goal"`
}

// ForecastDay is one day of the upcoming review load
type ForecastDay struct {
	Date     time.Time `json:"date"`
	DayName  string    `json:"day_name"`
	CardsDue int       `json:"cards_due"`
}

// Aggregate computes a learner's progress snapshot from their full card set,
// preferences and persisted streak record.
//
// The recall average is aggregate, not per-card: each card contributes in
// proportion to its review volume, so a card reviewed 50 times weighs 50x
// one reviewed once.
func Aggregate(cards []models.Card, prefs models.Preferences, streak models.Streak, points int, asOf time.Time) LearnerProgress {
	p := LearnerProgress{
		TotalCards:      len(cards),
		BoxDistribution: make(map[int]int, leitner.MaxBox),
		CurrentStreak:   streak.Current,
		LongestStreak:   streak.Longest,
		TotalPoints:     points,
		DailyGoal:       prefs.DailyGoal,
	}
	for box := 1; box <= leitner.MaxBox; box++ {
		p.BoxDistribution[box] = 0
	}

	var totalWeighted, totalPossible float64
	for _, c := range cards {
		p.BoxDistribution[c.BoxLevel]++
		if c.IsMastered {
			p.MasteredCount++
		}
		if leitner.IsDue(c, asOf) {
			p.CardsDue++
		}
		if c.TotalReviews > 0 {
			totalWeighted += c.WeightedScore + float64(c.TotalReviews)*2
			totalPossible += float64(c.TotalReviews) * 4
		}
	}
	if totalPossible > 0 {
		p.AverageRecall = round1(totalWeighted / totalPossible * 100)
	}
	return p
}

// Forecast counts cards coming due on each of the next days, starting from
// the given day. Overdue cards fall into the first day.
func Forecast(cards []models.Card, from time.Time, days int) []ForecastDay {
	forecast := make([]ForecastDay, 0, days)
	for offset := 0; offset < days; offset++ {
		day := dateOf(from.AddDate(0, 0, offset))
		count := 0
		for _, c := range cards {
			due := dateOf(c.NextReviewAt)
			if due.Equal(day) || (offset == 0 && due.Before(day)) {
				count++
			}
		}
		forecast = append(forecast, ForecastDay{
			Date:     day,
			DayName:  day.Weekday().String(),
			CardsDue: count,
		})
	}
	return forecast
}

// UpdateStreak applies the once-per-day streak rule and returns the updated
// record. It is idempotent per calendar day: a second call on the same day
// is a no-op. Activity today extends the streak when yesterday was active,
// otherwise a new streak starts at 1 (the active day itself counts). The
// function never decays a streak; see Decay.
func UpdateStreak(streak models.Streak, reviewedYesterday bool, now time.Time) models.Streak {
	today := dateOf(now)
	if streak.LastActiveOn != nil && dateOf(*streak.LastActiveOn).Equal(today) {
		return streak
	}

	if reviewedYesterday {
		streak.Current++
	} else {
		streak.Current = 1
	}
	if streak.Current > streak.Longest {
		streak.Longest = streak.Current
	}
	streak.LastActiveOn = &today
	return streak
}

// Decay is the explicit missed-day check: when the last active day is before
// yesterday the current streak resets to 0. The longest streak is never
// decayed. Callers run this on a schedule or lazily before aggregation.
func Decay(streak models.Streak, now time.Time) models.Streak {
	if streak.Current == 0 || streak.LastActiveOn == nil {
		return streak
	}
	yesterday := dateOf(now).AddDate(0, 0, -1)
	if dateOf(*streak.LastActiveOn).Before(yesterday) {
		streak.Current = 0
	}
	return streak
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
