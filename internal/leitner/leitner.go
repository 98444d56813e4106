package leitner

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/example/leitbot/pkg/models"
)

// Review scores a learner can submit for a card
const (
	ScoreForgot    = 1 // Hard reset to box 1
	ScoreStruggled = 2 // Stay in the current box
	ScoreGood      = 3 // Promote one box
	ScorePerfect   = 4 // Promote two boxes
)

// MaxBox is the highest Leitner box; cards there are considered mastered
const MaxBox = 5

var (
	// ErrInvalidScore is returned when a review score is outside 1-4
	ErrInvalidScore = errors.New("leitner: score must be between 1 and 4")
	// ErrInvalidArgument is returned for malformed inputs such as a nil
	// card or a negative limit
	ErrInvalidArgument = errors.New("leitner: invalid argument")
)

// Engine implements the Leitner 5-box spaced repetition scheme
type Engine struct {
	// Review intervals in days, keyed by box level
	Intervals map[int]int
	// Weighted score deltas, keyed by review score
	Weights map[int]float64
}

// New creates an engine with the standard Leitner settings
func New() *Engine {
	return &Engine{
		Intervals: map[int]int{1: 1, 2: 2, 3: 5, 4: 10, 5: 21},
		Weights:   map[int]float64{ScoreForgot: -2, ScoreStruggled: -1, ScoreGood: 1, ScorePerfect: 2},
	}
}

// ApplyReview advances a card's scheduling state for one review.
// The input card is not modified; the updated card is returned.
// Transition rule, O(1):
//
//	1 (forgot)    -> box 1
//	2 (struggled) -> box unchanged
//	3 (good)      -> box+1, capped at 5
//	4 (perfect)   -> box+2, capped at 5
//
// The next review interval is a function of the NEW box level.
func (e *Engine) ApplyReview(card models.Card, score int, now time.Time) (models.Card, error) {
	if score < ScoreForgot || score > ScorePerfect {
		return card, fmt.Errorf("%w: got %d", ErrInvalidScore, score)
	}

	switch score {
	case ScoreForgot:
		card.BoxLevel = 1
	case ScoreStruggled:
		// No box change
	case ScoreGood:
		card.BoxLevel = min(card.BoxLevel+1, MaxBox)
	case ScorePerfect:
		card.BoxLevel = min(card.BoxLevel+2, MaxBox)
	}

	card.WeightedScore += e.Weights[score]
	card.TotalReviews++
	card.IsMastered = card.BoxLevel == MaxBox

	reviewed := now
	card.LastReviewedAt = &reviewed
	card.NextReviewAt = now.AddDate(0, 0, e.Intervals[card.BoxLevel])

	return card, nil
}

// RecallPercentage normalizes a card's weighted score into [0,100].
// The worst possible history (always score 1) maps to 0 and the best
// (always score 4) to 100. Cards never reviewed report 0.
func RecallPercentage(card models.Card) float64 {
	if card.TotalReviews == 0 {
		return 0.0
	}
	normalized := card.WeightedScore + float64(card.TotalReviews)*2
	maxPossible := float64(card.TotalReviews) * 4
	return round2(normalized / maxPossible * 100)
}

// SelectDue filters cards due as of the given time and orders them for
// presentation: ascending box level first (weakest material earliest), then
// ascending scheduled time. Ordering is stable, so repeated calls on the
// same input return the identical sequence.
//
// limit truncates the ordered result; 0 yields an empty slice and a
// negative limit is rejected. Pass len(cards) to select everything.
func SelectDue(cards []models.Card, asOf time.Time, limit int) ([]models.Card, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: negative limit %d", ErrInvalidArgument, limit)
	}

	due := make([]models.Card, 0, len(cards))
	cutoff := dateOf(asOf)
	for _, c := range cards {
		if !dateOf(c.NextReviewAt).After(cutoff) {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].BoxLevel != due[j].BoxLevel {
			return due[i].BoxLevel < due[j].BoxLevel
		}
		return due[i].NextReviewAt.Before(due[j].NextReviewAt)
	})

	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// IsDue reports whether a card's scheduled date is today or earlier
func IsDue(card models.Card, asOf time.Time) bool {
	return !dateOf(card.NextReviewAt).After(dateOf(asOf))
}

// dateOf truncates a timestamp to its UTC calendar day. Due-ness compares
// dates, not instants: a card scheduled for 23:00 today is due at 08:00.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
