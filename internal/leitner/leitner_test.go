package leitner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/leitbot/pkg/models"
)

var now = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func newCard(box int) models.Card {
	return models.Card{ID: 1, LearnerID: 7, WordID: 11, SetID: 3, BoxLevel: box, NextReviewAt: now}
}

func TestApplyReviewTransitions(t *testing.T) {
	engine := New()

	tests := []struct {
		name        string
		startBox    int
		score       int
		wantBox     int
		wantDelta   float64
		wantDueDays int
	}{
		{"forgot resets to box 1", 4, ScoreForgot, 1, -2, 1},
		{"forgot from box 1 stays", 1, ScoreForgot, 1, -2, 1},
		{"struggled keeps the box", 3, ScoreStruggled, 3, -1, 5},
		{"good promotes one box", 1, ScoreGood, 2, 1, 2},
		{"good caps at box 5", 5, ScoreGood, 5, 1, 21},
		{"perfect promotes two boxes", 2, ScorePerfect, 4, 2, 10},
		{"perfect from box 4 caps at 5", 4, ScorePerfect, 5, 2, 21},
		{"perfect at box 5 stays, score still grows", 5, ScorePerfect, 5, 2, 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := newCard(tt.startBox)
			updated, err := engine.ApplyReview(card, tt.score, now)
			require.NoError(t, err)

			assert.Equal(t, tt.wantBox, updated.BoxLevel)
			assert.Equal(t, tt.wantDelta, updated.WeightedScore)
			assert.Equal(t, 1, updated.TotalReviews)
			assert.Equal(t, now.AddDate(0, 0, tt.wantDueDays), updated.NextReviewAt)
			assert.Equal(t, tt.wantBox == MaxBox, updated.IsMastered)
			require.NotNil(t, updated.LastReviewedAt)
			assert.Equal(t, now, *updated.LastReviewedAt)
		})
	}
}

func TestApplyReviewPromotesFromBoxOne(t *testing.T) {
	// Box-1 card, score 3: box 2, weighted score 0 -> +1, due in 2 days
	engine := New()
	updated, err := engine.ApplyReview(newCard(1), ScoreGood, now)
	require.NoError(t, err)

	assert.Equal(t, 2, updated.BoxLevel)
	assert.Equal(t, 1.0, updated.WeightedScore)
	assert.Equal(t, now.AddDate(0, 0, 2), updated.NextReviewAt)
}

func TestApplyReviewForgetResetsMastery(t *testing.T) {
	// Box-4 card, score 1: hard reset to box 1, not mastered
	engine := New()
	card := newCard(4)
	card.IsMastered = false
	updated, err := engine.ApplyReview(card, ScoreForgot, now)
	require.NoError(t, err)

	assert.Equal(t, 1, updated.BoxLevel)
	assert.Equal(t, -2.0, updated.WeightedScore)
	assert.False(t, updated.IsMastered)
}

func TestApplyReviewInvalidScore(t *testing.T) {
	engine := New()
	card := newCard(3)
	card.WeightedScore = 4
	card.TotalReviews = 6

	for _, score := range []int{0, -1, 5, 42} {
		got, err := engine.ApplyReview(card, score, now)
		assert.ErrorIs(t, err, ErrInvalidScore)
		// The card comes back unmodified
		assert.Equal(t, card, got)
	}
}

func TestApplyReviewBoxAlwaysInRange(t *testing.T) {
	engine := New()
	for box := 1; box <= MaxBox; box++ {
		for score := ScoreForgot; score <= ScorePerfect; score++ {
			updated, err := engine.ApplyReview(newCard(box), score, now)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, updated.BoxLevel, 1)
			assert.LessOrEqual(t, updated.BoxLevel, MaxBox)
		}
	}
}

func TestRecallPercentage(t *testing.T) {
	tests := []struct {
		name     string
		weighted float64
		reviews  int
		want     float64
	}{
		{"never reviewed", 0, 0, 0},
		{"all perfect", 20, 10, 100},
		{"all forgot", -20, 10, 0},
		{"all good", 10, 10, 75}, // (10+20)/40*100
		{"mixed", -1, 3, 41.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := models.Card{WeightedScore: tt.weighted, TotalReviews: tt.reviews}
			assert.Equal(t, tt.want, RecallPercentage(card))
		})
	}
}

func TestRecallPercentageBounds(t *testing.T) {
	// Any reachable history keeps the percentage inside [0,100]
	engine := New()
	card := newCard(1)
	scores := []int{1, 4, 4, 2, 3, 1, 4, 3, 3, 2, 1, 1, 4, 4, 4, 3}
	for _, score := range scores {
		var err error
		card, err = engine.ApplyReview(card, score, now)
		require.NoError(t, err)

		pct := RecallPercentage(card)
		assert.GreaterOrEqual(t, pct, 0.0)
		assert.LessOrEqual(t, pct, 100.0)
	}
}

func TestSelectDueOrdering(t *testing.T) {
	cards := []models.Card{
		{ID: 1, BoxLevel: 3, NextReviewAt: now.AddDate(0, 0, -1)},
		{ID: 2, BoxLevel: 1, NextReviewAt: now},
		{ID: 3, BoxLevel: 1, NextReviewAt: now.AddDate(0, 0, -3)},
		{ID: 4, BoxLevel: 2, NextReviewAt: now.AddDate(0, 0, -2)},
		{ID: 5, BoxLevel: 1, NextReviewAt: now.AddDate(0, 0, 2)}, // not due
	}

	due, err := SelectDue(cards, now, len(cards))
	require.NoError(t, err)

	ids := make([]int64, 0, len(due))
	for _, c := range due {
		ids = append(ids, c.ID)
	}
	// Lowest box first, earliest schedule breaking ties
	assert.Equal(t, []int64{3, 2, 4, 1}, ids)
}

func TestSelectDueIdempotent(t *testing.T) {
	cards := []models.Card{
		{ID: 1, BoxLevel: 2, NextReviewAt: now.AddDate(0, 0, -1)},
		{ID: 2, BoxLevel: 2, NextReviewAt: now.AddDate(0, 0, -1)},
		{ID: 3, BoxLevel: 1, NextReviewAt: now},
	}

	first, err := SelectDue(cards, now, len(cards))
	require.NoError(t, err)
	second, err := SelectDue(cards, now, len(cards))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSelectDueLimit(t *testing.T) {
	cards := []models.Card{
		{ID: 1, BoxLevel: 1, NextReviewAt: now},
		{ID: 2, BoxLevel: 2, NextReviewAt: now},
		{ID: 3, BoxLevel: 3, NextReviewAt: now},
	}

	due, err := SelectDue(cards, now, 2)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, int64(1), due[0].ID)
	assert.Equal(t, int64(2), due[1].ID)

	empty, err := SelectDue(cards, now, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = SelectDue(cards, now, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSelectDueEmptyAndNoneDue(t *testing.T) {
	due, err := SelectDue(nil, now, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	future := []models.Card{{ID: 1, BoxLevel: 1, NextReviewAt: now.AddDate(0, 0, 5)}}
	due, err = SelectDue(future, now, 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestSelectDueComparesDatesNotInstants(t *testing.T) {
	// A card scheduled for later today is already due
	lateToday := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)
	earlyToday := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	cards := []models.Card{{ID: 1, BoxLevel: 1, NextReviewAt: lateToday}}
	due, err := SelectDue(cards, earlyToday, 1)
	require.NoError(t, err)
	assert.Len(t, due, 1)
}
