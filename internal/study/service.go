// Package study coordinates a learner's review flow: building study
// sessions from due cards, applying review scores, awarding points, keeping
// the streak current and serving the dashboard and leaderboard views.
//
// The service itself holds no mutable state. Concurrent requests for
// different learners are independent; submissions for the same card must be
// serialized by the caller, and persistence of a review is a single atomic
// store call.
package study

import (
	"context"
	"fmt"
	"time"

	"github.com/example/leitbot/internal/database"
	"github.com/example/leitbot/internal/leaderboard"
	"github.com/example/leitbot/internal/leitner"
	"github.com/example/leitbot/internal/progress"
	"github.com/example/leitbot/internal/vocab"
	"github.com/example/leitbot/pkg/models"
)

// PointsPerScore is the base points multiplier: a review awards score*10
const PointsPerScore = 10

// ForecastDays is the dashboard's forecast horizon
const ForecastDays = 7

// ErrNotFound is returned when a card or learner is absent from the store.
// It aliases the record-store sentinel so errors.Is matches no matter which
// layer reported the miss.
var ErrNotFound = database.ErrNotFound

// CardStore is the record-store surface the service needs for cards
type CardStore interface {
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	Create(ctx context.Context, card *models.Card) error
	DueCandidates(ctx context.Context, learnerID int64, asOf time.Time) ([]models.Card, error)
	ListByLearner(ctx context.Context, learnerID int64) ([]models.Card, error)
	SaveReview(ctx context.Context, card *models.Card, points int) error
	ReviewedOn(ctx context.Context, learnerID int64, day time.Time) (bool, error)
}

// LearnerStore is the record-store surface the service needs for learners
type LearnerStore interface {
	GetByID(ctx context.Context, id int64) (*models.Learner, error)
	Preferences(ctx context.Context, learnerID int64) (models.Preferences, error)
	GetStreak(ctx context.Context, learnerID int64) (*models.Streak, error)
	SaveStreak(ctx context.Context, streak *models.Streak) error
	ActiveStreaks(ctx context.Context) ([]models.Streak, error)
	Summaries(ctx context.Context) ([]models.LearnerSummary, error)
}

// WordSource is the store surface behind the vocabulary cache
type WordSource interface {
	GetByID(ctx context.Context, id int64) (*models.VocabularyWord, error)
	All(ctx context.Context) ([]models.VocabularyWord, error)
}

// Service implements the study workflow over injected collaborators
type Service struct {
	cards    CardStore
	learners LearnerStore
	words    WordSource
	vocab    *vocab.Cache
	engine   *leitner.Engine
}

// New creates a study service
func New(cards CardStore, learners LearnerStore, words WordSource, engine *leitner.Engine) *Service {
	return &Service{
		cards:    cards,
		learners: learners,
		words:    words,
		vocab:    vocab.NewCache(),
		engine:   engine,
	}
}

// ReviewResult reports the outcome of one review submission
type ReviewResult struct {
	Card         models.Card `json:"card"`
	PointsEarned int         `json:"points_earned"`
}

// Dashboard is the learner's aggregated progress view
type Dashboard struct {
	Progress progress.LearnerProgress `json:"progress"`
	Forecast []progress.ForecastDay   `json:"forecast"`
	Rank     *models.LearnerRank      `json:"rank,omitempty"`
}

// StartSession loads the learner's due cards, orders them weakest-first and
// returns them as a FIFO session queue. limit bounds the session length;
// 0 yields an empty session.
func (s *Service) StartSession(ctx context.Context, learnerID int64, now time.Time, limit int) (*leitner.ReviewQueue, error) {
	candidates, err := s.cards.DueCandidates(ctx, learnerID, now)
	if err != nil {
		return nil, fmt.Errorf("loading due candidates: %w", err)
	}
	due, err := leitner.SelectDue(candidates, now, limit)
	if err != nil {
		return nil, err
	}

	queue := leitner.NewReviewQueue()
	for i := range due {
		if err := queue.Enqueue(&due[i]); err != nil {
			return nil, err
		}
	}
	return queue, nil
}

// SubmitReview applies a recall score to one of the learner's cards,
// persists the updated card together with the earned points, and applies
// the daily streak rule. An invalid score leaves the card untouched.
func (s *Service) SubmitReview(ctx context.Context, learnerID, cardID int64, score int, now time.Time) (*ReviewResult, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	// A learner can only review their own cards
	if card.LearnerID != learnerID {
		return nil, fmt.Errorf("%w: card %d", ErrNotFound, cardID)
	}

	updated, err := s.engine.ApplyReview(*card, score, now)
	if err != nil {
		return nil, err
	}

	points := score * PointsPerScore
	if err := s.cards.SaveReview(ctx, &updated, points); err != nil {
		return nil, fmt.Errorf("persisting review: %w", err)
	}

	if err := s.updateStreak(ctx, learnerID, now); err != nil {
		return nil, fmt.Errorf("updating streak: %w", err)
	}

	return &ReviewResult{Card: updated, PointsEarned: points}, nil
}

// Dashboard aggregates the learner's progress, the weekly forecast and
// their leaderboard rank. A streak left over from a missed day is decayed
// first, so the learner sees 0 rather than a stale count.
func (s *Service) Dashboard(ctx context.Context, learnerID int64, now time.Time) (*Dashboard, error) {
	learner, err := s.learners.GetByID(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	prefs, err := s.learners.Preferences(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	streak, err := s.learners.GetStreak(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	decayed := progress.Decay(*streak, now)
	if decayed.Current != streak.Current {
		if err := s.learners.SaveStreak(ctx, &decayed); err != nil {
			return nil, fmt.Errorf("decaying streak: %w", err)
		}
	}

	cards, err := s.cards.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Progress: progress.Aggregate(cards, prefs, decayed, learner.TotalPoints, now),
		Forecast: progress.Forecast(cards, now, ForecastDays),
	}

	summaries, err := s.learners.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	ranked := leaderboard.Rank(summaries)
	if pos, ok := leaderboard.RankOf(learnerID, ranked); ok {
		d.Rank = &models.LearnerRank{
			LearnerID:     learnerID,
			Rank:          pos,
			TotalPoints:   learner.TotalPoints,
			TotalLearners: len(ranked),
		}
	}
	return d, nil
}

// Leaderboard returns the ranked top-n snapshot plus the requesting
// learner's own rank when they appear in the snapshot
func (s *Service) Leaderboard(ctx context.Context, learnerID int64, limit int) ([]models.LearnerSummary, *models.LearnerRank, error) {
	summaries, err := s.learners.Summaries(ctx)
	if err != nil {
		return nil, nil, err
	}
	ranked := leaderboard.Rank(summaries)

	var rank *models.LearnerRank
	if pos, ok := leaderboard.RankOf(learnerID, ranked); ok {
		rank = &models.LearnerRank{
			LearnerID:     learnerID,
			Rank:          pos,
			TotalPoints:   ranked[pos-1].TotalPoints,
			TotalLearners: len(ranked),
		}
	}
	return leaderboard.Top(ranked, limit), rank, nil
}

// PreloadVocabulary warms the word cache from the store, so sessions and
// reminders resolve card terms without a query per card. Returns the number
// of words loaded.
func (s *Service) PreloadVocabulary(ctx context.Context) (int, error) {
	words, err := s.words.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading vocabulary: %w", err)
	}
	for _, w := range words {
		if err := s.vocab.Put(w.ID, w); err != nil {
			return 0, err
		}
	}
	return len(words), nil
}

// Word resolves a card's vocabulary word through the cache, reading through
// to the store on a miss and caching the result
func (s *Service) Word(ctx context.Context, wordID int64) (*models.VocabularyWord, error) {
	if w, ok := s.vocab.Get(wordID); ok {
		return &w, nil
	}
	w, err := s.words.GetByID(ctx, wordID)
	if err != nil {
		return nil, err
	}
	if err := s.vocab.Put(w.ID, *w); err != nil {
		return nil, err
	}
	return w, nil
}

// AddCard creates a fresh box-1 card for a (learner, word, set) triple,
// due immediately
func (s *Service) AddCard(ctx context.Context, learnerID, wordID, setID int64, now time.Time) (*models.Card, error) {
	card := models.NewCard(learnerID, wordID, setID, now)
	if err := s.cards.Create(ctx, &card); err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}
	return &card, nil
}

// DecayStreaks runs the explicit missed-day check over every learner with
// an active streak. The scheduler calls this once per day.
func (s *Service) DecayStreaks(ctx context.Context, now time.Time) error {
	streaks, err := s.learners.ActiveStreaks(ctx)
	if err != nil {
		return err
	}
	for i := range streaks {
		decayed := progress.Decay(streaks[i], now)
		if decayed.Current == streaks[i].Current {
			continue
		}
		if err := s.learners.SaveStreak(ctx, &decayed); err != nil {
			return fmt.Errorf("decaying streak for learner %d: %w", streaks[i].LearnerID, err)
		}
	}
	return nil
}

// updateStreak applies the once-per-day streak rule after a review
func (s *Service) updateStreak(ctx context.Context, learnerID int64, now time.Time) error {
	streak, err := s.learners.GetStreak(ctx, learnerID)
	if err != nil {
		return err
	}
	reviewedYesterday, err := s.cards.ReviewedOn(ctx, learnerID, now.AddDate(0, 0, -1))
	if err != nil {
		return err
	}
	updated := progress.UpdateStreak(*streak, reviewedYesterday, now)
	if updated == *streak {
		return nil
	}
	return s.learners.SaveStreak(ctx, &updated)
}
