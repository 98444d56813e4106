package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/leitbot/pkg/models"
)

func openTestDB(t *testing.T) *CardRepository {
	t.Helper()
	db, err := Connect(Config{Driver: "sqlite3", DSN: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCardRepository(db)
}

// seed inserts a learner, a word and a set, returning their ids
func seed(t *testing.T, cards *CardRepository) (learnerID, wordID, setID int64) {
	t.Helper()
	ctx := context.Background()

	learners := NewLearnerRepository(cards.db)
	learner := &models.Learner{Username: "alice", ChatID: 100, NotificationHour: 18, NotificationEnabled: true}
	require.NoError(t, learners.Create(ctx, learner))

	words := NewWordRepository(cards.db)
	word := &models.VocabularyWord{Term: "hello", Translation: "hallo", Category: "Greetings"}
	require.NoError(t, words.Create(ctx, word))

	sets := NewSetRepository(cards.db)
	set := &models.FlashcardSet{LearnerID: learner.ID, Name: "Basics"}
	require.NoError(t, sets.Create(ctx, set))

	return learner.ID, word.ID, set.ID
}

func TestLearnerRepository(t *testing.T) {
	cards := openTestDB(t)
	learners := NewLearnerRepository(cards.db)
	ctx := context.Background()

	learner := &models.Learner{Username: "bob", NotificationHour: 9, NotificationEnabled: true}
	require.NoError(t, learners.Create(ctx, learner))
	require.NotZero(t, learner.ID)
	assert.Equal(t, 20, learner.DailyGoal) // Default goal

	got, err := learners.GetByID(ctx, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)

	byName, err := learners.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, learner.ID, byName.ID)

	_, err = learners.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	prefs, err := learners.Preferences(ctx, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Preferences{DailyGoal: 20, NotificationHour: 9}, prefs)

	require.NoError(t, learners.SavePreferences(ctx, learner.ID, models.Preferences{DailyGoal: 5, NotificationHour: 7}))
	prefs, err = learners.Preferences(ctx, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, prefs.DailyGoal)

	forHour, err := learners.ForNotificationHour(ctx, 7)
	require.NoError(t, err)
	require.Len(t, forHour, 1)
	assert.Equal(t, learner.ID, forHour[0].ID)
}

func TestLearnerRepositoryStreaks(t *testing.T) {
	cards := openTestDB(t)
	learners := NewLearnerRepository(cards.db)
	ctx := context.Background()

	learner := &models.Learner{Username: "carol"}
	require.NoError(t, learners.Create(ctx, learner))

	streak, err := learners.GetStreak(ctx, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak.Current)
	assert.Nil(t, streak.LastActiveOn)

	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	streak.Current = 3
	streak.Longest = 5
	streak.LastActiveOn = &today
	require.NoError(t, learners.SaveStreak(ctx, streak))

	got, err := learners.GetStreak(ctx, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Current)
	assert.Equal(t, 5, got.Longest)
	require.NotNil(t, got.LastActiveOn)
	assert.Equal(t, today, got.LastActiveOn.UTC())

	active, err := learners.ActiveStreaks(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, learner.ID, active[0].LearnerID)
}

func TestCardRepositoryLifecycle(t *testing.T) {
	cards := openTestDB(t)
	learnerID, wordID, setID := seed(t, cards)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	card := models.NewCard(learnerID, wordID, setID, now.AddDate(0, 0, -1))
	require.NoError(t, cards.Create(ctx, &card))
	require.NotZero(t, card.ID)

	got, err := cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.BoxLevel)
	assert.Equal(t, learnerID, got.LearnerID)

	due, err := cards.DueCandidates(ctx, learnerID, now)
	require.NoError(t, err)
	require.Len(t, due, 1)

	// Push the card out a week and it is no longer a candidate
	got.NextReviewAt = now.AddDate(0, 0, 7)
	got.BoxLevel = 3
	got.WeightedScore = 1
	got.TotalReviews = 1
	got.LastReviewedAt = &now
	require.NoError(t, cards.SaveReview(ctx, got, 30))

	due, err = cards.DueCandidates(ctx, learnerID, now)
	require.NoError(t, err)
	assert.Empty(t, due)

	all, err := cards.ListByLearner(ctx, learnerID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 3, all[0].BoxLevel)

	require.NoError(t, cards.Delete(ctx, card.ID))
	_, err = cards.GetByID(ctx, card.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveReviewCreditsPoints(t *testing.T) {
	cards := openTestDB(t)
	learnerID, wordID, setID := seed(t, cards)
	learners := NewLearnerRepository(cards.db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	card := models.NewCard(learnerID, wordID, setID, now)
	require.NoError(t, cards.Create(ctx, &card))

	card.BoxLevel = 2
	card.WeightedScore = 1
	card.TotalReviews = 1
	card.LastReviewedAt = &now
	card.NextReviewAt = now.AddDate(0, 0, 2)
	require.NoError(t, cards.SaveReview(ctx, &card, 30))

	learner, err := learners.GetByID(ctx, learnerID)
	require.NoError(t, err)
	assert.Equal(t, 30, learner.TotalPoints)

	summaries, err := learners.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 30, summaries[0].TotalPoints)

	reviewed, err := cards.ReviewedOn(ctx, learnerID, now)
	require.NoError(t, err)
	assert.True(t, reviewed)

	reviewed, err = cards.ReviewedOn(ctx, learnerID, now.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.False(t, reviewed)
}

func TestSetRepository(t *testing.T) {
	cards := openTestDB(t)
	learnerID, wordID, setID := seed(t, cards)
	sets := NewSetRepository(cards.db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	set, err := sets.GetByID(ctx, setID)
	require.NoError(t, err)
	assert.Equal(t, "Basics", set.Name)

	card := models.NewCard(learnerID, wordID, setID, now)
	require.NoError(t, cards.Create(ctx, &card))

	stats, err := sets.ListByLearner(ctx, learnerID)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].CardCount)
	assert.Equal(t, 0, stats[0].MasteredCount)

	_, err = sets.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWordRepository(t *testing.T) {
	cards := openTestDB(t)
	words := NewWordRepository(cards.db)
	ctx := context.Background()

	word := &models.VocabularyWord{Term: "cat", Translation: "Katze", Category: "Animals"}
	require.NoError(t, words.Create(ctx, word))
	require.NotZero(t, word.ID)

	byTerm, err := words.GetByTerm(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, word.ID, byTerm.ID)

	_, err = words.GetByTerm(ctx, "dog")
	assert.ErrorIs(t, err, ErrNotFound)

	byTerm.Translation = "die Katze"
	require.NoError(t, words.Update(ctx, byTerm))
	updated, err := words.GetByID(ctx, word.ID)
	require.NoError(t, err)
	assert.Equal(t, "die Katze", updated.Translation)

	inCategory, err := words.ListByCategory(ctx, "Animals")
	require.NoError(t, err)
	assert.Len(t, inCategory, 1)

	all, err := words.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
