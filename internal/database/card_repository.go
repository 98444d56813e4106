package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/leitbot/pkg/models"
)

// CardRepository handles database operations for flashcards
type CardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a repository bound to the given connection
func NewCardRepository(db *sqlx.DB) *CardRepository {
	return &CardRepository{db: db}
}

// GetByID returns a single card, or ErrNotFound
func (r *CardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	var card models.Card
	err := r.db.GetContext(ctx, &card, "SELECT * FROM flashcards WHERE id = $1", id)
	if err != nil {
		return nil, translateNoRows(err)
	}
	return &card, nil
}

// Create inserts a new card
func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	if r.db.DriverName() == "postgres" {
		query := `
			INSERT INTO flashcards (learner_id, word_id, set_id, box_level, weighted_score, total_reviews, next_review_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`
		return r.db.QueryRowContext(ctx, query,
			card.LearnerID, card.WordID, card.SetID,
			card.BoxLevel, card.WeightedScore, card.TotalReviews, card.NextReviewAt,
		).Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
	}

	// SQLite has no usable RETURNING here; read the row back by id
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO flashcards (learner_id, word_id, set_id, box_level, weighted_score, total_reviews, next_review_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		card.LearnerID, card.WordID, card.SetID,
		card.BoxLevel, card.WeightedScore, card.TotalReviews, card.NextReviewAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create card: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	card.ID = id
	return r.db.QueryRowContext(ctx, "SELECT created_at, updated_at FROM flashcards WHERE id = $1", id).
		Scan(&card.CreatedAt, &card.UpdatedAt)
}

// DueCandidates returns the learner's cards whose scheduled date is on or
// before the given day. The result is unordered; presentation ordering is
// the selector's job.
func (r *CardRepository) DueCandidates(ctx context.Context, learnerID int64, asOf time.Time) ([]models.Card, error) {
	var query string
	if r.db.DriverName() == "postgres" {
		query = `
			SELECT * FROM flashcards
			WHERE learner_id = $1 AND next_review_at::date <= $2::date
		`
	} else {
		query = `
			SELECT * FROM flashcards
			WHERE learner_id = $1 AND date(next_review_at) <= date($2)
		`
	}
	cards := []models.Card{}
	if err := r.db.SelectContext(ctx, &cards, query, learnerID, asOf); err != nil {
		return nil, fmt.Errorf("failed to get due cards: %v", err)
	}
	return cards, nil
}

// ListByLearner returns all of a learner's cards
func (r *CardRepository) ListByLearner(ctx context.Context, learnerID int64) ([]models.Card, error) {
	cards := []models.Card{}
	err := r.db.SelectContext(ctx, &cards,
		"SELECT * FROM flashcards WHERE learner_id = $1 ORDER BY id", learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %v", err)
	}
	return cards, nil
}

// SaveReview persists a reviewed card and credits the earned points to the
// learner in one transaction, so a concurrent ranking snapshot never sees
// the card updated without its points.
func (r *CardRepository) SaveReview(ctx context.Context, card *models.Card, points int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin review transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE flashcards SET
			box_level = $1,
			weighted_score = $2,
			total_reviews = $3,
			next_review_at = $4,
			is_mastered = $5,
			last_reviewed_at = $6,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $7`,
		card.BoxLevel,
		card.WeightedScore,
		card.TotalReviews,
		card.NextReviewAt,
		card.IsMastered,
		card.LastReviewedAt,
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card: %v", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE learners SET total_points = total_points + $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		points, card.LearnerID)
	if err != nil {
		return fmt.Errorf("failed to credit points: %v", err)
	}

	return tx.Commit()
}

// ReviewedOn reports whether the learner reviewed at least one card on the
// given calendar day
func (r *CardRepository) ReviewedOn(ctx context.Context, learnerID int64, day time.Time) (bool, error) {
	var query string
	if r.db.DriverName() == "postgres" {
		query = `
			SELECT COUNT(*) FROM flashcards
			WHERE learner_id = $1 AND last_reviewed_at::date = $2::date
		`
	} else {
		query = `
			SELECT COUNT(*) FROM flashcards
			WHERE learner_id = $1 AND date(last_reviewed_at) = date($2)
		`
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, learnerID, day); err != nil {
		return false, fmt.Errorf("failed to count reviews: %v", err)
	}
	return count > 0, nil
}

// Delete removes a card
func (r *CardRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM flashcards WHERE id = $1", id)
	return err
}
