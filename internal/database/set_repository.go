package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/leitbot/pkg/models"
)

// SetStats is a flashcard set with its card counters
type SetStats struct {
	models.FlashcardSet
	CardCount     int `db:"card_count" json:"card_count"`
	MasteredCount int `db:"mastered_count" json:"mastered_count"`
}

// SetRepository handles database operations for flashcard sets
type SetRepository struct {
	db *sqlx.DB
}

// NewSetRepository creates a repository bound to the given connection
func NewSetRepository(db *sqlx.DB) *SetRepository {
	return &SetRepository{db: db}
}

// GetByID returns a set, or ErrNotFound
func (r *SetRepository) GetByID(ctx context.Context, id int64) (*models.FlashcardSet, error) {
	var set models.FlashcardSet
	err := r.db.GetContext(ctx, &set, "SELECT * FROM flashcard_sets WHERE id = $1", id)
	if err != nil {
		return nil, translateNoRows(err)
	}
	return &set, nil
}

// Create inserts a new flashcard set
func (r *SetRepository) Create(ctx context.Context, set *models.FlashcardSet) error {
	if r.db.DriverName() == "postgres" {
		return r.db.QueryRowContext(ctx, `
			INSERT INTO flashcard_sets (learner_id, name)
			VALUES ($1, $2)
			RETURNING id, created_at`,
			set.LearnerID, set.Name,
		).Scan(&set.ID, &set.CreatedAt)
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO flashcard_sets (learner_id, name) VALUES ($1, $2)",
		set.LearnerID, set.Name)
	if err != nil {
		return fmt.Errorf("failed to create set: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	set.ID = id
	return r.db.QueryRowContext(ctx, "SELECT created_at FROM flashcard_sets WHERE id = $1", id).
		Scan(&set.CreatedAt)
}

// ListByLearner returns a learner's sets with card and mastery counts,
// newest first
func (r *SetRepository) ListByLearner(ctx context.Context, learnerID int64) ([]SetStats, error) {
	sets := []SetStats{}
	err := r.db.SelectContext(ctx, &sets, `
		SELECT
			s.id, s.learner_id, s.name, s.created_at,
			COUNT(f.id) AS card_count,
			COALESCE(SUM(CASE WHEN f.is_mastered THEN 1 ELSE 0 END), 0) AS mastered_count
		FROM flashcard_sets s
		LEFT JOIN flashcards f ON f.set_id = s.id
		WHERE s.learner_id = $1
		GROUP BY s.id, s.learner_id, s.name, s.created_at
		ORDER BY s.created_at DESC`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sets: %v", err)
	}
	return sets, nil
}
