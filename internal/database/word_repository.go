package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/leitbot/pkg/models"
)

// WordRepository handles database operations for the master vocabulary list
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a repository bound to the given connection
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

// GetByID returns a vocabulary word, or ErrNotFound
func (r *WordRepository) GetByID(ctx context.Context, id int64) (*models.VocabularyWord, error) {
	var word models.VocabularyWord
	err := r.db.GetContext(ctx, &word, "SELECT * FROM words WHERE id = $1", id)
	if err != nil {
		return nil, translateNoRows(err)
	}
	return &word, nil
}

// GetByTerm returns a vocabulary word by its unique term, or ErrNotFound
func (r *WordRepository) GetByTerm(ctx context.Context, term string) (*models.VocabularyWord, error) {
	var word models.VocabularyWord
	err := r.db.GetContext(ctx, &word, "SELECT * FROM words WHERE term = $1", term)
	if err != nil {
		return nil, translateNoRows(err)
	}
	return &word, nil
}

// Create inserts a new vocabulary word
func (r *WordRepository) Create(ctx context.Context, word *models.VocabularyWord) error {
	if r.db.DriverName() == "postgres" {
		return r.db.QueryRowContext(ctx, `
			INSERT INTO words (term, translation, category, example_sentence)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at`,
			word.Term, word.Translation, word.Category, word.ExampleSentence,
		).Scan(&word.ID, &word.CreatedAt, &word.UpdatedAt)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO words (term, translation, category, example_sentence)
		VALUES ($1, $2, $3, $4)`,
		word.Term, word.Translation, word.Category, word.ExampleSentence,
	)
	if err != nil {
		return fmt.Errorf("failed to create word: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	word.ID = id
	return r.db.QueryRowContext(ctx, "SELECT created_at, updated_at FROM words WHERE id = $1", id).
		Scan(&word.CreatedAt, &word.UpdatedAt)
}

// Update modifies an existing vocabulary word
func (r *WordRepository) Update(ctx context.Context, word *models.VocabularyWord) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE words SET
			term = $1,
			translation = $2,
			category = $3,
			example_sentence = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5`,
		word.Term, word.Translation, word.Category, word.ExampleSentence, word.ID)
	if err != nil {
		return fmt.Errorf("failed to update word: %v", err)
	}
	return nil
}

// ListByCategory returns the vocabulary words in a category
func (r *WordRepository) ListByCategory(ctx context.Context, category string) ([]models.VocabularyWord, error) {
	words := []models.VocabularyWord{}
	err := r.db.SelectContext(ctx, &words,
		"SELECT * FROM words WHERE category = $1 ORDER BY term", category)
	if err != nil {
		return nil, fmt.Errorf("failed to list words: %v", err)
	}
	return words, nil
}

// All returns the entire vocabulary list
func (r *WordRepository) All(ctx context.Context) ([]models.VocabularyWord, error) {
	words := []models.VocabularyWord{}
	err := r.db.SelectContext(ctx, &words, "SELECT * FROM words ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %v", err)
	}
	return words, nil
}
