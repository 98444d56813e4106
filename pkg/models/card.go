package models

import "time"

// Card tracks one learner's progress with a single vocabulary word inside
// a flashcard set, using the Leitner 5-box system
type Card struct {
	ID             int64      `json:"id" db:"id"`
	LearnerID      int64      `json:"learner_id" db:"learner_id"`
	WordID         int64      `json:"word_id" db:"word_id"`
	SetID          int64      `json:"set_id" db:"set_id"`
	BoxLevel       int        `json:"box_level" db:"box_level"`             // 1-5 position in the Leitner scheme
	WeightedScore  float64    `json:"weighted_score" db:"weighted_score"`   // Signed accumulator of review quality
	TotalReviews   int        `json:"total_reviews" db:"total_reviews"`     // Number of reviews applied
	NextReviewAt   time.Time  `json:"next_review_at" db:"next_review_at"`   // When the card is next due
	IsMastered     bool       `json:"is_mastered" db:"is_mastered"`         // True once the card reaches box 5
	LastReviewedAt *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// NewCard returns a fresh card in box 1, due immediately
func NewCard(learnerID, wordID, setID int64, now time.Time) Card {
	return Card{
		LearnerID:    learnerID,
		WordID:       wordID,
		SetID:        setID,
		BoxLevel:     1,
		NextReviewAt: now,
	}
}
