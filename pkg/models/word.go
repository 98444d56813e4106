package models

import "time"

// VocabularyWord is one entry in the master vocabulary list
type VocabularyWord struct {
	ID              int64     `json:"id" db:"id"`
	Term            string    `json:"term" db:"term"`
	Translation     string    `json:"translation" db:"translation"`
	Category        string    `json:"category" db:"category"`
	ExampleSentence string    `json:"example_sentence" db:"example_sentence"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// FlashcardSet groups a learner's cards
type FlashcardSet struct {
	ID        int64     `json:"id" db:"id"`
	LearnerID int64     `json:"learner_id" db:"learner_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
