package models

// LearnerSummary is the immutable ranking input: a snapshot of one learner's
// totals taken at query time
type LearnerSummary struct {
	LearnerID     int64  `json:"learner_id" db:"learner_id"`
	Username      string `json:"username" db:"username"`
	TotalPoints   int    `json:"total_points" db:"total_points"`
	CurrentStreak int    `json:"current_streak" db:"current_streak"`
}

// LearnerRank is the answer to a self-rank lookup
type LearnerRank struct {
	LearnerID     int64 `json:"learner_id"`
	Rank          int   `json:"rank"` // 1-based position
	TotalPoints   int   `json:"total_points"`
	TotalLearners int   `json:"total_learners"`
}
