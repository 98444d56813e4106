// Package leaderboard ranks learner summaries with an explicit merge sort.
// The multi-key tie-break (points, then streak) is a product rule, so the
// sort is hand-written and testable rather than delegated to sort.Slice.
package leaderboard

import (
	"github.com/example/leitbot/pkg/models"
)

// Rank sorts summaries descending by total points, breaking ties by current
// streak descending. Learners equal on both keys keep their input order.
// Merge sort: O(n log n) time, O(n) auxiliary space, stable.
// The input slice is not modified.
func Rank(summaries []models.LearnerSummary) []models.LearnerSummary {
	ranked := make([]models.LearnerSummary, len(summaries))
	copy(ranked, summaries)
	return mergeSort(ranked)
}

// RankOf returns the 1-based position of a learner in an already ranked
// sequence, or false when the learner is absent from the snapshot.
func RankOf(learnerID int64, ranked []models.LearnerSummary) (int, bool) {
	for i, s := range ranked {
		if s.LearnerID == learnerID {
			return i + 1, true
		}
	}
	return 0, false
}

// Top returns the leading n entries of a ranked sequence
func Top(ranked []models.LearnerSummary, n int) []models.LearnerSummary {
	if n > len(ranked) {
		n = len(ranked)
	}
	if n < 0 {
		n = 0
	}
	return ranked[:n]
}

func mergeSort(s []models.LearnerSummary) []models.LearnerSummary {
	if len(s) <= 1 {
		return s
	}
	mid := len(s) / 2
	left := mergeSort(s[:mid])
	right := mergeSort(s[mid:])
	return merge(left, right)
}

// merge combines two sorted halves, preferring the left element on full
// ties so the overall sort stays stable.
func merge(left, right []models.LearnerSummary) []models.LearnerSummary {
	result := make([]models.LearnerSummary, 0, len(left)+len(right))
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		if outranksOrTies(left[i], right[j]) {
			result = append(result, left[i])
			i++
		} else {
			result = append(result, right[j])
			j++
		}
	}
	result = append(result, left[i:]...)
	result = append(result, right[j:]...)
	return result
}

// outranksOrTies reports whether a should come no later than b:
// higher points first, then longer streak.
func outranksOrTies(a, b models.LearnerSummary) bool {
	if a.TotalPoints != b.TotalPoints {
		return a.TotalPoints > b.TotalPoints
	}
	return a.CurrentStreak >= b.CurrentStreak
}
