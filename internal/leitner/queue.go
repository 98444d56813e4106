package leitner

import (
	"fmt"

	"github.com/example/leitbot/pkg/models"
)

// ReviewQueue is a strict FIFO buffer of cards awaiting presentation in a
// single study session. It never reorders: ordering belongs to whoever
// fills it, typically from SelectDue output. The queue decouples the
// due-card snapshot from the stepped sequence shown to the learner.
//
// Not safe for concurrent use; a session is driven by one goroutine.
type ReviewQueue struct {
	cards []models.Card
	head  int
}

// NewReviewQueue returns an empty queue
func NewReviewQueue() *ReviewQueue {
	return &ReviewQueue{}
}

// Enqueue appends a card to the back of the queue
func (q *ReviewQueue) Enqueue(card *models.Card) error {
	if card == nil {
		return fmt.Errorf("%w: cannot enqueue nil card", ErrInvalidArgument)
	}
	q.cards = append(q.cards, *card)
	return nil
}

// Dequeue removes and returns the front card, or nil when empty
func (q *ReviewQueue) Dequeue() *models.Card {
	if q.IsEmpty() {
		return nil
	}
	card := q.cards[q.head]
	q.head++
	// Release the backing array once fully drained
	if q.head == len(q.cards) {
		q.cards = nil
		q.head = 0
	}
	return &card
}

// Peek returns the front card without removing it, or nil when empty
func (q *ReviewQueue) Peek() *models.Card {
	if q.IsEmpty() {
		return nil
	}
	card := q.cards[q.head]
	return &card
}

// IsEmpty reports whether the queue holds no cards
func (q *ReviewQueue) IsEmpty() bool {
	return q.head >= len(q.cards)
}

// Size returns the number of cards in the queue
func (q *ReviewQueue) Size() int {
	return len(q.cards) - q.head
}

// Clear empties the queue
func (q *ReviewQueue) Clear() {
	q.cards = nil
	q.head = 0
}
