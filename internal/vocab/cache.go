// Package vocab provides an in-memory keyed cache of vocabulary words for
// O(1) lookups during a study session.
package vocab

import (
	"errors"
	"fmt"
	"sync"

	"github.com/example/leitbot/pkg/models"
)

// ErrInvalidArgument is returned when a word identifier is not positive
var ErrInvalidArgument = errors.New("vocab: invalid argument")

// Cache maps word identifiers to vocabulary words. Safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	words map[int64]models.VocabularyWord
}

// NewCache returns an empty cache
func NewCache() *Cache {
	return &Cache{words: make(map[int64]models.VocabularyWord)}
}

// Put stores a word under its identifier, replacing any previous value
func (c *Cache) Put(wordID int64, word models.VocabularyWord) error {
	if wordID <= 0 {
		return fmt.Errorf("%w: word id must be positive, got %d", ErrInvalidArgument, wordID)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.words[wordID] = word
	return nil
}

// Get retrieves a word; ok is false when the word is not cached
func (c *Cache) Get(wordID int64) (models.VocabularyWord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	word, ok := c.words[wordID]
	return word, ok
}

// Remove drops a word from the cache; removing an absent word is a no-op
func (c *Cache) Remove(wordID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.words, wordID)
}

// Size returns the number of cached words
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.words)
}

// Clear empties the cache
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.words = make(map[int64]models.VocabularyWord)
}
