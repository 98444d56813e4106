package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/leitbot/internal/database"
	"github.com/example/leitbot/pkg/models"
)

// fakeWordStore keeps words keyed by term
type fakeWordStore struct {
	words   map[string]models.VocabularyWord
	nextID  int64
	updates int
}

func newFakeWordStore() *fakeWordStore {
	return &fakeWordStore{words: make(map[string]models.VocabularyWord)}
}

func (s *fakeWordStore) GetByTerm(_ context.Context, term string) (*models.VocabularyWord, error) {
	w, ok := s.words[term]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &w, nil
}

func (s *fakeWordStore) Create(_ context.Context, word *models.VocabularyWord) error {
	s.nextID++
	word.ID = s.nextID
	s.words[word.Term] = *word
	return nil
}

func (s *fakeWordStore) Update(_ context.Context, word *models.VocabularyWord) error {
	s.words[word.Term] = *word
	s.updates++
	return nil
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportWordsFromCSV(t *testing.T) {
	csv := "term,translation,category,example\n" +
		"hello,hallo,Greetings,hello there\n" +
		"cat,Katze,Animals,the cat sleeps\n" +
		"dog,Hund,,\n"

	store := newFakeWordStore()
	config := DefaultImportConfig()
	config.FilePath = writeCSV(t, csv)

	result, err := ImportWords(context.Background(), config, store)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)

	cat := store.words["cat"]
	assert.Equal(t, "Katze", cat.Translation)
	assert.Equal(t, "Animals", cat.Category)

	// Missing category falls back to the default
	assert.Equal(t, "General", store.words["dog"].Category)
}

func TestImportWordsUpdatesExisting(t *testing.T) {
	store := newFakeWordStore()
	require.NoError(t, store.Create(context.Background(), &models.VocabularyWord{
		Term:        "cat",
		Translation: "chat",
		Category:    "Animals",
	}))

	config := DefaultImportConfig()
	config.FilePath = writeCSV(t, "term,translation\ncat,Katze\n")

	result, err := ImportWords(context.Background(), config, store)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, store.updates)
	assert.Equal(t, "Katze", store.words["cat"].Translation)
}

func TestImportWordsSkipsIncompleteRows(t *testing.T) {
	csv := "term,translation\n" +
		"hello,hallo\n" +
		",missing term\n" +
		"missing translation,\n"

	store := newFakeWordStore()
	config := DefaultImportConfig()
	config.FilePath = writeCSV(t, csv)

	result, err := ImportWords(context.Background(), config, store)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Skipped)
}

func TestImportWordsMissingFile(t *testing.T) {
	config := DefaultImportConfig()
	config.FilePath = filepath.Join(t.TempDir(), "absent.csv")

	_, err := ImportWords(context.Background(), config, newFakeWordStore())
	assert.Error(t, err)
}
