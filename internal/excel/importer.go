// Package excel imports vocabulary words from Excel or CSV files into the
// word store.
package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/leitbot/internal/database"
	"github.com/example/leitbot/pkg/models"
)

// WordStore is the storage surface the importer needs
type WordStore interface {
	GetByTerm(ctx context.Context, term string) (*models.VocabularyWord, error)
	Create(ctx context.Context, word *models.VocabularyWord) error
	Update(ctx context.Context, word *models.VocabularyWord) error
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	TermColumn        string // Column with the term
	TranslationColumn string // Column with the translation
	CategoryColumn    string // Column with the category
	ExampleColumn     string // Column with the example sentence
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TermColumn:        "A",
		TranslationColumn: "B",
		CategoryColumn:    "C",
		ExampleColumn:     "D",
		SheetName:         "Sheet1",
		StartRow:          2, // Skip the header row
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportWords imports vocabulary from an Excel or CSV file
func ImportWords(ctx context.Context, config ImportConfig, store WordStore) (*ImportResult, error) {
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		return importFromCSV(ctx, config, store)
	}
	return importFromExcel(ctx, config, store)
}

// importFromExcel imports words from an Excel file
func importFromExcel(ctx context.Context, config ImportConfig, store WordStore) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	columns := columnIndexes(config)

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++
		if err := processRow(ctx, row, columns, store, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}
	return result, nil
}

// importFromCSV imports words from a CSV file. Columns are positional:
// term, translation, category, example sentence.
func importFromCSV(ctx context.Context, config ImportConfig, store WordStore) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}
	columns := [4]int{0, 1, 2, 3}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++
		if err := processRow(ctx, row, columns, store, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}
	return result, nil
}

// processRow creates or updates a single vocabulary word
func processRow(ctx context.Context, row []string, columns [4]int, store WordStore, result *ImportResult) error {
	term := cell(row, columns[0])
	translation := cell(row, columns[1])
	if term == "" || translation == "" {
		result.Skipped++
		return nil
	}

	category := cell(row, columns[2])
	if category == "" {
		category = "General"
	}
	example := cell(row, columns[3])

	existing, err := store.GetByTerm(ctx, term)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("failed to look up word: %v", err)
	}

	if existing != nil {
		existing.Translation = translation
		existing.Category = category
		existing.ExampleSentence = example
		if err := store.Update(ctx, existing); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	word := &models.VocabularyWord{
		Term:            term,
		Translation:     translation,
		Category:        category,
		ExampleSentence: example,
	}
	if err := store.Create(ctx, word); err != nil {
		return err
	}
	result.Created++
	return nil
}

// columnIndexes resolves the configured column letters to zero-based
// indexes into a row
func columnIndexes(config ImportConfig) [4]int {
	return [4]int{
		columnIndex(config.TermColumn),
		columnIndex(config.TranslationColumn),
		columnIndex(config.CategoryColumn),
		columnIndex(config.ExampleColumn),
	}
}

func columnIndex(letter string) int {
	idx, err := excelize.ColumnNameToNumber(strings.ToUpper(strings.TrimSpace(letter)))
	if err != nil {
		return 0
	}
	return idx - 1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
