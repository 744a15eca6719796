package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	WordColumn        string // Column with the word
	TranslationColumn string // Column with the translation
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:        "A",
		TranslationColumn: "B",
		SheetName:         "Sheet1",
		StartRow:          2, // skip header
	}
}

// AddFunc receives every word read from the file. A returned error is
// recorded against the row and the import goes on.
type AddFunc func(word, translation string) error

// RowError is a row that could not be imported
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Added          int
	Skipped        int
	Errors         []RowError
}

// ErrMissingTranslation is reported for rows that only name a word
var ErrMissingTranslation = errors.New("translation cannot be empty")

// ImportWords reads word/translation pairs from an Excel or CSV file
func ImportWords(config ImportConfig, add AddFunc) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	switch ext {
	case ".csv":
		return importFromCSV(config, add)
	case ".xlsx", ".xlsm":
		return importFromExcel(config, add)
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

func importFromExcel(config ImportConfig, add AddFunc) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ImportResult{Errors: []RowError{}}
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		processRow(row, config, add, result, i+1)
	}
	return result, nil
}

func importFromCSV(config ImportConfig, add AddFunc) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	result := &ImportResult{Errors: []RowError{}}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		processRow(row, config, add, result, rowNum)
	}
	return result, nil
}

// processRow handles one row from either source
func processRow(row []string, config ImportConfig, add AddFunc, result *ImportResult, rowNum int) {
	var word, translation string
	if colIdx := columnToIndex(config.WordColumn); colIdx >= 0 && colIdx < len(row) {
		word = strings.TrimSpace(row[colIdx])
	}
	if colIdx := columnToIndex(config.TranslationColumn); colIdx >= 0 && colIdx < len(row) {
		translation = strings.TrimSpace(row[colIdx])
	}

	if word == "" && translation == "" {
		result.Skipped++
		return
	}

	result.TotalProcessed++
	if translation == "" {
		result.Errors = append(result.Errors, RowError{Row: rowNum, Err: ErrMissingTranslation})
		return
	}
	if err := add(word, translation); err != nil {
		result.Errors = append(result.Errors, RowError{Row: rowNum, Err: err})
		return
	}
	result.Added++
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for i := 0; i < len(column); i++ {
		if column[i] < 'A' || column[i] > 'Z' {
			return -1
		}
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
