package excel

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/myglish/internal/dictionary"
	"github.com/example/myglish/pkg/models"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet = "Sheet1"
	dateLayout  = "2006-01-02"
)

var exportHeader = []interface{}{"Date", "Topic", "Word", "Translation"}

// ExportResult counts the rows written to the workbook
type ExportResult struct {
	Words   int
	Orphans int
}

// ExportDictionary writes the dictionary to an xlsx workbook at path, one row
// per word in dictionary order. Words whose lesson was deleted follow at the
// end without a date or topic.
func ExportDictionary(path string, lessons []*models.Lesson, words []*models.VocabularyWord) (*ExportResult, error) {
	topics := make(map[uuid.UUID]string, len(lessons))
	for _, l := range lessons {
		topics[l.ID] = l.Topic
	}

	f := excelize.NewFile()
	defer f.Close()

	row := 1
	if err := setRow(f, row, exportHeader); err != nil {
		return nil, err
	}

	result := &ExportResult{}
	dict := dictionary.Build(lessons, words, "")
	for _, g := range dict.Groups {
		for _, w := range g.Words {
			row++
			values := []interface{}{g.Day.Format(dateLayout), topics[w.LessonID.UUID], w.Word, w.Translation}
			if err := setRow(f, row, values); err != nil {
				return nil, err
			}
			result.Words++
		}
	}

	for _, w := range words {
		if !w.IsOrphan() {
			continue
		}
		row++
		if err := setRow(f, row, []interface{}{"", "", w.Word, w.Translation}); err != nil {
			return nil, err
		}
		result.Orphans++
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}
	return result, nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
