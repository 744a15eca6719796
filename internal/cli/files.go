package cli

import (
	"context"
	"fmt"

	"github.com/example/myglish/internal/excel"
	"github.com/example/myglish/internal/lesson"
	"github.com/example/myglish/internal/scheduler"
)

func (a *App) runImport(ctx context.Context, args []string) error {
	fs := a.flagSet("import")
	file := fs.String("file", "", "xlsx or csv file with word and translation columns")
	topic := fs.String("topic", "", "topic of the new lesson")
	date := fs.String("date", "", "lesson date, "+dateLayout)
	sheet := fs.String("sheet", "Sheet1", "worksheet to read")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("%w: -file is required", ErrUsage)
	}

	d := lesson.NewDraft(a.now())
	d.Topic = *topic
	if !d.CanSave() {
		return fmt.Errorf("%w: -topic is required", ErrUsage)
	}
	if *date != "" {
		t, err := parseDate(*date)
		if err != nil {
			return err
		}
		d.SetDate(t)
	}

	cfg := excel.DefaultImportConfig()
	cfg.FilePath = *file
	cfg.SheetName = *sheet
	result, err := excel.ImportWords(cfg, func(word, translation string) error {
		return a.lessons.AddWord(ctx, d, word, translation)
	})
	if err != nil {
		return err
	}
	for _, rowErr := range result.Errors {
		fmt.Fprintf(a.out, "skipped %v\n", rowErr)
	}
	if result.Added == 0 {
		return fmt.Errorf("no words imported from %s", *file)
	}

	l, err := a.lessons.Save(ctx, d)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "created lesson %s with %d words (%d rows skipped)\n",
		l.ID, l.WordCount(), result.Skipped+len(result.Errors))
	return nil
}

func (a *App) runExport(ctx context.Context, args []string) error {
	fs := a.flagSet("export")
	file := fs.String("file", "myglish-dictionary.xlsx", "workbook to write")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	lessons, err := a.lessonRepo.List(ctx)
	if err != nil {
		return err
	}
	words, err := a.wordRepo.All(ctx)
	if err != nil {
		return err
	}
	result, err := excel.ExportDictionary(*file, lessons, words)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "exported %d words and %d orphans to %s\n", result.Words, result.Orphans, *file)
	return nil
}

func (a *App) runBackup(ctx context.Context, args []string) error {
	fs := a.flagSet("backup")
	once := fs.Bool("once", false, "write one snapshot and exit")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	if *once {
		path, err := a.backup.RunOnce(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "snapshot written to %s\n", path)
		return nil
	}

	s := scheduler.New(a.backup, a.backupInterval, a.log)
	if err := s.Start(ctx); err != nil {
		return err
	}
	defer s.Stop()
	fmt.Fprintf(a.out, "writing a snapshot every %s, press Ctrl+C to stop\n", a.backupInterval)
	<-ctx.Done()
	return nil
}
