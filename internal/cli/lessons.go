package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/example/myglish/internal/database"
	"github.com/example/myglish/internal/lesson"
	"github.com/example/myglish/pkg/models"
)

func (a *App) runLessons(ctx context.Context, args []string) error {
	fs := a.flagSet("lessons")
	query := fs.String("q", "", "filter by topic")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	lessons, err := a.lessons.Search(ctx, *query)
	if err != nil {
		return err
	}
	if len(lessons) == 0 {
		if strings.TrimSpace(*query) == "" {
			fmt.Fprintln(a.out, "no lessons yet")
		} else {
			fmt.Fprintf(a.out, "no lessons match %q\n", *query)
		}
		return nil
	}
	for _, l := range lessons {
		fmt.Fprintf(a.out, "%s  %-30s %3d min  %2d words  %s\n",
			l.Date.Format(dateLayout), l.Topic, l.DurationInMinutes, l.WordCount(), l.ID)
	}
	return nil
}

func (a *App) runShow(ctx context.Context, args []string) error {
	id, _, err := parseID(args)
	if err != nil {
		return err
	}
	l, err := a.lessons.Get(ctx, id)
	if err != nil {
		return err
	}
	a.printLesson(l)
	return nil
}

func (a *App) printLesson(l *models.Lesson) {
	fmt.Fprintf(a.out, "%s\n", l.Topic)
	fmt.Fprintf(a.out, "id:        %s\n", l.ID)
	fmt.Fprintf(a.out, "date:      %s\n", l.Date.Format(dateLayout))
	fmt.Fprintf(a.out, "duration:  %d min\n", l.DurationInMinutes)
	if l.GrammarTopics != nil {
		fmt.Fprintf(a.out, "grammar:   %s\n", *l.GrammarTopics)
	}
	if l.Homework != nil {
		fmt.Fprintf(a.out, "homework:  %s\n", *l.Homework)
	}
	if l.Notes != nil {
		fmt.Fprintf(a.out, "notes:     %s\n", *l.Notes)
	}
	fmt.Fprintf(a.out, "words (%d):\n", l.WordCount())
	for _, w := range l.SortedVocabulary() {
		fmt.Fprintf(a.out, "  %s - %s\n", w.Word, w.Translation)
	}
}

// lessonFlags are the form fields shared by add and edit
type lessonFlags struct {
	topic    *string
	date     *string
	duration *int
	grammar  *string
	homework *string
	notes    *string
	words    listFlag
}

func bindLessonFlags(fs *flag.FlagSet) *lessonFlags {
	f := &lessonFlags{
		topic:    fs.String("topic", "", "lesson topic"),
		date:     fs.String("date", "", "lesson date, "+dateLayout),
		duration: fs.Int("duration", lesson.DefaultDuration, "duration in minutes"),
		grammar:  fs.String("grammar", "", "grammar topics"),
		homework: fs.String("homework", "", "homework"),
		notes:    fs.String("notes", "", "notes"),
	}
	fs.Var(&f.words, "word", "word=translation, repeatable")
	return f
}

// apply copies the flags that were given on the command line into the draft
func (f *lessonFlags) apply(fs *flag.FlagSet, d *lesson.Draft) error {
	var err error
	fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "topic":
			d.Topic = *f.topic
		case "date":
			var t time.Time
			if t, err = parseDate(*f.date); err == nil {
				d.SetDate(t)
			}
		case "duration":
			d.SetDuration(*f.duration)
		case "grammar":
			d.GrammarTopics = *f.grammar
		case "homework":
			d.Homework = *f.homework
		case "notes":
			d.Notes = *f.notes
		}
	})
	return err
}

func (a *App) addWords(ctx context.Context, d *lesson.Draft, pairs []string) error {
	for _, p := range pairs {
		word, translation, err := parsePair(p)
		if err != nil {
			return err
		}
		if err := a.lessons.AddWord(ctx, d, word, translation); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) runAdd(ctx context.Context, args []string) error {
	fs := a.flagSet("add")
	f := bindLessonFlags(fs)
	if err := a.parse(fs, args); err != nil {
		return err
	}

	d := lesson.NewDraft(a.now())
	if err := f.apply(fs, d); err != nil {
		return err
	}
	if !d.CanSave() {
		return fmt.Errorf("%w: -topic is required", ErrUsage)
	}
	if err := a.addWords(ctx, d, f.words); err != nil {
		return describe(err)
	}

	l, err := a.lessons.Save(ctx, d)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "created lesson %s (%d words)\n", l.ID, l.WordCount())
	return nil
}

func (a *App) runEdit(ctx context.Context, args []string) error {
	id, rest, err := parseID(args)
	if err != nil {
		return err
	}
	fs := a.flagSet("edit")
	f := bindLessonFlags(fs)
	var remove listFlag
	fs.Var(&remove, "remove", "word to drop from the lesson, repeatable")
	if err := a.parse(fs, rest); err != nil {
		return err
	}

	d, err := a.lessons.Edit(ctx, id)
	if err != nil {
		return err
	}
	if err := f.apply(fs, d); err != nil {
		return err
	}
	for _, w := range remove {
		if !d.RemoveWord(strings.TrimSpace(w)) {
			return fmt.Errorf("word %q is not in this lesson: %w", w, database.ErrNotFound)
		}
	}
	if err := a.addWords(ctx, d, f.words); err != nil {
		return describe(err)
	}

	l, err := a.lessons.Save(ctx, d)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "updated lesson %s (%d words)\n", l.ID, l.WordCount())
	return nil
}

func (a *App) runDelete(ctx context.Context, args []string) error {
	id, _, err := parseID(args)
	if err != nil {
		return err
	}
	if err := a.lessons.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted lesson %s\n", id)
	return nil
}

// describe rewords store errors the user can fix
func describe(err error) error {
	var dup *database.DuplicateWordError
	if errors.As(err, &dup) {
		return fmt.Errorf("%q is already in your dictionary, choose another spelling: %w", dup.Word, err)
	}
	return err
}
