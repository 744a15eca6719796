// Package cli is the command-line front end. Every command re-reads the
// store, so output always reflects the latest save.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/example/myglish/internal/config"
	"github.com/example/myglish/internal/database"
	"github.com/example/myglish/internal/dictionary"
	"github.com/example/myglish/internal/lesson"
	"github.com/example/myglish/internal/logger"
	"github.com/example/myglish/internal/scheduler"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// ErrUsage is returned for an unknown command or bad arguments
var ErrUsage = errors.New("usage")

// App wires the services to the terminal
type App struct {
	lessonRepo *database.LessonRepository
	wordRepo   *database.WordRepository
	lessons    *lesson.Service
	dict       *dictionary.Service
	backup     *scheduler.Backup

	backupInterval time.Duration
	seed           int64
	now            func() time.Time

	in  io.Reader
	out io.Writer
	log *logger.Logger
}

// New builds the application on an open store
func New(store *database.Store, cfg *config.Config, log *logger.Logger, in io.Reader, out io.Writer) *App {
	lessonRepo := database.NewLessonRepository(store)
	wordRepo := database.NewWordRepository(store)
	return &App{
		lessonRepo:     lessonRepo,
		wordRepo:       wordRepo,
		lessons:        lesson.NewService(lessonRepo, wordRepo, log),
		dict:           dictionary.NewService(lessonRepo, wordRepo),
		backup:         scheduler.NewBackup(lessonRepo, wordRepo, cfg.Backup.Dir, cfg.Backup.Keep, log),
		backupInterval: cfg.Backup.Interval,
		seed:           cfg.Trainer.Seed,
		now:            time.Now,
		in:             in,
		out:            out,
		log:            log,
	}
}

type command struct {
	name string
	args string
	help string
	run  func(a *App, ctx context.Context, args []string) error
}

func commands() []command {
	return []command{
		{"lessons", "[-q query]", "list lessons, most recent first", (*App).runLessons},
		{"show", "<id>", "show a lesson and its words", (*App).runShow},
		{"add", "-topic T [-date D] [-duration M] [-word w=t ...]", "record a lesson", (*App).runAdd},
		{"edit", "<id> [flags of add] [-remove w ...]", "change a lesson", (*App).runEdit},
		{"delete", "<id>", "delete a lesson, keeping its words", (*App).runDelete},
		{"dictionary", "[-q query]", "words grouped by lesson day", (*App).runDictionary},
		{"train", "", "flashcards: f flip, n next, s shuffle, q quit", (*App).runTrain},
		{"import", "-file F -topic T [-date D]", "create a lesson from a spreadsheet", (*App).runImport},
		{"export", "[-file F]", "write the dictionary to a workbook", (*App).runExport},
		{"orphans", "[-delete]", "words whose lesson was deleted", (*App).runOrphans},
		{"backup", "[-once]", "write workbook snapshots periodically", (*App).runBackup},
	}
}

// Run executes the command named by args[0]
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.Usage()
		return ErrUsage
	}
	for _, c := range commands() {
		if c.name == args[0] {
			err := c.run(a, ctx, args[1:])
			if err != nil && !errors.Is(err, ErrUsage) {
				a.log.With("command", c.name).Error("command failed", "error", err)
			}
			return err
		}
	}
	fmt.Fprintf(a.out, "unknown command %q\n", args[0])
	a.Usage()
	return ErrUsage
}

// Usage prints the command summary
func (a *App) Usage() {
	fmt.Fprintln(a.out, "usage: myglish <command> [arguments]")
	fmt.Fprintln(a.out)
	for _, c := range commands() {
		fmt.Fprintf(a.out, "  %-10s %s\n", c.name, c.args)
		fmt.Fprintf(a.out, "  %-10s %s\n", "", c.help)
	}
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

func (a *App) rng() *rand.Rand {
	seed := a.seed
	if seed == 0 {
		seed = a.now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// listFlag collects a repeated flag
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func parseID(args []string) (uuid.UUID, []string, error) {
	if len(args) == 0 {
		return uuid.Nil, nil, fmt.Errorf("%w: lesson id required", ErrUsage)
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("%w: invalid lesson id %q", ErrUsage, args[0])
	}
	return id, args[1:], nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must look like %s", ErrUsage, s, dateLayout)
	}
	return t, nil
}

func parsePair(s string) (string, string, error) {
	word, translation, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", fmt.Errorf("%w: word %q must look like word=translation", ErrUsage, s)
	}
	return word, translation, nil
}
