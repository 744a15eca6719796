package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/example/myglish/internal/excel"
	"github.com/example/myglish/internal/logger"
	"github.com/example/myglish/pkg/models"
)

const (
	snapshotPrefix = "myglish-"
	snapshotExt    = ".xlsx"
	snapshotLayout = "20060102-150405.000"
)

type lessonLister interface {
	List(ctx context.Context) ([]*models.Lesson, error)
}

type wordLister interface {
	All(ctx context.Context) ([]*models.VocabularyWord, error)
}

// Backup exports the dictionary into timestamped workbooks and keeps only
// the newest ones.
type Backup struct {
	lessons lessonLister
	words   wordLister
	dir     string
	keep    int
	now     func() time.Time
	log     *logger.Logger
}

// NewBackup creates a backup job writing into dir. keep <= 0 keeps every file.
func NewBackup(lessons lessonLister, words wordLister, dir string, keep int, log *logger.Logger) *Backup {
	if log == nil {
		log = logger.Nop()
	}
	return &Backup{
		lessons: lessons,
		words:   words,
		dir:     dir,
		keep:    keep,
		now:     func() time.Time { return time.Now().UTC() },
		log:     log,
	}
}

// RunOnce writes one snapshot, prunes old ones and returns the new file path
func (b *Backup) RunOnce(ctx context.Context) (string, error) {
	lessons, err := b.lessons.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load lessons: %w", err)
	}
	words, err := b.words.All(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load words: %w", err)
	}

	path := filepath.Join(b.dir, snapshotPrefix+b.now().Format(snapshotLayout)+snapshotExt)
	res, err := excel.ExportDictionary(path, lessons, words)
	if err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	b.log.Debug("snapshot exported", "path", path, "words", res.Words, "orphans", res.Orphans)

	if err := b.prune(); err != nil {
		return path, err
	}
	return path, nil
}

// Snapshots lists the snapshot files in dir, newest first
func (b *Backup) Snapshots() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		names = append(names, name)
	}
	// the timestamp layout sorts lexically
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (b *Backup) prune() error {
	if b.keep <= 0 {
		return nil
	}
	names, err := b.Snapshots()
	if err != nil {
		return err
	}
	for _, name := range names[min(b.keep, len(names)):] {
		if err := os.Remove(filepath.Join(b.dir, name)); err != nil {
			return fmt.Errorf("failed to remove old snapshot: %w", err)
		}
		b.log.Debug("snapshot removed", "file", name)
	}
	return nil
}
