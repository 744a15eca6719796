package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/example/myglish/internal/textmatch"
	"github.com/example/myglish/pkg/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var lessonColumns = []string{
	"id", "date", "topic", "duration_in_minutes",
	"grammar_topics", "homework", "notes", "created_at", "updated_at",
}

// LessonRepository handles database operations for lessons and keeps the
// lesson side and the word side of their relationship consistent.
type LessonRepository struct {
	store *Store
	now   func() time.Time
}

// NewLessonRepository creates a new repository instance
func NewLessonRepository(store *Store) *LessonRepository {
	return &LessonRepository{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts the lesson together with its vocabulary in one transaction.
// Every word is attached to the lesson before it is written.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if err := validateLesson(lesson); err != nil {
		return err
	}
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	lesson.Date = models.CalendarDate(lesson.Date)
	lesson.SetVocabulary(lesson.Vocabulary)
	for _, w := range lesson.Vocabulary {
		if w.DateAdded.IsZero() {
			w.DateAdded = lesson.Date
		}
		w.DateAdded = models.CalendarDate(w.DateAdded)
	}

	now := r.now()
	err := r.store.RunInTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO lessons (id, date, topic, duration_in_minutes, grammar_topics, homework, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, lesson.ID, lesson.Date.UTC(), lesson.Topic, lesson.DurationInMinutes,
			lesson.GrammarTopics, lesson.Homework, lesson.Notes, now, now)
		if err != nil {
			return mapError(err, "lesson", lesson.ID.String())
		}

		for _, w := range lesson.Vocabulary {
			if err := upsertWord(ctx, tx, w, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	lesson.CreatedAt = now
	lesson.UpdatedAt = now
	r.store.log.Debug("lesson created", "id", lesson.ID, "topic", lesson.Topic, "words", len(lesson.Vocabulary))
	return nil
}

// Update overwrites every field of a stored lesson and replaces its
// vocabulary with lesson.Vocabulary. Words that were attached before but are
// no longer listed become orphans.
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	if err := validateLesson(lesson); err != nil {
		return err
	}
	lesson.Date = models.CalendarDate(lesson.Date)
	lesson.SetVocabulary(lesson.Vocabulary)
	for _, w := range lesson.Vocabulary {
		if w.DateAdded.IsZero() {
			w.DateAdded = lesson.Date
		}
		w.DateAdded = models.CalendarDate(w.DateAdded)
	}

	now := r.now()
	err := r.store.RunInTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE lessons SET
				date = ?,
				topic = ?,
				duration_in_minutes = ?,
				grammar_topics = ?,
				homework = ?,
				notes = ?,
				updated_at = ?
			WHERE id = ?
		`, lesson.Date.UTC(), lesson.Topic, lesson.DurationInMinutes,
			lesson.GrammarTopics, lesson.Homework, lesson.Notes, now, lesson.ID)
		if err != nil {
			return mapError(err, "lesson", lesson.ID.String())
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("lesson %s: %w", lesson.ID, ErrNotFound)
		}

		current, err := wordsByLessons(ctx, tx, []uuid.UUID{lesson.ID})
		if err != nil {
			return err
		}
		keep := make(map[uuid.UUID]bool, len(lesson.Vocabulary))
		for _, w := range lesson.Vocabulary {
			keep[w.ID] = true
		}
		var removed []uuid.UUID
		for _, w := range current {
			if !keep[w.ID] {
				removed = append(removed, w.ID)
			}
		}
		// Words dropped from the list become orphans in this transaction.
		if err := detachWords(ctx, tx, removed, now); err != nil {
			return err
		}

		for _, w := range lesson.Vocabulary {
			if err := upsertWord(ctx, tx, w, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}

	lesson.UpdatedAt = now
	r.store.log.Debug("lesson updated", "id", lesson.ID, "words", len(lesson.Vocabulary))
	return nil
}

// Delete removes a lesson. Its words stay in the store with their lesson
// reference cleared.
func (r *LessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	now := r.now()
	err := r.store.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE words SET lesson_id = NULL, updated_at = ? WHERE lesson_id = ?", now, id); err != nil {
			return fmt.Errorf("failed to orphan words: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM lessons WHERE id = ?", id)
		if err != nil {
			return mapError(err, "lesson", id.String())
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("lesson %s: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}

	r.store.log.Debug("lesson deleted", "id", id)
	return nil
}

// GetByID returns a lesson with its vocabulary
func (r *LessonRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	lessons, err := r.selectLessons(ctx, sq.Select(lessonColumns...).
		From("lessons").
		Where(sq.Eq{"id": id.String()}))
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return nil, fmt.Errorf("lesson %s: %w", id, ErrNotFound)
	}
	return lessons[0], nil
}

// List returns all lessons, most recent first, with their vocabulary
func (r *LessonRepository) List(ctx context.Context) ([]*models.Lesson, error) {
	return r.selectLessons(ctx, sq.Select(lessonColumns...).
		From("lessons").
		OrderBy("date DESC", "created_at DESC"))
}

// Search returns lessons whose topic contains query, ignoring case.
// An empty query returns every lesson. Order is by date, most recent first.
func (r *LessonRepository) Search(ctx context.Context, query string) ([]*models.Lesson, error) {
	lessons, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	needle := textmatch.Normalize(query)
	if needle == "" {
		return lessons, nil
	}
	out := make([]*models.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if textmatch.Contains(l.Topic, needle) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *LessonRepository) selectLessons(ctx context.Context, b sq.SelectBuilder) ([]*models.Lesson, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lessons query: %w", err)
	}
	lessons := []*models.Lesson{}
	if err := sqlx.SelectContext(ctx, r.store.DB, &lessons, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get lessons: %w", err)
	}

	ids := make([]uuid.UUID, len(lessons))
	byID := make(map[uuid.UUID]*models.Lesson, len(lessons))
	for i, l := range lessons {
		l.Vocabulary = []*models.VocabularyWord{}
		ids[i] = l.ID
		byID[l.ID] = l
	}

	words, err := wordsByLessons(ctx, r.store.DB, ids)
	if err != nil {
		return nil, err
	}
	for _, w := range words {
		if l, ok := byID[w.LessonID.UUID]; ok {
			l.Vocabulary = append(l.Vocabulary, w)
		}
	}
	return lessons, nil
}

func validateLesson(l *models.Lesson) error {
	if strings.TrimSpace(l.Topic) == "" {
		return &ValidationError{Field: "topic", Message: "must not be blank"}
	}
	for _, w := range l.Vocabulary {
		if strings.TrimSpace(w.Word) == "" {
			return &ValidationError{Field: "word", Message: "must not be blank"}
		}
		if strings.TrimSpace(w.Translation) == "" {
			return &ValidationError{Field: "translation", Message: "must not be blank"}
		}
	}
	return nil
}
