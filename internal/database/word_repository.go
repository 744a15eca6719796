package database

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/example/myglish/pkg/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var wordColumns = []string{"id", "word", "translation", "date_added", "lesson_id", "created_at", "updated_at"}

// WordRepository handles database operations for vocabulary words
type WordRepository struct {
	store *Store
}

// NewWordRepository creates a new repository instance
func NewWordRepository(store *Store) *WordRepository {
	return &WordRepository{store: store}
}

// All returns every stored word, orphans included, ordered by word
func (r *WordRepository) All(ctx context.Context) ([]*models.VocabularyWord, error) {
	return selectWords(ctx, r.store.DB, sq.Select(wordColumns...).From("words").OrderBy("word ASC"))
}

// ByLesson returns the words pointing back at the given lesson
func (r *WordRepository) ByLesson(ctx context.Context, lessonID uuid.UUID) ([]*models.VocabularyWord, error) {
	return wordsByLessons(ctx, r.store.DB, []uuid.UUID{lessonID})
}

// Orphans returns words whose lesson has been deleted or that were detached
func (r *WordRepository) Orphans(ctx context.Context) ([]*models.VocabularyWord, error) {
	return selectWords(ctx, r.store.DB, sq.Select(wordColumns...).
		From("words").
		Where(sq.Eq{"lesson_id": nil}).
		OrderBy("word ASC"))
}

// GetByWord returns the word with the exact spelling
func (r *WordRepository) GetByWord(ctx context.Context, word string) (*models.VocabularyWord, error) {
	words, err := selectWords(ctx, r.store.DB, sq.Select(wordColumns...).
		From("words").
		Where(sq.Eq{"word": word}))
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word %s: %w", word, ErrNotFound)
	}
	return words[0], nil
}

// Delete removes a single word
func (r *WordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.RunInTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM words WHERE id = ?", id)
		if err != nil {
			return mapError(err, "word", id.String())
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to delete word: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("word %s: %w", id, ErrNotFound)
		}
		r.store.log.Debug("word deleted", "id", id)
		return nil
	})
}

// DeleteOrphans removes every word without a lesson and returns how many went
func (r *WordRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	var removed int64
	err := r.store.RunInTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM words WHERE lesson_id IS NULL")
		if err != nil {
			return fmt.Errorf("failed to delete orphan words: %w", err)
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	r.store.log.Debug("orphan words deleted", "count", removed)
	return removed, nil
}

func selectWords(ctx context.Context, q sqlx.QueryerContext, b sq.SelectBuilder) ([]*models.VocabularyWord, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build words query: %w", err)
	}
	words := []*models.VocabularyWord{}
	if err := sqlx.SelectContext(ctx, q, &words, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	return words, nil
}

func wordsByLessons(ctx context.Context, q sqlx.QueryerContext, lessonIDs []uuid.UUID) ([]*models.VocabularyWord, error) {
	if len(lessonIDs) == 0 {
		return []*models.VocabularyWord{}, nil
	}
	return selectWords(ctx, q, sq.Select(wordColumns...).
		From("words").
		Where(sq.Eq{"lesson_id": idStrings(lessonIDs)}).
		OrderBy("created_at ASC", "word ASC"))
}

// upsertWord inserts the word or rewrites the stored row with the same id.
func upsertWord(ctx context.Context, e sqlx.ExecerContext, w *models.VocabularyWord, now time.Time) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	_, err := e.ExecContext(ctx, `
		INSERT INTO words (id, word, translation, date_added, lesson_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			word = excluded.word,
			translation = excluded.translation,
			lesson_id = excluded.lesson_id,
			updated_at = excluded.updated_at
	`, w.ID, w.Word, w.Translation, w.DateAdded.UTC(), w.LessonID, now, now)
	if err != nil {
		return mapWordError(err, w.Word)
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
	return nil
}

// detachWords clears the lesson back-reference of the given words.
func detachWords(ctx context.Context, e sqlx.ExecerContext, ids []uuid.UUID, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sq.Update("words").
		Set("lesson_id", nil).
		Set("updated_at", now).
		Where(sq.Eq{"id": idStrings(ids)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build detach query: %w", err)
	}
	if _, err := e.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to detach words: %w", err)
	}
	return nil
}

// idStrings renders ids as text; squirrel would expand a bare uuid.UUID
// array into sixteen placeholders.
func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
