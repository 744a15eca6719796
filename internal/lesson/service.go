package lesson

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/myglish/internal/database"
	"github.com/example/myglish/internal/logger"
	"github.com/example/myglish/pkg/models"
	"github.com/google/uuid"
)

type lessonRepo interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	Search(ctx context.Context, query string) ([]*models.Lesson, error)
}

type wordRepo interface {
	GetByWord(ctx context.Context, word string) (*models.VocabularyWord, error)
}

// Service saves lesson drafts and answers lesson queries
type Service struct {
	lessons lessonRepo
	words   wordRepo
	log     *logger.Logger
}

// NewService creates a new lesson service
func NewService(lessons lessonRepo, words wordRepo, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{lessons: lessons, words: words, log: log}
}

// AddWord adds a word to the draft after checking that no other lesson
// already owns the same spelling.
func (s *Service) AddWord(ctx context.Context, d *Draft, word, translation string) error {
	existing, err := s.words.GetByWord(ctx, strings.TrimSpace(word))
	switch {
	case errors.Is(err, database.ErrNotFound):
	case err != nil:
		return fmt.Errorf("failed to check word: %w", err)
	case !d.ownsWord(existing):
		return &database.DuplicateWordError{Word: existing.Word}
	}
	return d.AddWord(word, translation)
}

// Save creates or updates the lesson described by the draft. On failure the
// draft is untouched and can be saved again.
func (s *Service) Save(ctx context.Context, d *Draft) (*models.Lesson, error) {
	if !d.CanSave() {
		return nil, &database.ValidationError{Field: "topic", Message: "must not be blank"}
	}

	l := d.Lesson()
	if d.IsNew() {
		if err := s.lessons.Create(ctx, l); err != nil {
			s.log.Warn("lesson not created", "topic", l.Topic, "error", err)
			return nil, err
		}
		d.lessonID = l.ID
		s.log.Info("lesson created", "id", l.ID, "topic", l.Topic, "words", l.WordCount())
	} else {
		if err := s.lessons.Update(ctx, l); err != nil {
			s.log.Warn("lesson not updated", "id", l.ID, "error", err)
			return nil, err
		}
		s.log.Info("lesson updated", "id", l.ID, "topic", l.Topic, "words", l.WordCount())
	}

	d.removed = map[string]WordDraft{}
	for i, w := range l.Vocabulary {
		d.Words[i].ID = w.ID
	}
	return l, nil
}

// Delete removes a lesson; its words become orphans
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.lessons.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("lesson deleted", "id", id)
	return nil
}

// Get returns a lesson with its vocabulary
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	return s.lessons.GetByID(ctx, id)
}

// Edit loads a lesson into a draft for editing
func (s *Service) Edit(ctx context.Context, id uuid.UUID) (*Draft, error) {
	l, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return EditDraft(l), nil
}

// Search lists lessons whose topic matches query, most recent first
func (s *Service) Search(ctx context.Context, query string) ([]*models.Lesson, error) {
	return s.lessons.Search(ctx, query)
}
