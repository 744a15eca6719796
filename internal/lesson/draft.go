// Package lesson holds the editing workflow for lessons: an in-memory draft
// that mirrors the lesson form, and the service that persists it.
package lesson

import (
	"strings"
	"time"

	"github.com/example/myglish/internal/database"
	"github.com/example/myglish/pkg/models"
	"github.com/google/uuid"
)

// Duration limits offered by the lesson form
const (
	DefaultDuration = 60
	MinDuration     = 15
	MaxDuration     = 180
	DurationStep    = 15
)

// WordDraft is a word being composed inside a lesson draft
type WordDraft struct {
	ID          uuid.UUID // uuid.Nil until the word is stored
	Word        string
	Translation string
	DateAdded   time.Time
}

// Draft is the transient state of the lesson form. Nothing reaches the store
// until the draft is saved; dropping it is a cancel.
type Draft struct {
	lessonID uuid.UUID

	Topic             string
	Date              time.Time
	DurationInMinutes int
	GrammarTopics     string
	Homework          string
	Notes             string
	Words             []WordDraft

	removed map[string]WordDraft
}

// NewDraft starts a form for a new lesson dated today
func NewDraft(today time.Time) *Draft {
	return &Draft{
		Date:              models.CalendarDate(today),
		DurationInMinutes: DefaultDuration,
		Words:             []WordDraft{},
		removed:           map[string]WordDraft{},
	}
}

// EditDraft fills the form from a stored lesson
func EditDraft(l *models.Lesson) *Draft {
	d := &Draft{
		lessonID:          l.ID,
		Topic:             l.Topic,
		Date:              l.Date,
		DurationInMinutes: l.DurationInMinutes,
		GrammarTopics:     models.Value(l.GrammarTopics),
		Homework:          models.Value(l.Homework),
		Notes:             models.Value(l.Notes),
		Words:             make([]WordDraft, 0, len(l.Vocabulary)),
		removed:           map[string]WordDraft{},
	}
	for _, w := range l.Vocabulary {
		d.Words = append(d.Words, WordDraft{
			ID:          w.ID,
			Word:        w.Word,
			Translation: w.Translation,
			DateAdded:   w.DateAdded,
		})
	}
	return d
}

// LessonID returns the id of the lesson being edited, or uuid.Nil
func (d *Draft) LessonID() uuid.UUID {
	return d.lessonID
}

// IsNew reports whether saving creates a lesson rather than updating one
func (d *Draft) IsNew() bool {
	return d.lessonID == uuid.Nil
}

// CanSave is the gate for the save action: the topic must not be blank.
func (d *Draft) CanSave() bool {
	return strings.TrimSpace(d.Topic) != ""
}

// SetDate moves the lesson to the calendar day of t
func (d *Draft) SetDate(t time.Time) {
	d.Date = models.CalendarDate(t)
}

// SetDuration snaps minutes to the form's 15 minute steps within 15..180
func (d *Draft) SetDuration(minutes int) {
	if minutes < MinDuration {
		minutes = MinDuration
	}
	if minutes > MaxDuration {
		minutes = MaxDuration
	}
	d.DurationInMinutes = (minutes + DurationStep/2) / DurationStep * DurationStep
}

// AddWord appends a word to the draft. Both fields must be non-blank and the
// spelling must not already be in the draft. A word removed earlier from this
// draft is restored with its identity.
func (d *Draft) AddWord(word, translation string) error {
	word = strings.TrimSpace(word)
	translation = strings.TrimSpace(translation)
	if word == "" {
		return &database.ValidationError{Field: "word", Message: "must not be blank"}
	}
	if translation == "" {
		return &database.ValidationError{Field: "translation", Message: "must not be blank"}
	}
	if d.HasWord(word) {
		return &database.DuplicateWordError{Word: word}
	}

	wd := WordDraft{Word: word, Translation: translation, DateAdded: d.Date}
	if prev, ok := d.removed[word]; ok {
		wd.ID = prev.ID
		wd.DateAdded = prev.DateAdded
		delete(d.removed, word)
	}
	d.Words = append(d.Words, wd)
	return nil
}

// HasWord reports whether the draft already lists the spelling
func (d *Draft) HasWord(word string) bool {
	for _, w := range d.Words {
		if w.Word == word {
			return true
		}
	}
	return false
}

// RemoveWord drops the word with the given spelling and reports whether it
// was present.
func (d *Draft) RemoveWord(word string) bool {
	for i, w := range d.Words {
		if w.Word == word {
			d.Words = append(d.Words[:i], d.Words[i+1:]...)
			if w.ID != uuid.Nil {
				if d.removed == nil {
					d.removed = map[string]WordDraft{}
				}
				d.removed[w.Word] = w
			}
			return true
		}
	}
	return false
}

// Lesson builds the record to persist. Blank optional fields become absent.
// Each call returns fresh values, so a failed save leaves the draft as it was.
func (d *Draft) Lesson() *models.Lesson {
	l := models.NewLesson(
		d.Date,
		strings.TrimSpace(d.Topic),
		d.DurationInMinutes,
		models.Optional(d.GrammarTopics),
		models.Optional(d.Homework),
		models.Optional(d.Notes),
	)
	if !d.IsNew() {
		l.ID = d.lessonID
	}

	words := make([]*models.VocabularyWord, 0, len(d.Words))
	for _, wd := range d.Words {
		w := models.NewVocabularyWord(wd.Word, wd.Translation, wd.DateAdded)
		if wd.ID != uuid.Nil {
			w.ID = wd.ID
		}
		if w.DateAdded.IsZero() {
			w.DateAdded = d.Date
		}
		words = append(words, w)
	}
	l.SetVocabulary(words)
	return l
}

// ownsWord reports whether the stored word was part of the lesson being edited
func (d *Draft) ownsWord(w *models.VocabularyWord) bool {
	return !d.IsNew() && w.BelongsTo(d.lessonID)
}
