package models

import (
	"time"

	"github.com/google/uuid"
)

// VocabularyWord represents a word and its translation taught in a lesson
type VocabularyWord struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	Word        string        `json:"word" db:"word"`
	Translation string        `json:"translation" db:"translation"`
	DateAdded   time.Time     `json:"date_added" db:"date_added"`
	LessonID    uuid.NullUUID `json:"lesson_id" db:"lesson_id"` // Not valid for orphan words
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// NewVocabularyWord creates an unattached word with a fresh identity
func NewVocabularyWord(word, translation string, dateAdded time.Time) *VocabularyWord {
	return &VocabularyWord{
		ID:          uuid.New(),
		Word:        word,
		Translation: translation,
		DateAdded:   dateAdded,
	}
}

// IsOrphan reports whether the word has no owning lesson
func (w *VocabularyWord) IsOrphan() bool {
	return !w.LessonID.Valid
}

// BelongsTo reports whether the word points back at the given lesson
func (w *VocabularyWord) BelongsTo(lessonID uuid.UUID) bool {
	return w.LessonID.Valid && w.LessonID.UUID == lessonID
}

// Detach clears the back-reference to the owning lesson
func (w *VocabularyWord) Detach() {
	w.LessonID = uuid.NullUUID{}
}
