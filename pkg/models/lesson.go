package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lesson represents a single tutoring session
type Lesson struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	Date              time.Time         `json:"date" db:"date"`
	Topic             string            `json:"topic" db:"topic"`
	DurationInMinutes int               `json:"duration_in_minutes" db:"duration_in_minutes"`
	GrammarTopics     *string           `json:"grammar_topics,omitempty" db:"grammar_topics"`
	Homework          *string           `json:"homework,omitempty" db:"homework"`
	Notes             *string           `json:"notes,omitempty" db:"notes"`
	Vocabulary        []*VocabularyWord `json:"vocabulary" db:"-"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}

// NewLesson creates a lesson with a fresh identity and no vocabulary
func NewLesson(date time.Time, topic string, durationInMinutes int, grammarTopics, homework, notes *string) *Lesson {
	return &Lesson{
		ID:                uuid.New(),
		Date:              date,
		Topic:             topic,
		DurationInMinutes: durationInMinutes,
		GrammarTopics:     grammarTopics,
		Homework:          homework,
		Notes:             notes,
		Vocabulary:        []*VocabularyWord{},
	}
}

// Attach points the word back at this lesson and appends it to the vocabulary
// unless it is already there.
func (l *Lesson) Attach(word *VocabularyWord) {
	word.LessonID = uuid.NullUUID{UUID: l.ID, Valid: true}
	for _, w := range l.Vocabulary {
		if w == word || (w.ID == word.ID && w.ID != uuid.Nil) {
			return
		}
	}
	l.Vocabulary = append(l.Vocabulary, word)
}

// SetVocabulary replaces the vocabulary wholesale and re-points every word.
func (l *Lesson) SetVocabulary(words []*VocabularyWord) {
	l.Vocabulary = make([]*VocabularyWord, 0, len(words))
	for _, w := range words {
		l.Attach(w)
	}
}

// WordCount returns the number of words taught in the lesson
func (l *Lesson) WordCount() int {
	return len(l.Vocabulary)
}

// SortedVocabulary returns the vocabulary ordered by word
func (l *Lesson) SortedVocabulary() []*VocabularyWord {
	out := make([]*VocabularyWord, len(l.Vocabulary))
	copy(out, l.Vocabulary)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Word < out[j].Word
	})
	return out
}

// Day returns the calendar day the lesson is grouped under
func (l *Lesson) Day() time.Time {
	return CalendarDate(l.Date)
}

// Optional turns blank form input into an absent value
func Optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Value returns the optional text or an empty string when absent
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CalendarDate keeps only the calendar day of t, as midnight UTC, so a
// lesson date means the same day wherever it is read back.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
