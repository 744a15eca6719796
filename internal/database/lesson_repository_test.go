package database

import (
	"context"
	"testing"
	"time"

	"github.com/example/myglish/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertBackReferences(t *testing.T, lesson *models.Lesson) {
	t.Helper()
	for _, w := range lesson.Vocabulary {
		assert.True(t, w.BelongsTo(lesson.ID), "word %q does not point at lesson %s", w.Word, lesson.ID)
	}
}

func TestLessonCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewLessonRepository(setupTestStore(t))

	grammar := "Usage with 'for' and 'since'"
	lesson := newLessonWithWords(day(2025, 9, 4), "Present Perfect",
		[2]string{"since", "с тех пор как"}, [2]string{"already", "уже"})
	lesson.GrammarTopics = &grammar
	createLesson(t, repo, lesson)

	got, err := repo.GetByID(ctx, lesson.ID)
	require.NoError(t, err)

	assert.Equal(t, "Present Perfect", got.Topic)
	assert.True(t, got.Date.Equal(day(2025, 9, 4)))
	assert.Equal(t, 60, got.DurationInMinutes)
	require.NotNil(t, got.GrammarTopics)
	assert.Equal(t, grammar, *got.GrammarTopics)
	assert.Nil(t, got.Homework)
	assert.Nil(t, got.Notes)
	require.Len(t, got.Vocabulary, 2)
	assertBackReferences(t, got)
	for _, w := range got.Vocabulary {
		assert.True(t, w.DateAdded.Equal(day(2025, 9, 4)))
	}
}

func TestLessonStoresCalendarDay(t *testing.T) {
	ctx := context.Background()
	repo := NewLessonRepository(setupTestStore(t))
	moscow := time.FixedZone("UTC+3", 3*60*60)

	lesson := newLessonWithWords(time.Date(2025, 9, 4, 1, 30, 0, 0, moscow), "Present Perfect",
		[2]string{"since", "с тех пор"})
	lesson.Vocabulary[0].DateAdded = time.Time{}
	createLesson(t, repo, lesson)

	got, err := repo.GetByID(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 9, 4), got.Date.UTC())
	require.Len(t, got.Vocabulary, 1)
	assert.Equal(t, day(2025, 9, 4), got.Vocabulary[0].DateAdded.UTC())

	got.Date = time.Date(2025, 9, 6, 23, 45, 0, 0, time.FixedZone("UTC-5", -5*60*60))
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByID(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 9, 6), got.Date.UTC())
}

func TestLessonCreateRejectsBlankTopic(t *testing.T) {
	repo := NewLessonRepository(setupTestStore(t))

	err := repo.Create(context.Background(), models.NewLesson(day(2025, 9, 4), "   ", 60, nil, nil, nil))

	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "topic", verr.Field)
}

func TestLessonCreateDuplicateWordRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewLessonRepository(setupTestStore(t))
	createLesson(t, repo, newLessonWithWords(day(2025, 9, 4), "Present Perfect", [2]string{"since", "с тех пор как"}))

	second := newLessonWithWords(day(2025, 9, 5), "Questions", [2]string{"yet", "еще"}, [2]string{"since", "начиная с"})
	err := repo.Create(ctx, second)

	require.ErrorIs(t, err, ErrDuplicateWord)
	var dup *DuplicateWordError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "since", dup.Word)

	lessons, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, lessons, 1)
	_, err = NewWordRepository(repo.store).GetByWord(ctx, "yet")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLessonListOrderedByDateDescending(t *testing.T) {
	ctx := context.Background()
	repo := NewLessonRepository(setupTestStore(t))
	createLesson(t, repo, newLessonWithWords(day(2025, 9, 4), "Present Perfect",
		[2]string{"since", "с тех пор как"}, [2]string{"already", "уже"}))
	createLesson(t, repo, newLessonWithWords(day(2025, 9, 5), "Questions", [2]string{"yet", "еще"}))
	createLesson(t, repo, newLessonWithWords(day(2025, 8, 30), "Past Simple"))

	lessons, err := repo.List(ctx)
	require.NoError(t, err)

	require.Len(t, lessons, 3)
	assert.Equal(t, "Questions", lessons[0].Topic)
	assert.Equal(t, "Present Perfect", lessons[1].Topic)
	assert.Equal(t, "Past Simple", lessons[2].Topic)
	assert.Equal(t, 1, lessons[0].WordCount())
	assert.Equal(t, 2, lessons[1].WordCount())
	assert.Equal(t, 0, lessons[2].WordCount())
	for _, l := range lessons {
		assertBackReferences(t, l)
	}
}

func TestLessonUpdateReplacesVocabulary(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	repo := NewLessonRepository(store)
	lesson := newLessonWithWords(day(2025, 9, 4), "Present Perfect",
		[2]string{"since", "с тех пор как"}, [2]string{"already", "уже"})
	createLesson(t, repo, lesson)

	stored, err := repo.GetByID(ctx, lesson.ID)
	require.NoError(t, err)

	var kept []*models.VocabularyWord
	for _, w := range stored.Vocabulary {
		if w.Word == "already" {
			w.Translation = "уже (наречие)"
			kept = append(kept, w)
		}
	}
	homework := "Workbook p. 45"
	stored.Topic = "Present Perfect Tense"
	stored.Date = day(2025, 9, 6)
	stored.DurationInMinutes = 90
	stored.Homework = &homework
	stored.Vocabulary = append(kept, models.NewVocabularyWord("just", "только что", stored.Date))
	require.NoError(t, repo.Update(ctx, stored))

	got, err := repo.GetByID(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "Present Perfect Tense", got.Topic)
	assert.True(t, got.Date.Equal(day(2025, 9, 6)))
	assert.Equal(t, 90, got.DurationInMinutes)
	require.NotNil(t, got.Homework)
	assert.Equal(t, homework, *got.Homework)
	require.Len(t, got.Vocabulary, 2)
	assertBackReferences(t, got)

	translations := map[string]string{}
	for _, w := range got.Vocabulary {
		translations[w.Word] = w.Translation
	}
	assert.Equal(t, map[string]string{"already": "уже (наречие)", "just": "только что"}, translations)

	// The removed word is kept as an orphan.
	since, err := NewWordRepository(store).GetByWord(ctx, "since")
	require.NoError(t, err)
	assert.True(t, since.IsOrphan())
}

func TestLessonUpdateReassignsWordFromAnotherLesson(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	repo := NewLessonRepository(store)
	first := newLessonWithWords(day(2025, 9, 4), "Present Perfect", [2]string{"since", "с тех пор как"})
	second := newLessonWithWords(day(2025, 9, 5), "Questions", [2]string{"yet", "еще"})
	createLesson(t, repo, first)
	createLesson(t, repo, second)

	since, err := NewWordRepository(store).GetByWord(ctx, "since")
	require.NoError(t, err)
	stored, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	stored.Vocabulary = append(stored.Vocabulary, since)
	require.NoError(t, repo.Update(ctx, stored))

	gotFirst, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	gotSecond, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, gotFirst.Vocabulary)
	assert.Len(t, gotSecond.Vocabulary, 2)
	assertBackReferences(t, gotSecond)
}

func TestLessonUpdateMissing(t *testing.T) {
	repo := NewLessonRepository(setupTestStore(t))

	err := repo.Update(context.Background(), models.NewLesson(day(2025, 9, 4), "Ghost", 60, nil, nil, nil))

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLessonDeleteOrphansWords(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	repo := NewLessonRepository(store)
	words := NewWordRepository(store)
	lesson := newLessonWithWords(day(2025, 9, 4), "Present Perfect",
		[2]string{"since", "с тех пор как"}, [2]string{"already", "уже"})
	createLesson(t, repo, lesson)

	require.NoError(t, repo.Delete(ctx, lesson.ID))

	_, err := repo.GetByID(ctx, lesson.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := words.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, w := range all {
		assert.True(t, w.IsOrphan(), w.Word)
	}

	orphans, err := words.Orphans(ctx)
	require.NoError(t, err)
	assert.Len(t, orphans, 2)

	assert.ErrorIs(t, repo.Delete(ctx, lesson.ID), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), ErrNotFound)
}

func TestLessonSearch(t *testing.T) {
	ctx := context.Background()
	repo := NewLessonRepository(setupTestStore(t))
	createLesson(t, repo, newLessonWithWords(day(2025, 9, 4), "Present Perfect"))
	createLesson(t, repo, newLessonWithWords(day(2025, 9, 5), "Past Perfect"))
	createLesson(t, repo, newLessonWithWords(day(2025, 9, 6), "Phrasal verbs"))

	all, err := repo.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Phrasal verbs", all[0].Topic)

	perfect, err := repo.Search(ctx, "PERFECT")
	require.NoError(t, err)
	require.Len(t, perfect, 2)
	assert.Equal(t, "Past Perfect", perfect[0].Topic)
	assert.Equal(t, "Present Perfect", perfect[1].Topic)

	none, err := repo.Search(ctx, "conditionals")
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}
