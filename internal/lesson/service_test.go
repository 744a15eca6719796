package lesson

import (
	"context"
	"errors"
	"testing"

	"github.com/example/myglish/internal/database"
	"github.com/example/myglish/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service *Service
	lessons *database.LessonRepository
	words   *database.WordRepository
}

func setupService(t *testing.T) *fixture {
	t.Helper()
	store, err := database.Open(database.MemoryPath, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	lessons := database.NewLessonRepository(store)
	words := database.NewWordRepository(store)
	return &fixture{
		service: NewService(lessons, words, logger.Nop()),
		lessons: lessons,
		words:   words,
	}
}

func TestServiceSaveCreatesLesson(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	d := NewDraft(day(2025, 9, 4))
	d.Topic = "Present Perfect"
	require.NoError(t, f.service.AddWord(ctx, d, "since", "с тех пор"))
	require.NoError(t, f.service.AddWord(ctx, d, "already", "уже"))

	saved, err := f.service.Save(ctx, d)
	require.NoError(t, err)
	assert.False(t, d.IsNew())
	assert.Equal(t, saved.ID, d.LessonID())

	got, err := f.service.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Present Perfect", got.Topic)
	assert.Equal(t, 60, got.DurationInMinutes)
	require.Len(t, got.Vocabulary, 2)
	for _, w := range got.Vocabulary {
		assert.True(t, w.BelongsTo(got.ID))
	}
}

func TestServiceSaveRejectsBlankTopic(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	d := NewDraft(day(2025, 9, 4))
	d.Topic = "  "
	_, err := f.service.Save(ctx, d)
	assert.True(t, errors.Is(err, database.ErrValidation))
	assert.True(t, d.IsNew())

	lessons, err := f.service.Search(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, lessons)
}

func TestServiceAddWordRejectsStoredDuplicate(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	first := NewDraft(day(2025, 9, 4))
	first.Topic = "Present Perfect"
	require.NoError(t, f.service.AddWord(ctx, first, "since", "с тех пор"))
	_, err := f.service.Save(ctx, first)
	require.NoError(t, err)

	second := NewDraft(day(2025, 9, 5))
	second.Topic = "Questions"
	err = f.service.AddWord(ctx, second, "since", "с")
	var dup *database.DuplicateWordError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "since", dup.Word)
	assert.Empty(t, second.Words)
}

func TestServiceSaveFailureKeepsDraft(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	first := NewDraft(day(2025, 9, 4))
	first.Topic = "Present Perfect"
	require.NoError(t, first.AddWord("since", "с тех пор"))
	_, err := f.service.Save(ctx, first)
	require.NoError(t, err)

	// bypasses the service check so the store rejects the spelling
	second := NewDraft(day(2025, 9, 5))
	second.Topic = "Questions"
	require.NoError(t, second.AddWord("since", "с"))
	_, err = f.service.Save(ctx, second)
	assert.True(t, errors.Is(err, database.ErrDuplicateWord))
	assert.True(t, second.IsNew())
	assert.Len(t, second.Words, 1)

	require.True(t, second.RemoveWord("since"))
	require.NoError(t, second.AddWord("yet", "ещё"))
	_, err = f.service.Save(ctx, second)
	require.NoError(t, err)
}

func TestServiceEditKeepsWordIdentity(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	d := NewDraft(day(2025, 9, 4))
	d.Topic = "Present Perfect"
	require.NoError(t, f.service.AddWord(ctx, d, "since", "с тех пор"))
	require.NoError(t, f.service.AddWord(ctx, d, "already", "уже"))
	saved, err := f.service.Save(ctx, d)
	require.NoError(t, err)

	before, err := f.words.GetByWord(ctx, "since")
	require.NoError(t, err)

	edit, err := f.service.Edit(ctx, saved.ID)
	require.NoError(t, err)
	edit.Topic = "Present Perfect Simple"
	require.True(t, edit.RemoveWord("already"))
	require.True(t, edit.RemoveWord("since"))
	require.NoError(t, f.service.AddWord(ctx, edit, "since", "начиная с"))
	_, err = f.service.Save(ctx, edit)
	require.NoError(t, err)

	after, err := f.words.GetByWord(ctx, "since")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "начиная с", after.Translation)
	assert.True(t, after.BelongsTo(saved.ID))

	already, err := f.words.GetByWord(ctx, "already")
	require.NoError(t, err)
	assert.True(t, already.IsOrphan())

	got, err := f.service.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Present Perfect Simple", got.Topic)
	assert.Len(t, got.Vocabulary, 1)
}

func TestServiceLessonScenario(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	pp := NewDraft(day(2025, 9, 4))
	pp.Topic = "Present Perfect"
	pp.SetDuration(60)
	require.NoError(t, f.service.AddWord(ctx, pp, "since", "с тех пор"))
	require.NoError(t, f.service.AddWord(ctx, pp, "already", "уже"))
	first, err := f.service.Save(ctx, pp)
	require.NoError(t, err)

	next := NewDraft(day(2025, 9, 5))
	next.Topic = "Negatives"
	require.NoError(t, f.service.AddWord(ctx, next, "yet", "ещё"))
	_, err = f.service.Save(ctx, next)
	require.NoError(t, err)

	lessons, err := f.service.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, day(2025, 9, 5), lessons[0].Date.UTC())
	assert.Equal(t, day(2025, 9, 4), lessons[1].Date.UTC())

	found, err := f.service.Search(ctx, "  present ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, first.ID, found[0].ID)

	require.NoError(t, f.service.Delete(ctx, first.ID))
	_, err = f.service.Get(ctx, first.ID)
	assert.True(t, errors.Is(err, database.ErrNotFound))

	orphans, err := f.words.Orphans(ctx)
	require.NoError(t, err)
	require.Len(t, orphans, 2)
	assert.Equal(t, "already", orphans[0].Word)
	assert.Equal(t, "since", orphans[1].Word)
}

func TestServiceDeleteMissing(t *testing.T) {
	f := setupService(t)
	d := NewDraft(day(2025, 9, 4))
	d.Topic = "x"
	saved, err := f.service.Save(context.Background(), d)
	require.NoError(t, err)
	require.NoError(t, f.service.Delete(context.Background(), saved.ID))

	err = f.service.Delete(context.Background(), saved.ID)
	assert.True(t, errors.Is(err, database.ErrNotFound))
}
