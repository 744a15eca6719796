package database

import (
	"context"
	"testing"
	"time"

	"github.com/example/myglish/internal/logger"
	"github.com/example/myglish/pkg/models"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(MemoryPath, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newLessonWithWords(date time.Time, topic string, pairs ...[2]string) *models.Lesson {
	lesson := models.NewLesson(date, topic, 60, nil, nil, nil)
	for _, p := range pairs {
		lesson.Attach(models.NewVocabularyWord(p[0], p[1], date))
	}
	return lesson
}

func createLesson(t *testing.T, repo *LessonRepository, lesson *models.Lesson) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), lesson))
}
