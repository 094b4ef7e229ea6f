package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/kanjikoto/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "kanjikoto.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var testPhrases = []domain.NewPhrase{
	{Prompt: "嫌", Reading: "いや", Translation: "unpleasant"},
	{Prompt: "必要", Reading: "ひつよう", Translation: "necessary"},
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanjikoto.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestInsertLessonAndListPhrases(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	lessonID, err := db.InsertLesson(ctx, "Aggrieved Ch1", testPhrases)
	require.NoError(t, err)

	lesson, err := db.GetLesson(ctx, lessonID)
	require.NoError(t, err)
	assert.Equal(t, "Aggrieved Ch1", lesson.Title)
	assert.False(t, lesson.SourceID.Valid)

	phrases, err := db.ListPhrases(ctx, lessonID)
	require.NoError(t, err)
	require.Len(t, phrases, 2)
	assert.Equal(t, "嫌", phrases[0].Prompt)
	assert.Equal(t, "ひつよう", phrases[1].Reading)
	assert.NotEmpty(t, phrases[0].Hash)
	assert.False(t, phrases[0].LastPassedAt.Valid)
	assert.False(t, phrases[0].ContentChangedAt.Valid)

	lessons, err := db.GetAllLessons(ctx)
	require.NoError(t, err)
	assert.Len(t, lessons, 1)
}

func TestInsertLessonIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	dup := append([]domain.NewPhrase{}, testPhrases...)
	dup = append(dup, testPhrases[0])
	_, err := db.InsertLesson(ctx, "Broken", dup)
	require.Error(t, err)

	lessons, err := db.GetAllLessons(ctx)
	require.NoError(t, err)
	assert.Empty(t, lessons)
}

func TestGetLessonNotFound(t *testing.T) {
	_, err := openTestDB(t).GetLesson(context.Background(), 99)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRecordPasses(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	lessonID, err := db.InsertLesson(ctx, "L", testPhrases)
	require.NoError(t, err)
	phrases, err := db.ListPhrases(ctx, lessonID)
	require.NoError(t, err)

	now := time.Date(2024, 11, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.RecordPasses(ctx, []int64{phrases[0].ID}, now))
	require.NoError(t, db.RecordPasses(ctx, nil, now))

	phrases, err = db.ListPhrases(ctx, lessonID)
	require.NoError(t, err)
	require.True(t, phrases[0].LastPassedAt.Valid)
	assert.True(t, phrases[0].LastPassedAt.Time.Equal(now))
	assert.False(t, phrases[1].LastPassedAt.Valid)
}

func TestUpsertPhrase(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	sourceID, err := db.InsertSource(ctx, "/lessons/ch1", domain.SourceLocal)
	require.NoError(t, err)
	lessonID, err := db.UpsertLessonForSource(ctx, sourceID, "Chapter 1")
	require.NoError(t, err)

	now := time.Date(2024, 11, 14, 12, 0, 0, 0, time.UTC)
	res, err := db.UpsertPhrase(ctx, lessonID, testPhrases[0], now)
	require.NoError(t, err)
	assert.Equal(t, Inserted, res)

	res, err = db.UpsertPhrase(ctx, lessonID, testPhrases[0], now)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, res)

	edited := testPhrases[0]
	edited.Translation = "disagreeable"
	later := now.Add(time.Hour)
	res, err = db.UpsertPhrase(ctx, lessonID, edited, later)
	require.NoError(t, err)
	assert.Equal(t, Updated, res)

	phrases, err := db.ListPhrases(ctx, lessonID)
	require.NoError(t, err)
	require.Len(t, phrases, 1)
	assert.Equal(t, "disagreeable", phrases[0].Translation)
	require.True(t, phrases[0].ContentChangedAt.Valid)
	assert.True(t, phrases[0].ContentChangedAt.Time.Equal(later))

	again, err := db.UpsertLessonForSource(ctx, sourceID, "Chapter 1 (revised)")
	require.NoError(t, err)
	assert.Equal(t, lessonID, again)
	lesson, err := db.GetLesson(ctx, lessonID)
	require.NoError(t, err)
	assert.Equal(t, "Chapter 1 (revised)", lesson.Title)
}

func TestDeletePhrasesNotIn(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	lessonID, err := db.InsertLesson(ctx, "L", testPhrases)
	require.NoError(t, err)

	n, err := db.DeletePhrasesNotIn(ctx, lessonID, map[string]bool{"必要": true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	phrases, err := db.ListPhrases(ctx, lessonID)
	require.NoError(t, err)
	require.Len(t, phrases, 1)
	assert.Equal(t, "必要", phrases[0].Prompt)
}

func TestSources(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	id, err := db.InsertSource(ctx, "https://example.com/lessons.git", domain.SourceGit)
	require.NoError(t, err)
	_, err = db.InsertSource(ctx, "https://example.com/lessons.git", domain.SourceGit)
	assert.Error(t, err, "paths are unique")

	found, err := db.FindSourceByPath(ctx, "https://example.com/lessons.git")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.SourceGit, found.Type)
	assert.False(t, found.LastScanned.Valid)

	missing, err := db.FindSourceByPath(ctx, "/nowhere")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, db.UpdateSourceLastScanned(ctx, id, time.Now()))
	sources, err := db.GetAllSources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.True(t, sources[0].LastScanned.Valid)

	lessonID, err := db.UpsertLessonForSource(ctx, id, "Remote")
	require.NoError(t, err)
	require.NoError(t, db.DeleteSource(ctx, id))
	assert.True(t, errors.Is(db.DeleteSource(ctx, id), domain.ErrNotFound))

	lesson, err := db.GetLesson(ctx, lessonID)
	require.NoError(t, err)
	assert.False(t, lesson.SourceID.Valid, "lesson outlives its source")
}
