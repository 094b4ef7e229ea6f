package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/kanjikoto/internal/domain"
	"github.com/conorfennell/kanjikoto/internal/storage"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var noon = time.Date(2024, 11, 14, 12, 0, 0, 0, time.Local)

func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(fixedClock{now: noon})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--db", dbPath, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSourcesSyncAndStatus(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "kanjikoto.db")
	lessons := filepath.Join(dir, "aggrieved")
	require.NoError(t, os.MkdirAll(lessons, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(lessons, "ch1.md"), []byte(
		"# Aggrieved Ch1\nW: 嫌（いや）\nM: unpleasant\n---\nW: 必要（ひつよう）\nM: necessary\n"), 0o644))

	out, err := run(t, dbPath, "sources", "add", lessons)
	require.NoError(t, err)
	assert.Contains(t, out, "added local source #1")

	_, err = run(t, dbPath, "sources", "add", lessons)
	assert.Error(t, err, "a source cannot be added twice")

	out, err = run(t, dbPath, "sources", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "never synced")

	out, err = run(t, dbPath, "--repos-dir", filepath.Join(dir, "repos"), "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "synced 1 sources: 2 new")

	out, err = run(t, dbPath, "lessons")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 Aggrieved Ch1")

	out, err = run(t, dbPath, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "ready 2 (1 sessions)")
	assert.Contains(t, out, "learned 0 (0 sessions)")

	out, err = run(t, dbPath, "sources", "rm", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "removed source #1")

	out, err = run(t, dbPath, "lessons")
	require.NoError(t, err)
	assert.Contains(t, out, "Aggrieved Ch1", "lessons outlive their source")
}

func TestPhrases(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "kanjikoto.db")
	mdPath := filepath.Join(dir, "ch1.md")
	require.NoError(t, os.WriteFile(mdPath, []byte(
		"# Aggrieved Ch1\nW: 嫌（いや）\nM: unpleasant\n---\nW: 必要（ひつよう）\nM: necessary\n"), 0o644))
	_, err := run(t, dbPath, "import", mdPath)
	require.NoError(t, err)

	db, err := storage.Open(dbPath)
	require.NoError(t, err)
	phrases, err := db.ListPhrases(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, db.RecordPasses(context.Background(), []int64{phrases[1].ID}, noon.Add(-time.Hour)))
	require.NoError(t, db.Close())

	out, err := run(t, dbPath, "--lesson", "1", "phrases")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 Aggrieved Ch1")
	assert.Contains(t, out, "Reading")
	assert.Regexp(t, `嫌.*いや.*unpleasant.*due`, out)
	assert.Regexp(t, `必要.*ひつよう.*necessary.*resting`, out)

	_, err = run(t, dbPath, "--lesson", "7", "phrases")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "kanjikoto.db")
	csvPath := filepath.Join(dir, "drills.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Chapter,Word,Meaning\n1,今日（きょう）,today\n"), 0o644))

	_, err := run(t, dbPath, "import", csvPath)
	assert.Error(t, err, "csv files carry no title")

	out, err := run(t, dbPath, "import", "--title", "Drills", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, `imported lesson #1 "Drills" with 1 phrases`)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "kanjikoto.db"), "--session-size", "0", "lessons")
	assert.Error(t, err)
}

func TestIsGitURL(t *testing.T) {
	assert.True(t, isGitURL("https://github.com/conorfennell/kanji-lessons.git"))
	assert.True(t, isGitURL("git@github.com:conorfennell/kanji-lessons.git"))
	assert.False(t, isGitURL("./lessons"))
	assert.False(t, isGitURL("/home/me/lessons"))
}
