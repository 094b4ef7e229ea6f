package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/conorfennell/kanjikoto/internal/contenthash"
	"github.com/conorfennell/kanjikoto/internal/domain"
)

// UpsertResult says what UpsertPhrase did.
type UpsertResult int

const (
	Unchanged UpsertResult = iota
	Inserted
	Updated
)

// InsertLesson creates a lesson and all of its phrases in one transaction.
func (db *DB) InsertLesson(ctx context.Context, title string, phrases []domain.NewPhrase) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, unavailable(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	var lessonID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO lessons (title) VALUES (?) RETURNING id
	`, title).Scan(&lessonID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert lesson %q: %w", title, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO phrases (lesson_id, prompt, reading, translation, hash)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, unavailable(err, "failed to prepare phrase insert")
	}
	defer stmt.Close()

	for _, p := range phrases {
		if _, err := stmt.ExecContext(ctx, lessonID, p.Prompt, p.Reading, p.Translation, phraseHash(p)); err != nil {
			return 0, fmt.Errorf("failed to insert phrase %q: %w", p.Prompt, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, unavailable(err, "failed to commit lesson %q", title)
	}
	return lessonID, nil
}

// UpsertLessonForSource returns the lesson attached to a source, creating it
// when missing and renaming it when the title changed.
func (db *DB) UpsertLessonForSource(ctx context.Context, sourceID int64, title string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var lessonID int64
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO lessons (title, source_id) VALUES (?, ?)
		ON CONFLICT(source_id) DO UPDATE SET title = excluded.title
		RETURNING id
	`, title, sourceID).Scan(&lessonID)
	if err != nil {
		return 0, unavailable(err, "failed to upsert lesson for source %d", sourceID)
	}
	return lessonID, nil
}

// GetLesson retrieves a lesson by ID.
func (db *DB) GetLesson(ctx context.Context, id int64) (*domain.Lesson, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var l domain.Lesson
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, title, source_id FROM lessons WHERE id = ?
	`, id).Scan(&l.ID, &l.Title, &l.SourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lesson %d: %w", id, domain.ErrNotFound)
		}
		return nil, unavailable(err, "failed to get lesson %d", id)
	}
	return &l, nil
}

// GetAllLessons retrieves every lesson, oldest first.
func (db *DB) GetAllLessons(ctx context.Context) ([]domain.Lesson, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, title, source_id FROM lessons ORDER BY id
	`)
	if err != nil {
		return nil, unavailable(err, "failed to get all lessons")
	}
	defer rows.Close()

	var lessons []domain.Lesson
	for rows.Next() {
		var l domain.Lesson
		if err := rows.Scan(&l.ID, &l.Title, &l.SourceID); err != nil {
			return nil, unavailable(err, "failed to scan lesson row")
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// ListPhrases retrieves every phrase of a lesson.
func (db *DB) ListPhrases(ctx context.Context, lessonID int64) ([]domain.Phrase, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, lesson_id, prompt, reading, translation, hash, learned_at, content_changed_at
		FROM phrases WHERE lesson_id = ? ORDER BY id
	`, lessonID)
	if err != nil {
		return nil, unavailable(err, "failed to list phrases for lesson %d", lessonID)
	}
	defer rows.Close()

	var phrases []domain.Phrase
	for rows.Next() {
		var p domain.Phrase
		if err := rows.Scan(
			&p.ID,
			&p.LessonID,
			&p.Prompt,
			&p.Reading,
			&p.Translation,
			&p.Hash,
			&p.LastPassedAt,
			&p.ContentChangedAt,
		); err != nil {
			return nil, unavailable(err, "failed to scan phrase row for lesson %d", lessonID)
		}
		phrases = append(phrases, p)
	}
	return phrases, rows.Err()
}

// UpsertPhrase stores a phrase keyed by its prompt within a lesson. When an
// existing phrase's content hash differs, its content is replaced and
// content_changed_at is set to now, which makes it due again.
func (db *DB) UpsertPhrase(ctx context.Context, lessonID int64, p domain.NewPhrase, now time.Time) (UpsertResult, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	hash := phraseHash(p)
	var id int64
	var existing string
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, hash FROM phrases WHERE lesson_id = ? AND prompt = ?
	`, lessonID, p.Prompt).Scan(&id, &existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO phrases (lesson_id, prompt, reading, translation, hash)
			VALUES (?, ?, ?, ?, ?)
		`, lessonID, p.Prompt, p.Reading, p.Translation, hash)
		if err != nil {
			return Unchanged, fmt.Errorf("failed to insert phrase %q: %w", p.Prompt, err)
		}
		return Inserted, nil
	case err != nil:
		return Unchanged, unavailable(err, "failed to find phrase %q", p.Prompt)
	case existing == hash:
		return Unchanged, nil
	}

	_, err = db.conn.ExecContext(ctx, `
		UPDATE phrases
		SET reading = ?, translation = ?, hash = ?, content_changed_at = ?
		WHERE id = ?
	`, p.Reading, p.Translation, hash, now, id)
	if err != nil {
		return Unchanged, unavailable(err, "failed to update phrase %d", id)
	}
	return Updated, nil
}

// DeletePhrasesNotIn removes the phrases of a lesson whose prompt is not in
// keep, returning how many were removed.
func (db *DB) DeletePhrasesNotIn(ctx context.Context, lessonID int64, keep map[string]bool) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, unavailable(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id, prompt FROM phrases WHERE lesson_id = ?`, lessonID)
	if err != nil {
		return 0, unavailable(err, "failed to list phrases for lesson %d", lessonID)
	}
	var orphans []int64
	for rows.Next() {
		var id int64
		var prompt string
		if err := rows.Scan(&id, &prompt); err != nil {
			rows.Close()
			return 0, unavailable(err, "failed to scan phrase row")
		}
		if !keep[prompt] {
			orphans = append(orphans, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, unavailable(err, "failed to read phrases for lesson %d", lessonID)
	}

	for _, id := range orphans {
		if _, err := tx.ExecContext(ctx, `DELETE FROM phrases WHERE id = ?`, id); err != nil {
			return 0, unavailable(err, "failed to delete phrase %d", id)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, unavailable(err, "failed to commit phrase deletion")
	}
	return len(orphans), nil
}

// RecordPasses sets learned_at to now for every listed phrase. Either all
// phrases are updated or none are.
func (db *DB) RecordPasses(ctx context.Context, ids []int64, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE phrases SET learned_at = ? WHERE id = ?`)
	if err != nil {
		return unavailable(err, "failed to prepare pass update")
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, now, id); err != nil {
			return unavailable(err, "failed to record pass for phrase %d", id)
		}
	}
	if err := tx.Commit(); err != nil {
		return unavailable(err, "failed to commit passes")
	}
	return nil
}

func phraseHash(p domain.NewPhrase) string {
	if p.Hash != "" {
		return p.Hash
	}
	return contenthash.Hash(p)
}
