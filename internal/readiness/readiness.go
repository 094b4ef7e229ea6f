// Package readiness decides which stored phrases are due for practice today.
package readiness

import (
	"database/sql"
	"time"

	"github.com/conorfennell/kanjikoto/internal/domain"
)

// CutoverHour is the wall-clock hour at which a new practice day starts.
const CutoverHour = 3

// DayBoundary returns 03:00 on now's calendar day, in now's location.
func DayBoundary(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, CutoverHour, 0, 0, 0, now.Location())
}

// IsDue reports whether a phrase should be practised at now.
//
// A phrase is due when it was never passed, when its last pass came before
// today's cutover, or when its content was edited after the last pass.
func IsDue(lastPassedAt, contentChangedAt sql.NullTime, now time.Time) bool {
	if !lastPassedAt.Valid {
		return true
	}
	if lastPassedAt.Time.Before(DayBoundary(now)) {
		return true
	}
	if contentChangedAt.Valid && contentChangedAt.Time.After(lastPassedAt.Time) {
		return true
	}
	return false
}

// PhraseIsDue applies IsDue to a stored phrase.
func PhraseIsDue(p domain.Phrase, now time.Time) bool {
	return IsDue(p.LastPassedAt, p.ContentChangedAt, now)
}

// Partition splits phrases into those due at now and those resting.
// The relative order of each group is preserved.
func Partition(phrases []domain.Phrase, now time.Time) (due, resting []domain.Phrase) {
	for _, p := range phrases {
		if PhraseIsDue(p, now) {
			due = append(due, p)
		} else {
			resting = append(resting, p)
		}
	}
	return due, resting
}

// Status counts ready and learned phrases for a lesson.
func Status(lessonID int64, phrases []domain.Phrase, now time.Time) domain.LessonStatus {
	due, resting := Partition(phrases, now)
	return domain.LessonStatus{
		LessonID: lessonID,
		Ready:    len(due),
		Learned:  len(resting),
	}
}
