package domain

import "database/sql"

// Phrase is a vocabulary item as it is kept in storage.
type Phrase struct {
	ID               int64
	LessonID         int64
	Prompt           string
	Reading          string
	Translation      string
	Hash             string
	LastPassedAt     sql.NullTime // learned_at; null until the first pass
	ContentChangedAt sql.NullTime
}

// NewPhrase is a phrase that has been parsed from a lesson file but not stored yet.
type NewPhrase struct {
	Prompt      string `validate:"required"`
	Reading     string `validate:"required"`
	Translation string `validate:"required"`
	Hash        string
}

// Lesson groups the phrases imported from one source.
type Lesson struct {
	ID       int64
	Title    string
	SourceID sql.NullInt64
}

// Source is a place lessons are read from, either a local path or a Git URL.
type Source struct {
	ID          int64
	Path        string
	Type        string // "local" or "git"
	LastScanned sql.NullTime
}

const (
	SourceLocal = "local"
	SourceGit   = "git"
)

// LessonStatus is derived from a lesson's phrases at a point in time.
type LessonStatus struct {
	LessonID int64
	Ready    int
	Learned  int
}

// Sessions converts both counts into the number of practice sessions they
// would fill, rounding up.
func (s LessonStatus) Sessions(sessionSize int) (ready, learned int) {
	return sessions(s.Ready, sessionSize), sessions(s.Learned, sessionSize)
}

func sessions(count, size int) int {
	if size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}
