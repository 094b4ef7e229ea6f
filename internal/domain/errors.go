package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPool is returned when a session would start with no cards.
	ErrEmptyPool = errors.New("nothing to practice: the card pool is empty")
	// ErrStoreUnavailable wraps failures of the underlying database.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrNotFound is returned when a lesson or source ID does not exist.
	ErrNotFound = errors.New("not found")
)

// MalformedContentError reports a single lesson item that could not be
// parsed. The item is skipped; the rest of the lesson is still read.
type MalformedContentError struct {
	Source string
	Line   int
	Text   string
	Reason string
}

func (e *MalformedContentError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("malformed content %q: %s", e.Text, e.Reason)
	}
	return fmt.Sprintf("%s:%d: malformed content %q: %s", e.Source, e.Line, e.Text, e.Reason)
}
