package domain

import "fmt"

// Progress is how far a card has come within a single practice session.
type Progress int

const (
	Learning Progress = iota
	Reviewing
	Mastered
)

func (p Progress) String() string {
	switch p {
	case Learning:
		return "learning"
	case Reviewing:
		return "reviewing"
	case Mastered:
		return "mastered"
	}
	return fmt.Sprintf("progress(%d)", int(p))
}

// CardFront is what the learner is prompted with.
type CardFront struct {
	Prompt string
}

// CardBack holds the answer side of a card.
type CardBack struct {
	Reading string
	Meaning string
}

// Card is a session-scoped drill card. ID links it back to a stored phrase
// and is zero for decks that were not built from storage.
type Card struct {
	ID       int64
	Front    CardFront
	Back     CardBack
	Progress Progress
}

// NewCard builds a card in the Learning stage from a stored phrase.
func NewCard(p Phrase) Card {
	return Card{
		ID:    p.ID,
		Front: CardFront{Prompt: p.Prompt},
		Back: CardBack{
			Reading: p.Reading,
			Meaning: p.Translation,
		},
		Progress: Learning,
	}
}
