// Package deck rotates the cards of one practice session until each of them
// has been passed.
//
// A Deck keeps one card on top (the only one the learner sees) and a pending
// pile. After every answer the pile is shuffled and the first card that is
// not yet mastered moves to the top. When everything else is mastered the top
// card stays put, so the last unmastered card is shown until it passes.
package deck

import (
	"math/rand/v2"

	"github.com/conorfennell/kanjikoto/internal/domain"
)

// Deck is owned by a single session. It is not safe for concurrent use.
type Deck struct {
	rng     *rand.Rand
	current domain.Card
	pending []domain.Card
	stats   Stats
}

// New builds a deck from a non-empty pool. Every card starts in Learning and
// the last card in cards starts on top. seed fully determines the order cards
// are shown in for a given sequence of answers.
func New(cards []domain.Card, seed uint64) (*Deck, error) {
	if len(cards) == 0 {
		return nil, domain.ErrEmptyPool
	}
	pending := make([]domain.Card, len(cards))
	copy(pending, cards)
	for i := range pending {
		pending[i].Progress = domain.Learning
	}
	last := len(pending) - 1
	return &Deck{
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		current: pending[last],
		pending: pending[:last:last],
	}, nil
}

// Current returns the card on top.
func (d *Deck) Current() domain.Card {
	return d.current
}

// Len is the number of cards in the session.
func (d *Deck) Len() int {
	return len(d.pending) + 1
}

// Stats returns a copy of the answer counters.
func (d *Deck) Stats() Stats {
	return d.stats
}

// Fail sends the top card back to Learning.
func (d *Deck) Fail() *Deck {
	return d.answer(domain.Learning, &d.stats.Failed)
}

// Repeat marks the top card for another look without counting a failure.
func (d *Deck) Repeat() *Deck {
	return d.answer(domain.Reviewing, &d.stats.Repeated)
}

// Learn acknowledges the top card during a study pass.
func (d *Deck) Learn() *Deck {
	return d.answer(domain.Learning, &d.stats.Learned)
}

// Pass masters the top card.
func (d *Deck) Pass() *Deck {
	return d.answer(domain.Mastered, &d.stats.Passed)
}

// answer moves the top card to p and counts the event. Mastered is final for
// the session: a mastered card on top only happens once every card is
// passed, and answers to it are ignored.
func (d *Deck) answer(p domain.Progress, counter *int) *Deck {
	if d.current.Progress == domain.Mastered {
		return d
	}
	d.current.Progress = p
	*counter++
	return d.rotate()
}

// Apply performs the transition named by ev.
func (d *Deck) Apply(ev Event) *Deck {
	switch ev {
	case Fail:
		return d.Fail()
	case Repeat:
		return d.Repeat()
	case Learn:
		return d.Learn()
	case Pass:
		return d.Pass()
	}
	return d
}

// IsAllPassed reports whether a pass has been recorded for every card.
func (d *Deck) IsAllPassed() bool {
	return d.stats.Passed == d.Len()
}

// Cards returns a copy of every card, top card first.
func (d *Deck) Cards() []domain.Card {
	cards := make([]domain.Card, 0, d.Len())
	cards = append(cards, d.current)
	return append(cards, d.pending...)
}

// Mastered returns the cards that reached Mastered during the session.
func (d *Deck) Mastered() []domain.Card {
	var out []domain.Card
	for _, c := range d.Cards() {
		if c.Progress == domain.Mastered {
			out = append(out, c)
		}
	}
	return out
}

// Finalize hands back the final card set and counters. The deck should not
// be used afterwards.
func (d *Deck) Finalize() ([]domain.Card, Stats) {
	return d.Cards(), d.stats
}

func (d *Deck) rotate() *Deck {
	d.rng.Shuffle(len(d.pending), func(i, j int) {
		d.pending[i], d.pending[j] = d.pending[j], d.pending[i]
	})
	for i, c := range d.pending {
		if c.Progress == domain.Mastered {
			continue
		}
		d.pending[i] = d.current
		d.current = c
		return d
	}
	return d
}
