// Package selector builds the pool of cards a practice session starts with.
package selector

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/conorfennell/kanjikoto/internal/domain"
	"github.com/conorfennell/kanjikoto/internal/readiness"
)

// DefaultSessionSize is the number of cards in one practice session.
const DefaultSessionSize = 5

// Select picks up to size cards from items. Due phrases are preferred; if
// there are not enough of them, resting phrases fill the remainder. The
// returned cards are shuffled so the caller cannot tell the two groups apart.
func Select(items []domain.Phrase, now time.Time, size int, rng *rand.Rand) ([]domain.Card, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyPool
	}
	if size < 1 {
		return nil, fmt.Errorf("session size must be at least 1, got %d", size)
	}

	due, resting := readiness.Partition(items, now)
	picked := sample(due, size, rng)
	if missing := size - len(picked); missing > 0 {
		picked = append(picked, sample(resting, missing, rng)...)
	}
	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	cards := make([]domain.Card, len(picked))
	for i, p := range picked {
		cards[i] = domain.NewCard(p)
	}
	return cards, nil
}

// sample returns up to n phrases drawn from src without replacement.
// src is not modified.
func sample(src []domain.Phrase, n int, rng *rand.Rand) []domain.Phrase {
	if n <= 0 || len(src) == 0 {
		return nil
	}
	n = min(n, len(src))
	out := make([]domain.Phrase, 0, n)
	for _, i := range rng.Perm(len(src))[:n] {
		out = append(out, src[i])
	}
	return out
}
