// Package practice is the entry point for running practice sessions against
// stored lessons. It ties readiness, session selection and the deck together.
package practice

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/conorfennell/kanjikoto/internal/deck"
	"github.com/conorfennell/kanjikoto/internal/domain"
	"github.com/conorfennell/kanjikoto/internal/readiness"
	"github.com/conorfennell/kanjikoto/internal/selector"
)

// Store is the storage the service reads phrases from and records passes to.
type Store interface {
	ListPhrases(ctx context.Context, lessonID int64) ([]domain.Phrase, error)
	RecordPasses(ctx context.Context, ids []int64, now time.Time) error
}

type nower interface {
	Now() time.Time
}

type RealNower struct{}

func (RealNower) Now() time.Time {
	return time.Now()
}

// Service runs practice sessions. Seed 0 draws a fresh seed for every
// session; any other value makes selection and rotation reproducible.
type Service struct {
	Store       Store
	SessionSize int
	Seed        uint64
	Nower       nower
}

func NewService(store Store, sessionSize int, seed uint64) *Service {
	if sessionSize < 1 {
		sessionSize = selector.DefaultSessionSize
	}
	return &Service{Store: store, SessionSize: sessionSize, Seed: seed, Nower: RealNower{}}
}

func (s *Service) seed() uint64 {
	if s.Seed != 0 {
		return s.Seed
	}
	return rand.Uint64()
}

func storeErr(err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}

// ListItems returns every stored phrase of a lesson.
func (s *Service) ListItems(ctx context.Context, lessonID int64) ([]domain.Phrase, error) {
	phrases, err := s.Store.ListPhrases(ctx, lessonID)
	if err != nil {
		return nil, storeErr(err)
	}
	return phrases, nil
}

// ComputeStatus counts the lesson's ready and learned phrases right now.
func (s *Service) ComputeStatus(ctx context.Context, lessonID int64) (domain.LessonStatus, error) {
	phrases, err := s.ListItems(ctx, lessonID)
	if err != nil {
		return domain.LessonStatus{}, err
	}
	return readiness.Status(lessonID, phrases, s.Nower.Now()), nil
}

// SelectSession picks the cards for the next session of a lesson.
func (s *Service) SelectSession(ctx context.Context, lessonID int64) ([]domain.Card, error) {
	phrases, err := s.ListItems(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	seed := s.seed()
	rng := rand.New(rand.NewPCG(seed, ^seed))
	cards, err := selector.Select(phrases, s.Nower.Now(), s.SessionSize, rng)
	if err != nil {
		return nil, fmt.Errorf("lesson %d: %w", lessonID, err)
	}
	log.Ctx(ctx).Debug().Int64("lesson", lessonID).Int("phrases", len(phrases)).
		Int("cards", len(cards)).Msg("session-selected")
	return cards, nil
}

// StartSession builds the deck for a session.
func (s *Service) StartSession(cards []domain.Card) (*deck.Deck, error) {
	return deck.New(cards, s.seed())
}

// ApplyEvent records the learner's answer to the top card.
func (s *Service) ApplyEvent(d *deck.Deck, ev deck.Event) *deck.Deck {
	return d.Apply(ev)
}

// IsComplete reports whether every card of the session has been passed.
func (s *Service) IsComplete(d *deck.Deck) bool {
	return d.IsAllPassed()
}

// Finalize ends a session, returning its cards and counters.
func (s *Service) Finalize(d *deck.Deck) ([]domain.Card, deck.Stats) {
	return d.Finalize()
}

// RecordPasses stamps the given phrases as passed now, in one transaction.
func (s *Service) RecordPasses(ctx context.Context, ids []int64) error {
	if err := s.Store.RecordPasses(ctx, ids, s.Nower.Now()); err != nil {
		return storeErr(err)
	}
	return nil
}

// Complete finalizes a session and records a pass for every card that was
// mastered. Cards without a stored phrase are skipped. An abandoned session
// never reaches Complete, so nothing is stored for it.
func (s *Service) Complete(ctx context.Context, d *deck.Deck) (deck.Stats, error) {
	var ids []int64
	for _, c := range d.Mastered() {
		if c.ID != 0 {
			ids = append(ids, c.ID)
		}
	}
	cards, stats := s.Finalize(d)
	if err := s.RecordPasses(ctx, ids); err != nil {
		return stats, err
	}
	log.Ctx(ctx).Info().Int("cards", len(cards)).Int("recorded", len(ids)).
		Int("answers", stats.Total()).Int("passed", stats.Passed).Int("failed", stats.Failed).
		Int("repeated", stats.Repeated).Int("learned", stats.Learned).
		Msg("session-complete")
	return stats, nil
}
