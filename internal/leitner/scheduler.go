// Package leitner implements the 5-box Leitner spaced-repetition scheduler:
// correct reviews promote a card one box, incorrect reviews drop it back to
// box 1, and each box fixes the number of calendar days until the next
// review.
package leitner

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/quantum-quiz/backend/internal/logger"
	"github.com/quantum-quiz/backend/internal/models"
	"github.com/quantum-quiz/backend/internal/storage"
)

// StorageKey is the key the scheduler persists the full card-state map under.
const StorageKey = "flashcard_states"

// Review dates are calendar days, not instants. ISO day strings compare
// correctly with plain string ordering.
const dayFormat = "2006-01-02"

// Boxes is the fixed interval table. Box 1 holds cards still being learned,
// box 5 holds mastered cards reviewed every two weeks.
var Boxes = []models.BoxDefinition{
	{ID: 1, IntervalDays: 1, Name: "Learning"},
	{ID: 2, IntervalDays: 2, Name: "Review in 2 days"},
	{ID: 3, IntervalDays: 4, Name: "Review in 4 days"},
	{ID: 4, IntervalDays: 7, Name: "Review in 7 days"},
	{ID: 5, IntervalDays: 14, Name: "Mastered"},
}

const maxBox = 5

// Scheduler owns the per-card review states, keyed by card id. States are
// created lazily, mutated only by UpdateCardState, and persisted as a single
// JSON map. Safe for concurrent use from HTTP handlers.
type Scheduler struct {
	mu     sync.Mutex
	states map[string]models.CardReviewState
	store  storage.Store
	key    string
	now    func() time.Time
	log    *logger.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock injects the time source used for day computations. Tests use a
// fixed clock to simulate day advancement.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithStorageKey overrides the persistence key.
func WithStorageKey(key string) Option {
	return func(s *Scheduler) { s.key = key }
}

// New creates a Scheduler backed by store, restoring previously persisted
// card states when present. Corrupt or missing state falls back to an empty
// map.
func New(ctx context.Context, store storage.Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		states: map[string]models.CardReviewState{},
		store:  store,
		key:    StorageKey,
		now:    time.Now,
		log:    logger.Default().WithPrefix("leitner"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.loadStates(ctx)
	return s
}

func (s *Scheduler) loadStates(ctx context.Context) {
	raw, err := s.store.Load(ctx, s.key)
	if err != nil {
		if err != storage.ErrNotFound {
			s.log.Warn("failed to load card states, starting empty: %v", err)
		}
		return
	}

	var states map[string]models.CardReviewState
	if err := json.Unmarshal([]byte(raw), &states); err != nil {
		s.log.Warn("corrupt card states, starting empty: %v", err)
		return
	}
	if states == nil {
		return
	}
	// Persisted data is untrusted; keep the box invariant by clamping.
	for id, state := range states {
		if state.Box < 1 {
			state.Box = 1
		}
		if state.Box > maxBox {
			state.Box = maxBox
		}
		states[id] = state
	}
	s.states = states
}

func (s *Scheduler) persist(ctx context.Context) {
	raw, err := json.Marshal(s.states)
	if err != nil {
		s.log.Error("failed to serialize card states: %v", err)
		return
	}
	if err := s.store.Save(ctx, s.key, string(raw)); err != nil {
		// In-memory states stay authoritative for the session.
		s.log.Warn("failed to persist card states: %v", err)
	}
}

func (s *Scheduler) today() string {
	return s.now().Format(dayFormat)
}

func (s *Scheduler) stateLocked(cardID string) models.CardReviewState {
	if state, ok := s.states[cardID]; ok {
		return state
	}
	// Lazy default: a never-reviewed card sits in box 1 and is due today.
	// Not written back; persistence happens only on update.
	return models.CardReviewState{
		Box:            1,
		NextReviewDate: s.today(),
	}
}

// CardState returns the review state for cardID, or the fresh default for an
// unseen card. Querying an unseen card has no side effect on storage.
func (s *Scheduler) CardState(cardID string) models.CardReviewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(cardID)
}

// IntervalDays returns the review interval for a box, defaulting to the
// box 1 interval for out-of-range values.
func IntervalDays(box int) int {
	for _, b := range Boxes {
		if b.ID == box {
			return b.IntervalDays
		}
	}
	return Boxes[0].IntervalDays
}

// UpdateCardState applies one review outcome: a correct answer promotes the
// card one box (capped at 5), an incorrect answer drops it back to box 1
// regardless of where it was. The next review date is the current day plus
// the new box's interval.
func (s *Scheduler) UpdateCardState(ctx context.Context, cardID string, correct bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.stateLocked(cardID)
	now := s.now()
	today := now.Format(dayFormat)

	if correct {
		if state.Box < maxBox {
			state.Box++
		}
	} else {
		state.Box = 1
	}

	state.LastReviewDate = today
	state.ReviewCount++
	state.NextReviewDate = now.AddDate(0, 0, IntervalDays(state.Box)).Format(dayFormat)

	s.states[cardID] = state
	s.persist(ctx)
}

// CardsForToday filters cards to those due today or earlier, optionally
// restricted to one chapter. Order follows the input; presentation-time
// shuffling is the caller's concern.
func (s *Scheduler) CardsForToday(cards []models.Flashcard, chapterID string) []models.Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	var due []models.Flashcard
	for _, card := range cards {
		if chapterID != "" && card.ChapterID != chapterID {
			continue
		}
		if s.stateLocked(card.ID).NextReviewDate <= today {
			due = append(due, card)
		}
	}
	return due
}

// Stats summarizes the review state of the given card collection.
func (s *Scheduler) Stats(cards []models.Flashcard) models.FlashcardStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.FlashcardStats{
		Total: len(cards),
		ByBox: make(map[int]int, maxBox),
	}
	for _, box := range Boxes {
		stats.ByBox[box.ID] = 0
	}

	today := s.today()
	for _, card := range cards {
		state := s.stateLocked(card.ID)
		stats.ByBox[state.Box]++
		if state.NextReviewDate <= today {
			stats.DueToday++
		}
		if state.Box == maxBox {
			stats.Mastered++
		}
	}
	return stats
}
