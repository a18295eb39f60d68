package leitner_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantum-quiz/backend/internal/leitner"
	"github.com/quantum-quiz/backend/internal/models"
	"github.com/quantum-quiz/backend/internal/storage"
)

// fixedClock lets tests advance the calendar day deterministically.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.t
}

func (c *fixedClock) AdvanceDays(days int) {
	c.t = c.t.AddDate(0, 0, days)
}

func newScheduler(t *testing.T) (*leitner.Scheduler, *fixedClock, *storage.MemStore) {
	t.Helper()
	clock := &fixedClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	store := storage.NewMemStore()
	s := leitner.New(context.Background(), store, leitner.WithClock(clock.Now))
	return s, clock, store
}

func TestCardState_LazyDefaultWithoutPersisting(t *testing.T) {
	s, _, store := newScheduler(t)

	state := s.CardState("q1")

	assert.Equal(t, 1, state.Box)
	assert.Empty(t, state.LastReviewDate)
	assert.Equal(t, "2026-03-10", state.NextReviewDate)
	assert.Equal(t, 0, state.ReviewCount)
	assert.Equal(t, 0, store.Len(), "querying an unseen card must not write to storage")
}

func TestUpdateCardState_PromotionToMastered(t *testing.T) {
	s, clock, _ := newScheduler(t)
	ctx := context.Background()

	// Four correct reviews promote box 1 -> 5.
	for i := 0; i < 4; i++ {
		s.UpdateCardState(ctx, "q1", true)
		clock.AdvanceDays(leitner.IntervalDays(s.CardState("q1").Box))
	}

	state := s.CardState("q1")
	assert.Equal(t, 5, state.Box)
	assert.Equal(t, 4, state.ReviewCount)

	last, err := time.Parse("2006-01-02", state.LastReviewDate)
	require.NoError(t, err)
	assert.Equal(t, last.AddDate(0, 0, 14).Format("2006-01-02"), state.NextReviewDate)
}

func TestUpdateCardState_Box5IsCapped(t *testing.T) {
	s, _, _ := newScheduler(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		s.UpdateCardState(ctx, "q1", true)
	}

	assert.Equal(t, 5, s.CardState("q1").Box)
}

func TestUpdateCardState_IncorrectDropsToBoxOne(t *testing.T) {
	s, _, _ := newScheduler(t)
	ctx := context.Background()

	// Reach box 4, then fail once.
	for i := 0; i < 3; i++ {
		s.UpdateCardState(ctx, "q1", true)
	}
	require.Equal(t, 4, s.CardState("q1").Box)

	s.UpdateCardState(ctx, "q1", false)

	state := s.CardState("q1")
	assert.Equal(t, 1, state.Box)
	assert.Equal(t, "2026-03-10", state.LastReviewDate)
	assert.Equal(t, "2026-03-11", state.NextReviewDate, "box 1 is due again after 1 day")
	assert.Equal(t, 4, state.ReviewCount)
}

func cards() []models.Flashcard {
	return []models.Flashcard{
		{ID: "q1", ChapterID: "ch1"},
		{ID: "q2", ChapterID: "ch1"},
		{ID: "q3", ChapterID: "ch2"},
	}
}

func TestCardsForToday_DueBoundary(t *testing.T) {
	s, clock, _ := newScheduler(t)
	ctx := context.Background()

	// q1 reviewed correctly: box 2, due in 2 days. q2 untouched: due today.
	s.UpdateCardState(ctx, "q1", true)

	due := s.CardsForToday(cards(), "")
	assert.Equal(t, []models.Flashcard{{ID: "q2", ChapterID: "ch1"}, {ID: "q3", ChapterID: "ch2"}}, due)

	// The day q1 becomes due it is included (<= comparison).
	clock.AdvanceDays(2)
	due = s.CardsForToday(cards(), "")
	assert.Len(t, due, 3)
}

func TestCardsForToday_TomorrowExcluded(t *testing.T) {
	s, clock, _ := newScheduler(t)
	ctx := context.Background()

	s.UpdateCardState(ctx, "q1", false) // box 1, due tomorrow

	due := s.CardsForToday([]models.Flashcard{{ID: "q1"}}, "")
	assert.Empty(t, due)

	clock.AdvanceDays(1)
	due = s.CardsForToday([]models.Flashcard{{ID: "q1"}}, "")
	assert.Len(t, due, 1)
}

func TestCardsForToday_ChapterFilterAndOrder(t *testing.T) {
	s, _, _ := newScheduler(t)

	due := s.CardsForToday(cards(), "ch1")

	require.Len(t, due, 2)
	assert.Equal(t, "q1", due[0].ID, "order must follow the input slice")
	assert.Equal(t, "q2", due[1].ID)
}

func TestStats_Histogram(t *testing.T) {
	s, _, _ := newScheduler(t)
	ctx := context.Background()

	// q1 -> box 2, q2 -> box 5, q3 untouched in box 1.
	s.UpdateCardState(ctx, "q1", true)
	for i := 0; i < 4; i++ {
		s.UpdateCardState(ctx, "q2", true)
	}

	stats := s.Stats(cards())

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 0, 4: 0, 5: 1}, stats.ByBox)
	assert.Equal(t, 1, stats.DueToday, "only the untouched card is due")
	assert.Equal(t, 1, stats.Mastered)
}

func TestNew_RestoresPersistedStates(t *testing.T) {
	clock := &fixedClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	store := storage.NewMemStore()
	ctx := context.Background()

	s := leitner.New(ctx, store, leitner.WithClock(clock.Now))
	s.UpdateCardState(ctx, "q1", true)
	s.UpdateCardState(ctx, "q1", true)
	want := s.CardState("q1")

	restored := leitner.New(ctx, store, leitner.WithClock(clock.Now))
	assert.Equal(t, want, restored.CardState("q1"))
}

func TestNew_CorruptStateStartsEmpty(t *testing.T) {
	store := storage.NewMemStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, leitner.StorageKey, "][ not json"))

	s := leitner.New(ctx, store)
	assert.Equal(t, 1, s.CardState("q1").Box)
}

func TestNew_ClampsOutOfRangeBoxes(t *testing.T) {
	store := storage.NewMemStore()
	ctx := context.Background()
	raw := `{"q1":{"box":9,"next_review":"2020-01-01","review_count":3},"q2":{"box":0,"next_review":"2020-01-01","review_count":1}}`
	require.NoError(t, store.Save(ctx, leitner.StorageKey, raw))

	s := leitner.New(ctx, store)

	assert.Equal(t, 5, s.CardState("q1").Box)
	assert.Equal(t, 1, s.CardState("q2").Box)
}

func TestIntervalDays_Table(t *testing.T) {
	tests := []struct {
		box  int
		want int
	}{
		{1, 1}, {2, 2}, {3, 4}, {4, 7}, {5, 14},
		{0, 1}, {6, 1}, // out of range falls back to box 1
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, leitner.IntervalDays(tt.box), "box %d", tt.box)
	}
}
