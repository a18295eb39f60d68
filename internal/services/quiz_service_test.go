package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantum-quiz/backend/internal/adaptive"
	"github.com/quantum-quiz/backend/internal/leitner"
	"github.com/quantum-quiz/backend/internal/models"
	"github.com/quantum-quiz/backend/internal/questionbank"
	"github.com/quantum-quiz/backend/internal/random"
	"github.com/quantum-quiz/backend/internal/services"
	"github.com/quantum-quiz/backend/internal/storage"
	"github.com/quantum-quiz/backend/internal/testutil"
)

func testBank(t *testing.T) *questionbank.Bank {
	t.Helper()

	type jsonQuestion struct {
		ID            string   `json:"id"`
		Type          string   `json:"type"`
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer int      `json:"correct_answer"`
		Difficulty    string   `json:"difficulty"`
	}

	difficulties := []string{"easy", "medium", "hard"}
	var questions []jsonQuestion
	for i := 0; i < 12; i++ {
		questions = append(questions, jsonQuestion{
			ID:            fmt.Sprintf("q%03d", i),
			Type:          "qcm",
			Question:      fmt.Sprintf("Question %d", i),
			Options:       []string{"A", "B", "C"},
			CorrectAnswer: 0,
			Difficulty:    difficulties[i%3],
		})
	}

	raw, err := json.Marshal(map[string]any{
		"chapters": []map[string]any{
			{"chapter_id": "ch1", "chapter_title": "Quantum states", "questions": questions[:6]},
			{"chapter_id": "ch2", "chapter_title": "Operators", "questions": questions[6:]},
		},
	})
	require.NoError(t, err)

	bank, err := questionbank.Parse(raw)
	require.NoError(t, err)
	return bank
}

func newQuizService(t *testing.T) (services.QuizService, *adaptive.Engine) {
	t.Helper()
	engine := adaptive.New(context.Background(), storage.NewMemStore(),
		adaptive.WithSource(random.NewSeededSource(7)))
	return services.NewQuizService(testBank(t), engine), engine
}

func newFlashcardService(t *testing.T, bank *questionbank.Bank) services.FlashcardService {
	t.Helper()
	scheduler := leitner.New(context.Background(), storage.NewMemStore())
	return services.NewFlashcardService(bank, scheduler)
}

func TestQuizService_SelectQuestions(t *testing.T) {
	svc, engine := newQuizService(t)
	ctx := context.Background()
	engine.SetEnabled(ctx, true)

	questions, err := svc.SelectQuestions(ctx, "", 8)
	require.NoError(t, err)
	assert.Len(t, questions, 8)
}

func TestQuizService_SelectQuestions_ChapterScoped(t *testing.T) {
	svc, _ := newQuizService(t)

	questions, err := svc.SelectQuestions(context.Background(), "ch2", 4)
	require.NoError(t, err)
	require.Len(t, questions, 4)
	for _, q := range questions {
		assert.Equal(t, "ch2", q.ChapterID)
	}
}

func TestQuizService_SelectQuestions_UnknownChapter(t *testing.T) {
	svc, _ := newQuizService(t)

	_, err := svc.SelectQuestions(context.Background(), "ch99", 4)
	assert.Error(t, err)
}

func TestQuizService_SelectQuestions_InvalidCount(t *testing.T) {
	svc, _ := newQuizService(t)

	_, err := svc.SelectQuestions(context.Background(), "", 0)
	assert.Error(t, err)
}

func TestQuizService_RecordAnswerFeedsEngine(t *testing.T) {
	svc, engine := newQuizService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := svc.RecordAnswer(ctx, models.AnswerEvent{
			Difficulty: models.DifficultyMedium,
			IsCorrect:  true,
			ChapterID:  "ch1",
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, engine.Stats().TotalAnswers)
}

func TestQuizService_RecordAnswer_EmptyDifficulty(t *testing.T) {
	svc, _ := newQuizService(t)

	err := svc.RecordAnswer(context.Background(), models.AnswerEvent{IsCorrect: true})
	assert.Error(t, err)
}

func TestFlashcardService_ReviewFlow(t *testing.T) {
	bank := testBank(t)
	clock := testutil.NewClock(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	scheduler := leitner.New(context.Background(), storage.NewMemStore(), leitner.WithClock(clock.Now))
	svc := services.NewFlashcardService(bank, scheduler)
	ctx := context.Background()

	due := svc.DueCards(ctx, "")
	require.Len(t, due, 12, "every card starts due")

	state, err := svc.Review(ctx, due[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Box)

	due = svc.DueCards(ctx, "")
	assert.Len(t, due, 11, "reviewed card moved out of today")

	stats := svc.Stats(ctx)
	assert.Equal(t, 12, stats.Total)
	assert.Equal(t, 1, stats.ByBox[2])
}

func TestFlashcardService_ReviewUnknownCard(t *testing.T) {
	bank := testBank(t)
	scheduler := leitner.New(context.Background(), storage.NewMemStore())
	svc := services.NewFlashcardService(bank, scheduler)

	_, err := svc.Review(context.Background(), "missing-card", true)
	assert.Error(t, err)
}

func TestFlashcardService_DueCards_ChapterFilter(t *testing.T) {
	bank := testBank(t)
	scheduler := leitner.New(context.Background(), storage.NewMemStore())
	svc := services.NewFlashcardService(bank, scheduler)

	due := svc.DueCards(context.Background(), "ch1")
	require.Len(t, due, 6)
	for _, card := range due {
		assert.Equal(t, "ch1", card.ChapterID)
	}
}
