package services

import (
	"context"

	"github.com/quantum-quiz/backend/internal/adaptive"
	"github.com/quantum-quiz/backend/internal/errors"
	"github.com/quantum-quiz/backend/internal/logger"
	"github.com/quantum-quiz/backend/internal/models"
	"github.com/quantum-quiz/backend/internal/questionbank"
)

// QuizService handles question selection and answer recording
type QuizService interface {
	SelectQuestions(ctx context.Context, chapterID string, count int) ([]models.Question, error)
	RecordAnswer(ctx context.Context, event models.AnswerEvent) error
	AdaptiveStats(ctx context.Context) models.AdaptiveStats
	Recommendation(ctx context.Context) models.Recommendation
	SetAdaptiveEnabled(ctx context.Context, enabled bool)
	ResetAdaptive(ctx context.Context)
}

type quizService struct {
	bank   *questionbank.Bank
	engine *adaptive.Engine
}

// NewQuizService creates a new QuizService
func NewQuizService(bank *questionbank.Bank, engine *adaptive.Engine) QuizService {
	return &quizService{bank: bank, engine: engine}
}

func (s *quizService) SelectQuestions(ctx context.Context, chapterID string, count int) ([]models.Question, error) {
	log := logger.FromContext(ctx)
	log.Debug("selecting questions: chapter=%q, count=%d", chapterID, count)

	if count <= 0 {
		return nil, errors.NewValidationError("count", "must be positive")
	}

	pool := s.bank.Questions(chapterID)
	if len(pool) == 0 && chapterID != "" {
		return nil, errors.NewNotFoundError("chapter", chapterID)
	}

	selected := s.engine.SelectQuestions(pool, count)
	log.Debug("selected %d questions from pool of %d", len(selected), len(pool))
	return selected, nil
}

func (s *quizService) RecordAnswer(ctx context.Context, event models.AnswerEvent) error {
	log := logger.FromContext(ctx)

	// Unknown difficulties are tolerated downstream; an empty one means the
	// caller sent a malformed event.
	if event.Difficulty == "" {
		return errors.NewValidationError("difficulty", "cannot be empty")
	}

	log.Debug("recording answer: difficulty=%s, correct=%t, chapter=%q",
		event.Difficulty, event.IsCorrect, event.ChapterID)
	s.engine.RecordAnswer(ctx, event)
	return nil
}

func (s *quizService) AdaptiveStats(ctx context.Context) models.AdaptiveStats {
	return s.engine.Stats()
}

func (s *quizService) Recommendation(ctx context.Context) models.Recommendation {
	return s.engine.Recommendation()
}

func (s *quizService) SetAdaptiveEnabled(ctx context.Context, enabled bool) {
	logger.FromContext(ctx).Info("adaptive mode set to %t", enabled)
	s.engine.SetEnabled(ctx, enabled)
}

func (s *quizService) ResetAdaptive(ctx context.Context) {
	logger.FromContext(ctx).Info("adaptive state reset")
	s.engine.Reset(ctx)
}
