package services

import (
	"context"

	"github.com/quantum-quiz/backend/internal/logger"
	"github.com/quantum-quiz/backend/internal/models"
)

// Overview bundles the snapshots shown on the statistics screen.
type Overview struct {
	Adaptive    models.AdaptiveStats  `json:"adaptive"`
	Flashcards  models.FlashcardStats `json:"flashcards"`
	Leaderboard []models.QuizResult   `json:"leaderboard"`
}

// StatsService aggregates the per-component statistics
type StatsService interface {
	Overview(ctx context.Context) (Overview, error)
}

type statsService struct {
	quiz        QuizService
	flashcards  FlashcardService
	leaderboard LeaderboardService
	topSize     int
}

// NewStatsService creates a new StatsService
func NewStatsService(quiz QuizService, flashcards FlashcardService, leaderboard LeaderboardService, topSize int) StatsService {
	if topSize <= 0 {
		topSize = 10
	}
	return &statsService{quiz: quiz, flashcards: flashcards, leaderboard: leaderboard, topSize: topSize}
}

func (s *statsService) Overview(ctx context.Context) (Overview, error) {
	log := logger.FromContext(ctx)
	log.Debug("building stats overview")

	top, err := s.leaderboard.List(ctx, models.ResultFilter{Limit: s.topSize})
	if err != nil {
		return Overview{}, err
	}

	return Overview{
		Adaptive:    s.quiz.AdaptiveStats(ctx),
		Flashcards:  s.flashcards.Stats(ctx),
		Leaderboard: top,
	}, nil
}
