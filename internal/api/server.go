package api

import (
	"github.com/quantum-quiz/backend/internal/questionbank"
	"github.com/quantum-quiz/backend/internal/services"
)

// Server bundles the services behind the HTTP API.
type Server struct {
	QuizService        services.QuizService
	FlashcardService   services.FlashcardService
	LeaderboardService services.LeaderboardService
	StatsService       services.StatsService
	Bank               *questionbank.Bank

	CORSOrigins     []string
	LeaderboardSize int
}
