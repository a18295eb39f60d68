package repository

import (
	"context"

	"github.com/quantum-quiz/backend/internal/models"
)

// ResultRepository persists and serves submitted quiz scores.
type ResultRepository interface {
	Insert(ctx context.Context, result models.QuizResult) (int64, error)
	List(ctx context.Context, filter models.ResultFilter) ([]models.QuizResult, error)
	Count(ctx context.Context, filter models.ResultFilter) (int, error)
}
