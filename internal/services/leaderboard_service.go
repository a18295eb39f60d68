package services

import (
	"context"
	"strings"

	"github.com/quantum-quiz/backend/internal/errors"
	"github.com/quantum-quiz/backend/internal/logger"
	"github.com/quantum-quiz/backend/internal/models"
	"github.com/quantum-quiz/backend/internal/repository"
	"github.com/quantum-quiz/backend/internal/worker"
)

const maxUsernameLength = 50

// LeaderboardService persists quiz submissions and serves rankings
type LeaderboardService interface {
	Submit(ctx context.Context, result models.QuizResult) error
	List(ctx context.Context, filter models.ResultFilter) ([]models.QuizResult, error)
}

type leaderboardService struct {
	repo repository.ResultRepository
	pool *worker.Pool
}

// NewLeaderboardService creates a new LeaderboardService. The pool is used
// for fire-and-forget inserts; pass nil to insert synchronously.
func NewLeaderboardService(repo repository.ResultRepository, pool *worker.Pool) LeaderboardService {
	return &leaderboardService{repo: repo, pool: pool}
}

// sanitizeUsername trims, bounds, and strips markup-sensitive characters.
func sanitizeUsername(name string) string {
	name = strings.TrimSpace(name)
	if len(name) > maxUsernameLength {
		name = name[:maxUsernameLength]
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '"', '\'':
			return -1
		}
		return r
	}, name)
}

func (s *leaderboardService) Submit(ctx context.Context, result models.QuizResult) error {
	log := logger.FromContext(ctx)

	result.Username = sanitizeUsername(result.Username)
	if result.Username == "" {
		return errors.NewValidationError("username", "cannot be empty")
	}
	if result.Score < 0 || result.Score > 100 {
		return errors.NewValidationError("score", "must be between 0 and 100")
	}
	if result.Mode == "" {
		result.Mode = "learning"
	}

	log.Debug("submitting result: username=%s, score=%d, mode=%s", result.Username, result.Score, result.Mode)

	job := &persistResultJob{repo: s.repo, result: result}
	if s.pool != nil && s.pool.TrySubmit(job) {
		return nil
	}

	// Queue full or no pool configured: insert inline.
	if _, err := s.repo.Insert(ctx, result); err != nil {
		log.Error("failed to insert quiz result: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *leaderboardService) List(ctx context.Context, filter models.ResultFilter) ([]models.QuizResult, error) {
	results, err := s.repo.List(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list quiz results: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return results, nil
}

// persistResultJob writes one quiz result in the background.
type persistResultJob struct {
	repo   repository.ResultRepository
	result models.QuizResult
}

func (j *persistResultJob) Name() string { return "persist_result" }

func (j *persistResultJob) Run(ctx context.Context) error {
	_, err := j.repo.Insert(ctx, j.result)
	return err
}
