package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/quantum-quiz/backend/internal/models"
)

// MemResultRepository keeps quiz results in memory. It backs the server when
// the SQLite database cannot be opened, so submissions survive for the
// lifetime of the process but not across restarts.
type MemResultRepository struct {
	mu      sync.RWMutex
	results []models.QuizResult
	nextID  int64
}

func NewMemResultRepository() *MemResultRepository {
	return &MemResultRepository{nextID: 1}
}

func (r *MemResultRepository) Insert(ctx context.Context, result models.QuizResult) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result.ID = r.nextID
	r.nextID++
	r.results = append(r.results, result)
	return result.ID, nil
}

func (r *MemResultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.QuizResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.QuizResult
	for _, res := range r.results {
		if filter.ChapterID != "" && res.ChapterID != filter.ChapterID {
			continue
		}
		if filter.Mode != "" && res.Mode != filter.Mode {
			continue
		}
		if filter.Username != "" && res.Username != filter.Username {
			continue
		}
		out = append(out, res)
	}

	asc := filter.OrderDir == "ASC"
	switch filter.OrderBy {
	case "submitted_at":
		sort.SliceStable(out, func(i, j int) bool {
			if asc {
				return out[i].SubmittedAt.Before(out[j].SubmittedAt)
			}
			return out[j].SubmittedAt.Before(out[i].SubmittedAt)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			if asc {
				return out[i].Score < out[j].Score
			}
			return out[j].Score < out[i].Score
		})
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemResultRepository) Count(ctx context.Context, filter models.ResultFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, res := range r.results {
		if filter.ChapterID != "" && res.ChapterID != filter.ChapterID {
			continue
		}
		if filter.Mode != "" && res.Mode != filter.Mode {
			continue
		}
		if filter.Username != "" && res.Username != filter.Username {
			continue
		}
		count++
	}
	return count, nil
}
