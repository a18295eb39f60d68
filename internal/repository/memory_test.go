package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantum-quiz/backend/internal/models"
)

func seedMemRepo(t *testing.T) *MemResultRepository {
	t.Helper()
	repo := NewMemResultRepository()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	results := []models.QuizResult{
		{Username: "alice", Score: 90, ChapterID: "ch1", Mode: "exam", SubmittedAt: base},
		{Username: "bob", Score: 70, ChapterID: "ch2", Mode: "learning", SubmittedAt: base.Add(time.Hour)},
		{Username: "carol", Score: 80, ChapterID: "ch1", Mode: "exam", SubmittedAt: base.Add(2 * time.Hour)},
	}
	for _, r := range results {
		_, err := repo.Insert(ctx, r)
		require.NoError(t, err)
	}
	return repo
}

func TestMemResultRepository_InsertAssignsIDs(t *testing.T) {
	repo := NewMemResultRepository()
	ctx := context.Background()

	id1, err := repo.Insert(ctx, models.QuizResult{Username: "alice", Score: 50})
	require.NoError(t, err)
	id2, err := repo.Insert(ctx, models.QuizResult{Username: "bob", Score: 60})
	require.NoError(t, err)

	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)
}

func TestMemResultRepository_ListOrdersByScoreDesc(t *testing.T) {
	repo := seedMemRepo(t)

	out, err := repo.List(context.Background(), models.ResultFilter{})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []int{90, 80, 70}, []int{out[0].Score, out[1].Score, out[2].Score})
}

func TestMemResultRepository_ListFilters(t *testing.T) {
	repo := seedMemRepo(t)
	ctx := context.Background()

	out, err := repo.List(ctx, models.ResultFilter{ChapterID: "ch1"})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	out, err = repo.List(ctx, models.ResultFilter{Mode: "learning"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "bob", out[0].Username)

	out, err = repo.List(ctx, models.ResultFilter{Username: "carol"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 80, out[0].Score)
}

func TestMemResultRepository_ListLimitOffset(t *testing.T) {
	repo := seedMemRepo(t)
	ctx := context.Background()

	out, err := repo.List(ctx, models.ResultFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	out, err = repo.List(ctx, models.ResultFilter{Offset: 2})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 70, out[0].Score)

	out, err = repo.List(ctx, models.ResultFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMemResultRepository_ListBySubmittedAt(t *testing.T) {
	repo := seedMemRepo(t)

	out, err := repo.List(context.Background(), models.ResultFilter{OrderBy: "submitted_at", OrderDir: "ASC"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "alice", out[0].Username)
	assert.Equal(t, "carol", out[2].Username)
}

func TestMemResultRepository_Count(t *testing.T) {
	repo := seedMemRepo(t)
	ctx := context.Background()

	n, err := repo.Count(ctx, models.ResultFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.Count(ctx, models.ResultFilter{Mode: "exam"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
