package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quantum-quiz/backend/internal/models"
	"github.com/quantum-quiz/backend/internal/services"
	"github.com/quantum-quiz/backend/internal/testutil/mocks"
)

func TestLeaderboardService_SubmitInline(t *testing.T) {
	repo := new(mocks.MockResultRepository)
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(r models.QuizResult) bool {
		return r.Username == "alice" && r.Score == 80 && r.Mode == "learning"
	})).Return(int64(1), nil)

	svc := services.NewLeaderboardService(repo, nil)
	err := svc.Submit(context.Background(), models.QuizResult{Username: "alice", Score: 80})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestLeaderboardService_SubmitSanitizesUsername(t *testing.T) {
	// Only the characters <>"' are stripped; surrounding text survives.
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"trims and strips quotes", `  "bob"'  `, "bob"},
		{"strips brackets but keeps inner text", "<b>bob</b>", "bbob/b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mocks.MockResultRepository)
			repo.On("Insert", mock.Anything, mock.MatchedBy(func(r models.QuizResult) bool {
				return r.Username == tc.want
			})).Return(int64(1), nil)

			svc := services.NewLeaderboardService(repo, nil)
			err := svc.Submit(context.Background(), models.QuizResult{Username: tc.input, Score: 50, Mode: "exam"})

			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestLeaderboardService_SubmitRejectsBadScore(t *testing.T) {
	repo := new(mocks.MockResultRepository)
	svc := services.NewLeaderboardService(repo, nil)

	assert.Error(t, svc.Submit(context.Background(), models.QuizResult{Username: "alice", Score: 101}))
	assert.Error(t, svc.Submit(context.Background(), models.QuizResult{Username: "alice", Score: -1}))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestLeaderboardService_SubmitRejectsEmptyUsername(t *testing.T) {
	repo := new(mocks.MockResultRepository)
	svc := services.NewLeaderboardService(repo, nil)

	assert.Error(t, svc.Submit(context.Background(), models.QuizResult{Username: `<>"'`, Score: 10}))
}

func TestLeaderboardService_List(t *testing.T) {
	repo := new(mocks.MockResultRepository)
	want := []models.QuizResult{{ID: 1, Username: "alice", Score: 90}}
	repo.On("List", mock.Anything, models.ResultFilter{Limit: 10}).Return(want, nil)

	svc := services.NewLeaderboardService(repo, nil)
	got, err := svc.List(context.Background(), models.ResultFilter{Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStatsService_Overview(t *testing.T) {
	repo := new(mocks.MockResultRepository)
	repo.On("List", mock.Anything, mock.Anything).Return([]models.QuizResult{{ID: 1, Username: "alice", Score: 90}}, nil)

	quiz, _ := newQuizService(t)
	bank := testBank(t)
	flashcards := newFlashcardService(t, bank)
	leaderboard := services.NewLeaderboardService(repo, nil)

	svc := services.NewStatsService(quiz, flashcards, leaderboard, 10)
	overview, err := svc.Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 12, overview.Flashcards.Total)
	assert.Len(t, overview.Leaderboard, 1)
	assert.Equal(t, 50, overview.Adaptive.EstimatedAbility)
}
