package api

import (
	"net/http"
	"strconv"

	"github.com/quantum-quiz/backend/internal/errors"
	"github.com/quantum-quiz/backend/internal/logger"
	"github.com/quantum-quiz/backend/internal/models"
)

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.ResultFilter{
		ChapterID: q.Get("chapter"),
		Mode:      q.Get("mode"),
		Limit:     s.LeaderboardSize,
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			handleError(w, r, errors.NewBadRequestError("invalid limit"))
			return
		}
		if filter.Limit <= 0 || n < filter.Limit {
			filter.Limit = n
		}
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			handleError(w, r, errors.NewBadRequestError("invalid offset"))
			return
		}
		filter.Offset = n
	}

	results, err := s.LeaderboardService.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
	})
}

type submitResultRequest struct {
	Username      string `json:"username"`
	Score         int    `json:"score"`
	ChapterID     string `json:"chapter_id,omitempty"`
	QuestionCount int    `json:"question_count"`
	TimeSpentSecs int    `json:"time_spent_secs"`
	Mode          string `json:"mode,omitempty"`
}

func (s *Server) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req submitResultRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result := models.QuizResult{
		Username:      req.Username,
		Score:         req.Score,
		ChapterID:     req.ChapterID,
		QuestionCount: req.QuestionCount,
		TimeSpentSecs: req.TimeSpentSecs,
		Mode:          req.Mode,
	}
	if err := s.LeaderboardService.Submit(r.Context(), result); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("quiz result submitted: username=%s, score=%d", result.Username, result.Score)
	w.WriteHeader(http.StatusAccepted)
}
