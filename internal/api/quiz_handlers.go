package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/quantum-quiz/backend/internal/errors"
	"github.com/quantum-quiz/backend/internal/logger"
	"github.com/quantum-quiz/backend/internal/models"
)

const defaultQuestionCount = 10

func (s *Server) handleChapters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{
		"chapters": s.Bank.Chapters(),
	})
}

func (s *Server) handleSelectQuestions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	chapterID := r.URL.Query().Get("chapter")
	count := defaultQuestionCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			handleError(w, r, errors.NewBadRequestError("invalid count"))
			return
		}
		count = n
	}

	log.Debug("selecting questions: chapter=%q, count=%d", chapterID, count)

	questions, err := s.QuizService.SelectQuestions(r.Context(), chapterID, count)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"questions": questions,
		"count":     len(questions),
	})
}

type answerRequest struct {
	Difficulty models.Difficulty `json:"difficulty"`
	IsCorrect  bool              `json:"is_correct"`
	ChapterID  string            `json:"chapter_id,omitempty"`
}

func (s *Server) handleRecordAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	event := models.AnswerEvent{
		Difficulty:      req.Difficulty,
		IsCorrect:       req.IsCorrect,
		TimestampMillis: time.Now().UnixMilli(),
		ChapterID:       req.ChapterID,
	}
	if err := s.QuizService.RecordAnswer(r.Context(), event); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusAccepted, map[string]any{
		"stats": s.QuizService.AdaptiveStats(r.Context()),
	})
}

func (s *Server) handleAdaptiveStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, s.QuizService.AdaptiveStats(r.Context()))
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, s.QuizService.Recommendation(r.Context()))
}

type enabledRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleSetAdaptiveEnabled(w http.ResponseWriter, r *http.Request) {
	var req enabledRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	s.QuizService.SetAdaptiveEnabled(r.Context(), req.Enabled)
	respondJSON(w, r, http.StatusOK, map[string]any{"enabled": req.Enabled})
}

func (s *Server) handleResetAdaptive(w http.ResponseWriter, r *http.Request) {
	s.QuizService.ResetAdaptive(r.Context())
	respondJSON(w, r, http.StatusOK, s.QuizService.AdaptiveStats(r.Context()))
}
