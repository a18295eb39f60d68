package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quantum-quiz/backend/internal/logger"
)

func (s *Server) handleDueFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	chapterID := r.URL.Query().Get("chapter")
	due := s.FlashcardService.DueCards(r.Context(), chapterID)
	log.Debug("due flashcards: chapter=%q, count=%d", chapterID, len(due))

	respondJSON(w, r, http.StatusOK, map[string]any{
		"cards": due,
		"count": len(due),
	})
}

func (s *Server) handleCardState(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")

	state, err := s.FlashcardService.CardState(r.Context(), cardID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

type reviewRequest struct {
	Correct bool `json:"correct"`
}

func (s *Server) handleReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	cardID := chi.URLParam(r, "id")

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	state, err := s.FlashcardService.Review(r.Context(), cardID, req.Correct)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("flashcard reviewed: id=%s, correct=%t, box=%d", cardID, req.Correct, state.Box)
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleFlashcardStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, s.FlashcardService.Stats(r.Context()))
}
