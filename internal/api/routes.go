package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   s.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/chapters", s.handleChapters)
		r.Get("/questions", s.handleSelectQuestions)
		r.Post("/answers", s.handleRecordAnswer)

		r.Route("/adaptive", func(r chi.Router) {
			r.Get("/stats", s.handleAdaptiveStats)
			r.Get("/recommendation", s.handleRecommendation)
			r.Put("/enabled", s.handleSetAdaptiveEnabled)
			r.Post("/reset", s.handleResetAdaptive)
		})

		r.Route("/flashcards", func(r chi.Router) {
			r.Get("/due", s.handleDueFlashcards)
			r.Get("/stats", s.handleFlashcardStats)
			r.Get("/{id}", s.handleCardState)
			r.Post("/{id}/review", s.handleReviewFlashcard)
		})

		r.Route("/leaderboard", func(r chi.Router) {
			r.Get("/", s.handleLeaderboard)
			r.Post("/", s.handleSubmitResult)
		})

		r.Get("/stats", s.handleOverview)
	})

	return r
}
