package services

import (
	"context"

	"github.com/quantum-quiz/backend/internal/errors"
	"github.com/quantum-quiz/backend/internal/leitner"
	"github.com/quantum-quiz/backend/internal/logger"
	"github.com/quantum-quiz/backend/internal/models"
	"github.com/quantum-quiz/backend/internal/questionbank"
)

// FlashcardService handles spaced-repetition reviews over the bank's cards
type FlashcardService interface {
	DueCards(ctx context.Context, chapterID string) []models.Flashcard
	Review(ctx context.Context, cardID string, correct bool) (models.CardReviewState, error)
	CardState(ctx context.Context, cardID string) (models.CardReviewState, error)
	Stats(ctx context.Context) models.FlashcardStats
}

type flashcardService struct {
	bank      *questionbank.Bank
	scheduler *leitner.Scheduler
}

// NewFlashcardService creates a new FlashcardService
func NewFlashcardService(bank *questionbank.Bank, scheduler *leitner.Scheduler) FlashcardService {
	return &flashcardService{bank: bank, scheduler: scheduler}
}

func (s *flashcardService) cardExists(cardID string) bool {
	for _, card := range s.bank.Flashcards() {
		if card.ID == cardID {
			return true
		}
	}
	return false
}

func (s *flashcardService) DueCards(ctx context.Context, chapterID string) []models.Flashcard {
	log := logger.FromContext(ctx)

	due := s.scheduler.CardsForToday(s.bank.Flashcards(), chapterID)
	log.Debug("found %d cards due: chapter=%q", len(due), chapterID)
	return due
}

func (s *flashcardService) Review(ctx context.Context, cardID string, correct bool) (models.CardReviewState, error) {
	log := logger.FromContext(ctx)

	if !s.cardExists(cardID) {
		return models.CardReviewState{}, errors.NewNotFoundError("flashcard", cardID)
	}

	s.scheduler.UpdateCardState(ctx, cardID, correct)
	state := s.scheduler.CardState(cardID)
	log.Debug("card reviewed: id=%s, correct=%t, box=%d, next=%s", cardID, correct, state.Box, state.NextReviewDate)
	return state, nil
}

func (s *flashcardService) CardState(ctx context.Context, cardID string) (models.CardReviewState, error) {
	if !s.cardExists(cardID) {
		return models.CardReviewState{}, errors.NewNotFoundError("flashcard", cardID)
	}
	return s.scheduler.CardState(cardID), nil
}

func (s *flashcardService) Stats(ctx context.Context) models.FlashcardStats {
	return s.scheduler.Stats(s.bank.Flashcards())
}
