// Package questionbank loads the static JSON question bank shipped with the
// course and exposes it as flat question and flashcard collections.
package questionbank

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/quantum-quiz/backend/internal/logger"
	"github.com/quantum-quiz/backend/internal/models"
)

// Chapter describes one course chapter in the bank.
type Chapter struct {
	ID            string `json:"chapter_id"`
	Title         string `json:"chapter_title"`
	QuestionCount int    `json:"question_count"`
}

// bank file schema

type bankFile struct {
	Chapters []chapterEntry `json:"chapters"`
}

type chapterEntry struct {
	ChapterID    string          `json:"chapter_id"`
	ChapterTitle string          `json:"chapter_title"`
	Questions    []questionEntry `json:"questions"`
}

type questionEntry struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	Question      string            `json:"question"`
	Options       []string          `json:"options"`
	CorrectAnswer json.RawMessage   `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
	Difficulty    models.Difficulty `json:"difficulty"`
}

// Bank is an immutable, in-memory view of the question bank.
type Bank struct {
	chapters  []Chapter
	questions []models.Question
	cards     []models.Flashcard
	log       *logger.Logger
}

// Load reads and parses the question bank file at path.
func Load(path string) (*Bank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return Parse(raw)
}

// Parse builds a Bank from raw JSON.
func Parse(raw []byte) (*Bank, error) {
	var file bankFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	b := &Bank{log: logger.Default().WithPrefix("questionbank")}
	unknownDifficulties := 0

	for _, chapter := range file.Chapters {
		b.chapters = append(b.chapters, Chapter{
			ID:            chapter.ChapterID,
			Title:         chapter.ChapterTitle,
			QuestionCount: len(chapter.Questions),
		})
		for _, entry := range chapter.Questions {
			q, ok := entry.toQuestion(chapter.ChapterID)
			if !ok {
				continue
			}
			if !q.Difficulty.Valid() {
				// Tolerated: the adaptive engine treats unknown tiers with a
				// default weight, but selection works best on known tiers.
				unknownDifficulties++
			}
			b.questions = append(b.questions, q)
			b.cards = append(b.cards, flashcardFromQuestion(q))
		}
	}

	if unknownDifficulties > 0 {
		b.log.Warn("question bank contains %d questions with unknown difficulty", unknownDifficulties)
	}
	b.log.Info("loaded %d questions across %d chapters", len(b.questions), len(b.chapters))
	return b, nil
}

func (e questionEntry) toQuestion(chapterID string) (models.Question, bool) {
	q := models.Question{
		ID:          e.ID,
		ChapterID:   chapterID,
		Difficulty:  e.Difficulty,
		Statement:   e.Question,
		Options:     e.Options,
		Explanation: e.Explanation,
	}

	switch e.Type {
	case "qcm", "":
		var idx int
		if err := json.Unmarshal(e.CorrectAnswer, &idx); err != nil {
			return models.Question{}, false
		}
		q.CorrectIndex = idx
	case "vrai_faux", "true_false":
		var v bool
		if err := json.Unmarshal(e.CorrectAnswer, &v); err != nil {
			return models.Question{}, false
		}
		q.Options = []string{"True", "False"}
		if v {
			q.CorrectIndex = 0
		} else {
			q.CorrectIndex = 1
		}
	default:
		// Flashcard-only and exotic entry types carry no gradeable answer.
		return models.Question{}, false
	}

	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return models.Question{}, false
	}
	return q, true
}

func flashcardFromQuestion(q models.Question) models.Flashcard {
	back := q.Options[q.CorrectIndex]
	if q.Explanation != "" {
		back += "\n\n" + q.Explanation
	}
	return models.Flashcard{
		ID:        q.ID + "-fc",
		ChapterID: q.ChapterID,
		Front:     q.Statement,
		Back:      back,
	}
}

// Chapters lists the bank's chapters in file order.
func (b *Bank) Chapters() []Chapter {
	return append([]Chapter(nil), b.chapters...)
}

// Questions returns all gradeable questions, optionally filtered by chapter.
func (b *Bank) Questions(chapterID string) []models.Question {
	if chapterID == "" {
		return append([]models.Question(nil), b.questions...)
	}
	var out []models.Question
	for _, q := range b.questions {
		if q.ChapterID == chapterID {
			out = append(out, q)
		}
	}
	return out
}

// Question looks up a single question by id.
func (b *Bank) Question(id string) (models.Question, bool) {
	for _, q := range b.questions {
		if q.ID == id {
			return q, true
		}
	}
	return models.Question{}, false
}

// Flashcards returns the review-side projection of the bank.
func (b *Bank) Flashcards() []models.Flashcard {
	return append([]models.Flashcard(nil), b.cards...)
}
