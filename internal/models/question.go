package models

// Difficulty is one of the three tiers a question can be tagged with.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the known tiers in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is one of the three known tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Question struct {
	ID           string     `json:"id"`
	ChapterID    string     `json:"chapter_id"`
	Difficulty   Difficulty `json:"difficulty"`
	Statement    string     `json:"statement"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correct_index"`
	Explanation  string     `json:"explanation,omitempty"`
}

// Flashcard is the review-side projection of a question. Front carries the
// statement, Back the correct answer plus explanation.
type Flashcard struct {
	ID        string `json:"id"`
	ChapterID string `json:"chapter_id"`
	Front     string `json:"front"`
	Back      string `json:"back"`
}
