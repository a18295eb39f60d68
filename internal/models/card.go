package models

// CardReviewState is one flashcard's spaced-repetition bookkeeping. Dates are
// ISO calendar days ("2006-01-02"); lexicographic comparison is date order.
type CardReviewState struct {
	Box            int    `json:"box"`
	LastReviewDate string `json:"last_review,omitempty"`
	NextReviewDate string `json:"next_review"`
	ReviewCount    int    `json:"review_count"`
}

// BoxDefinition is one row of the fixed Leitner interval table.
type BoxDefinition struct {
	ID           int    `json:"id"`
	IntervalDays int    `json:"interval_days"`
	Name         string `json:"name"`
}

// FlashcardStats summarizes the review state of a card collection.
type FlashcardStats struct {
	Total    int         `json:"total"`
	ByBox    map[int]int `json:"by_box"`
	DueToday int         `json:"due_today"`
	Mastered int         `json:"mastered"`
}
