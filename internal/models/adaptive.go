package models

// AnswerEvent is one observation of a learner's response. Events are created
// by the caller after each answered question and never mutated afterwards.
type AnswerEvent struct {
	Difficulty      Difficulty `json:"difficulty"`
	IsCorrect       bool       `json:"is_correct"`
	TimestampMillis int64      `json:"timestamp_millis"`
	ChapterID       string     `json:"chapter_id,omitempty"`
}

// TierCounter tracks correct/total attempts for one difficulty or chapter.
type TierCounter struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// AbilityState is the adaptive engine's full persisted state.
type AbilityState struct {
	RecentAnswers           []AnswerEvent              `json:"recent_answers"`
	EstimatedAbility        float64                    `json:"estimated_ability"`
	SelectionProbabilities  map[Difficulty]float64     `json:"selection_probabilities"`
	PerformanceByDifficulty map[Difficulty]TierCounter `json:"performance_by_difficulty"`
	PerformanceByChapter    map[string]TierCounter     `json:"performance_by_chapter"`
	Enabled                 bool                       `json:"enabled"`
}

// AdaptiveStats is the read-only snapshot served to the UI. Percentages are
// rounded to the nearest integer.
type AdaptiveStats struct {
	Enabled                 bool               `json:"enabled"`
	EstimatedAbility        int                `json:"estimated_ability"`
	RecentSuccessRate       int                `json:"recent_success_rate"`
	SelectionProbabilities  map[Difficulty]int `json:"selection_probabilities"`
	PerformanceByDifficulty map[Difficulty]int `json:"performance_by_difficulty"`
	TotalAnswers            int                `json:"total_answers"`
}

// Recommendation maps the ability estimate to a study-level suggestion.
type Recommendation struct {
	Level      string `json:"level"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}
