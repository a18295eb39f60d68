package models

import "time"

// QuizResult is one completed quiz submission, persisted for the leaderboard.
type QuizResult struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Score         int       `json:"score"`
	ChapterID     string    `json:"chapter_id,omitempty"`
	QuestionCount int       `json:"question_count"`
	TimeSpentSecs int       `json:"time_spent_secs"`
	Mode          string    `json:"mode"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// ResultFilter selects and pages leaderboard entries.
type ResultFilter struct {
	ChapterID string
	Mode      string
	Username  string
	OrderBy   string // "score" or "submitted_at"
	OrderDir  string // "ASC" or "DESC"
	Limit     int
	Offset    int
}
