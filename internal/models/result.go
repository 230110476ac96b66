package models

import "time"

// SubmissionResult is the authoritative grading outcome for one attempt.
// It is produced once per successful grading run and never mutated.
type SubmissionResult struct {
	AttemptID      uint      `json:"attempt_id"`
	OverallScore   float64   `json:"overall_score"` // percent, rounded
	TotalCorrect   int       `json:"total_correct"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`

	PerQuestion []QuestionResult `json:"per_question"`

	// Practice-set breakdowns; empty for single quizzes.
	ScoresByUnit map[string]ScoreBreakdown       `json:"scores_by_unit,omitempty"`
	ScoresByType map[QuestionType]ScoreBreakdown `json:"scores_by_type,omitempty"`
}

type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation,omitempty"`
}

type ScoreBreakdown struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}
