package models

import (
	"time"

	"gorm.io/gorm"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptGraded     AttemptStatus = "graded"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// AttemptKind distinguishes single-quiz attempts from practice-set attempts.
type AttemptKind string

const (
	AttemptKindQuiz        AttemptKind = "quiz"
	AttemptKindPracticeSet AttemptKind = "practice_set"
)

// Attempt is one learner's persisted pass through a question set. The status
// transition is one-way: in_progress -> submitted -> graded. A submitted
// attempt whose grading failed stays submitted with its responses intact so
// grading can be re-driven.
type Attempt struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	Kind          AttemptKind   `json:"kind" gorm:"not null;size:20;index"`
	ParentID      uint          `json:"parent_id" gorm:"not null;index"` // quiz or practice set ID
	LearnerID     string        `json:"learner_id" gorm:"not null;size:255;index"`
	AttemptNumber int           `json:"attempt_number" gorm:"not null"`
	Status        AttemptStatus `json:"status" gorm:"default:in_progress;index"`

	// Timing
	StartedAt   time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt *time.Time `json:"completed_at"`
	TimeSpent   int        `json:"time_spent"` // seconds, total across questions

	// Progress
	CurrentIndex   int `json:"current_index"`
	TotalQuestions int `json:"total_questions"`

	// Scoring summary, populated once graded
	OverallScore float64 `json:"overall_score"`
	TotalCorrect int     `json:"total_correct"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Responses []AttemptResponse `json:"responses" gorm:"foreignKey:AttemptID"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// AttemptResponse is one graded (or pending) answer within an attempt,
// stored in the question's original position order.
type AttemptResponse struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	AttemptID  uint   `json:"attempt_id" gorm:"not null;index"`
	QuestionID string `json:"question_id" gorm:"not null;size:64;index"`
	Position   int    `json:"position" gorm:"not null"`

	UserAnswer       string     `json:"user_answer" gorm:"type:text"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
	AnsweredAt       *time.Time `json:"answered_at"`

	// Grading outcome; IsCorrect is nil until the attempt is graded.
	IsCorrect     *bool  `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer" gorm:"type:text"`
	Explanation   string `json:"explanation" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Question Question `json:"-" gorm:"foreignKey:QuestionID"`
}

func (AttemptResponse) TableName() string {
	return "attempt_responses"
}
