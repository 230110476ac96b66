package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/studyloop/assessment-service/internal/models"
)

// EventType represents different types of attempt lifecycle events
type EventType string

const (
	EventAttemptStarted   EventType = "attempt.started"
	EventAttemptSubmitted EventType = "attempt.submitted"
	EventAttemptGraded    EventType = "attempt.graded"
	EventAttemptAbandoned EventType = "attempt.abandoned"
)

// AttemptEvent is the base event structure published to the message broker
type AttemptEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type AttemptStartedEvent struct {
	AttemptID      uint               `json:"attempt_id"`
	Kind           models.AttemptKind `json:"kind"`
	ParentID       uint               `json:"parent_id"`
	ParentTitle    string             `json:"parent_title"`
	LearnerID      string             `json:"learner_id"`
	AttemptNumber  int                `json:"attempt_number"`
	TotalQuestions int                `json:"total_questions"`
	StartedAt      time.Time          `json:"started_at"`
}

type AttemptSubmittedEvent struct {
	AttemptID      uint               `json:"attempt_id"`
	Kind           models.AttemptKind `json:"kind"`
	ParentID       uint               `json:"parent_id"`
	ParentTitle    string             `json:"parent_title"`
	LearnerID      string             `json:"learner_id"`
	SubmittedAt    time.Time          `json:"submitted_at"`
	TimeSpent      int                `json:"time_spent"` // seconds
	AnsweredCount  int                `json:"answered_count"`
	TotalQuestions int                `json:"total_questions"`
}

type AttemptGradedEvent struct {
	AttemptID      uint               `json:"attempt_id"`
	Kind           models.AttemptKind `json:"kind"`
	ParentID       uint               `json:"parent_id"`
	ParentTitle    string             `json:"parent_title"`
	LearnerID      string             `json:"learner_id"`
	GradedAt       time.Time          `json:"graded_at"`
	OverallScore   float64            `json:"overall_score"`
	TotalCorrect   int                `json:"total_correct"`
	TotalQuestions int                `json:"total_questions"`
}

type AttemptAbandonedEvent struct {
	AttemptID   uint               `json:"attempt_id"`
	Kind        models.AttemptKind `json:"kind"`
	ParentID    uint               `json:"parent_id"`
	LearnerID   string             `json:"learner_id"`
	AbandonedAt time.Time          `json:"abandoned_at"`
}

// Event factory functions

func NewAttemptStartedEvent(attempt *models.Attempt, parentTitle string) *AttemptEvent {
	return newEvent(EventAttemptStarted, AttemptStartedEvent{
		AttemptID:      attempt.ID,
		Kind:           attempt.Kind,
		ParentID:       attempt.ParentID,
		ParentTitle:    parentTitle,
		LearnerID:      attempt.LearnerID,
		AttemptNumber:  attempt.AttemptNumber,
		TotalQuestions: attempt.TotalQuestions,
		StartedAt:      attempt.StartedAt,
	})
}

func NewAttemptSubmittedEvent(attempt *models.Attempt, parentTitle string, answeredCount int) *AttemptEvent {
	submittedAt := time.Now()
	if attempt.CompletedAt != nil {
		submittedAt = *attempt.CompletedAt
	}
	return newEvent(EventAttemptSubmitted, AttemptSubmittedEvent{
		AttemptID:      attempt.ID,
		Kind:           attempt.Kind,
		ParentID:       attempt.ParentID,
		ParentTitle:    parentTitle,
		LearnerID:      attempt.LearnerID,
		SubmittedAt:    submittedAt,
		TimeSpent:      attempt.TimeSpent,
		AnsweredCount:  answeredCount,
		TotalQuestions: attempt.TotalQuestions,
	})
}

func NewAttemptGradedEvent(attempt *models.Attempt, parentTitle string, result *models.SubmissionResult) *AttemptEvent {
	return newEvent(EventAttemptGraded, AttemptGradedEvent{
		AttemptID:      attempt.ID,
		Kind:           attempt.Kind,
		ParentID:       attempt.ParentID,
		ParentTitle:    parentTitle,
		LearnerID:      attempt.LearnerID,
		GradedAt:       time.Now(),
		OverallScore:   result.OverallScore,
		TotalCorrect:   result.TotalCorrect,
		TotalQuestions: result.TotalQuestions,
	})
}

func NewAttemptAbandonedEvent(attempt *models.Attempt) *AttemptEvent {
	return newEvent(EventAttemptAbandoned, AttemptAbandonedEvent{
		AttemptID:   attempt.ID,
		Kind:        attempt.Kind,
		ParentID:    attempt.ParentID,
		LearnerID:   attempt.LearnerID,
		AbandonedAt: time.Now(),
	})
}

func newEvent(eventType EventType, data interface{}) *AttemptEvent {
	return &AttemptEvent{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "assessment-service",
		Version:   "1.0",
		Data:      data,
	}
}
