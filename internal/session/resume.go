package session

import (
	"time"

	"github.com/studyloop/assessment-service/internal/models"
)

// PriorResponse is one previously recorded answer from a server-side
// partially completed attempt, in original question order.
type PriorResponse struct {
	QuestionID       string
	UserAnswer       string
	TimeSpentSeconds int
}

// Resume reconstructs session state from a partially completed attempt.
// Answers and timing come from the prior responses, the pointer is restored
// from the attempt record (currentIndex), and startedAt is preserved from
// the original record rather than reset. The pointer is clamped into
// [0, N-1]: a record persisted with every question answered resumes on the
// last question in review state, not on a results view. The learner
// re-confirms and submits.
func Resume(kind models.AttemptKind, parentID uint, learnerID string, questions []models.Question, prior []PriorResponse, currentIndex int, startedAt time.Time, clock Clock) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if clock == nil {
		clock = systemClock{}
	}

	s := &Session{
		kind:              kind,
		parentID:          parentID,
		learnerID:         learnerID,
		questions:         questions,
		answers:           make(map[string]string, len(prior)),
		timeSpent:         make(map[string]int, len(prior)),
		startedAt:         startedAt,
		questionStartedAt: clock.Now(),
		status:            StatusInProgress,
		clock:             clock,
	}

	for _, p := range prior {
		if !s.hasQuestion(p.QuestionID) {
			return nil, ErrUnknownQuestion
		}
		if !isBlank(p.UserAnswer) {
			s.answers[p.QuestionID] = p.UserAnswer
		}
		if p.TimeSpentSeconds > 0 {
			s.timeSpent[p.QuestionID] = p.TimeSpentSeconds
		}
	}

	s.currentIndex = currentIndex
	if s.currentIndex < 0 {
		s.currentIndex = 0
	}
	if s.currentIndex > len(questions)-1 {
		s.currentIndex = len(questions) - 1
	}

	return s, nil
}
