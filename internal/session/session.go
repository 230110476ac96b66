// Package session implements the in-flight state of one learner's pass
// through an ordered question set: answer capture, per-question timing,
// and forward/back navigation up to the terminal submit transition.
//
// A Session is exclusively owned by one attempt and is never shared; all
// methods are called from a single request at a time (the service layer
// serializes access through the session store).
package session

import (
	"errors"
	"time"

	"github.com/studyloop/assessment-service/internal/models"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
)

var (
	ErrNoQuestions      = errors.New("session has no questions")
	ErrAnswerRequired   = errors.New("current question has no recorded answer")
	ErrNotLastQuestion  = errors.New("submit is only legal from the last question")
	ErrAlreadySubmitted = errors.New("session already submitted")
	ErrUnknownQuestion  = errors.New("question does not belong to session")
)

// Clock abstracts wall-clock reads so timing behavior is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real-time clock used outside of tests.
func SystemClock() Clock { return systemClock{} }

// Session walks a learner through an ordered, immutable question sequence.
// currentIndex always stays within [0, len(questions)-1]; the status
// transition in_progress -> submitted is one-way.
type Session struct {
	kind      models.AttemptKind
	parentID  uint
	learnerID string

	questions []models.Question
	answers   map[string]string
	timeSpent map[string]int

	currentIndex      int
	startedAt         time.Time
	questionStartedAt time.Time
	status            Status

	clock Clock
}

// New starts a fresh session positioned at the first question.
func New(kind models.AttemptKind, parentID uint, learnerID string, questions []models.Question, clock Clock) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if clock == nil {
		clock = systemClock{}
	}
	now := clock.Now()
	return &Session{
		kind:              kind,
		parentID:          parentID,
		learnerID:         learnerID,
		questions:         questions,
		answers:           make(map[string]string),
		timeSpent:         make(map[string]int),
		startedAt:         now,
		questionStartedAt: now,
		status:            StatusInProgress,
		clock:             clock,
	}, nil
}

func (s *Session) Kind() models.AttemptKind { return s.kind }
func (s *Session) ParentID() uint           { return s.parentID }
func (s *Session) LearnerID() string        { return s.learnerID }
func (s *Session) Status() Status           { return s.status }
func (s *Session) StartedAt() time.Time     { return s.startedAt }
func (s *Session) Len() int                 { return len(s.questions) }
func (s *Session) Index() int               { return s.currentIndex }

// Current returns the question under the navigation pointer.
func (s *Session) Current() models.Question {
	return s.questions[s.currentIndex]
}

// Questions returns the session's question sequence in order.
func (s *Session) Questions() []models.Question {
	return s.questions
}

// AtLastQuestion reports whether the pointer is on the terminal question.
func (s *Session) AtLastQuestion() bool {
	return s.currentIndex == len(s.questions)-1
}

// Answer returns the recorded answer for a question id, if any.
func (s *Session) Answer(questionID string) (string, bool) {
	v, ok := s.answers[questionID]
	return v, ok
}

// Answers returns a copy of the answer map; only answered questions appear.
func (s *Session) Answers() map[string]string {
	out := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// TimeSpent returns a copy of accumulated whole seconds per question id.
// Questions never visited have no entry.
func (s *Session) TimeSpent() map[string]int {
	out := make(map[string]int, len(s.timeSpent))
	for k, v := range s.timeSpent {
		out[k] = v
	}
	return out
}

// SelectAnswer records the learner's answer for a question, overwriting any
// prior value. Answers are never dropped by navigation; only re-selection
// overwrites. For choice questions the value is the option's display text.
func (s *Session) SelectAnswer(questionID, value string) error {
	if s.status == StatusSubmitted {
		return ErrAlreadySubmitted
	}
	if !s.hasQuestion(questionID) {
		return ErrUnknownQuestion
	}
	s.answers[questionID] = value
	return nil
}

// Next advances the pointer. It requires a non-empty answer on the current
// question and is a no-op on the last question. Moving flushes the outgoing
// question's elapsed time.
func (s *Session) Next() error {
	if s.status == StatusSubmitted {
		return ErrAlreadySubmitted
	}
	if !s.currentAnswered() {
		return ErrAnswerRequired
	}
	if s.AtLastQuestion() {
		return nil
	}
	s.flushTiming()
	s.currentIndex++
	return nil
}

// Previous moves the pointer back without requiring an answer. It is a
// no-op at the first question.
func (s *Session) Previous() error {
	if s.status == StatusSubmitted {
		return ErrAlreadySubmitted
	}
	if s.currentIndex == 0 {
		return nil
	}
	s.flushTiming()
	s.currentIndex--
	return nil
}

// Submit performs the terminal transition and returns the grading payload.
// It is legal only from the last question once that question is answered.
func (s *Session) Submit() (*Payload, error) {
	if s.status == StatusSubmitted {
		return nil, ErrAlreadySubmitted
	}
	if !s.AtLastQuestion() {
		return nil, ErrNotLastQuestion
	}
	if !s.currentAnswered() {
		return nil, ErrAnswerRequired
	}
	s.flushTiming()
	s.status = StatusSubmitted
	return s.buildPayload(s.clock.Now()), nil
}

func (s *Session) hasQuestion(questionID string) bool {
	for i := range s.questions {
		if s.questions[i].ID == questionID {
			return true
		}
	}
	return false
}

func (s *Session) currentAnswered() bool {
	v, ok := s.answers[s.Current().ID]
	return ok && !isBlank(v)
}

// flushTiming accumulates whole elapsed seconds onto the outgoing question
// and restamps the entry time. timeSpent only ever increases; revisits add
// further deltas rather than resetting.
func (s *Session) flushTiming() {
	now := s.clock.Now()
	delta := int(now.Sub(s.questionStartedAt).Seconds())
	if delta > 0 {
		s.timeSpent[s.Current().ID] += delta
	}
	s.questionStartedAt = now
}

func isBlank(v string) bool {
	for _, r := range v {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
