package session

import (
	"time"

	"github.com/studyloop/assessment-service/internal/models"
)

// Snapshot is the JSON-serializable form of a live session, used by the
// session store to park state between requests. The pending timing window
// (questionStartedAt) is carried so elapsed time survives a round-trip.
type Snapshot struct {
	Kind      models.AttemptKind `json:"kind"`
	ParentID  uint               `json:"parent_id"`
	LearnerID string             `json:"learner_id"`

	Questions []models.Question `json:"questions"`
	Answers   map[string]string `json:"answers"`
	TimeSpent map[string]int    `json:"time_spent"`

	CurrentIndex      int       `json:"current_index"`
	StartedAt         time.Time `json:"started_at"`
	QuestionStartedAt time.Time `json:"question_started_at"`
	Status            Status    `json:"status"`
}

// Snapshot captures the session's current state.
func (s *Session) Snapshot() *Snapshot {
	return &Snapshot{
		Kind:              s.kind,
		ParentID:          s.parentID,
		LearnerID:         s.learnerID,
		Questions:         s.questions,
		Answers:           s.Answers(),
		TimeSpent:         s.TimeSpent(),
		CurrentIndex:      s.currentIndex,
		StartedAt:         s.startedAt,
		QuestionStartedAt: s.questionStartedAt,
		Status:            s.status,
	}
}

// FromSnapshot rebuilds a live session from a stored snapshot.
func FromSnapshot(snap *Snapshot, clock Clock) (*Session, error) {
	if len(snap.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	if clock == nil {
		clock = systemClock{}
	}
	answers := snap.Answers
	if answers == nil {
		answers = make(map[string]string)
	}
	timeSpent := snap.TimeSpent
	if timeSpent == nil {
		timeSpent = make(map[string]int)
	}
	idx := snap.CurrentIndex
	if idx < 0 {
		idx = 0
	}
	if idx > len(snap.Questions)-1 {
		idx = len(snap.Questions) - 1
	}
	return &Session{
		kind:              snap.Kind,
		parentID:          snap.ParentID,
		learnerID:         snap.LearnerID,
		questions:         snap.Questions,
		answers:           answers,
		timeSpent:         timeSpent,
		currentIndex:      idx,
		startedAt:         snap.StartedAt,
		questionStartedAt: snap.QuestionStartedAt,
		status:            snap.Status,
		clock:             clock,
	}, nil
}
