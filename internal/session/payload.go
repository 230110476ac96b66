package session

import "time"

// Payload is the grading request assembled at submit time. Responses are
// ordered exactly as the session's questions: one entry per question, with
// an empty answer and zero time for unanswered or unvisited items, so the
// grader can count them deterministically instead of guessing at omissions.
type Payload struct {
	Responses   []ResponseEntry `json:"responses"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
}

type ResponseEntry struct {
	QuestionID       string `json:"question_id"`
	UserAnswer       string `json:"user_answer"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

func (s *Session) buildPayload(completedAt time.Time) *Payload {
	responses := make([]ResponseEntry, len(s.questions))
	for i, q := range s.questions {
		responses[i] = ResponseEntry{
			QuestionID:       q.ID,
			UserAnswer:       s.answers[q.ID],
			TimeSpentSeconds: s.timeSpent[q.ID],
		}
	}
	return &Payload{
		Responses:   responses,
		StartedAt:   s.startedAt,
		CompletedAt: completedAt,
	}
}
