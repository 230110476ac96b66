package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyloop/assessment-service/internal/models"
)

// fakeClock advances only when told to, so timing deltas are exact.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func makeQuestions(n int) []models.Question {
	idx := 0
	questions := make([]models.Question, n)
	for i := 0; i < n; i++ {
		questions[i] = models.Question{
			ID:           fmt.Sprintf("q-%d", i+1),
			Type:         models.MultipleChoice,
			Prompt:       "prompt",
			Options:      []string{"A", "B", "C", "D"},
			Position:     i,
			CorrectIndex: &idx,
		}
	}
	return questions
}

func newTestSession(t *testing.T, n int, clock Clock) *Session {
	t.Helper()
	s, err := New(models.AttemptKindQuiz, 1, "learner-1", makeQuestions(n), clock)
	require.NoError(t, err)
	return s
}

func TestNew_RequiresQuestions(t *testing.T) {
	_, err := New(models.AttemptKindQuiz, 1, "learner-1", nil, newFakeClock())
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestSelectAnswer_OverwriteIdempotence(t *testing.T) {
	s := newTestSession(t, 3, newFakeClock())
	q := s.Current().ID

	require.NoError(t, s.SelectAnswer(q, "A"))
	require.NoError(t, s.SelectAnswer(q, "B"))
	answer, ok := s.Answer(q)
	require.True(t, ok)
	assert.Equal(t, "B", answer)

	require.NoError(t, s.SelectAnswer(q, "A"))
	require.NoError(t, s.SelectAnswer(q, "A"))
	answer, _ = s.Answer(q)
	assert.Equal(t, "A", answer)
}

func TestSelectAnswer_UnknownQuestion(t *testing.T) {
	s := newTestSession(t, 2, newFakeClock())
	assert.ErrorIs(t, s.SelectAnswer("nope", "A"), ErrUnknownQuestion)
}

func TestNext_ForwardGuard(t *testing.T) {
	s := newTestSession(t, 3, newFakeClock())

	assert.ErrorIs(t, s.Next(), ErrAnswerRequired)
	assert.Equal(t, 0, s.Index())

	// A blank answer does not satisfy the guard.
	require.NoError(t, s.SelectAnswer(s.Current().ID, "   "))
	assert.ErrorIs(t, s.Next(), ErrAnswerRequired)

	require.NoError(t, s.SelectAnswer(s.Current().ID, "A"))
	require.NoError(t, s.Next())
	assert.Equal(t, 1, s.Index())
}

func TestNavigatorBounds(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, 2, clock)

	// previous() at index 0 is a no-op.
	require.NoError(t, s.Previous())
	assert.Equal(t, 0, s.Index())

	require.NoError(t, s.SelectAnswer(s.Current().ID, "A"))
	require.NoError(t, s.Next())
	require.True(t, s.AtLastQuestion())

	// next() at the last question is a no-op, answered or not.
	require.NoError(t, s.SelectAnswer(s.Current().ID, "B"))
	require.NoError(t, s.Next())
	assert.Equal(t, 1, s.Index())
}

func TestTiming_AccumulatesAcrossRevisits(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, 3, clock)
	q1 := s.Questions()[0].ID
	q2 := s.Questions()[1].ID

	require.NoError(t, s.SelectAnswer(q1, "B"))
	clock.Advance(12 * time.Second)
	require.NoError(t, s.Next()) // flushes 12s onto Q1

	require.NoError(t, s.SelectAnswer(q2, "A"))
	clock.Advance(3 * time.Second)
	require.NoError(t, s.Previous()) // flushes 3s onto Q2

	clock.Advance(5 * time.Second)
	require.NoError(t, s.Next()) // back to Q2, 5 more seconds on Q1

	spent := s.TimeSpent()
	assert.Equal(t, 17, spent[q1])
	assert.Equal(t, 3, spent[q2])
}

func TestTiming_UnvisitedQuestionHasNoEntry(t *testing.T) {
	s := newTestSession(t, 3, newFakeClock())
	spent := s.TimeSpent()
	assert.Empty(t, spent)
}

func TestTiming_SubSecondVisitRecordsNothing(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, 2, clock)
	q1 := s.Current().ID

	require.NoError(t, s.SelectAnswer(q1, "A"))
	clock.Advance(400 * time.Millisecond)
	require.NoError(t, s.Next())

	assert.NotContains(t, s.TimeSpent(), q1)
}

func TestSubmit_OnlyFromLastQuestion(t *testing.T) {
	s := newTestSession(t, 3, newFakeClock())
	require.NoError(t, s.SelectAnswer(s.Current().ID, "A"))

	_, err := s.Submit()
	assert.ErrorIs(t, err, ErrNotLastQuestion)
}

func TestSubmit_RequiresFinalAnswer(t *testing.T) {
	s := newTestSession(t, 2, newFakeClock())
	require.NoError(t, s.SelectAnswer(s.Current().ID, "A"))
	require.NoError(t, s.Next())

	_, err := s.Submit()
	assert.ErrorIs(t, err, ErrAnswerRequired)
}

func TestSubmit_TerminalState(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, 1, clock)
	require.NoError(t, s.SelectAnswer(s.Current().ID, "A"))

	payload, err := s.Submit()
	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.Equal(t, StatusSubmitted, s.Status())

	// No further mutation after submit.
	_, err = s.Submit()
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.ErrorIs(t, s.Next(), ErrAlreadySubmitted)
	assert.ErrorIs(t, s.Previous(), ErrAlreadySubmitted)
	assert.ErrorIs(t, s.SelectAnswer(s.Current().ID, "B"), ErrAlreadySubmitted)
}

func TestSubmit_PayloadCompleteness(t *testing.T) {
	clock := newFakeClock()
	questions := makeQuestions(3)
	s, err := New(models.AttemptKindQuiz, 1, "learner-1", questions, clock)
	require.NoError(t, err)

	require.NoError(t, s.SelectAnswer(questions[0].ID, "B"))
	require.NoError(t, s.Next())
	require.NoError(t, s.SelectAnswer(questions[1].ID, "A"))
	require.NoError(t, s.Next())
	require.NoError(t, s.SelectAnswer(questions[2].ID, "C"))

	payload, err := s.Submit()
	require.NoError(t, err)

	require.Len(t, payload.Responses, 3)
	for i, q := range questions {
		assert.Equal(t, q.ID, payload.Responses[i].QuestionID)
	}
	assert.Equal(t, "B", payload.Responses[0].UserAnswer)
	assert.Equal(t, "A", payload.Responses[1].UserAnswer)
	assert.Equal(t, "C", payload.Responses[2].UserAnswer)
	assert.Equal(t, s.StartedAt(), payload.StartedAt)
	assert.Equal(t, clock.Now(), payload.CompletedAt)
}

func TestSubmit_UnansweredSentAsEmptyString(t *testing.T) {
	// A resumed attempt can carry a skipped (blank) prior response; the
	// payload still has one entry per question, with "" for the skip.
	clock := newFakeClock()
	questions := makeQuestions(3)
	prior := []PriorResponse{
		{QuestionID: questions[0].ID, UserAnswer: "A", TimeSpentSeconds: 10},
		{QuestionID: questions[1].ID, UserAnswer: "", TimeSpentSeconds: 4},
	}
	s, err := Resume(models.AttemptKindQuiz, 1, "learner-1", questions, prior, 2, clock.Now(), clock)
	require.NoError(t, err)
	require.Equal(t, 2, s.Index())

	require.NoError(t, s.SelectAnswer(questions[2].ID, "D"))
	payload, err := s.Submit()
	require.NoError(t, err)

	require.Len(t, payload.Responses, 3)
	assert.Equal(t, "A", payload.Responses[0].UserAnswer)
	assert.Equal(t, 10, payload.Responses[0].TimeSpentSeconds)
	assert.Equal(t, "", payload.Responses[1].UserAnswer)
	assert.Equal(t, 4, payload.Responses[1].TimeSpentSeconds)
	assert.Equal(t, "D", payload.Responses[2].UserAnswer)
}

func TestScenario_ThreeQuestionQuiz(t *testing.T) {
	// Learner answers Q1="B", advances after 12s, answers Q2="A", goes back
	// after 3s, changes Q1 to "C", then advances twice to land on Q3.
	clock := newFakeClock()
	questions := makeQuestions(3)
	s, err := New(models.AttemptKindQuiz, 7, "learner-1", questions, clock)
	require.NoError(t, err)
	q1, q2 := questions[0].ID, questions[1].ID

	require.NoError(t, s.SelectAnswer(q1, "B"))
	clock.Advance(12 * time.Second)
	require.NoError(t, s.Next())

	require.NoError(t, s.SelectAnswer(q2, "A"))
	clock.Advance(3 * time.Second)
	require.NoError(t, s.Previous())

	require.NoError(t, s.SelectAnswer(q1, "C"))
	clock.Advance(2 * time.Second)
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())

	answers := s.Answers()
	assert.Equal(t, map[string]string{q1: "C", q2: "A"}, answers)
	assert.GreaterOrEqual(t, s.TimeSpent()[q1], 12)
	assert.GreaterOrEqual(t, s.TimeSpent()[q2], 3)
	assert.True(t, s.AtLastQuestion())
}
