package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyloop/assessment-service/internal/models"
)

func TestResume_RestoresPersistedPointer(t *testing.T) {
	clock := newFakeClock()
	questions := makeQuestions(5)
	startedAt := clock.Now().Add(-20 * time.Minute)

	prior := []PriorResponse{
		{QuestionID: questions[0].ID, UserAnswer: "A", TimeSpentSeconds: 30},
		{QuestionID: questions[1].ID, UserAnswer: "C", TimeSpentSeconds: 45},
		{QuestionID: questions[2].ID, UserAnswer: "B", TimeSpentSeconds: 12},
	}

	s, err := Resume(models.AttemptKindPracticeSet, 9, "learner-1", questions, prior, 3, startedAt, clock)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Index())
	assert.Equal(t, startedAt, s.StartedAt())

	answers := s.Answers()
	require.Len(t, answers, 3)
	assert.Equal(t, "A", answers[questions[0].ID])
	assert.Equal(t, "C", answers[questions[1].ID])
	assert.Equal(t, "B", answers[questions[2].ID])
	_, answered := s.Answer(questions[3].ID)
	assert.False(t, answered)
}

func TestResume_PointerBehindAnswersKeepsAllAnswers(t *testing.T) {
	clock := newFakeClock()
	questions := makeQuestions(4)

	// The learner answered three questions, then navigated back to the
	// first before the live session was lost.
	prior := []PriorResponse{
		{QuestionID: questions[0].ID, UserAnswer: "A", TimeSpentSeconds: 10},
		{QuestionID: questions[1].ID, UserAnswer: "B", TimeSpentSeconds: 9},
		{QuestionID: questions[2].ID, UserAnswer: "C", TimeSpentSeconds: 8},
	}

	s, err := Resume(models.AttemptKindQuiz, 2, "learner-1", questions, prior, 0, clock.Now(), clock)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Index())
	require.Len(t, s.Answers(), 3)

	// Walking forward retraces the recorded answers instead of demanding
	// them again.
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	assert.Equal(t, 2, s.Index())
	got, _ := s.Answer(questions[2].ID)
	assert.Equal(t, "C", got)
}

func TestResume_FullyAnsweredClampsToLastQuestion(t *testing.T) {
	clock := newFakeClock()
	questions := makeQuestions(3)

	prior := make([]PriorResponse, 3)
	for i, q := range questions {
		prior[i] = PriorResponse{QuestionID: q.ID, UserAnswer: "A", TimeSpentSeconds: 5}
	}

	s, err := Resume(models.AttemptKindQuiz, 2, "learner-1", questions, prior, 3, clock.Now(), clock)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Index())
	assert.True(t, s.AtLastQuestion())
	assert.Equal(t, StatusInProgress, s.Status())
}

func TestResume_TimingContinuesAccumulating(t *testing.T) {
	clock := newFakeClock()
	questions := makeQuestions(3)
	prior := []PriorResponse{
		{QuestionID: questions[0].ID, UserAnswer: "A", TimeSpentSeconds: 30},
	}

	s, err := Resume(models.AttemptKindQuiz, 2, "learner-1", questions, prior, 1, clock.Now(), clock)
	require.NoError(t, err)
	require.Equal(t, 1, s.Index())

	require.NoError(t, s.SelectAnswer(questions[1].ID, "B"))
	clock.Advance(8 * time.Second)
	require.NoError(t, s.Previous())

	clock.Advance(6 * time.Second)
	require.NoError(t, s.Next())

	spent := s.TimeSpent()
	assert.Equal(t, 36, spent[questions[0].ID]) // 30 prior + 6 revisit
	assert.Equal(t, 8, spent[questions[1].ID])
}

func TestResume_RejectsForeignResponses(t *testing.T) {
	clock := newFakeClock()
	questions := makeQuestions(2)
	prior := []PriorResponse{{QuestionID: "other", UserAnswer: "A"}}

	_, err := Resume(models.AttemptKindQuiz, 2, "learner-1", questions, prior, 1, clock.Now(), clock)
	assert.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, 3, clock)
	require.NoError(t, s.SelectAnswer(s.Current().ID, "B"))
	clock.Advance(10 * time.Second)
	require.NoError(t, s.Next())

	restored, err := FromSnapshot(s.Snapshot(), clock)
	require.NoError(t, err)

	assert.Equal(t, s.Index(), restored.Index())
	assert.Equal(t, s.Answers(), restored.Answers())
	assert.Equal(t, s.TimeSpent(), restored.TimeSpent())
	assert.Equal(t, s.StartedAt(), restored.StartedAt())
	assert.Equal(t, s.Status(), restored.Status())

	// The pending timing window survives the round-trip.
	clock.Advance(4 * time.Second)
	require.NoError(t, restored.Previous())
	assert.Equal(t, 4, restored.TimeSpent()[restored.Questions()[1].ID])
}
