package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyloop/assessment-service/internal/models"
)

func intPtr(i int) *int { return &i }

func choiceQuestion(id, unit string, correct int) models.Question {
	return models.Question{
		ID:           id,
		Type:         models.MultipleChoice,
		Prompt:       "pick one",
		Options:      []string{"Red", "Green", "Blue"},
		CorrectIndex: intPtr(correct),
		Unit:         unit,
		Explanation:  "because",
	}
}

func TestGrade_ChoiceByCanonicalIndex(t *testing.T) {
	g := New()
	questions := []models.Question{choiceQuestion("q-1", "", 1)}

	tests := []struct {
		name    string
		answer  string
		correct bool
	}{
		{"exact option text", "Green", true},
		{"case insensitive", "green", true},
		{"padded", "  Green ", true},
		{"wrong option", "Red", false},
		{"not an option", "Purple", false},
		{"empty counts incorrect", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := g.Grade(questions, []Response{{QuestionID: "q-1", UserAnswer: tt.answer}})
			assert.Equal(t, tt.correct, result.PerQuestion[0].IsCorrect)
		})
	}
}

func TestGrade_ChoiceWithoutKeyNeverCorrect(t *testing.T) {
	g := New()
	q := choiceQuestion("q-1", "", 0)
	q.CorrectIndex = nil

	result := g.Grade([]models.Question{q}, []Response{{QuestionID: "q-1", UserAnswer: "Red"}})
	assert.False(t, result.PerQuestion[0].IsCorrect)
}

func TestGrade_TrueFalse(t *testing.T) {
	g := New()
	q := models.Question{
		ID:           "q-1",
		Type:         models.TrueFalse,
		Prompt:       "water is wet",
		Options:      models.TrueFalseOptions,
		CorrectIndex: intPtr(0),
	}

	result := g.Grade([]models.Question{q}, []Response{{QuestionID: "q-1", UserAnswer: "True"}})
	assert.True(t, result.PerQuestion[0].IsCorrect)
	assert.Equal(t, "True", result.PerQuestion[0].CorrectAnswer)
}

func TestGrade_ShortAnswerFuzzyMatch(t *testing.T) {
	g := New()
	q := models.Question{
		ID:          "q-1",
		Type:        models.ShortAnswer,
		Prompt:      "organ that pumps blood",
		CorrectText: "heart",
	}

	tests := []struct {
		name    string
		answer  string
		correct bool
	}{
		{"exact", "heart", true},
		{"casefolded punctuated", "Heart.", true},
		{"one edit away", "hart", true},
		{"two edits away", "hrt", false},
		{"unrelated", "lungs", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := g.Grade([]models.Question{q}, []Response{{QuestionID: "q-1", UserAnswer: tt.answer}})
			assert.Equal(t, tt.correct, result.PerQuestion[0].IsCorrect)
		})
	}
}

func TestGrade_FillInBlankExactNormalizedMatch(t *testing.T) {
	g := New()
	q := models.Question{
		ID:          "q-1",
		Type:        models.FillInBlank,
		Prompt:      "the capital of France is ___",
		CorrectText: "Paris",
	}

	result := g.Grade([]models.Question{q}, []Response{{QuestionID: "q-1", UserAnswer: "paris"}})
	assert.True(t, result.PerQuestion[0].IsCorrect)

	// Fill-in-blank does not get the fuzzy tolerance.
	result = g.Grade([]models.Question{q}, []Response{{QuestionID: "q-1", UserAnswer: "Pariss"}})
	assert.False(t, result.PerQuestion[0].IsCorrect)
}

func TestGrade_SummaryInvariants(t *testing.T) {
	g := New()
	questions := []models.Question{
		choiceQuestion("q-1", "", 0),
		choiceQuestion("q-2", "", 1),
		choiceQuestion("q-3", "", 2),
	}
	responses := []Response{
		{QuestionID: "q-1", UserAnswer: "Red"}, // correct
		{QuestionID: "q-2", UserAnswer: "Red"}, // incorrect
		{QuestionID: "q-3", UserAnswer: ""},    // unanswered
	}

	result := g.Grade(questions, responses)

	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, 1, result.TotalCorrect)
	assert.LessOrEqual(t, result.TotalCorrect, result.TotalQuestions)
	assert.Equal(t, float64(33), result.OverallScore)
	require.Len(t, result.PerQuestion, 3)
	assert.Equal(t, "", result.PerQuestion[2].UserAnswer)
}

func TestGradeWithBreakdowns(t *testing.T) {
	g := New()
	questions := []models.Question{
		choiceQuestion("q-1", "Algebra", 0),
		choiceQuestion("q-2", "Algebra", 1),
		choiceQuestion("q-3", "Geometry", 2),
		{
			ID:          "q-4",
			Type:        models.ShortAnswer,
			Prompt:      "name the shape",
			CorrectText: "circle",
			Unit:        "Geometry",
		},
	}
	responses := []Response{
		{QuestionID: "q-1", UserAnswer: "Red"},    // correct
		{QuestionID: "q-2", UserAnswer: "Blue"},   // incorrect
		{QuestionID: "q-3", UserAnswer: "Blue"},   // correct
		{QuestionID: "q-4", UserAnswer: "circle"}, // correct
	}

	result := g.GradeWithBreakdowns(questions, responses)

	require.Contains(t, result.ScoresByUnit, "Algebra")
	require.Contains(t, result.ScoresByUnit, "Geometry")
	assert.Equal(t, models.ScoreBreakdown{Correct: 1, Total: 2, Percent: 50}, result.ScoresByUnit["Algebra"])
	assert.Equal(t, models.ScoreBreakdown{Correct: 2, Total: 2, Percent: 100}, result.ScoresByUnit["Geometry"])

	assert.Equal(t, 3, result.ScoresByType[models.MultipleChoice].Total)
	assert.Equal(t, 1, result.ScoresByType[models.ShortAnswer].Correct)
}
