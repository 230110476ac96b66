// Package grading is the authoritative correctness source for submitted
// attempts. Choice questions are compared by canonical option index; text
// questions by normalized text match with a small edit-distance tolerance.
package grading

import (
	"math"
	"strings"

	"github.com/studyloop/assessment-service/internal/models"
)

// Response is one submitted answer, ordered as the question sequence.
type Response struct {
	QuestionID       string
	UserAnswer       string
	TimeSpentSeconds int
}

type Option func(*Grader)

// WithMaxEditDistance sets the fuzzy-match tolerance for short text answers.
func WithMaxEditDistance(n int) Option {
	return func(g *Grader) { g.maxEditDistance = n }
}

type Grader struct {
	maxEditDistance int
}

func New(opts ...Option) *Grader {
	g := &Grader{maxEditDistance: 1}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Grade scores one attempt. Responses must be ordered exactly as questions;
// an empty user answer is counted as incorrect, never skipped, so totals
// are deterministic. The result is immutable once returned.
func (g *Grader) Grade(questions []models.Question, responses []Response) *models.SubmissionResult {
	result := &models.SubmissionResult{
		TotalQuestions: len(questions),
		PerQuestion:    make([]models.QuestionResult, 0, len(questions)),
	}

	byID := make(map[string]Response, len(responses))
	for _, r := range responses {
		byID[r.QuestionID] = r
	}

	for _, q := range questions {
		resp := byID[q.ID]
		correct := g.isCorrect(&q, resp.UserAnswer)
		if correct {
			result.TotalCorrect++
		}
		result.PerQuestion = append(result.PerQuestion, models.QuestionResult{
			QuestionID:    q.ID,
			UserAnswer:    resp.UserAnswer,
			CorrectAnswer: q.CorrectAnswer(),
			IsCorrect:     correct,
			Explanation:   q.Explanation,
		})
	}

	result.OverallScore = scorePercent(result.TotalCorrect, result.TotalQuestions)
	return result
}

// GradeWithBreakdowns additionally aggregates practice-set scores by unit
// and by question type.
func (g *Grader) GradeWithBreakdowns(questions []models.Question, responses []Response) *models.SubmissionResult {
	result := g.Grade(questions, responses)
	result.ScoresByUnit = make(map[string]models.ScoreBreakdown)
	result.ScoresByType = make(map[models.QuestionType]models.ScoreBreakdown)

	for i, q := range questions {
		unit := q.Unit
		if unit == "" {
			unit = "general"
		}
		addToBreakdown(result.ScoresByUnit, unit, result.PerQuestion[i].IsCorrect)
		addToBreakdownType(result.ScoresByType, q.Type, result.PerQuestion[i].IsCorrect)
	}
	return result
}

func (g *Grader) isCorrect(q *models.Question, userAnswer string) bool {
	if strings.TrimSpace(userAnswer) == "" {
		return false
	}

	switch q.Type {
	case models.MultipleChoice, models.TrueFalse:
		if q.CorrectIndex == nil {
			return false // no canonical key for this item
		}
		idx, ok := resolveOptionIndex(q.Options, userAnswer)
		return ok && idx == *q.CorrectIndex
	case models.FillInBlank:
		return normalize(userAnswer) == normalize(q.CorrectText)
	default: // short_answer
		return g.textMatches(userAnswer, q.CorrectText)
	}
}

func (g *Grader) textMatches(userAnswer, correct string) bool {
	ua, ca := normalize(userAnswer), normalize(correct)
	if ca == "" {
		return false
	}
	if ua == ca {
		return true
	}
	// Short single-word answers tolerate minor misspelling.
	if !strings.ContainsRune(ca, ' ') && len(ca) >= 4 {
		return levenshtein(ua, ca) <= g.maxEditDistance
	}
	return false
}

// resolveOptionIndex maps the submitted display text back to its option
// position. Submitted answers are always option text, never letters or
// indexes; anything that does not match an option is incorrect.
func resolveOptionIndex(options []string, userAnswer string) (int, bool) {
	for i, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(userAnswer)) {
			return i, true
		}
	}
	return 0, false
}

func scorePercent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(100 * float64(correct) / float64(total))
}

func addToBreakdown(m map[string]models.ScoreBreakdown, key string, correct bool) {
	b := m[key]
	b.Total++
	if correct {
		b.Correct++
	}
	b.Percent = scorePercent(b.Correct, b.Total)
	m[key] = b
}

func addToBreakdownType(m map[models.QuestionType]models.ScoreBreakdown, key models.QuestionType, correct bool) {
	b := m[key]
	b.Total++
	if correct {
		b.Correct++
	}
	b.Percent = scorePercent(b.Correct, b.Total)
	m[key] = b
}
