package validator

import (
	"fmt"

	"github.com/studyloop/assessment-service/internal/models"
)

// QuestionValidator checks domain rules on normalized questions before they
// are stored or served into a session.
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete normalized question.
func (v *QuestionValidator) ValidateQuestion(q *models.Question) error {
	if q.Prompt == "" {
		return fmt.Errorf("question prompt is required")
	}

	switch q.Type {
	case models.MultipleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("multiple_choice question requires at least 2 options")
		}
		if q.CorrectIndex != nil && (*q.CorrectIndex < 0 || *q.CorrectIndex >= len(q.Options)) {
			return fmt.Errorf("correct_index %d out of range for %d options", *q.CorrectIndex, len(q.Options))
		}
	case models.TrueFalse:
		if len(q.Options) != 2 {
			return fmt.Errorf("true_false question requires exactly 2 options")
		}
	case models.FillInBlank, models.ShortAnswer:
		if q.CorrectText == "" {
			return fmt.Errorf("%s question requires correct_text", q.Type)
		}
	default:
		return fmt.Errorf("unsupported question type: %s", q.Type)
	}

	return nil
}

// ValidateBatch validates a question sequence and reports the positions of
// invalid items; callers decide whether to skip or reject the whole set.
func (v *QuestionValidator) ValidateBatch(questions []models.Question) map[int]error {
	invalid := make(map[int]error)
	for i := range questions {
		if err := v.ValidateQuestion(&questions[i]); err != nil {
			invalid[i] = err
		}
	}
	return invalid
}
