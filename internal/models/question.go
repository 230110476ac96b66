package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrUnrenderableQuestion marks a generated item with no prompt text.
var ErrUnrenderableQuestion = errors.New("question has no prompt text")

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	FillInBlank    QuestionType = "fill_in_blank"
	ShortAnswer    QuestionType = "short_answer"
)

// TrueFalseOptions is synthesized for true_false questions whose source
// omitted an options list.
var TrueFalseOptions = []string{"True", "False"}

type Question struct {
	ID       string                      `json:"id" gorm:"primaryKey;size:64"`
	QuizID   *uint                       `json:"quiz_id,omitempty" gorm:"index"`
	SetID    *uint                       `json:"set_id,omitempty" gorm:"index"`
	Type     QuestionType                `json:"type" gorm:"not null;size:32;index" validate:"required,question_type"`
	Prompt   string                      `json:"prompt" gorm:"not null;type:text" validate:"required"`
	Options  datatypes.JSONSlice[string] `json:"options,omitempty" gorm:"type:jsonb"`
	Position int                         `json:"position" gorm:"not null;index"`

	// Canonical correctness source. CorrectIndex is authoritative for
	// choice questions; CorrectText for text questions. Exactly one is set.
	CorrectIndex *int   `json:"correct_index,omitempty"`
	CorrectText  string `json:"correct_text,omitempty" gorm:"type:text"`

	Explanation string `json:"explanation,omitempty" gorm:"type:text"`
	Difficulty  string `json:"difficulty,omitempty" gorm:"size:32"` // display-only label
	Unit        string `json:"unit,omitempty" gorm:"size:100;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Question) TableName() string {
	return "questions"
}

// IsChoice reports whether the question is answered by picking an option.
func (q *Question) IsChoice() bool {
	return q.Type == MultipleChoice || q.Type == TrueFalse
}

// CorrectAnswer returns the display text of the canonical correct answer.
func (q *Question) CorrectAnswer() string {
	if q.IsChoice() && q.CorrectIndex != nil {
		if *q.CorrectIndex >= 0 && *q.CorrectIndex < len(q.Options) {
			return q.Options[*q.CorrectIndex]
		}
		return ""
	}
	return q.CorrectText
}

// ===== NORMALIZATION BOUNDARY =====

// RawQuestion is the shape produced by the generation pipeline. Field names
// and types vary between generator versions, so everything optional is
// loosely typed and reconciled by Normalize.
type RawQuestion struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Prompt        string          `json:"question"`
	PromptAlt     string          `json:"prompt"`
	Options       []string        `json:"options"`
	Difficulty    string          `json:"difficulty"`
	Unit          string          `json:"unit"`
	Explanation   string          `json:"explanation"`
	CorrectOption json.RawMessage `json:"correct_option"` // int or stringified int
	Answer        string          `json:"answer"`
	CorrectAnswer string          `json:"correct_answer"`
	CorrectCamel  string          `json:"correctAnswer"`
}

// NormalizeQuestion converts a raw generator question into the closed
// four-variant representation. It returns ErrUnrenderableQuestion when the
// prompt is absent so callers can skip or flag the item instead of storing a
// blank question.
func NormalizeQuestion(raw RawQuestion, position int) (*Question, error) {
	prompt := strings.TrimSpace(raw.Prompt)
	if prompt == "" {
		prompt = strings.TrimSpace(raw.PromptAlt)
	}
	if prompt == "" {
		return nil, ErrUnrenderableQuestion
	}

	q := &Question{
		ID:          raw.ID,
		Type:        normalizeType(raw.Type),
		Prompt:      prompt,
		Options:     raw.Options,
		Position:    position,
		Difficulty:  raw.Difficulty,
		Unit:        raw.Unit,
		Explanation: raw.Explanation,
	}

	if q.Type == TrueFalse && len(q.Options) == 0 {
		q.Options = TrueFalseOptions
	}

	if q.IsChoice() {
		if idx, ok := resolveCorrectIndex(raw, q.Options); ok {
			q.CorrectIndex = &idx
		}
	} else {
		q.CorrectText = firstNonEmpty(raw.Answer, raw.CorrectAnswer, raw.CorrectCamel)
	}

	return q, nil
}

func normalizeType(t string) QuestionType {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "multiple_choice", "multiple-choice", "mcq":
		return MultipleChoice
	case "true_false", "true-false", "truefalse":
		return TrueFalse
	case "fill_in_blank", "fill-in-blank", "fill_blank":
		return FillInBlank
	default:
		return ShortAnswer
	}
}

// resolveCorrectIndex reconciles the generator's ambiguous correctness
// fields into a single option index. Precedence: explicit correct_option
// (int or stringified int), then an answer field matched against option
// text, then a bare option letter ("A".."Z"), then an index-as-string.
func resolveCorrectIndex(raw RawQuestion, options []string) (int, bool) {
	if len(raw.CorrectOption) > 0 {
		var asInt int
		if err := json.Unmarshal(raw.CorrectOption, &asInt); err == nil {
			return clampIndex(asInt, options)
		}
		var asString string
		if err := json.Unmarshal(raw.CorrectOption, &asString); err == nil {
			if n, err := strconv.Atoi(strings.TrimSpace(asString)); err == nil {
				return clampIndex(n, options)
			}
		}
	}

	answer := firstNonEmpty(raw.Answer, raw.CorrectAnswer, raw.CorrectCamel)
	if answer == "" {
		return 0, false
	}

	for i, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(answer)) {
			return i, true
		}
	}

	letter := strings.ToUpper(strings.TrimSpace(answer))
	if len(letter) == 1 && letter[0] >= 'A' && letter[0] <= 'Z' {
		return clampIndex(int(letter[0]-'A'), options)
	}

	if n, err := strconv.Atoi(strings.TrimSpace(answer)); err == nil {
		return clampIndex(n, options)
	}

	return 0, false
}

func clampIndex(i int, options []string) (int, bool) {
	if i < 0 || i >= len(options) {
		return 0, false
	}
	return i, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
