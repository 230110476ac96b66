package services

import (
	"context"
	"time"

	"github.com/studyloop/assessment-service/internal/models"
	"github.com/studyloop/assessment-service/internal/repositories"
)

// ===== SESSION SERVICE =====

// SessionService drives live assessment sessions. The server holds the
// authoritative session state; clients only see the current question and
// navigate through it.
type SessionService interface {
	Start(ctx context.Context, req *StartSessionRequest, learnerID string) (*SessionView, error)
	Get(ctx context.Context, attemptID uint, learnerID string) (*SessionView, error)
	SelectAnswer(ctx context.Context, attemptID uint, learnerID string, req *SelectAnswerRequest) (*SessionView, error)
	Next(ctx context.Context, attemptID uint, learnerID string) (*SessionView, error)
	Previous(ctx context.Context, attemptID uint, learnerID string) (*SessionView, error)
	Submit(ctx context.Context, attemptID uint, learnerID string) (*models.SubmissionResult, error)
	Abandon(ctx context.Context, attemptID uint, learnerID string) error

	// SubmitPayload records a complete response payload in one shot, for
	// clients that assembled the session themselves.
	SubmitPayload(ctx context.Context, req *SubmitPayloadRequest, learnerID string) (*models.SubmissionResult, error)

	// RetryGrading re-drives grading for an attempt whose responses were
	// persisted but whose result never materialized.
	RetryGrading(ctx context.Context, attemptID uint, learnerID string) (*models.SubmissionResult, error)
}

// ===== ATTEMPT SERVICE =====

type AttemptService interface {
	List(ctx context.Context, filters repositories.AttemptFilters) (*AttemptListResponse, error)
	GetByID(ctx context.Context, attemptID uint, learnerID string) (*AttemptDetailResponse, error)
	GetByParent(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) ([]*AttemptSummary, error)
	GetStats(ctx context.Context, kind models.AttemptKind, parentID uint) (*repositories.AttemptStats, error)
}

// ===== EXPORT SERVICE =====

type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
)

type ExportService interface {
	ExportAttempts(ctx context.Context, kind models.AttemptKind, parentID uint, format ExportFormat) (*ExportResult, error)
}

// ===== CATALOG SERVICE =====

// CatalogService serves quizzes and practice sets to learners, with correct
// answers stripped from the question payload.
type CatalogService interface {
	GetQuiz(ctx context.Context, quizID uint) (*QuizView, error)
	GetPracticeSet(ctx context.Context, setID uint) (*PracticeSetView, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Session() SessionService
	Attempt() AttemptService
	Export() ExportService
	Catalog() CatalogService
}

// ===== REQUEST DTOs =====

type StartSessionRequest struct {
	Kind     models.AttemptKind `json:"kind" validate:"required,attempt_kind"`
	ParentID uint               `json:"parent_id" validate:"required,gt=0"`
}

type SelectAnswerRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	Answer     string `json:"answer"`
}

type SubmitPayloadRequest struct {
	Kind        models.AttemptKind `json:"kind" validate:"required,attempt_kind"`
	ParentID    uint               `json:"parent_id" validate:"required,gt=0"`
	Responses   []PayloadResponse  `json:"responses" validate:"required,min=1,dive"`
	StartedAt   time.Time          `json:"started_at" validate:"required"`
	CompletedAt time.Time          `json:"completed_at" validate:"required"`
}

type PayloadResponse struct {
	QuestionID       string `json:"question_id" validate:"required"`
	UserAnswer       string `json:"user_answer"`
	TimeSpentSeconds int    `json:"time_spent_seconds" validate:"gte=0"`
}

// ===== RESPONSE DTOs =====

// QuestionView is the learner-facing question shape. Correct answers and
// explanations never appear here; they only surface in graded results.
type QuestionView struct {
	ID         string              `json:"id"`
	Type       models.QuestionType `json:"type"`
	Prompt     string              `json:"prompt"`
	Options    []string            `json:"options,omitempty"`
	Position   int                 `json:"position"`
	Unit       string              `json:"unit,omitempty"`
	Difficulty string              `json:"difficulty,omitempty"`
}

// SessionView is the state a client needs to render the current step of a
// live session.
type SessionView struct {
	AttemptID      uint               `json:"attempt_id"`
	Kind           models.AttemptKind `json:"kind"`
	ParentID       uint               `json:"parent_id"`
	Status         string             `json:"status"`
	CurrentIndex   int                `json:"current_index"`
	TotalQuestions int                `json:"total_questions"`
	AnsweredCount  int                `json:"answered_count"`
	StartedAt      time.Time          `json:"started_at"`

	Question       *QuestionView `json:"question"`
	SelectedAnswer string        `json:"selected_answer"`
	CanGoBack      bool          `json:"can_go_back"`
	CanAdvance     bool          `json:"can_advance"`
	IsLastQuestion bool          `json:"is_last_question"`
}

type QuizView struct {
	ID        uint            `json:"id"`
	Title     string          `json:"title"`
	Subject   string          `json:"subject"`
	Questions []*QuestionView `json:"questions"`
}

type PracticeSetView struct {
	ID        uint            `json:"id"`
	Title     string          `json:"title"`
	Subject   string          `json:"subject"`
	Questions []*QuestionView `json:"questions"`
}

type AttemptSummary struct {
	ID             uint                 `json:"id"`
	Kind           models.AttemptKind   `json:"kind"`
	ParentID       uint                 `json:"parent_id"`
	AttemptNumber  int                  `json:"attempt_number"`
	Status         models.AttemptStatus `json:"status"`
	StartedAt      time.Time            `json:"started_at"`
	CompletedAt    *time.Time           `json:"completed_at"`
	TimeSpent      int                  `json:"time_spent"`
	OverallScore   float64              `json:"overall_score"`
	TotalCorrect   int                  `json:"total_correct"`
	TotalQuestions int                  `json:"total_questions"`
}

type AttemptDetailResponse struct {
	AttemptSummary
	Responses []ResponseDetail `json:"responses"`
}

type ResponseDetail struct {
	QuestionID       string `json:"question_id"`
	Position         int    `json:"position"`
	UserAnswer       string `json:"user_answer"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
	IsCorrect        *bool  `json:"is_correct"`
	CorrectAnswer    string `json:"correct_answer,omitempty"`
	Explanation      string `json:"explanation,omitempty"`
}

type AttemptListResponse struct {
	Attempts []*AttemptSummary `json:"attempts"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

type ExportResult struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}
