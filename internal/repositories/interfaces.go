package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/studyloop/assessment-service/internal/models"
	"gorm.io/gorm"
)

// Repository aggregates access to all stores. WithTx runs fn against a
// transactional view; any error rolls the transaction back.
type Repository interface {
	Quiz() QuizRepository
	PracticeSet() PracticeSetRepository
	Attempt() AttemptRepository
	Response() ResponseRepository
	User() UserRepository

	WithTx(ctx context.Context, fn func(Repository) error) error
}

// IsNotFoundError reports whether err is the store's missing-record error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type AttemptFilters struct {
	Kind      models.AttemptKind   `json:"kind"`
	Status    models.AttemptStatus `json:"status"`
	ParentID  *uint                `json:"parent_id"`
	LearnerID *string              `json:"learner_id"`
	DateFrom  *time.Time           `json:"date_from"`
	DateTo    *time.Time           `json:"date_to"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
	SortBy    string               `json:"sort_by"`    // "created_at", "completed_at", "overall_score"
	SortOrder string               `json:"sort_order"` // "asc", "desc"
}

type QuizFilters struct {
	Status    *models.QuizStatus `json:"status"`
	Subject   *string            `json:"subject"`
	CreatedBy *string            `json:"created_by"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type AttemptStats struct {
	TotalAttempts     int     `json:"total_attempts"`
	CompletedAttempts int     `json:"completed_attempts"`
	AverageScore      float64 `json:"average_score"`
	BestScore         float64 `json:"best_score"`
	AverageTimeSpent  int     `json:"average_time_spent"`
}

// ===== STORE INTERFACES =====

type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error)
	Update(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters QuizFilters) ([]*models.Quiz, int64, error)
}

type PracticeSetRepository interface {
	Create(ctx context.Context, set *models.PracticeSet) error
	GetByID(ctx context.Context, id uint) (*models.PracticeSet, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.PracticeSet, error)
	Update(ctx context.Context, set *models.PracticeSet) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters QuizFilters) ([]*models.PracticeSet, int64, error)
}

type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.Attempt) error
	GetByID(ctx context.Context, id uint) (*models.Attempt, error)
	GetByIDWithResponses(ctx context.Context, id uint) (*models.Attempt, error)
	Update(ctx context.Context, attempt *models.Attempt) error

	List(ctx context.Context, filters AttemptFilters) ([]*models.Attempt, int64, error)
	GetByParent(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) ([]*models.Attempt, error)
	GetActiveAttempt(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) (*models.Attempt, error)
	GetNextAttemptNumber(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) (int, error)
	UpdateStatus(ctx context.Context, id uint, status models.AttemptStatus) error
	GetStats(ctx context.Context, kind models.AttemptKind, parentID uint) (*AttemptStats, error)
}

type ResponseRepository interface {
	CreateBatch(ctx context.Context, responses []*models.AttemptResponse) error
	GetByAttempt(ctx context.Context, attemptID uint) ([]*models.AttemptResponse, error)
	UpdateBatch(ctx context.Context, responses []*models.AttemptResponse) error
	DeleteByAttempt(ctx context.Context, attemptID uint) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}
