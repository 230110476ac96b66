package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/studyloop/assessment-service/internal/models"
	"github.com/studyloop/assessment-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (r AttemptPostgreSQL) Create(ctx context.Context, attempt *models.Attempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r AttemptPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Attempt, error) {
	var attempt models.Attempt
	if err := r.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r AttemptPostgreSQL) GetByIDWithResponses(ctx context.Context, id uint) (*models.Attempt, error) {
	var attempt models.Attempt
	if err := r.db.WithContext(ctx).
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r AttemptPostgreSQL) Update(ctx context.Context, attempt *models.Attempt) error {
	return r.db.WithContext(ctx).Save(attempt).Error
}

func (r AttemptPostgreSQL) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.Attempt, int64, error) {
	var attempts []*models.Attempt
	var total int64

	// apply filters first, pagination and sorting after the count
	query := r.db.WithContext(ctx).Model(&models.Attempt{})
	query = applyAttemptFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyLimitOffset(query, filters.Limit, filters.Offset)
	query = applyAttemptSort(query, filters)

	if err := query.Find(&attempts).Error; err != nil {
		return nil, 0, err
	}

	return attempts, total, nil
}

func (r AttemptPostgreSQL) GetByParent(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) ([]*models.Attempt, error) {
	var attempts []*models.Attempt
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND parent_id = ? AND learner_id = ?", kind, parentID, learnerID).
		Order("attempt_number ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r AttemptPostgreSQL) GetActiveAttempt(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) (*models.Attempt, error) {
	var attempt models.Attempt
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND parent_id = ? AND learner_id = ? AND status = ?",
			kind, parentID, learnerID, models.AttemptInProgress).
		Order("attempt_number DESC").
		First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

func (r AttemptPostgreSQL) GetNextAttemptNumber(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) (int, error) {
	var maxNumber int
	err := r.db.WithContext(ctx).
		Model(&models.Attempt{}).
		Where("kind = ? AND parent_id = ? AND learner_id = ?", kind, parentID, learnerID).
		Select("COALESCE(MAX(attempt_number), 0)").
		Scan(&maxNumber).Error
	if err != nil {
		return 0, err
	}
	return maxNumber + 1, nil
}

func (r AttemptPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.AttemptStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Attempt{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r AttemptPostgreSQL) GetStats(ctx context.Context, kind models.AttemptKind, parentID uint) (*repositories.AttemptStats, error) {
	stats := &repositories.AttemptStats{}

	base := r.db.WithContext(ctx).Model(&models.Attempt{}).
		Where("kind = ? AND parent_id = ?", kind, parentID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	stats.TotalAttempts = int(total)

	row := r.db.WithContext(ctx).Model(&models.Attempt{}).
		Where("kind = ? AND parent_id = ? AND status = ?", kind, parentID, models.AttemptGraded).
		Select("COUNT(*) AS completed, COALESCE(AVG(overall_score), 0) AS avg_score, COALESCE(MAX(overall_score), 0) AS best_score, COALESCE(AVG(time_spent), 0) AS avg_time").
		Row()

	var avgTime float64
	if err := row.Scan(&stats.CompletedAttempts, &stats.AverageScore, &stats.BestScore, &avgTime); err != nil {
		return nil, fmt.Errorf("failed to scan attempt stats: %w", err)
	}
	stats.AverageTimeSpent = int(avgTime)

	return stats, nil
}

func applyAttemptFilters(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	if filters.Kind != "" {
		query = query.Where("kind = ?", filters.Kind)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.ParentID != nil {
		query = query.Where("parent_id = ?", *filters.ParentID)
	}
	if filters.LearnerID != nil {
		query = query.Where("learner_id = ?", *filters.LearnerID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

func applyAttemptSort(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "completed_at", "overall_score", "created_at":
	default:
		sortBy = "created_at"
	}
	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}
	return query.Order(sortBy + " " + order)
}
