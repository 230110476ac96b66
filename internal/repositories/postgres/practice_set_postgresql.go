package postgres

import (
	"context"

	"github.com/studyloop/assessment-service/internal/models"
	"github.com/studyloop/assessment-service/internal/repositories"
	"gorm.io/gorm"
)

type PracticeSetPostgreSQL struct {
	db *gorm.DB
}

func NewPracticeSetPostgreSQL(db *gorm.DB) repositories.PracticeSetRepository {
	return &PracticeSetPostgreSQL{db: db}
}

func (r PracticeSetPostgreSQL) Create(ctx context.Context, set *models.PracticeSet) error {
	return r.db.WithContext(ctx).Create(set).Error
}

func (r PracticeSetPostgreSQL) GetByID(ctx context.Context, id uint) (*models.PracticeSet, error) {
	var set models.PracticeSet
	if err := r.db.WithContext(ctx).First(&set, id).Error; err != nil {
		return nil, err
	}
	return &set, nil
}

func (r PracticeSetPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.PracticeSet, error) {
	var set models.PracticeSet
	if err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&set, id).Error; err != nil {
		return nil, err
	}
	return &set, nil
}

func (r PracticeSetPostgreSQL) Update(ctx context.Context, set *models.PracticeSet) error {
	return r.db.WithContext(ctx).Save(set).Error
}

func (r PracticeSetPostgreSQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.PracticeSet{}, id).Error
}

func (r PracticeSetPostgreSQL) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.PracticeSet, int64, error) {
	var sets []*models.PracticeSet
	var total int64

	query := r.db.WithContext(ctx).Model(&models.PracticeSet{})
	query = applyQuizFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyLimitOffset(query, filters.Limit, filters.Offset)
	if err := query.Order("created_at DESC").Find(&sets).Error; err != nil {
		return nil, 0, err
	}

	return sets, total, nil
}
