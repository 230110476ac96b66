package postgres

import (
	"context"

	"github.com/studyloop/assessment-service/internal/models"
	"github.com/studyloop/assessment-service/internal/repositories"
	"gorm.io/gorm"
)

type ResponsePostgreSQL struct {
	db *gorm.DB
}

func NewResponsePostgreSQL(db *gorm.DB) repositories.ResponseRepository {
	return &ResponsePostgreSQL{db: db}
}

func (r ResponsePostgreSQL) CreateBatch(ctx context.Context, responses []*models.AttemptResponse) error {
	if len(responses) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(responses, 100).Error
}

func (r ResponsePostgreSQL) GetByAttempt(ctx context.Context, attemptID uint) ([]*models.AttemptResponse, error) {
	var responses []*models.AttemptResponse
	if err := r.db.WithContext(ctx).
		Where("attempt_id = ?", attemptID).
		Order("position ASC").
		Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

func (r ResponsePostgreSQL) UpdateBatch(ctx context.Context, responses []*models.AttemptResponse) error {
	if len(responses) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, response := range responses {
			if err := tx.Save(response).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r ResponsePostgreSQL) DeleteByAttempt(ctx context.Context, attemptID uint) error {
	return r.db.WithContext(ctx).
		Where("attempt_id = ?", attemptID).
		Delete(&models.AttemptResponse{}).Error
}
