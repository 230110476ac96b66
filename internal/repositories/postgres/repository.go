package postgres

import (
	"context"

	"github.com/studyloop/assessment-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the GORM-backed aggregate store.
type Repository struct {
	db *gorm.DB

	quiz        repositories.QuizRepository
	practiceSet repositories.PracticeSetRepository
	attempt     repositories.AttemptRepository
	response    repositories.ResponseRepository
	user        repositories.UserRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		db:          db,
		quiz:        NewQuizPostgreSQL(db),
		practiceSet: NewPracticeSetPostgreSQL(db),
		attempt:     NewAttemptPostgreSQL(db),
		response:    NewResponsePostgreSQL(db),
		user:        NewUserPostgreSQL(db),
	}
}

func (r *Repository) Quiz() repositories.QuizRepository               { return r.quiz }
func (r *Repository) PracticeSet() repositories.PracticeSetRepository { return r.practiceSet }
func (r *Repository) Attempt() repositories.AttemptRepository         { return r.attempt }
func (r *Repository) Response() repositories.ResponseRepository       { return r.response }
func (r *Repository) User() repositories.UserRepository               { return r.user }

// WithTx runs fn against a transactional repository view.
func (r *Repository) WithTx(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
