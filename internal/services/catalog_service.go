package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studyloop/assessment-service/internal/models"
	"github.com/studyloop/assessment-service/internal/repositories"
)

type catalogService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewCatalogService(repo repositories.Repository, logger *slog.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		logger: logger,
	}
}

func (s *catalogService) GetQuiz(ctx context.Context, quizID uint) (*QuizView, error) {
	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz.Status != models.QuizStatusReady {
		return nil, ErrQuizNotPublished
	}

	return &QuizView{
		ID:        quiz.ID,
		Title:     quiz.Title,
		Subject:   quiz.Subject,
		Questions: toQuestionViews(quiz.Questions),
	}, nil
}

func (s *catalogService) GetPracticeSet(ctx context.Context, setID uint) (*PracticeSetView, error) {
	set, err := s.repo.PracticeSet().GetByIDWithQuestions(ctx, setID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPracticeSetNotFound
		}
		return nil, fmt.Errorf("failed to get practice set: %w", err)
	}
	if set.Status != models.QuizStatusReady {
		return nil, ErrQuizNotPublished
	}

	return &PracticeSetView{
		ID:        set.ID,
		Title:     set.Title,
		Subject:   set.Subject,
		Questions: toQuestionViews(set.Questions),
	}, nil
}

func toQuestionViews(questions []models.Question) []*QuestionView {
	views := make([]*QuestionView, 0, len(questions))
	for i := range questions {
		views = append(views, toQuestionView(&questions[i]))
	}
	return views
}
