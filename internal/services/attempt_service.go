package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studyloop/assessment-service/internal/models"
	"github.com/studyloop/assessment-service/internal/repositories"
)

type attemptService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewAttemptService(repo repositories.Repository, logger *slog.Logger) AttemptService {
	return &attemptService{
		repo:   repo,
		logger: logger,
	}
}

func (s *attemptService) List(ctx context.Context, filters repositories.AttemptFilters) (*AttemptListResponse, error) {
	attempts, total, err := s.repo.Attempt().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	summaries := make([]*AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		summaries = append(summaries, toAttemptSummary(a))
	}

	return &AttemptListResponse{
		Attempts: summaries,
		Total:    total,
		Limit:    filters.Limit,
		Offset:   filters.Offset,
	}, nil
}

func (s *attemptService) GetByID(ctx context.Context, attemptID uint, learnerID string) (*AttemptDetailResponse, error) {
	attempt, err := s.repo.Attempt().GetByIDWithResponses(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt.LearnerID != learnerID {
		return nil, ErrAttemptAccessDenied
	}

	detail := &AttemptDetailResponse{
		AttemptSummary: *toAttemptSummary(attempt),
		Responses:      make([]ResponseDetail, 0, len(attempt.Responses)),
	}
	for _, r := range attempt.Responses {
		rd := ResponseDetail{
			QuestionID:       r.QuestionID,
			Position:         r.Position,
			UserAnswer:       r.UserAnswer,
			TimeSpentSeconds: r.TimeSpentSeconds,
			IsCorrect:        r.IsCorrect,
		}
		// Correct answers only surface once the attempt is graded.
		if attempt.Status == models.AttemptGraded {
			rd.CorrectAnswer = r.CorrectAnswer
			rd.Explanation = r.Explanation
		}
		detail.Responses = append(detail.Responses, rd)
	}

	return detail, nil
}

func (s *attemptService) GetByParent(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) ([]*AttemptSummary, error) {
	attempts, err := s.repo.Attempt().GetByParent(ctx, kind, parentID, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}

	summaries := make([]*AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		summaries = append(summaries, toAttemptSummary(a))
	}
	return summaries, nil
}

func (s *attemptService) GetStats(ctx context.Context, kind models.AttemptKind, parentID uint) (*repositories.AttemptStats, error) {
	stats, err := s.repo.Attempt().GetStats(ctx, kind, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt stats: %w", err)
	}
	return stats, nil
}

func toAttemptSummary(a *models.Attempt) *AttemptSummary {
	return &AttemptSummary{
		ID:             a.ID,
		Kind:           a.Kind,
		ParentID:       a.ParentID,
		AttemptNumber:  a.AttemptNumber,
		Status:         a.Status,
		StartedAt:      a.StartedAt,
		CompletedAt:    a.CompletedAt,
		TimeSpent:      a.TimeSpent,
		OverallScore:   a.OverallScore,
		TotalCorrect:   a.TotalCorrect,
		TotalQuestions: a.TotalQuestions,
	}
}
