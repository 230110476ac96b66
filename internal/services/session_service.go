package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studyloop/assessment-service/internal/cache"
	"github.com/studyloop/assessment-service/internal/events"
	"github.com/studyloop/assessment-service/internal/grading"
	"github.com/studyloop/assessment-service/internal/models"
	"github.com/studyloop/assessment-service/internal/repositories"
	"github.com/studyloop/assessment-service/internal/session"
	"github.com/studyloop/assessment-service/internal/validator"
)

type sessionService struct {
	repo      repositories.Repository
	store     cache.SessionStore
	grader    *grading.Grader
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	clock     session.Clock
}

func NewSessionService(
	repo repositories.Repository,
	store cache.SessionStore,
	grader *grading.Grader,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) SessionService {
	return &sessionService{
		repo:      repo,
		store:     store,
		grader:    grader,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		clock:     session.SystemClock(),
	}
}

// ===== SESSION LIFECYCLE =====

func (s *sessionService) Start(ctx context.Context, req *StartSessionRequest, learnerID string) (*SessionView, error) {
	s.logger.Info("Starting session",
		"kind", req.Kind,
		"parent_id", req.ParentID,
		"learner_id", learnerID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	questions, title, err := s.loadQuestions(ctx, req.Kind, req.ParentID)
	if err != nil {
		return nil, err
	}

	// A learner holds at most one live session per quiz or practice set;
	// a second start resumes it instead of forking a parallel attempt.
	if activeID, err := s.store.GetActive(ctx, req.Kind, req.ParentID, learnerID); err == nil {
		view, err := s.Get(ctx, activeID, learnerID)
		if err == nil {
			s.logger.Info("Resuming active session", "attempt_id", activeID)
			return view, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}

	active, err := s.repo.Attempt().GetActiveAttempt(ctx, req.Kind, req.ParentID, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active attempt: %w", err)
	}
	if active != nil {
		return s.resumeAttempt(ctx, active, questions)
	}

	number, err := s.repo.Attempt().GetNextAttemptNumber(ctx, req.Kind, req.ParentID, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute attempt number: %w", err)
	}

	sess, err := session.New(req.Kind, req.ParentID, learnerID, questions, s.clock)
	if err != nil {
		return nil, err
	}

	attempt := &models.Attempt{
		Kind:           req.Kind,
		ParentID:       req.ParentID,
		LearnerID:      learnerID,
		AttemptNumber:  number,
		Status:         models.AttemptInProgress,
		StartedAt:      sess.StartedAt(),
		TotalQuestions: sess.Len(),
	}
	if err := s.repo.Attempt().Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	if err := s.saveSession(ctx, attempt.ID, sess); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewAttemptStartedEvent(attempt, title))

	s.logger.Info("Session started",
		"attempt_id", attempt.ID,
		"total_questions", attempt.TotalQuestions)

	return buildSessionView(attempt.ID, sess), nil
}

func (s *sessionService) Get(ctx context.Context, attemptID uint, learnerID string) (*SessionView, error) {
	attempt, sess, err := s.loadLiveSession(ctx, attemptID, learnerID)
	if err != nil {
		return nil, err
	}
	return buildSessionView(attempt.ID, sess), nil
}

func (s *sessionService) SelectAnswer(ctx context.Context, attemptID uint, learnerID string, req *SelectAnswerRequest) (*SessionView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	attempt, sess, err := s.loadLiveSession(ctx, attemptID, learnerID)
	if err != nil {
		return nil, err
	}

	if err := sess.SelectAnswer(req.QuestionID, req.Answer); err != nil {
		return nil, mapSessionError(err)
	}

	if err := s.saveSession(ctx, attempt.ID, sess); err != nil {
		return nil, err
	}
	return buildSessionView(attempt.ID, sess), nil
}

func (s *sessionService) Next(ctx context.Context, attemptID uint, learnerID string) (*SessionView, error) {
	return s.navigate(ctx, attemptID, learnerID, func(sess *session.Session) error {
		return sess.Next()
	})
}

func (s *sessionService) Previous(ctx context.Context, attemptID uint, learnerID string) (*SessionView, error) {
	return s.navigate(ctx, attemptID, learnerID, func(sess *session.Session) error {
		return sess.Previous()
	})
}

func (s *sessionService) navigate(ctx context.Context, attemptID uint, learnerID string, move func(*session.Session) error) (*SessionView, error) {
	attempt, sess, err := s.loadLiveSession(ctx, attemptID, learnerID)
	if err != nil {
		return nil, err
	}

	if err := move(sess); err != nil {
		return nil, mapSessionError(err)
	}

	// Navigation checkpoints progress to Postgres so a lost session can be
	// rebuilt with the pointer on the right question.
	if err := s.persistProgress(ctx, attempt, sess); err != nil {
		s.logger.Error("Failed to checkpoint session progress",
			"attempt_id", attempt.ID, "error", err)
	}

	if err := s.saveSession(ctx, attempt.ID, sess); err != nil {
		return nil, err
	}
	return buildSessionView(attempt.ID, sess), nil
}

func (s *sessionService) Abandon(ctx context.Context, attemptID uint, learnerID string) error {
	attempt, err := s.getOwnedAttempt(ctx, attemptID, learnerID)
	if err != nil {
		return err
	}
	if attempt.Status != models.AttemptInProgress {
		return ErrAttemptNotActive
	}

	if err := s.repo.Attempt().UpdateStatus(ctx, attempt.ID, models.AttemptAbandoned); err != nil {
		return fmt.Errorf("failed to abandon attempt: %w", err)
	}
	s.discardSession(ctx, attempt)
	s.publish(ctx, events.NewAttemptAbandonedEvent(attempt))

	s.logger.Info("Session abandoned", "attempt_id", attempt.ID)
	return nil
}

// ===== SUBMISSION =====

func (s *sessionService) Submit(ctx context.Context, attemptID uint, learnerID string) (*models.SubmissionResult, error) {
	attempt, sess, err := s.loadLiveSession(ctx, attemptID, learnerID)
	if err != nil {
		return nil, err
	}

	payload, err := sess.Submit()
	if err != nil {
		return nil, mapSessionError(err)
	}

	// Phase one: persist the submission. On failure the Redis session is
	// left untouched in its pre-submit state, so the client can retry the
	// whole submit without losing answers.
	if err := s.persistSubmission(ctx, attempt, sess, payload); err != nil {
		s.logger.Error("Failed to persist submission",
			"attempt_id", attempt.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	s.discardSession(ctx, attempt)

	title := s.parentTitle(ctx, attempt.Kind, attempt.ParentID)
	s.publish(ctx, events.NewAttemptSubmittedEvent(attempt, title, countAnswered(payload)))

	// Phase two: grade from the persisted responses. A failure here leaves
	// the attempt submitted with answers intact; the retry endpoint
	// re-drives grading without resubmission.
	result, err := s.gradePersisted(ctx, attempt, sess.Questions(), payloadToResponses(payload))
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewAttemptGradedEvent(attempt, title, result))

	s.logger.Info("Attempt graded",
		"attempt_id", attempt.ID,
		"overall_score", result.OverallScore,
		"total_correct", result.TotalCorrect)

	return result, nil
}

func (s *sessionService) SubmitPayload(ctx context.Context, req *SubmitPayloadRequest, learnerID string) (*models.SubmissionResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	questions, title, err := s.loadQuestions(ctx, req.Kind, req.ParentID)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}
	for _, r := range req.Responses {
		if _, ok := known[r.QuestionID]; !ok {
			return nil, ErrAnswerNotAllowed
		}
	}

	number, err := s.repo.Attempt().GetNextAttemptNumber(ctx, req.Kind, req.ParentID, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute attempt number: %w", err)
	}

	completedAt := req.CompletedAt
	totalTime := 0
	for _, r := range req.Responses {
		totalTime += r.TimeSpentSeconds
	}

	attempt := &models.Attempt{
		Kind:           req.Kind,
		ParentID:       req.ParentID,
		LearnerID:      learnerID,
		AttemptNumber:  number,
		Status:         models.AttemptSubmitted,
		StartedAt:      req.StartedAt,
		CompletedAt:    &completedAt,
		TimeSpent:      totalTime,
		CurrentIndex:   len(questions) - 1,
		TotalQuestions: len(questions),
	}

	// Every question gets a row, with an empty answer for unanswered items,
	// so grading and review are deterministic.
	byID := make(map[string]PayloadResponse, len(req.Responses))
	for _, r := range req.Responses {
		byID[r.QuestionID] = r
	}
	rows := make([]*models.AttemptResponse, 0, len(questions))
	responses := make([]grading.Response, 0, len(questions))
	for i, q := range questions {
		r := byID[q.ID]
		rows = append(rows, &models.AttemptResponse{
			QuestionID:       q.ID,
			Position:         i,
			UserAnswer:       r.UserAnswer,
			TimeSpentSeconds: r.TimeSpentSeconds,
		})
		responses = append(responses, grading.Response{
			QuestionID:       q.ID,
			UserAnswer:       r.UserAnswer,
			TimeSpentSeconds: r.TimeSpentSeconds,
		})
	}

	err = s.repo.WithTx(ctx, func(tx repositories.Repository) error {
		if err := tx.Attempt().Create(ctx, attempt); err != nil {
			return err
		}
		for _, row := range rows {
			row.AttemptID = attempt.ID
		}
		return tx.Response().CreateBatch(ctx, rows)
	})
	if err != nil {
		s.logger.Error("Failed to persist payload submission",
			"kind", req.Kind, "parent_id", req.ParentID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	s.publish(ctx, events.NewAttemptSubmittedEvent(attempt, title, countAnsweredResponses(responses)))

	result, err := s.gradePersisted(ctx, attempt, questions, responses)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewAttemptGradedEvent(attempt, title, result))
	return result, nil
}

func (s *sessionService) RetryGrading(ctx context.Context, attemptID uint, learnerID string) (*models.SubmissionResult, error) {
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
	if attempt.Status != models.AttemptSubmitted && attempt.Status != models.AttemptGraded {
		return nil, ErrAttemptNotSubmitted
	}

	questions, title, err := s.loadQuestions(ctx, attempt.Kind, attempt.ParentID)
	if err != nil {
		return nil, err
	}

	responses := make([]grading.Response, 0, len(attempt.Responses))
	for _, r := range attempt.Responses {
		responses = append(responses, grading.Response{
			QuestionID:       r.QuestionID,
			UserAnswer:       r.UserAnswer,
			TimeSpentSeconds: r.TimeSpentSeconds,
		})
	}

	wasGraded := attempt.Status == models.AttemptGraded
	result, err := s.gradePersisted(ctx, attempt, questions, responses)
	if err != nil {
		return nil, err
	}

	if !wasGraded {
		s.publish(ctx, events.NewAttemptGradedEvent(attempt, title, result))
	}

	s.logger.Info("Grading re-driven", "attempt_id", attempt.ID)
	return result, nil
}

// ===== INTERNALS =====

// gradePersisted scores persisted responses and writes the outcome back.
// Grading itself is pure; only the write-back can fail, and that failure is
// retryable because the responses stay persisted and the attempt stays
// submitted.
func (s *sessionService) gradePersisted(ctx context.Context, attempt *models.Attempt, questions []models.Question, responses []grading.Response) (*models.SubmissionResult, error) {
	var result *models.SubmissionResult
	if attempt.Kind == models.AttemptKindPracticeSet {
		result = s.grader.GradeWithBreakdowns(questions, responses)
	} else {
		result = s.grader.Grade(questions, responses)
	}
	result.AttemptID = attempt.ID
	if attempt.CompletedAt != nil {
		result.CompletedAt = *attempt.CompletedAt
	}

	err := s.repo.WithTx(ctx, func(tx repositories.Repository) error {
		attempt.Status = models.AttemptGraded
		attempt.OverallScore = result.OverallScore
		attempt.TotalCorrect = result.TotalCorrect
		if err := tx.Attempt().Update(ctx, attempt); err != nil {
			return err
		}

		stored, err := tx.Response().GetByAttempt(ctx, attempt.ID)
		if err != nil {
			return err
		}
		outcome := make(map[string]models.QuestionResult, len(result.PerQuestion))
		for _, qr := range result.PerQuestion {
			outcome[qr.QuestionID] = qr
		}
		now := s.clock.Now()
		for _, row := range stored {
			qr, ok := outcome[row.QuestionID]
			if !ok {
				continue
			}
			correct := qr.IsCorrect
			row.IsCorrect = &correct
			row.CorrectAnswer = qr.CorrectAnswer
			row.Explanation = qr.Explanation
			if row.AnsweredAt == nil && row.UserAnswer != "" {
				row.AnsweredAt = &now
			}
		}
		return tx.Response().UpdateBatch(ctx, stored)
	})
	if err != nil {
		attempt.Status = models.AttemptSubmitted
		s.logger.Error("Failed to persist grading result",
			"attempt_id", attempt.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrResultUnavailable, err)
	}

	return result, nil
}

func (s *sessionService) persistSubmission(ctx context.Context, attempt *models.Attempt, sess *session.Session, payload *session.Payload) error {
	totalTime := 0
	rows := make([]*models.AttemptResponse, 0, len(payload.Responses))
	for i, entry := range payload.Responses {
		totalTime += entry.TimeSpentSeconds
		rows = append(rows, &models.AttemptResponse{
			AttemptID:        attempt.ID,
			QuestionID:       entry.QuestionID,
			Position:         i,
			UserAnswer:       entry.UserAnswer,
			TimeSpentSeconds: entry.TimeSpentSeconds,
		})
	}

	completedAt := payload.CompletedAt
	return s.repo.WithTx(ctx, func(tx repositories.Repository) error {
		attempt.Status = models.AttemptSubmitted
		attempt.CompletedAt = &completedAt
		attempt.TimeSpent = totalTime
		attempt.CurrentIndex = sess.Index()
		if err := tx.Attempt().Update(ctx, attempt); err != nil {
			return err
		}
		if err := tx.Response().DeleteByAttempt(ctx, attempt.ID); err != nil {
			return err
		}
		return tx.Response().CreateBatch(ctx, rows)
	})
}

// persistProgress checkpoints answers and the navigation pointer so a lost
// Redis session resumes correctly from Postgres. Every answered or timed
// question gets a row no matter where the pointer sits; backing up must not
// shrink the checkpoint.
func (s *sessionService) persistProgress(ctx context.Context, attempt *models.Attempt, sess *session.Session) error {
	answers := sess.Answers()
	timings := sess.TimeSpent()

	totalTime := 0
	rows := make([]*models.AttemptResponse, 0, len(answers))
	for i, q := range sess.Questions() {
		if answers[q.ID] == "" && timings[q.ID] == 0 {
			continue
		}
		totalTime += timings[q.ID]
		rows = append(rows, &models.AttemptResponse{
			AttemptID:        attempt.ID,
			QuestionID:       q.ID,
			Position:         i,
			UserAnswer:       answers[q.ID],
			TimeSpentSeconds: timings[q.ID],
		})
	}

	return s.repo.WithTx(ctx, func(tx repositories.Repository) error {
		attempt.CurrentIndex = sess.Index()
		attempt.TimeSpent = totalTime
		if err := tx.Attempt().Update(ctx, attempt); err != nil {
			return err
		}
		if err := tx.Response().DeleteByAttempt(ctx, attempt.ID); err != nil {
			return err
		}
		return tx.Response().CreateBatch(ctx, rows)
	})
}

// loadLiveSession resolves the attempt, checks ownership, and restores the
// live session, rebuilding it from checkpointed responses when the Redis
// entry has expired.
func (s *sessionService) loadLiveSession(ctx context.Context, attemptID uint, learnerID string) (*models.Attempt, *session.Session, error) {
	attempt, err := s.getOwnedAttempt(ctx, attemptID, learnerID)
	if err != nil {
		return nil, nil, err
	}
	if attempt.Status != models.AttemptInProgress {
		return nil, nil, ErrAttemptNotActive
	}

	snap, err := s.store.Load(ctx, attempt.ID)
	if err == nil {
		sess, err := session.FromSnapshot(snap, s.clock)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to restore session: %w", err)
		}
		return attempt, sess, nil
	}
	if err != cache.ErrSessionNotFound {
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}

	questions, _, err := s.loadQuestions(ctx, attempt.Kind, attempt.ParentID)
	if err != nil {
		return nil, nil, err
	}
	prior, err := s.loadPriorResponses(ctx, attempt.ID)
	if err != nil {
		return nil, nil, err
	}
	sess, err := session.Resume(attempt.Kind, attempt.ParentID, attempt.LearnerID, questions, prior, attempt.CurrentIndex, attempt.StartedAt, s.clock)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to rebuild session: %w", err)
	}
	if err := s.saveSession(ctx, attempt.ID, sess); err != nil {
		return nil, nil, err
	}

	s.logger.Info("Session rebuilt from checkpoint",
		"attempt_id", attempt.ID,
		"current_index", sess.Index())
	return attempt, sess, nil
}

func (s *sessionService) resumeAttempt(ctx context.Context, attempt *models.Attempt, questions []models.Question) (*SessionView, error) {
	prior, err := s.loadPriorResponses(ctx, attempt.ID)
	if err != nil {
		return nil, err
	}
	sess, err := session.Resume(attempt.Kind, attempt.ParentID, attempt.LearnerID, questions, prior, attempt.CurrentIndex, attempt.StartedAt, s.clock)
	if err != nil {
		return nil, fmt.Errorf("failed to resume session: %w", err)
	}
	if err := s.saveSession(ctx, attempt.ID, sess); err != nil {
		return nil, err
	}

	s.logger.Info("Resumed persisted attempt",
		"attempt_id", attempt.ID,
		"current_index", sess.Index())
	return buildSessionView(attempt.ID, sess), nil
}

func (s *sessionService) loadPriorResponses(ctx context.Context, attemptID uint) ([]session.PriorResponse, error) {
	stored, err := s.repo.Response().GetByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior responses: %w", err)
	}
	prior := make([]session.PriorResponse, 0, len(stored))
	for _, r := range stored {
		prior = append(prior, session.PriorResponse{
			QuestionID:       r.QuestionID,
			UserAnswer:       r.UserAnswer,
			TimeSpentSeconds: r.TimeSpentSeconds,
		})
	}
	return prior, nil
}

func (s *sessionService) getOwnedAttempt(ctx context.Context, attemptID uint, learnerID string) (*models.Attempt, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt.LearnerID != learnerID {
		return nil, ErrAttemptAccessDenied
	}
	return attempt, nil
}

func (s *sessionService) loadQuestions(ctx context.Context, kind models.AttemptKind, parentID uint) ([]models.Question, string, error) {
	switch kind {
	case models.AttemptKindPracticeSet:
		set, err := s.repo.PracticeSet().GetByIDWithQuestions(ctx, parentID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, "", ErrPracticeSetNotFound
			}
			return nil, "", fmt.Errorf("failed to get practice set: %w", err)
		}
		if set.Status != models.QuizStatusReady {
			return nil, "", ErrQuizNotPublished
		}
		if len(set.Questions) == 0 {
			return nil, "", ErrQuizEmpty
		}
		return set.Questions, set.Title, nil
	default:
		quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, parentID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, "", ErrQuizNotFound
			}
			return nil, "", fmt.Errorf("failed to get quiz: %w", err)
		}
		if quiz.Status != models.QuizStatusReady {
			return nil, "", ErrQuizNotPublished
		}
		if len(quiz.Questions) == 0 {
			return nil, "", ErrQuizEmpty
		}
		return quiz.Questions, quiz.Title, nil
	}
}

func (s *sessionService) parentTitle(ctx context.Context, kind models.AttemptKind, parentID uint) string {
	if kind == models.AttemptKindPracticeSet {
		if set, err := s.repo.PracticeSet().GetByID(ctx, parentID); err == nil {
			return set.Title
		}
		return ""
	}
	if quiz, err := s.repo.Quiz().GetByID(ctx, parentID); err == nil {
		return quiz.Title
	}
	return ""
}

func (s *sessionService) saveSession(ctx context.Context, attemptID uint, sess *session.Session) error {
	if err := s.store.Save(ctx, attemptID, sess.Snapshot()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if err := s.store.SetActive(ctx, sess.Kind(), sess.ParentID(), sess.LearnerID(), attemptID); err != nil {
		return fmt.Errorf("failed to mark session active: %w", err)
	}
	return nil
}

func (s *sessionService) discardSession(ctx context.Context, attempt *models.Attempt) {
	if err := s.store.Delete(ctx, attempt.ID); err != nil {
		s.logger.Warn("Failed to delete session snapshot",
			"attempt_id", attempt.ID, "error", err)
	}
	if err := s.store.ClearActive(ctx, attempt.Kind, attempt.ParentID, attempt.LearnerID); err != nil {
		s.logger.Warn("Failed to clear active session marker",
			"attempt_id", attempt.ID, "error", err)
	}
}

// publish sends lifecycle events best-effort; delivery failures are logged
// and never fail the learner-facing operation.
func (s *sessionService) publish(ctx context.Context, event *events.AttemptEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAttemptEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			"event_type", event.Type, "error", err)
	}
}

// ===== VIEW BUILDING =====

func buildSessionView(attemptID uint, sess *session.Session) *SessionView {
	current := sess.Current()
	selected, _ := sess.Answer(current.ID)

	answered := 0
	for _, v := range sess.Answers() {
		if v != "" {
			answered++
		}
	}

	return &SessionView{
		AttemptID:      attemptID,
		Kind:           sess.Kind(),
		ParentID:       sess.ParentID(),
		Status:         string(sess.Status()),
		CurrentIndex:   sess.Index(),
		TotalQuestions: sess.Len(),
		AnsweredCount:  answered,
		StartedAt:      sess.StartedAt(),
		Question:       toQuestionView(&current),
		SelectedAnswer: selected,
		CanGoBack:      sess.Index() > 0,
		CanAdvance:     selected != "" && !sess.AtLastQuestion(),
		IsLastQuestion: sess.AtLastQuestion(),
	}
}

// toQuestionView strips grading fields from the learner-facing shape.
func toQuestionView(q *models.Question) *QuestionView {
	return &QuestionView{
		ID:         q.ID,
		Type:       q.Type,
		Prompt:     q.Prompt,
		Options:    q.Options,
		Position:   q.Position,
		Unit:       q.Unit,
		Difficulty: q.Difficulty,
	}
}

func mapSessionError(err error) error {
	switch err {
	case session.ErrAnswerRequired:
		return ErrAnswerRequired
	case session.ErrNotLastQuestion:
		return ErrNotOnLastQuestion
	case session.ErrAlreadySubmitted:
		return ErrAttemptAlreadySubmitted
	case session.ErrUnknownQuestion:
		return ErrAnswerNotAllowed
	default:
		return err
	}
}

func payloadToResponses(payload *session.Payload) []grading.Response {
	out := make([]grading.Response, 0, len(payload.Responses))
	for _, entry := range payload.Responses {
		out = append(out, grading.Response{
			QuestionID:       entry.QuestionID,
			UserAnswer:       entry.UserAnswer,
			TimeSpentSeconds: entry.TimeSpentSeconds,
		})
	}
	return out
}

func countAnswered(payload *session.Payload) int {
	n := 0
	for _, entry := range payload.Responses {
		if entry.UserAnswer != "" {
			n++
		}
	}
	return n
}

func countAnsweredResponses(responses []grading.Response) int {
	n := 0
	for _, r := range responses {
		if r.UserAnswer != "" {
			n++
		}
	}
	return n
}
