package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/studyloop/assessment-service/internal/cache"
	"github.com/studyloop/assessment-service/internal/events"
	"github.com/studyloop/assessment-service/internal/grading"
	"github.com/studyloop/assessment-service/internal/models"
	"github.com/studyloop/assessment-service/internal/repositories"
	"github.com/studyloop/assessment-service/internal/session"
	"github.com/studyloop/assessment-service/internal/validator"
	"gorm.io/gorm"
)

// ===== IN-MEMORY REPOSITORY =====

type fakeRepo struct {
	quizzes   *fakeQuizRepo
	sets      *fakePracticeSetRepo
	attempts  *fakeAttemptRepo
	responses *fakeResponseRepo
	users     *fakeUserRepo
}

func newFakeRepo() *fakeRepo {
	responses := &fakeResponseRepo{items: map[uint][]*models.AttemptResponse{}}
	return &fakeRepo{
		quizzes:   &fakeQuizRepo{items: map[uint]*models.Quiz{}},
		sets:      &fakePracticeSetRepo{items: map[uint]*models.PracticeSet{}},
		attempts:  &fakeAttemptRepo{items: map[uint]*models.Attempt{}, responses: responses},
		responses: responses,
		users:     &fakeUserRepo{items: map[string]*models.User{}},
	}
}

func (r *fakeRepo) Quiz() repositories.QuizRepository               { return r.quizzes }
func (r *fakeRepo) PracticeSet() repositories.PracticeSetRepository { return r.sets }
func (r *fakeRepo) Attempt() repositories.AttemptRepository         { return r.attempts }
func (r *fakeRepo) Response() repositories.ResponseRepository       { return r.responses }
func (r *fakeRepo) User() repositories.UserRepository               { return r.users }

// WithTx mimics transactional semantics: on error, attempt and response
// state is restored to its pre-transaction snapshot.
func (r *fakeRepo) WithTx(ctx context.Context, fn func(repositories.Repository) error) error {
	attemptsBefore := cloneAttempts(r.attempts.items)
	responsesBefore := cloneResponses(r.responses.items)

	if err := fn(r); err != nil {
		r.attempts.items = attemptsBefore
		r.responses.items = responsesBefore
		return err
	}
	return nil
}

func cloneAttempts(items map[uint]*models.Attempt) map[uint]*models.Attempt {
	out := make(map[uint]*models.Attempt, len(items))
	for k, v := range items {
		copied := *v
		out[k] = &copied
	}
	return out
}

func cloneResponses(items map[uint][]*models.AttemptResponse) map[uint][]*models.AttemptResponse {
	out := make(map[uint][]*models.AttemptResponse, len(items))
	for k, rows := range items {
		copies := make([]*models.AttemptResponse, 0, len(rows))
		for _, r := range rows {
			copied := *r
			copies = append(copies, &copied)
		}
		out[k] = copies
	}
	return out
}

type fakeQuizRepo struct {
	items map[uint]*models.Quiz
}

func (f *fakeQuizRepo) Create(ctx context.Context, quiz *models.Quiz) error {
	f.items[quiz.ID] = quiz
	return nil
}

func (f *fakeQuizRepo) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	q, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

func (f *fakeQuizRepo) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeQuizRepo) Update(ctx context.Context, quiz *models.Quiz) error {
	f.items[quiz.ID] = quiz
	return nil
}

func (f *fakeQuizRepo) Delete(ctx context.Context, id uint) error {
	delete(f.items, id)
	return nil
}

func (f *fakeQuizRepo) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	out := make([]*models.Quiz, 0, len(f.items))
	for _, q := range f.items {
		out = append(out, q)
	}
	return out, int64(len(out)), nil
}

type fakePracticeSetRepo struct {
	items map[uint]*models.PracticeSet
}

func (f *fakePracticeSetRepo) Create(ctx context.Context, set *models.PracticeSet) error {
	f.items[set.ID] = set
	return nil
}

func (f *fakePracticeSetRepo) GetByID(ctx context.Context, id uint) (*models.PracticeSet, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakePracticeSetRepo) GetByIDWithQuestions(ctx context.Context, id uint) (*models.PracticeSet, error) {
	return f.GetByID(ctx, id)
}

func (f *fakePracticeSetRepo) Update(ctx context.Context, set *models.PracticeSet) error {
	f.items[set.ID] = set
	return nil
}

func (f *fakePracticeSetRepo) Delete(ctx context.Context, id uint) error {
	delete(f.items, id)
	return nil
}

func (f *fakePracticeSetRepo) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.PracticeSet, int64, error) {
	out := make([]*models.PracticeSet, 0, len(f.items))
	for _, s := range f.items {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

type fakeAttemptRepo struct {
	items     map[uint]*models.Attempt
	nextID    uint
	responses *fakeResponseRepo

	failUpdate error
}

func (f *fakeAttemptRepo) Create(ctx context.Context, attempt *models.Attempt) error {
	f.nextID++
	attempt.ID = f.nextID
	attempt.CreatedAt = time.Now()
	f.items[attempt.ID] = attempt
	return nil
}

func (f *fakeAttemptRepo) GetByID(ctx context.Context, id uint) (*models.Attempt, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *a
	return &copied, nil
}

// GetByIDWithResponses mirrors the real repository's preload: responses
// are attached to the attempt, ordered by position.
func (f *fakeAttemptRepo) GetByIDWithResponses(ctx context.Context, id uint) (*models.Attempt, error) {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := f.responses.GetByAttempt(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Responses = make([]models.AttemptResponse, 0, len(rows))
	for _, r := range rows {
		a.Responses = append(a.Responses, *r)
	}
	return a, nil
}

func (f *fakeAttemptRepo) Update(ctx context.Context, attempt *models.Attempt) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	copied := *attempt
	f.items[attempt.ID] = &copied
	return nil
}

func (f *fakeAttemptRepo) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.Attempt, int64, error) {
	out := make([]*models.Attempt, 0, len(f.items))
	for _, a := range f.items {
		if filters.Kind != "" && a.Kind != filters.Kind {
			continue
		}
		if filters.ParentID != nil && a.ParentID != *filters.ParentID {
			continue
		}
		if filters.LearnerID != nil && a.LearnerID != *filters.LearnerID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeAttemptRepo) GetByParent(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) ([]*models.Attempt, error) {
	var out []*models.Attempt
	for _, a := range f.items {
		if a.Kind == kind && a.ParentID == parentID && a.LearnerID == learnerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttemptNumber < out[j].AttemptNumber })
	return out, nil
}

func (f *fakeAttemptRepo) GetActiveAttempt(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) (*models.Attempt, error) {
	for _, a := range f.items {
		if a.Kind == kind && a.ParentID == parentID && a.LearnerID == learnerID && a.Status == models.AttemptInProgress {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAttemptRepo) GetNextAttemptNumber(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) (int, error) {
	max := 0
	for _, a := range f.items {
		if a.Kind == kind && a.ParentID == parentID && a.LearnerID == learnerID && a.AttemptNumber > max {
			max = a.AttemptNumber
		}
	}
	return max + 1, nil
}

func (f *fakeAttemptRepo) UpdateStatus(ctx context.Context, id uint, status models.AttemptStatus) error {
	a, ok := f.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeAttemptRepo) GetStats(ctx context.Context, kind models.AttemptKind, parentID uint) (*repositories.AttemptStats, error) {
	stats := &repositories.AttemptStats{}
	for _, a := range f.items {
		if a.Kind != kind || a.ParentID != parentID {
			continue
		}
		stats.TotalAttempts++
		if a.Status == models.AttemptGraded {
			stats.CompletedAttempts++
			stats.AverageScore += a.OverallScore
			if a.OverallScore > stats.BestScore {
				stats.BestScore = a.OverallScore
			}
		}
	}
	if stats.CompletedAttempts > 0 {
		stats.AverageScore /= float64(stats.CompletedAttempts)
	}
	return stats, nil
}

type fakeResponseRepo struct {
	items  map[uint][]*models.AttemptResponse
	nextID uint

	failCreateBatch error
	failUpdateBatch error
}

func (f *fakeResponseRepo) CreateBatch(ctx context.Context, responses []*models.AttemptResponse) error {
	if f.failCreateBatch != nil {
		return f.failCreateBatch
	}
	for _, r := range responses {
		f.nextID++
		r.ID = f.nextID
		copied := *r
		f.items[r.AttemptID] = append(f.items[r.AttemptID], &copied)
	}
	return nil
}

func (f *fakeResponseRepo) GetByAttempt(ctx context.Context, attemptID uint) ([]*models.AttemptResponse, error) {
	stored := f.items[attemptID]
	out := make([]*models.AttemptResponse, 0, len(stored))
	for _, r := range stored {
		copied := *r
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeResponseRepo) UpdateBatch(ctx context.Context, responses []*models.AttemptResponse) error {
	if f.failUpdateBatch != nil {
		return f.failUpdateBatch
	}
	for _, r := range responses {
		for i, stored := range f.items[r.AttemptID] {
			if stored.ID == r.ID {
				copied := *r
				f.items[r.AttemptID][i] = &copied
			}
		}
	}
	return nil
}

func (f *fakeResponseRepo) DeleteByAttempt(ctx context.Context, attemptID uint) error {
	delete(f.items, attemptID)
	return nil
}

type fakeUserRepo struct {
	items map[string]*models.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *models.User) error {
	f.items[user.ID] = user
	return nil
}

// ===== IN-MEMORY SESSION STORE =====

type fakeSessionStore struct {
	snaps  map[uint]*session.Snapshot
	active map[string]uint
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		snaps:  map[uint]*session.Snapshot{},
		active: map[string]uint{},
	}
}

func activeStoreKey(kind models.AttemptKind, parentID uint, learnerID string) string {
	return fmt.Sprintf("%s:%d:%s", kind, parentID, learnerID)
}

func (f *fakeSessionStore) Save(ctx context.Context, attemptID uint, snap *session.Snapshot) error {
	f.snaps[attemptID] = snap
	return nil
}

func (f *fakeSessionStore) Load(ctx context.Context, attemptID uint) (*session.Snapshot, error) {
	snap, ok := f.snaps[attemptID]
	if !ok {
		return nil, cache.ErrSessionNotFound
	}
	return snap, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, attemptID uint) error {
	delete(f.snaps, attemptID)
	return nil
}

func (f *fakeSessionStore) SetActive(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string, attemptID uint) error {
	f.active[activeStoreKey(kind, parentID, learnerID)] = attemptID
	return nil
}

func (f *fakeSessionStore) GetActive(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) (uint, error) {
	id, ok := f.active[activeStoreKey(kind, parentID, learnerID)]
	if !ok {
		return 0, cache.ErrSessionNotFound
	}
	return id, nil
}

func (f *fakeSessionStore) ClearActive(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) error {
	delete(f.active, activeStoreKey(kind, parentID, learnerID))
	return nil
}

// ===== TEST ENVIRONMENT =====

type testEnv struct {
	repo      *fakeRepo
	store     *fakeSessionStore
	publisher *events.MockEventPublisher
	session   SessionService
	attempt   AttemptService
	export    ExportService
	catalog   CatalogService
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newFakeRepo()
	store := newFakeSessionStore()
	publisher := events.NewMockEventPublisher(logger)
	v := validator.New()

	return &testEnv{
		repo:      repo,
		store:     store,
		publisher: publisher,
		session:   NewSessionService(repo, store, grading.New(), publisher, logger, v),
		attempt:   NewAttemptService(repo, logger),
		export:    NewExportService(repo, logger),
		catalog:   NewCatalogService(repo, logger),
	}
}

func intPtr(i int) *int { return &i }

// seedQuiz installs a three-question quiz: one multiple choice, one
// true/false, one short answer.
func (e *testEnv) seedQuiz(id uint) *models.Quiz {
	quiz := &models.Quiz{
		ID:      id,
		Title:   "Geography Basics",
		Subject: "Geography",
		Status:  models.QuizStatusReady,
		Questions: []models.Question{
			{
				ID:           "q-1",
				Type:         models.MultipleChoice,
				Prompt:       "What is the capital of France?",
				Options:      []string{"London", "Paris", "Berlin"},
				Position:     0,
				CorrectIndex: intPtr(1),
			},
			{
				ID:           "q-2",
				Type:         models.TrueFalse,
				Prompt:       "The Nile is in South America.",
				Options:      models.TrueFalseOptions,
				Position:     1,
				CorrectIndex: intPtr(1),
			},
			{
				ID:          "q-3",
				Type:        models.ShortAnswer,
				Prompt:      "Which ocean borders Portugal?",
				Position:    2,
				CorrectText: "Atlantic",
			},
		},
	}
	e.repo.quizzes.items[id] = quiz
	return quiz
}
