package services

import (
	"log/slog"

	"github.com/studyloop/assessment-service/internal/cache"
	"github.com/studyloop/assessment-service/internal/events"
	"github.com/studyloop/assessment-service/internal/grading"
	"github.com/studyloop/assessment-service/internal/repositories"
	"github.com/studyloop/assessment-service/internal/validator"
)

type serviceManager struct {
	session SessionService
	attempt AttemptService
	export  ExportService
	catalog CatalogService
}

// NewServiceManager wires the service layer from its shared dependencies.
func NewServiceManager(
	repo repositories.Repository,
	store cache.SessionStore,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) ServiceManager {
	grader := grading.New()
	return &serviceManager{
		session: NewSessionService(repo, store, grader, publisher, logger, v),
		attempt: NewAttemptService(repo, logger),
		export:  NewExportService(repo, logger),
		catalog: NewCatalogService(repo, logger),
	}
}

func (m *serviceManager) Session() SessionService { return m.session }
func (m *serviceManager) Attempt() AttemptService { return m.attempt }
func (m *serviceManager) Export() ExportService   { return m.export }
func (m *serviceManager) Catalog() CatalogService { return m.catalog }
