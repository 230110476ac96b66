package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/studyloop/assessment-service/internal/models"
	"github.com/studyloop/assessment-service/internal/services"
	"github.com/studyloop/assessment-service/internal/utils"
)

type HandlerManager struct {
	quizHandler    *QuizHandler
	sessionHandler *SessionHandler
	attemptHandler *AttemptHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:    NewQuizHandler(serviceManager.Catalog(), serviceManager.Session(), logger),
		sessionHandler: NewSessionHandler(serviceManager.Session(), logger),
		attemptHandler: NewAttemptHandler(serviceManager.Attempt(), serviceManager.Export(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "assessment-service",
		})
	})

	v1 := router.Group("/api/v1")
	if authMiddleware != nil {
		v1.Use(authMiddleware)
	}
	{
		// Quiz content and whole-payload submission
		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.POST("/submit", hm.quizHandler.SubmitQuiz)
			quizzes.GET("/:id/attempts", hm.attemptHandler.GetAttemptsByParent(models.AttemptKindQuiz))
			quizzes.GET("/:id/stats", hm.attemptHandler.GetAttemptStats(models.AttemptKindQuiz))
			quizzes.GET("/:id/export", hm.attemptHandler.ExportAttempts(models.AttemptKindQuiz))
		}

		// Practice set content and whole-payload submission
		practiceSets := v1.Group("/practice-sets")
		{
			practiceSets.GET("/:id", hm.quizHandler.GetPracticeSet)
			practiceSets.POST("/:id/submit", hm.quizHandler.SubmitPracticeSet)
			practiceSets.GET("/:id/attempts", hm.attemptHandler.GetAttemptsByParent(models.AttemptKindPracticeSet))
			practiceSets.GET("/:id/stats", hm.attemptHandler.GetAttemptStats(models.AttemptKindPracticeSet))
			practiceSets.GET("/:id/export", hm.attemptHandler.ExportAttempts(models.AttemptKindPracticeSet))
		}

		// Server-driven live sessions
		sessions := v1.Group("/sessions")
		{
			sessions.POST("/start", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/answer", hm.sessionHandler.SelectAnswer)
			sessions.POST("/:id/next", hm.sessionHandler.NextQuestion)
			sessions.POST("/:id/previous", hm.sessionHandler.PreviousQuestion)
			sessions.POST("/:id/submit", hm.sessionHandler.SubmitSession)
			sessions.POST("/:id/retry", hm.sessionHandler.RetryGrading)
			sessions.DELETE("/:id", hm.sessionHandler.AbandonSession)
		}

		// Attempt history and review
		attempts := v1.Group("/attempts")
		{
			attempts.GET("", hm.attemptHandler.ListAttempts)
			attempts.GET("/:id", hm.attemptHandler.GetAttempt)
		}
	}
}
