package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyloop/assessment-service/internal/models"
	"github.com/studyloop/assessment-service/internal/services"
	"github.com/studyloop/assessment-service/internal/utils"
)

// QuizHandler serves quiz and practice-set content and accepts whole-payload
// submissions from clients that assembled the session themselves.
type QuizHandler struct {
	BaseHandler
	catalogService services.CatalogService
	sessionService services.SessionService
}

func NewQuizHandler(catalogService services.CatalogService, sessionService services.SessionService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
		sessionService: sessionService,
	}
}

// GetQuiz returns a quiz with its questions, answer key stripped
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	quiz, err := h.catalogService.GetQuiz(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// SubmitQuiz grades a complete quiz response payload
// @Router /quizzes/submit [post]
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	h.submitPayload(c, models.AttemptKindQuiz, 0)
}

// GetPracticeSet returns a practice set with its questions
// @Router /practice-sets/{id} [get]
func (h *QuizHandler) GetPracticeSet(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	set, err := h.catalogService.GetPracticeSet(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, set)
}

// SubmitPracticeSet grades a complete practice-set response payload
// @Router /practice-sets/{id}/submit [post]
func (h *QuizHandler) SubmitPracticeSet(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.submitPayload(c, models.AttemptKindPracticeSet, id)
}

func (h *QuizHandler) submitPayload(c *gin.Context, kind models.AttemptKind, parentID uint) {
	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	var req services.SubmitPayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.Kind = kind
	if parentID != 0 {
		req.ParentID = parentID
	}

	h.LogRequest(c, "Submitting payload",
		"kind", req.Kind,
		"parent_id", req.ParentID,
		"responses", len(req.Responses))

	result, err := h.sessionService.SubmitPayload(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
