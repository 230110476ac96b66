package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyloop/assessment-service/internal/models"
	"github.com/studyloop/assessment-service/internal/repositories"
	"github.com/studyloop/assessment-service/internal/services"
	"github.com/studyloop/assessment-service/internal/utils"
)

// AttemptHandler serves attempt history and review detail.
type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
	exportService  services.ExportService
}

func NewAttemptHandler(attemptService services.AttemptService, exportService services.ExportService, logger utils.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
		exportService:  exportService,
	}
}

// ListAttempts lists the authenticated learner's attempts
// @Router /attempts [get]
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	filters := repositories.AttemptFilters{
		LearnerID: &userID,
		Kind:      models.AttemptKind(c.Query("kind")),
		Status:    models.AttemptStatus(c.Query("status")),
		Limit:     h.parseIntQuery(c, "limit", 20),
		Offset:    h.parseIntQuery(c, "offset", 0),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if parentID := uint(h.parseIntQuery(c, "parent_id", 0)); parentID != 0 {
		filters.ParentID = &parentID
	}

	list, err := h.attemptService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetAttempt returns one attempt with its per-question review detail
// @Router /attempts/{id} [get]
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	attemptID := h.parseIDParam(c, "id")
	if attemptID == 0 {
		return
	}
	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	detail, err := h.attemptService.GetByID(c.Request.Context(), attemptID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetAttemptsByParent lists the learner's attempts for one quiz or set
// @Router /practice-sets/{id}/attempts [get]
func (h *AttemptHandler) GetAttemptsByParent(kind models.AttemptKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		parentID := h.parseIDParam(c, "id")
		if parentID == 0 {
			return
		}
		userID := h.requireUserID(c)
		if userID == "" {
			return
		}

		summaries, err := h.attemptService.GetByParent(c.Request.Context(), kind, parentID, userID)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, summaries)
	}
}

// GetAttemptStats returns aggregate stats for a quiz or practice set
// @Router /practice-sets/{id}/stats [get]
func (h *AttemptHandler) GetAttemptStats(kind models.AttemptKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		parentID := h.parseIDParam(c, "id")
		if parentID == 0 {
			return
		}

		stats, err := h.attemptService.GetStats(c.Request.Context(), kind, parentID)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

// ExportAttempts streams an XLSX or CSV export of attempts for a parent
// @Router /practice-sets/{id}/export [get]
func (h *AttemptHandler) ExportAttempts(kind models.AttemptKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		parentID := h.parseIDParam(c, "id")
		if parentID == 0 {
			return
		}
		userID := h.requireUserID(c)
		if userID == "" {
			return
		}

		format := services.ExportFormat(c.DefaultQuery("format", string(services.ExportFormatXLSX)))

		h.LogRequest(c, "Exporting attempts",
			"kind", kind, "parent_id", parentID, "format", format)

		result, err := h.exportService.ExportAttempts(c.Request.Context(), kind, parentID, format)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}

		c.Header("Content-Disposition", "attachment; filename="+result.FileName)
		c.Data(http.StatusOK, result.ContentType, result.Data)
	}
}
