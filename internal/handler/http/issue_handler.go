package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/service"
)

// IssueHandler serves issue CRUD and the status-transition endpoint.
type IssueHandler struct {
	issues *service.IssueService
	logger *zap.Logger
}

func NewIssueHandler(issues *service.IssueService, logger *zap.Logger) *IssueHandler {
	return &IssueHandler{issues: issues, logger: logger}
}

// Create handles POST /api/v1/issues.
func (h *IssueHandler) Create(c *gin.Context) {
	var req models.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "invalid request body", "bad_request", h.logger)
		return
	}

	issue, err := h.issues.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusCreated, issue)
}

// Get handles GET /api/v1/issues/:id.
func (h *IssueHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		RespondWithError(c, http.StatusBadRequest, "invalid issue id", "bad_request", h.logger)
		return
	}

	issue, err := h.issues.Get(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, issue)
}

// List handles GET /api/v1/issues with filtering, search and sorting.
func (h *IssueHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	filter := models.IssueFilter{
		Search:     c.Query("search"),
		ProjectID:  queryInt64Ptr(c, "project_id"),
		AssigneeID: queryInt64Ptr(c, "assignee_id"),
		ReporterID: queryInt64Ptr(c, "reporter_id"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
		Page:       page,
		PerPage:    perPage,
	}
	if raw := c.Query("status"); raw != "" {
		status := models.IssueStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.IssuePriority(raw)
		filter.Priority = &priority
	}

	result, err := h.issues.List(c.Request.Context(), filter)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, result)
}

// Update handles PATCH /api/v1/issues/:id. Status is not updatable here;
// transitions go through ChangeStatus.
func (h *IssueHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		RespondWithError(c, http.StatusBadRequest, "invalid issue id", "bad_request", h.logger)
		return
	}

	var req models.UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "invalid request body", "bad_request", h.logger)
		return
	}

	issue, err := h.issues.Update(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, issue)
}

// ChangeStatus handles POST /api/v1/issues/:id/status.
func (h *IssueHandler) ChangeStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		RespondWithError(c, http.StatusBadRequest, "invalid issue id", "bad_request", h.logger)
		return
	}

	var req models.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "invalid request body", "bad_request", h.logger)
		return
	}

	issue, err := h.issues.ChangeStatus(c.Request.Context(), actorFrom(c), id, req.Status)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, issue)
}

// Delete handles DELETE /api/v1/issues/:id.
func (h *IssueHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		RespondWithError(c, http.StatusBadRequest, "invalid issue id", "bad_request", h.logger)
		return
	}

	if err := h.issues.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithNoContent(c)
}
