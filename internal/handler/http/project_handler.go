package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/service"
)

// ProjectHandler serves project CRUD endpoints.
type ProjectHandler struct {
	projects *service.ProjectService
	logger   *zap.Logger
}

func NewProjectHandler(projects *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

// Create handles POST /api/v1/projects.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "invalid request body", "bad_request", h.logger)
		return
	}

	project, err := h.projects.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusCreated, project)
}

// Get handles GET /api/v1/projects/:id.
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		RespondWithError(c, http.StatusBadRequest, "invalid project id", "bad_request", h.logger)
		return
	}

	project, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, project)
}

// List handles GET /api/v1/projects with pagination, search and sorting.
func (h *ProjectHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	filter := models.ProjectFilter{
		Search:    c.Query("search"),
		OwnerID:   queryInt64Ptr(c, "owner_id"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Page:      page,
		PerPage:   perPage,
	}

	result, err := h.projects.List(c.Request.Context(), filter)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, result)
}

// Update handles PATCH /api/v1/projects/:id.
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		RespondWithError(c, http.StatusBadRequest, "invalid project id", "bad_request", h.logger)
		return
	}

	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "invalid request body", "bad_request", h.logger)
		return
	}

	project, err := h.projects.Update(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, project)
}

// Delete handles DELETE /api/v1/projects/:id.
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		RespondWithError(c, http.StatusBadRequest, "invalid project id", "bad_request", h.logger)
		return
	}

	if err := h.projects.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithNoContent(c)
}
