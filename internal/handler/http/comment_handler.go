package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/service"
)

// CommentHandler serves comment endpoints nested under issues.
type CommentHandler struct {
	comments *service.CommentService
	logger   *zap.Logger
}

func NewCommentHandler(comments *service.CommentService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

// Create handles POST /api/v1/issues/:id/comments.
func (h *CommentHandler) Create(c *gin.Context) {
	issueID, ok := pathID(c, "id")
	if !ok {
		RespondWithError(c, http.StatusBadRequest, "invalid issue id", "bad_request", h.logger)
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "invalid request body", "bad_request", h.logger)
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), actorFrom(c), issueID, req)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusCreated, comment)
}

// ListByIssue handles GET /api/v1/issues/:id/comments.
func (h *CommentHandler) ListByIssue(c *gin.Context) {
	issueID, ok := pathID(c, "id")
	if !ok {
		RespondWithError(c, http.StatusBadRequest, "invalid issue id", "bad_request", h.logger)
		return
	}

	comments, err := h.comments.ListByIssue(c.Request.Context(), issueID)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, comments)
}
