package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bugloop/issue-tracker/internal/handler/http/middleware"
	"github.com/bugloop/issue-tracker/internal/service"
)

// UserHandler serves the authenticated profile endpoint.
type UserHandler struct {
	users  *service.UserService
	logger *zap.Logger
}

func NewUserHandler(users *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// Me handles GET /api/v1/me.
func (h *UserHandler) Me(c *gin.Context) {
	userID := c.GetInt64(middleware.ContextUserIDKey)
	user, err := h.users.Me(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, user)
}
