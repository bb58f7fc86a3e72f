package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/service"
)

// AuthHandler serves registration, login and the token lifecycle endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "invalid request body", "bad_request", h.logger)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Identifier() == "" {
		RespondWithError(c, http.StatusBadRequest, "invalid request body", "bad_request", h.logger)
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, pair)
}

// Refresh handles POST /api/v1/auth/refresh. A rejected refresh token
// yields the same 401 regardless of why it was rejected.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "invalid request body", "bad_request", h.logger)
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, pair)
}

// Logout handles POST /api/v1/auth/logout. The refresh token comes from
// the body; the access token, if the caller sent one, is taken from the
// Authorization header so its jti can be blocklisted as well.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "invalid request body", "bad_request", h.logger)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken, bearerToken(c)); err != nil {
		RespondWithMappedError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "logged out")
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
