package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bugloop/issue-tracker/internal/service"
)

const (
	authHeaderKey  = "Authorization"
	authTypeBearer = "bearer"

	// Gin context keys set on successful authentication.
	ContextUserIDKey = "userID"
	ContextRoleKey   = "userRole"
	ContextClaimsKey = "claims"
)

// authFailedBody is shared by every rejection path so the response does
// not reveal whether the header, the signature, the expiry or the
// blocklist failed.
var authFailedBody = gin.H{"error": "authentication failed"}

// AuthMiddleware verifies the bearer access token and loads the caller's
// role. Downstream handlers read the identity from the gin context.
func AuthMiddleware(tokens *service.TokenService, users *service.UserService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authHeaderKey)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, authFailedBody)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], authTypeBearer) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, authFailedBody)
			return
		}

		userID, claims, err := tokens.Authorize(c.Request.Context(), parts[1])
		if err != nil {
			logger.Warn("access token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, authFailedBody)
			return
		}

		user, err := users.Me(c.Request.Context(), userID)
		if err != nil {
			logger.Warn("token subject not resolvable", zap.Int64("user_id", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, authFailedBody)
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRoleKey, user.Role)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}
