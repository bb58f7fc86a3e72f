package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/handler/http/middleware"
	"github.com/bugloop/issue-tracker/internal/service"
)

// actorFrom reads the identity the auth middleware stored on the context.
func actorFrom(c *gin.Context) service.Actor {
	role, _ := c.Value(middleware.ContextRoleKey).(models.Role)
	return service.Actor{
		UserID: c.GetInt64(middleware.ContextUserIDKey),
		Role:   role,
	}
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter with a default.
func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// queryInt64Ptr parses an optional int64 query parameter.
func queryInt64Ptr(c *gin.Context, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

const (
	defaultPage    = 1
	defaultPerPage = 20
	maxPerPage     = 100
)

func pagination(c *gin.Context) (page, perPage int) {
	page = queryInt(c, "page", defaultPage)
	if page < 1 {
		page = defaultPage
	}
	perPage = queryInt(c, "per_page", defaultPerPage)
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}
	return page, perPage
}
