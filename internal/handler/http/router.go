package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bugloop/issue-tracker/internal/config"
	"github.com/bugloop/issue-tracker/internal/handler/http/middleware"
	"github.com/bugloop/issue-tracker/internal/infrastructure/ratelimit"
	"github.com/bugloop/issue-tracker/internal/service"
	"github.com/bugloop/issue-tracker/internal/utils/telemetry"
)

// RouterDeps bundles everything SetupRouter wires together.
type RouterDeps struct {
	Auth     *service.AuthService
	Tokens   *service.TokenService
	Users    *service.UserService
	Projects *service.ProjectService
	Issues   *service.IssueService
	Comments *service.CommentService
	Limiter  ratelimit.Limiter
	Pool     *pgxpool.Pool
	Config   *config.Config
	Logger   *zap.Logger
}

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(d.Logger))
	router.Use(middleware.LoggingMiddleware(d.Logger))
	router.Use(middleware.CorsMiddleware(d.Config.Server.CORSAllowedOrigins))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.TracingMiddleware())

	authHandler := NewAuthHandler(d.Auth, d.Logger)
	userHandler := NewUserHandler(d.Users, d.Logger)
	projectHandler := NewProjectHandler(d.Projects, d.Logger)
	issueHandler := NewIssueHandler(d.Issues, d.Logger)
	commentHandler := NewCommentHandler(d.Comments, d.Logger)
	healthHandler := NewHealthHandler(d.Pool)

	router.GET("/metrics", gin.WrapF(telemetry.PrometheusHandler()))
	router.GET("/health", healthHandler.Health)
	router.GET("/readiness", healthHandler.Readiness)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login",
				middleware.RateLimitMiddleware(d.Limiter, "login", d.Config.RateLimit.Login, d.Logger),
				authHandler.Login)
			auth.POST("/refresh",
				middleware.RateLimitMiddleware(d.Limiter, "refresh", d.Config.RateLimit.Refresh, d.Logger),
				authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(d.Tokens, d.Users, d.Logger))
		{
			protected.GET("/me", userHandler.Me)

			projects := protected.Group("/projects")
			{
				projects.POST("", projectHandler.Create)
				projects.GET("", projectHandler.List)
				projects.GET("/:id", projectHandler.Get)
				projects.PATCH("/:id", projectHandler.Update)
				projects.DELETE("/:id", projectHandler.Delete)
			}

			issues := protected.Group("/issues")
			{
				issues.POST("", issueHandler.Create)
				issues.GET("", issueHandler.List)
				issues.GET("/:id", issueHandler.Get)
				issues.PATCH("/:id", issueHandler.Update)
				issues.POST("/:id/status", issueHandler.ChangeStatus)
				issues.DELETE("/:id", issueHandler.Delete)

				issues.POST("/:id/comments", commentHandler.Create)
				issues.GET("/:id/comments", commentHandler.ListByIssue)
			}
		}
	}

	return router
}
