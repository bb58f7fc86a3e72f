// Package app wires configuration, infrastructure, services and transport
// into a runnable server.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bugloop/issue-tracker/internal/config"
	"github.com/bugloop/issue-tracker/internal/events/kafka"
	httpHandler "github.com/bugloop/issue-tracker/internal/handler/http"
	"github.com/bugloop/issue-tracker/internal/infrastructure/database"
	"github.com/bugloop/issue-tracker/internal/infrastructure/ratelimit"
	"github.com/bugloop/issue-tracker/internal/infrastructure/security"
	"github.com/bugloop/issue-tracker/internal/service"
	"github.com/bugloop/issue-tracker/internal/utils/telemetry"
)

// App owns the process-lifetime resources of the tracker service.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	server         *http.Server
	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *kafka.Producer
	tracerShutdown func(context.Context) error
}

// New builds the full dependency graph. Signing key resolution is fatal:
// without a usable RSA keypair the service must not come up.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	keys, err := security.LoadSigningKeys(cfg.JWT, logger)
	if err != nil {
		return nil, fmt.Errorf("load signing keys: %w", err)
	}

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.MigrateUp(cfg.Database, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	var redisClient *redis.Client
	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable at startup, rate limiting degraded", zap.Error(err))
		}
		limiter = ratelimit.NewRedisLimiter(redisClient, logger)
	}

	var tracerShutdown func(context.Context) error
	if cfg.Telemetry.Enabled {
		tracerShutdown, err = telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint, logger)
		if err != nil {
			logger.Warn("tracer init failed, continuing without trace export", zap.Error(err))
			tracerShutdown = nil
		}
	}

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer, err = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Warn("kafka producer unavailable, security events disabled", zap.Error(err))
			producer = nil
		}
	}

	hasher, err := security.NewPasswordHasher(cfg.Security.PasswordHash)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("configure password hasher: %w", err)
	}
	jwtService := security.NewJWTService(keys, cfg.JWT)

	userRepo := database.NewUserRepository(pool)
	refreshRepo := database.NewRefreshTokenRepository(pool)
	blocklistRepo := database.NewBlocklistRepository(pool)
	projectRepo := database.NewProjectRepository(pool)
	issueRepo := database.NewIssueRepository(pool)
	commentRepo := database.NewCommentRepository(pool)

	tokenService := service.NewTokenService(jwtService, refreshRepo, blocklistRepo, producer, logger)
	authService := service.NewAuthService(userRepo, tokenService, hasher, producer, logger)
	userService := service.NewUserService(userRepo)
	projectService := service.NewProjectService(projectRepo)
	issueService := service.NewIssueService(issueRepo, commentRepo, logger)
	commentService := service.NewCommentService(commentRepo, issueRepo)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Auth:     authService,
		Tokens:   tokenService,
		Users:    userService,
		Projects: projectService,
		Issues:   issueService,
		Comments: commentService,
		Limiter:  limiter,
		Pool:     pool,
		Config:   cfg,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		server:         server,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down within
// the configured grace period.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.close()
	return err
}

func (a *App) close() {
	if a.tracerShutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		if err := a.tracerShutdown(shutdownCtx); err != nil {
			a.logger.Warn("tracer shutdown failed", zap.Error(err))
		}
		cancel()
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka producer close failed", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("redis close failed", zap.Error(err))
		}
	}
	a.pool.Close()
}
