package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/bugloop/issue-tracker/internal/domain/errors"
	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/domain/repository"
	"github.com/bugloop/issue-tracker/internal/events/kafka"
	"github.com/bugloop/issue-tracker/internal/infrastructure/security"
	"github.com/bugloop/issue-tracker/internal/utils/metrics"
)

// AuthService implements the boundary operations of the token subsystem:
// Authenticate, Refresh, Logout and user registration. Authorize lives on
// TokenService and is consumed by the auth middleware.
type AuthService struct {
	users  repository.UserRepository
	tokens *TokenService
	hasher *security.PasswordHasher
	events *kafka.Producer
	logger *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *TokenService,
	hasher *security.PasswordHasher,
	events *kafka.Producer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		events: events,
		logger: logger,
	}
}

// Register creates a user account with an Argon2id password hash.
func (s *AuthService) Register(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user, err := s.users.Create(ctx, &models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hash,
		Role:           models.RoleDeveloper,
		IsActive:       true,
	})
	if err != nil {
		return nil, err
	}
	s.events.Publish(kafka.EventUserRegistered, user.ID, map[string]any{"username": user.Username})
	return user, nil
}

// Login verifies credentials and mints a token pair. All credential
// failures collapse into ErrInvalidCredentials so responses do not reveal
// whether the account exists.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	user, err := s.users.FindByIdentifier(ctx, req.Identifier())
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, domainErrors.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(req.Password, user.HashedPassword)
	if err != nil || !ok {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, domainErrors.ErrInvalidCredentials
	}

	pair, err := s.mintPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.events.Publish(kafka.EventUserLoggedIn, user.ID, nil)
	return pair, nil
}

// Refresh rotates the presented refresh token and mints a fresh access
// token. Cryptographic verification happens first; the ledger decision,
// including reuse detection, is entirely inside TokenService.Rotate.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	userID, claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	rotated, err := s.tokens.Rotate(ctx, claims.ID, userID)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		return nil, err
	}
	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()

	access, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}

	return s.pair(access, rotated), nil
}

// Logout revokes the refresh record and, when a still-valid access token
// accompanies the call, blocklists its jti for the remainder of its life.
// An unusable access token is ignored: logout must succeed regardless.
func (s *AuthService) Logout(ctx context.Context, refreshToken string, accessToken string) error {
	userID, claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return err
	}
	if err := s.tokens.Revoke(ctx, claims.ID); err != nil {
		return err
	}

	if accessToken != "" {
		if _, accessClaims, verifyErr := s.tokens.Authorize(ctx, accessToken); verifyErr == nil {
			if blockErr := s.tokens.Blocklist(ctx, accessClaims.ID, accessClaims.ExpiresAt.Time); blockErr != nil {
				return blockErr
			}
		}
	}

	s.events.Publish(kafka.EventUserLoggedOut, userID, nil)
	return nil
}

func (s *AuthService) mintPair(ctx context.Context, userID int64) (*models.TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.pair(access, refresh), nil
}

func (s *AuthService) pair(access, refresh *IssuedToken) *models.TokenPair {
	now := time.Now()
	return &models.TokenPair{
		AccessToken:      access.Token,
		RefreshToken:     refresh.Token,
		TokenTypeBearer:  "bearer",
		AccessExpiresIn:  int64(access.ExpiresAt.Sub(now).Round(time.Second).Seconds()),
		RefreshExpiresIn: int64(refresh.ExpiresAt.Sub(now).Round(time.Second).Seconds()),
	}
}
