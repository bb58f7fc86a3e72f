// Package service contains the business logic of the tracker: the token
// lifecycle, authentication, and the issue/project/comment workflows.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/bugloop/issue-tracker/internal/domain/errors"
	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/domain/repository"
	"github.com/bugloop/issue-tracker/internal/events/kafka"
	"github.com/bugloop/issue-tracker/internal/infrastructure/security"
	"github.com/bugloop/issue-tracker/internal/utils/metrics"
)

// TokenService owns the refresh-token rotation protocol and the access-token
// revocation guard. All writes to the two ledgers go through here; handlers
// and middleware only ever see its methods.
type TokenService struct {
	jwt         *security.JWTService
	refreshRepo repository.RefreshTokenRepository
	blocklist   repository.BlocklistRepository
	events      *kafka.Producer
	logger      *zap.Logger
}

func NewTokenService(
	jwt *security.JWTService,
	refreshRepo repository.RefreshTokenRepository,
	blocklist repository.BlocklistRepository,
	events *kafka.Producer,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		jwt:         jwt,
		refreshRepo: refreshRepo,
		blocklist:   blocklist,
		events:      events,
		logger:      logger,
	}
}

// IssuedToken bundles a signed token with its ledger identity.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
	JTI       string
}

// IssueAccessToken mints a short-lived access token. Access tokens are
// stateless: nothing is persisted, validity derives from the signature,
// the expiry and absence from the blocklist.
func (s *TokenService) IssueAccessToken(userID int64) (*IssuedToken, error) {
	token, expiresAt, jti, err := s.jwt.IssueToken(userID, models.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: token, ExpiresAt: expiresAt, JTI: jti}, nil
}

// IssueRefreshToken mints a refresh token and stores its ledger record.
// The token is only returned once the record is durably inserted, so a
// refresh token the caller holds always has a ledger row behind it.
func (s *TokenService) IssueRefreshToken(ctx context.Context, userID int64) (*IssuedToken, error) {
	token, expiresAt, jti, err := s.jwt.IssueToken(userID, models.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	record := &models.RefreshTokenRecord{
		JTI:       jti,
		UserID:    userID,
		Revoked:   false,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := s.refreshRepo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token record: %w", err)
	}
	return &IssuedToken{Token: token, ExpiresAt: expiresAt, JTI: jti}, nil
}

// Rotate consumes a refresh token and issues its successor. It is the single
// entry point for refresh-token validation: existence, revocation, reuse
// and expiry are all decided here, in this order, so the reuse branch can
// never be bypassed by an earlier "is it active" filter:
//
//  1. unknown jti                → ErrInvalidToken
//  2. already revoked            → cascade-revoke the user's active tokens,
//                                  ErrReuseDetected (revocation completes
//                                  before the error is returned)
//  3. active                     → conditional revoke with the successor's
//                                  jti; losing the race → ErrConflict
//  4. not revoked but expired    → ErrInvalidToken (staleness, not replay)
func (s *TokenService) Rotate(ctx context.Context, oldJTI string, userID int64) (*IssuedToken, error) {
	record, err := s.refreshRepo.FindByJTI(ctx, oldJTI)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	// The jti comes out of signed claims together with the subject, so a
	// mismatch means the caller is presenting someone else's token. Bail
	// out before the reuse branch so the cascade can never be pointed at
	// the wrong user.
	if record.UserID != userID {
		return nil, domainErrors.ErrInvalidToken
	}

	// Revocation is checked before expiry on purpose: a revoked token that
	// has not yet expired is the clearest replay signal there is.
	if record.Revoked {
		metrics.TokenReuseDetectedTotal.Inc()
		revoked, cascadeErr := s.refreshRepo.RevokeAllActiveForUser(ctx, userID)
		if cascadeErr != nil {
			// The cascade is the security action; if it cannot be
			// confirmed, surface the storage failure instead of a clean
			// ReuseDetected so callers know the revocation may be partial.
			return nil, fmt.Errorf("failed to cascade-revoke refresh tokens: %w", cascadeErr)
		}
		s.logger.Warn("refresh token reuse detected, revoked all active refresh tokens",
			zap.String("jti", oldJTI),
			zap.Int64("user_id", userID),
			zap.Int64("tokens_revoked", revoked),
		)
		s.events.Publish(kafka.EventTokenReuseDetected, userID, map[string]any{
			"jti":            oldJTI,
			"tokens_revoked": revoked,
		})
		return nil, domainErrors.ErrReuseDetected
	}

	if record.IsExpired(time.Now()) {
		return nil, domainErrors.ErrInvalidToken
	}

	// Pre-generate the successor's jti so the old record can point at it
	// within the same conditional update that consumes the old record.
	newJTI := uuid.NewString()
	won, err := s.refreshRepo.MarkRevoked(ctx, oldJTI, &newJTI)
	if err != nil {
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	if !won {
		// A concurrent rotation revoked it first. Exactly one caller mints
		// a successor from any given parent; this one is not it.
		return nil, domainErrors.ErrConflict
	}

	token, expiresAt, err := s.issueRefreshWithJTI(ctx, userID, newJTI)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: token, ExpiresAt: expiresAt, JTI: newJTI}, nil
}

// issueRefreshWithJTI mints a refresh token whose jti was fixed in advance
// by the rotation step, and persists its ledger record.
func (s *TokenService) issueRefreshWithJTI(ctx context.Context, userID int64, jti string) (string, time.Time, error) {
	token, expiresAt, err := s.jwt.IssueTokenWithJTI(userID, models.TokenTypeRefresh, jti)
	if err != nil {
		return "", time.Time{}, err
	}
	record := &models.RefreshTokenRecord{
		JTI:       jti,
		UserID:    userID,
		Revoked:   false,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := s.refreshRepo.Insert(ctx, record); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to persist rotated refresh token: %w", err)
	}
	return token, expiresAt, nil
}

// Revoke marks a refresh record revoked without a successor (logout path).
// Revoking an already-revoked or unknown token is not an error here: logout
// is idempotent from the client's point of view.
func (s *TokenService) Revoke(ctx context.Context, jti string) error {
	if _, err := s.refreshRepo.MarkRevoked(ctx, jti, nil); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Blocklist invalidates an access token before its natural expiry.
// Idempotent: blocklisting the same jti twice is a no-op.
func (s *TokenService) Blocklist(ctx context.Context, jti string, expiresAt time.Time) error {
	return s.blocklist.Insert(ctx, jti, expiresAt)
}

// Authorize is the gate every protected request passes through: it verifies
// the access token cryptographically, then checks the blocklist. The caller
// gets the user id; any failure is ErrInvalidToken or ErrTokenRevoked.
func (s *TokenService) Authorize(ctx context.Context, accessToken string) (int64, *models.Claims, error) {
	claims, err := s.jwt.Verify(accessToken, models.TokenTypeAccess)
	if err != nil {
		return 0, nil, err
	}
	blocked, err := s.blocklist.IsBlocklisted(ctx, claims.ID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to check token blocklist: %w", err)
	}
	if blocked {
		return 0, nil, domainErrors.ErrTokenRevoked
	}
	userID, err := security.UserID(claims)
	if err != nil {
		return 0, nil, err
	}
	return userID, claims, nil
}

// VerifyRefresh decodes and validates a refresh JWT without touching the
// ledger. Rotate does the ledger side; this only establishes that the
// presented string is a genuine, unexpired refresh token of ours.
func (s *TokenService) VerifyRefresh(tokenString string) (int64, *models.Claims, error) {
	claims, err := s.jwt.Verify(tokenString, models.TokenTypeRefresh)
	if err != nil {
		return 0, nil, err
	}
	userID, err := security.UserID(claims)
	if err != nil {
		return 0, nil, err
	}
	return userID, claims, nil
}

// AccessTokenTTL exposes the configured access token lifetime.
func (s *TokenService) AccessTokenTTL() time.Duration { return s.jwt.AccessTokenTTL() }

// RefreshTokenTTL exposes the configured refresh token lifetime.
func (s *TokenService) RefreshTokenTTL() time.Duration { return s.jwt.RefreshTokenTTL() }
