// Package security implements the cryptographic pieces of the token
// lifecycle: RSA key management, RS256 token signing/verification and
// Argon2id password hashing.
package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bugloop/issue-tracker/internal/config"
	domainErrors "github.com/bugloop/issue-tracker/internal/domain/errors"
	"github.com/bugloop/issue-tracker/internal/domain/models"
)

// JWTService mints and verifies RS256 tokens. Signing uses the private
// key; verification needs only the public key, so services that merely
// validate tokens never hold signing secrets.
type JWTService struct {
	keys            *SigningKeys
	issuer          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewJWTService wires the immutable keypair into a token service.
func NewJWTService(keys *SigningKeys, cfg config.JWTConfig) *JWTService {
	return &JWTService{
		keys:            keys,
		issuer:          cfg.Issuer,
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
	}
}

// AccessTokenTTL exposes the configured access token lifetime.
func (s *JWTService) AccessTokenTTL() time.Duration { return s.accessTokenTTL }

// RefreshTokenTTL exposes the configured refresh token lifetime.
func (s *JWTService) RefreshTokenTTL() time.Duration { return s.refreshTokenTTL }

// PublicKey returns the verification key.
func (s *JWTService) PublicKey() interface{} { return s.keys.Public }

// IssueToken signs a token of the given kind for userID and returns the
// compact form, its expiry and its jti. The jti is a fresh uuid, unique
// across both token kinds.
func (s *JWTService) IssueToken(userID int64, kind models.TokenType) (string, time.Time, string, error) {
	jti := uuid.NewString()
	token, expiresAt, err := s.IssueTokenWithJTI(userID, kind, jti)
	return token, expiresAt, jti, err
}

// IssueTokenWithJTI signs a token whose jti the caller fixed in advance.
// The rotation protocol needs this: the predecessor's replaced_by link is
// written before the successor exists.
func (s *JWTService) IssueTokenWithJTI(userID int64, kind models.TokenType, jti string) (string, time.Time, error) {
	now := time.Now()
	ttl := s.accessTokenTTL
	if kind == models.TokenTypeRefresh {
		ttl = s.refreshTokenTTL
	}
	expiresAt := now.Add(ttl)

	claims := &models.Claims{
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.keys.Private)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token of the expected kind. Any failure
// (malformed input, bad signature, expiry in the past, wrong type tag)
// comes back as ErrInvalidToken so callers cannot distinguish and leak
// the reason.
func (s *JWTService) Verify(tokenString string, expected models.TokenType) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.keys.Public, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, domainErrors.ErrInvalidToken
	}
	if claims.TokenType != expected {
		return nil, fmt.Errorf("%w: unexpected token type %q", domainErrors.ErrInvalidToken, claims.TokenType)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti", domainErrors.ErrInvalidToken)
	}
	return claims, nil
}

// UserID extracts the integer subject from verified claims.
func UserID(claims *models.Claims) (int64, error) {
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.Join(domainErrors.ErrInvalidToken, err)
	}
	return id, nil
}
