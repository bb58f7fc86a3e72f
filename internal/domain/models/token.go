package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType tags a JWT as access or refresh so one kind can never be
// presented where the other is expected.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the signed payload carried by both token kinds. The subject is
// the string-encoded user id; the jti doubles as the primary key in the
// refresh ledger and the blocklist.
type Claims struct {
	TokenType TokenType `json:"type"`
	jwt.RegisteredClaims
}

// RefreshTokenRecord represents one row of the refresh_tokens ledger.
// Records form a singly-linked rotation chain per logical session:
// ReplacedBy points at the successor's jti and is set exactly once, at the
// moment the record is revoked by a successful rotation. Revoked only ever
// transitions false→true.
type RefreshTokenRecord struct {
	JTI        string    `json:"jti" db:"jti"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Revoked    bool      `json:"revoked" db:"revoked"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
	ReplacedBy *string   `json:"replaced_by,omitempty" db:"replaced_by"`
}

// IsExpired reports whether the record's expiry has passed.
func (r *RefreshTokenRecord) IsExpired(now time.Time) bool {
	return r.ExpiresAt.Before(now)
}

// IsActive reports whether the record can still legitimately be rotated.
func (r *RefreshTokenRecord) IsActive(now time.Time) bool {
	return !r.Revoked && !r.IsExpired(now)
}

// BlocklistEntry represents one row of the token_blocklist table: an access
// token invalidated before its natural expiry. Entries whose expiry has
// passed are inert and may be pruned by housekeeping at any time.
type BlocklistEntry struct {
	JTI       string    `json:"jti" db:"jti"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// TokenPair is the boundary response of login and refresh.
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenTypeBearer  string `json:"token_type"`
	AccessExpiresIn  int64  `json:"access_expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
}

// RefreshRequest carries the refresh token on refresh and logout calls.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
