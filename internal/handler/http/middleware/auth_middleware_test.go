package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bugloop/issue-tracker/internal/config"
	domainErrors "github.com/bugloop/issue-tracker/internal/domain/errors"
	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/infrastructure/security"
	"github.com/bugloop/issue-tracker/internal/service"
)

type memoryRefreshLedger struct {
	records map[string]*models.RefreshTokenRecord
}

func (m *memoryRefreshLedger) FindByJTI(_ context.Context, jti string) (*models.RefreshTokenRecord, error) {
	record, ok := m.records[jti]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return record, nil
}

func (m *memoryRefreshLedger) Insert(_ context.Context, record *models.RefreshTokenRecord) error {
	m.records[record.JTI] = record
	return nil
}

func (m *memoryRefreshLedger) MarkRevoked(_ context.Context, jti string, replacedBy *string) (bool, error) {
	record, ok := m.records[jti]
	if !ok || record.Revoked {
		return false, nil
	}
	record.Revoked = true
	record.ReplacedBy = replacedBy
	return true, nil
}

func (m *memoryRefreshLedger) RevokeAllActiveForUser(context.Context, int64) (int64, error) {
	return 0, nil
}

func (m *memoryRefreshLedger) CountActiveForUser(context.Context, int64) (int64, error) {
	return 0, nil
}

func (m *memoryRefreshLedger) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type memoryBlocklist struct {
	entries map[string]time.Time
}

func (m *memoryBlocklist) Insert(_ context.Context, jti string, expiresAt time.Time) error {
	m.entries[jti] = expiresAt
	return nil
}

func (m *memoryBlocklist) IsBlocklisted(_ context.Context, jti string) (bool, error) {
	expiresAt, ok := m.entries[jti]
	return ok && expiresAt.After(time.Now()), nil
}

func (m *memoryBlocklist) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type memoryUserStore struct {
	users map[int64]*models.User
}

func (m *memoryUserStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryUserStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return user, nil
}

func (m *memoryUserStore) FindByIdentifier(context.Context, string) (*models.User, error) {
	return nil, domainErrors.ErrNotFound
}

type middlewareFixture struct {
	router    *gin.Engine
	tokens    *service.TokenService
	blocklist *memoryBlocklist
}

func newFixture(t *testing.T) *middlewareFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	jwtService := security.NewJWTService(
		&security.SigningKeys{Private: key, Public: &key.PublicKey},
		config.JWTConfig{AccessTokenTTL: 15 * time.Minute, RefreshTokenTTL: time.Hour, Issuer: "test"},
	)

	blocklist := &memoryBlocklist{entries: make(map[string]time.Time)}
	ledger := &memoryRefreshLedger{records: make(map[string]*models.RefreshTokenRecord)}
	users := &memoryUserStore{users: map[int64]*models.User{
		42: {ID: 42, Username: "bilbo", Role: models.RoleDeveloper, IsActive: true},
	}}

	tokens := service.NewTokenService(jwtService, ledger, blocklist, nil, zap.NewNop())
	userService := service.NewUserService(users)

	router := gin.New()
	router.GET("/protected", AuthMiddleware(tokens, userService, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64(ContextUserIDKey),
		})
	})
	return &middlewareFixture{router: router, tokens: tokens, blocklist: blocklist}
}

func get(f *middlewareFixture, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	f := newFixture(t)
	issued, err := f.tokens.IssueAccessToken(42)
	require.NoError(t, err)

	rec := get(f, "Bearer "+issued.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":42`)
}

func TestAuthMiddlewareUniformRejections(t *testing.T) {
	f := newFixture(t)

	blocked, err := f.tokens.IssueAccessToken(42)
	require.NoError(t, err)
	require.NoError(t, f.blocklist.Insert(context.Background(), blocked.JTI, blocked.ExpiresAt))

	unknownUser, err := f.tokens.IssueAccessToken(7)
	require.NoError(t, err)

	cases := map[string]string{
		"missing header":   "",
		"not bearer":       "Basic dXNlcjpwYXNz",
		"garbage token":    "Bearer not.a.jwt",
		"blocklisted":      "Bearer " + blocked.Token,
		"unresolvable sub": "Bearer " + unknownUser.Token,
	}
	for name, header := range cases {
		rec := get(f, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.JSONEq(t, `{"error":"authentication failed"}`, rec.Body.String(), name)
	}
}
