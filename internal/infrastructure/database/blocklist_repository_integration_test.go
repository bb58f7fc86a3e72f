package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlocklistInsertIsIdempotent(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewBlocklistRepository(pool)

	jti := uuid.NewString()
	expiresAt := time.Now().Add(10 * time.Minute)

	require.NoError(t, repo.Insert(ctx, jti, expiresAt))
	require.NoError(t, repo.Insert(ctx, jti, expiresAt))

	blocked, err := repo.IsBlocklisted(ctx, jti)
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestBlocklistExpiredEntryIsInert(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewBlocklistRepository(pool)

	jti := uuid.NewString()
	require.NoError(t, repo.Insert(ctx, jti, time.Now().Add(-time.Minute)))

	blocked, err := repo.IsBlocklisted(ctx, jti)
	require.NoError(t, err)
	assert.False(t, blocked)

	n, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}

func TestBlocklistUnknownJTI(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewBlocklistRepository(pool)

	blocked, err := repo.IsBlocklisted(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, blocked)
}
