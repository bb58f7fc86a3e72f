package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugloop/issue-tracker/internal/config"
)

func testHashParams() config.PasswordHashConfig {
	return config.PasswordHashConfig{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestHashAndVerify(t *testing.T) {
	hasher, err := NewPasswordHasher(testHashParams())
	require.NoError(t, err)

	encoded, err := hasher.Hash("s3cret password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := hasher.Verify("s3cret password", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("wrong password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	hasher, err := NewPasswordHasher(testHashParams())
	require.NoError(t, err)

	first, err := hasher.Hash("same password")
	require.NoError(t, err)
	second, err := hasher.Hash("same password")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

// Hashes carry their own parameters, so changing the configured cost does
// not invalidate existing hashes.
func TestVerifyWithDifferentConfiguredParams(t *testing.T) {
	old, err := NewPasswordHasher(testHashParams())
	require.NoError(t, err)
	encoded, err := old.Hash("migrating password")
	require.NoError(t, err)

	params := testHashParams()
	params.Memory = 16 * 1024
	params.Iterations = 2
	current, err := NewPasswordHasher(params)
	require.NoError(t, err)

	ok, err := current.Verify("migrating password", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyMalformedHash(t *testing.T) {
	hasher, err := NewPasswordHasher(testHashParams())
	require.NoError(t, err)

	_, err = hasher.Verify("anything", "not-an-encoded-hash")
	assert.Error(t, err)

	_, err = hasher.Verify("anything", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA")
	assert.Error(t, err)
}

func TestNewPasswordHasherRejectsZeroParams(t *testing.T) {
	params := testHashParams()
	params.KeyLength = 0
	_, err := NewPasswordHasher(params)
	assert.Error(t, err)
}
