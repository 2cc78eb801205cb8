package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteboard-backend/internal/auth"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	valid, err := auth.VerifyPassword("s3cret", hash)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestVerifyPasswordMismatch(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	valid, err := auth.VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	second, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	// Different salts, different encodings; both still verify
	assert.NotEqual(t, first, second)

	valid, err := auth.VerifyPassword("s3cret", first)
	require.NoError(t, err)
	assert.True(t, valid)
	valid, err = auth.VerifyPassword("s3cret", second)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	_, err := auth.VerifyPassword("s3cret", "not-a-bcrypt-hash")
	assert.Error(t, err)
}
