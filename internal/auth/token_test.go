package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret")

	token, err := tm.GenerateToken(42, "artist@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.CreatorID)
	assert.Equal(t, "artist@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManagerRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret")

	token, err := tm.GenerateToken(1, "a@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManagerRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a").GenerateToken(1, "a@example.com", time.Hour)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManagerRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret").ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
