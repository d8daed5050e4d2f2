package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	require.True(t, VerifyPassword(hash, "s3cret"))
	require.False(t, VerifyPassword(hash, "wrong"))
	require.False(t, VerifyPassword("not-a-hash", "s3cret"))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"

	at, err := NewAccessToken(secret, 42, "CUSTOMER", 15)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), at.Exp, 5*time.Second)

	parsed, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, float64(42), claims["sub"])
	require.Equal(t, "CUSTOMER", claims["role"])

	_, err = jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	require.NotEmpty(t, a.Raw)
	require.NotEqual(t, a.Raw, b.Raw)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), a.Exp, 5*time.Second)

	// Hashing is deterministic so the stored hash matches on validation.
	require.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
	require.NotEqual(t, HashRefreshRaw(a.Raw), HashRefreshRaw(b.Raw))
	require.Len(t, HashRefreshRaw(a.Raw), 64)
}
