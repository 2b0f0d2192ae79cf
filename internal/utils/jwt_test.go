package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/colegium/campus-api/internal/apperr"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	claims := AccessClaims{UserID: 42, Email: "x@example.com", RoleID: 3}
	tok, err := NewAccessToken("secret", claims, 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

	got, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	require.Equal(t, claims, got)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("secret", AccessClaims{UserID: 1}, 15)
	require.NoError(t, err)

	_, err = ParseAccessToken("other-secret", tok.Token)
	require.ErrorIs(t, err, apperr.ErrTokenMalformed)
}

func TestParseAccessTokenExpired(t *testing.T) {
	now := time.Now().UTC()
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1,
		"exp": now.Add(-time.Minute).Unix(),
		"iat": now.Add(-time.Hour).Unix(),
	})
	signed, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", signed)
	require.ErrorIs(t, err, apperr.ErrTokenExpired)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	_, err := ParseAccessToken("secret", "not-a-jwt")
	require.ErrorIs(t, err, apperr.ErrTokenMalformed)
}

func TestParseAccessTokenRejectsMissingSubject(t *testing.T) {
	now := time.Now().UTC()
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "x@example.com",
		"exp":   now.Add(time.Minute).Unix(),
		"iat":   now.Unix(),
	})
	signed, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", signed)
	require.ErrorIs(t, err, apperr.ErrTokenMalformed)
}

func TestRefreshTokenIsOpaqueAndUnique(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	require.Len(t, a.Raw, 96)
	require.NotEqual(t, a.Raw, b.Raw)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), a.Exp, 5*time.Second)
}

func TestHashRefreshRawIsStable(t *testing.T) {
	h1 := HashRefreshRaw("token-value")
	h2 := HashRefreshRaw("token-value")
	require.Equal(t, h1, h2)
	require.Len(t, h1, 64) // sha256 hex
	require.NotEqual(t, h1, HashRefreshRaw("other-value"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret-pass", 4)
	require.NoError(t, err)
	require.NotEqual(t, "secret-pass", hash)

	require.True(t, VerifyPassword(hash, "secret-pass"))
	require.False(t, VerifyPassword(hash, "wrong"))
	require.False(t, VerifyPassword("not-a-hash", "secret-pass"))
}
