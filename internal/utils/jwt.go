// Package utils provides helper functions for token creation and hashing.
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/colegium/campus-api/internal/apperr"
)

// AccessToken is a signed HS256 JWT plus its expiry. Access tokens are
// short-lived and travel in the Authorization header.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshToken is a long-lived opaque token used to mint new access tokens.
// Raw goes back to the client; the database keeps only a SHA-256 hash of it.
type RefreshToken struct {
	Raw string    // raw token string returned to the client
	Exp time.Time // UTC expiration time
}

// AccessClaims are the values this service embeds in access tokens.
type AccessClaims struct {
	UserID uint64 // "sub"
	Email  string // "email"
	RoleID uint64 // "rid"
}

// NewAccessToken builds and signs an HS256 JWT carrying the user id
// (subject), email and static role id, with exp/iat set from ttlMin.
func NewAccessToken(secret string, claims AccessClaims, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   claims.UserID,
		"email": claims.Email,
		"rid":   claims.RoleID,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	})
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature and expiry and extracts the claims.
// Expired and malformed tokens surface as distinct failures so callers can
// tell "refresh" apart from "re-login".
func ParseAccessToken(secret, raw string) (AccessClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AccessClaims{}, apperr.ErrTokenExpired
		}
		return AccessClaims{}, apperr.Wrap(apperr.ErrTokenMalformed, err)
	}
	if !tok.Valid {
		return AccessClaims{}, apperr.ErrTokenMalformed
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return AccessClaims{}, apperr.ErrTokenMalformed
	}
	out := AccessClaims{}
	if sub, ok := mc["sub"].(float64); ok {
		out.UserID = uint64(sub)
	}
	if rid, ok := mc["rid"].(float64); ok {
		out.RoleID = uint64(rid)
	}
	if email, ok := mc["email"].(string); ok {
		out.Email = email
	}
	if out.UserID == 0 {
		return AccessClaims{}, apperr.ErrTokenMalformed
	}
	return out, nil
}

// NewRefreshToken returns a cryptographically random opaque token and its
// expiration, ttlDays from now.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	raw, err := randomHex(48) // 48 bytes -> 96 hex chars
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the SHA-256 hex digest of a raw refresh token.
// Storing only the hash keeps stolen database rows from refreshing sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
