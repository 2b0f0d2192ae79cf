package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/colegium/campus-api/internal/apperr"
	"github.com/colegium/campus-api/internal/model"
)

// TokenRepo persists and validates refresh tokens. Only the SHA-256 hash of
// the opaque value ever reaches this layer.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token row with its device metadata.
func (r *TokenRepo) StoreRefresh(ctx context.Context, t model.RefreshToken) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at, user_agent, ip) VALUES (?,?,?,?,?)",
		t.UserID, t.TokenHash, t.ExpiresAt, t.UserAgent, t.IP)
	return err
}

// ValidateRefresh returns the owning user ID for a usable token hash. The
// failure modes are distinct: unknown, revoked and expired each map to their
// own caller-visible code.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.ErrRefreshUnknown
	}
	if err != nil {
		return 0, err
	}
	if revokedAt.Valid {
		return 0, apperr.ErrRefreshRevoked
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, apperr.ErrRefreshExpired
	}
	return userID, nil
}

// TouchLastUsed records that the token was just exchanged.
func (r *TokenRepo) TouchLastUsed(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET last_used_at=NOW() WHERE token_hash=?", tokenHash)
	return err
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser revokes all of a user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}

// DeleteExpired garbage-collects rows past their expiry. Called periodically
// from the server process; MySQL has no native TTL.
func (r *TokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE expires_at < NOW()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
