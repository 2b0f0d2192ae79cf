package model

import "time"

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the opaque value is persisted; the raw string goes back to
// the client once and is never stored. Tokens rotate on every refresh: the
// presented token is revoked and a new one issued.
type RefreshToken struct {
	ID         uint64     // refresh_tokens.id
	UserID     uint64     // refresh_tokens.user_id
	TokenHash  string     // refresh_tokens.token_hash (sha256 hex, unique)
	ExpiresAt  time.Time  // refresh_tokens.expires_at
	RevokedAt  *time.Time // refresh_tokens.revoked_at (nullable)
	UserAgent  string     // refresh_tokens.user_agent (device metadata)
	IP         string     // refresh_tokens.ip
	LastUsedAt *time.Time // refresh_tokens.last_used_at (nullable)
	CreatedAt  time.Time  // refresh_tokens.created_at
}
