package model

import "time"

// UserStatus is the lifecycle of a user account. Only approved users may
// log in; registration creates pending users that an administrator approves
// or rejects.
type UserStatus string

const (
	UserPending  UserStatus = "PENDING"
	UserApproved UserStatus = "APPROVED"
	UserRejected UserStatus = "REJECTED"
)

// ParseUserStatus validates a raw status string.
func ParseUserStatus(s string) (UserStatus, bool) {
	switch UserStatus(s) {
	case UserPending, UserApproved, UserRejected:
		return UserStatus(s), true
	}
	return "", false
}

// User represents a row in the `users` table. A user carries one static
// role and an optional default account; the effective role at request time
// comes from the active association when one exists.
//
// Fields:
//
//	ID           – primary key.
//	Name         – display name.
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hash; plaintext is never stored.
//	RoleID       – foreign key into roles.
//	AccountID    – optional default account (nil for platform users).
//	Status       – lifecycle status gating login.
//	Phone        – optional contact phone.
//	AvatarURL    – optional avatar location (object storage is external).
type User struct {
	ID           uint64     // users.id
	Name         string     // users.name
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	RoleID       uint64     // users.role_id
	AccountID    *uint64    // users.account_id (nullable)
	Status       UserStatus // users.status
	Phone        *string    // users.phone (nullable)
	AvatarURL    *string    // users.avatar_url (nullable)
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}
