package model

import "time"

// Student belongs to exactly one account and division. Guardians gain access
// to a student through associations scoped to it, never through direct
// references on the student row.
//
// Fields:
//
//	DNI    – national identity document, unique across the platform.
//	QRCode – opaque identifier printed on student credentials (uuid).
type Student struct {
	ID         uint64    // students.id
	AccountID  uint64    // students.account_id
	DivisionID uint64    // students.division_id
	Name       string    // students.name
	DNI        string    // students.dni (unique)
	Email      *string   // students.email (nullable)
	QRCode     string    // students.qr_code
	AvatarURL  *string   // students.avatar_url (nullable)
	CreatedAt  time.Time // students.created_at
	UpdatedAt  time.Time // students.updated_at
}
