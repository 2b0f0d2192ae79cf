package model

import "time"

// Notification is an in-app message for one user (or account-wide when
// UserID is nil). Creation additionally publishes an event to the message
// broker for out-of-band delivery channels.
type Notification struct {
	ID        uint64     // notifications.id
	AccountID uint64     // notifications.account_id
	UserID    *uint64    // notifications.user_id (nullable = whole account)
	Title     string     // notifications.title
	Body      string     // notifications.body
	ReadAt    *time.Time // notifications.read_at (nullable)
	CreatedAt time.Time  // notifications.created_at
}

// Document is file metadata only; the bytes live in external object storage
// addressed by StorageKey.
type Document struct {
	ID          uint64    // documents.id
	AccountID   uint64    // documents.account_id
	OwnerUserID uint64    // documents.owner_user_id
	Name        string    // documents.name
	MimeType    string    // documents.mime_type
	SizeBytes   int64     // documents.size_bytes
	StorageKey  string    // documents.storage_key (uuid)
	CreatedAt   time.Time // documents.created_at
}
