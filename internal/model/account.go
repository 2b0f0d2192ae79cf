package model

import "time"

// Account is a tenant institution. Its administrator user is provisioned
// transactionally with the account itself at onboarding.
type Account struct {
	ID          uint64    // accounts.id
	Name        string    // accounts.name (display name)
	LegalName   string    // accounts.legal_name
	Address     string    // accounts.address
	AdminUserID *uint64   // accounts.admin_user_id (nullable until provisioned)
	IsActive    bool      // accounts.is_active
	CreatedAt   time.Time // accounts.created_at
	UpdatedAt   time.Time // accounts.updated_at
}

// Division is a sub-unit of an account (a classroom or grade). The name is
// unique within an account. This is the single division entity; there is no
// parallel "group" variant.
type Division struct {
	ID          uint64    // divisions.id
	AccountID   uint64    // divisions.account_id
	Name        string    // divisions.name (unique per account)
	Description *string   // divisions.description (nullable)
	IsActive    bool      // divisions.is_active
	CreatedAt   time.Time // divisions.created_at
	UpdatedAt   time.Time // divisions.updated_at
}
