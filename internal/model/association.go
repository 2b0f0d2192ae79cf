package model

import "time"

// AssociationStatus is the lifecycle of an association. Only ACTIVE
// associations grant access. Transitions: PENDING -> ACTIVE (approval),
// any -> INACTIVE (rejection/deactivation). Rows are never hard-deleted in
// normal flow; deactivation is a status write.
type AssociationStatus string

const (
	AssociationPending  AssociationStatus = "PENDING"
	AssociationActive   AssociationStatus = "ACTIVE"
	AssociationInactive AssociationStatus = "INACTIVE"
)

// ParseAssociationStatus validates a raw association status.
func ParseAssociationStatus(s string) (AssociationStatus, bool) {
	switch AssociationStatus(s) {
	case AssociationPending, AssociationActive, AssociationInactive:
		return AssociationStatus(s), true
	}
	return "", false
}

// Association grants a user a role within an account, optionally scoped to a
// division and/or a student (the guardian case). A user may hold many
// associations across accounts simultaneously; the one selected as active
// determines effective permissions at request time.
//
// Overrides, when present, replace the role grid module-by-module: a module
// listed in Overrides uses the override's action list, any other module
// falls through to the role.
type Association struct {
	ID         uint64            // associations.id
	UserID     uint64            // associations.user_id
	AccountID  uint64            // associations.account_id
	RoleID     uint64            // associations.role_id
	DivisionID *uint64           // associations.division_id (nullable)
	StudentID  *uint64           // associations.student_id (nullable)
	Status     AssociationStatus // associations.status
	Overrides  []Permission      // associations.overrides (JSON, nullable)
	CreatedAt  time.Time         // associations.created_at
	UpdatedAt  time.Time         // associations.updated_at
}

// EffectiveAllows evaluates a permission against the association's overrides
// first and the role grid second.
func (a Association) EffectiveAllows(role Role, module, action string) bool {
	for _, p := range a.Overrides {
		if p.Module == module {
			return GridAllows(a.Overrides, module, action)
		}
	}
	return role.Allows(module, action)
}

// ActiveAssociation is the denormalized pointer to the one association a
// user is currently acting as. At most one row exists per user (unique key
// on user_id). The pointer must always reference an ACTIVE association; a
// stale pointer is detected and deleted lazily on read.
type ActiveAssociation struct {
	ID            uint64    // active_associations.id
	UserID        uint64    // active_associations.user_id (unique)
	AssociationID uint64    // active_associations.association_id
	AccountID     uint64    // active_associations.account_id (denormalized)
	RoleID        uint64    // active_associations.role_id (denormalized)
	DivisionID    *uint64   // active_associations.division_id (denormalized, nullable)
	StudentID     *uint64   // active_associations.student_id (denormalized, nullable)
	CreatedAt     time.Time // active_associations.created_at
	UpdatedAt     time.Time // active_associations.updated_at
}
