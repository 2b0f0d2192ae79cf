package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/colegium/campus-api/internal/model"
)

// ActiveAssociationRepo keeps the one-per-user "acting as" pointer. The
// unique key on user_id plus the upsert below is the only concurrency guard:
// two simultaneous context switches resolve last-write-wins.
type ActiveAssociationRepo struct{ DB *sql.DB }

func NewActiveAssociationRepo(db *sql.DB) *ActiveAssociationRepo {
	return &ActiveAssociationRepo{DB: db}
}

const activeCols = "id,user_id,association_id,account_id,role_id,division_id,student_id,created_at,updated_at"

// Upsert atomically creates or replaces the pointer for a user.
func (r *ActiveAssociationRepo) Upsert(ctx context.Context, a model.ActiveAssociation) error {
	const q = `INSERT INTO active_associations
		(user_id, association_id, account_id, role_id, division_id, student_id)
		VALUES (?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE
		association_id=VALUES(association_id), account_id=VALUES(account_id),
		role_id=VALUES(role_id), division_id=VALUES(division_id), student_id=VALUES(student_id)`
	_, err := r.DB.ExecContext(ctx, q,
		a.UserID, a.AssociationID, a.AccountID, a.RoleID, a.DivisionID, a.StudentID)
	return err
}

// GetByUser fetches the pointer; callers must re-validate the referenced
// association before trusting it.
func (r *ActiveAssociationRepo) GetByUser(ctx context.Context, userID uint64) (model.ActiveAssociation, error) {
	var a model.ActiveAssociation
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+activeCols+" FROM active_associations WHERE user_id=? LIMIT 1",
		userID).Scan(&a.ID, &a.UserID, &a.AssociationID, &a.AccountID, &a.RoleID,
		&a.DivisionID, &a.StudentID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ActiveAssociation{}, ErrNoActiveAssociation
	}
	return a, err
}

// DeleteByUser removes the pointer. Deleting an absent row is not an error,
// which keeps stale-pointer cleanup idempotent.
func (r *ActiveAssociationRepo) DeleteByUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM active_associations WHERE user_id=?", userID)
	return err
}

// DeleteByAssociation removes any pointer referencing an association. Used
// as the best-effort cascade when an association is deactivated.
func (r *ActiveAssociationRepo) DeleteByAssociation(ctx context.Context, associationID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM active_associations WHERE association_id=?", associationID)
	return err
}
