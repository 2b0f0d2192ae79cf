package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/colegium/campus-api/internal/model"
)

// AssociationRepo persists the user-account-role grants. Lifecycle rules
// (who may transition what) live in the service layer; this layer only
// guards referential shape.
type AssociationRepo struct{ DB *sql.DB }

func NewAssociationRepo(db *sql.DB) *AssociationRepo { return &AssociationRepo{DB: db} }

const associationCols = "id,user_id,account_id,role_id,division_id,student_id,status,overrides,created_at,updated_at"

// Create inserts an association in the status decided by the service.
func (r *AssociationRepo) Create(ctx context.Context, a *model.Association) error {
	var overrides any
	if len(a.Overrides) > 0 {
		b, err := json.Marshal(a.Overrides)
		if err != nil {
			return err
		}
		overrides = string(b)
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO associations (user_id,account_id,role_id,division_id,student_id,status,overrides) VALUES (?,?,?,?,?,?,?)",
		a.UserID, a.AccountID, a.RoleID, a.DivisionID, a.StudentID, string(a.Status), overrides)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateRecord
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID fetches one association.
func (r *AssociationRepo) GetByID(ctx context.Context, id uint64) (model.Association, error) {
	a, err := scanAssociation(r.DB.QueryRowContext(ctx,
		"SELECT "+associationCols+" FROM associations WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Association{}, ErrAssociationNotFound
	}
	return a, err
}

// ListByUser returns a user's associations, optionally filtered by status.
// An empty status means all.
func (r *AssociationRepo) ListByUser(ctx context.Context, userID uint64, status model.AssociationStatus) ([]model.Association, error) {
	q := "SELECT " + associationCols + " FROM associations WHERE user_id=?"
	args := []any{userID}
	if status != "" {
		q += " AND status=?"
		args = append(args, string(status))
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssociations(rows)
}

// ListByAccount returns an account's associations, optionally by status.
func (r *AssociationRepo) ListByAccount(ctx context.Context, accountID uint64, status model.AssociationStatus) ([]model.Association, error) {
	q := "SELECT " + associationCols + " FROM associations WHERE account_id=?"
	args := []any{accountID}
	if status != "" {
		q += " AND status=?"
		args = append(args, string(status))
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssociations(rows)
}

// UpdateStatus writes a lifecycle transition. Associations are never
// hard-deleted; rejection and deactivation are status writes.
func (r *AssociationRepo) UpdateStatus(ctx context.Context, id uint64, status model.AssociationStatus) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE associations SET status=? WHERE id=?", string(status), id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrAssociationNotFound)
}

func scanAssociation(s rowScanner) (model.Association, error) {
	var (
		a         model.Association
		status    string
		overrides []byte
	)
	if err := s.Scan(&a.ID, &a.UserID, &a.AccountID, &a.RoleID, &a.DivisionID,
		&a.StudentID, &status, &overrides, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return model.Association{}, err
	}
	a.Status = model.AssociationStatus(status)
	if len(overrides) > 0 {
		if err := json.Unmarshal(overrides, &a.Overrides); err != nil {
			return model.Association{}, err
		}
	}
	return a, nil
}

func collectAssociations(rows *sql.Rows) ([]model.Association, error) {
	var out []model.Association
	for rows.Next() {
		a, err := scanAssociation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
