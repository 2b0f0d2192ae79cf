package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/colegium/campus-api/internal/model"
)

// DivisionRepo handles the single division entity (classrooms/grades).
type DivisionRepo struct{ DB *sql.DB }

func NewDivisionRepo(db *sql.DB) *DivisionRepo { return &DivisionRepo{DB: db} }

const divisionCols = "id,account_id,name,description,is_active,created_at,updated_at"

// Create inserts a division; the (account_id, name) pair is unique.
func (r *DivisionRepo) Create(ctx context.Context, d *model.Division) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO divisions (account_id,name,description,is_active) VALUES (?,?,?,1)",
		d.AccountID, d.Name, d.Description)
	if err != nil {
		if isDuplicate(err) {
			return ErrDivisionExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	d.IsActive = true
	return nil
}

// GetByID fetches one division.
func (r *DivisionRepo) GetByID(ctx context.Context, id uint64) (model.Division, error) {
	d, err := scanDivision(r.DB.QueryRowContext(ctx,
		"SELECT "+divisionCols+" FROM divisions WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Division{}, ErrDivisionNotFound
	}
	return d, err
}

// ListByAccount returns an account's divisions by name.
func (r *DivisionRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.Division, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+divisionCols+" FROM divisions WHERE account_id=? ORDER BY name", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Division
	for rows.Next() {
		d, err := scanDivision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update rewrites name, description and the active flag.
func (r *DivisionRepo) Update(ctx context.Context, id uint64, name string, description *string, isActive bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE divisions SET name=?, description=?, is_active=? WHERE id=?",
		name, description, isActive, id)
	if err != nil {
		if isDuplicate(err) {
			return ErrDivisionExists
		}
		return err
	}
	return requireAffected(res, ErrDivisionNotFound)
}

func scanDivision(s rowScanner) (model.Division, error) {
	var d model.Division
	err := s.Scan(&d.ID, &d.AccountID, &d.Name, &d.Description, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}
