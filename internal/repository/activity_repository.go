package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/colegium/campus-api/internal/model"
)

// ActivityRepo handles planned classroom activities.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

const activityCols = "id,account_id,division_id,title,description,scheduled_for,created_by,created_at,updated_at"

// Create inserts an activity.
func (r *ActivityRepo) Create(ctx context.Context, a *model.Activity) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO activities (account_id,division_id,title,description,scheduled_for,created_by) VALUES (?,?,?,?,?,?)",
		a.AccountID, a.DivisionID, a.Title, a.Description, a.ScheduledFor, a.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID fetches one activity.
func (r *ActivityRepo) GetByID(ctx context.Context, id uint64) (model.Activity, error) {
	a, err := scanActivity(r.DB.QueryRowContext(ctx,
		"SELECT "+activityCols+" FROM activities WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Activity{}, ErrActivityNotFound
	}
	return a, err
}

// ListByDivision returns a division's activities, soonest first.
func (r *ActivityRepo) ListByDivision(ctx context.Context, divisionID uint64) ([]model.Activity, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+activityCols+" FROM activities WHERE division_id=? ORDER BY scheduled_for", divisionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields.
func (r *ActivityRepo) Update(ctx context.Context, a model.Activity) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE activities SET title=?, description=?, scheduled_for=? WHERE id=?",
		a.Title, a.Description, a.ScheduledFor, a.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrActivityNotFound)
}

// Delete removes an activity.
func (r *ActivityRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM activities WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrActivityNotFound)
}

func scanActivity(s rowScanner) (model.Activity, error) {
	var a model.Activity
	err := s.Scan(&a.ID, &a.AccountID, &a.DivisionID, &a.Title, &a.Description,
		&a.ScheduledFor, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
