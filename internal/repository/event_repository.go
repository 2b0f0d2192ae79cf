package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/colegium/campus-api/internal/model"
)

// EventRepo handles scheduled events per account/division.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

const eventCols = "id,account_id,division_id,title,description,starts_at,ends_at,created_by,created_at,updated_at"

// Create inserts an event.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO events (account_id,division_id,title,description,starts_at,ends_at,created_by) VALUES (?,?,?,?,?,?,?)",
		e.AccountID, e.DivisionID, e.Title, e.Description, e.StartsAt, e.EndsAt, e.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByID fetches one event.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT "+eventCols+" FROM events WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrEventNotFound
	}
	return e, err
}

// ListByAccount returns an account's events, soonest first. A non-nil
// divisionID narrows to one division plus the account-wide events.
func (r *EventRepo) ListByAccount(ctx context.Context, accountID uint64, divisionID *uint64) ([]model.Event, error) {
	q := "SELECT " + eventCols + " FROM events WHERE account_id=?"
	args := []any{accountID}
	if divisionID != nil {
		q += " AND (division_id=? OR division_id IS NULL)"
		args = append(args, *divisionID)
	}
	q += " ORDER BY starts_at"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update rewrites the schedulable fields.
func (r *EventRepo) Update(ctx context.Context, e model.Event) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE events SET title=?, description=?, division_id=?, starts_at=?, ends_at=? WHERE id=?",
		e.Title, e.Description, e.DivisionID, e.StartsAt, e.EndsAt, e.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrEventNotFound)
}

// Delete removes an event. Attendance rows cascade at the schema level.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrEventNotFound)
}

func scanEvent(s rowScanner) (model.Event, error) {
	var e model.Event
	err := s.Scan(&e.ID, &e.AccountID, &e.DivisionID, &e.Title, &e.Description,
		&e.StartsAt, &e.EndsAt, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}
