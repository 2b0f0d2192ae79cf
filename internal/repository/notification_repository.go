package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/colegium/campus-api/internal/model"
)

// NotificationRepo stores in-app notifications. Broker publishing happens in
// the service layer after the row is persisted.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

const notificationCols = "id,account_id,user_id,title,body,read_at,created_at"

// Create inserts a notification.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO notifications (account_id,user_id,title,body) VALUES (?,?,?,?)",
		n.AccountID, n.UserID, n.Title, n.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// ListForUser returns notifications addressed to the user plus the
// account-wide ones of the given account, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, accountID, userID uint64) ([]model.Notification, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+notificationCols+" FROM notifications WHERE account_id=? AND (user_id=? OR user_id IS NULL) ORDER BY created_at DESC",
		accountID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.AccountID, &n.UserID, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// GetByID fetches one notification.
func (r *NotificationRepo) GetByID(ctx context.Context, id uint64) (model.Notification, error) {
	var n model.Notification
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+notificationCols+" FROM notifications WHERE id=? LIMIT 1",
		id).Scan(&n.ID, &n.AccountID, &n.UserID, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Notification{}, ErrNotificationNotFound
	}
	return n, err
}

// MarkRead stamps read_at once; already-read rows stay untouched.
func (r *NotificationRepo) MarkRead(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET read_at=NOW() WHERE id=? AND read_at IS NULL", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either missing or already read; distinguish for the caller.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
