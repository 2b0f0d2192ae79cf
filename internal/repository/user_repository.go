package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/colegium/campus-api/internal/model"
)

// UserRepo mirrors the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,name,email,password_hash,role_id,account_id,status,phone,avatar_url,created_at,updated_at"

// Create inserts a user with an already-hashed password and returns its ID.
// Hashing happens in the service layer so the repository never sees
// plaintext.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name,email,password_hash,role_id,account_id,status,phone,avatar_url) VALUES (?,?,?,?,?,?,?,?)",
		u.Name, u.Email, u.PasswordHash, u.RoleID, u.AccountID, string(u.Status), u.Phone, u.AvatarURL)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// ListByAccount returns users whose default account matches.
func (r *UserRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE account_id=? ORDER BY name", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// ListByStatus returns users in one lifecycle status, newest first. Used by
// the approval queue.
func (r *UserRepo) ListByStatus(ctx context.Context, status model.UserStatus) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE status=? ORDER BY created_at DESC", string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// UpdateProfile updates the mutable profile fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name string, phone, avatarURL *string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, phone=?, avatar_url=? WHERE id=?",
		name, phone, avatarURL, id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrUserNotFound)
}

// UpdateStatus moves a user through its lifecycle (approve/reject).
func (r *UserRepo) UpdateStatus(ctx context.Context, id uint64, status model.UserStatus) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET status=? WHERE id=?", string(status), id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrUserNotFound)
}

// UpdatePassword stores a new bcrypt hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrUserNotFound)
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

func scanUser(s rowScanner) (model.User, error) {
	var (
		u      model.User
		status string
	)
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.AccountID,
		&status, &u.Phone, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return model.User{}, err
	}
	u.Status = model.UserStatus(status)
	return u, nil
}

func collectUsers(rows *sql.Rows) ([]model.User, error) {
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// requireAffected converts a zero-row UPDATE/DELETE into notFound.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
