package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/colegium/campus-api/internal/model"
)

// AccountRepo encapsulates queries on the `accounts` table, including the
// transactional onboarding flow that creates the tenant together with its
// administrator user and an already-active administrator association.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

const accountCols = "id,name,legal_name,address,admin_user_id,is_active,created_at,updated_at"

// CreateWithAdmin inserts the account, its administrator user and the
// administrator's ACTIVE association in one transaction. Either everything
// lands or nothing does; a duplicate admin email rolls the account back too.
func (r *AccountRepo) CreateWithAdmin(ctx context.Context, acc *model.Account, admin *model.User) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (name,email,password_hash,role_id,status) VALUES (?,?,?,?,?)",
		admin.Name, admin.Email, admin.PasswordHash, admin.RoleID, string(model.UserApproved))
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	adminID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	admin.ID = uint64(adminID)
	admin.Status = model.UserApproved

	res, err = tx.ExecContext(ctx,
		"INSERT INTO accounts (name,legal_name,address,admin_user_id,is_active) VALUES (?,?,?,?,1)",
		acc.Name, acc.LegalName, acc.Address, admin.ID)
	if err != nil {
		return err
	}
	accID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	acc.ID = uint64(accID)
	acc.AdminUserID = &admin.ID
	acc.IsActive = true

	if _, err = tx.ExecContext(ctx,
		"UPDATE users SET account_id=? WHERE id=?", acc.ID, admin.ID); err != nil {
		return err
	}
	admin.AccountID = &acc.ID

	// System-provisioned administrator associations start ACTIVE; there is
	// nobody above them inside the account to approve an invitation.
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO associations (user_id,account_id,role_id,status) VALUES (?,?,?,?)",
		admin.ID, acc.ID, admin.RoleID, string(model.AssociationActive)); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID fetches one account.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	a, err := scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrAccountNotFound
	}
	return a, err
}

// List returns all accounts, active first.
func (r *AccountRepo) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+accountCols+" FROM accounts ORDER BY is_active DESC, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update rewrites the descriptive fields and the active flag.
func (r *AccountRepo) Update(ctx context.Context, id uint64, name, legalName, address string, isActive bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET name=?, legal_name=?, address=?, is_active=? WHERE id=?",
		name, legalName, address, isActive, id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrAccountNotFound)
}

func scanAccount(s rowScanner) (model.Account, error) {
	var a model.Account
	err := s.Scan(&a.ID, &a.Name, &a.LegalName, &a.Address, &a.AdminUserID,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
