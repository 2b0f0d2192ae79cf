package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/colegium/campus-api/internal/model"
)

// RoleRepo manages the seeded role catalog. The permission grid lives in a
// JSON column so permission edits never require schema changes.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// Seed upserts the default catalog by role name. Names and levels are fixed;
// descriptions and grids follow the catalog on every boot so permission
// fixes roll out without migrations.
func (r *RoleRepo) Seed(ctx context.Context, roles []model.Role) error {
	const q = `INSERT INTO roles (name, description, level, permissions)
		VALUES (?,?,?,?)
		ON DUPLICATE KEY UPDATE description=VALUES(description), level=VALUES(level), permissions=VALUES(permissions)`
	for _, role := range roles {
		grid, err := json.Marshal(role.Permissions)
		if err != nil {
			return err
		}
		if _, err := r.DB.ExecContext(ctx, q, string(role.Name), role.Description, role.Level, grid); err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches one role with its grid.
func (r *RoleRepo) GetByID(ctx context.Context, id uint64) (model.Role, error) {
	const q = "SELECT id,name,description,level,permissions,created_at,updated_at FROM roles WHERE id=? LIMIT 1"
	return r.scanOne(r.DB.QueryRowContext(ctx, q, id))
}

// GetByName fetches one role by its unique name.
func (r *RoleRepo) GetByName(ctx context.Context, name model.RoleName) (model.Role, error) {
	const q = "SELECT id,name,description,level,permissions,created_at,updated_at FROM roles WHERE name=? LIMIT 1"
	return r.scanOne(r.DB.QueryRowContext(ctx, q, string(name)))
}

// List returns the full catalog ordered by hierarchy level.
func (r *RoleRepo) List(ctx context.Context) ([]model.Role, error) {
	const q = "SELECT id,name,description,level,permissions,created_at,updated_at FROM roles ORDER BY level"
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func (r *RoleRepo) scanOne(row *sql.Row) (model.Role, error) {
	role, err := scanRole(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Role{}, ErrRoleNotFound
	}
	return role, err
}

func scanRole(s rowScanner) (model.Role, error) {
	var (
		role model.Role
		name string
		grid []byte
	)
	if err := s.Scan(&role.ID, &name, &role.Description, &role.Level, &grid, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return model.Role{}, err
	}
	role.Name = model.RoleName(name)
	if len(grid) > 0 {
		if err := json.Unmarshal(grid, &role.Permissions); err != nil {
			return model.Role{}, err
		}
	}
	return role, nil
}
