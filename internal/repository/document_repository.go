package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/colegium/campus-api/internal/model"
)

// DocumentRepo stores file metadata; object bytes live in external storage
// addressed by the storage key.
type DocumentRepo struct{ DB *sql.DB }

func NewDocumentRepo(db *sql.DB) *DocumentRepo { return &DocumentRepo{DB: db} }

const documentCols = "id,account_id,owner_user_id,name,mime_type,size_bytes,storage_key,created_at"

// Create inserts a document record.
func (r *DocumentRepo) Create(ctx context.Context, d *model.Document) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO documents (account_id,owner_user_id,name,mime_type,size_bytes,storage_key) VALUES (?,?,?,?,?,?)",
		d.AccountID, d.OwnerUserID, d.Name, d.MimeType, d.SizeBytes, d.StorageKey)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// GetByID fetches one document record.
func (r *DocumentRepo) GetByID(ctx context.Context, id uint64) (model.Document, error) {
	var d model.Document
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+documentCols+" FROM documents WHERE id=? LIMIT 1",
		id).Scan(&d.ID, &d.AccountID, &d.OwnerUserID, &d.Name, &d.MimeType,
		&d.SizeBytes, &d.StorageKey, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Document{}, ErrDocumentNotFound
	}
	return d, err
}

// ListByAccount returns an account's documents, newest first.
func (r *DocumentRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.Document, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+documentCols+" FROM documents WHERE account_id=? ORDER BY created_at DESC", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.AccountID, &d.OwnerUserID, &d.Name, &d.MimeType,
			&d.SizeBytes, &d.StorageKey, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete removes the metadata row. The external object is the storage
// collaborator's problem.
func (r *DocumentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM documents WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrDocumentNotFound)
}
