package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/colegium/campus-api/internal/model"
)

// StudentRepo handles student records. Students never authenticate; access
// to them flows through guardian associations.
type StudentRepo struct{ DB *sql.DB }

func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{DB: db} }

const studentCols = "id,account_id,division_id,name,dni,email,qr_code,avatar_url,created_at,updated_at"

// Create inserts a student; DNI is unique platform-wide.
func (r *StudentRepo) Create(ctx context.Context, s *model.Student) error {
	s.DNI = strings.TrimSpace(s.DNI)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO students (account_id,division_id,name,dni,email,qr_code,avatar_url) VALUES (?,?,?,?,?,?,?)",
		s.AccountID, s.DivisionID, s.Name, s.DNI, s.Email, s.QRCode, s.AvatarURL)
	if err != nil {
		if isDuplicate(err) {
			return ErrDNIExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID fetches one student.
func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (model.Student, error) {
	s, err := scanStudent(r.DB.QueryRowContext(ctx,
		"SELECT "+studentCols+" FROM students WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Student{}, ErrStudentNotFound
	}
	return s, err
}

// ListByDivision returns a division's students by name.
func (r *StudentRepo) ListByDivision(ctx context.Context, divisionID uint64) ([]model.Student, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+studentCols+" FROM students WHERE division_id=? ORDER BY name", divisionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStudents(rows)
}

// ListByAccount returns all students of an account.
func (r *StudentRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.Student, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+studentCols+" FROM students WHERE account_id=? ORDER BY name", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStudents(rows)
}

// Update rewrites the mutable fields (name, division, email, avatar).
func (r *StudentRepo) Update(ctx context.Context, id uint64, name string, divisionID uint64, email, avatarURL *string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE students SET name=?, division_id=?, email=?, avatar_url=? WHERE id=?",
		name, divisionID, email, avatarURL, id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrStudentNotFound)
}

func scanStudent(s rowScanner) (model.Student, error) {
	var st model.Student
	err := s.Scan(&st.ID, &st.AccountID, &st.DivisionID, &st.Name, &st.DNI,
		&st.Email, &st.QRCode, &st.AvatarURL, &st.CreatedAt, &st.UpdatedAt)
	return st, err
}

func collectStudents(rows *sql.Rows) ([]model.Student, error) {
	var out []model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
