package repository

import (
	"context"
	"database/sql"

	"github.com/colegium/campus-api/internal/model"
)

// AttendanceRepo records per-student marks for events. The (event, student)
// pair is unique; corrections go through Update.
type AttendanceRepo struct{ DB *sql.DB }

func NewAttendanceRepo(db *sql.DB) *AttendanceRepo { return &AttendanceRepo{DB: db} }

const attendanceCols = "id,event_id,student_id,status,recorded_by,recorded_at"

// Record inserts a new mark; a second insert for the same pair conflicts.
func (r *AttendanceRepo) Record(ctx context.Context, a *model.Attendance) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO attendance (event_id,student_id,status,recorded_by) VALUES (?,?,?,?)",
		a.EventID, a.StudentID, string(a.Status), a.RecordedBy)
	if err != nil {
		if isDuplicate(err) {
			return ErrAttendanceExists
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

// Update corrects an existing mark.
func (r *AttendanceRepo) Update(ctx context.Context, eventID, studentID uint64, status model.AttendanceStatus, recordedBy uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE attendance SET status=?, recorded_by=?, recorded_at=NOW() WHERE event_id=? AND student_id=?",
		string(status), recordedBy, eventID, studentID)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrAttendanceNotFound)
}

// ListByEvent returns all marks of one event.
func (r *AttendanceRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Attendance, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+attendanceCols+" FROM attendance WHERE event_id=? ORDER BY student_id", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendance(rows)
}

// ListByStudent returns one student's history, newest first.
func (r *AttendanceRepo) ListByStudent(ctx context.Context, studentID uint64) ([]model.Attendance, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+attendanceCols+" FROM attendance WHERE student_id=? ORDER BY recorded_at DESC", studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendance(rows)
}

func scanAttendance(s rowScanner) (model.Attendance, error) {
	var (
		a      model.Attendance
		status string
	)
	if err := s.Scan(&a.ID, &a.EventID, &a.StudentID, &status, &a.RecordedBy, &a.RecordedAt); err != nil {
		return model.Attendance{}, err
	}
	a.Status = model.AttendanceStatus(status)
	return a, nil
}

func collectAttendance(rows *sql.Rows) ([]model.Attendance, error) {
	var out []model.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
