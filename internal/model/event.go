package model

import "time"

// Event is a scheduled happening for an account, optionally narrowed to one
// division (nil DivisionID means account-wide).
type Event struct {
	ID          uint64    // events.id
	AccountID   uint64    // events.account_id
	DivisionID  *uint64   // events.division_id (nullable)
	Title       string    // events.title
	Description *string   // events.description (nullable)
	StartsAt    time.Time // events.starts_at
	EndsAt      time.Time // events.ends_at
	CreatedBy   uint64    // events.created_by (users.id)
	CreatedAt   time.Time // events.created_at
	UpdatedAt   time.Time // events.updated_at
}

// AttendanceStatus is the closed set of attendance marks.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// ParseAttendanceStatus validates a raw attendance status.
func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	switch AttendanceStatus(s) {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return AttendanceStatus(s), true
	}
	return "", false
}

// Attendance records one student's mark for one event. The (event, student)
// pair is unique; corrections update the existing row.
type Attendance struct {
	ID         uint64           // attendance.id
	EventID    uint64           // attendance.event_id
	StudentID  uint64           // attendance.student_id
	Status     AttendanceStatus // attendance.status
	RecordedBy uint64           // attendance.recorded_by (users.id)
	RecordedAt time.Time        // attendance.recorded_at
}

// Activity is a recurring or planned classroom activity, distinct from an
// event in that it always belongs to a division.
type Activity struct {
	ID           uint64    // activities.id
	AccountID    uint64    // activities.account_id
	DivisionID   uint64    // activities.division_id
	Title        string    // activities.title
	Description  *string   // activities.description (nullable)
	ScheduledFor time.Time // activities.scheduled_for
	CreatedBy    uint64    // activities.created_by
	CreatedAt    time.Time // activities.created_at
	UpdatedAt    time.Time // activities.updated_at
}
