package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/apperr"
	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/repository"
)

// AttendanceHandler records and corrects per-student marks for events.
type AttendanceHandler struct {
	Attendance *repository.AttendanceRepo
}

func NewAttendanceHandler(attendance *repository.AttendanceRepo) *AttendanceHandler {
	return &AttendanceHandler{Attendance: attendance}
}

type attendancePart struct {
	ID         uint64    `json:"id"`
	EventID    uint64    `json:"event_id"`
	StudentID  uint64    `json:"student_id"`
	Status     string    `json:"status"`
	RecordedBy uint64    `json:"recorded_by"`
	RecordedAt time.Time `json:"recorded_at"`
}

func toAttendancePart(a model.Attendance) attendancePart {
	return attendancePart{
		ID: a.ID, EventID: a.EventID, StudentID: a.StudentID,
		Status: string(a.Status), RecordedBy: a.RecordedBy, RecordedAt: a.RecordedAt,
	}
}

type attendanceReq struct {
	StudentID uint64 `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

// Record marks one student for one event. A second mark for the same pair
// conflicts; corrections go through Update.
func (h *AttendanceHandler) Record(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req attendanceReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	status, ok := model.ParseAttendanceStatus(req.Status)
	if !ok {
		return fail(c, apperr.Validation("unknown attendance status"))
	}
	u, err := caller(c)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := model.Attendance{
		EventID:    eventID,
		StudentID:  req.StudentID,
		Status:     status,
		RecordedBy: u.ID,
	}
	if err := h.Attendance.Record(ctx, &a); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"attendance": toAttendancePart(a)})
}

// Update corrects an existing mark.
func (h *AttendanceHandler) Update(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req attendanceReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	status, ok := model.ParseAttendanceStatus(req.Status)
	if !ok {
		return fail(c, apperr.Validation("unknown attendance status"))
	}
	u, err := caller(c)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Attendance.Update(ctx, eventID, req.StudentID, status, u.ID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByEvent returns every mark of one event.
func (h *AttendanceHandler) ListByEvent(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Attendance.ListByEvent(ctx, eventID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]attendancePart, 0, len(items))
	for _, a := range items {
		out = append(out, toAttendancePart(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListByStudent returns one student's history, newest first.
func (h *AttendanceHandler) ListByStudent(c echo.Context) error {
	studentID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Attendance.ListByStudent(ctx, studentID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]attendancePart, 0, len(items))
	for _, a := range items {
		out = append(out, toAttendancePart(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
