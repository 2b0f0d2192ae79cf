// Package repository contains data access logic separated from HTTP
// handlers. Sentinel errors are built on the apperr taxonomy so handlers can
// map them to HTTP statuses without inspecting SQL driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/colegium/campus-api/internal/apperr"
)

var (
	ErrRoleNotFound         = apperr.NotFound("role not found")
	ErrUserNotFound         = apperr.NotFound("user not found")
	ErrAccountNotFound      = apperr.NotFound("account not found")
	ErrDivisionNotFound     = apperr.NotFound("division not found")
	ErrStudentNotFound      = apperr.NotFound("student not found")
	ErrAssociationNotFound  = apperr.NotFound("association not found")
	ErrNoActiveAssociation  = apperr.New(apperr.KindNotFound, "no_active_association", "no active association")
	ErrEventNotFound        = apperr.NotFound("event not found")
	ErrAttendanceNotFound   = apperr.NotFound("attendance record not found")
	ErrNotificationNotFound = apperr.NotFound("notification not found")
	ErrDocumentNotFound     = apperr.NotFound("document not found")
	ErrActivityNotFound     = apperr.NotFound("activity not found")

	ErrEmailExists      = apperr.New(apperr.KindConflict, "email_exists", "email already exists")
	ErrDNIExists        = apperr.New(apperr.KindConflict, "dni_exists", "dni already exists")
	ErrDivisionExists   = apperr.New(apperr.KindConflict, "division_exists", "division name already exists in account")
	ErrDuplicateRecord  = apperr.Conflict("duplicate record")
	ErrAttendanceExists = apperr.New(apperr.KindConflict, "attendance_exists", "attendance already recorded for student and event")
)

// isDuplicate reports whether err is a MySQL unique-constraint violation
// (error 1062).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
