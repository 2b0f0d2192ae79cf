package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/repository"
	"github.com/colegium/campus-api/internal/service"
)

// StudentHandler manages student records within the caller's active account.
type StudentHandler struct {
	Students     *repository.StudentRepo
	Associations *service.AssociationService
}

func NewStudentHandler(students *repository.StudentRepo, assoc *service.AssociationService) *StudentHandler {
	return &StudentHandler{Students: students, Associations: assoc}
}

type studentPart struct {
	ID         uint64  `json:"id"`
	AccountID  uint64  `json:"account_id"`
	DivisionID uint64  `json:"division_id"`
	Name       string  `json:"name"`
	DNI        string  `json:"dni"`
	Email      *string `json:"email,omitempty"`
	QRCode     string  `json:"qr_code"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
}

func toStudentPart(s model.Student) studentPart {
	return studentPart{
		ID: s.ID, AccountID: s.AccountID, DivisionID: s.DivisionID,
		Name: s.Name, DNI: s.DNI, Email: s.Email, QRCode: s.QRCode, AvatarURL: s.AvatarURL,
	}
}

// Create registers a student and mints the QR credential identifier.
func (h *StudentHandler) Create(c echo.Context) error {
	var req struct {
		DivisionID uint64  `json:"division_id" validate:"required"`
		Name       string  `json:"name" validate:"required,min=2,max=120"`
		DNI        string  `json:"dni" validate:"required,min=4,max=32"`
		Email      *string `json:"email" validate:"omitempty,email"`
		AvatarURL  *string `json:"avatar_url" validate:"omitempty,url"`
	}
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	_, scope, err := activeScope(c, h.Associations)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := model.Student{
		AccountID:  scope.AccountID,
		DivisionID: req.DivisionID,
		Name:       req.Name,
		DNI:        req.DNI,
		Email:      req.Email,
		QRCode:     uuid.NewString(),
		AvatarURL:  req.AvatarURL,
	}
	if err := h.Students.Create(ctx, &s); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"student": toStudentPart(s)})
}

// Get fetches one student.
func (h *StudentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Students.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"student": toStudentPart(s)})
}

// List returns the active account's students; ?division_id narrows to one
// division.
func (h *StudentHandler) List(c echo.Context) error {
	_, scope, err := activeScope(c, h.Associations)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	var items []model.Student
	if c.QueryParam("division_id") != "" {
		divisionID, perr := queryID(c, "division_id")
		if perr != nil {
			return fail(c, perr)
		}
		items, err = h.Students.ListByDivision(ctx, divisionID)
	} else {
		items, err = h.Students.ListByAccount(ctx, scope.AccountID)
	}
	if err != nil {
		return fail(c, err)
	}
	out := make([]studentPart, 0, len(items))
	for _, s := range items {
		out = append(out, toStudentPart(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Update rewrites the mutable fields. The QR code and DNI never change here.
func (h *StudentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req struct {
		Name       string  `json:"name" validate:"required,min=2,max=120"`
		DivisionID uint64  `json:"division_id" validate:"required"`
		Email      *string `json:"email" validate:"omitempty,email"`
		AvatarURL  *string `json:"avatar_url" validate:"omitempty,url"`
	}
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Students.Update(ctx, id, req.Name, req.DivisionID, req.Email, req.AvatarURL); err != nil {
		return fail(c, err)
	}
	s, err := h.Students.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"student": toStudentPart(s)})
}
