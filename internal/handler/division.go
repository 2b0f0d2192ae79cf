package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/repository"
	"github.com/colegium/campus-api/internal/service"
)

// DivisionHandler manages the divisions (classrooms/grades) of the caller's
// active account.
type DivisionHandler struct {
	Divisions    *repository.DivisionRepo
	Associations *service.AssociationService
}

func NewDivisionHandler(divisions *repository.DivisionRepo, assoc *service.AssociationService) *DivisionHandler {
	return &DivisionHandler{Divisions: divisions, Associations: assoc}
}

type divisionPart struct {
	ID          uint64  `json:"id"`
	AccountID   uint64  `json:"account_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsActive    bool    `json:"is_active"`
}

func toDivisionPart(d model.Division) divisionPart {
	return divisionPart{ID: d.ID, AccountID: d.AccountID, Name: d.Name, Description: d.Description, IsActive: d.IsActive}
}

// Create adds a division; the name is unique within the account.
func (h *DivisionHandler) Create(c echo.Context) error {
	var req struct {
		Name        string  `json:"name" validate:"required,min=1,max=120"`
		Description *string `json:"description" validate:"omitempty,max=500"`
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

	d := model.Division{AccountID: scope.AccountID, Name: req.Name, Description: req.Description}
	if err := h.Divisions.Create(ctx, &d); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"division": toDivisionPart(d)})
}

// Get fetches one division.
func (h *DivisionHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Divisions.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"division": toDivisionPart(d)})
}

// List returns the active account's divisions.
func (h *DivisionHandler) List(c echo.Context) error {
	_, scope, err := activeScope(c, h.Associations)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Divisions.ListByAccount(ctx, scope.AccountID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]divisionPart, 0, len(items))
	for _, d := range items {
		out = append(out, toDivisionPart(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Update rewrites name, description and the active flag.
func (h *DivisionHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req struct {
		Name        string  `json:"name" validate:"required,min=1,max=120"`
		Description *string `json:"description" validate:"omitempty,max=500"`
		IsActive    *bool   `json:"is_active" validate:"required"`
	}
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Divisions.Update(ctx, id, req.Name, req.Description, *req.IsActive); err != nil {
		return fail(c, err)
	}
	d, err := h.Divisions.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"division": toDivisionPart(d)})
}
