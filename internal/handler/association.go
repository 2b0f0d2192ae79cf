package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/apperr"
	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/service"
)

// AssociationHandler administers the grants linking users to accounts.
type AssociationHandler struct {
	Associations *service.AssociationService
}

func NewAssociationHandler(assoc *service.AssociationService) *AssociationHandler {
	return &AssociationHandler{Associations: assoc}
}

type inviteReq struct {
	UserID     uint64             `json:"user_id" validate:"required"`
	RoleID     uint64             `json:"role_id" validate:"required"`
	DivisionID *uint64            `json:"division_id" validate:"omitempty"`
	StudentID  *uint64            `json:"student_id" validate:"omitempty"`
	Overrides  []model.Permission `json:"overrides" validate:"omitempty,dive"`
}

// Invite creates a PENDING association inside the caller's active account.
func (h *AssociationHandler) Invite(c echo.Context) error {
	var req inviteReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	for _, p := range req.Overrides {
		if !validModule(p.Module) {
			return fail(c, apperr.Validation("unknown module in overrides: "+p.Module))
		}
		for _, a := range p.Actions {
			if !validAction(a) {
				return fail(c, apperr.Validation("unknown action in overrides: "+a))
			}
		}
	}

	_, scope, err := activeScope(c, h.Associations)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := model.Association{
		UserID:     req.UserID,
		AccountID:  scope.AccountID,
		RoleID:     req.RoleID,
		DivisionID: req.DivisionID,
		StudentID:  req.StudentID,
		Overrides:  req.Overrides,
	}
	if err := h.Associations.Invite(ctx, &a); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"association": toAssociationPart(a)})
}

// Approve moves a PENDING association to ACTIVE.
func (h *AssociationHandler) Approve(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Associations.Approve(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"association": toAssociationPart(a)})
}

// Deactivate moves an association to INACTIVE and clears any active pointer
// referencing it. Safe to repeat.
func (h *AssociationHandler) Deactivate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Associations.Deactivate(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"association": toAssociationPart(a)})
}

// List returns the active account's associations, optionally filtered by
// ?status=PENDING|ACTIVE|INACTIVE.
func (h *AssociationHandler) List(c echo.Context) error {
	var status model.AssociationStatus
	if s := c.QueryParam("status"); s != "" {
		parsed, ok := model.ParseAssociationStatus(s)
		if !ok {
			return fail(c, apperr.Validation("unknown status"))
		}
		status = parsed
	}

	_, scope, err := activeScope(c, h.Associations)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Associations.ListByAccount(ctx, scope.AccountID, status)
	if err != nil {
		return fail(c, err)
	}
	out := make([]associationPart, 0, len(items))
	for _, a := range items {
		out = append(out, toAssociationPart(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

func validModule(m string) bool {
	for _, known := range model.AllModules {
		if known == m {
			return true
		}
	}
	return false
}

func validAction(a string) bool {
	for _, known := range model.AllActions {
		if known == a {
			return true
		}
	}
	return false
}
