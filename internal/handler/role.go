package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/repository"
)

// RoleHandler exposes the seeded role catalog read-only. Permission edits are
// an operational task against the database, not an API surface.
type RoleHandler struct {
	Roles *repository.RoleRepo
}

func NewRoleHandler(roles *repository.RoleRepo) *RoleHandler {
	return &RoleHandler{Roles: roles}
}

type rolePart struct {
	ID          uint64             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Level       int                `json:"level"`
	Permissions []model.Permission `json:"permissions"`
}

func toRolePart(r model.Role) rolePart {
	return rolePart{
		ID: r.ID, Name: string(r.Name), Description: r.Description,
		Level: r.Level, Permissions: r.Permissions,
	}
}

// List returns the catalog ordered by hierarchy level.
func (h *RoleHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	roles, err := h.Roles.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	out := make([]rolePart, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRolePart(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get fetches one role with its grid.
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	r, err := h.Roles.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"role": toRolePart(r)})
}
