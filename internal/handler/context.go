package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/service"
)

// ContextHandler exposes the "acting as" endpoints: listing the caller's
// switchable associations and reading/setting the active one.
type ContextHandler struct {
	Associations *service.AssociationService
}

func NewContextHandler(assoc *service.AssociationService) *ContextHandler {
	return &ContextHandler{Associations: assoc}
}

type associationPart struct {
	ID         uint64  `json:"id"`
	AccountID  uint64  `json:"account_id"`
	RoleID     uint64  `json:"role_id"`
	DivisionID *uint64 `json:"division_id,omitempty"`
	StudentID  *uint64 `json:"student_id,omitempty"`
	Status     string  `json:"status"`
}

func toAssociationPart(a model.Association) associationPart {
	return associationPart{
		ID: a.ID, AccountID: a.AccountID, RoleID: a.RoleID,
		DivisionID: a.DivisionID, StudentID: a.StudentID, Status: string(a.Status),
	}
}

type activePart struct {
	AssociationID uint64  `json:"association_id"`
	AccountID     uint64  `json:"account_id"`
	RoleID        uint64  `json:"role_id"`
	DivisionID    *uint64 `json:"division_id,omitempty"`
	StudentID     *uint64 `json:"student_id,omitempty"`
}

// ListAvailable returns the associations the caller may switch to (ACTIVE
// only), for the context-switch UI.
func (h *ContextHandler) ListAvailable(c echo.Context) error {
	u, err := caller(c)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Associations.ListAvailable(ctx, u.ID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]associationPart, 0, len(items))
	for _, a := range items {
		out = append(out, toAssociationPart(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// SetActive switches the caller's current context to one of their ACTIVE
// associations.
func (h *ContextHandler) SetActive(c echo.Context) error {
	var req struct {
		AssociationID uint64 `json:"association_id" validate:"required"`
	}
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	u, err := caller(c)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ptr, err := h.Associations.SetActive(ctx, u.ID, req.AssociationID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"active": activePart{
		AssociationID: ptr.AssociationID, AccountID: ptr.AccountID,
		RoleID: ptr.RoleID, DivisionID: ptr.DivisionID, StudentID: ptr.StudentID,
	}})
}

// GetActive resolves the caller's current context, healing stale pointers.
// "No active association" surfaces as its own not-found code rather than an
// empty body so clients can prompt a context selection.
func (h *ContextHandler) GetActive(c echo.Context) error {
	u, err := caller(c)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ptr, err := h.Associations.GetActive(ctx, u.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"active": activePart{
		AssociationID: ptr.AssociationID, AccountID: ptr.AccountID,
		RoleID: ptr.RoleID, DivisionID: ptr.DivisionID, StudentID: ptr.StudentID,
	}})
}

// ClearActive drops the caller's pointer.
func (h *ContextHandler) ClearActive(c echo.Context) error {
	u, err := caller(c)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Associations.ClearActive(ctx, u.ID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
