package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/repository"
	"github.com/colegium/campus-api/internal/service"
)

// UserHandler covers user administration: the approval queue, account member
// listings and profile updates.
type UserHandler struct {
	Users        *repository.UserRepo
	Associations *service.AssociationService
}

func NewUserHandler(users *repository.UserRepo, assoc *service.AssociationService) *UserHandler {
	return &UserHandler{Users: users, Associations: assoc}
}

// List returns the members of the caller's active account.
func (h *UserHandler) List(c echo.Context) error {
	_, scope, err := activeScope(c, h.Associations)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.ListByAccount(ctx, scope.AccountID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, toUserPart(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListPending returns the registration approval queue, newest first.
func (h *UserHandler) ListPending(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.ListByStatus(ctx, model.UserPending)
	if err != nil {
		return fail(c, err)
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, toUserPart(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get fetches one user.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

// UpdateProfile lets the caller edit their own profile fields.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req struct {
		Name      string  `json:"name" validate:"required,min=2,max=120"`
		Phone     *string `json:"phone" validate:"omitempty,max=32"`
		AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
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

	if err := h.Users.UpdateProfile(ctx, u.ID, req.Name, req.Phone, req.AvatarURL); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Approve moves a PENDING user to APPROVED so they can log in.
func (h *UserHandler) Approve(c echo.Context) error {
	return h.setStatus(c, model.UserApproved)
}

// Reject moves a user to REJECTED; future logins fail with account_rejected.
func (h *UserHandler) Reject(c echo.Context) error {
	return h.setStatus(c, model.UserRejected)
}

func (h *UserHandler) setStatus(c echo.Context, status model.UserStatus) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.UpdateStatus(ctx, id, status); err != nil {
		return fail(c, err)
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}
