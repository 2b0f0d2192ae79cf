package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/apperr"
	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/repository"
	"github.com/colegium/campus-api/internal/service"
)

// AuthHandler bundles the dependencies of the auth endpoints.
type AuthHandler struct {
	Auth  *service.AuthService
	Roles *repository.RoleRepo
}

func NewAuthHandler(auth *service.AuthService, roles *repository.RoleRepo) *AuthHandler {
	return &AuthHandler{Auth: auth, Roles: roles}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty"` // defaults to tutor
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutReq struct {
	RefreshToken string `json:"refresh_token" validate:"omitempty"`
	All          bool   `json:"all" validate:"omitempty"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type userPart struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	RoleID uint64 `json:"role_id"`
	Status string `json:"status"`
}

type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, Name: u.Name, Email: u.Email, RoleID: u.RoleID, Status: string(u.Status)}
}

func device(c echo.Context) service.Device {
	return service.Device{
		UserAgent: c.Request().UserAgent(),
		IP:        c.RealIP(),
	}
}

// Register creates a PENDING user. No tokens are issued; the account waits
// for administrator approval.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	roleName := model.RoleTutor
	if s := strings.TrimSpace(req.Role); s != "" {
		parsed, ok := model.ParseRoleName(s)
		if !ok {
			return fail(c, apperr.Validation("unknown role"))
		}
		roleName = parsed
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	role, err := h.Roles.GetByName(ctx, roleName)
	if err != nil {
		return fail(c, err)
	}
	u, err := h.Auth.Register(ctx, req.Name, req.Email, req.Password, role.ID, role.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": toUserPart(u)})
}

// Login verifies credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, pair, err := h.Auth.Login(ctx, req.Email, req.Password, device(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, authResp{
		User:    toUserPart(u),
		Access:  tokenPart{Token: pair.Access.Token, Expires: pair.Access.Exp},
		Refresh: tokenPart{Token: pair.Refresh.Raw, Expires: pair.Refresh.Exp}, // raw goes back to the client once
	})
}

// Refresh rotates a refresh token and returns a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, pair, err := h.Auth.Refresh(ctx, req.RefreshToken, device(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, authResp{
		User:    toUserPart(u),
		Access:  tokenPart{Token: pair.Access.Token, Expires: pair.Access.Exp},
		Refresh: tokenPart{Token: pair.Refresh.Raw, Expires: pair.Refresh.Exp},
	})
}

// Logout revokes a single session (refresh token in the body) or, when
// "all" is set, every session of the authenticated caller. Runs behind
// JWTAuth so revoke-all always has a verified user.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if req.All {
		u, err := caller(c)
		if err != nil {
			return fail(c, err)
		}
		if err := h.Auth.LogoutAll(ctx, u.ID); err != nil {
			return fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		return fail(c, apperr.Validation("refresh_token or all required"))
	}
	if err := h.Auth.Logout(ctx, req.RefreshToken); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated caller.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := caller(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

// ChangePassword verifies the current password before storing a new hash.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req struct {
		Current string `json:"current_password" validate:"required"`
		Next    string `json:"new_password" validate:"required,min=8,max=72"`
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

	if err := h.Auth.ChangePassword(ctx, u.ID, req.Current, req.Next); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
