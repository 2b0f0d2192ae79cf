package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/repository"
	"github.com/colegium/campus-api/internal/utils"
)

// AccountHandler manages tenant institutions. Onboarding provisions the
// administrator user and its ACTIVE association in the same transaction as
// the account row.
type AccountHandler struct {
	Accounts   *repository.AccountRepo
	Roles      *repository.RoleRepo
	BcryptCost int
}

func NewAccountHandler(accounts *repository.AccountRepo, roles *repository.RoleRepo, bcryptCost int) *AccountHandler {
	return &AccountHandler{Accounts: accounts, Roles: roles, BcryptCost: bcryptCost}
}

type createAccountReq struct {
	Name      string `json:"name" validate:"required,min=2,max=120"`
	LegalName string `json:"legal_name" validate:"required,min=2,max=200"`
	Address   string `json:"address" validate:"required,max=300"`
	Admin     struct {
		Name     string `json:"name" validate:"required,min=2,max=120"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8,max=72"`
	} `json:"admin" validate:"required"`
}

type accountPart struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	LegalName   string    `json:"legal_name"`
	Address     string    `json:"address"`
	AdminUserID *uint64   `json:"admin_user_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAccountPart(a model.Account) accountPart {
	return accountPart{
		ID: a.ID, Name: a.Name, LegalName: a.LegalName, Address: a.Address,
		AdminUserID: a.AdminUserID, IsActive: a.IsActive, CreatedAt: a.CreatedAt,
	}
}

// Create onboards an account together with its administrator.
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	role, err := h.Roles.GetByName(ctx, model.RoleAdminAccount)
	if err != nil {
		return fail(c, err)
	}
	hash, err := utils.HashPassword(req.Admin.Password, h.BcryptCost)
	if err != nil {
		return fail(c, err)
	}

	acc := model.Account{Name: req.Name, LegalName: req.LegalName, Address: req.Address}
	admin := model.User{
		Name:         req.Admin.Name,
		Email:        req.Admin.Email,
		PasswordHash: hash,
		RoleID:       role.ID,
	}
	if err := h.Accounts.CreateWithAdmin(ctx, &acc, &admin); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"account": toAccountPart(acc),
		"admin":   toUserPart(admin),
	})
}

// Get fetches one account.
func (h *AccountHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"account": toAccountPart(a)})
}

// List returns every account, active first.
func (h *AccountHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Accounts.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	out := make([]accountPart, 0, len(items))
	for _, a := range items {
		out = append(out, toAccountPart(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Update rewrites the descriptive fields and the active flag.
func (h *AccountHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req struct {
		Name      string `json:"name" validate:"required,min=2,max=120"`
		LegalName string `json:"legal_name" validate:"required,min=2,max=200"`
		Address   string `json:"address" validate:"required,max=300"`
		IsActive  *bool  `json:"is_active" validate:"required"`
	}
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Accounts.Update(ctx, id, req.Name, req.LegalName, req.Address, *req.IsActive); err != nil {
		return fail(c, err)
	}
	a, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"account": toAccountPart(a)})
}
