package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/repository"
	"github.com/colegium/campus-api/internal/service"
)

// ActivityHandler manages planned classroom activities. Unlike events,
// activities always belong to a division.
type ActivityHandler struct {
	Activities   *repository.ActivityRepo
	Associations *service.AssociationService
}

func NewActivityHandler(activities *repository.ActivityRepo, assoc *service.AssociationService) *ActivityHandler {
	return &ActivityHandler{Activities: activities, Associations: assoc}
}

type activityReq struct {
	DivisionID   uint64    `json:"division_id" validate:"required"`
	Title        string    `json:"title" validate:"required,min=1,max=200"`
	Description  *string   `json:"description" validate:"omitempty,max=2000"`
	ScheduledFor time.Time `json:"scheduled_for" validate:"required"`
}

type activityPart struct {
	ID           uint64    `json:"id"`
	AccountID    uint64    `json:"account_id"`
	DivisionID   uint64    `json:"division_id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	ScheduledFor time.Time `json:"scheduled_for"`
	CreatedBy    uint64    `json:"created_by"`
}

func toActivityPart(a model.Activity) activityPart {
	return activityPart{
		ID: a.ID, AccountID: a.AccountID, DivisionID: a.DivisionID,
		Title: a.Title, Description: a.Description,
		ScheduledFor: a.ScheduledFor, CreatedBy: a.CreatedBy,
	}
}

// Create plans an activity for a division of the active account.
func (h *ActivityHandler) Create(c echo.Context) error {
	var req activityReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	u, scope, err := activeScope(c, h.Associations)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := model.Activity{
		AccountID:    scope.AccountID,
		DivisionID:   req.DivisionID,
		Title:        req.Title,
		Description:  req.Description,
		ScheduledFor: req.ScheduledFor,
		CreatedBy:    u.ID,
	}
	if err := h.Activities.Create(ctx, &a); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"activity": toActivityPart(a)})
}

// Get fetches one activity.
func (h *ActivityHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Activities.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"activity": toActivityPart(a)})
}

// List returns a division's activities (?division_id required), soonest first.
func (h *ActivityHandler) List(c echo.Context) error {
	divisionID, err := queryID(c, "division_id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Activities.ListByDivision(ctx, divisionID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]activityPart, 0, len(items))
	for _, a := range items {
		out = append(out, toActivityPart(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Update rewrites the mutable fields.
func (h *ActivityHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req activityReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Activities.Update(ctx, model.Activity{
		ID: id, Title: req.Title, Description: req.Description, ScheduledFor: req.ScheduledFor,
	}); err != nil {
		return fail(c, err)
	}
	a, err := h.Activities.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"activity": toActivityPart(a)})
}

// Delete removes an activity.
func (h *ActivityHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Activities.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
