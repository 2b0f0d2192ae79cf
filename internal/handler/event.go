package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/apperr"
	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/repository"
	"github.com/colegium/campus-api/internal/service"
)

// EventHandler manages scheduled events of the caller's active account.
type EventHandler struct {
	Events       *repository.EventRepo
	Associations *service.AssociationService
}

func NewEventHandler(events *repository.EventRepo, assoc *service.AssociationService) *EventHandler {
	return &EventHandler{Events: events, Associations: assoc}
}

type eventReq struct {
	Title       string    `json:"title" validate:"required,min=1,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	DivisionID  *uint64   `json:"division_id" validate:"omitempty"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
}

type eventPart struct {
	ID          uint64    `json:"id"`
	AccountID   uint64    `json:"account_id"`
	DivisionID  *uint64   `json:"division_id,omitempty"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	CreatedBy   uint64    `json:"created_by"`
}

func toEventPart(e model.Event) eventPart {
	return eventPart{
		ID: e.ID, AccountID: e.AccountID, DivisionID: e.DivisionID,
		Title: e.Title, Description: e.Description,
		StartsAt: e.StartsAt, EndsAt: e.EndsAt, CreatedBy: e.CreatedBy,
	}
}

// Create schedules an event, account-wide unless a division is given.
func (h *EventHandler) Create(c echo.Context) error {
	var req eventReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	if !req.EndsAt.After(req.StartsAt) {
		return fail(c, apperr.Validation("ends_at must be after starts_at"))
	}

	u, scope, err := activeScope(c, h.Associations)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e := model.Event{
		AccountID:   scope.AccountID,
		DivisionID:  req.DivisionID,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		CreatedBy:   u.ID,
	}
	if err := h.Events.Create(ctx, &e); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"event": toEventPart(e)})
}

// Get fetches one event.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"event": toEventPart(e)})
}

// List returns the active account's events; ?division_id narrows to that
// division plus account-wide ones.
func (h *EventHandler) List(c echo.Context) error {
	_, scope, err := activeScope(c, h.Associations)
	if err != nil {
		return fail(c, err)
	}

	var divisionID *uint64
	if c.QueryParam("division_id") != "" {
		id, perr := queryID(c, "division_id")
		if perr != nil {
			return fail(c, perr)
		}
		divisionID = &id
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Events.ListByAccount(ctx, scope.AccountID, divisionID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]eventPart, 0, len(items))
	for _, e := range items {
		out = append(out, toEventPart(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Update rewrites the schedulable fields.
func (h *EventHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req eventReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	if !req.EndsAt.After(req.StartsAt) {
		return fail(c, apperr.Validation("ends_at must be after starts_at"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Events.Update(ctx, model.Event{
		ID: id, Title: req.Title, Description: req.Description,
		DivisionID: req.DivisionID, StartsAt: req.StartsAt, EndsAt: req.EndsAt,
	}); err != nil {
		return fail(c, err)
	}
	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"event": toEventPart(e)})
}

// Delete removes an event and, via the schema, its attendance rows.
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
