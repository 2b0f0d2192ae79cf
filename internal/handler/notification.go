package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/repository"
	"github.com/colegium/campus-api/internal/service"
)

// NotificationHandler creates and lists in-app notifications. Creation goes
// through the service so the broker event is published alongside the row.
type NotificationHandler struct {
	Notifier      *service.NotificationService
	Notifications *repository.NotificationRepo
	Associations  *service.AssociationService
}

func NewNotificationHandler(notifier *service.NotificationService, repo *repository.NotificationRepo, assoc *service.AssociationService) *NotificationHandler {
	return &NotificationHandler{Notifier: notifier, Notifications: repo, Associations: assoc}
}

type notificationPart struct {
	ID        uint64     `json:"id"`
	AccountID uint64     `json:"account_id"`
	UserID    *uint64    `json:"user_id,omitempty"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toNotificationPart(n model.Notification) notificationPart {
	return notificationPart{
		ID: n.ID, AccountID: n.AccountID, UserID: n.UserID,
		Title: n.Title, Body: n.Body, ReadAt: n.ReadAt, CreatedAt: n.CreatedAt,
	}
}

// Create sends a notification to one user or, with no user_id, to the whole
// active account.
func (h *NotificationHandler) Create(c echo.Context) error {
	var req struct {
		UserID *uint64 `json:"user_id" validate:"omitempty"`
		Title  string  `json:"title" validate:"required,min=1,max=200"`
		Body   string  `json:"body" validate:"required,min=1,max=4000"`
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

	n := model.Notification{
		AccountID: scope.AccountID,
		UserID:    req.UserID,
		Title:     req.Title,
		Body:      req.Body,
	}
	if err := h.Notifier.Create(ctx, &n); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"notification": toNotificationPart(n)})
}

// List returns the caller's notifications in the active account: the ones
// addressed to them plus the account-wide ones, newest first.
func (h *NotificationHandler) List(c echo.Context) error {
	u, scope, err := activeScope(c, h.Associations)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Notifications.ListForUser(ctx, scope.AccountID, u.ID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]notificationPart, 0, len(items))
	for _, n := range items {
		out = append(out, toNotificationPart(n))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// MarkRead stamps read_at. Already-read notifications stay as they were.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
