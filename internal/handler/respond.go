// Package handler implements the REST endpoints. Handlers bind and validate
// the request, delegate to services/repositories and translate the error
// taxonomy to HTTP exactly once, in fail() below.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/apperr"
	"github.com/colegium/campus-api/internal/middleware"
	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/service"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// fail maps any error to its HTTP response. apperr values keep their kind,
// code and message; everything else is a masked 500.
func fail(c echo.Context, err error) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return c.JSON(apperr.HTTPStatus(e.Kind), echo.Map{"code": e.Code, "error": e.Msg})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"code": "internal", "error": "internal error"})
}

// bind binds and validates a request DTO in one step.
func bind(c echo.Context, dto any) error {
	if err := c.Bind(dto); err != nil {
		return apperr.Validation("invalid request body")
	}
	return c.Validate(dto)
}

// caller returns the authenticated user stored by the JWT middleware.
func caller(c echo.Context) (model.User, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return model.User{}, apperr.Unauthorized("authentication required")
	}
	return u, nil
}

// activeScope resolves the caller's current tenant context. Handlers that
// read or write account-scoped data require a selected context; callers
// without one get no_active_association back and must pick one first.
func activeScope(c echo.Context, assoc *service.AssociationService) (model.User, model.ActiveAssociation, error) {
	u, err := caller(c)
	if err != nil {
		return model.User{}, model.ActiveAssociation{}, err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ptr, err := assoc.GetActive(ctx, u.ID)
	if err != nil {
		return model.User{}, model.ActiveAssociation{}, err
	}
	return u, ptr, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid " + name)
	}
	return id, nil
}

// queryID parses a numeric query parameter.
func queryID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.QueryParam(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid " + name)
	}
	return id, nil
}
