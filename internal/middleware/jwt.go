// Package middleware contains the reusable HTTP middleware: bearer-token
// authentication, permission gating, rate limiting and response caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/apperr"
	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/service"
)

// Context keys written by JWTAuth and read by handlers/middleware.
const (
	ctxUser   = "user"    // model.User of the authenticated caller
	ctxUserID = "user_id" // uint64 convenience copy
)

// JWTAuth validates the Bearer access token and loads the caller on every
// request. Expired and malformed tokens fail with distinct codes; a user
// that disappeared or lost approval since the token was minted is rejected
// even though the signature still verifies. The loaded model.User is stored
// in the Echo context for handlers and downstream middleware.
func JWTAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"code": "missing_bearer", "error": "missing bearer token",
				})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			u, err := auth.Authenticate(c.Request().Context(), raw)
			if err != nil {
				return c.JSON(apperr.HTTPStatus(apperr.KindOf(err)), echo.Map{
					"code": apperr.CodeOf(err), "error": err.Error(),
				})
			}

			c.Set(ctxUser, u)
			c.Set(ctxUserID, u.ID)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated caller stored by JWTAuth.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(ctxUser).(model.User)
	return u, ok
}
