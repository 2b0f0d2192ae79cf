package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/service"
)

// RequirePermission gates a route on one (module, action) pair of the
// permission grid. The effective role comes from the caller's active
// association when one exists, falling back to the static role; association
// overrides win over the role grid module-by-module. There is no named-role
// shortcut anywhere: administrators pass because their seeded grid is full.
func RequirePermission(assoc *service.AssociationService, module, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"code": "unauthorized", "error": "authentication required",
				})
			}
			allowed, err := assoc.Can(c.Request().Context(), u, module, action)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"code": "internal", "error": "permission check failed",
				})
			}
			if !allowed {
				return c.JSON(http.StatusForbidden, echo.Map{
					"code": "forbidden", "error": "insufficient permissions",
				})
			}
			return next(c)
		}
	}
}
