// Package router wires handlers, middleware and routes onto the Echo
// instance. Route registration is the single place where the permission grid
// meets the URL space: every protected route names its (module, action) pair.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/colegium/campus-api/internal/handler"
	"github.com/colegium/campus-api/internal/middleware"
	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/service"
)

// Handlers aggregates every handler the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Context       *handler.ContextHandler
	Associations  *handler.AssociationHandler
	Users         *handler.UserHandler
	Accounts      *handler.AccountHandler
	Divisions     *handler.DivisionHandler
	Students      *handler.StudentHandler
	Events        *handler.EventHandler
	Attendance    *handler.AttendanceHandler
	Notifications *handler.NotificationHandler
	Documents     *handler.DocumentHandler
	Activities    *handler.ActivityHandler
	Roles         *handler.RoleHandler
}

// Register mounts all routes. publicCache may be a pass-through; it is only
// mounted on routes whose response does not depend on the caller's identity.
func Register(e *echo.Echo, h Handlers, auth *service.AuthService, assoc *service.AssociationService, rateLimit, publicCache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1", rateLimit)

	// Authentication: everything except logout-all works without a token.
	ag := v1.Group("/auth")
	ag.POST("/register", h.Auth.Register)
	ag.POST("/login", h.Auth.Login)
	ag.POST("/refresh", h.Auth.Refresh)
	ag.POST("/logout", h.Auth.Logout, middleware.JWTAuth(auth))
	ag.GET("/me", h.Auth.Me, middleware.JWTAuth(auth))
	ag.PUT("/password", h.Auth.ChangePassword, middleware.JWTAuth(auth))

	// Everything below requires a verified caller.
	api := v1.Group("", middleware.JWTAuth(auth))

	perm := func(module, action string) echo.MiddlewareFunc {
		return middleware.RequirePermission(assoc, module, action)
	}

	// Context switching needs no grid permission: a caller may always inspect
	// and select among their own associations.
	cg := api.Group("/context")
	cg.GET("/associations", h.Context.ListAvailable)
	cg.GET("/active", h.Context.GetActive)
	cg.PUT("/active", h.Context.SetActive)
	cg.DELETE("/active", h.Context.ClearActive)

	// Association administration inside the active account.
	sg := api.Group("/associations")
	sg.POST("", h.Associations.Invite, perm(model.ModuleAsociaciones, model.ActionCrear))
	sg.GET("", h.Associations.List, perm(model.ModuleAsociaciones, model.ActionLeer))
	sg.POST("/:id/approve", h.Associations.Approve, perm(model.ModuleAsociaciones, model.ActionActualizar))
	sg.POST("/:id/deactivate", h.Associations.Deactivate, perm(model.ModuleAsociaciones, model.ActionActualizar))

	ug := api.Group("/users")
	ug.GET("", h.Users.List, perm(model.ModuleUsuarios, model.ActionLeer))
	ug.GET("/pending", h.Users.ListPending, perm(model.ModuleUsuarios, model.ActionActualizar))
	ug.GET("/:id", h.Users.Get, perm(model.ModuleUsuarios, model.ActionLeer))
	ug.PUT("/me", h.Users.UpdateProfile)
	ug.POST("/:id/approve", h.Users.Approve, perm(model.ModuleUsuarios, model.ActionActualizar))
	ug.POST("/:id/reject", h.Users.Reject, perm(model.ModuleUsuarios, model.ActionActualizar))

	acg := api.Group("/accounts")
	acg.POST("", h.Accounts.Create, perm(model.ModuleCuentas, model.ActionCrear))
	acg.GET("", h.Accounts.List, perm(model.ModuleCuentas, model.ActionLeer))
	acg.GET("/:id", h.Accounts.Get, perm(model.ModuleCuentas, model.ActionLeer))
	acg.PUT("/:id", h.Accounts.Update, perm(model.ModuleCuentas, model.ActionActualizar))

	dg := api.Group("/divisions")
	dg.POST("", h.Divisions.Create, perm(model.ModuleDivisiones, model.ActionCrear))
	dg.GET("", h.Divisions.List, perm(model.ModuleDivisiones, model.ActionLeer))
	dg.GET("/:id", h.Divisions.Get, perm(model.ModuleDivisiones, model.ActionLeer))
	dg.PUT("/:id", h.Divisions.Update, perm(model.ModuleDivisiones, model.ActionActualizar))

	stg := api.Group("/students")
	stg.POST("", h.Students.Create, perm(model.ModuleEstudiantes, model.ActionCrear))
	stg.GET("", h.Students.List, perm(model.ModuleEstudiantes, model.ActionLeer))
	stg.GET("/:id", h.Students.Get, perm(model.ModuleEstudiantes, model.ActionLeer))
	stg.PUT("/:id", h.Students.Update, perm(model.ModuleEstudiantes, model.ActionActualizar))
	stg.GET("/:id/attendance", h.Attendance.ListByStudent, perm(model.ModuleAsistencia, model.ActionLeer))

	eg := api.Group("/events")
	eg.POST("", h.Events.Create, perm(model.ModuleEventos, model.ActionCrear))
	eg.GET("", h.Events.List, perm(model.ModuleEventos, model.ActionLeer))
	eg.GET("/:id", h.Events.Get, perm(model.ModuleEventos, model.ActionLeer))
	eg.PUT("/:id", h.Events.Update, perm(model.ModuleEventos, model.ActionActualizar))
	eg.DELETE("/:id", h.Events.Delete, perm(model.ModuleEventos, model.ActionEliminar))
	eg.POST("/:id/attendance", h.Attendance.Record, perm(model.ModuleAsistencia, model.ActionCrear))
	eg.PUT("/:id/attendance", h.Attendance.Update, perm(model.ModuleAsistencia, model.ActionActualizar))
	eg.GET("/:id/attendance", h.Attendance.ListByEvent, perm(model.ModuleAsistencia, model.ActionLeer))

	ng := api.Group("/notifications")
	ng.POST("", h.Notifications.Create, perm(model.ModuleNotificaciones, model.ActionCrear))
	ng.GET("", h.Notifications.List, perm(model.ModuleNotificaciones, model.ActionLeer))
	ng.POST("/:id/read", h.Notifications.MarkRead, perm(model.ModuleNotificaciones, model.ActionLeer))

	dog := api.Group("/documents")
	dog.POST("", h.Documents.Create, perm(model.ModuleDocumentos, model.ActionCrear))
	dog.GET("", h.Documents.List, perm(model.ModuleDocumentos, model.ActionLeer))
	dog.GET("/:id", h.Documents.Get, perm(model.ModuleDocumentos, model.ActionLeer))
	dog.DELETE("/:id", h.Documents.Delete, perm(model.ModuleDocumentos, model.ActionEliminar))

	atg := api.Group("/activities")
	atg.POST("", h.Activities.Create, perm(model.ModuleActividades, model.ActionCrear))
	atg.GET("", h.Activities.List, perm(model.ModuleActividades, model.ActionLeer))
	atg.GET("/:id", h.Activities.Get, perm(model.ModuleActividades, model.ActionLeer))
	atg.PUT("/:id", h.Activities.Update, perm(model.ModuleActividades, model.ActionActualizar))
	atg.DELETE("/:id", h.Activities.Delete, perm(model.ModuleActividades, model.ActionEliminar))

	// The role catalog is identical for everyone, so the response cache is
	// safe here and nowhere else.
	rg := api.Group("/roles")
	rg.GET("", h.Roles.List, perm(model.ModuleRoles, model.ActionLeer), publicCache)
	rg.GET("/:id", h.Roles.Get, perm(model.ModuleRoles, model.ActionLeer), publicCache)
}
