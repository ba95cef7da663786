// Package router registers the HTTP routes and the guards in front of them.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-portal/internal/handler"
	"github.com/iliyamo/internship-portal/internal/middleware"
	"github.com/iliyamo/internship-portal/internal/model"
)

// Guards shared by the route files.  Students and recruiters are regular
// users whose account type matches.
var (
	anyUser     = middleware.Requirement{}
	userOrAdmin = middleware.Requirement{Roles: []model.Role{model.RoleUser, model.RoleAdmin}}
	adminOnly   = middleware.Requirement{Roles: []model.Role{model.RoleAdmin}}
	student     = middleware.Requirement{Roles: []model.Role{model.RoleUser}, UserType: model.UserTypeStudent}
	recruiter   = middleware.Requirement{Roles: []model.Role{model.RoleUser}, UserType: model.UserTypeRecruiter}
)

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, health echo.HandlerFunc, metrics http.Handler) {
	e.GET("/healthz", health)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// API returns the /api/v1 group.  authn runs on every request under it and
// only attaches the principal; the per-route guards reject.
func API(e *echo.Echo, authn echo.MiddlewareFunc) *echo.Group {
	return e.Group("/api/v1", authn)
}

// RegisterAuth registers session endpoints.  None of them need a principal:
// logout takes its tokens from the request itself.
func RegisterAuth(g *echo.Group, a *handler.AuthHandler) {
	auth := g.Group("/auth")
	auth.POST("/register", a.Register)
	auth.POST("/login", a.Login)
	auth.POST("/refresh-token", a.Refresh)
	auth.POST("/logout", a.Logout)
	auth.POST("/adminregister", a.RegisterAdmin)
	auth.POST("/adminlogin", a.LoginAdmin)
}

// RegisterUser registers /user.  Account administration is admin only.
func RegisterUser(g *echo.Group, u *handler.UserHandler) {
	users := g.Group("/user")
	users.GET("/current", u.Current, middleware.RequireRole(anyUser))
	users.GET("", u.List, middleware.RequireRole(adminOnly))
	users.GET("/:id", u.Get, middleware.RequireRole(userOrAdmin))
	users.PUT("/roleUpdate/:id", u.UpdateRoles, middleware.RequireRole(adminOnly))
	users.PUT("/:id/active", u.SetActive, middleware.RequireRole(adminOnly))
	users.DELETE("/delete/:id", u.Delete, middleware.RequireRole(adminOnly))
}
