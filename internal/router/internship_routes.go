package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-portal/internal/handler"
	"github.com/iliyamo/internship-portal/internal/middleware"
)

// RegisterInternship registers /internship.  The list is public and goes
// through cache; details count views and need a login.
func RegisterInternship(g *echo.Group, i *handler.InternshipHandler, cache echo.MiddlewareFunc) {
	internships := g.Group("/internship")
	if cache != nil {
		internships.GET("", i.List, cache)
	} else {
		internships.GET("", i.List)
	}
	internships.GET("/:id", i.Get, middleware.RequireRole(userOrAdmin))
	internships.POST("", i.Create, middleware.RequireRole(recruiter))
}
