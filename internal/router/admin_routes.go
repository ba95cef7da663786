package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-portal/internal/handler"
	"github.com/iliyamo/internship-portal/internal/middleware"
)

// RegisterAdmin registers /admin; every route needs the admin role.
func RegisterAdmin(g *echo.Group, a *handler.AdminHandler) {
	admin := g.Group("/admin", middleware.RequireRole(adminOnly))
	admin.GET("/dashboard", a.Dashboard)
	admin.GET("/companies", a.Companies)
	admin.PUT("/verifykyc/:id", a.VerifyKYC)
	admin.PUT("/rejectkyc/:id", a.RejectKYC)
	admin.GET("/maintenance/profileless", a.Profileless)
	admin.POST("/maintenance/profileless/repair", a.RepairProfiles)
}
