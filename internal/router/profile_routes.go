package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-portal/internal/handler"
	"github.com/iliyamo/internship-portal/internal/middleware"
)

// RegisterStudent registers /student.  Profiles are readable by any user;
// writes act on the caller's own profile.
func RegisterStudent(g *echo.Group, s *handler.StudentHandler) {
	own := middleware.RequireRole(student)

	students := g.Group("/student")
	students.GET("/profile/:id", s.Profile, middleware.RequireRole(userOrAdmin))
	students.POST("/education", s.AddEducation, own)
	students.POST("/experience", s.AddExperience, own)
	students.POST("/apply/:id", s.Apply, own)
}

// RegisterRecruiter registers /recruiter.
func RegisterRecruiter(g *echo.Group, r *handler.RecruiterHandler) {
	own := middleware.RequireRole(recruiter)

	recruiters := g.Group("/recruiter")
	recruiters.GET("/kyc/:id", r.KYC, middleware.RequireRole(userOrAdmin))
	recruiters.POST("/applykyc", r.ApplyKYC, own)
	recruiters.GET("/dashboard", r.Dashboard, own)
	recruiters.GET("/applicants", r.Applicants, own)
}
