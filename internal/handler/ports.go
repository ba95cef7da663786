package handler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-portal/internal/model"
	"github.com/iliyamo/internship-portal/internal/service"
)

// requestTimeout bounds the store work of one request.
const requestTimeout = 5 * time.Second

// AuthService is implemented by *service.Auth.
type AuthService interface {
	Register(ctx context.Context, reg model.Registration) (*model.Principal, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	Refresh(ctx context.Context, raw string) (service.TokenPair, error)
	Logout(ctx context.Context, rawTokens ...string) error
	RegisterAdmin(ctx context.Context, reg model.Registration, adminToken string) (*model.Principal, error)
	LoginAdmin(ctx context.Context, email, password, adminToken string) (*service.Session, error)
}

// UserService is implemented by *service.Directory.
type UserService interface {
	GetByID(ctx context.Context, id uint64) (*model.Principal, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateRoles(ctx context.Context, id uint64, roles []model.Role) (*model.Principal, error)
	SetActive(ctx context.Context, id uint64, active bool) (*model.Principal, error)
	DeleteUser(ctx context.Context, id uint64) error
	UsersWithoutProfile(ctx context.Context) ([]model.User, error)
	RepairProfiles(ctx context.Context) (int, error)
}

// InternshipService is implemented by *service.Internships.
type InternshipService interface {
	Create(ctx context.Context, p *model.Principal, in model.Internship) (model.Internship, error)
	List(ctx context.Context, page, limit int) (model.Page[model.Internship], error)
	Get(ctx context.Context, id uint64) (model.Internship, error)
	Apply(ctx context.Context, p *model.Principal, internshipID uint64) error
	Applicants(ctx context.Context, p *model.Principal) ([]model.Applicant, error)
}

// ProfileService is implemented by *service.Profiles.
type ProfileService interface {
	Student(ctx context.Context, id uint64) (model.Student, error)
	AddEducation(ctx context.Context, p *model.Principal, e model.Education) (model.Education, error)
	AddExperience(ctx context.Context, p *model.Principal, e model.Experience) (model.Experience, error)
	ApplyKYC(ctx context.Context, p *model.Principal, c model.Company) (model.Company, error)
	KYC(ctx context.Context, id uint64) (model.Company, error)
	Companies(ctx context.Context) ([]model.Company, error)
	VerifyKYC(ctx context.Context, id uint64) (model.Company, error)
	RejectKYC(ctx context.Context, id uint64) (model.Company, error)
}

// DashboardService is implemented by *service.Dashboards.
type DashboardService interface {
	Admin(ctx context.Context) (model.AdminDashboard, error)
	Recruiter(ctx context.Context, p *model.Principal) (model.RecruiterDashboard, error)
}

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// idParam parses a positive numeric path parameter.
func idParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid %s", model.ErrValidation, name)
	}
	return id, nil
}
