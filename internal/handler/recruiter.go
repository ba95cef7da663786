package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-portal/internal/middleware"
	"github.com/iliyamo/internship-portal/internal/model"
)

// RecruiterHandler serves /recruiter.
type RecruiterHandler struct {
	Profiles    ProfileService
	Internships InternshipService
	Dashboards  DashboardService
}

func NewRecruiterHandler(p ProfileService, i InternshipService, d DashboardService) *RecruiterHandler {
	return &RecruiterHandler{Profiles: p, Internships: i, Dashboards: d}
}

type kycReq struct {
	CompanyName        string `json:"companyName" validate:"required,max=200"`
	CompanyURL         string `json:"companyUrl" validate:"omitempty,url,max=300"`
	RegistrationNumber string `json:"registrationNumber" validate:"required,max=100"`
	Address            string `json:"address" validate:"max=500"`
}

// KYC returns the company verification record :id.
func (h *RecruiterHandler) KYC(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	company, err := h.Profiles.KYC(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// ApplyKYC submits the caller's company for verification.
func (h *RecruiterHandler) ApplyKYC(c echo.Context) error {
	var req kycReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	company, err := h.Profiles.ApplyKYC(ctx, middleware.PrincipalFrom(c), model.Company{
		Name:               req.CompanyName,
		Website:            req.CompanyURL,
		RegistrationNumber: req.RegistrationNumber,
		Address:            req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, company)
}

func (h *RecruiterHandler) Dashboard(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	d, err := h.Dashboards.Recruiter(ctx, middleware.PrincipalFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *RecruiterHandler) Applicants(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	applicants, err := h.Internships.Applicants(ctx, middleware.PrincipalFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, applicants)
}
