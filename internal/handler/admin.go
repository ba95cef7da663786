package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-portal/internal/model"
)

// AdminHandler serves /admin.
type AdminHandler struct {
	Profiles   ProfileService
	Dashboards DashboardService
	Users      UserService
}

func NewAdminHandler(p ProfileService, d DashboardService, u UserService) *AdminHandler {
	return &AdminHandler{Profiles: p, Dashboards: d, Users: u}
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	d, err := h.Dashboards.Admin(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AdminHandler) Companies(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	companies, err := h.Profiles.Companies(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, companies)
}

func (h *AdminHandler) VerifyKYC(c echo.Context) error {
	return h.review(c, h.Profiles.VerifyKYC)
}

func (h *AdminHandler) RejectKYC(c echo.Context) error {
	return h.review(c, h.Profiles.RejectKYC)
}

func (h *AdminHandler) review(c echo.Context, decide func(context.Context, uint64) (model.Company, error)) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	company, err := decide(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// Profileless lists users whose registration stopped before the profile
// was linked.
func (h *AdminHandler) Profileless(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := h.Users.UsersWithoutProfile(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// RepairProfiles finishes interrupted registrations.
func (h *AdminHandler) RepairProfiles(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	n, err := h.Users.RepairProfiles(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"repaired": n})
}
