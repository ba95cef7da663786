package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-portal/internal/middleware"
	"github.com/iliyamo/internship-portal/internal/model"
)

// UserHandler serves /user.
type UserHandler struct {
	Users UserService
}

func NewUserHandler(u UserService) *UserHandler {
	return &UserHandler{Users: u}
}

type rolesReq struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=user admin"`
}

type activeReq struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// Current returns the caller.
func (h *UserHandler) Current(c echo.Context) error {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return model.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, p)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := h.Users.ListUsers(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateRoles replaces the role set of a user.
func (h *UserHandler) UpdateRoles(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req rolesReq
	if err := bind(c, &req); err != nil {
		return err
	}
	roles := make([]model.Role, len(req.Roles))
	for i, r := range req.Roles {
		roles[i] = model.Role(r)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.Users.UpdateRoles(ctx, id, roles)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// SetActive activates or deactivates a user.  Deactivated users keep
// their data but can no longer log in, refresh or pass route guards.
func (h *UserHandler) SetActive(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req activeReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.Users.SetActive(ctx, id, *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes a user together with its profile and owned rows.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Users.DeleteUser(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
