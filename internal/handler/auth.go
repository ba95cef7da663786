package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-portal/internal/middleware"
	"github.com/iliyamo/internship-portal/internal/model"
)

// AuthHandler serves /auth.
type AuthHandler struct {
	Auth AuthService
}

func NewAuthHandler(a AuthService) *AuthHandler {
	return &AuthHandler{Auth: a}
}

// ----- DTOs -----

type registerReq struct {
	FirstName    string `json:"firstName" validate:"required,max=50"`
	LastName     string `json:"lastName" validate:"required,max=50"`
	Email        string `json:"email" validate:"required,email,max=320"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	UserType     string `json:"userType" validate:"required,oneof=student recruiter"`
	MobileNumber string `json:"mobileNumber" validate:"omitempty,max=20"`
	CountryCode  string `json:"countryCode" validate:"omitempty,max=5"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type adminReq struct {
	Email      string `json:"email" validate:"required,email,max=320"`
	Password   string `json:"password" validate:"required,max=72"`
	AdminToken string `json:"adminToken"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type logoutReq struct {
	RefreshToken string `json:"refreshToken"`
}

// Register creates a student or recruiter account and its profile.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.Auth.Register(ctx, model.Registration{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		UserType:     model.UserType(req.UserType),
		MobileNumber: req.MobileNumber,
		CountryCode:  req.CountryCode,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Login returns a token pair and the user.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// Refresh exchanges a refresh token for a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	pair, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pair)
}

// Logout revokes the bearer access token and, when sent, the refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutReq
	if err := bind(c, &req); err != nil {
		return err
	}
	access, _ := middleware.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Auth.Logout(ctx, access, req.RefreshToken); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RegisterAdmin creates an admin account; it needs the bootstrap token.
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req adminReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.Auth.RegisterAdmin(ctx, model.Registration{Email: req.Email, Password: req.Password}, req.AdminToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// LoginAdmin is Login for admins.
func (h *AuthHandler) LoginAdmin(c echo.Context) error {
	var req adminReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := h.Auth.LoginAdmin(ctx, req.Email, req.Password, req.AdminToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}
