package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-portal/internal/middleware"
	"github.com/iliyamo/internship-portal/internal/model"
)

// InternshipHandler serves /internship.
type InternshipHandler struct {
	Internships InternshipService
}

func NewInternshipHandler(i InternshipService) *InternshipHandler {
	return &InternshipHandler{Internships: i}
}

type internshipReq struct {
	JobName          string    `json:"jobName" validate:"required,max=200"`
	CompanyName      string    `json:"companyName" validate:"required,max=200"`
	CompanyURL       string    `json:"companyUrl" validate:"omitempty,url,max=300"`
	AboutCompany     string    `json:"aboutCompany" validate:"max=2000"`
	JobDescription   string    `json:"jobDescription" validate:"required,max=5000"`
	Skills           []string  `json:"skills" validate:"dive,required,max=100"`
	NoOfOpening      int       `json:"noOfOpening" validate:"min=1"`
	MinStipend       int       `json:"minStipen" validate:"min=0"`
	MaxStipend       int       `json:"maxStipen" validate:"min=0,gtefield=MinStipend"`
	CurrencyType     string    `json:"currencyType" validate:"omitempty,len=3"`
	InternshipType   string    `json:"internshipType" validate:"required,max=50"`
	InternshipPeriod int       `json:"internshipPeriod" validate:"min=0"`
	ApplyBy          time.Time `json:"applyBy" validate:"required"`
	StartDate        time.Time `json:"startDate" validate:"required"`
	Responsibilities []string  `json:"responsibilities" validate:"dive,required"`
	WhoCanApply      []string  `json:"whoCanApply" validate:"dive,required"`
}

// List returns one page of internships, newest first.  The route is public
// and cached.
func (h *InternshipHandler) List(c echo.Context) error {
	var page, limit int
	if err := echo.QueryParamsBinder(c).Int("page", &page).Int("limit", &limit).BindError(); err != nil {
		return fmt.Errorf("%w: page and limit must be numbers", model.ErrValidation)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Internships.List(ctx, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Get returns internship :id and counts the view.
func (h *InternshipHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	in, err := h.Internships.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, in)
}

// Create posts an internship as the calling recruiter.
func (h *InternshipHandler) Create(c echo.Context) error {
	var req internshipReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	in, err := h.Internships.Create(ctx, middleware.PrincipalFrom(c), model.Internship{
		JobName:          req.JobName,
		CompanyName:      req.CompanyName,
		CompanyURL:       req.CompanyURL,
		AboutCompany:     req.AboutCompany,
		JobDescription:   req.JobDescription,
		Skills:           req.Skills,
		NoOfOpening:      req.NoOfOpening,
		MinStipend:       req.MinStipend,
		MaxStipend:       req.MaxStipend,
		CurrencyType:     req.CurrencyType,
		InternshipType:   req.InternshipType,
		InternshipPeriod: req.InternshipPeriod,
		ApplyBy:          req.ApplyBy,
		StartDate:        req.StartDate,
		Responsibilities: req.Responsibilities,
		WhoCanApply:      req.WhoCanApply,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, in)
}
