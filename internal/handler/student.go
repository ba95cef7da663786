package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-portal/internal/middleware"
	"github.com/iliyamo/internship-portal/internal/model"
)

// StudentHandler serves /student.
type StudentHandler struct {
	Profiles    ProfileService
	Internships InternshipService
}

func NewStudentHandler(p ProfileService, i InternshipService) *StudentHandler {
	return &StudentHandler{Profiles: p, Internships: i}
}

type educationReq struct {
	InstituteName string    `json:"instituteName" validate:"required,max=200"`
	Degree        string    `json:"degree" validate:"required,max=100"`
	FieldOfStudy  string    `json:"fieldOfStudy" validate:"required,max=100"`
	StartDate     time.Time `json:"startDate" validate:"required"`
	EndDate       time.Time `json:"endDate" validate:"required,gtefield=StartDate"`
	Status        string    `json:"status" validate:"required,oneof=pursuing completed"`
}

type experienceReq struct {
	ExperienceType   string    `json:"experienceType" validate:"required,oneof=job internship freelance training"`
	ExperienceStatus string    `json:"experienceStatus" validate:"required,oneof=pursuing completed"`
	Designation      string    `json:"designation" validate:"required,max=100"`
	Company          string    `json:"company" validate:"required,max=200"`
	StartDate        time.Time `json:"startDate" validate:"required"`
	EndDate          time.Time `json:"endDate" validate:"required,gtefield=StartDate"`
	Description      string    `json:"description" validate:"max=2000"`
}

// Profile returns a student profile with its education, experience and
// applications.
func (h *StudentHandler) Profile(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := h.Profiles.Student(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *StudentHandler) AddEducation(c echo.Context) error {
	var req educationReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	e, err := h.Profiles.AddEducation(ctx, middleware.PrincipalFrom(c), model.Education{
		InstituteName: req.InstituteName,
		Degree:        req.Degree,
		FieldOfStudy:  req.FieldOfStudy,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        model.EducationStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *StudentHandler) AddExperience(c echo.Context) error {
	var req experienceReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	e, err := h.Profiles.AddExperience(ctx, middleware.PrincipalFrom(c), model.Experience{
		ExperienceType:   req.ExperienceType,
		ExperienceStatus: model.EducationStatus(req.ExperienceStatus),
		Designation:      req.Designation,
		Company:          req.Company,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Description:      req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

// Apply records an application of the caller to internship :id.
func (h *StudentHandler) Apply(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Internships.Apply(ctx, middleware.PrincipalFrom(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"internshipId": id})
}
