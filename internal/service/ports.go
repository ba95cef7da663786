// Package service holds the business logic of the portal: the user
// directory, the authentication orchestrator and the internship, profile
// and dashboard services.  Services depend on the store interfaces below;
// internal/repository provides the MySQL implementations.
package service

import (
	"context"

	"github.com/iliyamo/internship-portal/internal/model"
)

// UserStore persists users.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	LinkProfile(ctx context.Context, userID, profileID uint64) error
	UpdateRoles(ctx context.Context, id uint64, roles model.Roles) error
	SetActive(ctx context.Context, id uint64, active bool) error
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context) ([]model.User, error)
	ListWithoutProfile(ctx context.Context) ([]model.User, error)
	CountByType(ctx context.Context, t model.UserType) (int, error)
}

// StudentStore persists student profiles and their owned rows.
type StudentStore interface {
	Create(ctx context.Context, userID uint64) (model.Student, error)
	GetByID(ctx context.Context, id uint64) (model.Student, error)
	FindByUserID(ctx context.Context, userID uint64) (model.Student, error)
	AddEducation(ctx context.Context, e *model.Education) error
	AddExperience(ctx context.Context, e *model.Experience) error
	DeleteOwned(ctx context.Context, studentID uint64) error
	Delete(ctx context.Context, id uint64) error
}

// RecruiterStore persists recruiter profiles.
type RecruiterStore interface {
	Create(ctx context.Context, userID uint64) (model.Recruiter, error)
	GetByID(ctx context.Context, id uint64) (model.Recruiter, error)
	FindByUserID(ctx context.Context, userID uint64) (model.Recruiter, error)
	SetCompany(ctx context.Context, recruiterID, companyID uint64) error
	Delete(ctx context.Context, id uint64) error
}

// CompanyStore persists KYC company records.
type CompanyStore interface {
	Create(ctx context.Context, c *model.Company) error
	Resubmit(ctx context.Context, c *model.Company) error
	GetByID(ctx context.Context, id uint64) (model.Company, error)
	FindByRecruiter(ctx context.Context, recruiterID uint64) (model.Company, error)
	SetStatus(ctx context.Context, id uint64, status model.KYCStatus) error
	List(ctx context.Context) ([]model.Company, error)
	Count(ctx context.Context) (int, error)
	DeleteByRecruiter(ctx context.Context, recruiterID uint64) error
}

// InternshipStore persists internships and applications.
type InternshipStore interface {
	Create(ctx context.Context, in *model.Internship) error
	GetByID(ctx context.Context, id uint64) (model.Internship, error)
	IncrementViews(ctx context.Context, id uint64) error
	List(ctx context.Context, offset, limit int) ([]model.Internship, int, error)
	Totals(ctx context.Context, recruiterID uint64) (int, uint64, error)
	Apply(ctx context.Context, studentID, internshipID uint64) error
	CountApplications(ctx context.Context, recruiterID uint64) (int, error)
	Applicants(ctx context.Context, recruiterID uint64) ([]model.Applicant, error)
}
