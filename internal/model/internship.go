package model

import "time"

// Internship mirrors the `internships` table.  Skills, Responsibilities and
// WhoCanApply are stored as JSON arrays.  Views counts detail-page reads and
// feeds the application rate on dashboards.
type Internship struct {
	ID               uint64    `json:"id"`
	RecruiterID      uint64    `json:"recruiterId"`
	JobName          string    `json:"jobName"`
	CompanyName      string    `json:"companyName"`
	CompanyURL       string    `json:"companyUrl"`
	AboutCompany     string    `json:"aboutCompany"`
	JobDescription   string    `json:"jobDescription"`
	Skills           []string  `json:"skills"`
	NoOfOpening      int       `json:"noOfOpening"`
	MinStipend       int       `json:"minStipen"`
	MaxStipend       int       `json:"maxStipen"`
	CurrencyType     string    `json:"currencyType"`
	InternshipType   string    `json:"internshipType"`
	InternshipPeriod int       `json:"internshipPeriod"`
	ApplyBy          time.Time `json:"applyBy"`
	StartDate        time.Time `json:"startDate"`
	Responsibilities []string  `json:"responsibilities"`
	WhoCanApply      []string  `json:"whoCanApply"`
	Views            uint64    `json:"views"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Page is one page of a newest-first listing.
type Page[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalCount int `json:"totalCount"`
}

// Applicant is a student who applied to one of a recruiter's internships.
type Applicant struct {
	InternshipID uint64    `json:"internshipId"`
	JobName      string    `json:"jobName"`
	StudentID    uint64    `json:"studentId"`
	UserID       uint64    `json:"userId"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	AppliedAt    time.Time `json:"appliedAt"`
}
