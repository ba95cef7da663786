package model

import "time"

// KYCStatus is the review state of a company verification request.
type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
)

// Company is the KYC ("Know Your Company") record a recruiter submits for
// its employer.  A recruiter owns at most one; it is deleted together with
// the recruiter.
type Company struct {
	ID                 uint64     `json:"id"`
	RecruiterID        uint64     `json:"recruiterId"`
	Name               string     `json:"companyName"`
	Website            string     `json:"companyUrl"`
	RegistrationNumber string     `json:"registrationNumber"`
	Address            string     `json:"address"`
	Status             KYCStatus  `json:"status"`
	CreatedAt          time.Time  `json:"createdAt"`
	VerifiedAt         *time.Time `json:"verifiedAt,omitempty"`
}

// AdminDashboard aggregates platform-wide counters.
type AdminDashboard struct {
	Companies       int     `json:"companies"`
	Students        int     `json:"students"`
	Recruiters      int     `json:"recruiters"`
	Internships     int     `json:"internships"`
	Applications    int     `json:"applications"`
	Views           uint64  `json:"views"`
	ApplicationRate float64 `json:"applicationRate"`
}

// RecruiterDashboard aggregates counters over one recruiter's postings.
type RecruiterDashboard struct {
	Internships     int     `json:"internships"`
	Applicants      int     `json:"applicants"`
	Views           uint64  `json:"views"`
	ApplicationRate float64 `json:"applicationRate"`
	KYCStatus       string  `json:"kycStatus,omitempty"`
}

// ApplicationRate is applications per internship view.  It is zero when
// nothing has been viewed yet.
func ApplicationRate(applications int, views uint64) float64 {
	if views == 0 {
		return 0
	}
	return float64(applications) / float64(views)
}
