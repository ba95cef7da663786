package model

import (
	"encoding/json"
	"time"
)

// EducationStatus is the progress of an education or experience entry.
type EducationStatus string

const (
	StatusPursuing  EducationStatus = "pursuing"
	StatusCompleted EducationStatus = "completed"
)

// Education is owned by a student profile and deleted with it.
type Education struct {
	ID            uint64          `json:"id"`
	StudentID     uint64          `json:"-"`
	InstituteName string          `json:"instituteName"`
	Degree        string          `json:"degree"`
	FieldOfStudy  string          `json:"fieldOfStudy"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	Status        EducationStatus `json:"status"`
}

// Experience is owned by a student profile and deleted with it.
type Experience struct {
	ID               uint64          `json:"id"`
	StudentID        uint64          `json:"-"`
	ExperienceType   string          `json:"experienceType"`
	ExperienceStatus EducationStatus `json:"experienceStatus"`
	Designation      string          `json:"designation"`
	Company          string          `json:"company"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	Description      string          `json:"description,omitempty"`
}

// Student is the profile of a student user.  AppliedJobs is ordered by
// application time and only ever grows from the student's side.
type Student struct {
	ID              uint64       `json:"id"`
	UserID          uint64       `json:"userId"`
	Gender          string       `json:"gender,omitempty"`
	CurrentLocation string       `json:"currentLocation,omitempty"`
	AppliedJobs     []uint64     `json:"appliedJobs"`
	Educations      []Education  `json:"education"`
	Experiences     []Experience `json:"experience"`
}

// Recruiter is the profile of a recruiter user.  KYC points at the company
// row once the recruiter has applied for verification.
type Recruiter struct {
	ID                uint64   `json:"id"`
	UserID            uint64   `json:"userId"`
	Gender            string   `json:"gender,omitempty"`
	CurrentLocation   string   `json:"currentLocation,omitempty"`
	PostedInternships []uint64 `json:"postedInternship"`
	KYC               *uint64  `json:"kyc,omitempty"`
}

// Profile is a tagged variant holding exactly one of Student or Recruiter.
// The zero value holds nothing.
type Profile struct {
	kind      UserType
	student   *Student
	recruiter *Recruiter
}

// StudentProfile wraps s as a Profile.
func StudentProfile(s Student) Profile {
	return Profile{kind: UserTypeStudent, student: &s}
}

// RecruiterProfile wraps r as a Profile.
func RecruiterProfile(r Recruiter) Profile {
	return Profile{kind: UserTypeRecruiter, recruiter: &r}
}

// Type reports which variant p holds.
func (p Profile) Type() UserType { return p.kind }

// ID returns the row id of the held variant, or 0.
func (p Profile) ID() uint64 {
	switch p.kind {
	case UserTypeStudent:
		return p.student.ID
	case UserTypeRecruiter:
		return p.recruiter.ID
	}
	return 0
}

// Student returns the student data when p is a student profile.
func (p Profile) Student() (*Student, bool) {
	if p.kind != UserTypeStudent {
		return nil, false
	}
	return p.student, true
}

// Recruiter returns the recruiter data when p is a recruiter profile.
func (p Profile) Recruiter() (*Recruiter, bool) {
	if p.kind != UserTypeRecruiter {
		return nil, false
	}
	return p.recruiter, true
}

// MarshalJSON inlines the held variant.
func (p Profile) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case UserTypeStudent:
		return json.Marshal(p.student)
	case UserTypeRecruiter:
		return json.Marshal(p.recruiter)
	}
	return []byte("null"), nil
}

// Principal is a user resolved together with its profile.  It is what the
// access-control middleware attaches to a request, and what user lookups
// return.  The password hash is always stripped.
type Principal struct {
	User
	Profile *Profile `json:"profile"`
}

// NewPrincipal builds a principal from u and an optional profile.
func NewPrincipal(u User, p *Profile) *Principal {
	return &Principal{User: u.Sanitized(), Profile: p}
}

// StudentProfile returns the student data or ErrProfileMissing while the
// profile row has not been linked yet, or ErrForbidden for other user types.
func (p *Principal) StudentProfile() (*Student, error) {
	if p.UserType != UserTypeStudent {
		return nil, ErrForbidden
	}
	if p.Profile == nil {
		return nil, ErrProfileMissing
	}
	s, ok := p.Profile.Student()
	if !ok {
		return nil, ErrProfileMissing
	}
	return s, nil
}

// RecruiterProfile is the recruiter counterpart of StudentProfile.
func (p *Principal) RecruiterProfile() (*Recruiter, error) {
	if p.UserType != UserTypeRecruiter {
		return nil, ErrForbidden
	}
	if p.Profile == nil {
		return nil, ErrProfileMissing
	}
	r, ok := p.Profile.Recruiter()
	if !ok {
		return nil, ErrProfileMissing
	}
	return r, nil
}
