package model

import (
	"sort"
	"strings"
	"time"
)

// Role is an authorization role carried by a user and embedded in access
// tokens.  Only RoleUser and RoleAdmin exist.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// Roles is the set of roles held by a user.  It is stored in the users.roles
// column as a MySQL SET, which travels over the wire as "user,admin".
type Roles []Role

// ParseRoles splits a comma separated SET value into Roles.  Unknown and
// duplicate entries are dropped.
func ParseRoles(s string) Roles {
	var out Roles
	for _, p := range strings.Split(s, ",") {
		r := Role(strings.ToLower(strings.TrimSpace(p)))
		if r.Valid() && !out.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// String renders the set in the SET column format with a stable order.
func (rs Roles) String() string {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		parts = append(parts, string(r))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// Has reports whether r is in the set.
func (rs Roles) Has(r Role) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}

// Strings returns the roles as plain strings, in order, for token claims.
func (rs Roles) Strings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

// UserType selects which profile variant a user owns.  It is fixed at
// registration.  Admin bootstrap accounts have UserTypeNone and no profile.
type UserType string

const (
	UserTypeNone      UserType = ""
	UserTypeStudent   UserType = "student"
	UserTypeRecruiter UserType = "recruiter"
)

// Valid reports whether t names a profile-owning user type.
func (t UserType) Valid() bool { return t == UserTypeStudent || t == UserTypeRecruiter }

// User represents an application user record as stored in the `users`
// table.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hash; never serialized.
//	Roles        – non-empty role set (user, admin).
//	UserType     – student or recruiter, immutable after creation.
//	IsActive     – inactive users cannot log in or refresh.
//	ProfileID    – id of the owned student/recruiter row; nil until the
//	               profile step of registration has completed.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	MobileNumber string    `json:"mobileNumber,omitempty"`
	CountryCode  string    `json:"countryCode,omitempty"`
	Roles        Roles     `json:"roles"`
	UserType     UserType  `json:"userType,omitempty"`
	IsActive     bool      `json:"isActive"`
	ProfileID    *uint64   `json:"profileId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitized returns a copy of u without the password hash.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// NormalizeEmail trims and lower-cases an email so that uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Registration carries the validated input of a sign-up request.
type Registration struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	UserType     UserType
	MobileNumber string
	CountryCode  string
}
