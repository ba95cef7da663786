package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/internship-portal/internal/model"
	"github.com/iliyamo/internship-portal/internal/utils"
)

// Directory is CRUD over users plus resolution of their student or
// recruiter profile.  Creating a user and its profile are two separate
// steps without a transaction around them; UsersWithoutProfile and
// RepairProfiles reconcile users left behind between the two.
type Directory struct {
	users      UserStore
	students   StudentStore
	recruiters RecruiterStore
	companies  CompanyStore
	hasher     utils.Hasher
	logger     *slog.Logger
}

// stepsTimeout bounds a multi-step write once it has been detached from
// its caller.
const stepsTimeout = 5 * time.Second

// detach keeps the values of ctx but not its cancellation, so a client
// that goes away cannot stop a multi-step write halfway.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), stepsTimeout)
}

func NewDirectory(users UserStore, students StudentStore, recruiters RecruiterStore, companies CompanyStore,
	hasher utils.Hasher, logger *slog.Logger) *Directory {
	return &Directory{
		users:      users,
		students:   students,
		recruiters: recruiters,
		companies:  companies,
		hasher:     hasher,
		logger:     logger,
	}
}

// CreateUser stores a new active user with roles {user}.
func (d *Directory) CreateUser(ctx context.Context, reg model.Registration) (model.User, error) {
	if !reg.UserType.Valid() {
		return model.User{}, fmt.Errorf("%w: userType must be student or recruiter", model.ErrValidation)
	}
	return d.create(ctx, reg, model.Roles{model.RoleUser})
}

// CreateAdmin stores a new active user with roles {admin} and no user type.
func (d *Directory) CreateAdmin(ctx context.Context, reg model.Registration) (model.User, error) {
	reg.UserType = model.UserTypeNone
	return d.create(ctx, reg, model.Roles{model.RoleAdmin})
}

func (d *Directory) create(ctx context.Context, reg model.Registration, roles model.Roles) (model.User, error) {
	email := model.NormalizeEmail(reg.Email)
	if email == "" || !strings.Contains(email, "@") {
		return model.User{}, fmt.Errorf("%w: email is invalid", model.ErrValidation)
	}
	if reg.Password == "" {
		return model.User{}, fmt.Errorf("%w: password is required", model.ErrValidation)
	}
	if len(reg.Password) > utils.MaxPasswordBytes {
		return model.User{}, fmt.Errorf("%w: password exceeds %d bytes", model.ErrValidation, utils.MaxPasswordBytes)
	}

	hash, err := d.hasher.Hash(reg.Password)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(reg.FirstName),
		LastName:     strings.TrimSpace(reg.LastName),
		MobileNumber: reg.MobileNumber,
		CountryCode:  reg.CountryCode,
		Roles:        roles,
		UserType:     reg.UserType,
		IsActive:     true,
	}
	if err := d.users.Create(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// CreateProfile allocates the empty profile matching u.UserType and links
// it to u.  It is safe to call again after a partial failure: a linked
// user gets its existing profile back, and a profile row created before a
// failed link is reused rather than duplicated.
func (d *Directory) CreateProfile(ctx context.Context, u model.User) (model.Profile, error) {
	if u.ProfileID != nil {
		p, err := d.loadProfile(ctx, u)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, model.ErrNotFound) {
			return model.Profile{}, err
		}
		// dangling link: fall through and recreate
	}

	var p model.Profile
	switch u.UserType {
	case model.UserTypeStudent:
		s, err := d.students.FindByUserID(ctx, u.ID)
		if errors.Is(err, model.ErrNotFound) {
			s, err = d.students.Create(ctx, u.ID)
		}
		if err != nil {
			return model.Profile{}, fmt.Errorf("create student profile: %w", err)
		}
		p = model.StudentProfile(s)
	case model.UserTypeRecruiter:
		r, err := d.recruiters.FindByUserID(ctx, u.ID)
		if errors.Is(err, model.ErrNotFound) {
			r, err = d.recruiters.Create(ctx, u.ID)
		}
		if err != nil {
			return model.Profile{}, fmt.Errorf("create recruiter profile: %w", err)
		}
		p = model.RecruiterProfile(r)
	default:
		return model.Profile{}, fmt.Errorf("%w: user %d has no profile type", model.ErrValidation, u.ID)
	}

	if err := d.users.LinkProfile(ctx, u.ID, p.ID()); err != nil {
		return model.Profile{}, fmt.Errorf("link profile: %w", err)
	}
	return p, nil
}

func (d *Directory) loadProfile(ctx context.Context, u model.User) (model.Profile, error) {
	if u.ProfileID == nil {
		return model.Profile{}, model.ErrProfileMissing
	}
	switch u.UserType {
	case model.UserTypeStudent:
		s, err := d.students.GetByID(ctx, *u.ProfileID)
		if err != nil {
			return model.Profile{}, err
		}
		return model.StudentProfile(s), nil
	case model.UserTypeRecruiter:
		r, err := d.recruiters.GetByID(ctx, *u.ProfileID)
		if err != nil {
			return model.Profile{}, err
		}
		return model.RecruiterProfile(r), nil
	}
	return model.Profile{}, model.ErrProfileMissing
}

// GetByID resolves a user with its profile inlined.  Users still in the
// profileless window come back with a nil Profile.
func (d *Directory) GetByID(ctx context.Context, id uint64) (*model.Principal, error) {
	u, err := d.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.principal(ctx, u)
}

func (d *Directory) principal(ctx context.Context, u model.User) (*model.Principal, error) {
	if u.ProfileID == nil {
		return model.NewPrincipal(u, nil), nil
	}
	p, err := d.loadProfile(ctx, u)
	switch {
	case err == nil:
		return model.NewPrincipal(u, &p), nil
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrProfileMissing):
		d.logger.Warn("user profile link is dangling", "user_id", u.ID, "profile_id", *u.ProfileID)
		return model.NewPrincipal(u, nil), nil
	default:
		return nil, err
	}
}

// GetByEmail returns the stored user, password hash included, without its
// profile.  It is only meant for credential checks.
func (d *Directory) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return d.users.GetByEmail(ctx, model.NormalizeEmail(email))
}

// UpdateRoles replaces the role set of a user.  Empty sets and unknown
// roles are rejected.
func (d *Directory) UpdateRoles(ctx context.Context, id uint64, roles []model.Role) (*model.Principal, error) {
	var set model.Roles
	for _, r := range roles {
		if !r.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", model.ErrValidation, r)
		}
		if !set.Has(r) {
			set = append(set, r)
		}
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: roles must not be empty", model.ErrValidation)
	}
	if err := d.users.UpdateRoles(ctx, id, set); err != nil {
		return nil, err
	}
	return d.GetByID(ctx, id)
}

// SetActive activates or deactivates a user.
func (d *Directory) SetActive(ctx context.Context, id uint64, active bool) (*model.Principal, error) {
	if err := d.users.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	return d.GetByID(ctx, id)
}

// DeleteUser removes a user and everything it owns, children first:
// educations, experiences and applications of a student, or the company of
// a recruiter, then the profile row, then the user.  A failed deletion can
// be retried; rows already removed are skipped.  Once started the
// deletion runs to the end even if ctx is cancelled.
func (d *Directory) DeleteUser(ctx context.Context, id uint64) error {
	ctx, cancel := detach(ctx)
	defer cancel()

	u, err := d.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	profileID, err := d.ownedProfileID(ctx, u)
	if err != nil {
		return err
	}
	if profileID != 0 {
		switch u.UserType {
		case model.UserTypeStudent:
			if err := d.students.DeleteOwned(ctx, profileID); err != nil {
				return fmt.Errorf("delete student rows: %w", err)
			}
			if err := d.students.Delete(ctx, profileID); err != nil && !errors.Is(err, model.ErrNotFound) {
				return fmt.Errorf("delete student: %w", err)
			}
		case model.UserTypeRecruiter:
			if err := d.companies.DeleteByRecruiter(ctx, profileID); err != nil {
				return fmt.Errorf("delete company: %w", err)
			}
			if err := d.recruiters.Delete(ctx, profileID); err != nil && !errors.Is(err, model.ErrNotFound) {
				return fmt.Errorf("delete recruiter: %w", err)
			}
		}
	}

	if err := d.users.Delete(ctx, id); err != nil {
		return err
	}
	d.logger.Info("user deleted", "user_id", id, "user_type", string(u.UserType))
	return nil
}

// ownedProfileID finds the profile row of u, including one created by an
// interrupted registration that never got linked.  Zero means none.
func (d *Directory) ownedProfileID(ctx context.Context, u model.User) (uint64, error) {
	if u.ProfileID != nil {
		return *u.ProfileID, nil
	}
	var (
		id  uint64
		err error
	)
	switch u.UserType {
	case model.UserTypeStudent:
		var s model.Student
		s, err = d.students.FindByUserID(ctx, u.ID)
		id = s.ID
	case model.UserTypeRecruiter:
		var r model.Recruiter
		r, err = d.recruiters.FindByUserID(ctx, u.ID)
		id = r.ID
	default:
		return 0, nil
	}
	if errors.Is(err, model.ErrNotFound) {
		return 0, nil
	}
	return id, err
}

// ListUsers returns every user without password hashes.
func (d *Directory) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := d.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return sanitize(users), nil
}

// UsersWithoutProfile lists users whose registration stopped between the
// user step and the profile step.
func (d *Directory) UsersWithoutProfile(ctx context.Context) ([]model.User, error) {
	users, err := d.users.ListWithoutProfile(ctx)
	if err != nil {
		return nil, err
	}
	return sanitize(users), nil
}

// RepairProfiles runs CreateProfile for every profileless user and reports
// how many were fixed.  Failures are collected, not fatal.
func (d *Directory) RepairProfiles(ctx context.Context) (int, error) {
	users, err := d.users.ListWithoutProfile(ctx)
	if err != nil {
		return 0, err
	}
	var (
		repaired int
		errs     []error
	)
	for _, u := range users {
		if _, err := d.CreateProfile(ctx, u); err != nil {
			errs = append(errs, fmt.Errorf("user %d: %w", u.ID, err))
			continue
		}
		repaired++
	}
	if repaired > 0 {
		d.logger.Info("profiles repaired", "count", repaired, "failed", len(errs))
	}
	return repaired, errors.Join(errs...)
}

func sanitize(users []model.User) []model.User {
	out := make([]model.User, len(users))
	for i, u := range users {
		out[i] = u.Sanitized()
	}
	return out
}
