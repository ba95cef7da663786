package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/internship-portal/internal/model"
)

// UserRepo persists rows of the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,first_name,last_name,mobile_number,country_code,roles,user_type,is_active,profile_id,created_at,updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (model.User, error) {
	var (
		u         model.User
		roles     string
		userType  sql.NullString
		profileID sql.NullInt64
	)
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.MobileNumber,
		&u.CountryCode, &roles, &userType, &u.IsActive, &profileID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Roles = model.ParseRoles(roles)
	u.UserType = model.UserType(userType.String)
	if profileID.Valid {
		id := uint64(profileID.Int64)
		u.ProfileID = &id
	}
	return u, nil
}

// Create inserts u and sets its ID.  The email is expected to be normalized
// already.  A duplicate email yields model.ErrDuplicateEmail.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	var userType any
	if u.UserType != model.UserTypeNone {
		userType = string(u.UserType)
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email,password_hash,first_name,last_name,mobile_number,country_code,roles,user_type,is_active) VALUES (?,?,?,?,?,?,?,?,?)",
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.MobileNumber, u.CountryCode, u.Roles.String(), userType, u.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: %s", model.ErrDuplicateEmail, u.Email)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	return u, notFound(err)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	return u, notFound(err)
}

// LinkProfile stores the profile back-reference of a user.
func (r *UserRepo) LinkProfile(ctx context.Context, userID, profileID uint64) error {
	return expectOne(r.DB.ExecContext(ctx,
		"UPDATE users SET profile_id=? WHERE id=?", profileID, userID))
}

// UpdateRoles replaces the role set of a user.
func (r *UserRepo) UpdateRoles(ctx context.Context, id uint64, roles model.Roles) error {
	return expectOne(r.DB.ExecContext(ctx,
		"UPDATE users SET roles=? WHERE id=?", roles.String(), id))
}

// SetActive flips the is_active flag.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	return expectOne(r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=? WHERE id=?", active, id))
}

// Delete removes the user row only; owned rows are removed by the caller first.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	return expectOne(r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id))
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	return r.query(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
}

// ListWithoutProfile returns profile-owning users whose profile link is
// still empty, i.e. registrations interrupted between the two steps.
func (r *UserRepo) ListWithoutProfile(ctx context.Context) ([]model.User, error) {
	return r.query(ctx, "SELECT "+userColumns+" FROM users WHERE profile_id IS NULL AND user_type IS NOT NULL ORDER BY id")
}

// CountByType counts users of one type.
func (r *UserRepo) CountByType(ctx context.Context, t model.UserType) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE user_type=?", string(t)).Scan(&n)
	return n, err
}

func (r *UserRepo) query(ctx context.Context, q string, args ...any) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
