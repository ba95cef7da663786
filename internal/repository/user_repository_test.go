package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/internship-portal/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var userCols = []string{"id", "email", "password_hash", "first_name", "last_name", "mobile_number",
	"country_code", "roles", "user_type", "is_active", "profile_id", "created_at", "updated_at"}

func TestUserRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("a@x.com", "hash", "Ann", "Lee", "", "", "user", "student", true).
		WillReturnResult(sqlmock.NewResult(11, 1))

	u := &model.User{Email: "a@x.com", PasswordHash: "hash", FirstName: "Ann", LastName: "Lee",
		Roles: model.Roles{model.RoleUser}, UserType: model.UserTypeStudent, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, uint64(11), u.ID)
}

func TestUserRepo_Create_AdminHasNullType(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("root@x.com", "hash", "", "", "", "", "admin", nil, true).
		WillReturnResult(sqlmock.NewResult(1, 1))

	u := &model.User{Email: "root@x.com", PasswordHash: "hash", Roles: model.Roles{model.RoleAdmin}, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), u))
}

func TestUserRepo_Create_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com' for key 'uq_users_email'"})

	err := repo.Create(context.Background(), &model.User{Email: "a@x.com", Roles: model.Roles{model.RoleUser}})
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)
}

func TestUserRepo_Create_OtherError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &model.User{Email: "a@x.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrDuplicateEmail)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email=\?`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(5, "a@x.com", "hash", "Ann", "Lee", "", "", "admin,user", "recruiter", true, 9, now, now))

	u, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.True(t, u.Roles.Has(model.RoleAdmin))
	assert.True(t, u.Roles.Has(model.RoleUser))
	assert.Equal(t, model.UserTypeRecruiter, u.UserType)
	require.NotNil(t, u.ProfileID)
	assert.Equal(t, uint64(9), *u.ProfileID)
}

func TestUserRepo_GetByID_NullColumns(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id=\?`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(5, "root@x.com", "hash", "", "", "", "", "admin", nil, true, nil, now, now))

	u, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, model.UserTypeNone, u.UserType)
	assert.Nil(t, u.ProfileID)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id=\?`).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepo_Updates(t *testing.T) {
	ctx := context.Background()

	t.Run("link profile", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`UPDATE users SET profile_id=\? WHERE id=\?`).
			WithArgs(uint64(3), uint64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, NewUserRepo(db).LinkProfile(ctx, 1, 3))
	})

	t.Run("roles are stored as a set", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`UPDATE users SET roles=\?`).
			WithArgs("admin,user", uint64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, NewUserRepo(db).UpdateRoles(ctx, 1, model.Roles{model.RoleUser, model.RoleAdmin}))
	})

	t.Run("unchanged row still matches", func(t *testing.T) {
		db, mock := newMock(t)
		// with clientFoundRows the driver reports the matched row even
		// when the user already has the requested state
		mock.ExpectExec(`UPDATE users SET is_active=\?`).
			WithArgs(true, uint64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, NewUserRepo(db).SetActive(ctx, 2, true))
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`UPDATE users SET is_active=\?`).
			WithArgs(false, uint64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, NewUserRepo(db).SetActive(ctx, 2, false), model.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`DELETE FROM users WHERE id=\?`).
			WithArgs(uint64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, NewUserRepo(db).Delete(ctx, 2))
	})
}

func TestUserRepo_ListWithoutProfile(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM users WHERE profile_id IS NULL AND user_type IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "a@x.com", "h", "", "", "", "", "user", "student", true, nil, now, now).
			AddRow(2, "b@x.com", "h", "", "", "", "", "user", "recruiter", true, nil, now, now))

	users, err := repo.ListWithoutProfile(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, model.UserTypeRecruiter, users[1].UserType)
}

func TestUserRepo_CountByType(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE user_type=\?`).
		WithArgs("student").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(4))

	n, err := repo.CountByType(context.Background(), model.UserTypeStudent)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
