package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/internship-portal/internal/model"
)

var internshipCols = []string{"id", "recruiter_id", "job_name", "company_name", "company_url", "about_company",
	"job_description", "skills", "no_of_opening", "min_stipend", "max_stipend", "currency_type", "internship_type",
	"internship_period", "apply_by", "start_date", "responsibilities", "who_can_apply", "views", "created_at"}

func TestInternshipRepo_Create_EncodesLists(t *testing.T) {
	db, mock := newMock(t)
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO internships`).
		WithArgs(uint64(4), "Backend intern", "Acme", "https://acme.io", "", "", []byte(`["go","sql"]`),
			2, 100, 200, "EUR", "remote", 3, day, day, []byte(`[]`), []byte(`[]`)).
		WillReturnResult(sqlmock.NewResult(21, 1))

	in := &model.Internship{RecruiterID: 4, JobName: "Backend intern", CompanyName: "Acme", CompanyURL: "https://acme.io",
		Skills: []string{"go", "sql"}, NoOfOpening: 2, MinStipend: 100, MaxStipend: 200, CurrencyType: "EUR",
		InternshipType: "remote", InternshipPeriod: 3, ApplyBy: day, StartDate: day}
	require.NoError(t, NewInternshipRepo(db).Create(context.Background(), in))
	assert.Equal(t, uint64(21), in.ID)
}

func TestInternshipRepo_List(t *testing.T) {
	db, mock := newMock(t)
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM internships`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(30))
	mock.ExpectQuery(`FROM internships ORDER BY created_at DESC, id DESC LIMIT \? OFFSET \?`).
		WithArgs(18, 18).
		WillReturnRows(sqlmock.NewRows(internshipCols).
			AddRow(12, 4, "Backend intern", "Acme", "", "", "", []byte(`["go"]`), 1, 0, 0, "", "", 3, day, day, nil, []byte(`["students"]`), int64(9), day))

	items, total, err := NewInternshipRepo(db).List(context.Background(), 18, 18)
	require.NoError(t, err)
	assert.Equal(t, 30, total)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"go"}, items[0].Skills)
	assert.Equal(t, []string{}, items[0].Responsibilities)
	assert.Equal(t, []string{"students"}, items[0].WhoCanApply)
	assert.Equal(t, uint64(9), items[0].Views)
}

func TestInternshipRepo_Apply_Twice(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(`INSERT INTO applications`).
		WithArgs(uint64(3), uint64(12)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO applications`).
		WithArgs(uint64(3), uint64(12)).
		WillReturnError(&mysql.MySQLError{Number: 1062})

	repo := NewInternshipRepo(db)
	require.NoError(t, repo.Apply(context.Background(), 3, 12))
	assert.ErrorIs(t, repo.Apply(context.Background(), 3, 12), model.ErrConflict)
}

func TestInternshipRepo_Totals(t *testing.T) {
	t.Run("platform wide", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(views\),0\) FROM internships$`).
			WillReturnRows(sqlmock.NewRows([]string{"n", "v"}).AddRow(3, int64(40)))

		n, views, err := NewInternshipRepo(db).Totals(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, uint64(40), views)
	})

	t.Run("one recruiter", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM internships WHERE recruiter_id=\?`).
			WithArgs(uint64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"n", "v"}).AddRow(0, int64(0)))

		n, views, err := NewInternshipRepo(db).Totals(context.Background(), 4)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Zero(t, views)
	})
}

func TestInternshipRepo_Applicants(t *testing.T) {
	db, mock := newMock(t)
	at := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM applications a`).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"iid", "job", "sid", "uid", "email", "first", "last", "at"}).
			AddRow(12, "Backend intern", 3, 7, "s@x.com", "Sam", "Doe", at))

	got, err := NewInternshipRepo(db).Applicants(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s@x.com", got[0].Email)
	assert.Equal(t, uint64(12), got[0].InternshipID)
}

func TestCompanyRepo_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("create is pending", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`INSERT INTO companies`).
			WithArgs(uint64(4), "Acme", "https://acme.io", "HRB-1", "Main St", "pending").
			WillReturnResult(sqlmock.NewResult(2, 1))

		c := &model.Company{RecruiterID: 4, Name: "Acme", Website: "https://acme.io", RegistrationNumber: "HRB-1", Address: "Main St"}
		require.NoError(t, NewCompanyRepo(db).Create(ctx, c))
		assert.Equal(t, uint64(2), c.ID)
		assert.Equal(t, model.KYCPending, c.Status)
	})

	t.Run("verify stamps time", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`UPDATE companies SET status=\?, verified_at=UTC_TIMESTAMP\(\) WHERE id=\?`).
			WithArgs("verified", uint64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, NewCompanyRepo(db).SetStatus(ctx, 2, model.KYCVerified))
	})

	t.Run("resubmit only from rejected", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`UPDATE companies`).
			WithArgs("Acme", "", "", "", "pending", uint64(2), "rejected").
			WillReturnResult(sqlmock.NewResult(0, 0))
		err := NewCompanyRepo(db).Resubmit(ctx, &model.Company{ID: 2, Name: "Acme"})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("find by recruiter", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM companies WHERE recruiter_id=\?`).
			WithArgs(uint64(4)).
			WillReturnError(sql.ErrNoRows)

		_, err := NewCompanyRepo(db).FindByRecruiter(ctx, 4)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("get scans nullable verification time", func(t *testing.T) {
		db, mock := newMock(t)
		now := time.Now().UTC()
		mock.ExpectQuery(`FROM companies WHERE id=\?`).
			WithArgs(uint64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "recruiter_id", "name", "website", "registration_number", "address", "status", "created_at", "verified_at"}).
				AddRow(2, 4, "Acme", "", "", "", "pending", now, nil))

		c, err := NewCompanyRepo(db).GetByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, model.KYCPending, c.Status)
		assert.Nil(t, c.VerifiedAt)
	})
}
