package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/internship-portal/internal/model"
	"github.com/iliyamo/internship-portal/internal/queue"
)

func TestProfiles_Education(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	stu := registered(t, env, studentReg("s@x.com"))
	rec := registered(t, env, recruiterReg("r@x.com"))
	start := time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC)

	e, err := env.profiles.AddEducation(ctx, stu, model.Education{InstituteName: "TU", Degree: "BSc",
		FieldOfStudy: "CS", StartDate: start, EndDate: start.AddDate(3, 0, 0), Status: model.StatusPursuing})
	require.NoError(t, err)
	assert.NotZero(t, e.ID)
	assert.Equal(t, stu.Profile.ID(), e.StudentID)

	cases := map[string]model.Education{
		"bad status":       {StartDate: start, EndDate: start, Status: "dropped"},
		"no start":         {Status: model.StatusCompleted},
		"end before start": {StartDate: start, EndDate: start.AddDate(-1, 0, 0), Status: model.StatusCompleted},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.profiles.AddEducation(ctx, stu, in)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}

	_, err = env.profiles.AddEducation(ctx, rec, model.Education{StartDate: start, EndDate: start, Status: model.StatusCompleted})
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestProfiles_KYCLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rec := registered(t, env, recruiterReg("r@x.com"))
	company := model.Company{Name: "Acme", Website: "https://acme.io", RegistrationNumber: "HRB-1", Address: "Main St"}

	c, err := env.profiles.ApplyKYC(ctx, rec, company)
	require.NoError(t, err)
	assert.Equal(t, model.KYCPending, c.Status)

	// The principal is a per-request snapshot; reload it like the middleware would.
	rec, err = env.dir.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	r, _ := rec.RecruiterProfile()
	require.NotNil(t, r.KYC)
	assert.Equal(t, c.ID, *r.KYC)

	t.Run("re-apply while pending", func(t *testing.T) {
		_, err := env.profiles.ApplyKYC(ctx, rec, company)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	rejected, err := env.profiles.RejectKYC(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.KYCRejected, rejected.Status)

	t.Run("review twice", func(t *testing.T) {
		_, err := env.profiles.VerifyKYC(ctx, c.ID)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	company.Address = "New St"
	again, err := env.profiles.ApplyKYC(ctx, rec, company)
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID, "rejected application is reused in place")
	assert.Equal(t, model.KYCPending, again.Status)
	assert.Equal(t, "New St", again.Address)

	verified, err := env.profiles.VerifyKYC(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.KYCVerified, verified.Status)
	assert.NotNil(t, verified.VerifiedAt)

	_, err = env.profiles.ApplyKYC(ctx, rec, company)
	assert.ErrorIs(t, err, model.ErrConflict)

	companies, err := env.profiles.Companies(ctx)
	require.NoError(t, err)
	assert.Len(t, companies, 1)

	assert.Contains(t, env.events.types(), queue.KYCApplied)
	assert.Contains(t, env.events.types(), queue.KYCReviewed)
}

func TestProfiles_KYCRetryAfterLinkFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rec := registered(t, env, recruiterReg("r@x.com"))
	company := model.Company{Name: "Acme", RegistrationNumber: "HRB-1"}

	env.db.failSetCompany = errBoom
	_, err := env.profiles.ApplyKYC(ctx, rec, company)
	require.ErrorIs(t, err, errBoom)
	require.Len(t, env.db.companies, 1)

	env.db.failSetCompany = nil
	c, err := env.profiles.ApplyKYC(ctx, rec, company)
	require.NoError(t, err)
	assert.Equal(t, model.KYCPending, c.Status)
	assert.Len(t, env.db.companies, 1)

	rec, err = env.dir.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	r, _ := rec.RecruiterProfile()
	require.NotNil(t, r.KYC)
	assert.Equal(t, c.ID, *r.KYC)

	_, err = env.profiles.ApplyKYC(ctx, rec, company)
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestProfiles_KYCValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rec := registered(t, env, recruiterReg("r@x.com"))
	stu := registered(t, env, studentReg("s@x.com"))

	_, err := env.profiles.ApplyKYC(ctx, rec, model.Company{Name: "Acme"})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = env.profiles.ApplyKYC(ctx, stu, model.Company{Name: "Acme", RegistrationNumber: "1"})
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = env.profiles.KYC(ctx, 9999)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDashboards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rec := registered(t, env, recruiterReg("r@x.com"))
	other := registered(t, env, recruiterReg("o@x.com"))
	stu := registered(t, env, studentReg("s@x.com"))

	d, err := env.dashboards.Admin(ctx)
	require.NoError(t, err)
	assert.Zero(t, d.ApplicationRate, "no views yet")

	mine, err := env.internships.Create(ctx, rec, model.Internship{JobName: "mine"})
	require.NoError(t, err)
	theirs, err := env.internships.Create(ctx, other, model.Internship{JobName: "theirs"})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := env.internships.Get(ctx, mine.ID)
		require.NoError(t, err)
	}
	_, err = env.internships.Get(ctx, theirs.ID)
	require.NoError(t, err)
	require.NoError(t, env.internships.Apply(ctx, stu, mine.ID))
	require.NoError(t, env.internships.Apply(ctx, stu, theirs.ID))
	_, err = env.profiles.ApplyKYC(ctx, rec, model.Company{Name: "Acme", RegistrationNumber: "1"})
	require.NoError(t, err)

	d, err = env.dashboards.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.AdminDashboard{Companies: 1, Students: 1, Recruiters: 2, Internships: 2,
		Applications: 2, Views: 5, ApplicationRate: 0.4}, d)

	rec, err = env.dir.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	rd, err := env.dashboards.Recruiter(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, rd.Internships)
	assert.Equal(t, 1, rd.Applicants)
	assert.Equal(t, uint64(4), rd.Views)
	assert.InDelta(t, 0.25, rd.ApplicationRate, 1e-9)
	assert.Equal(t, "pending", rd.KYCStatus)

	_, err = env.dashboards.Recruiter(ctx, stu)
	assert.ErrorIs(t, err, model.ErrForbidden)
}
