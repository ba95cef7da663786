package service

import (
	"context"

	"github.com/iliyamo/internship-portal/internal/model"
)

// Dashboards computes admin and recruiter statistics.  Both use
// model.ApplicationRate, applications per view.
type Dashboards struct {
	users       UserStore
	companies   CompanyStore
	internships InternshipStore
}

func NewDashboards(users UserStore, companies CompanyStore, internships InternshipStore) *Dashboards {
	return &Dashboards{users: users, companies: companies, internships: internships}
}

// Admin aggregates platform-wide counters.
func (s *Dashboards) Admin(ctx context.Context) (model.AdminDashboard, error) {
	var (
		d   model.AdminDashboard
		err error
	)
	if d.Companies, err = s.companies.Count(ctx); err != nil {
		return d, err
	}
	if d.Students, err = s.users.CountByType(ctx, model.UserTypeStudent); err != nil {
		return d, err
	}
	if d.Recruiters, err = s.users.CountByType(ctx, model.UserTypeRecruiter); err != nil {
		return d, err
	}
	if d.Internships, d.Views, err = s.internships.Totals(ctx, 0); err != nil {
		return d, err
	}
	if d.Applications, err = s.internships.CountApplications(ctx, 0); err != nil {
		return d, err
	}
	d.ApplicationRate = model.ApplicationRate(d.Applications, d.Views)
	return d, nil
}

// Recruiter aggregates counters over the caller's own postings.
func (s *Dashboards) Recruiter(ctx context.Context, p *model.Principal) (model.RecruiterDashboard, error) {
	var d model.RecruiterDashboard
	r, err := p.RecruiterProfile()
	if err != nil {
		return d, err
	}
	if d.Internships, d.Views, err = s.internships.Totals(ctx, r.ID); err != nil {
		return d, err
	}
	if d.Applicants, err = s.internships.CountApplications(ctx, r.ID); err != nil {
		return d, err
	}
	d.ApplicationRate = model.ApplicationRate(d.Applicants, d.Views)

	if r.KYC != nil {
		c, err := s.companies.GetByID(ctx, *r.KYC)
		if err != nil {
			return d, err
		}
		d.KYCStatus = string(c.Status)
	}
	return d, nil
}
