package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iliyamo/internship-portal/internal/metrics"
	"github.com/iliyamo/internship-portal/internal/model"
	"github.com/iliyamo/internship-portal/internal/queue"
)

// Profiles manages student records and recruiter KYC.
type Profiles struct {
	students   StudentStore
	recruiters RecruiterStore
	companies  CompanyStore
	emitter
}

func NewProfiles(students StudentStore, recruiters RecruiterStore, companies CompanyStore,
	events EventPublisher, rec metrics.Recorder, logger *slog.Logger) *Profiles {
	return &Profiles{
		students:   students,
		recruiters: recruiters,
		companies:  companies,
		emitter:    newEmitter(events, rec, logger),
	}
}

// Student returns a student profile by its id.
func (s *Profiles) Student(ctx context.Context, id uint64) (model.Student, error) {
	return s.students.GetByID(ctx, id)
}

// AddEducation attaches an education entry to the caller's profile.
func (s *Profiles) AddEducation(ctx context.Context, p *model.Principal, e model.Education) (model.Education, error) {
	st, err := p.StudentProfile()
	if err != nil {
		return model.Education{}, err
	}
	if err := checkPeriod(e.Status, e.StartDate.IsZero(), e.EndDate.Before(e.StartDate)); err != nil {
		return model.Education{}, err
	}
	e.ID = 0
	e.StudentID = st.ID
	if err := s.students.AddEducation(ctx, &e); err != nil {
		return model.Education{}, err
	}
	return e, nil
}

// AddExperience attaches an experience entry to the caller's profile.
func (s *Profiles) AddExperience(ctx context.Context, p *model.Principal, e model.Experience) (model.Experience, error) {
	st, err := p.StudentProfile()
	if err != nil {
		return model.Experience{}, err
	}
	if err := checkPeriod(e.ExperienceStatus, e.StartDate.IsZero(), e.EndDate.Before(e.StartDate)); err != nil {
		return model.Experience{}, err
	}
	e.ID = 0
	e.StudentID = st.ID
	if err := s.students.AddExperience(ctx, &e); err != nil {
		return model.Experience{}, err
	}
	return e, nil
}

func checkPeriod(status model.EducationStatus, noStart, endBeforeStart bool) error {
	if status != model.StatusPursuing && status != model.StatusCompleted {
		return fmt.Errorf("%w: status must be pursuing or completed", model.ErrValidation)
	}
	if noStart {
		return fmt.Errorf("%w: startDate is required", model.ErrValidation)
	}
	if endBeforeStart {
		return fmt.Errorf("%w: endDate is before startDate", model.ErrValidation)
	}
	return nil
}

// ApplyKYC submits the recruiter's company for verification.  A recruiter
// has at most one company: re-applying is rejected while it is pending or
// verified, and a rejected application is updated in place and goes back
// to pending.  A company row left unlinked by an interrupted apply is
// linked instead of created again.
func (s *Profiles) ApplyKYC(ctx context.Context, p *model.Principal, c model.Company) (model.Company, error) {
	r, err := p.RecruiterProfile()
	if err != nil {
		return model.Company{}, err
	}
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.RegistrationNumber) == "" {
		return model.Company{}, fmt.Errorf("%w: companyName and registrationNumber are required", model.ErrValidation)
	}
	c.RecruiterID = r.ID

	existing, relinked, err := s.ownedCompany(ctx, *r)
	if err != nil {
		return model.Company{}, err
	}
	switch {
	case existing == nil:
		if err := s.companies.Create(ctx, &c); err != nil {
			return model.Company{}, err
		}
		if err := s.recruiters.SetCompany(ctx, r.ID, c.ID); err != nil {
			return model.Company{}, fmt.Errorf("link company: %w", err)
		}
	case relinked && existing.Status == model.KYCPending:
		// the earlier apply stored the row but never got to report it
		c.ID = existing.ID
	case existing.Status != model.KYCRejected:
		return model.Company{}, fmt.Errorf("%w: kyc is already %s", model.ErrConflict, existing.Status)
	default:
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
		if err := s.companies.Resubmit(ctx, &c); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.Company{}, fmt.Errorf("%w: kyc changed concurrently", model.ErrConflict)
			}
			return model.Company{}, err
		}
	}

	s.emit(ctx, queue.NewEvent(queue.KYCApplied, p.ID, c.ID, map[string]string{"companyName": c.Name}))
	return s.companies.GetByID(ctx, c.ID)
}

// ownedCompany returns the recruiter's company, or nil when it has none.
// relinked reports that the row existed without a back-reference and has
// just been linked.
func (s *Profiles) ownedCompany(ctx context.Context, r model.Recruiter) (*model.Company, bool, error) {
	if r.KYC != nil {
		c, err := s.companies.GetByID(ctx, *r.KYC)
		if err != nil {
			return nil, false, err
		}
		return &c, false, nil
	}
	c, err := s.companies.FindByRecruiter(ctx, r.ID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := s.recruiters.SetCompany(ctx, r.ID, c.ID); err != nil {
		return nil, false, fmt.Errorf("link company: %w", err)
	}
	return &c, true, nil
}

// KYC returns a company record.
func (s *Profiles) KYC(ctx context.Context, id uint64) (model.Company, error) {
	return s.companies.GetByID(ctx, id)
}

// Companies lists every company record, newest first.
func (s *Profiles) Companies(ctx context.Context) ([]model.Company, error) {
	return s.companies.List(ctx)
}

// VerifyKYC marks a pending company as verified.
func (s *Profiles) VerifyKYC(ctx context.Context, id uint64) (model.Company, error) {
	return s.review(ctx, id, model.KYCVerified)
}

// RejectKYC marks a pending company as rejected.
func (s *Profiles) RejectKYC(ctx context.Context, id uint64) (model.Company, error) {
	return s.review(ctx, id, model.KYCRejected)
}

func (s *Profiles) review(ctx context.Context, id uint64, status model.KYCStatus) (model.Company, error) {
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return model.Company{}, err
	}
	if c.Status != model.KYCPending {
		return model.Company{}, fmt.Errorf("%w: kyc is %s, not pending", model.ErrConflict, c.Status)
	}
	if err := s.companies.SetStatus(ctx, id, status); err != nil {
		return model.Company{}, err
	}
	s.emit(ctx, queue.NewEvent(queue.KYCReviewed, 0, id, map[string]string{"status": string(status)}))
	return s.companies.GetByID(ctx, id)
}
