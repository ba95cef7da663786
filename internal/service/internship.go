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

// MaxPageLimit caps the page size of the public internship list.
const MaxPageLimit = 18

// Internships posts, lists and applies to internships.
type Internships struct {
	store InternshipStore
	emitter
}

func NewInternships(store InternshipStore, events EventPublisher, rec metrics.Recorder, logger *slog.Logger) *Internships {
	return &Internships{store: store, emitter: newEmitter(events, rec, logger)}
}

// Create posts an internship on behalf of a recruiter.
func (s *Internships) Create(ctx context.Context, p *model.Principal, in model.Internship) (model.Internship, error) {
	r, err := p.RecruiterProfile()
	if err != nil {
		return model.Internship{}, err
	}
	if strings.TrimSpace(in.JobName) == "" {
		return model.Internship{}, fmt.Errorf("%w: jobName is required", model.ErrValidation)
	}
	if in.MaxStipend != 0 && in.MaxStipend < in.MinStipend {
		return model.Internship{}, fmt.Errorf("%w: maxStipen is below minStipen", model.ErrValidation)
	}
	in.ID = 0
	in.Views = 0
	in.RecruiterID = r.ID
	if err := s.store.Create(ctx, &in); err != nil {
		return model.Internship{}, err
	}
	s.emit(ctx, queue.NewEvent(queue.InternshipPosted, p.ID, in.ID, map[string]string{"jobName": in.JobName}))
	return in, nil
}

// List returns one newest-first page.  Pages start at 1; the limit is
// clamped to [1, MaxPageLimit].
func (s *Internships) List(ctx context.Context, page, limit int) (model.Page[model.Internship], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	items, total, err := s.store.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return model.Page[model.Internship]{}, err
	}
	return model.Page[model.Internship]{Data: items, Page: page, Limit: limit, TotalCount: total}, nil
}

// Get returns one internship and counts the view.
func (s *Internships) Get(ctx context.Context, id uint64) (model.Internship, error) {
	if err := s.store.IncrementViews(ctx, id); err != nil {
		return model.Internship{}, err
	}
	in, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Internship{}, err
	}
	return in, nil
}

// Apply records a student's application.  Applying twice yields
// model.ErrConflict.
func (s *Internships) Apply(ctx context.Context, p *model.Principal, internshipID uint64) error {
	st, err := p.StudentProfile()
	if err != nil {
		return err
	}
	if _, err := s.store.GetByID(ctx, internshipID); err != nil {
		return err
	}
	if err := s.store.Apply(ctx, st.ID, internshipID); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return fmt.Errorf("%w: already applied to internship %d", model.ErrConflict, internshipID)
		}
		return err
	}
	s.emit(ctx, queue.NewEvent(queue.InternshipApplied, p.ID, internshipID, nil))
	return nil
}

// Applicants lists the students who applied to the recruiter's postings.
func (s *Internships) Applicants(ctx context.Context, p *model.Principal) ([]model.Applicant, error) {
	r, err := p.RecruiterProfile()
	if err != nil {
		return nil, err
	}
	return s.store.Applicants(ctx, r.ID)
}
