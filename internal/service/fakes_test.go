package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/internship-portal/internal/model"
	"github.com/iliyamo/internship-portal/internal/queue"
)

// memDB is an in-memory store shared by the fake repositories below.
type memDB struct {
	mu          sync.Mutex
	seq         uint64
	users       map[uint64]model.User
	students    map[uint64]model.Student
	recruiters  map[uint64]model.Recruiter
	educations  map[uint64]model.Education
	experiences map[uint64]model.Experience
	companies   map[uint64]model.Company
	internships map[uint64]model.Internship
	apps        []application

	failStudentCreate error
	failLink          error
	failSetCompany    error

	afterUserCreate  func()
	afterDeleteOwned func()
}

type application struct {
	studentID, internshipID uint64
	at                      time.Time
}

func newMemDB() *memDB {
	return &memDB{
		users:       map[uint64]model.User{},
		students:    map[uint64]model.Student{},
		recruiters:  map[uint64]model.Recruiter{},
		educations:  map[uint64]model.Education{},
		experiences: map[uint64]model.Experience{},
		companies:   map[uint64]model.Company{},
		internships: map[uint64]model.Internship{},
	}
}

func (db *memDB) next() uint64 {
	db.seq++
	return db.seq
}

type memUsers struct{ *memDB }

func (s memUsers) Create(ctx context.Context, u *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.users {
		if x.Email == u.Email {
			return model.ErrDuplicateEmail
		}
	}
	u.ID = s.next()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = *u
	if s.afterUserCreate != nil {
		s.afterUserCreate()
	}
	return nil
}

func (s memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s memUsers) update(id uint64, f func(*model.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.ErrNotFound
	}
	f(&u)
	s.users[id] = u
	return nil
}

func (s memUsers) LinkProfile(ctx context.Context, userID, profileID uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.failLink != nil {
		return s.failLink
	}
	return s.update(userID, func(u *model.User) { u.ProfileID = &profileID })
}

func (s memUsers) UpdateRoles(_ context.Context, id uint64, roles model.Roles) error {
	return s.update(id, func(u *model.User) { u.Roles = roles })
}

func (s memUsers) SetActive(_ context.Context, id uint64, active bool) error {
	return s.update(id, func(u *model.User) { u.IsActive = active })
}

func (s memUsers) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s memUsers) list(keep func(model.User) bool) []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.User
	for _, u := range s.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s memUsers) List(context.Context) ([]model.User, error) {
	return s.list(func(model.User) bool { return true }), nil
}

func (s memUsers) ListWithoutProfile(context.Context) ([]model.User, error) {
	return s.list(func(u model.User) bool { return u.ProfileID == nil && u.UserType != model.UserTypeNone }), nil
}

func (s memUsers) CountByType(_ context.Context, t model.UserType) (int, error) {
	return len(s.list(func(u model.User) bool { return u.UserType == t })), nil
}

type memStudents struct{ *memDB }

func (s memStudents) Create(ctx context.Context, userID uint64) (model.Student, error) {
	if err := ctx.Err(); err != nil {
		return model.Student{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failStudentCreate != nil {
		return model.Student{}, s.failStudentCreate
	}
	st := model.Student{ID: s.next(), UserID: userID}
	s.students[st.ID] = st
	return s.fill(st), nil
}

// fill attaches the owned rows; callers hold the lock.
func (s memStudents) fill(st model.Student) model.Student {
	st.AppliedJobs = []uint64{}
	st.Educations = []model.Education{}
	st.Experiences = []model.Experience{}
	for _, a := range s.apps {
		if a.studentID == st.ID {
			st.AppliedJobs = append(st.AppliedJobs, a.internshipID)
		}
	}
	for _, e := range s.educations {
		if e.StudentID == st.ID {
			st.Educations = append(st.Educations, e)
		}
	}
	for _, e := range s.experiences {
		if e.StudentID == st.ID {
			st.Experiences = append(st.Experiences, e)
		}
	}
	return st
}

func (s memStudents) GetByID(_ context.Context, id uint64) (model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.students[id]
	if !ok {
		return model.Student{}, model.ErrNotFound
	}
	return s.fill(st), nil
}

func (s memStudents) FindByUserID(_ context.Context, userID uint64) (model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.students {
		if st.UserID == userID {
			return s.fill(st), nil
		}
	}
	return model.Student{}, model.ErrNotFound
}

func (s memStudents) AddEducation(_ context.Context, e *model.Education) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.next()
	s.educations[e.ID] = *e
	return nil
}

func (s memStudents) AddExperience(_ context.Context, e *model.Experience) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.next()
	s.experiences[e.ID] = *e
	return nil
}

func (s memStudents) DeleteOwned(ctx context.Context, studentID uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.afterDeleteOwned != nil {
		defer s.afterDeleteOwned()
	}
	for id, e := range s.educations {
		if e.StudentID == studentID {
			delete(s.educations, id)
		}
	}
	for id, e := range s.experiences {
		if e.StudentID == studentID {
			delete(s.experiences, id)
		}
	}
	kept := s.apps[:0]
	for _, a := range s.apps {
		if a.studentID != studentID {
			kept = append(kept, a)
		}
	}
	s.apps = kept
	return nil
}

func (s memStudents) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.students, id)
	return nil
}

type memRecruiters struct{ *memDB }

func (s memRecruiters) Create(ctx context.Context, userID uint64) (model.Recruiter, error) {
	if err := ctx.Err(); err != nil {
		return model.Recruiter{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r := model.Recruiter{ID: s.next(), UserID: userID, PostedInternships: []uint64{}}
	s.recruiters[r.ID] = r
	return r, nil
}

func (s memRecruiters) fill(r model.Recruiter) model.Recruiter {
	r.PostedInternships = []uint64{}
	var ids []uint64
	for _, in := range s.internships {
		if in.RecruiterID == r.ID {
			ids = append(ids, in.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	r.PostedInternships = append(r.PostedInternships, ids...)
	return r
}

func (s memRecruiters) GetByID(_ context.Context, id uint64) (model.Recruiter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recruiters[id]
	if !ok {
		return model.Recruiter{}, model.ErrNotFound
	}
	return s.fill(r), nil
}

func (s memRecruiters) FindByUserID(_ context.Context, userID uint64) (model.Recruiter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recruiters {
		if r.UserID == userID {
			return s.fill(r), nil
		}
	}
	return model.Recruiter{}, model.ErrNotFound
}

func (s memRecruiters) SetCompany(_ context.Context, recruiterID, companyID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSetCompany != nil {
		return s.failSetCompany
	}
	r, ok := s.recruiters[recruiterID]
	if !ok || r.KYC != nil {
		return model.ErrConflict
	}
	r.KYC = &companyID
	s.recruiters[recruiterID] = r
	return nil
}

func (s memRecruiters) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recruiters[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.recruiters, id)
	return nil
}

type memCompanies struct{ *memDB }

func (s memCompanies) Create(_ context.Context, c *model.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.companies {
		if x.RecruiterID == c.RecruiterID {
			return model.ErrConflict
		}
	}
	c.ID = s.next()
	c.Status = model.KYCPending
	c.CreatedAt = time.Now().UTC()
	s.companies[c.ID] = *c
	return nil
}

func (s memCompanies) Resubmit(_ context.Context, c *model.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	x, ok := s.companies[c.ID]
	if !ok || x.Status != model.KYCRejected {
		return model.ErrNotFound
	}
	c.Status = model.KYCPending
	c.VerifiedAt = nil
	s.companies[c.ID] = *c
	return nil
}

func (s memCompanies) GetByID(_ context.Context, id uint64) (model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[id]
	if !ok {
		return model.Company{}, model.ErrNotFound
	}
	return c, nil
}

func (s memCompanies) FindByRecruiter(_ context.Context, recruiterID uint64) (model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.companies {
		if c.RecruiterID == recruiterID {
			return c, nil
		}
	}
	return model.Company{}, model.ErrNotFound
}

func (s memCompanies) SetStatus(_ context.Context, id uint64, status model.KYCStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[id]
	if !ok {
		return model.ErrNotFound
	}
	c.Status = status
	if status == model.KYCVerified {
		now := time.Now().UTC()
		c.VerifiedAt = &now
	}
	s.companies[id] = c
	return nil
}

func (s memCompanies) List(context.Context) ([]model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Company{}
	for _, c := range s.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s memCompanies) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.companies), nil
}

func (s memCompanies) DeleteByRecruiter(_ context.Context, recruiterID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.companies {
		if c.RecruiterID == recruiterID {
			delete(s.companies, id)
		}
	}
	return nil
}

type memInternships struct{ *memDB }

func (s memInternships) Create(_ context.Context, in *model.Internship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = s.next()
	in.CreatedAt = time.Now().UTC().Add(time.Duration(in.ID) * time.Millisecond)
	s.internships[in.ID] = *in
	return nil
}

func (s memInternships) GetByID(_ context.Context, id uint64) (model.Internship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.internships[id]
	if !ok {
		return model.Internship{}, model.ErrNotFound
	}
	return in, nil
}

func (s memInternships) IncrementViews(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.internships[id]
	if !ok {
		return model.ErrNotFound
	}
	in.Views++
	s.internships[id] = in
	return nil
}

func (s memInternships) List(_ context.Context, offset, limit int) ([]model.Internship, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]model.Internship, 0, len(s.internships))
	for _, in := range s.internships {
		all = append(all, in)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []model.Internship{}, len(all), nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func (s memInternships) Totals(_ context.Context, recruiterID uint64) (int, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		n     int
		views uint64
	)
	for _, in := range s.internships {
		if recruiterID == 0 || in.RecruiterID == recruiterID {
			n++
			views += in.Views
		}
	}
	return n, views, nil
}

func (s memInternships) Apply(_ context.Context, studentID, internshipID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.studentID == studentID && a.internshipID == internshipID {
			return model.ErrConflict
		}
	}
	s.apps = append(s.apps, application{studentID: studentID, internshipID: internshipID, at: time.Now().UTC()})
	return nil
}

func (s memInternships) CountApplications(_ context.Context, recruiterID uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.apps {
		if recruiterID == 0 || s.internships[a.internshipID].RecruiterID == recruiterID {
			n++
		}
	}
	return n, nil
}

func (s memInternships) Applicants(_ context.Context, recruiterID uint64) ([]model.Applicant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Applicant{}
	for _, a := range s.apps {
		in := s.internships[a.internshipID]
		if in.RecruiterID != recruiterID {
			continue
		}
		st := s.students[a.studentID]
		u := s.users[st.UserID]
		out = append(out, model.Applicant{InternshipID: in.ID, JobName: in.JobName, StudentID: st.ID,
			UserID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, AppliedAt: a.at})
	}
	return out, nil
}

// recordingPublisher keeps published events in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []queue.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]queue.EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

// countingHasher wraps a Hasher and counts Verify calls.
type countingHasher struct {
	inner interface {
		Hash(string) (string, error)
		Verify(string, string) bool
	}
	verifies int
}

func (h *countingHasher) Hash(p string) (string, error) { return h.inner.Hash(p) }

func (h *countingHasher) Verify(p, hash string) bool {
	h.verifies++
	return h.inner.Verify(p, hash)
}

var errBoom = errors.New("boom")
