package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/iliyamo/internship-portal/internal/model"
)

// InternshipRepo persists internship postings and student applications.
type InternshipRepo struct {
	db *sql.DB
}

func NewInternshipRepo(db *sql.DB) *InternshipRepo { return &InternshipRepo{db: db} }

const internshipColumns = `id,recruiter_id,job_name,company_name,company_url,about_company,job_description,
	skills,no_of_opening,min_stipend,max_stipend,currency_type,internship_type,internship_period,
	apply_by,start_date,responsibilities,who_can_apply,views,created_at`

func scanInternship(s rowScanner) (model.Internship, error) {
	var (
		in                        model.Internship
		skills, resp, whoCanApply []byte
	)
	if err := s.Scan(&in.ID, &in.RecruiterID, &in.JobName, &in.CompanyName, &in.CompanyURL,
		&in.AboutCompany, &in.JobDescription, &skills, &in.NoOfOpening, &in.MinStipend, &in.MaxStipend,
		&in.CurrencyType, &in.InternshipType, &in.InternshipPeriod, &in.ApplyBy, &in.StartDate,
		&resp, &whoCanApply, &in.Views, &in.CreatedAt); err != nil {
		return model.Internship{}, err
	}
	for _, f := range []struct {
		raw []byte
		dst *[]string
	}{{skills, &in.Skills}, {resp, &in.Responsibilities}, {whoCanApply, &in.WhoCanApply}} {
		if err := decodeList(f.raw, f.dst); err != nil {
			return model.Internship{}, err
		}
	}
	return in, nil
}

// decodeList reads a JSON array column; NULL or empty reads as an empty list.
func decodeList(raw []byte, dst *[]string) error {
	*dst = []string{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode json column: %w", err)
	}
	return nil
}

func encodeList(v []string) ([]byte, error) {
	if v == nil {
		v = []string{}
	}
	return json.Marshal(v)
}

// Create inserts in and sets its ID.
func (r *InternshipRepo) Create(ctx context.Context, in *model.Internship) error {
	skills, err := encodeList(in.Skills)
	if err != nil {
		return err
	}
	resp, err := encodeList(in.Responsibilities)
	if err != nil {
		return err
	}
	who, err := encodeList(in.WhoCanApply)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO internships
		   (recruiter_id,job_name,company_name,company_url,about_company,job_description,skills,
		    no_of_opening,min_stipend,max_stipend,currency_type,internship_type,internship_period,
		    apply_by,start_date,responsibilities,who_can_apply)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		in.RecruiterID, in.JobName, in.CompanyName, in.CompanyURL, in.AboutCompany, in.JobDescription, skills,
		in.NoOfOpening, in.MinStipend, in.MaxStipend, in.CurrencyType, in.InternshipType, in.InternshipPeriod,
		in.ApplyBy, in.StartDate, resp, who)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	in.ID = uint64(id)
	return nil
}

// GetByID fetches one internship.
func (r *InternshipRepo) GetByID(ctx context.Context, id uint64) (model.Internship, error) {
	in, err := scanInternship(r.db.QueryRowContext(ctx,
		"SELECT "+internshipColumns+" FROM internships WHERE id=? LIMIT 1", id))
	return in, notFound(err)
}

// IncrementViews bumps the view counter of one internship.
func (r *InternshipRepo) IncrementViews(ctx context.Context, id uint64) error {
	return expectOne(r.db.ExecContext(ctx, "UPDATE internships SET views=views+1 WHERE id=?", id))
}

// List returns one page of internships, newest first, and the total count.
func (r *InternshipRepo) List(ctx context.Context, offset, limit int) ([]model.Internship, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM internships").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+internshipColumns+" FROM internships ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []model.Internship{}
	for rows.Next() {
		in, err := scanInternship(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, in)
	}
	return out, total, rows.Err()
}

// Totals returns the number of internships and the sum of their views.
// A zero recruiterID aggregates over every recruiter.
func (r *InternshipRepo) Totals(ctx context.Context, recruiterID uint64) (int, uint64, error) {
	var (
		n     int
		views uint64
	)
	q := "SELECT COUNT(*), COALESCE(SUM(views),0) FROM internships"
	args := []any{}
	if recruiterID != 0 {
		q += " WHERE recruiter_id=?"
		args = append(args, recruiterID)
	}
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&n, &views)
	return n, views, err
}

// Apply records that a student applied to an internship.  Applying twice
// yields model.ErrConflict.
func (r *InternshipRepo) Apply(ctx context.Context, studentID, internshipID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO applications (student_id,internship_id) VALUES (?,?)", studentID, internshipID)
	if isDuplicateKey(err) {
		return model.ErrConflict
	}
	return err
}

// CountApplications counts applications; a zero recruiterID counts all of
// them, otherwise only those to the recruiter's internships.
func (r *InternshipRepo) CountApplications(ctx context.Context, recruiterID uint64) (int, error) {
	var n int
	if recruiterID == 0 {
		err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM applications").Scan(&n)
		return n, err
	}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*)
		   FROM applications a
		   JOIN internships i ON i.id = a.internship_id
		  WHERE i.recruiter_id = ?`, recruiterID).Scan(&n)
	return n, err
}

// Applicants lists the students who applied to a recruiter's internships,
// most recent application first.
func (r *InternshipRepo) Applicants(ctx context.Context, recruiterID uint64) ([]model.Applicant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.id, i.job_name, s.id, u.id, u.email, u.first_name, u.last_name, a.created_at
		   FROM applications a
		   JOIN internships i ON i.id = a.internship_id
		   JOIN students s    ON s.id = a.student_id
		   JOIN users u       ON u.id = s.user_id
		  WHERE i.recruiter_id = ?
		  ORDER BY a.created_at DESC, a.id DESC`, recruiterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Applicant{}
	for rows.Next() {
		var a model.Applicant
		if err := rows.Scan(&a.InternshipID, &a.JobName, &a.StudentID, &a.UserID, &a.Email,
			&a.FirstName, &a.LastName, &a.AppliedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
