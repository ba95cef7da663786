package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/internship-portal/internal/model"
)

// RecruiterRepo persists recruiter profiles.
type RecruiterRepo struct{ DB *sql.DB }

func NewRecruiterRepo(db *sql.DB) *RecruiterRepo { return &RecruiterRepo{DB: db} }

// Create inserts an empty recruiter profile for userID.
func (r *RecruiterRepo) Create(ctx context.Context, userID uint64) (model.Recruiter, error) {
	res, err := r.DB.ExecContext(ctx, "INSERT INTO recruiters (user_id) VALUES (?)", userID)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Recruiter{}, model.ErrConflict
		}
		return model.Recruiter{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Recruiter{}, err
	}
	return model.Recruiter{ID: uint64(id), UserID: userID, PostedInternships: []uint64{}}, nil
}

// GetByID loads a recruiter with the ids of its postings, oldest first.
func (r *RecruiterRepo) GetByID(ctx context.Context, id uint64) (model.Recruiter, error) {
	return r.load(ctx, "SELECT id,user_id,gender,current_location,company_id FROM recruiters WHERE id=? LIMIT 1", id)
}

// FindByUserID loads the recruiter owned by userID.
func (r *RecruiterRepo) FindByUserID(ctx context.Context, userID uint64) (model.Recruiter, error) {
	return r.load(ctx, "SELECT id,user_id,gender,current_location,company_id FROM recruiters WHERE user_id=? LIMIT 1", userID)
}

func (r *RecruiterRepo) load(ctx context.Context, q string, arg uint64) (model.Recruiter, error) {
	var (
		rec       model.Recruiter
		companyID sql.NullInt64
	)
	if err := r.DB.QueryRowContext(ctx, q, arg).Scan(&rec.ID, &rec.UserID, &rec.Gender, &rec.CurrentLocation, &companyID); err != nil {
		return model.Recruiter{}, notFound(err)
	}
	if companyID.Valid {
		id := uint64(companyID.Int64)
		rec.KYC = &id
	}

	rows, err := r.DB.QueryContext(ctx, "SELECT id FROM internships WHERE recruiter_id=? ORDER BY id", rec.ID)
	if err != nil {
		return model.Recruiter{}, err
	}
	defer rows.Close()

	rec.PostedInternships = []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return model.Recruiter{}, err
		}
		rec.PostedInternships = append(rec.PostedInternships, id)
	}
	return rec, rows.Err()
}

// SetCompany sets the KYC back-reference.  It only succeeds while the
// reference is still empty.
func (r *RecruiterRepo) SetCompany(ctx context.Context, recruiterID, companyID uint64) error {
	err := expectOne(r.DB.ExecContext(ctx,
		"UPDATE recruiters SET company_id=? WHERE id=? AND company_id IS NULL", companyID, recruiterID))
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrConflict
	}
	return err
}

// Delete removes the recruiter row.
func (r *RecruiterRepo) Delete(ctx context.Context, id uint64) error {
	return expectOne(r.DB.ExecContext(ctx, "DELETE FROM recruiters WHERE id=?", id))
}
