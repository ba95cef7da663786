package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/internship-portal/internal/model"
)

// CompanyRepo persists KYC company records.
type CompanyRepo struct{ DB *sql.DB }

func NewCompanyRepo(db *sql.DB) *CompanyRepo { return &CompanyRepo{DB: db} }

const companyColumns = "id,recruiter_id,name,website,registration_number,address,status,created_at,verified_at"

func scanCompany(s rowScanner) (model.Company, error) {
	var (
		c          model.Company
		verifiedAt sql.NullTime
	)
	if err := s.Scan(&c.ID, &c.RecruiterID, &c.Name, &c.Website, &c.RegistrationNumber,
		&c.Address, &c.Status, &c.CreatedAt, &verifiedAt); err != nil {
		return model.Company{}, err
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		c.VerifiedAt = &t
	}
	return c, nil
}

// Create inserts c as a pending application and sets its ID.  A second
// company for the same recruiter yields model.ErrConflict.
func (r *CompanyRepo) Create(ctx context.Context, c *model.Company) error {
	c.Status = model.KYCPending
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO companies (recruiter_id,name,website,registration_number,address,status) VALUES (?,?,?,?,?,?)",
		c.RecruiterID, c.Name, c.Website, c.RegistrationNumber, c.Address, string(c.Status))
	if err != nil {
		if isDuplicateKey(err) {
			return model.ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Resubmit overwrites the details of a rejected application and puts it
// back to pending.
func (r *CompanyRepo) Resubmit(ctx context.Context, c *model.Company) error {
	c.Status = model.KYCPending
	c.VerifiedAt = nil
	return expectOne(r.DB.ExecContext(ctx,
		`UPDATE companies
		    SET name=?, website=?, registration_number=?, address=?, status=?, verified_at=NULL
		  WHERE id=? AND status=?`,
		c.Name, c.Website, c.RegistrationNumber, c.Address, string(model.KYCPending), c.ID, string(model.KYCRejected)))
}

// GetByID fetches a company by id.
func (r *CompanyRepo) GetByID(ctx context.Context, id uint64) (model.Company, error) {
	c, err := scanCompany(r.DB.QueryRowContext(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE id=? LIMIT 1", id))
	return c, notFound(err)
}

// FindByRecruiter fetches the company owned by a recruiter.
func (r *CompanyRepo) FindByRecruiter(ctx context.Context, recruiterID uint64) (model.Company, error) {
	c, err := scanCompany(r.DB.QueryRowContext(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE recruiter_id=? LIMIT 1", recruiterID))
	return c, notFound(err)
}

// SetStatus records a review decision.  Verification stamps verified_at.
func (r *CompanyRepo) SetStatus(ctx context.Context, id uint64, status model.KYCStatus) error {
	if status == model.KYCVerified {
		return expectOne(r.DB.ExecContext(ctx,
			"UPDATE companies SET status=?, verified_at=UTC_TIMESTAMP() WHERE id=?", string(status), id))
	}
	return expectOne(r.DB.ExecContext(ctx,
		"UPDATE companies SET status=?, verified_at=NULL WHERE id=?", string(status), id))
}

// List returns every company, newest first.
func (r *CompanyRepo) List(ctx context.Context) ([]model.Company, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+companyColumns+" FROM companies ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count returns the number of company records.
func (r *CompanyRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM companies").Scan(&n)
	return n, err
}

// DeleteByRecruiter removes the company owned by a recruiter, if any.
func (r *CompanyRepo) DeleteByRecruiter(ctx context.Context, recruiterID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM companies WHERE recruiter_id=?", recruiterID)
	return err
}
