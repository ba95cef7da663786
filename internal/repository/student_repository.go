package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/internship-portal/internal/model"
)

// StudentRepo persists student profiles and the rows they own:
// educations, experiences and applications.
type StudentRepo struct{ DB *sql.DB }

func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{DB: db} }

// Create inserts an empty student profile for userID.
func (r *StudentRepo) Create(ctx context.Context, userID uint64) (model.Student, error) {
	res, err := r.DB.ExecContext(ctx, "INSERT INTO students (user_id) VALUES (?)", userID)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Student{}, model.ErrConflict
		}
		return model.Student{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Student{}, err
	}
	return model.Student{ID: uint64(id), UserID: userID, AppliedJobs: []uint64{}, Educations: []model.Education{}, Experiences: []model.Experience{}}, nil
}

// GetByID loads a student with applied jobs, educations and experiences.
func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (model.Student, error) {
	return r.load(ctx, "SELECT id,user_id,gender,current_location FROM students WHERE id=? LIMIT 1", id)
}

// FindByUserID loads the student owned by userID.  It lets profile creation
// pick up a row whose link step was interrupted.
func (r *StudentRepo) FindByUserID(ctx context.Context, userID uint64) (model.Student, error) {
	return r.load(ctx, "SELECT id,user_id,gender,current_location FROM students WHERE user_id=? LIMIT 1", userID)
}

func (r *StudentRepo) load(ctx context.Context, q string, arg uint64) (model.Student, error) {
	var s model.Student
	if err := r.DB.QueryRowContext(ctx, q, arg).Scan(&s.ID, &s.UserID, &s.Gender, &s.CurrentLocation); err != nil {
		return model.Student{}, notFound(err)
	}

	var err error
	if s.AppliedJobs, err = r.appliedJobs(ctx, s.ID); err != nil {
		return model.Student{}, err
	}
	if s.Educations, err = r.educations(ctx, s.ID); err != nil {
		return model.Student{}, err
	}
	if s.Experiences, err = r.experiences(ctx, s.ID); err != nil {
		return model.Student{}, err
	}
	return s, nil
}

func (r *StudentRepo) appliedJobs(ctx context.Context, studentID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT internship_id FROM applications WHERE student_id=? ORDER BY id", studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *StudentRepo) educations(ctx context.Context, studentID uint64) ([]model.Education, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,student_id,institute_name,degree,field_of_study,start_date,end_date,status FROM educations WHERE student_id=? ORDER BY id",
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Education{}
	for rows.Next() {
		var e model.Education
		if err := rows.Scan(&e.ID, &e.StudentID, &e.InstituteName, &e.Degree, &e.FieldOfStudy,
			&e.StartDate, &e.EndDate, &e.Status); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *StudentRepo) experiences(ctx context.Context, studentID uint64) ([]model.Experience, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,student_id,experience_type,experience_status,designation,company,start_date,end_date,description FROM experiences WHERE student_id=? ORDER BY id",
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Experience{}
	for rows.Next() {
		var e model.Experience
		if err := rows.Scan(&e.ID, &e.StudentID, &e.ExperienceType, &e.ExperienceStatus, &e.Designation,
			&e.Company, &e.StartDate, &e.EndDate, &e.Description); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AddEducation inserts e and sets its ID.
func (r *StudentRepo) AddEducation(ctx context.Context, e *model.Education) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO educations (student_id,institute_name,degree,field_of_study,start_date,end_date,status) VALUES (?,?,?,?,?,?,?)",
		e.StudentID, e.InstituteName, e.Degree, e.FieldOfStudy, e.StartDate, e.EndDate, string(e.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// AddExperience inserts e and sets its ID.
func (r *StudentRepo) AddExperience(ctx context.Context, e *model.Experience) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO experiences (student_id,experience_type,experience_status,designation,company,start_date,end_date,description) VALUES (?,?,?,?,?,?,?,?)",
		e.StudentID, e.ExperienceType, string(e.ExperienceStatus), e.Designation, e.Company, e.StartDate, e.EndDate, e.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// DeleteOwned removes educations, experiences and applications of a student.
// The three deletes are independent; a failure leaves the remainder for a
// retry of the whole user deletion.
func (r *StudentRepo) DeleteOwned(ctx context.Context, studentID uint64) error {
	for _, q := range []string{
		"DELETE FROM educations WHERE student_id=?",
		"DELETE FROM experiences WHERE student_id=?",
		"DELETE FROM applications WHERE student_id=?",
	} {
		if _, err := r.DB.ExecContext(ctx, q, studentID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the student row.
func (r *StudentRepo) Delete(ctx context.Context, id uint64) error {
	return expectOne(r.DB.ExecContext(ctx, "DELETE FROM students WHERE id=?", id))
}
