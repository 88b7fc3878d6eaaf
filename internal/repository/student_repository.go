package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/youngtech-edu/records-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentDetailColumns = `s.id, s.first_name, s.last_name, s.matric_no, s.email, s.gpa, s.department_id, s.profile_picture, s.created_at, s.updated_at,
        d.name AS department_name, d.code AS department_code`

// List returns all students with their department joined in.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM students s
        LEFT JOIN departments d ON d.id = s.department_id
        ORDER BY s.created_at DESC`, studentDetailColumns)
	students := []models.StudentDetail{}
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student with department joined. Returns sql.ErrNoRows
// on a miss.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM students s
        LEFT JOIN departments d ON d.id = s.department_id
        WHERE s.id = $1`, studentDetailColumns)
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &detail, nil
}

// ListByDepartment returns every student referencing a department.
func (r *StudentRepository) ListByDepartment(ctx context.Context, departmentID string) ([]models.Student, error) {
	const query = `SELECT id, first_name, last_name, matric_no, email, gpa, department_id, profile_picture, created_at, updated_at
        FROM students WHERE department_id = $1 ORDER BY last_name ASC, first_name ASC`
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, departmentID); err != nil {
		return nil, fmt.Errorf("list students by department: %w", err)
	}
	return students, nil
}

// ExistsByMatricNo checks if a student with the given matric number exists,
// optionally excluding an ID.
func (r *StudentRepository) ExistsByMatricNo(ctx context.Context, matricNo string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE matric_no = $1"
	args := []interface{}{matricNo}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check matric no: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	student.Normalize()
	if err := student.Validate(); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, first_name, last_name, matric_no, email, gpa, department_id, profile_picture, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :matric_no, :email, :gpa, :department_id, :profile_picture, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update overwrites an existing student. The profile picture column is
// written only when includePicture is set; otherwise the stored value is
// left untouched while every other field is overwritten.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student, includePicture bool) error {
	student.Normalize()
	if err := student.Validate(); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	student.UpdatedAt = time.Now().UTC()
	query := `UPDATE students SET first_name = :first_name, last_name = :last_name, matric_no = :matric_no, email = :email, gpa = :gpa, department_id = :department_id, updated_at = :updated_at WHERE id = :id`
	if includePicture {
		query = `UPDATE students SET first_name = :first_name, last_name = :last_name, matric_no = :matric_no, email = :email, gpa = :gpa, department_id = :department_id, profile_picture = :profile_picture, updated_at = :updated_at WHERE id = :id`
	}
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// ClearDepartment removes the department reference from every student
// pointing at the given department, leaving the students themselves intact.
func (r *StudentRepository) ClearDepartment(ctx context.Context, departmentID string) (int64, error) {
	const query = `UPDATE students SET department_id = NULL, updated_at = $2 WHERE department_id = $1`
	res, err := r.db.ExecContext(ctx, query, departmentID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("clear department refs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear department refs: %w", err)
	}
	return affected, nil
}

// Delete removes a student by ID. Deleting an absent ID is not an error.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM students WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
