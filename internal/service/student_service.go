package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/youngtech-edu/records-api/internal/models"
	appErrors "github.com/youngtech-edu/records-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.StudentDetail, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]models.Student, error)
	ExistsByMatricNo(ctx context.Context, matricNo string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student, includePicture bool) error
	Delete(ctx context.Context, id string) error
}

type studentDepartmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

// StudentInput holds payload for creating and updating students.
// ProfilePictureSet distinguishes an explicitly supplied picture (including
// an explicit null, which clears it) from an omitted one, which leaves the
// stored value untouched on update.
type StudentInput struct {
	FirstName         string  `json:"first_name" validate:"required"`
	LastName          string  `json:"last_name" validate:"required"`
	MatricNo          *string `json:"matric_no"`
	Email             *string `json:"email"`
	GPA               float64 `json:"gpa"`
	DepartmentID      *string `json:"department_id"`
	ProfilePicture    *string `json:"profile_picture"`
	ProfilePictureSet bool    `json:"-"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo        studentRepository
	departments studentDepartmentRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, departments studentDepartmentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, departments: departments, validator: validate, logger: logger}
}

// List returns all students with their department resolved.
func (s *StudentService) List(ctx context.Context) ([]models.StudentDetail, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list students")
	}
	return students, nil
}

// Get returns one student with department resolved, or nil when the id
// does not resolve.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError(err, "failed to load student")
	}
	return student, nil
}

// ListByDepartment returns every student referencing a department.
func (s *StudentService) ListByDepartment(ctx context.Context, departmentID string) ([]models.Student, error) {
	students, err := s.repo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, storeError(err, "failed to list department students")
	}
	return students, nil
}

// Create registers a new student after validating matric number
// uniqueness, GPA bounds, and the department reference.
func (s *StudentService) Create(ctx context.Context, input StudentInput) (*models.StudentDetail, error) {
	department, err := s.validateInput(ctx, &input, "")
	if err != nil {
		return nil, err
	}
	student := &models.Student{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		MatricNo:       input.MatricNo,
		Email:          input.Email,
		GPA:            input.GPA,
		DepartmentID:   input.DepartmentID,
		ProfilePicture: input.ProfilePicture,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, storeError(err, "failed to create student")
	}
	return detailWithDepartment(student, department), nil
}

// Update overwrites an existing student, excluding the record's own id from
// the matric number uniqueness check. Every field is fully overwritten
// except the profile picture, which changes only when explicitly supplied.
func (s *StudentService) Update(ctx context.Context, id string, input StudentInput) (*models.StudentDetail, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, storeError(err, "failed to load student")
	}
	department, err := s.validateInput(ctx, &input, id)
	if err != nil {
		return nil, err
	}
	student := existing.Student
	student.FirstName = input.FirstName
	student.LastName = input.LastName
	student.MatricNo = input.MatricNo
	student.Email = input.Email
	student.GPA = input.GPA
	student.DepartmentID = input.DepartmentID
	if input.ProfilePictureSet {
		student.ProfilePicture = input.ProfilePicture
	}
	if err := s.repo.Update(ctx, &student, input.ProfilePictureSet); err != nil {
		return nil, storeError(err, "failed to update student")
	}
	return detailWithDepartment(&student, department), nil
}

// Delete removes a student by id. A student has no dependents, and
// deleting an absent id is a no-op success.
func (s *StudentService) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		return false, storeError(err, "failed to delete student")
	}
	return true, nil
}

// validateInput runs the write-time business rules shared by create and
// update, returning the resolved department when one is referenced.
func (s *StudentService) validateInput(ctx context.Context, input *StudentInput, excludeID string) (*models.Department, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if input.GPA < models.GPAMin || input.GPA > models.GPAMax {
		return nil, appErrors.Clone(appErrors.ErrGPAOutOfRange, "")
	}

	if input.MatricNo != nil {
		matric := strings.TrimSpace(*input.MatricNo)
		if matric == "" {
			input.MatricNo = nil
		} else {
			input.MatricNo = &matric
			exists, err := s.repo.ExistsByMatricNo(ctx, matric, excludeID)
			if err != nil {
				return nil, storeError(err, "failed to validate matric number")
			}
			if exists {
				return nil, appErrors.Clone(appErrors.ErrDuplicateMatricNo, "a student with this matric number already exists")
			}
		}
	}

	if input.DepartmentID != nil {
		deptID := strings.TrimSpace(*input.DepartmentID)
		if deptID == "" {
			input.DepartmentID = nil
			return nil, nil
		}
		if _, err := uuid.Parse(deptID); err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidReference, "department id is not a valid identifier")
		}
		input.DepartmentID = &deptID
		department, err := s.departments.FindByID(ctx, deptID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrReferenceNotFound, "referenced department does not exist")
			}
			return nil, storeError(err, "failed to resolve department")
		}
		return department, nil
	}
	return nil, nil
}

// detailWithDepartment builds the joined view returned by mutations
// without a second round trip to the store.
func detailWithDepartment(student *models.Student, department *models.Department) *models.StudentDetail {
	detail := &models.StudentDetail{Student: *student}
	if department != nil && student.DepartmentID != nil {
		detail.DepartmentName = &department.Name
		detail.DepartmentCode = department.Code
	}
	return detail
}
