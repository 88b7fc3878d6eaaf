package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/youngtech-edu/records-api/internal/models"
	appErrors "github.com/youngtech-edu/records-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context) ([]models.Department, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id string) error
}

type departmentStudentRepository interface {
	ClearDepartment(ctx context.Context, departmentID string) (int64, error)
}

// DepartmentInput holds payload for creating and updating departments.
type DepartmentInput struct {
	Name string  `json:"name" validate:"required"`
	Code *string `json:"code"`
}

// DepartmentService owns the business rules around departments.
type DepartmentService struct {
	repo      departmentRepository
	students  departmentStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs the department service.
func NewDepartmentService(repo departmentRepository, students departmentStudentRepository, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, students: students, validator: validate, logger: logger}
}

// List returns all departments.
func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list departments")
	}
	return departments, nil
}

// Get returns one department, or nil when the id does not resolve. A pure
// lookup does not error on not-found.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError(err, "failed to load department")
	}
	return department, nil
}

// Create adds a department after checking no existing one shares its name.
// The check is advisory; the store's unique index is authoritative.
func (s *DepartmentService) Create(ctx context.Context, input DepartmentInput) (*models.Department, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	exists, err := s.repo.ExistsByName(ctx, input.Name, "")
	if err != nil {
		return nil, storeError(err, "failed to validate department name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateName, "a department with this name already exists")
	}
	department := &models.Department{Name: input.Name, Code: input.Code}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, storeError(err, "failed to create department")
	}
	return department, nil
}

// Update overwrites name and code of an existing department, re-running the
// name uniqueness check while excluding the target record itself.
func (s *DepartmentService) Update(ctx context.Context, id string, input DepartmentInput) (*models.Department, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, storeError(err, "failed to load department")
	}
	exists, err := s.repo.ExistsByName(ctx, input.Name, id)
	if err != nil {
		return nil, storeError(err, "failed to validate department name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateName, "a department with this name already exists")
	}
	department.Name = input.Name
	department.Code = input.Code
	if err := s.repo.Update(ctx, department); err != nil {
		return nil, storeError(err, "failed to update department")
	}
	return department, nil
}

// Delete clears the department reference on every student pointing at the
// department, then deletes it. Deleting an absent id is a no-op success.
func (s *DepartmentService) Delete(ctx context.Context, id string) (bool, error) {
	cleared, err := s.students.ClearDepartment(ctx, id)
	if err != nil {
		return false, storeError(err, "failed to clear student references")
	}
	if cleared > 0 {
		s.logger.Info("cleared department references",
			zap.String("department_id", id),
			zap.Int64("students", cleared),
		)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return false, storeError(err, "failed to delete department")
	}
	return true, nil
}
