package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youngtech-edu/records-api/internal/models"
	appErrors "github.com/youngtech-edu/records-api/pkg/errors"
)

type mockDepartmentRepo struct {
	departments map[string]*models.Department
	listErr     error
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{departments: map[string]*models.Department{}}
}

func (m *mockDepartmentRepo) List(ctx context.Context) ([]models.Department, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []models.Department{}
	for _, d := range m.departments {
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockDepartmentRepo) FindByID(ctx context.Context, id string) (*models.Department, error) {
	d, ok := m.departments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *d
	return &copied, nil
}

func (m *mockDepartmentRepo) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	for _, d := range m.departments {
		if d.Name == name && d.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDepartmentRepo) Create(ctx context.Context, department *models.Department) error {
	department.Normalize()
	if err := department.Validate(); err != nil {
		return err
	}
	if department.ID == "" {
		department.ID = "dept-" + department.Name
	}
	copied := *department
	m.departments[department.ID] = &copied
	return nil
}

func (m *mockDepartmentRepo) Update(ctx context.Context, department *models.Department) error {
	copied := *department
	m.departments[department.ID] = &copied
	return nil
}

func (m *mockDepartmentRepo) Delete(ctx context.Context, id string) error {
	delete(m.departments, id)
	return nil
}

type mockClearRepo struct {
	cleared map[string]int64
}

func (m *mockClearRepo) ClearDepartment(ctx context.Context, departmentID string) (int64, error) {
	if m.cleared == nil {
		m.cleared = map[string]int64{}
	}
	m.cleared[departmentID] = 3
	return 3, nil
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	return appErr.Code
}

func TestDepartmentServiceCreate(t *testing.T) {
	repo := newMockDepartmentRepo()
	svc := NewDepartmentService(repo, &mockClearRepo{}, nil, nil)

	code := "CSC"
	department, err := svc.Create(context.Background(), DepartmentInput{Name: " Computer Science ", Code: &code})
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", department.Name)
	assert.NotEmpty(t, department.ID)
	assert.Len(t, repo.departments, 1)
}

func TestDepartmentServiceCreateDuplicateName(t *testing.T) {
	repo := newMockDepartmentRepo()
	svc := NewDepartmentService(repo, &mockClearRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), DepartmentInput{Name: "Physics"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), DepartmentInput{Name: "Physics"})
	assert.Equal(t, appErrors.ErrDuplicateName.Code, errorCode(t, err))
	assert.Len(t, repo.departments, 1)
}

func TestDepartmentServiceCreateCaseSensitiveNames(t *testing.T) {
	repo := newMockDepartmentRepo()
	svc := NewDepartmentService(repo, &mockClearRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), DepartmentInput{Name: "Physics"})
	require.NoError(t, err)

	// Differently cased names are distinct records.
	_, err = svc.Create(context.Background(), DepartmentInput{Name: "physics"})
	require.NoError(t, err)
	assert.Len(t, repo.departments, 2)
}

func TestDepartmentServiceCreateMissingName(t *testing.T) {
	svc := NewDepartmentService(newMockDepartmentRepo(), &mockClearRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), DepartmentInput{Name: "   "})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))
}

func TestDepartmentServiceGetMissingReturnsNil(t *testing.T) {
	svc := NewDepartmentService(newMockDepartmentRepo(), &mockClearRepo{}, nil, nil)

	department, err := svc.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, department)
}

func TestDepartmentServiceUpdate(t *testing.T) {
	repo := newMockDepartmentRepo()
	svc := NewDepartmentService(repo, &mockClearRepo{}, nil, nil)

	created, err := svc.Create(context.Background(), DepartmentInput{Name: "Physics"})
	require.NoError(t, err)

	// Renaming to its own name is not a duplicate.
	updated, err := svc.Update(context.Background(), created.ID, DepartmentInput{Name: "Physics"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	updated, err = svc.Update(context.Background(), created.ID, DepartmentInput{Name: "Applied Physics"})
	require.NoError(t, err)
	assert.Equal(t, "Applied Physics", updated.Name)
}

func TestDepartmentServiceUpdateNotFound(t *testing.T) {
	svc := NewDepartmentService(newMockDepartmentRepo(), &mockClearRepo{}, nil, nil)

	_, err := svc.Update(context.Background(), "absent", DepartmentInput{Name: "Physics"})
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}

func TestDepartmentServiceUpdateDuplicateName(t *testing.T) {
	repo := newMockDepartmentRepo()
	svc := NewDepartmentService(repo, &mockClearRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), DepartmentInput{Name: "Physics"})
	require.NoError(t, err)
	chemistry, err := svc.Create(context.Background(), DepartmentInput{Name: "Chemistry"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), chemistry.ID, DepartmentInput{Name: "Physics"})
	assert.Equal(t, appErrors.ErrDuplicateName.Code, errorCode(t, err))
}

func TestDepartmentServiceDeleteClearsStudentRefs(t *testing.T) {
	repo := newMockDepartmentRepo()
	clear := &mockClearRepo{}
	svc := NewDepartmentService(repo, clear, nil, nil)

	created, err := svc.Create(context.Background(), DepartmentInput{Name: "Physics"})
	require.NoError(t, err)

	ok, err := svc.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, repo.departments)
	assert.Contains(t, clear.cleared, created.ID)
}

func TestDepartmentServiceDeleteAbsentIsSuccess(t *testing.T) {
	svc := NewDepartmentService(newMockDepartmentRepo(), &mockClearRepo{}, nil, nil)

	ok, err := svc.Delete(context.Background(), "absent")
	require.NoError(t, err)
	assert.True(t, ok)
}
