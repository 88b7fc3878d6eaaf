package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youngtech-edu/records-api/internal/models"
	appErrors "github.com/youngtech-edu/records-api/pkg/errors"
)

type mockStudentRepo struct {
	students    map[string]*models.Student
	departments *mockDepartmentRepo
}

func newMockStudentRepo(departments *mockDepartmentRepo) *mockStudentRepo {
	return &mockStudentRepo{students: map[string]*models.Student{}, departments: departments}
}

func (m *mockStudentRepo) detail(student models.Student) models.StudentDetail {
	detail := models.StudentDetail{Student: student}
	if student.DepartmentID != nil && m.departments != nil {
		if d, ok := m.departments.departments[*student.DepartmentID]; ok {
			detail.DepartmentName = &d.Name
			detail.DepartmentCode = d.Code
		}
	}
	return detail
}

func (m *mockStudentRepo) List(ctx context.Context) ([]models.StudentDetail, error) {
	out := []models.StudentDetail{}
	for _, s := range m.students {
		out = append(out, m.detail(*s))
	}
	return out, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	detail := m.detail(*s)
	return &detail, nil
}

func (m *mockStudentRepo) ListByDepartment(ctx context.Context, departmentID string) ([]models.Student, error) {
	out := []models.Student{}
	for _, s := range m.students {
		if s.DepartmentID != nil && *s.DepartmentID == departmentID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) ExistsByMatricNo(ctx context.Context, matricNo string, excludeID string) (bool, error) {
	for _, s := range m.students {
		if s.MatricNo != nil && *s.MatricNo == matricNo && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	student.Normalize()
	if err := student.Validate(); err != nil {
		return err
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	copied := *student
	m.students[student.ID] = &copied
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student, includePicture bool) error {
	student.Normalize()
	if err := student.Validate(); err != nil {
		return err
	}
	existing, ok := m.students[student.ID]
	if ok && !includePicture {
		student.ProfilePicture = existing.ProfilePicture
	}
	copied := *student
	m.students[student.ID] = &copied
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	return nil
}

func seedDepartment(repo *mockDepartmentRepo, name string) string {
	id := uuid.NewString()
	repo.departments[id] = &models.Department{ID: id, Name: name}
	return id
}

func newStudentFixture(t *testing.T) (*StudentService, *mockStudentRepo, *mockDepartmentRepo) {
	t.Helper()
	departments := newMockDepartmentRepo()
	students := newMockStudentRepo(departments)
	return NewStudentService(students, departments, nil, nil), students, departments
}

func strPtr(s string) *string { return &s }

func TestStudentServiceCreate(t *testing.T) {
	svc, repo, departments := newStudentFixture(t)
	deptID := seedDepartment(departments, "Computer Science")

	detail, err := svc.Create(context.Background(), StudentInput{
		FirstName:    " Ada ",
		LastName:     "Obi",
		MatricNo:     strPtr("CSC/2021/001"),
		Email:        strPtr("Ada@Example.com"),
		GPA:          4.5,
		DepartmentID: &deptID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", detail.FirstName)
	require.NotNil(t, detail.Email)
	assert.Equal(t, "ada@example.com", *detail.Email)
	require.NotNil(t, detail.DepartmentName)
	assert.Equal(t, "Computer Science", *detail.DepartmentName)
	assert.Len(t, repo.students, 1)
}

func TestStudentServiceCreateGPABounds(t *testing.T) {
	svc, _, _ := newStudentFixture(t)

	// Both endpoints of the range are valid.
	for _, gpa := range []float64{0.0, 5.0} {
		_, err := svc.Create(context.Background(), StudentInput{FirstName: "Ada", LastName: "Obi", GPA: gpa})
		require.NoError(t, err)
	}

	for _, gpa := range []float64{-0.1, 5.01} {
		_, err := svc.Create(context.Background(), StudentInput{FirstName: "Ada", LastName: "Obi", GPA: gpa})
		assert.Equal(t, appErrors.ErrGPAOutOfRange.Code, errorCode(t, err))
	}
}

func TestStudentServiceCreateDuplicateMatricNo(t *testing.T) {
	svc, repo, _ := newStudentFixture(t)

	_, err := svc.Create(context.Background(), StudentInput{FirstName: "Ada", LastName: "Obi", MatricNo: strPtr("CSC/2021/001"), GPA: 4.0})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), StudentInput{FirstName: "Ben", LastName: "Okoro", MatricNo: strPtr("CSC/2021/001"), GPA: 3.0})
	assert.Equal(t, appErrors.ErrDuplicateMatricNo.Code, errorCode(t, err))
	assert.Len(t, repo.students, 1)
}

func TestStudentServiceCreateBlankMatricNosCoexist(t *testing.T) {
	svc, repo, _ := newStudentFixture(t)

	// A blank matric number collapses to nil and is exempt from uniqueness.
	for _, matric := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), StudentInput{FirstName: "Ada", LastName: "Obi", MatricNo: strPtr(matric), GPA: 4.0})
		require.NoError(t, err)
	}
	assert.Len(t, repo.students, 2)
	for _, s := range repo.students {
		assert.Nil(t, s.MatricNo)
	}
}

func TestStudentServiceCreateMalformedDepartmentID(t *testing.T) {
	svc, repo, _ := newStudentFixture(t)

	_, err := svc.Create(context.Background(), StudentInput{FirstName: "Ada", LastName: "Obi", GPA: 4.0, DepartmentID: strPtr("not-a-uuid")})
	assert.Equal(t, appErrors.ErrInvalidReference.Code, errorCode(t, err))
	assert.Empty(t, repo.students)
}

func TestStudentServiceCreateDanglingDepartmentID(t *testing.T) {
	svc, repo, _ := newStudentFixture(t)

	absent := uuid.NewString()
	_, err := svc.Create(context.Background(), StudentInput{FirstName: "Ada", LastName: "Obi", GPA: 4.0, DepartmentID: &absent})
	assert.Equal(t, appErrors.ErrReferenceNotFound.Code, errorCode(t, err))
	assert.Empty(t, repo.students)
}

func TestStudentServiceUpdateNotFound(t *testing.T) {
	svc, _, _ := newStudentFixture(t)

	_, err := svc.Update(context.Background(), "absent", StudentInput{FirstName: "Ada", LastName: "Obi", GPA: 4.0})
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}

func TestStudentServiceUpdateKeepsOwnMatricNo(t *testing.T) {
	svc, _, _ := newStudentFixture(t)

	created, err := svc.Create(context.Background(), StudentInput{FirstName: "Ada", LastName: "Obi", MatricNo: strPtr("CSC/2021/001"), GPA: 4.0})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, StudentInput{FirstName: "Ada", LastName: "Obi", MatricNo: strPtr("CSC/2021/001"), GPA: 4.8})
	require.NoError(t, err)
	assert.Equal(t, 4.8, updated.GPA)
}

func TestStudentServiceUpdatePictureOmittedIsUnchanged(t *testing.T) {
	svc, repo, _ := newStudentFixture(t)

	created, err := svc.Create(context.Background(), StudentInput{
		FirstName:         "Ada",
		LastName:          "Obi",
		GPA:               4.0,
		ProfilePicture:    strPtr("https://cdn.example.com/ada.png"),
		ProfilePictureSet: true,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, StudentInput{FirstName: "Ada", LastName: "Obi", GPA: 4.2})
	require.NoError(t, err)
	require.NotNil(t, updated.ProfilePicture)
	assert.Equal(t, "https://cdn.example.com/ada.png", *updated.ProfilePicture)
	require.NotNil(t, repo.students[created.ID].ProfilePicture)
}

func TestStudentServiceUpdateExplicitNullClearsPicture(t *testing.T) {
	svc, repo, _ := newStudentFixture(t)

	created, err := svc.Create(context.Background(), StudentInput{
		FirstName:         "Ada",
		LastName:          "Obi",
		GPA:               4.0,
		ProfilePicture:    strPtr("https://cdn.example.com/ada.png"),
		ProfilePictureSet: true,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, StudentInput{
		FirstName:         "Ada",
		LastName:          "Obi",
		GPA:               4.0,
		ProfilePicture:    nil,
		ProfilePictureSet: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.ProfilePicture)
	assert.Nil(t, repo.students[created.ID].ProfilePicture)
}

func TestStudentServiceDeleteAbsentIsSuccess(t *testing.T) {
	svc, _, _ := newStudentFixture(t)

	ok, err := svc.Delete(context.Background(), "absent")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStudentServiceDelete(t *testing.T) {
	svc, repo, _ := newStudentFixture(t)

	created, err := svc.Create(context.Background(), StudentInput{FirstName: "Ada", LastName: "Obi", GPA: 4.0})
	require.NoError(t, err)

	ok, err := svc.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, repo.students)
}
