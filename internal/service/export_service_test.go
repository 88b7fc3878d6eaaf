package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/youngtech-edu/records-api/pkg/errors"
)

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	departments := newMockDepartmentRepo()
	students := newMockStudentRepo(departments)
	deptID := seedDepartment(departments, "Computer Science")
	svc := NewStudentService(students, departments, nil, nil)
	_, err := svc.Create(context.Background(), StudentInput{
		FirstName:    "Ada",
		LastName:     "Obi",
		MatricNo:     strPtr("CSC/2021/001"),
		GPA:          4.5,
		DepartmentID: &deptID,
	})
	require.NoError(t, err)
	return NewExportService(students, departments, nil)
}

func TestExportServiceStudentsCSV(t *testing.T) {
	svc := newExportFixture(t)

	payload, contentType, err := svc.Students(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(payload)
	assert.True(t, strings.HasPrefix(body, "First Name,Last Name,Matric No,Email,GPA,Department"))
	assert.Contains(t, body, "Ada,Obi,CSC/2021/001,,4.50,Computer Science")
}

func TestExportServiceStudentsDefaultsToCSV(t *testing.T) {
	svc := newExportFixture(t)

	_, contentType, err := svc.Students(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
}

func TestExportServiceStudentsPDF(t *testing.T) {
	svc := newExportFixture(t)

	payload, contentType, err := svc.Students(context.Background(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportServiceDepartmentsCSV(t *testing.T) {
	svc := newExportFixture(t)

	payload, contentType, err := svc.Departments(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(payload), "Computer Science")
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	svc := newExportFixture(t)

	_, _, err := svc.Students(context.Background(), "xlsx")
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))
}
