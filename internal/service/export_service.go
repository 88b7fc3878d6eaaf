package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/youngtech-edu/records-api/internal/models"
	appErrors "github.com/youngtech-edu/records-api/pkg/errors"
	"github.com/youngtech-edu/records-api/pkg/export"
)

// Supported export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type exportStudentLister interface {
	List(ctx context.Context) ([]models.StudentDetail, error)
}

type exportDepartmentLister interface {
	List(ctx context.Context) ([]models.Department, error)
}

// ExportService renders roster downloads for the admin portal.
type ExportService struct {
	students    exportStudentLister
	departments exportDepartmentLister
	logger      *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(students exportStudentLister, departments exportDepartmentLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{students: students, departments: departments, logger: logger}
}

// Students renders the full student roster in the requested format,
// returning the bytes and content type.
func (s *ExportService) Students(ctx context.Context, format string) ([]byte, string, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, "", storeError(err, "failed to load students for export")
	}
	data := export.Dataset{
		Title:   "Student Roster",
		Headers: []string{"First Name", "Last Name", "Matric No", "Email", "GPA", "Department"},
	}
	for _, student := range students {
		data.Rows = append(data.Rows, []string{
			student.FirstName,
			student.LastName,
			optional(student.MatricNo),
			optional(student.Email),
			strconv.FormatFloat(student.GPA, 'f', 2, 64),
			optional(student.DepartmentName),
		})
	}
	return s.render(data, format)
}

// Departments renders the department list in the requested format.
func (s *ExportService) Departments(ctx context.Context, format string) ([]byte, string, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, "", storeError(err, "failed to load departments for export")
	}
	data := export.Dataset{
		Title:   "Departments",
		Headers: []string{"Name", "Code"},
	}
	for _, department := range departments {
		data.Rows = append(data.Rows, []string{department.Name, optional(department.Code)})
	}
	return s.render(data, format)
}

func (s *ExportService) render(data export.Dataset, format string) ([]byte, string, error) {
	switch format {
	case FormatCSV, "":
		payload, err := export.CSV(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case FormatPDF:
		payload, err := export.PDF(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
