package models

import (
	"fmt"
	"strings"
	"time"
)

// GPA bounds applied at the persistence boundary.
const (
	GPAMin = 0.0
	GPAMax = 5.0
)

// Student represents a learner registered in the institution.
type Student struct {
	ID             string    `db:"id" json:"id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	MatricNo       *string   `db:"matric_no" json:"matric_no,omitempty"`
	Email          *string   `db:"email" json:"email,omitempty"`
	GPA            float64   `db:"gpa" json:"gpa"`
	DepartmentID   *string   `db:"department_id" json:"department_id,omitempty"`
	ProfilePicture *string   `db:"profile_picture" json:"profile_picture,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Normalize applies field constraints at the persistence boundary: names
// trimmed, matric number trimmed, email trimmed and lower-cased. Blank
// optionals collapse to NULL so the sparse unique index ignores them.
func (s *Student) Normalize() {
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.MatricNo = trimOptional(s.MatricNo)
	s.Email = trimOptional(s.Email)
	if s.Email != nil {
		lowered := strings.ToLower(*s.Email)
		s.Email = &lowered
	}
}

// Validate rejects writes violating field-level constraints. The GPA bound
// is re-checked here even though the service validates it earlier.
func (s *Student) Validate() error {
	if s.FirstName == "" {
		return fmt.Errorf("first name is required")
	}
	if s.LastName == "" {
		return fmt.Errorf("last name is required")
	}
	if s.GPA < GPAMin || s.GPA > GPAMax {
		return fmt.Errorf("gpa %v outside [%v, %v]", s.GPA, GPAMin, GPAMax)
	}
	return nil
}

// StudentDetail contains student information with the referenced
// department joined in for display.
type StudentDetail struct {
	Student
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
	DepartmentCode *string `db:"department_code" json:"department_code,omitempty"`
}

// Department assembles the joined columns into a Department record, or nil
// when the student has no department reference.
func (d *StudentDetail) Department() *Department {
	if d.DepartmentID == nil || d.DepartmentName == nil {
		return nil
	}
	return &Department{
		ID:   *d.DepartmentID,
		Name: *d.DepartmentName,
		Code: d.DepartmentCode,
	}
}
