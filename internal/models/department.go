package models

import (
	"fmt"
	"strings"
	"time"
)

// Department groups students under a named academic unit.
type Department struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      *string   `db:"code" json:"code,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Normalize applies the field constraints enforced at the persistence
// boundary: names and codes are trimmed, empty optionals become NULL.
func (d *Department) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Code = trimOptional(d.Code)
}

// Validate rejects writes that violate field-level constraints. Name
// uniqueness is the store index's job, not checked here.
func (d *Department) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("department name is required")
	}
	return nil
}

// trimOptional trims an optional string, collapsing blanks to NULL.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
