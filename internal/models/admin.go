package models

import (
	"fmt"
	"strings"
	"time"
)

// AdminRole is the single role the portal knows about.
const AdminRole = "super_admin"

// Admin is a portal administrator account. Accounts start unverified and
// may sign in only after redeeming their verification token.
type Admin struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Email             string    `db:"email" json:"email"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	Role              string    `db:"role" json:"role"`
	EmailVerified     bool      `db:"email_verified" json:"email_verified"`
	VerificationToken *string   `db:"verification_token" json:"-"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Normalize trims the name and lower-cases the unique email.
func (a *Admin) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
}

// Validate rejects writes missing required fields.
func (a *Admin) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("admin name is required")
	}
	if a.Email == "" {
		return fmt.Errorf("admin email is required")
	}
	if a.PasswordHash == "" {
		return fmt.Errorf("admin password hash is required")
	}
	return nil
}
