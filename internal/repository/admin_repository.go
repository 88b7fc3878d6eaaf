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

// AdminRepository provides database access for admin accounts.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new instance of AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

const adminColumns = `id, name, email, password_hash, role, email_verified, verification_token, created_at, updated_at`

// FindByEmail returns an admin by email address.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE email = $1 LIMIT 1`, adminColumns)
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	return &admin, nil
}

// FindByVerificationToken returns the admin holding an unconsumed
// verification token.
func (r *AdminRepository) FindByVerificationToken(ctx context.Context, token string) (*models.Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE verification_token = $1 LIMIT 1`, adminColumns)
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin by token: %w", err)
	}
	return &admin, nil
}

// ExistsByEmail checks if an admin with the given email is registered.
func (r *AdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 FROM admins WHERE email = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check admin email: %w", err)
	}
	return true, nil
}

// Create inserts a new admin account.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	admin.Normalize()
	if err := admin.Validate(); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	if admin.Role == "" {
		admin.Role = models.AdminRole
	}
	now := time.Now().UTC()
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now
	const query = `INSERT INTO admins (id, name, email, password_hash, role, email_verified, verification_token, created_at, updated_at)
        VALUES (:id, :name, :email, :password_hash, :role, :email_verified, :verification_token, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// MarkVerified flips the account to verified and clears the one-time token
// so it cannot be redeemed again.
func (r *AdminRepository) MarkVerified(ctx context.Context, id string) error {
	const query = `UPDATE admins SET email_verified = true, verification_token = NULL, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark admin verified: %w", err)
	}
	return nil
}
