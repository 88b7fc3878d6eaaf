package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youngtech-edu/records-api/internal/models"
)

var adminRows = []string{
	"id", "name", "email", "password_hash", "role",
	"email_verified", "verification_token", "created_at", "updated_at",
}

func TestAdminRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	rows := sqlmock.NewRows(adminRows).
		AddRow("adm-1", "Registrar", "registrar@example.com", "$2a$12$hash", models.AdminRole,
			true, nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, email, password_hash").
		WithArgs("registrar@example.com").
		WillReturnRows(rows)

	admin, err := repo.FindByEmail(context.Background(), "registrar@example.com")
	require.NoError(t, err)
	assert.Equal(t, "adm-1", admin.ID)
	assert.True(t, admin.EmailVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectQuery("SELECT id, name, email, password_hash").
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	admin, err := repo.FindByEmail(context.Background(), "missing@example.com")
	assert.Nil(t, admin)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryFindByVerificationToken(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	token := "abc123"
	rows := sqlmock.NewRows(adminRows).
		AddRow("adm-1", "Registrar", "registrar@example.com", "$2a$12$hash", models.AdminRole,
			false, token, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, email, password_hash").
		WithArgs(token).
		WillReturnRows(rows)

	admin, err := repo.FindByVerificationToken(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, admin.EmailVerified)
	require.NotNil(t, admin.VerificationToken)
	assert.Equal(t, token, *admin.VerificationToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec("INSERT INTO admins").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	admin := &models.Admin{Name: "Registrar", Email: " Registrar@Example.COM ", PasswordHash: "$2a$12$hash"}
	err := repo.Create(context.Background(), admin)
	require.NoError(t, err)
	assert.NotEmpty(t, admin.ID)
	assert.Equal(t, "registrar@example.com", admin.Email)
	assert.Equal(t, models.AdminRole, admin.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryMarkVerified(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE admins SET email_verified = true, verification_token = NULL, updated_at = $2 WHERE id = $1")).
		WithArgs("adm-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkVerified(context.Background(), "adm-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
