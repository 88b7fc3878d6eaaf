package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youngtech-edu/records-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDepartmentRepositoryList(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	code := "PHY"
	rows := sqlmock.NewRows([]string{"id", "name", "code", "created_at", "updated_at"}).
		AddRow("dept-1", "Physics", code, time.Now(), time.Now()).
		AddRow("dept-2", "Chemistry", nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, code, created_at, updated_at FROM departments ORDER BY name ASC")).
		WillReturnRows(rows)

	departments, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, departments, 2)
	assert.Equal(t, "Physics", departments[0].Name)
	assert.Nil(t, departments[1].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryExistsByName(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM departments WHERE name = $1 LIMIT 1")).
		WithArgs("Physics").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByName(context.Background(), "Physics", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryExistsByNameExcludesID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM departments WHERE name = $1 AND id <> $2 LIMIT 1")).
		WithArgs("Physics", "dept-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err := repo.ExistsByName(context.Background(), "Physics", "dept-1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	mock.ExpectExec("INSERT INTO departments").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	department := &models.Department{Name: "  Physics  "}
	err := repo.Create(context.Background(), department)
	require.NoError(t, err)
	assert.NotEmpty(t, department.ID)
	assert.Equal(t, "Physics", department.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryCreateRejectsMissingName(t *testing.T) {
	db, _, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	err := repo.Create(context.Background(), &models.Department{Name: "   "})
	require.Error(t, err)
}

func TestDepartmentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM departments WHERE id = $1")).
		WithArgs("dept-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "dept-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
