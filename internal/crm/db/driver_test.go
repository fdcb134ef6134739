package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	e "github.com/gartstein/crm/internal/crm/errors"
	"github.com/gartstein/crm/internal/crm/filters"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var errConnReset = errors.New("connection reset by peer")

// setupMockDB returns a repository over a postgres dialect backed by sqlmock.
func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), GormConfig(zap.NewNop()))
	require.NoError(t, err)
	return &Repository{db: gdb}, mock
}

func TestGetEmployeeDriverError(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "employees"`).WillReturnError(errConnReset)

	_, err := repo.GetEmployee(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errConnReset)
	assert.NotErrorIs(t, err, e.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEmployeeNoRows(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "employees"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := repo.GetEmployee(context.Background(), uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCompaniesCountError(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "companies" LEFT JOIN \(SELECT company_id AS owner_id`).
		WillReturnError(errConnReset)

	opts, err := filters.ParseListOptions(nil, models.CompanySchema)
	require.NoError(t, err)
	_, _, err = repo.ListCompanies(context.Background(), filters.CompanyFilter{}, opts)
	assert.ErrorIs(t, err, errConnReset)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCompanyRollsBack(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "employees"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "partnerships"`).WillReturnError(errConnReset)
	mock.ExpectRollback()

	err := repo.DeleteCompany(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errConnReset)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfessionNoRowsAffected(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "professions" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	name := "Engineer"
	err := repo.UpdateProfession(context.Background(), &models.ProfessionUpdate{ID: uuid.New(), Name: &name})
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectGivesUpOnUnknownDriver(t *testing.T) {
	start := time.Now()
	_, err := Connect(context.Background(), &Config{Driver: "oracle", ConnectTimeout: time.Minute}, zap.NewNop())
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	assert.Less(t, time.Since(start), 5*time.Second, "a configuration error is not retried")
}
